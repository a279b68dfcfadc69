package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/ccxrename/internal/config"
	"github.com/oakwood-commons/ccxrename/pkg/settings"
)

// isolate keeps user config files and CCXRENAME_* variables out of a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, config.EnvPrefix) {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

type renameServer struct {
	*httptest.Server
	mu     sync.Mutex
	names  []string
	status string
}

func newRenameServer(t *testing.T, status string) *renameServer {
	t.Helper()
	rs := &renameServer{status: status}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rs.mu.Lock()
		rs.names = append(rs.names, r.PostForm.Get("name"))
		rs.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":%q}`, rs.status)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *renameServer) received() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.names...)
}

func TestBindEnvSkipsExplicitFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("url", "", "")
	fs.String("locale", "", "")
	fs.Duration("timeout", 0, "")
	require.NoError(t, fs.Parse([]string{"--url", "http://flag"}))

	env := map[string]string{
		"CCXRENAME_URL":     "http://env",
		"CCXRENAME_LOCALE":  "fr",
		"CCXRENAME_TIMEOUT": "3s",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	require.NoError(t, bindEnv(fs, lookup))

	url, _ := fs.GetString("url")
	locale, _ := fs.GetString("locale")
	timeout, _ := fs.GetDuration("timeout")
	assert.Equal(t, "http://flag", url)
	assert.Equal(t, "fr", locale)
	assert.Equal(t, 3*time.Second, timeout)
}

func TestBindEnvRejectsBadValues(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Duration("timeout", 0, "")
	err := bindEnv(fs, func(string) (string, bool) { return "soon", true })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CCXRENAME_TIMEOUT")
}

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    map[string]string
		wantErr bool
	}{
		{name: "none", in: nil, want: map[string]string{}},
		{name: "pairs", in: []string{"X-CSRFToken=abc", " Cookie = sessionid=1 "}, want: map[string]string{"X-CSRFToken": "abc", "Cookie": "sessionid=1"}},
		{name: "missing equals", in: []string{"X-CSRFToken"}, wantErr: true},
		{name: "empty key", in: []string{"=abc"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHeaders(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigPrecedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint:
  url: http://file/rename
  timeout: 7s
  headers:
    X-From: file
display_name: From File
locale: es
banner:
  delay: 3s
`), 0o600))

	t.Setenv("CCXRENAME_URL", "http://env/rename")
	t.Setenv("CCXRENAME_LOCALE", "fr")
	t.Setenv("CCXRENAME_NAME", "From Env")

	out, err := execute(t, "config", "get", "-o", "json",
		"--config-file", path,
		"--name", "From Flag",
		"--header", "X-Extra=1",
	)
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "http://env/rename", cfg.Endpoint.URL, "env beats file")
	assert.Equal(t, "fr", cfg.Locale, "env beats file")
	assert.Equal(t, "From Flag", cfg.DisplayName, "flag beats env")
	assert.Equal(t, 7*time.Second, cfg.Endpoint.Timeout.Duration, "file beats defaults")
	assert.Equal(t, 3*time.Second, cfg.Banner.Delay.Duration)
	assert.Equal(t, map[string]string{"X-From": "file", "X-Extra": "1"}, cfg.Endpoint.Headers)
}

func TestConfigGetFormats(t *testing.T) {
	isolate(t)
	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			out, err := execute(t, "config", "get", "-o", format, "--url", "http://x/rename")
			require.NoError(t, err)
			assert.Contains(t, out, "http://x/rename")
		})
	}
	_, err := execute(t, "config", "get", "-o", "xml")
	assert.Error(t, err)

	out, err := execute(t, "config", "defaults")
	require.NoError(t, err)
	assert.Equal(t, string(config.DefaultConfigYAML()), out)
}

func TestSetCommand(t *testing.T) {
	isolate(t)
	srv := newRenameServer(t, "ok")

	out, err := execute(t, "set", "  Physics 102 ", "--url", srv.URL, "--name", "Physics 101")
	require.NoError(t, err)
	assert.Equal(t, "Physics 102\n", out)
	assert.Equal(t, []string{"Physics 102"}, srv.received())

	out, err = execute(t, "set", "Physics 103", "--json", "--url", srv.URL, "--name", "Physics 102")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Physics 103"}`, out)
}

func TestSetCommandUnchangedSendsNothing(t *testing.T) {
	isolate(t)
	srv := newRenameServer(t, "ok")

	out, err := execute(t, "set", "Physics 101", "--url", srv.URL, "--name", "Physics 101")
	require.NoError(t, err)
	assert.Equal(t, "Physics 101\n", out)
	assert.Empty(t, srv.received())

	_, err = execute(t, "set", "   ", "--url", srv.URL, "--name", "Physics 101")
	require.Error(t, err)
	assert.Empty(t, srv.received())
}

func TestSetCommandReportsServerRejection(t *testing.T) {
	isolate(t)
	srv := newRenameServer(t, "error")

	_, err := execute(t, "set", "Physics 102", "--url", srv.URL, "--name", "Physics 101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set display name")
}

func TestRootRequiresURL(t *testing.T) {
	isolate(t)
	_, err := execute(t, "--name", "Physics 101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint.url is required")
}

func TestSnapshot(t *testing.T) {
	isolate(t)
	out, err := execute(t, "--snapshot", "--no-color", "--width", "40", "--height", "4", "--name", "Physics 101")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Physics 101", lines[0])
	assert.Contains(t, lines[1], "press e to rename")
}

func TestSnapshotWithPressAndLocale(t *testing.T) {
	isolate(t)
	srv := newRenameServer(t, "ok")
	out, err := execute(t, "--snapshot", "--no-color", "--width", "60",
		"--url", srv.URL, "--name", "Physique", "--locale", "fr",
		"--press", "e<C-u>Chimie<CR>")
	require.NoError(t, err)
	assert.Contains(t, out, "Chimie")
	assert.NotContains(t, out, "Saving CCX display name", "banner text is translated")
	assert.Empty(t, srv.received(), "snapshots never send requests")
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ccxrename "))

	out, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, cliVersionString()+"\n", out)
}

func TestTerminalDeviceNames(t *testing.T) {
	in, out := terminalDeviceNames("windows")
	assert.Equal(t, "CONIN$", in)
	assert.Equal(t, "CONOUT$", out)
	in, out = terminalDeviceNames("linux")
	assert.Equal(t, "/dev/tty", in)
	assert.Equal(t, "/dev/tty", out)
}

func TestDetectTerminalSize(t *testing.T) {
	orig := termGetSize
	defer func() { termGetSize = orig }()

	termGetSize = func(int) (int, int, error) { return 120, 40, nil }
	w, h := detectTerminalSize()
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)

	termGetSize = func(int) (int, int, error) { return 0, 0, errors.New("not a tty") }
	t.Setenv("COLUMNS", "99")
	w, _ = detectTerminalSize()
	assert.Equal(t, 99, w)

	t.Setenv("COLUMNS", "")
	w, _ = detectTerminalSize()
	assert.Equal(t, defaultFallbackTermWidth, w)
}

func TestGetProgramOptionsFallsBackWithoutTTY(t *testing.T) {
	origStdin, origOpen := stdinIsTerminalFn, openTerminalIOFn
	defer func() { stdinIsTerminalFn, openTerminalIOFn = origStdin, origOpen }()

	stdinIsTerminalFn = func() bool { return false }
	openTerminalIOFn = func() (*os.File, *os.File, error) { return nil, nil, errors.New("no tty") }
	opts, cleanup := getProgramOptions(t.Context())
	defer cleanup()
	assert.Len(t, opts, 1, "only the context option")
}

func TestLogSink(t *testing.T) {
	tests := []struct {
		name string
		run  settings.Run
		want string
	}{
		{name: "file wins", run: settings.Run{LogFile: "/tmp/ccx.log", Interactive: true}, want: "/tmp/ccx.log"},
		{name: "tui without file", run: settings.Run{Interactive: true}, want: ""},
		{name: "batch command", run: settings.Run{}, want: "stderr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logSink(&tt.run))
		})
	}
}

func TestRunSettingsFromContext(t *testing.T) {
	o := &rootOptions{}
	assert.Equal(t, settings.NewCliParams(), o.runSettings(), "defaults before resolve")

	want := &settings.Run{Locale: "es", NoColor: true}
	o.ctx = settings.IntoContext(t.Context(), want)
	assert.Same(t, want, o.runSettings())
}

func TestWidgetOptionsUseRunSettings(t *testing.T) {
	isolate(t)
	cfg, err := config.Load("")
	require.NoError(t, err)
	o := &rootOptions{cfg: cfg}
	o.ctx = settings.IntoContext(t.Context(), &settings.Run{Locale: "fr", NoColor: true})

	opts, err := o.widgetOptions(o.ctx, 40, 0, nil)
	require.NoError(t, err)
	assert.True(t, opts.Theme.NoColor)
	assert.Equal(t, "modifier", opts.Translate("edit"))
	assert.Nil(t, opts.Client, "no URL, no client")
}
