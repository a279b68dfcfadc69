// Package cmd implements the ccxrename command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ccxrename/internal/config"
	"github.com/oakwood-commons/ccxrename/internal/ui/rename"
	"github.com/oakwood-commons/ccxrename/pkg/logger"
	"github.com/oakwood-commons/ccxrename/pkg/settings"
)

// rootOptions carries the flags that only affect how the TUI is launched.
type rootOptions struct {
	configFile string
	press      []string
	snapshot   bool
	width      int
	height     int

	// resolved in PersistentPreRunE
	cfg config.Config
	ctx context.Context
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "Rename a CCX course display name from the terminal",
		Long: `ccxrename shows the current CCX display name. Hover or click the name
(or press e) to edit it; enter, tab or clicking elsewhere saves it to the
configured endpoint. Esc cancels.`,
		Example: "  ccxrename --url https://studio.example.edu/course/ccx/rename --name 'Physics 101'\n" +
			"  ccxrename --snapshot --press 'e<C-u>Physics 102' --url http://localhost:8000/rename\n" +
			"  ccxrename set 'Physics 102' --url http://localhost:8000/rename",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       cliVersionString(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.snapshot {
				return opts.runSnapshot(cmd.OutOrStdout())
			}
			return opts.runTUI()
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config-file", "", "path to a YAML, TOML or JSON config file")
	pf.String("url", "", "rename endpoint URL (POST name=<display name>)")
	pf.String("name", "", "current CCX display name")
	pf.String("locale", "", "UI language (en, fr, es)")
	pf.String("catalog", "", "YAML or TOML file overriding UI messages")
	pf.Bool("debug", false, "log at debug level")
	pf.String("log-file", "", "write JSON logs to this file")
	pf.Bool("no-color", false, "disable color output")
	pf.Duration("timeout", 0, "request timeout (default from config)")
	pf.Duration("banner-delay", 0, "delay before the saving banner's final render (default from config)")
	pf.StringArray("header", nil, "extra request header as key=value (repeatable)")

	f := cmd.Flags()
	f.StringArrayVar(&opts.press, "press", nil, "simulate keys on startup, e.g. --press 'e<C-u>Physics 102<CR>'")
	f.BoolVar(&opts.snapshot, "snapshot", false, "render a single frame to stdout and exit; no request is sent")
	f.IntVar(&opts.width, "width", 0, "snapshot width in columns (default: terminal width)")
	f.IntVar(&opts.height, "height", 0, "snapshot height in rows (default: content height)")

	cmd.AddCommand(newSetCmd(opts), newConfigCmd(opts), newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// resolve merges configuration, sets up logging and stores run settings.
func (o *rootOptions) resolve(cmd *cobra.Command) error {
	fs := cmd.Flags()
	if err := bindEnv(fs, os.LookupEnv); err != nil {
		return err
	}
	cfg, err := config.Load(config.ResolvePath(o.configFile))
	if err != nil {
		return err
	}
	if err := applyFlags(&cfg, fs); err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	o.cfg = cfg

	interactive := cmd.Parent() == nil && !o.snapshot
	run := settings.NewCliParams()
	run.MinLogLevel = level
	run.LogFile = cfg.Log.File
	run.Locale = cfg.Locale
	run.NoColor = cfg.NoColor
	run.Interactive = interactive

	lgr := logger.Get(run.MinLogLevel, logSink(run))
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	o.ctx = settings.IntoContext(ctx, run)
	return nil
}

func (o *rootOptions) logger() logr.Logger {
	return *logger.FromContext(o.ctx)
}

// runSettings returns the settings stored by resolve, or CLI defaults.
func (o *rootOptions) runSettings() *settings.Run {
	if o.ctx != nil {
		if run, ok := settings.FromContext(o.ctx); ok {
			return run
		}
	}
	return settings.NewCliParams()
}

// logSink picks where logs go: the configured file, else stderr for
// commands that do not own the terminal, else nowhere.
func logSink(run *settings.Run) string {
	if run.LogFile != "" {
		return run.LogFile
	}
	if !run.Interactive {
		return "stderr"
	}
	return ""
}

func (o *rootOptions) runTUI() error {
	if err := config.Validate(o.cfg); err != nil {
		return err
	}
	lgr := o.logger()
	ctx, cancel := context.WithCancel(o.ctx)
	defer cancel()

	width, height := detectTerminalSize()
	widgetOpts, err := o.widgetOptions(ctx, width, height, o.press)
	if err != nil {
		return err
	}
	model := rename.New(widgetOpts)

	progOpts, cleanup := getProgramOptions(ctx)
	defer cleanup()
	lgr.Info("starting rename session", logger.EndpointKey, o.cfg.Endpoint.URL)
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if name, ok := model.DisplayName(); ok {
		lgr.V(1).Info("session finished", "name", name)
	}
	return nil
}

func (o *rootOptions) runSnapshot(w io.Writer) error {
	width := o.width
	if width <= 0 {
		width, _ = detectTerminalSize()
	}
	widgetOpts, err := o.widgetOptions(o.ctx, width, o.height, nil)
	if err != nil {
		return err
	}
	out := rename.RenderSnapshot(widgetOpts, rename.SnapshotConfig{
		Width:     width,
		Height:    o.height,
		NoColor:   o.runSettings().NoColor,
		StartKeys: o.press,
	})
	_, err = fmt.Fprintln(w, out)
	return err
}
