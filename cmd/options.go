package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oakwood-commons/ccxrename/internal/api"
	"github.com/oakwood-commons/ccxrename/internal/config"
	"github.com/oakwood-commons/ccxrename/internal/i18n"
	"github.com/oakwood-commons/ccxrename/internal/store"
	"github.com/oakwood-commons/ccxrename/internal/ui"
	"github.com/oakwood-commons/ccxrename/internal/ui/rename"
	"github.com/oakwood-commons/ccxrename/pkg/logger"
)

// bindEnv sets every flag not given on the command line from its
// CCXRENAME_* variable, so explicit flags win over the environment.
func bindEnv(fs *pflag.FlagSet, lookup func(string) (string, bool)) error {
	var errs []string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		value, ok := lookup(config.EnvName(f.Name))
		if !ok {
			return
		}
		if err := fs.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", config.EnvName(f.Name), err))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// applyFlags overlays changed flags onto cfg.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "url":
			cfg.Endpoint.URL = f.Value.String()
		case "name":
			cfg.DisplayName = f.Value.String()
		case "locale":
			cfg.Locale = f.Value.String()
		case "catalog":
			cfg.Catalog = f.Value.String()
		case "log-file":
			cfg.Log.File = f.Value.String()
		case "debug":
			if on, _ := fs.GetBool("debug"); on {
				cfg.Log.Level = "debug"
			}
		case "no-color":
			cfg.NoColor, _ = fs.GetBool("no-color")
		case "timeout":
			cfg.Endpoint.Timeout.Duration, _ = fs.GetDuration("timeout")
		case "banner-delay":
			cfg.Banner.Delay.Duration, _ = fs.GetDuration("banner-delay")
		case "header":
			values, _ := fs.GetStringArray("header")
			var headers map[string]string
			if headers, err = parseHeaders(values); err != nil {
				return
			}
			if cfg.Endpoint.Headers == nil {
				cfg.Endpoint.Headers = map[string]string{}
			}
			for k, v := range headers {
				cfg.Endpoint.Headers[k] = v
			}
		}
	})
	return err
}

// parseHeaders turns ["X-CSRFToken=abc"] into a header map.
func parseHeaders(values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, raw := range values {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q (expected key=value)", raw)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// newClient builds the rename client from the endpoint settings.
func (o *rootOptions) newClient() (*api.Client, error) {
	return api.NewClient(o.cfg.Endpoint.URL,
		api.WithHeaders(o.cfg.Endpoint.Headers),
		api.WithLogger(o.logger()),
	)
}

// widgetOptions assembles everything the rename widget needs from the
// resolved configuration. A blank URL yields a widget without a client,
// which is only useful for snapshots.
func (o *rootOptions) widgetOptions(ctx context.Context, width, height int, keys []string) (rename.Options, error) {
	cfg := o.cfg
	run := o.runSettings()
	catalog, err := i18n.Load(run.Locale, cfg.Catalog)
	if err != nil {
		return rename.Options{}, err
	}
	theme := ui.NewTheme(cfg.Theme, run.NoColor)
	templates, err := ui.NewTemplates(theme, cfg.Templates)
	if err != nil {
		return rename.Options{}, err
	}
	opts := rename.Options{
		Store:          store.NewSeeded(cfg.DisplayName),
		Translate:      catalog.Translator(),
		Theme:          &theme,
		Templates:      templates,
		Logger:         logger.FromContext(ctx),
		Context:        ctx,
		BannerDelay:    cfg.Banner.Delay.Duration,
		RequestTimeout: cfg.Endpoint.Timeout.Duration,
		Width:          width,
		Height:         height,
		StartKeys:      keys,
	}
	if strings.TrimSpace(cfg.Endpoint.URL) != "" {
		client, err := o.newClient()
		if err != nil {
			return rename.Options{}, err
		}
		opts.Client = client
	}
	return opts, nil
}
