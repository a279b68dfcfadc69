// Package i18n provides gettext-style message lookup for the rename UI.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Message ids used by the UI. The English text doubles as the id.
const (
	MsgSaving      = "Saving CCX display name"
	MsgSaveFailed  = "Unable to save CCX display name"
	MsgEdit        = "edit"
	MsgDisplayName = "Display name"
	MsgHintDisplay = "click the name or press e to rename · q to quit"
	MsgHintEdit    = "enter or tab to save · esc to cancel"
)

// DefaultLocale is used when no locale is configured or the requested one is unknown.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var embedded embed.FS

// Catalog maps message ids to translated strings for one locale.
type Catalog struct {
	locale   string
	messages map[string]string
}

// Translator looks up a message id.
type Translator func(msgid string) string

// Load builds a catalog for locale from the embedded translations, then
// overlays entries from overridePath when it is set. Override files are
// decoded as TOML when the extension is .toml and as YAML otherwise.
func Load(locale, overridePath string) (*Catalog, error) {
	locale = normalizeLocale(locale)
	messages, err := loadEmbedded(locale)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		locale = DefaultLocale
		if messages, err = loadEmbedded(DefaultLocale); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(overridePath) != "" {
		extra, err := loadFile(overridePath)
		if err != nil {
			return nil, err
		}
		for k, v := range extra {
			messages[k] = v
		}
	}
	return &Catalog{locale: locale, messages: messages}, nil
}

// Locales lists the embedded locales.
func Locales() []string {
	entries, err := embedded.ReadDir("locales")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return out
}

// Locale reports the locale the catalog resolved to.
func (c *Catalog) Locale() string {
	if c == nil {
		return DefaultLocale
	}
	return c.locale
}

// T returns the translation for msgid, or msgid itself when none exists.
func (c *Catalog) T(msgid string) string {
	if c == nil {
		return msgid
	}
	if v, ok := c.messages[msgid]; ok && v != "" {
		return v
	}
	return msgid
}

// Translator returns c.T as a function value.
func (c *Catalog) Translator() Translator {
	return c.T
}

// normalizeLocale maps "fr_FR.UTF-8" and "fr-FR" to "fr".
func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "._-@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "c" || locale == "posix" {
		return DefaultLocale
	}
	return locale
}

func loadEmbedded(locale string) (map[string]string, error) {
	data, err := embedded.ReadFile("locales/" + locale + ".yaml")
	if err != nil {
		return nil, nil //nolint:nilerr // unknown locale falls back to the default
	}
	messages := map[string]string{}
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decode embedded catalog %s: %w", locale, err)
	}
	return messages, nil
}

func loadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	messages := map[string]string{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &messages)
	default:
		err = yaml.Unmarshal(data, &messages)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return messages, nil
}
