package ui

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/oakwood-commons/ccxrename/internal/config"
)

// Template names.
const (
	DisplayNameTemplate   = "display_name"
	FeedbackAlertTemplate = "feedback_alert"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// DisplayNameData parameterizes the display/edit template.
type DisplayNameData struct {
	EditMode      bool
	DisplayName   string
	Label         string
	Field         string
	Button        string
	ButtonVisible bool
}

// FeedbackAlertData parameterizes the feedback banner template.
type FeedbackAlertData struct {
	Message string
	Show    bool
}

// Templates renders the widget's two named templates.
type Templates struct {
	set *template.Template
}

// NewTemplates parses the embedded templates, replacing either one with a
// non-empty override. Template functions style text with th.
func NewTemplates(th Theme, overrides config.TemplatesConfig) (*Templates, error) {
	funcs := template.FuncMap{
		"heading": func(s string) string { return th.Heading.Render(s) },
		"button":  func(s string) string { return th.Button.Render("[" + s + "]") },
		"label":   func(s string) string { return th.Label.Render(s + ":") },
		"hint":    func(s string) string { return th.Hint.Render(s) },
		"upper":   strings.ToUpper,
	}
	set := template.New("ccxrename").Funcs(funcs)
	sources := map[string]string{
		DisplayNameTemplate:   overrides.DisplayName,
		FeedbackAlertTemplate: overrides.FeedbackAlert,
	}
	for name, override := range sources {
		src := override
		if strings.TrimSpace(src) == "" {
			data, err := embeddedTemplates.ReadFile("templates/" + name + ".tmpl")
			if err != nil {
				return nil, fmt.Errorf("read template %s: %w", name, err)
			}
			src = string(data)
		}
		if _, err := set.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return &Templates{set: set}, nil
}

// MustTemplates is NewTemplates without overrides; the embedded sources
// always parse.
func MustTemplates(th Theme) *Templates {
	t, err := NewTemplates(th, config.TemplatesConfig{})
	if err != nil {
		panic(err)
	}
	return t
}

// DisplayName renders the display/edit markup.
func (t *Templates) DisplayName(data DisplayNameData) (string, error) {
	return t.execute(DisplayNameTemplate, data)
}

// FeedbackAlert renders the banner markup.
func (t *Templates) FeedbackAlert(data FeedbackAlertData) (string, error) {
	return t.execute(FeedbackAlertTemplate, data)
}

func (t *Templates) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
