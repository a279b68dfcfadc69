package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/ccxrename/internal/config"
)

// Theme holds the lipgloss styles used by the rename widget and its banner.
type Theme struct {
	Heading lipgloss.Style // Display name in display mode
	Button  lipgloss.Style // Edit button revealed on hover
	Label   lipgloss.Style // Field label in edit mode
	Input   lipgloss.Style // Edit field text
	Shown   lipgloss.Style // Banner in the is-shown state
	Hiding  lipgloss.Style // Banner in the is-hiding state
	Error   lipgloss.Style // Banner reporting a failed save
	Hint    lipgloss.Style // Key hint line
	NoColor bool
}

// NewTheme builds styles from configured colours. Empty or invalid colour
// values leave the corresponding foreground unset. noColor yields PlainTheme.
func NewTheme(cfg config.ThemeConfig, noColor bool) Theme {
	if noColor {
		return PlainTheme()
	}
	th := Theme{
		Heading: lipgloss.NewStyle().Bold(true),
		Button:  lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
		Input:   lipgloss.NewStyle(),
		Shown:   lipgloss.NewStyle(),
		Hiding:  lipgloss.NewStyle().Faint(true),
		Error:   lipgloss.NewStyle().Bold(true),
		Hint:    lipgloss.NewStyle().Faint(true),
	}
	th.Heading = withForeground(th.Heading, cfg.Heading)
	th.Button = withForeground(th.Button.Underline(true), cfg.Button)
	th.Label = withForeground(th.Label, cfg.Hint)
	th.Input = withForeground(th.Input, cfg.Input)
	th.Shown = withForeground(th.Shown, cfg.Shown)
	th.Hiding = withForeground(th.Hiding, cfg.Hiding)
	th.Error = withForeground(th.Error, cfg.Error)
	th.Hint = withForeground(th.Hint, cfg.Hint)
	return th
}

// DefaultTheme returns the palette from the embedded default configuration.
func DefaultTheme() Theme {
	cfg, err := config.Load("")
	if err != nil {
		return NewTheme(config.ThemeConfig{}, false)
	}
	return NewTheme(cfg.Theme, cfg.NoColor)
}

// PlainTheme returns a theme without colours or attributes. Tests and
// snapshots use it to compare plain text.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Heading: plain,
		Button:  plain,
		Label:   plain,
		Input:   plain,
		Shown:   plain,
		Hiding:  plain,
		Error:   plain,
		Hint:    plain,
		NoColor: true,
	}
}

func withForeground(style lipgloss.Style, value string) lipgloss.Style {
	if c := parseColor(value); c != nil {
		return style.Foreground(c)
	}
	return style
}

// parseColor accepts "#rrggbb", "#rgb" or an ANSI index such as "212".
func parseColor(value string) color.Color {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if strings.HasPrefix(value, "#") {
		if len(value) != 4 && len(value) != 7 {
			return nil
		}
		return lipgloss.Color(value)
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return nil
		}
	}
	return lipgloss.Color(value)
}
