package rename

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SnapshotConfig configures a one-shot render of the widget.
type SnapshotConfig struct {
	Width     int
	Height    int
	NoColor   bool
	StartKeys []string
}

// RenderSnapshot builds a widget, replays the start keys without running any
// commands, and returns the resulting screen. No request is sent.
func RenderSnapshot(opts Options, cfg SnapshotConfig) string {
	if cfg.Width <= 0 {
		cfg.Width = 80
	}
	opts.Width = cfg.Width
	opts.Height = cfg.Height
	opts.StartKeys = cfg.StartKeys
	m := New(opts)

	view := m.Content()
	if cfg.NoColor {
		view = ansi.Strip(view)
	}
	return padSnapshotHeight(view, cfg.Height, cfg.Width)
}

func padSnapshotHeight(view string, height, width int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines[:height], "\n")
	}
	pad := strings.Repeat(" ", max(width, 1))
	for len(lines) < height {
		lines = append(lines, pad)
	}
	return strings.Join(lines, "\n")
}
