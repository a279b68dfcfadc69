package rename

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys feeds Vim-like key tokens and literal text to the widget
// as if typed. Commands produced along the way are batched and returned so a
// running program can execute them.
func ApplyStartupKeys(m *Model, keys []string) tea.Cmd {
	if m == nil || len(keys) == 0 {
		return nil
	}
	var cmds []tea.Cmd
	send := func(msg tea.Msg) {
		_, cmd := m.Update(msg)
		cmds = append(cmds, cmd)
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		// A leading backslash forces literal text, e.g. "\<CR>".
		if strings.HasPrefix(token, `\`) {
			for _, r := range strings.TrimPrefix(token, `\`) {
				send(tea.KeyPressMsg{Code: r, Text: string(r)})
			}
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isKey {
				for _, r := range segment.text {
					send(tea.KeyPressMsg{Code: r, Text: string(r)})
				}
				continue
			}
			if msg, ok := keyMsgFromToken(segment.text); ok {
				send(msg)
			}
		}
	}
	return tea.Batch(cmds...)
}

type tokenSegment struct {
	text  string
	isKey bool
}

// parseTokenSegments splits "e<C-u>Physics<CR>" into key and literal runs.
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for len(remaining) > 0 {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end == -1 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

// keyMsgFromToken maps "<Esc>", "<CR>", "<Tab>", "<BS>", "<C-u>" and friends
// to key presses. Unknown tokens are ignored.
func keyMsgFromToken(token string) (tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return tea.KeyPressMsg{}, false
	}
	switch strings.ToLower(token[1 : len(token)-1]) {
	case "esc", "escape", "c-[":
		return tea.KeyPressMsg{Code: tea.KeyEscape}, true
	case "cr", "enter", "return":
		return tea.KeyPressMsg{Code: tea.KeyEnter}, true
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}, true
	case "space":
		return tea.KeyPressMsg{Code: ' ', Text: " "}, true
	case "bs", "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}, true
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}, true
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}, true
	case "home":
		return tea.KeyPressMsg{Code: tea.KeyHome}, true
	case "end":
		return tea.KeyPressMsg{Code: tea.KeyEnd}, true
	case "c-u":
		return tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl}, true
	case "c-c":
		return tea.KeyPressMsg{Code: 0x03}, true
	}
	return tea.KeyPressMsg{}, false
}
