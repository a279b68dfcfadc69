package rename

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/ccxrename/internal/i18n"
	"github.com/oakwood-commons/ccxrename/internal/ui/banner"
)

// ErrNoClient is reported when a save is attempted without a Renamer.
var ErrNoClient = errors.New("rename: no client configured")

type saveResultMsg struct {
	seq  int
	name string
	err  error
}

// saveDisplayName runs when the field loses focus. An empty or unchanged
// name leaves edit mode without a request; otherwise a saving banner replaces
// any previous one and the POST is issued.
func (m *Model) saveDisplayName() tea.Cmd {
	if m.pending != nil {
		m.logger.V(1).Info("save already in flight, ignoring focus-out", "pending", m.pending.name)
		return nil
	}
	newName, err := m.store.Validate(m.input.Value())
	if err != nil {
		m.logger.V(1).Info("edit cancelled", "reason", err.Error())
		m.cancelEditMode()
		return nil
	}

	b := m.newBanner(m.t(i18n.MsgSaving), banner.KindInfo)
	m.setBanner(b)
	b.Render()

	m.seq++
	m.pending = &pendingSave{seq: m.seq, name: newName}
	m.logger.V(1).Info("saving display name", "name", newName, "seq", m.seq)
	return tea.Batch(b.Init(), m.saveCmd(m.seq, newName))
}

func (m *Model) saveCmd(seq int, name string) tea.Cmd {
	client := m.client
	parent := m.ctx
	timeout := m.requestTimeout
	return func() tea.Msg {
		if client == nil {
			return saveResultMsg{seq: seq, name: name, err: ErrNoClient}
		}
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return saveResultMsg{seq: seq, name: name, err: client.Rename(ctx, name)}
	}
}

func (m *Model) handleSaveResult(msg saveResultMsg) tea.Cmd {
	if m.pending == nil || msg.seq != m.pending.seq {
		m.logger.V(1).Info("dropping stale save result", "seq", msg.seq)
		return nil
	}
	m.pending = nil

	if msg.err != nil {
		m.lastErr = msg.err
		m.logger.Error(msg.err, "failed to save display name", "name", msg.name)
		b := m.newBanner(m.t(i18n.MsgSaveFailed), banner.KindError)
		m.setBanner(b)
		b.Render()
		if m.editMode {
			return m.input.Focus()
		}
		return nil
	}

	m.lastErr = nil
	m.editMode = false
	m.store.SetDisplayName(msg.name)
	m.logger.Info("display name saved", "name", msg.name)
	var cmds []tea.Cmd
	if m.banner != nil {
		cmds = append(cmds, m.banner.Hide())
	}
	cmds = append(cmds, m.render())
	return tea.Batch(cmds...)
}
