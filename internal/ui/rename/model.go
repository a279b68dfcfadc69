// Package rename implements the inline display name editor: a heading that
// turns into a text field on click and saves the new name in the background.
package rename

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/go-logr/logr"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/ccxrename/internal/i18n"
	"github.com/oakwood-commons/ccxrename/internal/store"
	"github.com/oakwood-commons/ccxrename/internal/ui"
	"github.com/oakwood-commons/ccxrename/internal/ui/banner"
)

// headingRow is the screen row holding the display name (or the edit field).
const headingRow = 0

// DefaultRequestTimeout bounds a single save request.
const DefaultRequestTimeout = 10 * time.Second

// Renamer persists a new display name.
type Renamer interface {
	Rename(ctx context.Context, name string) error
}

// Options configures a Model. Store is required; everything else has a default.
type Options struct {
	Store          *store.Store
	Client         Renamer
	Translate      i18n.Translator
	Theme          *ui.Theme
	Templates      *ui.Templates
	Logger         *logr.Logger
	Context        context.Context
	BannerDelay    time.Duration
	RequestTimeout time.Duration
	Width          int
	Height         int
	// StartKeys are replayed through Update once the widget is built.
	StartKeys []string
}

type pendingSave struct {
	seq  int
	name string
}

// Model is the rename widget.
type Model struct {
	store          *store.Store
	client         Renamer
	t              i18n.Translator
	theme          ui.Theme
	templates      *ui.Templates
	logger         logr.Logger
	ctx            context.Context
	bannerDelay    time.Duration
	requestTimeout time.Duration

	editMode      bool
	buttonVisible bool
	input         textinput.Model
	banner        *banner.Model
	pending       *pendingSave
	seq           int
	renders       int
	lastErr       error

	width    int
	height   int
	quitting bool
	initCmd  tea.Cmd
}

// New builds a widget in display mode.
func New(opts Options) *Model {
	m := &Model{
		store:          opts.Store,
		client:         opts.Client,
		t:              opts.Translate,
		templates:      opts.Templates,
		logger:         logr.Discard(),
		ctx:            opts.Context,
		bannerDelay:    opts.BannerDelay,
		requestTimeout: opts.RequestTimeout,
		width:          opts.Width,
		height:         opts.Height,
	}
	if m.store == nil {
		m.store = store.New()
	}
	if m.t == nil {
		m.t = func(s string) string { return s }
	}
	if opts.Theme != nil {
		m.theme = *opts.Theme
	} else {
		m.theme = ui.DefaultTheme()
	}
	if m.templates == nil {
		m.templates = ui.MustTemplates(m.theme)
	}
	if opts.Logger != nil {
		m.logger = opts.Logger.WithName("rename")
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.bannerDelay <= 0 {
		m.bannerDelay = banner.DefaultDelay
	}
	if m.requestTimeout <= 0 {
		m.requestTimeout = DefaultRequestTimeout
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = m.t(i18n.MsgDisplayName)
	ti.CharLimit = 255
	m.input = ti
	m.SetSize(m.width, m.height)
	m.render()
	m.initCmd = ApplyStartupKeys(m, opts.StartKeys)
	return m
}

// Init implements tea.Model. It runs whatever the start keys produced.
func (m *Model) Init() tea.Cmd {
	return m.initCmd
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.MouseClickMsg:
		return m, m.handleClick(msg.Mouse())
	case tea.MouseMotionMsg:
		m.handleMotion(msg.Mouse())
		return m, nil
	case tea.BlurMsg:
		if m.editMode {
			return m, m.saveDisplayName()
		}
		return m, nil
	case saveResultMsg:
		return m, m.handleSaveResult(msg)
	case banner.RerenderMsg, spinner.TickMsg:
		return m, m.updateBanner(msg)
	}
	if m.editMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" || msg.Code == 0x03 {
		m.quitting = true
		return tea.Quit
	}
	if m.editMode {
		switch key {
		case "enter", "tab":
			return m.saveDisplayName()
		case "esc":
			m.cancelEditMode()
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	switch key {
	case "e", "enter":
		return m.editDisplayName()
	case "q":
		m.quitting = true
		return tea.Quit
	}
	return nil
}

func (m *Model) handleClick(mouse tea.Mouse) tea.Cmd {
	if mouse.Button != tea.MouseLeft {
		return nil
	}
	if m.editMode {
		// A click on the field row keeps focus; anywhere else blurs it.
		if mouse.Y == headingRow {
			return nil
		}
		return m.saveDisplayName()
	}
	if m.onHeading(mouse.X, mouse.Y) {
		return m.editDisplayName()
	}
	return nil
}

func (m *Model) handleMotion(mouse tea.Mouse) {
	if m.editMode {
		return
	}
	if m.onHeading(mouse.X, mouse.Y) {
		m.showEditButton()
	} else {
		m.hideEditButton()
	}
}

func (m *Model) onHeading(x, y int) bool {
	if y != headingRow || x < 0 {
		return false
	}
	line, _, _ := strings.Cut(m.displayMarkup(true), "\n")
	return x < ansi.StringWidth(line)
}

func (m *Model) showEditButton() {
	m.buttonVisible = true
}

func (m *Model) hideEditButton() {
	m.buttonVisible = false
}

// editDisplayName opens the field. It stays closed while a save is in
// flight; the saving banner is the feedback.
func (m *Model) editDisplayName() tea.Cmd {
	if m.pending != nil {
		m.logger.V(1).Info("save in flight, not reopening editor", "pending", m.pending.name)
		return nil
	}
	m.editMode = true
	m.logger.V(1).Info("edit mode entered")
	return m.render()
}

// cancelEditMode leaves edit mode without saving. A failure banner from an
// earlier attempt is dropped with it.
func (m *Model) cancelEditMode() {
	m.editMode = false
	if m.banner != nil && m.banner.Kind() == banner.KindError {
		m.clearBanner()
	}
	m.render()
}

// render commits the current mode: entering edit mode seeds and focuses the
// field, leaving it blurs the field. The edit button is always hidden
// afterwards.
func (m *Model) render() tea.Cmd {
	m.renders++
	var cmd tea.Cmd
	if m.editMode {
		if !m.input.Focused() {
			name, _ := m.store.CurrentName()
			m.input.SetValue(name)
			m.input.CursorEnd()
			cmd = m.input.Focus()
		}
	} else {
		m.input.Blur()
	}
	m.hideEditButton()
	return cmd
}

// setBanner installs b as the only banner, discarding the previous one.
func (m *Model) setBanner(b *banner.Model) {
	if m.banner != nil && m.banner != b {
		m.banner.Discard()
	}
	m.banner = b
}

func (m *Model) clearBanner() {
	if m.banner != nil {
		m.banner.Discard()
	}
	m.banner = nil
}

func (m *Model) newBanner(message string, kind banner.Kind) *banner.Model {
	return banner.New(message,
		banner.WithKind(kind),
		banner.WithDelay(m.bannerDelay),
		banner.WithTheme(m.theme),
		banner.WithTemplates(m.templates),
	)
}

func (m *Model) updateBanner(msg tea.Msg) tea.Cmd {
	if m.banner == nil {
		return nil
	}
	var cmd tea.Cmd
	m.banner, cmd = m.banner.Update(msg)
	return cmd
}

// SetSize records the window size and fits the field to it.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width <= 0 {
		m.input.SetWidth(40)
		return
	}
	labelWidth := runewidth.StringWidth(m.t(i18n.MsgDisplayName)) + 2
	m.input.SetWidth(max(width-labelWidth-1, 10))
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Content())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.ReportFocus = true
	return v
}

// Content renders the heading or field, the banner slot and the hint line.
func (m *Model) Content() string {
	if m.quitting {
		return ""
	}
	lines := []string{m.displayMarkup(m.buttonVisible)}
	if m.banner != nil {
		if bv := m.banner.View(); bv != "" {
			lines = append(lines, bv)
		}
	}
	hint := i18n.MsgHintDisplay
	if m.editMode {
		hint = i18n.MsgHintEdit
	}
	lines = append(lines, m.theme.Hint.Render(m.t(hint)))
	return strings.Join(lines, "\n")
}

func (m *Model) displayMarkup(buttonVisible bool) string {
	name, _ := m.store.CurrentName()
	button := m.t(i18n.MsgEdit)
	data := ui.DisplayNameData{
		EditMode:      m.editMode,
		DisplayName:   m.fitName(name, button),
		Label:         m.t(i18n.MsgDisplayName),
		Field:         m.theme.Input.Render(m.input.View()),
		Button:        button,
		ButtonVisible: buttonVisible,
	}
	out, err := m.templates.DisplayName(data)
	if err != nil {
		m.logger.Error(err, "display template failed")
		return name
	}
	return out
}

// fitName truncates name so the heading and its button fit the window.
func (m *Model) fitName(name, button string) string {
	if m.width <= 0 {
		return name
	}
	budget := m.width - runewidth.StringWidth(button) - 4
	if budget < 1 {
		budget = 1
	}
	return runewidth.Truncate(name, budget, "…")
}

// EditMode reports whether the field is open.
func (m *Model) EditMode() bool { return m.editMode }

// ButtonVisible reports whether the edit button is revealed.
func (m *Model) ButtonVisible() bool { return m.buttonVisible }

// DisplayName returns the committed display name.
func (m *Model) DisplayName() (string, bool) { return m.store.CurrentName() }

// Value returns the edit field's current text.
func (m *Model) Value() string { return m.input.Value() }

// Banner returns the active banner, or nil.
func (m *Model) Banner() *banner.Model { return m.banner }

// Pending returns the name being saved, if a save is in flight.
func (m *Model) Pending() (string, bool) {
	if m.pending == nil {
		return "", false
	}
	return m.pending.name, true
}

// Renders counts render passes.
func (m *Model) Renders() int { return m.renders }

// Err returns the error from the last failed save; a successful save clears it.
func (m *Model) Err() error { return m.lastErr }
