// Package banner implements the transient feedback notice shown while a
// display name is being saved.
//
// A banner starts shown. Hide switches it to hiding and schedules one
// delayed re-render; that pass renders the template with Show=false and the
// banner settles as hidden:
//
//	shown --Hide()--> hiding --(RerenderMsg, Render())--> hidden
//
// Each banner has a unique id. A RerenderMsg for another id, or one that
// arrives after Discard, is ignored, so a replaced banner never redraws.
package banner

import (
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/ccxrename/internal/ui"
)

// DefaultDelay is how long a hiding banner waits before its final render.
const DefaultDelay = 1000 * time.Millisecond

// Visual classes, named after the notification element's CSS states.
const (
	ClassShown  = "is-shown"
	ClassHiding = "is-hiding"
)

// Phase is the banner's visual state.
type Phase int

const (
	PhaseShown Phase = iota
	PhaseHiding
	PhaseHidden
)

func (p Phase) String() string {
	switch p {
	case PhaseShown:
		return "shown"
	case PhaseHiding:
		return "hiding"
	case PhaseHidden:
		return "hidden"
	}
	return "unknown"
}

// Kind selects the banner's styling.
type Kind int

const (
	KindInfo Kind = iota
	KindError
)

// RerenderMsg is delivered when a hiding banner's delay elapses.
type RerenderMsg struct {
	ID int
}

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// Model is a single feedback banner.
type Model struct {
	id        int
	message   string
	visible   bool
	phase     Phase
	kind      Kind
	delay     time.Duration
	markup    string
	renders   int
	discarded bool
	err       error

	theme     ui.Theme
	templates *ui.Templates
	spinner   spinner.Model
}

// Option configures a banner.
type Option func(*Model)

// WithDelay sets the hide delay. Non-positive values keep DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.delay = d
		}
	}
}

// WithKind sets the banner kind.
func WithKind(k Kind) Option {
	return func(m *Model) { m.kind = k }
}

// WithTheme sets the styles used by View.
func WithTheme(th ui.Theme) Option {
	return func(m *Model) { m.theme = th }
}

// WithTemplates sets the template set used by Render.
func WithTemplates(t *ui.Templates) Option {
	return func(m *Model) { m.templates = t }
}

// New returns a shown banner carrying message. Nothing is rendered until
// Render is called.
func New(message string, opts ...Option) *Model {
	m := &Model{
		id:      nextID(),
		message: message,
		visible: true,
		phase:   PhaseShown,
		delay:   DefaultDelay,
		theme:   ui.PlainTheme(),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.templates == nil {
		m.templates = ui.MustTemplates(m.theme)
	}
	return m
}

// Init starts the spinner for info banners.
func (m *Model) Init() tea.Cmd {
	if m.kind != KindInfo || m.phase != PhaseShown {
		return nil
	}
	return m.spinner.Tick
}

// Render executes the feedback template for the current message and
// visibility. A visible banner is (re)shown; an invisible one that was
// hiding becomes hidden.
func (m *Model) Render() *Model {
	markup, err := m.templates.FeedbackAlert(ui.FeedbackAlertData{Message: m.message, Show: m.visible})
	m.err = err
	if err != nil {
		markup = ""
		if m.visible {
			markup = m.message
		}
	}
	m.markup = markup
	m.renders++
	if m.visible {
		m.showFeedbackMessage()
	} else if m.phase == PhaseHiding {
		m.phase = PhaseHidden
	}
	return m
}

func (m *Model) showFeedbackMessage() {
	m.phase = PhaseShown
	m.visible = true
}

// Hide starts the hiding transition and returns the delayed re-render.
func (m *Model) Hide() tea.Cmd {
	m.phase = PhaseHiding
	m.visible = false
	id := m.id
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return RerenderMsg{ID: id}
	})
}

// Discard tears the banner down. Pending re-renders become no-ops.
func (m *Model) Discard() {
	m.discarded = true
}

// Update handles the delayed re-render and spinner ticks.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if m.discarded {
		return m, nil
	}
	switch msg := msg.(type) {
	case RerenderMsg:
		if msg.ID == m.id {
			m.Render()
		}
	case spinner.TickMsg:
		if m.kind != KindInfo || m.phase != PhaseShown {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the banner in its current class. Hidden, discarded and
// unrendered banners are empty.
func (m *Model) View() string {
	if m.discarded || m.phase == PhaseHidden || m.markup == "" {
		return ""
	}
	text := m.markup
	style := m.theme.Shown
	switch {
	case m.phase == PhaseHiding:
		style = m.theme.Hiding
	case m.kind == KindError:
		style = m.theme.Error
	default:
		text = m.spinner.View() + " " + text
	}
	return style.Render(text)
}

// ID returns the banner's unique id.
func (m *Model) ID() int { return m.id }

// Message returns the banner text.
func (m *Model) Message() string { return m.message }

// Visible reports the template's show flag.
func (m *Model) Visible() bool { return m.visible }

// Phase returns the current visual state.
func (m *Model) Phase() Phase { return m.phase }

// Kind returns the banner kind.
func (m *Model) Kind() Kind { return m.kind }

// Delay returns the hide delay.
func (m *Model) Delay() time.Duration { return m.delay }

// Renders counts completed Render passes.
func (m *Model) Renders() int { return m.renders }

// Discarded reports whether Discard was called.
func (m *Model) Discarded() bool { return m.discarded }

// Err returns the last template error, if any.
func (m *Model) Err() error { return m.err }

// Class returns the notification's CSS-style state class; empty once hidden.
func (m *Model) Class() string {
	switch m.phase {
	case PhaseShown:
		return ClassShown
	case PhaseHiding:
		return ClassHiding
	}
	return ""
}
