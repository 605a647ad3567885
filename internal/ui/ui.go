package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/services"
	"github.com/desertthunder/moviefight/internal/session"
	"github.com/desertthunder/moviefight/internal/shared"
)

// Focus is the widget receiving key presses.
type Focus int

const (
	InputFocus Focus = iota
	ListFocus
)

// Opts configures a [Model].
type Opts struct {
	Logger    *log.Logger
	OnMatchup func(compare.Matchup)
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	gateway   services.Gateway
	logger    *log.Logger
	onMatchup func(compare.Matchup)

	state   session.State
	lookups int
	focus   Focus
	input   textinput.Model
	results list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

// NewModel creates a new TUI model that searches and looks up through gateway.
func NewModel(ctx context.Context, gateway services.Gateway, opts Opts) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	input := textinput.New()
	input.Placeholder = "Search for a movie"
	input.Prompt = "🔎 "
	input.CharLimit = 120
	input.Focus()

	results := list.New(nil, list.NewDefaultDelegate(), 80, 12)
	results.Title = "Results"
	results.SetShowHelp(false)
	results.SetFilteringEnabled(false)
	results.SetShowStatusBar(false)

	return &Model{
		ctx:       ctx,
		gateway:   gateway,
		logger:    shared.WithLogger(opts.Logger, "component", "tui"),
		onMatchup: opts.OnMatchup,
		input:     input,
		results:   results,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// State returns the current comparison state.
func (m *Model) State() session.State { return m.state }

// Phase reports what the model is waiting on, if anything.
func (m *Model) Phase() session.Phase { return session.PhaseOf(m.state, m.lookups) }

// Focus returns the widget receiving key presses.
func (m *Model) Focus() Focus { return m.focus }

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.results.SetSize(max(msg.Width-4, 20), max(msg.Height/2-4, 5))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.force) {
			return m, tea.Quit
		}
		if m.focus == ListFocus {
			return m.handleListKeys(msg)
		}
		return m.handleInputKeys(msg)

	case settledMsg:
		m.logger.Debug("settled", "event", fmt.Sprintf("%T", msg.event))
		return m, m.dispatch(msg.event)

	case spinner.TickMsg:
		if p := m.Phase(); p != session.Searching && p != session.Selecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// dispatch applies e to the state, syncs the widgets and starts any resulting gateway call.
func (m *Model) dispatch(e session.Event) tea.Cmd {
	var eff session.Effect
	m.state, eff = session.Reduce(m.state, e)

	if m.input.Value() != m.state.Query {
		m.input.SetValue(m.state.Query)
	}
	m.results.SetItems(resultItems(m.state.Results))

	switch e := e.(type) {
	case session.SearchSettled:
		if len(m.state.Results) > 0 {
			m.results.Select(0)
			m.setFocus(ListFocus)
		}
	case session.SelectSettled:
		m.lookups = max(m.lookups-1, 0)
		if e.Record != nil {
			m.setFocus(InputFocus)
			m.notify()
		}
	}

	cmd := run(m.ctx, m.gateway, eff)
	switch eff.(type) {
	case session.SearchEffect:
		return tea.Batch(cmd, m.spinner.Tick)
	case session.LookupEffect:
		m.lookups++
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

func (m *Model) notify() {
	if m.onMatchup == nil {
		return
	}
	if mu := m.state.Matchup(); mu.Complete() {
		m.onMatchup(mu)
	}
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	if f == InputFocus {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.search):
		if !m.state.CanSearch() {
			return m, nil
		}
		return m, m.dispatch(session.SearchRequested{})
	case key.Matches(msg, m.keys.focus):
		if len(m.state.Results) > 0 {
			m.setFocus(ListFocus)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.state.Query {
		m.state, _ = session.Reduce(m.state, session.QueryEdited{Text: m.input.Value()})
	}
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.focus), key.Matches(msg, m.keys.back):
		m.setFocus(InputFocus)
		return m, nil
	case key.Matches(msg, m.keys.first):
		return m, m.pick(models.First)
	case key.Matches(msg, m.keys.second):
		return m, m.pick(models.Second)
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) pick(slot models.Slot) tea.Cmd {
	item, ok := m.results.SelectedItem().(resultItem)
	if !ok {
		return nil
	}
	return m.dispatch(session.SelectRequested{Summary: item.summary, Slot: slot})
}

// View renders the search bar, results and both comparison panels.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Movie Fight"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	switch m.Phase() {
	case session.Searching:
		b.WriteString("  " + m.spinner.View() + " searching…")
	case session.Selecting:
		b.WriteString("  " + m.spinner.View() + " loading movie…")
	}
	b.WriteString("\n\n")

	if len(m.state.Results) > 0 {
		b.WriteString(m.results.View())
		b.WriteString("\n\n")
	}

	mu := m.state.Matchup()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderPanel(mu.First),
		" ",
		renderPanel(mu.Second),
	))
	b.WriteString("\n")

	if mu.Complete() {
		b.WriteString("\n" + renderVerdict(mu) + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.helpKeys()))
	return b.String()
}

func (m *Model) helpKeys() []key.Binding {
	if m.focus == ListFocus {
		return []key.Binding{m.keys.up, m.keys.down, m.keys.first, m.keys.second, m.keys.back, m.keys.quit}
	}
	return m.keys.ShortHelp()
}

func renderPanel(s compare.Side) string {
	var b strings.Builder
	b.WriteString(styles.label.Render(s.Slot.Label()))
	b.WriteString("\n")

	r := s.Record
	if r == nil {
		b.WriteString(styles.help.Render("Pick a result with " + fmt.Sprint(int(s.Slot)+1)))
		return styles.panel.Render(b.String())
	}

	b.WriteString(r.Title)
	if r.Year != "" {
		b.WriteString(" (" + r.Year + ")")
	}
	b.WriteString("\n\n")
	b.WriteString("Box Office  " + styles.Classified(s.BoxOffice, r.BoxOffice) + "\n")
	b.WriteString("IMDb Rating " + styles.Classified(s.Rating, r.Rating))
	if r.Director != "" {
		b.WriteString("\n" + styles.help.Render("dir. "+r.Director))
	}

	return styles.panel.Render(b.String())
}

func renderVerdict(mu compare.Matchup) string {
	switch mu.Overall() {
	case models.Winner:
		return styles.winner.Render(mu.First.Record.Title + " wins!")
	case models.Loser:
		return styles.winner.Render(mu.Second.Record.Title + " wins!")
	default:
		return styles.tie.Render("It's a tie!")
	}
}

// Run starts the TUI on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, gateway services.Gateway, opts Opts) error {
	p := tea.NewProgram(NewModel(ctx, gateway, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
