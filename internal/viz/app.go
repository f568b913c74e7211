package viz

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sortlab/internal/complexity"
	"github.com/san-kum/sortlab/internal/input"
	"github.com/san-kum/sortlab/internal/logging"
	"github.com/san-kum/sortlab/internal/metrics"
	"github.com/san-kum/sortlab/internal/storage"
	"github.com/san-kum/sortlab/internal/trace"
)

const barHeight = 4

const (
	focusNumbers = iota
	focusDelay
	focusNone
)

// eventMsg carries one event of run number run.
type eventMsg struct {
	run   int
	event trace.Event
}

// runDoneMsg is sent once the event channel of run is closed.
type runDoneMsg struct{ run int }

// savedMsg reports the outcome of persisting a finished run.
type savedMsg struct {
	id  string
	err error
}

// Options configures the interactive app.
type Options struct {
	Input        []int
	Delay        time.Duration
	Theme        string
	WorstSize    int
	BestSize     int
	Store        *storage.Store
	AutoStart    bool
	NewGenerator func() *trace.Generator
}

// Model drives a visualized insertion sort. Each run owns a context; starting
// a new run cancels the previous one and bumps the run number so that
// events still in flight from the old run are dropped.
type Model struct {
	numbers textinput.Model
	delay   textinput.Model
	focus   int
	spinner spinner.Model

	theme  Theme
	styles Styles

	newGen func() *trace.Generator
	store  *storage.Store

	run      int
	cancel   context.CancelFunc
	events   <-chan trace.Event
	running  bool
	runInput []int
	runDelay time.Duration
	recorded []trace.Event
	counters []trace.Metric

	current  trace.Event
	hasEvent bool
	status   string

	charts   ChartView
	showBars bool
	showHelp bool
	width    int
	start    bool
}

func NewModel(opts Options) Model {
	numbers := textinput.New()
	numbers.Prompt = "numbers › "
	numbers.Placeholder = "5 2 4 6 1 3"
	numbers.SetValue(input.FormatNumbers(opts.Input))
	numbers.Focus()

	delay := textinput.New()
	delay.Prompt = "delay ms › "
	delay.Placeholder = strconv.Itoa(int(input.DefaultDelay.Milliseconds()))
	delay.SetValue(strconv.FormatInt(opts.Delay.Milliseconds(), 10))

	theme := GetTheme(opts.Theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.Key)

	newGen := opts.NewGenerator
	if newGen == nil {
		newGen = func() *trace.Generator { return trace.New() }
	}

	return Model{
		numbers: numbers,
		delay:   delay,
		focus:   focusNumbers,
		spinner: sp,
		theme:   theme,
		styles:  NewStyles(theme),
		newGen:  newGen,
		store:   opts.Store,
		charts: ChartView{
			WorstSize: opts.WorstSize,
			BestSize:  opts.BestSize,
		},
		width: 100,
		start: opts.AutoStart,
	}
}

func (m Model) Init() tea.Cmd {
	if m.start {
		return func() tea.Msg { return tea.KeyMsg{Type: tea.KeyEnter} }
	}
	return textinput.Blink
}

func waitForEvent(run int, ch <-chan trace.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return runDoneMsg{run: run}
		}
		return eventMsg{run: run, event: e}
	}
}

// startRun parses the input fields, cancels any active run and starts a new
// producer.
func (m *Model) startRun() tea.Cmd {
	m.stopRun()

	nums := input.ParseNumbers(m.numbers.Value())
	delay := input.ParseDelay(m.delay.Value())

	m.run++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.events = m.newGen().Run(ctx, nums, delay)
	m.running = true
	m.runInput = nums
	m.runDelay = delay
	m.recorded = m.recorded[:0]
	m.counters = metrics.Default()
	m.hasEvent = false
	m.status = ""

	logging.Info("run started", "run", m.run, "n", len(nums), "delay", delay)
	return tea.Batch(waitForEvent(m.run, m.events), m.spinner.Tick)
}

func (m *Model) stopRun() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.running {
		logging.Debug("run canceled", "run", m.run)
	}
	m.running = false
}

func (m *Model) setFocus(f int) {
	m.focus = f
	m.numbers.Blur()
	m.delay.Blur()
	switch f {
	case focusNumbers:
		m.numbers.Focus()
	case focusDelay:
		m.delay.Focus()
	}
}

func (m Model) stats() Stats {
	var st Stats
	for _, c := range m.counters {
		v := int(c.Value())
		switch c.Name() {
		case "shifts":
			st.Shifts = v
		case "comparisons":
			st.Comparisons = v
		case "passes":
			st.Passes = v
		case "events":
			st.Events = v
		}
	}
	return st
}

func (m Model) saveCmd() tea.Cmd {
	if m.store == nil || len(m.recorded) == 0 {
		return nil
	}
	result := &trace.Result{
		Input:   m.runInput,
		Events:  append([]trace.Event(nil), m.recorded...),
		Metrics: make(map[string]float64, len(m.counters)),
	}
	for _, c := range m.counters {
		result.Metrics[c.Name()] = c.Value()
	}
	store, delay := m.store, m.runDelay
	return func() tea.Msg {
		id, err := store.Save(result, delay)
		return savedMsg{id: id, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case eventMsg:
		if msg.run != m.run || !m.running {
			return m, nil
		}
		m.current = msg.event
		m.hasEvent = true
		m.recorded = append(m.recorded, msg.event)
		for _, c := range m.counters {
			c.Observe(msg.event)
		}
		return m, waitForEvent(m.run, m.events)

	case runDoneMsg:
		if msg.run != m.run || !m.running {
			return m, nil
		}
		m.running = false
		m.cancel = nil
		logging.Info("run finished", "run", m.run, "events", len(m.recorded))
		return m, m.saveCmd()

	case savedMsg:
		if msg.err != nil {
			logging.Error("save run", "err", msg.err)
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved " + msg.id
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusNumbers:
		m.numbers, cmd = m.numbers.Update(msg)
	case focusDelay:
		m.delay, cmd = m.delay.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.stopRun()
		return m, tea.Quit
	case "enter":
		cmd := m.startRun()
		return m, cmd
	case "tab":
		m.setFocus((m.focus + 1) % 3)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + 2) % 3)
		return m, nil
	case "esc":
		m.setFocus(focusNone)
		return m, nil
	}

	if m.focus != focusNone {
		return m.updateInputs(msg)
	}

	switch msg.String() {
	case "q":
		m.stopRun()
		return m, tea.Quit
	case "i":
		m.setFocus(focusNumbers)
	case "x":
		m.stopRun()
		m.status = "stopped"
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = NewStyles(m.theme)
		m.spinner.Style = lipgloss.NewStyle().Foreground(m.theme.Key)
	case "c":
		m.charts.Time = !m.charts.Time
	case "s":
		m.charts.Space = !m.charts.Space
	case "b":
		m.showBars = !m.showBars
	case "up", "k", "down", "j":
		m.charts.Focus = 1 - m.charts.Focus
	case "right", "l", "+", "=":
		m.charts.Adjust(1)
	case "left", "h", "-":
		m.charts.Adjust(-1)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) View() string {
	s := m.styles

	title := s.Header.Render("SORTLAB · insertion sort")
	state := s.Subtle.Render("idle")
	switch {
	case m.running:
		state = m.spinner.View() + s.Running.Render(" running")
	case m.hasEvent && m.current.Terminal():
		state = s.Done.Render("✓ " + string(m.current.Phase))
	case m.hasEvent:
		state = s.Subtle.Render("stopped")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", state)

	var body string
	if m.hasEvent {
		e := m.current
		step := s.Value.Render(e.Step.String())
		array := lipgloss.JoinVertical(lipgloss.Left,
			s.Label.Render("step")+step,
			"",
			RenderCells(s, e),
			RenderPointers(s, e),
		)
		if m.showBars {
			array = lipgloss.JoinVertical(lipgloss.Left, array, "", RenderBars(s, e, barHeight))
		}
		side := lipgloss.JoinVertical(lipgloss.Left,
			RenderKey(s, e),
			"",
			RenderStats(s, m.stats()),
		)
		top := lipgloss.JoinHorizontal(lipgloss.Top,
			s.Panel.Render(array),
			s.Panel.Render(side),
		)
		body = lipgloss.JoinVertical(lipgloss.Left,
			top,
			s.Panel.Render(RenderCode(s, e.Step, !e.Terminal())),
		)
	} else {
		body = s.Panel.Render(RenderCode(s, trace.Completed, false))
	}

	inputs := lipgloss.JoinVertical(lipgloss.Left, m.numbers.View(), m.delay.View())

	parts := []string{header, "", body, "", inputs}
	if charts := RenderCharts(s, m.charts, m.width); charts != "" {
		parts = append(parts, "", charts)
	}
	if m.status != "" {
		parts = append(parts, s.Subtle.Render(m.status))
	}
	parts = append(parts, "", m.helpView())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) helpView() string {
	s := m.styles
	if !m.showHelp {
		if m.focus == focusNone {
			return s.Help.Render("enter run · i edit · c/s charts · t theme · ? help · q quit")
		}
		return s.Help.Render("enter run · tab next field · esc commands · ctrl+c quit")
	}

	keys := [][2]string{
		{"enter", "start (or restart) a run"},
		{"tab", "switch numbers / delay / commands"},
		{"esc", "leave the input fields"},
		{"i", "edit numbers"},
		{"x", "stop the current run"},
		{"b", "toggle bar view"},
		{"c", "toggle time complexity charts"},
		{"s", "toggle space complexity charts"},
		{"↑/↓", "select worst / best slider"},
		{"←/→", fmt.Sprintf("resize chart (%d..%d)", complexity.MinSize, complexity.MaxSize)},
		{"t", "cycle theme (" + strings.Join(ThemeNames(), ", ") + ")"},
		{"q", "quit"},
	}
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = s.Key.Render(fmt.Sprintf("%-6s", k[0])) + " " + s.Subtle.Render(k[1])
	}
	return s.Panel.Render(strings.Join(lines, "\n"))
}

// RunApp starts the interactive visualizer.
func RunApp(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.stopRun()
	}
	return err
}
