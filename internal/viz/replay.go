package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sortlab/internal/input"
	"github.com/san-kum/sortlab/internal/metrics"
	"github.com/san-kum/sortlab/internal/trace"
)

type replayTickMsg time.Time

// ReplayModel plays back a stored trace with pause and scrubbing.
type ReplayModel struct {
	runID   string
	events  []trace.Event
	pos     int
	playing bool
	delay   time.Duration

	theme  Theme
	styles Styles
}

func NewReplayModel(runID string, events []trace.Event, delay time.Duration, theme string) ReplayModel {
	if delay <= 0 {
		delay = input.DefaultDelay
	}
	t := GetTheme(theme)
	return ReplayModel{
		runID:   runID,
		events:  events,
		playing: len(events) > 1,
		delay:   delay,
		theme:   t,
		styles:  NewStyles(t),
	}
}

func (m ReplayModel) tick() tea.Cmd {
	return tea.Tick(m.delay, func(t time.Time) tea.Msg { return replayTickMsg(t) })
}

func (m ReplayModel) Init() tea.Cmd {
	if m.playing {
		return m.tick()
	}
	return nil
}

// scrub moves the play head by delta, clamped to the trace.
func (m *ReplayModel) scrub(delta int) {
	m.pos = max(0, min(len(m.events)-1, m.pos+delta))
}

func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case replayTickMsg:
		if !m.playing {
			return m, nil
		}
		if m.pos >= len(m.events)-1 {
			m.playing = false
			return m, nil
		}
		m.pos++
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
			if m.playing {
				if m.pos >= len(m.events)-1 {
					m.pos = 0
				}
				return m, m.tick()
			}
		case "[", "left", "h":
			m.playing = false
			m.scrub(-1)
		case "]", "right", "l":
			m.playing = false
			m.scrub(1)
		case "home", "r":
			m.pos = 0
		case "end":
			m.scrub(len(m.events))
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		}
	}
	return m, nil
}

// statsAt recomputes the counters over events[:pos+1].
func (m ReplayModel) statsAt() Stats {
	ms := metrics.Default()
	for _, e := range m.events[:m.pos+1] {
		for _, c := range ms {
			c.Observe(e)
		}
	}
	return Stats{
		Shifts:      int(ms[0].Value()),
		Comparisons: int(ms[1].Value()),
		Passes:      int(ms[2].Value()),
		Events:      int(ms[3].Value()),
	}
}

func (m ReplayModel) View() string {
	s := m.styles
	if len(m.events) == 0 {
		return s.Subtle.Render("no events in " + m.runID + "\n")
	}

	e := m.events[m.pos]
	state := "paused"
	if m.playing {
		state = "playing"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		s.Header.Render("REPLAY · "+m.runID),
		"  ",
		s.Subtle.Render(fmt.Sprintf("%s  %d/%d", state, m.pos+1, len(m.events))),
	)

	array := lipgloss.JoinVertical(lipgloss.Left,
		s.Label.Render("step")+s.Value.Render(e.Step.String()),
		"",
		RenderCells(s, e),
		RenderPointers(s, e),
		"",
		RenderBars(s, e, barHeight),
	)
	side := lipgloss.JoinVertical(lipgloss.Left, RenderKey(s, e), "", RenderStats(s, m.statsAt()))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, s.Panel.Render(array), s.Panel.Render(side)),
		s.Panel.Render(RenderCode(s, e.Step, !e.Terminal())),
		"",
		s.Help.Render("space play/pause · [/] step · r restart · t theme · q quit"),
	)
}

// RunReplay plays back events in the terminal.
func RunReplay(runID string, events []trace.Event, delay time.Duration, theme string) error {
	_, err := tea.NewProgram(NewReplayModel(runID, events, delay, theme), tea.WithAltScreen()).Run()
	return err
}
