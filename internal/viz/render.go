package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/san-kum/sortlab/internal/complexity"
	"github.com/san-kum/sortlab/internal/trace"
)

// Pseudocode is the listing shown next to the array.
var Pseudocode = []string{
	"void insertionSort(int arr[], int n) {",
	"    int i, key, j;",
	"    for (i = 1; i < n; i++) {",
	"        key = arr[i];",
	"        j = i - 1;",
	"        while (j >= 0 && arr[j] > key) {",
	"            arr[j + 1] = arr[j];",
	"            j = j - 1;",
	"        }",
	"        arr[j + 1] = key;",
	"    }",
	"}",
}

// ActiveLines maps a step to the pseudocode lines that produced it.
func ActiveLines(step trace.StepKind) []int {
	switch step {
	case trace.OuterBegin:
		return []int{2}
	case trace.KeyCaptured:
		return []int{3, 4}
	case trace.ShiftPerformed:
		return []int{6, 7}
	case trace.KeyPlaced:
		return []int{9}
	default:
		return nil
	}
}

// RenderCode highlights the lines for step.
func RenderCode(s Styles, step trace.StepKind, active bool) string {
	hl := map[int]bool{}
	if active {
		for _, l := range ActiveLines(step) {
			hl[l] = true
		}
	}

	var b strings.Builder
	for i, line := range Pseudocode {
		if hl[i] {
			b.WriteString(s.CodeActive.Render("▶ " + line))
		} else {
			b.WriteString(s.Code.Render("  " + line))
		}
		if i < len(Pseudocode)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// CellStyle picks the style for index i of e.Values.
func CellStyle(s Styles, e trace.Event, i int) lipgloss.Style {
	switch {
	case e.Terminal():
		return s.Cell
	case i == e.Inner:
		return s.InnerCell
	case i == e.InnerNext:
		return s.NextCell
	case e.Step == trace.OuterBegin && i == e.Outer:
		return s.KeyCell
	default:
		return s.Cell
	}
}

// RenderCells draws the array as a row of colored cells.
func RenderCells(s Styles, e trace.Event) string {
	if len(e.Values) == 0 {
		return s.Subtle.Render("(empty)")
	}
	cells := make([]string, len(e.Values))
	for i, v := range e.Values {
		cells[i] = CellStyle(s, e, i).Render(strconv.Itoa(v))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// RenderPointers labels the inner pointers below the cells.
func RenderPointers(s Styles, e trace.Event) string {
	if len(e.Values) == 0 {
		return ""
	}
	width := s.Cell.GetWidth() + s.Cell.GetMarginRight()
	row := []rune(strings.Repeat(" ", width*len(e.Values)))
	put := func(idx int, label string) {
		if idx < 0 || idx >= len(e.Values) {
			return
		}
		at := idx*width + (s.Cell.GetWidth()-len(label))/2
		for k, r := range label {
			if at+k >= 0 && at+k < len(row) {
				row[at+k] = r
			}
		}
	}
	if !e.Terminal() {
		put(e.Inner, "j")
		put(e.InnerNext, "j+1")
	}
	return s.Subtle.Render(strings.TrimRight(string(row), " "))
}

// RenderKey describes the held key and the loop indices.
func RenderKey(s Styles, e trace.Event) string {
	parts := []string{
		s.Label.Render("i") + s.Value.Render(strconv.Itoa(e.Outer)),
	}
	if e.HasKey() {
		parts = append(parts, s.Label.Render("key")+s.Key.Render(strconv.Itoa(e.Key)))
	} else {
		parts = append(parts, s.Label.Render("key")+s.Subtle.Render("-"))
	}
	parts = append(parts,
		s.Label.Render("j")+indexText(s, s.Inner, e.Inner),
		s.Label.Render("j+1")+indexText(s, s.Next, e.InnerNext),
	)
	return strings.Join(parts, "\n")
}

func indexText(s Styles, style lipgloss.Style, idx int) string {
	if idx == trace.NoIndex {
		return s.Subtle.Render("-1")
	}
	return style.Render(strconv.Itoa(idx))
}

// Stats is the consumer-side view of the metrics for the current run.
type Stats struct {
	Shifts      int
	Comparisons int
	Passes      int
	Events      int
}

func RenderStats(s Styles, st Stats) string {
	row := func(name string, v int) string {
		return s.Label.Render(name) + s.Value.Render(humanize.Comma(int64(v)))
	}
	return strings.Join([]string{
		row("step", st.Events),
		row("passes", st.Passes),
		row("compares", st.Comparisons),
		row("shifts", st.Shifts),
	}, "\n")
}

// ChartView holds the complexity chart toggles and slider positions.
type ChartView struct {
	Time      bool
	Space     bool
	WorstSize int
	BestSize  int
	// Focus selects which slider the arrow keys move: 0 worst, 1 best.
	Focus int
}

func (c *ChartView) Adjust(delta int) {
	if c.Focus == 0 {
		c.WorstSize = complexity.ClampSize(c.WorstSize + delta)
	} else {
		c.BestSize = complexity.ClampSize(c.BestSize + delta)
	}
}

// RenderCharts draws whichever complexity charts are toggled on.
func RenderCharts(s Styles, c ChartView, width int) string {
	if !c.Time && !c.Space {
		return ""
	}

	slider := func(name string, n int, focused bool) string {
		label := fmt.Sprintf("%-6s n=%-3d ", name, n)
		bar := SizeBar(n, complexity.MinSize, complexity.MaxSize, 20)
		if focused {
			return s.Key.Render("› " + label + bar)
		}
		return s.Subtle.Render("  " + label + bar)
	}

	chartWidth := max(width/2-6, 20)
	opts := func(caption string) complexity.PlotOptions {
		return complexity.PlotOptions{Width: chartWidth, Height: 6, Caption: caption}
	}

	var panels []string
	if c.Time {
		panels = append(panels, lipgloss.JoinVertical(lipgloss.Left,
			s.Header.Render("Time complexity"),
			complexity.Plot(opts("worst O(n²)"), complexity.WorstTime(c.WorstSize)),
			complexity.Plot(opts("best O(n)"), complexity.BestTime(c.BestSize)),
		))
	}
	if c.Space {
		panels = append(panels, lipgloss.JoinVertical(lipgloss.Left,
			s.Header.Render("Space complexity"),
			complexity.Plot(opts("worst O(n)"), complexity.WorstSpace(c.WorstSize)),
			complexity.Plot(opts("best O(1)"), complexity.BestSpace(c.BestSize)),
		))
	}

	charts := lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	return lipgloss.JoinVertical(lipgloss.Left,
		charts,
		slider("worst", c.WorstSize, c.Focus == 0),
		slider("best", c.BestSize, c.Focus == 1),
	)
}

// RenderBars draws the values as a braille bar chart with the inner
// pointers colored.
func RenderBars(s Styles, e trace.Event, height int) string {
	if len(e.Values) == 0 {
		return ""
	}
	cols := BarColumns(e.Values, height)
	rows := make([]string, height)
	for r := range rows {
		var b strings.Builder
		for i, col := range cols {
			style := s.Subtle
			if !e.Terminal() {
				switch i {
				case e.Inner:
					style = s.Inner
				case e.InnerNext:
					style = s.Next
				}
			}
			b.WriteString(style.Render(col[r]))
		}
		rows[r] = b.String()
	}
	return strings.Join(rows, "\n")
}
