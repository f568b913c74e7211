package metrics

import "github.com/san-kum/sortlab/internal/trace"

// Shifts counts inner-loop moves.
type Shifts struct{ n int }

func NewShifts() *Shifts { return &Shifts{} }

func (m *Shifts) Name() string { return "shifts" }
func (m *Shifts) Observe(e trace.Event) {
	if e.Step == trace.ShiftPerformed {
		m.n++
	}
}
func (m *Shifts) Value() float64 { return float64(m.n) }
func (m *Shifts) Reset()         { m.n = 0 }

// Comparisons counts evaluations of values[j] > key. Every shift was preceded
// by a true comparison; a key placed with j >= 0 stopped on a false one.
type Comparisons struct{ n int }

func NewComparisons() *Comparisons { return &Comparisons{} }

func (m *Comparisons) Name() string { return "comparisons" }
func (m *Comparisons) Observe(e trace.Event) {
	switch e.Step {
	case trace.ShiftPerformed:
		m.n++
	case trace.KeyPlaced:
		if e.Inner >= 0 {
			m.n++
		}
	}
}
func (m *Comparisons) Value() float64 { return float64(m.n) }
func (m *Comparisons) Reset()         { m.n = 0 }

// Passes counts outer-loop iterations.
type Passes struct{ n int }

func NewPasses() *Passes { return &Passes{} }

func (m *Passes) Name() string { return "passes" }
func (m *Passes) Observe(e trace.Event) {
	if e.Step == trace.OuterBegin {
		m.n++
	}
}
func (m *Passes) Value() float64 { return float64(m.n) }
func (m *Passes) Reset()         { m.n = 0 }

type Events struct{ n int }

func NewEvents() *Events { return &Events{} }

func (m *Events) Name() string        { return "events" }
func (m *Events) Observe(trace.Event) { m.n++ }
func (m *Events) Value() float64      { return float64(m.n) }
func (m *Events) Reset()              { m.n = 0 }

// Default returns a fresh metric set for one run.
func Default() []trace.Metric {
	return []trace.Metric{
		NewShifts(),
		NewComparisons(),
		NewPasses(),
		NewEvents(),
	}
}

// Inversions counts pairs i < j with xs[i] > xs[j]. Insertion sort performs
// exactly this many shifts.
func Inversions(xs []int) int {
	count := 0
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			if xs[i] > xs[j] {
				count++
			}
		}
	}
	return count
}
