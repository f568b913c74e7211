package trace

import (
	"fmt"
	"slices"
)

// NoIndex marks Inner/InnerNext when no position is highlighted.
const NoIndex = -1

// NoKey is the Key value on events that do not hold a key.
const NoKey = -1

type Phase string

const (
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseCompleted  Phase = "COMPLETED"
)

// StepKind identifies which stage of the algorithm produced an event.
type StepKind int

const (
	OuterBegin StepKind = iota
	KeyCaptured
	ShiftPerformed
	KeyPlaced
	Completed
)

var stepNames = map[StepKind]string{
	OuterBegin:     "outer_begin",
	KeyCaptured:    "key_captured",
	ShiftPerformed: "shift_performed",
	KeyPlaced:      "key_placed",
	Completed:      "completed",
}

func (k StepKind) String() string {
	if name, ok := stepNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseStepKind is the inverse of StepKind.String.
func ParseStepKind(s string) (StepKind, bool) {
	for k, name := range stepNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StepKind) UnmarshalText(text []byte) error {
	parsed, ok := ParseStepKind(string(text))
	if !ok {
		return fmt.Errorf("unknown step kind %q", text)
	}
	*k = parsed
	return nil
}

// Frame is one observable moment of the walk over an arbitrary element type.
type Frame[T any] struct {
	Step      StepKind
	Outer     int
	Inner     int
	InnerNext int
	Key       T
	HasKey    bool
	Values    []T
}

// Event is an immutable snapshot of an integer insertion sort.
type Event struct {
	ID        string   `json:"id"`
	Ordinal   int      `json:"ordinal"`
	Step      StepKind `json:"step"`
	Phase     Phase    `json:"phase"`
	Outer     int      `json:"outer"`
	Key       int      `json:"key"`
	Inner     int      `json:"inner"`
	InnerNext int      `json:"inner_next"`
	Values    []int    `json:"values"`
}

// HasKey reports whether Key carries the value being inserted.
func (e Event) HasKey() bool {
	return e.Step == KeyCaptured || e.Step == ShiftPerformed || e.Step == KeyPlaced
}

func (e Event) Terminal() bool { return e.Phase == PhaseCompleted }

// Clone returns a deep copy, so callers can keep events past their own
// mutations.
func (e Event) Clone() Event {
	c := e
	c.Values = slices.Clone(e.Values)
	return c
}

// Metric accumulates a value from the events of one run.
type Metric interface {
	Name() string
	Observe(e Event)
	Value() float64
	Reset()
}

// Observer is notified of every event in production order.
type Observer interface {
	OnEvent(e Event)
}

type Result struct {
	Input   []int
	Events  []Event
	Metrics map[string]float64
}

// Final returns the terminal event of the result.
func (r *Result) Final() Event {
	return r.Events[len(r.Events)-1]
}
