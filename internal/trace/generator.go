package trace

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/google/uuid"
)

// Generator turns an integer sequence into an ordered stream of Events.
//
// A Generator keeps no memory between runs. Metrics attached with AddMetric
// are reset at the start of every run, so a Generator with metrics must not
// be shared by concurrent runs; use an Ensemble for that.
type Generator struct {
	newID     func() string
	metrics   []Metric
	observers []Observer
}

type Option func(*Generator)

// WithIDFunc replaces the UUID source for event ids.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) { g.newID = fn }
}

func New(opts ...Option) *Generator {
	g := &Generator{
		newID:     uuid.NewString,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) AddMetric(m Metric)     { g.metrics = append(g.metrics, m) }
func (g *Generator) AddObserver(o Observer) { g.observers = append(g.observers, o) }

// Events returns the unpaced, lazy event sequence for input.
func (g *Generator) Events(input []int) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		g.reset()
		ordinal := 0
		for f := range Steps(input, IntGreater) {
			e := g.event(f, ordinal)
			ordinal++

			more := yield(e)
			g.notify(e)
			if !more {
				return
			}
		}
	}
}

func (g *Generator) reset() {
	for _, m := range g.metrics {
		m.Reset()
	}
}

// notify feeds a delivered event to the metrics and observers.
func (g *Generator) notify(e Event) {
	for _, m := range g.metrics {
		m.Observe(e)
	}
	for _, o := range g.observers {
		o.OnEvent(e)
	}
}

func (g *Generator) event(f Frame[int], ordinal int) Event {
	e := Event{
		ID:        g.newID(),
		Ordinal:   ordinal,
		Step:      f.Step,
		Phase:     PhaseInProgress,
		Outer:     f.Outer,
		Key:       NoKey,
		Inner:     f.Inner,
		InnerNext: f.InnerNext,
		Values:    f.Values,
	}
	if f.HasKey {
		e.Key = f.Key
	}
	if f.Step == Completed {
		e.Phase = PhaseCompleted
	}
	return e
}

// errDeclined stops a paced run after the consumer received an event.
var errDeclined = errors.New("consumer declined")

// RunWithCallback emits every event to fn and pauses stepDelay after each
// non-terminal one. It stops early when fn returns false or ctx is done.
func (g *Generator) RunWithCallback(ctx context.Context, input []int, stepDelay time.Duration, fn func(Event) bool) error {
	return g.paced(ctx, input, stepDelay, func(e Event) error {
		if !fn(e) {
			return errDeclined
		}
		return nil
	})
}

// Run starts a producer goroutine and returns its event channel. The channel
// is closed after the terminal event, or early once ctx is done.
func (g *Generator) Run(ctx context.Context, input []int, stepDelay time.Duration) <-chan Event {
	ch := make(chan Event)
	go func() {
		defer close(ch)
		_ = g.paced(ctx, input, stepDelay, func(e Event) error {
			select {
			case ch <- e:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return ch
}

// paced walks input and hands each event to deliver. deliver returns nil
// once the event is received, errDeclined when it was received but the run
// should stop, and any other error when it was not received. Only received
// events reach the metrics and observers.
func (g *Generator) paced(ctx context.Context, input []int, stepDelay time.Duration, deliver func(Event) error) error {
	g.reset()

	var timer *time.Timer
	if stepDelay > 0 {
		timer = time.NewTimer(stepDelay)
		timer.Stop()
		defer timer.Stop()
	}

	ordinal := 0
	for f := range Steps(input, IntGreater) {
		if err := ctx.Err(); err != nil {
			return err
		}

		e := g.event(f, ordinal)
		ordinal++

		err := deliver(e)
		switch {
		case err == nil:
			g.notify(e)
		case errors.Is(err, errDeclined):
			g.notify(e)
			return nil
		default:
			return err
		}

		if timer == nil || e.Terminal() {
			continue
		}
		timer.Reset(stepDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Trace collects a whole run without pacing.
func (g *Generator) Trace(ctx context.Context, input []int) (*Result, error) {
	result := &Result{
		Input:   append([]int(nil), input...),
		Events:  make([]Event, 0, expectedEvents(len(input))),
		Metrics: make(map[string]float64),
	}

	err := g.RunWithCallback(ctx, input, 0, func(e Event) bool {
		result.Events = append(result.Events, e)
		return true
	})
	if err != nil {
		return result, err
	}

	for _, m := range g.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// expectedEvents is the event count of a run without any shifts.
func expectedEvents(n int) int {
	if n < 2 {
		return 1
	}
	return 3*(n-1) + 1
}
