package trace_test

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sortlab/internal/metrics"
	"github.com/san-kum/sortlab/internal/trace"
)

func collect(input []int) []trace.Event {
	return slices.Collect(trace.New().Events(input))
}

func countSteps(events []trace.Event, kind trace.StepKind) int {
	n := 0
	for _, e := range events {
		if e.Step == kind {
			n++
		}
	}
	return n
}

func withoutIDs(events []trace.Event) []trace.Event {
	out := make([]trace.Event, len(events))
	for i, e := range events {
		e.ID = ""
		out[i] = e
	}
	return out
}

type countingObserver struct{ n int }

func (o *countingObserver) OnEvent(trace.Event) { o.n++ }

var _ = Describe("Generator", func() {
	Describe("degenerate inputs", func() {
		It("emits only the terminal event for an empty input", func() {
			events := collect(nil)
			Expect(events).To(HaveLen(1))

			final := events[0]
			Expect(final.Phase).To(Equal(trace.PhaseCompleted))
			Expect(final.Step).To(Equal(trace.Completed))
			Expect(final.Outer).To(Equal(0))
			Expect(final.Key).To(Equal(trace.NoKey))
			Expect(final.Inner).To(Equal(trace.NoIndex))
			Expect(final.InnerNext).To(Equal(trace.NoIndex))
			Expect(final.Values).To(BeEmpty())
		})

		It("emits only the terminal event for a single element", func() {
			events := collect([]int{7})
			Expect(events).To(HaveLen(1))
			Expect(events[0].Outer).To(Equal(1))
			Expect(events[0].Values).To(Equal([]int{7}))
		})
	})

	Describe("the [3 1 2] walkthrough", func() {
		var events []trace.Event

		BeforeEach(func() {
			events = withoutIDs(collect([]int{3, 1, 2}))
		})

		It("matches the instrumented insertion sort step by step", func() {
			ev := func(step trace.StepKind, outer, key, j, j1 int, values ...int) trace.Event {
				phase := trace.PhaseInProgress
				if step == trace.Completed {
					phase = trace.PhaseCompleted
				}
				return trace.Event{Step: step, Phase: phase, Outer: outer, Key: key, Inner: j, InnerNext: j1, Values: values}
			}

			expected := []trace.Event{
				ev(trace.OuterBegin, 1, -1, -1, -1, 3, 1, 2),
				ev(trace.KeyCaptured, 1, 1, 0, 1, 3, 1, 2),
				ev(trace.ShiftPerformed, 1, 1, -1, 0, 3, 3, 2),
				ev(trace.KeyPlaced, 1, 1, -1, 0, 1, 3, 2),
				ev(trace.OuterBegin, 2, -1, -1, -1, 1, 3, 2),
				ev(trace.KeyCaptured, 2, 2, 1, 2, 1, 3, 2),
				ev(trace.ShiftPerformed, 2, 2, 0, 1, 1, 3, 3),
				ev(trace.KeyPlaced, 2, 2, 0, 1, 1, 2, 3),
				ev(trace.Completed, 3, -1, -1, -1, 1, 2, 3),
			}
			for i := range expected {
				expected[i].Ordinal = i
			}

			Expect(events).To(Equal(expected))
		})

		It("shifts exactly once per outer index", func() {
			Expect(countSteps(events, trace.ShiftPerformed)).To(Equal(2))
			Expect(events[2].Outer).To(Equal(1))
			Expect(events[6].Outer).To(Equal(2))
		})
	})

	Describe("complexity bounds", func() {
		It("performs no shifts on sorted input", func() {
			events := collect([]int{1, 2, 3, 4, 5})
			Expect(countSteps(events, trace.ShiftPerformed)).To(BeZero())
			Expect(events).To(HaveLen(1 + 3*4))
		})

		It("performs n(n-1)/2 shifts on reversed input", func() {
			events := collect([]int{5, 4, 3, 2, 1})
			Expect(countSteps(events, trace.ShiftPerformed)).To(Equal(10))
			Expect(events).To(HaveLen(1 + 3*4 + 10))
		})
	})

	Describe("invariants over random inputs", func() {
		rng := rand.New(rand.NewSource(7))

		for round := 0; round < 25; round++ {
			n := rng.Intn(12)
			input := make([]int, n)
			for i := range input {
				input[i] = rng.Intn(9) - 4
			}

			It(fmt.Sprintf("holds for %v", input), func() {
				events := collect(input)
				shifts := countSteps(events, trace.ShiftPerformed)

				if n == 0 {
					Expect(events).To(HaveLen(1))
				} else {
					Expect(events).To(HaveLen(1 + 3*(n-1) + shifts))
				}
				Expect(shifts).To(Equal(metrics.Inversions(input)))

				ids := make(map[string]bool, len(events))
				for i, e := range events {
					Expect(e.Values).To(HaveLen(n))
					Expect(e.Ordinal).To(Equal(i))
					Expect(ids).NotTo(HaveKey(e.ID))
					ids[e.ID] = true
					Expect(e.Terminal()).To(Equal(i == len(events)-1))
				}

				final := events[len(events)-1]
				Expect(slices.IsSorted(final.Values)).To(BeTrue())

				want := slices.Clone(input)
				slices.Sort(want)
				Expect(final.Values).To(Equal(want))
			})
		}
	})

	It("keeps equal keys in input order", func() {
		type tagged struct {
			v   int
			tag string
		}
		input := []tagged{{5, "a"}, {3, "b"}, {5, "c"}}

		var last trace.Frame[tagged]
		for f := range trace.Steps(input, func(a, b tagged) bool { return a.v > b.v }) {
			last = f
		}

		Expect(last.Step).To(Equal(trace.Completed))
		Expect(last.Values).To(Equal([]tagged{{3, "b"}, {5, "a"}, {5, "c"}}))
		Expect(input).To(Equal([]tagged{{5, "a"}, {3, "b"}, {5, "c"}}))
	})

	It("publishes snapshots that do not alias the working buffer", func() {
		events := collect([]int{4, 3, 2, 1})
		first := events[0]
		Expect(first.Values).To(Equal([]int{4, 3, 2, 1}))

		events[1].Values[0] = 99
		Expect(events[0].Values[0]).To(Equal(4))
		Expect(events[len(events)-1].Values).To(Equal([]int{1, 2, 3, 4}))
	})

	It("produces the same trace on a fresh run apart from ids", func() {
		input := []int{9, -2, 9, 0, 4, 4, 1}
		first := collect(input)
		second := collect(input)

		Expect(first[0].ID).NotTo(Equal(second[0].ID))
		Expect(withoutIDs(first)).To(Equal(withoutIDs(second)))
	})

	It("uses the supplied id source", func() {
		seq := 0
		gen := trace.New(trace.WithIDFunc(func() string {
			seq++
			return fmt.Sprintf("evt-%d", seq)
		}))

		events := slices.Collect(gen.Events([]int{2, 1}))
		Expect(events[0].ID).To(Equal("evt-1"))
		Expect(events[len(events)-1].ID).To(Equal(fmt.Sprintf("evt-%d", len(events))))
	})

	Describe("Run", func() {
		It("streams the same sequence as Events and closes the channel", func() {
			input := []int{6, 2, 8, 2, 1}
			want := withoutIDs(collect(input))

			var got []trace.Event
			for e := range trace.New().Run(context.Background(), input, 0) {
				got = append(got, e)
			}
			Expect(withoutIDs(got)).To(Equal(want))
		})

		It("waits stepDelay between emissions", func() {
			delay := 10 * time.Millisecond
			start := time.Now()

			count := 0
			for range trace.New().Run(context.Background(), []int{2, 1}, delay) {
				count++
			}

			Expect(count).To(Equal(5))
			Expect(time.Since(start)).To(BeNumerically(">=", 3*delay))
		})

		It("stops producing once the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			ch := trace.New().Run(ctx, []int{5, 4, 3, 2, 1}, 20*time.Millisecond)

			Eventually(ch).Should(Receive())
			cancel()

			Eventually(ch, time.Second).Should(BeClosed())
		})
	})

	Describe("metrics and observers", func() {
		It("count only the events the consumer received", func() {
			gen := trace.New()
			events := metrics.NewEvents()
			gen.AddMetric(events)
			seen := &countingObserver{}
			gen.AddObserver(seen)

			ctx, cancel := context.WithCancel(context.Background())
			ch := gen.Run(ctx, []int{5, 4, 3, 2, 1}, 5*time.Millisecond)

			received := 0
			for range 3 {
				Eventually(ch).Should(Receive())
				received++
			}
			cancel()
			for range ch {
				received++
			}

			Expect(received).To(BeNumerically("<", 23))
			Expect(events.Value()).To(Equal(float64(received)))
			Expect(seen.n).To(Equal(received))
		})
	})

	Describe("RunWithCallback", func() {
		It("stops when the callback declines", func() {
			seen := 0
			err := trace.New().RunWithCallback(context.Background(), []int{3, 2, 1}, 0, func(e trace.Event) bool {
				seen++
				return seen < 3
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(Equal(3))
		})

		It("reports a deadline that expires mid-run instead of a short trace", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
			defer cancel()

			var got []trace.Event
			err := trace.New().RunWithCallback(ctx, []int{3, 2, 1}, 100*time.Millisecond, func(e trace.Event) bool {
				got = append(got, e)
				return true
			})

			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(ctx.Err()).To(HaveOccurred())
			Expect(got).NotTo(BeEmpty())
			Expect(got[len(got)-1].Terminal()).To(BeFalse())
		})

		It("completes within a generous deadline", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			var got []trace.Event
			err := trace.New().RunWithCallback(ctx, []int{3, 2, 1}, 5*time.Millisecond, func(e trace.Event) bool {
				got = append(got, e)
				return true
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1 + 3*2 + 3))
			Expect(got[len(got)-1].Terminal()).To(BeTrue())
		})

		It("pauses a full stepDelay after each event even for a slow consumer", func() {
			delay := 20 * time.Millisecond
			var returned time.Time
			var gaps []time.Duration

			err := trace.New().RunWithCallback(context.Background(), []int{2, 1}, delay, func(e trace.Event) bool {
				if !returned.IsZero() {
					gaps = append(gaps, time.Since(returned))
				}
				time.Sleep(30 * time.Millisecond)
				returned = time.Now()
				return true
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(gaps).To(HaveLen(4))
			for _, gap := range gaps {
				Expect(gap).To(BeNumerically(">=", delay))
			}
		})

		It("reports cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := trace.New().RunWithCallback(ctx, []int{3, 2, 1}, 0, func(trace.Event) bool { return true })
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("Trace", func() {
		It("collects events and metric values", func() {
			gen := trace.New()
			for _, m := range metrics.Default() {
				gen.AddMetric(m)
			}

			res, err := gen.Trace(context.Background(), []int{5, 4, 3, 2, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Final().Values).To(Equal([]int{1, 2, 3, 4, 5}))
			Expect(res.Input).To(Equal([]int{5, 4, 3, 2, 1}))
			Expect(res.Metrics).To(HaveKeyWithValue("shifts", 10.0))
			Expect(res.Metrics).To(HaveKeyWithValue("events", float64(len(res.Events))))

			again, err := gen.Trace(context.Background(), []int{1, 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Metrics).To(HaveKeyWithValue("shifts", 0.0))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("traces every input independently", func() {
		inputs := [][]int{{3, 1, 2}, {1, 2, 3}, {5, 4, 3, 2, 1}, nil}
		ens := trace.NewEnsemble(metrics.Default, 2)

		results, err := ens.Run(context.Background(), inputs)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(inputs)))

		shifts := []float64{2, 0, 10, 0}
		for i, res := range results {
			Expect(res.Input).To(Equal(inputs[i]))
			Expect(res.Metrics["shifts"]).To(Equal(shifts[i]))
			Expect(res.Final().Terminal()).To(BeTrue())
		}
	})
})

var _ = Describe("StepKind", func() {
	DescribeTable("round-trips through its text form",
		func(kind trace.StepKind, text string) {
			b, err := kind.MarshalText()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal(text))

			var parsed trace.StepKind
			Expect(parsed.UnmarshalText(b)).To(Succeed())
			Expect(parsed).To(Equal(kind))
		},
		Entry("outer begin", trace.OuterBegin, "outer_begin"),
		Entry("key captured", trace.KeyCaptured, "key_captured"),
		Entry("shift", trace.ShiftPerformed, "shift_performed"),
		Entry("key placed", trace.KeyPlaced, "key_placed"),
		Entry("completed", trace.Completed, "completed"),
	)

	It("rejects unknown names", func() {
		var k trace.StepKind
		Expect(k.UnmarshalText([]byte("bogus"))).NotTo(Succeed())
	})
})
