// Package trace runs insertion sort and records every step of it.
//
// The walk emits, for each outer index i in 1..n-1:
//
//   - [OuterBegin]: i is about to be processed, no key held yet
//   - [KeyCaptured]: key = values[i], inner index j = i-1
//   - [ShiftPerformed]: once per shift, after values[j+1] = values[j]; j--
//   - [KeyPlaced]: after values[j+1] = key
//
// followed by exactly one [Completed] event carrying the sorted values.
//
// # Consuming a run
//
//	gen := trace.New()
//	for e := range gen.Run(ctx, []int{3, 1, 2}, 500*time.Millisecond) {
//		render(e)
//	}
//
// [Generator.Events] gives the same sequence without pacing, and
// [Generator.Trace] collects it together with the attached metrics.
//
// # Thread Safety
//
// Every run owns its working buffer and its channel. Events are never
// mutated after they are emitted.
package trace
