package trace

import (
	"iter"
	"slices"
)

// Steps walks insertion sort over a private copy of values and yields a
// Frame at every instrumented point. greater must be a strict ordering; equal
// elements are never shifted past each other, which keeps the sort stable.
//
// Every yielded Frame owns its Values slice.
func Steps[T any](values []T, greater func(a, b T) bool) iter.Seq[Frame[T]] {
	return func(yield func(Frame[T]) bool) {
		arr := slices.Clone(values)
		n := len(arr)

		frame := func(step StepKind, outer, j int, key T, hasKey bool) Frame[T] {
			f := Frame[T]{
				Step:      step,
				Outer:     outer,
				Inner:     j,
				InnerNext: j + 1,
				Key:       key,
				HasKey:    hasKey,
				Values:    slices.Clone(arr),
			}
			if j == NoIndex && !hasKey {
				f.InnerNext = NoIndex
			}
			return f
		}

		var zero T
		for i := 1; i < n; i++ {
			if !yield(frame(OuterBegin, i, NoIndex, zero, false)) {
				return
			}

			key := arr[i]
			j := i - 1
			if !yield(frame(KeyCaptured, i, j, key, true)) {
				return
			}

			for j >= 0 && greater(arr[j], key) {
				arr[j+1] = arr[j]
				j--
				if !yield(frame(ShiftPerformed, i, j, key, true)) {
					return
				}
			}

			arr[j+1] = key
			if !yield(frame(KeyPlaced, i, j, key, true)) {
				return
			}
		}

		yield(frame(Completed, n, NoIndex, zero, false))
	}
}

// IntGreater orders integer traces ascending.
func IntGreater(a, b int) bool { return a > b }
