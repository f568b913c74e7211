package input

import (
	"errors"
	"fmt"
	"math/rand"
)

func Ascending(n int) []int {
	xs := make([]int, n)
	for i := range xs {
		xs[i] = i + 1
	}
	return xs
}

func Descending(n int) []int {
	xs := make([]int, n)
	for i := range xs {
		xs[i] = n - i
	}
	return xs
}

// Random draws n values in [1, 10*n].
func Random(n int, rng *rand.Rand) []int {
	xs := make([]int, n)
	for i := range xs {
		xs[i] = rng.Intn(10*n) + 1
	}
	return xs
}

// WithDuplicates draws n values from a pool of about n/3 distinct values.
func WithDuplicates(n int, rng *rand.Rand) []int {
	pool := n/3 + 1
	xs := make([]int, n)
	for i := range xs {
		xs[i] = rng.Intn(pool) + 1
	}
	return xs
}

// Case names an input shape used by presets and benchmarks.
type Case string

const (
	BestCase      Case = "best"
	WorstCase     Case = "worst"
	RandomCase    Case = "random"
	DuplicateCase Case = "duplicates"
)

var ErrUnknownCase = errors.New("unknown input case")

// Cases lists every known input shape.
var Cases = []Case{BestCase, WorstCase, RandomCase, DuplicateCase}

// ParseCase validates a case name.
func ParseCase(name string) (Case, error) {
	for _, c := range Cases {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: %v)", ErrUnknownCase, name, Cases)
}

// Generate builds an input of shape c and size n.
func Generate(c Case, n int, rng *rand.Rand) []int {
	switch c {
	case BestCase:
		return Ascending(n)
	case WorstCase:
		return Descending(n)
	case DuplicateCase:
		return WithDuplicates(n, rng)
	default:
		// callers validate names with ParseCase
		return Random(n, rng)
	}
}
