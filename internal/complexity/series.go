package complexity

import "math/rand"

// Chart sizes follow the 1..100 slider range.
const (
	MinSize = 1
	MaxSize = 100
)

type Point struct {
	X, Y float64
}

type Series struct {
	Name   string
	Points []Point
}

// Ys returns the y values in x order.
func (s Series) Ys() []float64 {
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Y
	}
	return ys
}

// ClampSize keeps n within the slider range.
func ClampSize(n int) int {
	if n < MinSize {
		return MinSize
	}
	if n > MaxSize {
		return MaxSize
	}
	return n
}

func build(name string, n int, f func(x float64) float64) Series {
	pts := make([]Point, n)
	for i := range pts {
		x := float64(i + 1)
		pts[i] = Point{X: x, Y: f(x)}
	}
	return Series{Name: name, Points: pts}
}

// WorstTime is the O(n^2) curve of reversed input.
func WorstTime(n int) Series {
	return build("worst time O(n^2)", n, func(x float64) float64 { return x * x })
}

// BestTime is the O(n) curve of sorted input.
func BestTime(n int) Series {
	return build("best time O(n)", n, func(x float64) float64 { return x })
}

func WorstSpace(n int) Series {
	return build("worst space O(n)", n, func(x float64) float64 { return x })
}

// BestSpace is the constant auxiliary space of an in-place sort.
func BestSpace(n int) Series {
	return build("best space O(1)", n, func(float64) float64 { return 1 })
}

// Noisy scatters up to 20% above the quadratic curve.
func Noisy(n int, rng *rand.Rand) Series {
	return build("observed", n, func(x float64) float64 {
		return x*x + rng.Float64()*0.2*x*x
	})
}
