package complexity

import (
	"github.com/guptarohit/asciigraph"
)

type PlotOptions struct {
	Width   int
	Height  int
	Caption string
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Blue,
	asciigraph.Yellow,
}

// Plot draws one or more series on a shared ascii chart.
func Plot(opts PlotOptions, series ...Series) string {
	data := make([][]float64, 0, len(series))
	legends := make([]string, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	for i, s := range series {
		ys := s.Ys()
		if len(ys) == 0 {
			continue
		}
		if len(ys) == 1 {
			ys = append(ys, ys[0])
		}
		data = append(data, ys)
		legends = append(legends, s.Name)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	if len(data) == 0 {
		return ""
	}

	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.SeriesColors(colors...),
	}
	if opts.Width > 0 {
		options = append(options, asciigraph.Width(opts.Width))
	}
	if opts.Caption != "" {
		options = append(options, asciigraph.Caption(opts.Caption))
	}
	if len(data) > 1 {
		options = append(options, asciigraph.SeriesLegends(legends...))
	}

	return asciigraph.PlotMany(data, options...)
}
