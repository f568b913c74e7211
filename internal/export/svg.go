package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/sortlab/internal/complexity"
	"github.com/san-kum/sortlab/internal/trace"
)

const (
	background = "#0a0a0a"
	cellColor  = "#808080"
	innerColor = "#ff0000"
	nextColor  = "#1f51ff"
	keyColor   = "#00ff00"
	axisColor  = "#ffffff"
)

var strokeColors = []string{"#ff0000", "#00ff00", "#1f51ff", "#ffff00"}

// EventToSVG draws one snapshot as a row of labeled cells, highlighting the
// inner pointers and the held key.
func EventToSVG(e trace.Event, cell int) string {
	if cell <= 0 {
		cell = 50
	}
	pad := cell / 10
	width := len(e.Values)*cell + 2*pad
	if width < 3*cell {
		width = 3 * cell
	}
	height := 2*cell + 2*pad

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for i, v := range e.Values {
		fill := cellColor
		switch i {
		case e.Inner:
			fill = innerColor
		case e.InnerNext:
			fill = nextColor
		}
		x := pad + i*cell
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="%d" fill="%s"/>
`, x+pad/2, pad, cell-pad, cell-pad, cell/6, fill))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="#ffffff" font-size="%d" text-anchor="middle" dominant-baseline="central">%d</text>
`, x+cell/2, pad+(cell-pad)/2, cell*2/5, v))
	}

	label := e.Step.String()
	if e.HasKey() {
		label = fmt.Sprintf("%s  key=%d", label, e.Key)
	}
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="%s" font-size="%d">%s</text>
`, pad, cell+pad+cell/2, keyColor, cell/3, label))

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots complexity series as polylines over shared axes.
func SeriesToSVG(series []complexity.Series, width, height int) string {
	var minX, maxX, maxY float64
	first := true
	for _, s := range series {
		for _, p := range s.Points {
			if first {
				minX, maxX, maxY = p.X, p.X, p.Y
				first = false
				continue
			}
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}
	if first {
		return ""
	}

	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	if maxY == 0 {
		maxY = 1
	}

	margin := 40.0
	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	// axes
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="2" d="M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f"/>
`, axisColor, margin, margin, margin, margin+plotH, margin+plotW, margin+plotH))

	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		color := strokeColors[i%len(strokeColors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j, p := range s.Points {
			x := margin + (p.X-minX)/rangeX*plotW
			y := margin + plotH - p.Y/maxY*plotH
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-size="12">%s</text>
`, margin+8, margin+14*float64(i+1), color, s.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
