package view

import (
	"slices"
	"strconv"
	"strings"
)

const (
	SparklineWidth  = 128
	SparklineHeight = 48

	colorUp   = "#10b981"
	colorDown = "#ef4444"
)

// Point is a vertex of a sparkline polyline.
type Point struct {
	X, Y float64
}

// Sparkline is the drawable geometry of a 7-day price series.
type Sparkline struct {
	Points []Point
	Up     bool
}

// NewSparkline scales prices into a width x height box, y growing
// downwards. It returns false for an empty or flat series, which is
// drawn as a blank placeholder.
func NewSparkline(prices []float64, width, height float64) (Sparkline, bool) {
	if len(prices) < 2 {
		return Sparkline{}, false
	}
	lo, hi := slices.Min(prices), slices.Max(prices)
	spread := hi - lo
	if spread == 0 {
		return Sparkline{}, false
	}

	points := make([]Point, len(prices))
	last := float64(len(prices) - 1)
	for i, p := range prices {
		points[i] = Point{
			X: float64(i) / last * width,
			Y: height - (p-lo)/spread*height,
		}
	}
	return Sparkline{Points: points, Up: prices[len(prices)-1] >= prices[0]}, true
}

// Polyline renders the points attribute of an SVG polyline.
func (s Sparkline) Polyline() string {
	var b strings.Builder
	for i, p := range s.Points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
	}
	return b.String()
}

// Color is the stroke colour: green when the series ended at or above
// where it started, red otherwise.
func (s Sparkline) Color() string {
	if s.Up {
		return colorUp
	}
	return colorDown
}
