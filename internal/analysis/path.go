package analysis

import (
	"strings"

	"github.com/san-kum/spintop/internal/sim"
)

type Point struct{ X, Y float64 }

// Path is the track of the top projected onto the ground plane.
type Path struct {
	Points []Point

	// Settled marks the index of the first sample after the top stopped
	// spinning, or -1.
	Settled int
}

// GeneratePath records the X/Z position of every sample.
func GeneratePath(samples []sim.Sample) *Path {
	path := &Path{Points: make([]Point, 0, len(samples)), Settled: -1}
	wasSpinning := false
	for i, s := range samples {
		path.Points = append(path.Points, Point{X: s.Position.X(), Y: s.Position.Z()})
		if wasSpinning && !s.Spinning && path.Settled < 0 {
			path.Settled = i
		}
		wasSpinning = s.Spinning
	}
	return path
}

// Extent is the largest distance between two path points along either axis.
func (p *Path) Extent() float64 {
	if p == nil || len(p.Points) == 0 {
		return 0
	}
	minX, maxX, minY, maxY := bounds(p.Points)
	return max(maxX-minX, maxY-minY)
}

func bounds(pts []Point) (minX, maxX, minY, maxY float64) {
	minX, maxX = pts[0].X, pts[0].X
	minY, maxY = pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return
}

// PathToASCII draws the path on a width x height grid. The first point is
// 'o', the settle point 'x'.
func PathToASCII(path *Path, width, height int) string {
	if path == nil || len(path.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := bounds(path.Points)

	// pad so the ends are not on the border
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	plot := func(p Point, r rune) {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = r
		}
	}

	for _, p := range path.Points {
		plot(p, '•')
	}
	plot(path.Points[0], 'o')
	if path.Settled >= 0 {
		plot(path.Points[path.Settled], 'x')
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
