package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/physics"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells addressed in sub-pixels, Width*2 by
// Height*4.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) DrawCircle(cx, cy, r int) {
	steps := max(8, 4*r)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.Set(cx+int(math.Round(float64(r)*math.Cos(a))), cy+int(math.Round(float64(r)*math.Sin(a))))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps a side view of the world onto a canvas: world -Z runs to
// the right, world Y runs up.
type Viewport struct {
	Near, Far float64 // z range, Near > Far
	Floor     float64
	Ceiling   float64
}

func DefaultViewport() Viewport {
	return Viewport{Near: 0.2, Far: -2.0, Floor: -0.1, Ceiling: 1.6}
}

// Project returns the sub-pixel coordinates of p on c.
func (v Viewport) Project(c *Canvas, p mgl64.Vec3) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	x := (v.Near - p.Z()) / (v.Near - v.Far) * w
	y := (v.Ceiling - p.Y()) / (v.Ceiling - v.Floor) * h
	return int(math.Round(x)), int(math.Round(y))
}

// DrawWorld draws the colliders of w as seen from the side.
func DrawWorld(c *Canvas, v Viewport, w *physics.World) {
	for _, s := range w.Colliders() {
		switch s := s.(type) {
		case *physics.Box:
			x0, y0 := v.Project(c, mgl64.Vec3{0, s.Max.Y(), s.Max.Z()})
			x1, y1 := v.Project(c, mgl64.Vec3{0, s.Min.Y(), s.Min.Z()})
			c.DrawLine(x0, y0, x1, y0)
			c.DrawLine(x1, y0, x1, y1)
			c.DrawLine(x1, y1, x0, y1)
			c.DrawLine(x0, y1, x0, y0)
		case *physics.Plane:
			if math.Abs(s.Normal.Normalize().Y()) < 0.99 {
				continue
			}
			x0, y := v.Project(c, mgl64.Vec3{0, s.Origin.Y(), v.Near})
			x1, _ := v.Project(c, mgl64.Vec3{0, s.Origin.Y(), v.Far})
			c.DrawLine(x0, y, x1, y)
		case *physics.Sphere:
			x, y := v.Project(c, s.Center)
			ex, _ := v.Project(c, s.Center.Sub(mgl64.Vec3{0, 0, s.Radius}))
			c.DrawCircle(x, y, max(1, ex-x))
		}
	}
}

// DrawTop draws the top as a tip circle with its spin axis.
func DrawTop(c *Canvas, v Viewport, b *physics.RigidBody) {
	const axisLength = 0.15
	tip := b.Position()
	x, y := v.Project(c, tip)
	c.DrawCircle(x, y, 1)
	ax, ay := v.Project(c, tip.Add(b.Up().Mul(axisLength)))
	c.DrawLine(x, y, ax, ay)
}
