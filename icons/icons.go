// Package icons rasterizes the board's glyphs (clock, tram, thermometer,
// rain, sun) at load time. The shapes are a handful of circle and rectangle
// primitives, so no vector pipeline is involved.
package icons

import (
	"image"
	"image/color"
)

type canvas struct {
	img *image.RGBA
	n   int // side length
}

func newCanvas(size int) *canvas {
	if size < 8 {
		size = 8
	}
	return &canvas{img: image.NewRGBA(image.Rect(0, 0, size, size)), n: size}
}

func (cv *canvas) set(x, y int, c color.RGBA) {
	if x >= 0 && x < cv.n && y >= 0 && y < cv.n {
		cv.img.SetRGBA(x, y, c)
	}
}

func (cv *canvas) fillRect(x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			cv.set(x, y, c)
		}
	}
}

func (cv *canvas) fillCircle(cx, cy, r int, c color.RGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				cv.set(cx+x, cy+y, c)
			}
		}
	}
}

func (cv *canvas) ring(cx, cy, r, thickness int, c color.RGBA) {
	inner := r - thickness
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			d := x*x + y*y
			if d <= r*r && d >= inner*inner {
				cv.set(cx+x, cy+y, c)
			}
		}
	}
}

// line draws a thick segment by stamping small squares along it.
func (cv *canvas) line(x0, y0, x1, y1, thickness int, c color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		steps = 1
	}
	half := thickness / 2
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		cv.fillRect(x-half, y-half, x+half, y+half, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func stroke(size int) int {
	s := size / 12
	if s < 1 {
		s = 1
	}
	return s
}

// Clock renders a clock face with hands at roughly ten past ten.
func Clock(size int, c color.RGBA) *image.RGBA {
	cv := newCanvas(size)
	n := cv.n
	mid := n / 2
	r := n*45/100 - 1
	cv.ring(mid, mid, r, stroke(n), c)
	cv.line(mid, mid, mid, mid-r*6/10, stroke(n), c)          // minute hand
	cv.line(mid, mid, mid+r*45/100, mid-r*2/10, stroke(n), c) // hour hand
	return cv.img
}

// Tram renders a simple front-facing tram: body, two windows, two wheels.
func Tram(size int, c color.RGBA) *image.RGBA {
	cv := newCanvas(size)
	n := cv.n
	clear := color.RGBA{}
	bodyL, bodyR := n/6, n-n/6
	bodyT, bodyB := n/8, n*3/4
	cv.fillRect(bodyL, bodyT, bodyR, bodyB, c)
	// windows
	winT, winB := bodyT+n/8, bodyT+n*3/8
	cv.fillRect(bodyL+n/12, winT, mid(bodyL, bodyR)-n/24, winB, clear)
	cv.fillRect(mid(bodyL, bodyR)+n/24, winT, bodyR-n/12, winB, clear)
	// wheels
	wr := n / 10
	cv.fillCircle(bodyL+n/6, bodyB+wr, wr, c)
	cv.fillCircle(bodyR-n/6, bodyB+wr, wr, c)
	// pantograph
	cv.line(n/2, bodyT, n/2, n/16, stroke(n), c)
	return cv.img
}

func mid(a, b int) int { return (a + b) / 2 }

// Thermometer renders a stem with a bulb at the bottom.
func Thermometer(size int, c color.RGBA) *image.RGBA {
	cv := newCanvas(size)
	n := cv.n
	cx := n / 2
	bulbR := n / 5
	bulbY := n - bulbR - 1
	stemW := n / 8
	cv.fillRect(cx-stemW, n/8, cx+stemW, bulbY-bulbR/2, c)
	cv.fillCircle(cx, bulbY, bulbR, c)
	return cv.img
}

// Raindrop renders a drop: a triangle tip over a circle.
func Raindrop(size int, c color.RGBA) *image.RGBA {
	cv := newCanvas(size)
	n := cv.n
	cx := n / 2
	r := n / 3
	cy := n - r - 1
	cv.fillCircle(cx, cy, r, c)
	for y := n / 8; y <= cy; y++ {
		// widen linearly toward the circle
		half := r * (y - n/8) / (cy - n/8 + 1)
		cv.fillRect(cx-half, y, cx+half, y, c)
	}
	return cv.img
}

// Sun renders a disc with eight rays.
func Sun(size int, c color.RGBA) *image.RGBA {
	cv := newCanvas(size)
	n := cv.n
	midp := n / 2
	r := n / 4
	cv.fillCircle(midp, midp, r, c)
	ray := n*45/100 - 1
	offsets := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for _, o := range offsets {
		// diagonal rays are shortened to keep a round silhouette
		l := ray
		if o[0] != 0 && o[1] != 0 {
			l = ray * 7 / 10
		}
		cv.line(midp+o[0]*(r+2), midp+o[1]*(r+2), midp+o[0]*l, midp+o[1]*l, stroke(n), c)
	}
	return cv.img
}
