// Package display provides the raster surface the render loop draws on:
// rounded rectangles, text, icon blits and frame presentation, plus quit-key
// polling. The in-memory Raster implementation backs both tests and the
// Linux framebuffer device.
package display

import (
	"image"
	"image/color"
)

// Rect is a pixel rectangle with top-left origin.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Surface is the display boundary required by the render loop.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h int)
	// Clear fills the whole surface with a color.
	Clear(c color.RGBA)
	// FillRounded fills a rounded rectangle, alpha-blending over existing
	// content.
	FillRounded(r Rect, radius int, c color.RGBA)
	// Blit draws an image with its top-left corner at (x, y).
	Blit(img image.Image, x, y int)
	// Text draws s with the given pixel size and top-left anchor.
	Text(s string, size, x, y int, c color.RGBA, bold bool)
	// TextWidth measures s at the given pixel size.
	TextWidth(s string, size int, bold bool) int
	// Present pushes the completed frame to the physical display.
	Present() error
	// PollQuit reports whether a quit keypress is pending. Polled once per
	// frame; never blocks.
	PollQuit() bool
}
