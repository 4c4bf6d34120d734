package display

import (
	"image"
	"image/color"
	"testing"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func newTestRaster(t *testing.T, w, h int) *Raster {
	t.Helper()
	r, err := NewRaster(w, h)
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	return r
}

func TestClearFillsSurface(t *testing.T) {
	r := newTestRaster(t, 20, 10)
	r.Clear(red)
	if got := r.Image().RGBAAt(0, 0); got != red {
		t.Errorf("corner pixel = %v, expected %v", got, red)
	}
	if got := r.Image().RGBAAt(19, 9); got != red {
		t.Errorf("corner pixel = %v, expected %v", got, red)
	}
}

func TestFillRoundedClipsCorners(t *testing.T) {
	r := newTestRaster(t, 40, 40)
	r.Clear(color.RGBA{A: 255})
	r.FillRounded(Rect{X: 0, Y: 0, W: 40, H: 40}, 10, white)

	// Corner pixel stays background, center and edge midpoints are filled.
	if got := r.Image().RGBAAt(0, 0); got == white {
		t.Error("corner pixel should be clipped by the radius")
	}
	if got := r.Image().RGBAAt(20, 20); got != white {
		t.Errorf("center pixel = %v, expected fill", got)
	}
	if got := r.Image().RGBAAt(20, 0); got != white {
		t.Errorf("top edge midpoint = %v, expected fill", got)
	}
}

func TestFillRoundedAlphaBlends(t *testing.T) {
	r := newTestRaster(t, 10, 10)
	r.Clear(white)
	r.FillRounded(Rect{X: 0, Y: 0, W: 10, H: 10}, 0, color.RGBA{0, 0, 0, 128})
	got := r.Image().RGBAAt(5, 5)
	if got == white || got.R == 0 {
		t.Errorf("expected a blended gray, got %v", got)
	}
}

func TestTextDrawsPixels(t *testing.T) {
	r := newTestRaster(t, 200, 60)
	r.Clear(color.RGBA{A: 255})
	r.Text("42", 40, 10, 5, white, true)

	found := false
	for y := 0; y < 60 && !found; y++ {
		for x := 0; x < 200; x++ {
			if px := r.Image().RGBAAt(x, y); px.R > 200 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("expected text to touch the buffer")
	}
}

func TestTextWidthGrowsWithSize(t *testing.T) {
	r := newTestRaster(t, 10, 10)
	small := r.TextWidth("Loading", 12, false)
	large := r.TextWidth("Loading", 48, false)
	if small <= 0 || large <= small {
		t.Errorf("widths should grow with size: %d then %d", small, large)
	}
}

func TestBlitRespectsPosition(t *testing.T) {
	r := newTestRaster(t, 20, 20)
	r.Clear(color.RGBA{A: 255})
	icon := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			icon.SetRGBA(x, y, red)
		}
	}
	r.Blit(icon, 10, 10)
	if got := r.Image().RGBAAt(11, 11); got != red {
		t.Errorf("blitted pixel = %v, expected %v", got, red)
	}
	if got := r.Image().RGBAAt(5, 5); got == red {
		t.Error("pixel outside blit target should be untouched")
	}
}
