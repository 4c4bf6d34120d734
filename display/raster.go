package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Fallback when a face cannot be built at the requested size.
var basicFace font.Face = basicfont.Face7x13

type faceKey struct {
	size int
	bold bool
}

// Raster is an in-memory Surface backed by an RGBA buffer. Present and
// PollQuit are no-ops; physical backends embed Raster and override them.
type Raster struct {
	img     *image.RGBA
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

// NewRaster creates a w x h in-memory surface with the Go fonts loaded.
func NewRaster(w, h int) (*Raster, error) {
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bld, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Raster{
		img:     image.NewRGBA(image.Rect(0, 0, w, h)),
		regular: reg,
		bold:    bld,
		faces:   map[faceKey]font.Face{},
	}, nil
}

// Image exposes the backing buffer for presentation and tests.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Clear(c color.RGBA) {
	draw.Draw(r.img, r.img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
}

// FillRounded fills the rectangle row by row, insetting rows that fall in
// the corner arcs. Row spans go through draw.Over so translucent fills
// (card shadows) blend correctly.
func (r *Raster) FillRounded(rect Rect, radius int, c color.RGBA) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	if max := rect.H / 2; radius > max {
		radius = max
	}
	if max := rect.W / 2; radius > max {
		radius = max
	}
	src := &image.Uniform{c}
	for row := 0; row < rect.H; row++ {
		inset := 0
		if radius > 0 {
			dy := 0
			if row < radius {
				dy = radius - row
			} else if row >= rect.H-radius {
				dy = row - (rect.H - 1 - radius)
			}
			if dy > 0 {
				f := float64(radius)
				inset = radius - int(math.Sqrt(f*f-float64(dy*dy)))
			}
		}
		span := image.Rect(rect.X+inset, rect.Y+row, rect.X+rect.W-inset, rect.Y+row+1)
		draw.Draw(r.img, span, src, image.Point{}, draw.Over)
	}
}

func (r *Raster) Blit(img image.Image, x, y int) {
	b := img.Bounds()
	dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(r.img, dst, img, b.Min, draw.Over)
}

func (r *Raster) face(size int, bold bool) font.Face {
	if size < 1 {
		size = 1
	}
	key := faceKey{size, bold}
	if f, ok := r.faces[key]; ok {
		return f
	}
	src := r.regular
	if bold {
		src = r.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		face = basicFace
	}
	r.faces[key] = face
	return face
}

func (r *Raster) Text(s string, size, x, y int, c color.RGBA, bold bool) {
	face := r.face(size, bold)
	d := font.Drawer{
		Dst:  r.img,
		Src:  &image.Uniform{c},
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func (r *Raster) TextWidth(s string, size int, bold bool) int {
	return font.MeasureString(r.face(size, bold), s).Ceil()
}

// Present is a no-op on the in-memory surface.
func (r *Raster) Present() error { return nil }

// PollQuit never fires on the in-memory surface.
func (r *Raster) PollQuit() bool { return false }
