// Package layout maps display resolution, stop count and configured base
// sizes to concrete pixel geometry. It is pure math: computed once at
// startup, since resolution and stop count are fixed for the process
// lifetime.
package layout

import (
	"math"

	"github.com/theoremus-urban-solutions/busboard/config"
)

// Shrink applied on top of the display scale when cards must share the
// screen. Three or more stops use the configured grid_shrink instead.
const twoStopShrink = 0.85

// Position is the top-left corner of one stop card.
type Position struct {
	X int
	Y int
}

// Geometry is the immutable pixel geometry for one process run. All sizes
// are already scaled to the physical display.
type Geometry struct {
	DisplayW int
	DisplayH int
	Scale    float64
	Shrink   float64

	CardW     int
	CardH     int
	BarMargin int

	BarPadding  int
	CardPadding int

	MinuteSize   int
	NowSize      int
	StopNameSize int
	LineSize     int
	IconSize     int
	BorderRadius int
	ShadowOffset int

	WidgetSize     int
	WidgetTextSize int
	WidgetIconSize int

	// MaxColumns is the number of departure sub-cards one card can show.
	// Half-width grid cards hold half as many.
	MaxColumns int

	// Positions holds one card position per displayed stop; for five or
	// more configured stops only the first four are positioned.
	Positions []Position
}

// Compute derives the geometry for the given display and stop count.
func Compute(displayW, displayH, stopCount int, cfg config.Config) Geometry {
	designW := cfg.Cols * cfg.CellW
	designH := cfg.Rows*cfg.BarH + (cfg.Rows-1)*cfg.BarMargin

	scale := 1.0
	if designW > 0 && designH > 0 {
		scale = math.Min(float64(displayW)/float64(designW), float64(displayH)/float64(designH))
	}

	shrink := 1.0
	maxColumns := cfg.Cols - 1
	switch {
	case stopCount == 2:
		shrink = twoStopShrink
	case stopCount > 2:
		shrink = cfg.GridShrink
		maxColumns = cfg.Cols/2 - 1
	}
	if maxColumns < 1 {
		maxColumns = 1
	}

	// Side-by-side arrangements start from half the design width so two
	// cards plus margin span one design width.
	cardBaseW := float64(designW)
	if stopCount > 2 {
		cardBaseW /= 2
	}

	shrink *= fit(displayW, displayH, stopCount, scale*shrink, cardBaseW, cfg)

	unit := scale * shrink
	px := func(base int) int { return int(float64(base) * unit) }

	g := Geometry{
		DisplayW:       displayW,
		DisplayH:       displayH,
		Scale:          scale,
		Shrink:         shrink,
		CardW:          int(cardBaseW * unit),
		CardH:          px(cfg.BarH),
		BarMargin:      px(cfg.BarMargin),
		BarPadding:     px(cfg.BarPadding),
		CardPadding:    px(cfg.CardPadding),
		MinuteSize:     px(cfg.MinuteSize),
		NowSize:        px(cfg.NowSize),
		StopNameSize:   px(cfg.StopNameSize),
		LineSize:       px(cfg.LineSize),
		IconSize:       px(cfg.IconSize),
		BorderRadius:   px(cfg.BorderRadius),
		ShadowOffset:   px(cfg.ShadowOffset),
		WidgetSize:     px(cfg.WidgetSize),
		WidgetTextSize: px(cfg.WidgetTextSize),
		WidgetIconSize: px(cfg.WidgetIconSize),
		MaxColumns:     maxColumns,
	}
	reserveRight := 0
	if stopCount > 2 && widgetsEnabled(cfg) {
		// Side widget panel for grid arrangements.
		reserveRight = g.WidgetSize + 2*g.BarMargin
	}
	g.Positions = positions(displayW, displayH, stopCount, g.CardW, g.CardH, g.BarMargin, reserveRight)
	return g
}

func widgetsEnabled(cfg config.Config) bool {
	return cfg.ShowClock || cfg.ShowWeather
}

// fit returns the factor, at most 1, by which the shrink must be reduced so
// the card arrangement, plus the widget row or panel, stays on screen.
// Everything except the top anchor scales linearly with shrink, so one
// ratio suffices. Pixel metrics truncate, never round up, keeping the
// clamped arrangement inside the display.
func fit(displayW, displayH, stopCount int, unit, cardBaseW float64, cfg config.Config) float64 {
	if stopCount <= 0 || unit <= 0 {
		return 1
	}
	cardH := float64(cfg.BarH)
	margin := float64(cfg.BarMargin)

	var needW, needH, availH float64
	if stopCount <= 2 {
		needW = cardBaseW
		needH = float64(stopCount)*cardH + float64(stopCount-1)*margin
		if widgetsEnabled(cfg) {
			// Bottom widget row: box height plus a margin on each side.
			needH += 2*float64(cfg.WidgetIconSize) + 2*margin
		}
		availH = float64(displayH) - float64(displayH)/10 // stack anchors at the top tenth
	} else {
		needW = 2*cardBaseW + margin
		if widgetsEnabled(cfg) {
			needW += float64(cfg.WidgetSize) + 2*margin
		}
		needH = 2*cardH + margin
		availH = float64(displayH)
	}

	f := 1.0
	if w := float64(displayW) / (needW * unit); w < f {
		f = w
	}
	if h := availH / (needH * unit); h < f {
		f = h
	}
	if f < 0 {
		f = 0
	}
	return f
}

// positions returns the card arrangement for the given stop count:
// 1 single top-centered card, 2 a vertical stack, 3 two up one down,
// 4+ a centered 2x2 grid (first four stops only). reserveRight keeps the
// grid clear of the side widget panel.
func positions(w, h, stopCount, cardW, cardH, margin, reserveRight int) []Position {
	centerX := (w - cardW) / 2
	topY := h / 10

	switch {
	case stopCount <= 0:
		return nil
	case stopCount == 1:
		return []Position{{centerX, topY}}
	case stopCount == 2:
		return []Position{
			{centerX, topY},
			{centerX, topY + cardH + margin},
		}
	}

	gridW := w - reserveRight
	blockW := 2*cardW + margin
	blockH := 2*cardH + margin
	x0 := (gridW - blockW) / 2
	y0 := (h - blockH) / 2

	if stopCount == 3 {
		return []Position{
			{x0, y0},
			{x0 + cardW + margin, y0},
			{(gridW - cardW) / 2, y0 + cardH + margin},
		}
	}
	return []Position{
		{x0, y0},
		{x0 + cardW + margin, y0},
		{x0, y0 + cardH + margin},
		{x0 + cardW + margin, y0 + cardH + margin},
	}
}
