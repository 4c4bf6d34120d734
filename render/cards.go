package render

import (
	"strconv"
	"time"

	"github.com/theoremus-urban-solutions/busboard/display"
	"github.com/theoremus-urban-solutions/busboard/layout"
	"github.com/theoremus-urban-solutions/busboard/timetable"
)

// drawCard renders one stop card: shadow, background, centered stop name,
// clock/tram icon column, and the departure sub-cards.
func (b *Board) drawCard(pos layout.Position, res *timetable.StopResult, now time.Time) {
	g := b.geo
	rect := display.Rect{X: pos.X, Y: pos.Y, W: g.CardW, H: g.CardH}
	shadow := display.Rect{X: rect.X + g.ShadowOffset, Y: rect.Y + g.ShadowOffset, W: rect.W, H: rect.H}
	b.surface.FillRounded(shadow, g.BorderRadius, cardShadow)
	b.surface.FillRounded(rect, g.BorderRadius, cardBG)

	nameW := b.surface.TextWidth(res.Name, g.StopNameSize, true)
	b.surface.Text(res.Name, g.StopNameSize, pos.X+(g.CardW-nameW)/2, pos.Y+g.BarPadding, textPrimary, true)

	contentY := pos.Y + g.BarPadding + g.StopNameSize + g.BarPadding
	contentH := g.CardH - (3*g.BarPadding + g.StopNameSize)
	if contentH <= 0 {
		return
	}

	// Icon anchors at 1/4 and 3/4 of the content height.
	iconX := pos.X + g.BarPadding
	b.surface.Blit(b.clockIcon, iconX, contentY+contentH/4-g.IconSize/2)
	b.surface.Blit(b.tramIcon, iconX, contentY+3*contentH/4-g.IconSize/2)

	cols := len(res.Departures)
	if cols > g.MaxColumns {
		cols = g.MaxColumns
	}
	startX := iconX + g.IconSize + g.CardPadding
	colW := (pos.X + g.CardW - g.BarPadding - startX) / cols
	if colW <= 4 {
		return
	}
	for i, dep := range res.Departures[:cols] {
		b.drawDeparture(startX+i*colW, contentY, colW, contentH, dep, now)
	}
}

// drawDeparture renders one sub-card: minutes (or NOW) above the line label,
// color-coded by urgency, with a warning mark when the trip runs late.
func (b *Board) drawDeparture(x, y, w, h int, dep timetable.Departure, now time.Time) {
	g := b.geo
	minutes := dep.MinutesLeft(now)

	bg, fg := subCardBG, textPrimary
	switch {
	case minutes == 0:
		bg, fg = red, white
	case minutes <= 2:
		bg, fg = orange, white
	}
	b.surface.FillRounded(display.Rect{X: x + 2, Y: y + 5, W: w - 4, H: h - 10}, 8, bg)

	minText := strconv.Itoa(minutes)
	minSize := g.MinuteSize
	if minutes == 0 {
		minText = "NOW"
		minSize = g.NowSize
	}
	tw := b.surface.TextWidth(minText, minSize, true)
	b.surface.Text(minText, minSize, x+(w-tw)/2, y+h/4-minSize/2, fg, true)

	lw := b.surface.TextWidth(dep.Line, g.LineSize, true)
	lineX := x + (w-lw)/2
	lineY := y + 3*h/4 - g.LineSize/2
	b.surface.Text(dep.Line, g.LineSize, lineX, lineY, fg, true)
	if dep.DelayMinutes > 0 {
		b.surface.Text("!", g.LineSize, lineX+lw+g.CardPadding/2, lineY, orange, true)
	}
}
