package render

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/theoremus-urban-solutions/busboard/display"
)

type widget struct {
	icon *image.RGBA
	text string
	fg   color.RGBA
}

// drawLoading centers the animated spinner line.
func (b *Board) drawLoading(now time.Time) {
	frame := int(now.UnixMilli()/spinnerStep.Milliseconds()) % len(spinnerChars)
	msg := "Loading " + string(spinnerChars[frame])
	size := b.geo.MinuteSize
	w := b.surface.TextWidth(msg, size, true)
	b.surface.Text(msg, size, (b.geo.DisplayW-w)/2, (b.geo.DisplayH-size)/2, accent, true)
}

// activeWidgets returns the enabled bottom/side widgets for this frame.
func (b *Board) activeWidgets(now time.Time) []widget {
	var ws []widget
	if b.cfg.ShowClock {
		ws = append(ws, widget{icon: b.widgetClockIcon, text: now.Format("15:04:05"), fg: textPrimary})
	}
	if b.cfg.ShowWeather && b.forecast != nil {
		ws = append(ws, widget{
			icon: b.thermoIcon,
			text: fmt.Sprintf("%d° / %d°", b.forecast.MinTempC, b.forecast.MaxTempC),
			fg:   textPrimary,
		})
		if b.forecast.WillRain {
			ws = append(ws, widget{icon: b.rainIcon, text: "Rain", fg: blue})
		} else {
			ws = append(ws, widget{icon: b.sunIcon, text: "Dry", fg: textSecondary})
		}
	}
	return ws
}

// drawWidgets lays the active widgets out along the bottom edge for one or
// two stops, or as a side panel once the card grid needs the full width.
func (b *Board) drawWidgets(now time.Time) {
	ws := b.activeWidgets(now)
	if len(ws) == 0 {
		return
	}
	g := b.geo
	boxW, boxH := g.WidgetSize, g.WidgetIconSize*2
	margin := g.BarMargin

	if len(b.cfg.Stops) <= 2 {
		totalW := len(ws)*boxW + (len(ws)-1)*margin
		x := (g.DisplayW - totalW) / 2
		y := g.DisplayH - boxH - margin
		for _, w := range ws {
			b.drawWidgetBox(w, x, y, boxW, boxH)
			x += boxW + margin
		}
		return
	}
	totalH := len(ws)*boxH + (len(ws)-1)*margin
	x := g.DisplayW - boxW - margin
	y := (g.DisplayH - totalH) / 2
	for _, w := range ws {
		b.drawWidgetBox(w, x, y, boxW, boxH)
		y += boxH + margin
	}
}

func (b *Board) drawWidgetBox(w widget, x, y, boxW, boxH int) {
	g := b.geo
	b.surface.FillRounded(display.Rect{X: x, Y: y, W: boxW, H: boxH}, g.BorderRadius, cardBG)
	iconY := y + (boxH-g.WidgetIconSize)/2
	b.surface.Blit(w.icon, x+g.CardPadding, iconY)
	textX := x + g.CardPadding + g.WidgetIconSize + g.CardPadding
	b.surface.Text(w.text, g.WidgetTextSize, textX, y+(boxH-g.WidgetTextSize)/2, w.fg, true)
}
