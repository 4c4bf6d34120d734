// Package render owns the board's long-running loop: it drives the stop and
// weather fetchers on a fixed interval, recomputes remaining minutes every
// frame, and draws cards and widgets onto the display surface.
//
// The loop is deliberately single-threaded: fetches run synchronously inside
// an iteration, bounded by the HTTP timeout, so all caches are touched by
// exactly one goroutine and no locking exists anywhere in the package. On a
// board refreshing once a minute, a sub-second stall while fetching is
// imperceptible.
package render

import (
	"image"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/busboard/config"
	"github.com/theoremus-urban-solutions/busboard/display"
	"github.com/theoremus-urban-solutions/busboard/icons"
	"github.com/theoremus-urban-solutions/busboard/layout"
	"github.com/theoremus-urban-solutions/busboard/metrics"
	"github.com/theoremus-urban-solutions/busboard/timetable"
	"github.com/theoremus-urban-solutions/busboard/weather"
)

// Spinner animation shown while no results are cached yet.
const spinnerChars = `|/-\`

const (
	// Keep the spinner on screen at least this long after startup so a very
	// fast first fetch doesn't flash the loading screen for one frame.
	minLoadingDuration = 2 * time.Second

	loadingFrameDelay = 100 * time.Millisecond
	spinnerStep       = 250 * time.Millisecond
	minSleep          = 50 * time.Millisecond
)

// StopFetcher is the stationboard boundary (implemented by timetable.Client).
type StopFetcher interface {
	Fetch(stop config.Stop) (string, []timetable.Connection, error)
}

// WeatherFetcher is the forecast boundary (implemented by weather.Client).
type WeatherFetcher interface {
	Fetch() *weather.Snapshot
}

// Board bundles the display geometry, configuration and result caches into
// one explicit context passed through every render and fetch step.
type Board struct {
	cfg       config.Config
	surface   display.Surface
	geo       layout.Geometry
	stops     StopFetcher
	weather   WeatherFetcher
	collector *metrics.Collector

	results   []*timetable.StopResult
	forecast  *weather.Snapshot
	lastFetch time.Time
	startedAt time.Time

	clockIcon       *image.RGBA
	tramIcon        *image.RGBA
	widgetClockIcon *image.RGBA
	thermoIcon      *image.RGBA
	rainIcon        *image.RGBA
	sunIcon         *image.RGBA

	// Injected for tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// New builds a Board for the given surface. Geometry is computed once here:
// resolution and stop count are fixed for the process lifetime.
func New(cfg config.Config, surface display.Surface, stops StopFetcher, wf WeatherFetcher, collector *metrics.Collector) *Board {
	w, h := surface.Size()
	geo := layout.Compute(w, h, len(cfg.Stops), cfg)
	return &Board{
		cfg:             cfg,
		surface:         surface,
		geo:             geo,
		stops:           stops,
		weather:         wf,
		collector:       collector,
		results:         make([]*timetable.StopResult, len(cfg.Stops)),
		clockIcon:       icons.Clock(geo.IconSize, textSecondary),
		tramIcon:        icons.Tram(geo.IconSize, textSecondary),
		widgetClockIcon: icons.Clock(geo.WidgetIconSize, textPrimary),
		thermoIcon:      icons.Thermometer(geo.WidgetIconSize, textPrimary),
		rainIcon:        icons.Raindrop(geo.WidgetIconSize, blue),
		sunIcon:         icons.Sun(geo.WidgetIconSize, orange),
		now:             time.Now,
		sleep:           time.Sleep,
	}
}

// Run drives the loop until the quit key is pressed or presentation fails.
func (b *Board) Run() error {
	b.startedAt = b.now()
	log.Printf("board running: %d stops, %dx%d, scale %.3f",
		len(b.cfg.Stops), b.geo.DisplayW, b.geo.DisplayH, b.geo.Scale)
	for {
		now := b.now()
		loading := b.loading(now)

		b.drawFrame(now, loading)
		if err := b.surface.Present(); err != nil {
			return err
		}
		b.collector.FramePresented()

		if b.fetchDue(now) {
			b.fetchAll(now)
		}
		if b.surface.PollQuit() {
			log.Printf("quit requested")
			return nil
		}
		b.pause(loading)
	}
}

// loading reports whether the spinner screen should show: any stop still
// unfetched, or still inside the startup grace window.
func (b *Board) loading(now time.Time) bool {
	if now.Sub(b.startedAt) < minLoadingDuration {
		return true
	}
	for _, r := range b.results {
		if r == nil {
			return true
		}
	}
	return false
}

func (b *Board) fetchDue(now time.Time) bool {
	if b.lastFetch.IsZero() {
		return true
	}
	return now.Sub(b.lastFetch) >= time.Duration(b.cfg.FetchInterval)*time.Second
}

// fetchAll polls every stop sequentially, then the weather. A failed stop
// keeps its previous result (or stays unfetched, holding the loading screen)
// and never blocks the others.
func (b *Board) fetchAll(now time.Time) {
	start := b.now()
	total := 0
	for i, stop := range b.cfg.Stops {
		name, conns, err := b.stops.Fetch(stop)
		b.collector.FetchAttempt("stop", err != nil)
		if err != nil {
			continue
		}
		deps := timetable.Normalize(conns, timetable.FilterFor(stop), now, b.cfg.MaxMinutes, b.cfg.MaxDepartures)
		b.results[i] = &timetable.StopResult{Name: name, Departures: deps}
		total += len(deps)
	}
	if b.cfg.ShowWeather && b.weather != nil {
		snap := b.weather.Fetch()
		b.collector.FetchAttempt("weather", snap == nil)
		if snap != nil {
			b.forecast = snap
		}
	}
	b.lastFetch = now
	b.collector.SetDepartures(total)
	b.collector.FetchCycle(b.now().Sub(start))
}

func (b *Board) drawFrame(now time.Time, loading bool) {
	b.surface.Clear(darkBG)
	if loading {
		b.drawLoading(now)
		return
	}
	b.drawWidgets(now)
	for i, pos := range b.geo.Positions {
		res := b.results[i]
		if res == nil || len(res.Departures) == 0 {
			continue
		}
		b.drawCard(pos, res, now)
	}
}

// pause sleeps to the next animation step while loading, otherwise to the
// next wall-clock second so the clock ticks smoothly.
func (b *Board) pause(loading bool) {
	if loading {
		b.sleep(loadingFrameDelay)
		return
	}
	now := b.now()
	d := now.Truncate(time.Second).Add(time.Second).Sub(now)
	if d < minSleep {
		d = minSleep
	}
	b.sleep(d)
}
