package timetable

import (
	"math"
	"time"

	"github.com/theoremus-urban-solutions/busboard/config"
)

// Connection is one raw stationboard record as returned by the upstream API.
// The line number arrives under either "*L" or "line" depending on the
// operator; DepDelay is a signed minute count like "+3" and may be absent.
type Connection struct {
	StarL    string   `json:"*L"`
	Line     string   `json:"line"`
	Terminal Terminal `json:"terminal"`
	Time     string   `json:"time"` // "2006-01-02 15:04:05", local
	DepDelay string   `json:"dep_delay"`
}

// Terminal identifies the destination of a connection.
type Terminal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LineNumber returns the connection's line, preferring the "*L" field.
func (c Connection) LineNumber() string {
	if c.StarL != "" {
		return c.StarL
	}
	return c.Line
}

// Departure is one upcoming vehicle event, post-filter and delay-adjustment.
// Scheduled already includes any reported delay; remaining minutes are
// recomputed at render time so staleness between fetch and draw is invisible.
type Departure struct {
	Scheduled    time.Time
	Line         string
	TerminalName string
	DelayMinutes int
}

// MinutesLeft returns whole minutes from now until the departure, clamped to
// zero for departures that are due or just passed.
func (d Departure) MinutesLeft(now time.Time) int {
	m := int(math.Round(d.Scheduled.Sub(now).Minutes()))
	if m < 0 {
		return 0
	}
	return m
}

// StopResult is the per-stop cache slot consumed by the render loop.
// A nil *StopResult means "not yet fetched".
type StopResult struct {
	Name       string
	Departures []Departure
}

// Filter is a stop's line filter. At most one of Include/Exclude is non-nil;
// a mapped empty terminal applies the rule to every direction of the line.
type Filter struct {
	Include map[string]string
	Exclude map[string]string
}

// FilterFor builds the Filter for a configured stop.
func FilterFor(stop config.Stop) Filter {
	f := Filter{}
	if len(stop.LinesInclude) > 0 {
		f.Include = stop.LinesInclude
	} else if len(stop.LinesExclude) > 0 {
		f.Exclude = stop.LinesExclude
	}
	return f
}

// keeps reports whether a connection with the given line and terminal id
// passes the filter.
func (f Filter) keeps(line, terminalID string) bool {
	if f.Include != nil {
		term, ok := f.Include[line]
		if !ok {
			return false
		}
		return term == "" || term == terminalID
	}
	if f.Exclude != nil {
		term, ok := f.Exclude[line]
		if !ok {
			return true
		}
		// A specific terminal excludes only that destination.
		return term != "" && term != terminalID
	}
	return true
}
