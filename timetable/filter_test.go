package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

func conn(line, terminal, at, delay string) Connection {
	return Connection{
		StarL:    line,
		Terminal: Terminal{ID: terminal, Name: "T-" + terminal},
		Time:     at,
		DepDelay: delay,
	}
}

func TestNormalizeDelayAdjustment(t *testing.T) {
	// One record with a +3 delay: scheduled shifts from 10:05 to 10:08.
	conns := []Connection{conn("10", "X", "2024-01-01 10:05:00", "+3")}
	deps := Normalize(conns, Filter{}, now, 120, 10)

	require.Len(t, deps, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 8, 0, 0, time.Local), deps[0].Scheduled)
	assert.Equal(t, 3, deps[0].DelayMinutes)
	assert.Equal(t, 8, deps[0].MinutesLeft(now))
}

func TestNormalizeTimeWindow(t *testing.T) {
	tests := []struct {
		name string
		at   string
		want int
	}{
		{"in the past", "2024-01-01 09:58:00", 0},
		{"right now", "2024-01-01 10:00:00", 1},
		{"inside window", "2024-01-01 11:59:00", 1},
		{"beyond window", "2024-01-01 12:01:00", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Normalize([]Connection{conn("10", "X", tt.at, "")}, Filter{}, now, 120, 10)
			if len(deps) != tt.want {
				t.Errorf("expected %d departures, got %d", tt.want, len(deps))
			}
		})
	}
}

func TestNormalizeDelayPushesOutOfWindow(t *testing.T) {
	// 119 minutes out but delayed by 5: past maxMinutes, dropped.
	conns := []Connection{conn("10", "X", "2024-01-01 11:59:00", "+5")}
	deps := Normalize(conns, Filter{}, now, 120, 10)
	assert.Empty(t, deps)

	// A negative delay can pull a record back inside the window.
	conns = []Connection{conn("10", "X", "2024-01-01 12:03:00", "-5")}
	deps = Normalize(conns, Filter{}, now, 120, 10)
	assert.Len(t, deps, 1)
}

func TestNormalizeIncludeSemantics(t *testing.T) {
	filter := Filter{Include: map[string]string{"10": "", "22": "A"}}
	tests := []struct {
		name     string
		line     string
		terminal string
		kept     bool
	}{
		{"line absent from include map", "14", "A", false},
		{"any-direction include", "10", "Z", true},
		{"matching terminal", "22", "A", true},
		{"wrong terminal", "22", "B", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Normalize([]Connection{conn(tt.line, tt.terminal, "2024-01-01 10:30:00", "")}, filter, now, 120, 10)
			if kept := len(deps) == 1; kept != tt.kept {
				t.Errorf("kept=%v, expected %v", kept, tt.kept)
			}
		})
	}
}

func TestNormalizeExcludeSemantics(t *testing.T) {
	filter := Filter{Exclude: map[string]string{"10": "", "22": "A"}}
	tests := []struct {
		name     string
		line     string
		terminal string
		kept     bool
	}{
		{"line absent from exclude map", "14", "A", true},
		{"any-direction exclude", "10", "Z", false},
		{"excluded terminal", "22", "A", false},
		{"other terminal of excluded line", "22", "B", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Normalize([]Connection{conn(tt.line, tt.terminal, "2024-01-01 10:30:00", "")}, filter, now, 120, 10)
			if kept := len(deps) == 1; kept != tt.kept {
				t.Errorf("kept=%v, expected %v", kept, tt.kept)
			}
		})
	}
}

func TestNormalizeExcludeAllDirectionsScenario(t *testing.T) {
	// Scenario B: the delayed line-10 record under LinesExclude {"10": null}.
	conns := []Connection{conn("10", "X", "2024-01-01 10:05:00", "+3")}
	deps := Normalize(conns, Filter{Exclude: map[string]string{"10": ""}}, now, 120, 10)
	assert.Empty(t, deps)
}

func TestNormalizeSortedAndCapped(t *testing.T) {
	conns := []Connection{
		conn("3", "X", "2024-01-01 10:40:00", ""),
		conn("1", "X", "2024-01-01 10:10:00", ""),
		conn("4", "X", "2024-01-01 10:55:00", ""),
		conn("2", "X", "2024-01-01 10:25:00", ""),
	}
	deps := Normalize(conns, Filter{}, now, 120, 3)

	require.Len(t, deps, 3)
	for i := 1; i < len(deps); i++ {
		if deps[i].Scheduled.Before(deps[i-1].Scheduled) {
			t.Errorf("departures out of order at %d: %v before %v", i, deps[i].Scheduled, deps[i-1].Scheduled)
		}
	}
	assert.Equal(t, []string{"1", "2", "3"}, []string{deps[0].Line, deps[1].Line, deps[2].Line})
}

func TestNormalizeSkipsMalformedRecords(t *testing.T) {
	conns := []Connection{
		conn("10", "X", "not a timestamp", ""),
		conn("10", "X", "2024-01-01 10:30:00", "garbage"),
		{Terminal: Terminal{ID: "X"}, Time: "2024-01-01 10:45:00"}, // no line at all
	}
	deps := Normalize(conns, Filter{}, now, 120, 10)

	// The bad timestamp is dropped; the garbage delay counts as zero; the
	// lineless record survives with an empty line label.
	require.Len(t, deps, 2)
	assert.Equal(t, 0, deps[0].DelayMinutes)
}

func TestNormalizeLineFieldFallback(t *testing.T) {
	c := Connection{Line: "F", Terminal: Terminal{ID: "X"}, Time: "2024-01-01 10:30:00"}
	deps := Normalize([]Connection{c}, Filter{Include: map[string]string{"F": ""}}, now, 120, 10)
	require.Len(t, deps, 1)
	assert.Equal(t, "F", deps[0].Line)
}

func TestNormalizeIdempotent(t *testing.T) {
	conns := []Connection{
		conn("10", "X", "2024-01-01 10:05:00", "+3"),
		conn("22", "A", "2024-01-01 10:12:00", ""),
	}
	a := Normalize(conns, Filter{}, now, 120, 10)
	b := Normalize(conns, Filter{}, now, 120, 10)
	assert.Equal(t, a, b)
}

func TestMinutesLeftClampsToZero(t *testing.T) {
	d := Departure{Scheduled: now.Add(-90 * time.Second)}
	assert.Equal(t, 0, d.MinutesLeft(now))
}
