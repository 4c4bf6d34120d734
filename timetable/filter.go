package timetable

import (
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Normalize turns raw stationboard connections into the sorted, capped
// departure list for one stop. Malformed records are skipped, never fatal;
// the function is pure given its inputs.
func Normalize(conns []Connection, filter Filter, now time.Time, maxMinutes, maxShow int) []Departure {
	deps := make([]Departure, 0, len(conns))
	for _, c := range conns {
		line := c.LineNumber()
		if !filter.keeps(line, c.Terminal.ID) {
			continue
		}
		ts, err := time.ParseInLocation(timeLayout, c.Time, now.Location())
		if err != nil {
			log.Printf("skipping connection with bad time %q: %v", c.Time, err)
			continue
		}
		delay := parseDelayMinutes(c.DepDelay)
		ts = ts.Add(time.Duration(delay) * time.Minute)

		minutes := int(math.Round(ts.Sub(now).Minutes()))
		if minutes < 0 || minutes > maxMinutes {
			continue
		}
		deps = append(deps, Departure{
			Scheduled:    ts,
			Line:         line,
			TerminalName: c.Terminal.Name,
			DelayMinutes: delay,
		})
	}
	sort.SliceStable(deps, func(i, j int) bool {
		return deps[i].Scheduled.Before(deps[j].Scheduled)
	})
	if maxShow >= 0 && len(deps) > maxShow {
		deps = deps[:maxShow]
	}
	return deps
}

// parseDelayMinutes parses the upstream delay field, a signed minute count
// optionally prefixed with '+'. Unparsable values count as no delay.
func parseDelayMinutes(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.TrimPrefix(s, "+")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
