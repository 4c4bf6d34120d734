package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.FetchAttempt("stop", true)
	c.FetchCycle(time.Second)
	c.SetDepartures(5)
	c.FramePresented()
}

func TestFetchAttemptCounts(t *testing.T) {
	c := NewCollector()

	c.FetchAttempt("stop", false)
	c.FetchAttempt("stop", true)
	c.FetchAttempt("weather", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.fetchAttempts.WithLabelValues("stop")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetchFailures.WithLabelValues("stop")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetchAttempts.WithLabelValues("weather")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.fetchFailures.WithLabelValues("weather")))
}

func TestGaugesAndFrames(t *testing.T) {
	c := NewCollector()

	c.SetDepartures(7)
	c.FramePresented()
	c.FramePresented()

	assert.Equal(t, 7.0, testutil.ToFloat64(c.departures))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.framesDrawn))
}
