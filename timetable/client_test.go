package timetable

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/busboard/config"
)

func TestFetchSuccess(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"stop":                 r.URL.Query().Get("stop"),
			"transportation_types": r.URL.Query().Get("transportation_types"),
			"limit":                r.URL.Query().Get("limit"),
			"show_delays":          r.URL.Query().Get("show_delays"),
			"mode":                 r.URL.Query().Get("mode"),
		}
		w.Write([]byte(`{
			"stop": {"name": "Genève, Bel-Air"},
			"connections": [
				{"*L": "10", "terminal": {"id": "X", "name": "Rive"}, "time": "2024-01-01 10:05:00", "dep_delay": "+3"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	name, conns, err := c.Fetch(config.Stop{ID: "8592791", Limit: 300})

	require.NoError(t, err)

	assert.Equal(t, "Genève, Bel-Air", name)
	require.Len(t, conns, 1)
	assert.Equal(t, "10", conns[0].LineNumber())
	assert.Equal(t, "+3", conns[0].DepDelay)

	assert.Equal(t, "8592791", gotQuery["stop"])
	assert.Equal(t, "bus,tram", gotQuery["transportation_types"])
	assert.Equal(t, "300", gotQuery["limit"])
	assert.Equal(t, "1", gotQuery["show_delays"])
	assert.Equal(t, "depart", gotQuery["mode"])
}

func TestFetchDefaultLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"stop": {"name": "S"}, "connections": []}`))
	}))
	defer srv.Close()

	NewClient(srv.URL, time.Second).Fetch(config.Stop{ID: "1"})
}

func TestFetchHTTPErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	name, conns, err := NewClient(srv.URL, time.Second).Fetch(config.Stop{ID: "1"})
	assert.Error(t, err)
	assert.Equal(t, "?", name)
	assert.Nil(t, conns)
}

func TestFetchNetworkErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	name, conns, err := NewClient(srv.URL, time.Second).Fetch(config.Stop{ID: "1"})
	assert.Error(t, err)
	assert.Equal(t, "?", name)
	assert.Nil(t, conns)
}

func TestFetchBadJSONDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stop": {`))
	}))
	defer srv.Close()

	name, conns, err := NewClient(srv.URL, time.Second).Fetch(config.Stop{ID: "1"})
	assert.Error(t, err)
	assert.Equal(t, "?", name)
	assert.Nil(t, conns)
}

func TestFetchMissingName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"connections": []}`))
	}))
	defer srv.Close()

	name, conns, err := NewClient(srv.URL, time.Second).Fetch(config.Stop{ID: "1"})
	assert.NoError(t, err)
	assert.Equal(t, "?", name)
	assert.Empty(t, conns)
}

func TestFetchHideMunicipality(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stop": {"name": "Genève, Bel-Air"}, "connections": []}`))
	}))
	defer srv.Close()

	name, _, _ := NewClient(srv.URL, time.Second).Fetch(config.Stop{ID: "1", HideMunicipality: true})
	assert.Equal(t, "Bel-Air", name)
}

func TestStripMunicipality(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Genève, Bel-Air", "Bel-Air"},
		{"Bel-Air", "Bel-Air"},
		{"Carouge GE, Marché, Place", "Marché, Place"},
	}
	for _, tt := range tests {
		if got := stripMunicipality(tt.in); got != tt.expected {
			t.Errorf("stripMunicipality(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}
