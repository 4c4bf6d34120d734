package webui

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/busboard/config"
	"github.com/theoremus-urban-solutions/busboard/search"
	"github.com/theoremus-urban-solutions/busboard/timetable"
)

const sampleCSV = `Stop;Municipality;Country;Didoc Code;Long Code Stop;Actif
Bel-Air;Genève;CH;8587057;GE-BEL;Y
Gare Cornavin;Genève;CH;8587907;GE-COR;Y
`

type fakeProber struct {
	conns []timetable.Connection
	err   error
}

func (f *fakeProber) Fetch(stop config.Stop) (string, []timetable.Connection, error) {
	if f.err != nil {
		return "?", nil, f.err
	}
	return "Bel-Air", f.conns, nil
}

func testServer(t *testing.T, prober StopProber) *Server {
	t.Helper()
	csvSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	t.Cleanup(csvSrv.Close)
	configPath := filepath.Join(t.TempDir(), "config.json")
	return New(":0", configPath, search.New(csvSrv.URL, 2*time.Second), prober)
}

func doJSON(t *testing.T, s *Server, method, path string, body []byte, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestGetConfigDefaultsWhenMissing(t *testing.T) {
	s := testServer(t, &fakeProber{})

	var cfg config.Config
	rec := doJSON(t, s, http.MethodGet, "/api/config", nil, &cfg)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, cfg.MaxDepartures)
	assert.Empty(t, cfg.Stops)
}

func TestSaveAndReloadConfig(t *testing.T) {
	s := testServer(t, &fakeProber{})

	body := []byte(`{"stops":[{"ID":"8587057","LinesInclude":{"12":""}}],"fetch_interval":30}`)
	var resp statusResponse
	rec := doJSON(t, s, http.MethodPost, "/api/config", body, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	var cfg config.Config
	doJSON(t, s, http.MethodGet, "/api/config", nil, &cfg)
	require.Len(t, cfg.Stops, 1)
	assert.Equal(t, "8587057", cfg.Stops[0].ID)
	assert.Equal(t, 30, cfg.FetchInterval)
	// Unsent keys keep their defaults.
	assert.Equal(t, 120, cfg.MaxMinutes)
}

func TestSaveConfigRejectsConflictingFilters(t *testing.T) {
	s := testServer(t, &fakeProber{})

	body := []byte(`{"stops":[{"ID":"x","LinesInclude":{"1":""},"LinesExclude":{"2":""}}]}`)
	rec := doJSON(t, s, http.MethodPost, "/api/config", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveConfigRejectsBadJSON(t *testing.T) {
	s := testServer(t, &fakeProber{})

	rec := doJSON(t, s, http.MethodPost, "/api/config", []byte(`{not json`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackupsListAndDownload(t *testing.T) {
	s := testServer(t, &fakeProber{})

	var list []backupEntry
	rec := doJSON(t, s, http.MethodGet, "/api/backups", nil, &list)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, list)

	// First save creates the file, the second backs it up.
	body := []byte(`{"stops":[{"ID":"8587057"}]}`)
	doJSON(t, s, http.MethodPost, "/api/config", body, nil)
	doJSON(t, s, http.MethodPost, "/api/config", body, nil)

	doJSON(t, s, http.MethodGet, "/api/backups", nil, &list)
	require.Len(t, list, 1)
	assert.Greater(t, list[0].Size, int64(0))

	rec = doJSON(t, s, http.MethodGet, "/api/backups/"+list[0].Filename, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "8587057")
}

func TestDownloadBackupRejectsBadNames(t *testing.T) {
	s := testServer(t, &fakeProber{})

	tests := []struct {
		name     string
		path     string
		expected int
	}{
		{"traversal", "/api/backups/config_..%2F..%2Fetc.json", http.StatusBadRequest},
		{"wrong prefix", "/api/backups/notes.json", http.StatusBadRequest},
		{"missing", "/api/backups/config_20240101_000000.json", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodGet, tt.path, nil, nil)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestSearchStops(t *testing.T) {
	s := testServer(t, &fakeProber{})

	var results []searchResult
	doJSON(t, s, http.MethodGet, "/api/search/stops?q=bel+air", nil, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "8587057", results[0].ID)
	assert.Equal(t, "Bel-Air (Genève, CH)", results[0].Name)
	assert.Equal(t, "stop", results[0].Type)

	doJSON(t, s, http.MethodGet, "/api/search/stops?q=", nil, &results)
	assert.Empty(t, results)
}

func TestStopInfo(t *testing.T) {
	prober := &fakeProber{conns: []timetable.Connection{
		{Line: "18", Terminal: timetable.Terminal{ID: "t2", Name: "CERN"}},
		{Line: "12", Terminal: timetable.Terminal{ID: "t1", Name: "Moillesulaz"}},
		{Line: "12", Terminal: timetable.Terminal{ID: "t1", Name: "Moillesulaz"}},
		{Line: "12", Terminal: timetable.Terminal{ID: "t3", Name: "Palettes"}},
	}}
	s := testServer(t, prober)

	var info stopInfo
	rec := doJSON(t, s, http.MethodGet, "/api/stops/8587057/info", nil, &info)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bel-Air", info.Name)
	assert.Equal(t, "Genève", info.Municipality)
	assert.Equal(t, []string{"12", "18"}, info.Lines)
	require.Len(t, info.Terminals["12"], 2)
	assert.Equal(t, "Moillesulaz", info.Terminals["12"][0].Name)
}

func TestStopInfoSurvivesStationboardFailure(t *testing.T) {
	s := testServer(t, &fakeProber{err: errors.New("stationboard down")})

	var info stopInfo
	rec := doJSON(t, s, http.MethodGet, "/api/stops/8587057/info", nil, &info)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bel-Air", info.Name, "gazetteer data still served")
	assert.Empty(t, info.Lines)
}

func TestStatus(t *testing.T) {
	s := testServer(t, &fakeProber{})

	var status map[string]any
	doJSON(t, s, http.MethodGet, "/api/status", nil, &status)
	assert.Equal(t, false, status["config_exists"])

	doJSON(t, s, http.MethodPost, "/api/config", []byte(`{"stops":[{"ID":"8587057"}]}`), nil)
	doJSON(t, s, http.MethodGet, "/api/status", nil, &status)
	assert.Equal(t, true, status["config_exists"])
}
