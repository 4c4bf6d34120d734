package timetable

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/busboard/config"
)

// DefaultBaseURL is the public stationboard endpoint.
const DefaultBaseURL = "https://search.ch/timetable/api/stationboard.fr.json"

const defaultLimit = 100

// Client fetches raw stationboard data for configured stops.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a stationboard client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type stationboardResponse struct {
	Stop struct {
		Name string `json:"name"`
	} `json:"stop"`
	Connections []Connection `json:"connections"`
}

// Fetch requests the stationboard for one stop and returns its display name
// and raw connections. Failures degrade to ("?", nil, err) so a bad stop
// never takes down the render loop; the next fixed interval is the retry.
// An empty connections list with a nil error is a valid, successful result.
func (c *Client) Fetch(stop config.Stop) (string, []Connection, error) {
	limit := stop.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	q := url.Values{}
	q.Set("stop", stop.ID)
	q.Set("transportation_types", "bus,tram")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("show_delays", "1")
	q.Set("mode", "depart")

	resp, err := c.httpClient.Get(c.baseURL + "?" + q.Encode())
	if err != nil {
		log.Printf("stationboard %s: fetch error: %v", stop.ID, err)
		return "?", nil, fmt.Errorf("stationboard %s: %w", stop.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("stationboard %s: read error: %v", stop.ID, err)
		return "?", nil, fmt.Errorf("stationboard %s: %w", stop.ID, err)
	}
	log.Printf("stationboard %s: HTTP %d, %d bytes", stop.ID, resp.StatusCode, len(body))
	if resp.StatusCode != http.StatusOK || len(body) == 0 {
		return "?", nil, fmt.Errorf("stationboard %s: HTTP %d, %d bytes", stop.ID, resp.StatusCode, len(body))
	}

	var sb stationboardResponse
	if err := json.Unmarshal(body, &sb); err != nil {
		log.Printf("stationboard %s: parse error: %v", stop.ID, err)
		return "?", nil, fmt.Errorf("stationboard %s: %w", stop.ID, err)
	}

	name := sb.Stop.Name
	if name == "" {
		name = "?"
	}
	if stop.HideMunicipality {
		name = stripMunicipality(name)
	}
	return name, sb.Connections, nil
}

// stripMunicipality removes a leading "Municipality, " prefix from a stop
// display name.
func stripMunicipality(name string) string {
	if i := strings.Index(name, ", "); i >= 0 {
		return name[i+2:]
	}
	return name
}
