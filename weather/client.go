// Package weather fetches the daily forecast summary shown in the board's
// widget area. Failures degrade to a nil snapshot; the board simply omits
// the widgets until the next fetch succeeds.
package weather

import (
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the public open-meteo forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Snapshot is the daily forecast summary: today's temperature range and
// whether any precipitation is expected. Replaced wholesale on each
// successful fetch.
type Snapshot struct {
	MinTempC int
	MaxTempC int
	WillRain bool
}

// Client fetches the daily forecast for a fixed location.
type Client struct {
	baseURL    string
	latitude   float64
	longitude  float64
	timezone   string
	httpClient *http.Client
}

// NewClient creates a forecast client. An empty baseURL selects the public
// endpoint.
func NewClient(baseURL string, lat, lon float64, timezone string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		latitude:   lat,
		longitude:  lon,
		timezone:   timezone,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type forecastResponse struct {
	Daily struct {
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Fetch requests today's forecast. Returns nil on any failure.
func (c *Client) Fetch() *Snapshot {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.longitude, 'f', -1, 64))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum")
	q.Set("timezone", c.timezone)

	resp, err := c.httpClient.Get(c.baseURL + "?" + q.Encode())
	if err != nil {
		log.Printf("weather: fetch error: %v", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("weather: read error: %v", err)
		return nil
	}
	log.Printf("weather: HTTP %d, %d bytes", resp.StatusCode, len(body))
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var fc forecastResponse
	if err := json.Unmarshal(body, &fc); err != nil {
		log.Printf("weather: parse error: %v", err)
		return nil
	}
	// Index 0 is today.
	if len(fc.Daily.TemperatureMin) == 0 || len(fc.Daily.TemperatureMax) == 0 || len(fc.Daily.PrecipitationSum) == 0 {
		log.Printf("weather: empty daily arrays")
		return nil
	}
	return &Snapshot{
		MinTempC: int(math.Round(fc.Daily.TemperatureMin[0])),
		MaxTempC: int(math.Round(fc.Daily.TemperatureMax[0])),
		WillRain: fc.Daily.PrecipitationSum[0] > 0,
	}
}
