// Package search provides the stop gazetteer used by the configuration
// wizard and the web editor: a remote CSV of transit stops, downloaded on
// demand, cached, and searchable without caring about accents or hyphens.
package search

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/bluele/gcache"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCSVURL is the published stop gazetteer.
const DefaultCSVURL = "https://raw.githubusercontent.com/rohanod/arrets/refs/heads/main/arrets.csv"

const (
	cacheKey = "stops"
	cacheTTL = 10 * time.Minute
)

// Stop is one active gazetteer row.
type Stop struct {
	Code         string // Didoc Code, the stationboard stop identifier
	LongCode     string // Long Code Stop
	Name         string
	Municipality string
	Country      string
}

// Label renders the stop the way pickers display it.
func (s Stop) Label() string {
	return fmt.Sprintf("%s (%s, %s)", s.Name, s.Municipality, s.Country)
}

// Gazetteer downloads and caches the stop CSV.
type Gazetteer struct {
	url        string
	client     *http.Client
	cache      gcache.Cache
	maxElapsed time.Duration
}

// New builds a Gazetteer for the given CSV URL ("" for the default).
func New(url string, timeout time.Duration) *Gazetteer {
	if url == "" {
		url = DefaultCSVURL
	}
	return &Gazetteer{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		cache:      gcache.New(2).LRU().Expiration(cacheTTL).Build(),
		maxElapsed: 30 * time.Second,
	}
}

// Stops returns all active gazetteer rows, fetching the CSV if the cached
// copy expired.
func (g *Gazetteer) Stops() ([]Stop, error) {
	if v, err := g.cache.Get(cacheKey); err == nil {
		return v.([]Stop), nil
	}
	stops, err := g.download()
	if err != nil {
		return nil, err
	}
	if err := g.cache.Set(cacheKey, stops); err != nil {
		log.Printf("gazetteer cache set failed: %v", err)
	}
	return stops, nil
}

// download fetches and parses the CSV, backing off on transient failures.
func (g *Gazetteer) download() ([]Stop, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = g.maxElapsed

	stops, err := backoff.RetryNotifyWithData(
		func() ([]Stop, error) {
			resp, err := g.client.Get(g.url)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("gazetteer: HTTP %d", resp.StatusCode)
			}
			return parseCSV(resp.Body)
		},
		b,
		func(err error, d time.Duration) {
			log.Printf("gazetteer download failed, retrying in %s: %v", d, err)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("downloading stop gazetteer: %w", err)
	}
	log.Printf("gazetteer: %d active stops", len(stops))
	return stops, nil
}

// parseCSV reads the semicolon-separated gazetteer, keeping active rows that
// carry a stationboard code.
func parseCSV(r io.Reader) ([]Stop, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading gazetteer header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var stops []Stop
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading gazetteer row: %w", err)
		}
		if field(row, "Actif") != "Y" {
			continue
		}
		code := field(row, "Didoc Code")
		if code == "" {
			continue
		}
		stops = append(stops, Stop{
			Code:         code,
			LongCode:     field(row, "Long Code Stop"),
			Name:         field(row, "Stop"),
			Municipality: field(row, "Municipality"),
			Country:      field(row, "Country"),
		})
	}
	return stops, nil
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and strips diacritics, so "Genève" matches "geneve".
func Normalize(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// variants returns the space/hyphen spellings a user might type for s.
func variants(s string) []string {
	n := Normalize(s)
	return []string{
		n,
		strings.ReplaceAll(n, " ", "-"),
		strings.ReplaceAll(n, "-", " "),
		strings.ReplaceAll(n, " ", ""),
		strings.ReplaceAll(n, "-", ""),
	}
}

// Search returns up to limit stops whose name, code or municipality contain
// the query, ignoring case, accents and space/hyphen differences.
func (g *Gazetteer) Search(query string, limit int) ([]Stop, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	stops, err := g.Stops()
	if err != nil {
		return nil, err
	}

	qs := variants(query)
	var matches []Stop
	for _, stop := range stops {
		haystack := stop.Name + " " + stop.LongCode + " " + stop.Code + " " + stop.Municipality
		if matchesAny(qs, variants(haystack)) {
			matches = append(matches, stop)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

func matchesAny(queries, haystacks []string) bool {
	for _, q := range queries {
		for _, h := range haystacks {
			if strings.Contains(h, q) {
				return true
			}
		}
	}
	return false
}

// Lookup returns the stop with the given stationboard code.
func (g *Gazetteer) Lookup(code string) (Stop, bool, error) {
	stops, err := g.Stops()
	if err != nil {
		return Stop{}, false, err
	}
	for _, stop := range stops {
		if stop.Code == code || stop.LongCode == code {
			return stop, true, nil
		}
	}
	return Stop{}, false, nil
}
