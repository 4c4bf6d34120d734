package webui

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/theoremus-urban-solutions/busboard/config"
)

const searchResultLimit = 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.Load(s.configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		writeJSON(w, http.StatusInternalServerError, statusResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	cfg := config.Default()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := config.Save(s.configPath, cfg, s.backupDir); err != nil {
		status := http.StatusInternalServerError
		if err := config.Validate(cfg); err != nil {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, statusResponse{Message: err.Error()})
		return
	}
	log.Printf("configuration saved: %d stops", len(cfg.Stops))
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "configuration saved"})
}

type backupEntry struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusOK, []backupEntry{})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, statusResponse{Message: err.Error()})
		return
	}
	backups := []backupEntry{}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "config_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backupEntry{Filename: name, Timestamp: info.ModTime(), Size: info.Size()})
	}
	// Newest first.
	sort.Slice(backups, func(i, j int) bool { return backups[i].Filename > backups[j].Filename })
	writeJSON(w, http.StatusOK, backups)
}

func (s *Server) handleDownloadBackup(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(name) || !strings.HasPrefix(name, "config_") || !strings.HasSuffix(name, ".json") {
		writeJSON(w, http.StatusBadRequest, statusResponse{Message: "invalid backup name"})
		return
	}
	path := filepath.Join(s.backupDir, name)
	if _, err := os.Stat(path); err != nil {
		writeJSON(w, http.StatusNotFound, statusResponse{Message: "backup not found"})
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	http.ServeFile(w, r, path)
}

type searchResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleSearchStops(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := []searchResult{}
	stops, err := s.gazetteer.Search(query, searchResultLimit)
	if err != nil {
		// Degrade to an empty list; the picker just shows no suggestions.
		log.Printf("stop search %q failed: %v", query, err)
		writeJSON(w, http.StatusOK, results)
		return
	}
	for _, stop := range stops {
		results = append(results, searchResult{ID: stop.Code, Name: stop.Label(), Type: "stop"})
	}
	writeJSON(w, http.StatusOK, results)
}

type terminalInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type stopInfo struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Municipality string                    `json:"municipality"`
	Country      string                    `json:"country"`
	Lines        []string                  `json:"lines"`
	Terminals    map[string][]terminalInfo `json:"terminals"`
}

// handleStopInfo combines the gazetteer row with one live stationboard request
// so the editor can offer the stop's current lines and terminals.
func (s *Server) handleStopInfo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	info := stopInfo{ID: id, Name: "Unknown", Lines: []string{}, Terminals: map[string][]terminalInfo{}}

	if stop, ok, err := s.gazetteer.Lookup(id); err != nil {
		log.Printf("gazetteer lookup %s failed: %v", id, err)
	} else if ok {
		info.Name = stop.Name
		info.Municipality = stop.Municipality
		info.Country = stop.Country
	}

	_, conns, err := s.prober.Fetch(config.Stop{ID: id, Limit: 20})
	if err != nil {
		log.Printf("stationboard lookup %s failed: %v", id, err)
	}
	seen := map[string]bool{}
	for _, conn := range conns {
		line := conn.LineNumber()
		if line == "" {
			continue
		}
		if !seen[line] {
			seen[line] = true
			info.Lines = append(info.Lines, line)
		}
		if conn.Terminal.ID == "" {
			continue
		}
		dup := false
		for _, t := range info.Terminals[line] {
			if t.Name == conn.Terminal.Name {
				dup = true
				break
			}
		}
		if !dup {
			info.Terminals[line] = append(info.Terminals[line], terminalInfo{ID: conn.Terminal.ID, Name: conn.Terminal.Name})
		}
	}
	sort.Strings(info.Lines)
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	_, err := os.Stat(s.configPath)
	writeJSON(w, http.StatusOK, map[string]any{
		"config_exists": err == nil,
		"timestamp":     time.Now().Format(time.RFC3339),
	})
}
