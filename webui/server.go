// Package webui exposes the configuration editor API used by the browser
// frontend: read and update the board configuration, list and download
// backups, search the stop gazetteer and look up a stop's live lines.
package webui

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/theoremus-urban-solutions/busboard/config"
	"github.com/theoremus-urban-solutions/busboard/search"
	"github.com/theoremus-urban-solutions/busboard/timetable"
)

// StopProber issues a single live stationboard request, used to discover the
// lines and terminals serving a stop. Implemented by timetable.Client.
type StopProber interface {
	Fetch(stop config.Stop) (string, []timetable.Connection, error)
}

// Server is the configuration editor backend.
type Server struct {
	configPath string
	backupDir  string
	gazetteer  *search.Gazetteer
	prober     StopProber
	httpServer *http.Server
}

// New builds a Server editing the config file at configPath. Backups live in
// a backups/ directory next to it.
func New(addr, configPath string, gazetteer *search.Gazetteer, prober StopProber) *Server {
	s := &Server{
		configPath: configPath,
		backupDir:  filepath.Join(filepath.Dir(configPath), "backups"),
		gazetteer:  gazetteer,
		prober:     prober,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Router builds the API routes. Exposed separately so tests can drive the
// handlers without a listening socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/config", s.handleGetConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/config", s.handleSaveConfig).Methods(http.MethodPost)
	r.HandleFunc("/api/backups", s.handleListBackups).Methods(http.MethodGet)
	r.HandleFunc("/api/backups/{name}", s.handleDownloadBackup).Methods(http.MethodGet)
	r.HandleFunc("/api/search/stops", s.handleSearchStops).Methods(http.MethodGet)
	r.HandleFunc("/api/stops/{id}/info", s.handleStopInfo).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	return r
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web ui server error: %v", err)
		}
	}()
	log.Printf("web ui listening on %s", s.httpServer.Addr)
}

// WaitForShutdown blocks until SIGINT or SIGTERM, then drains the server.
func (s *Server) WaitForShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("web ui shutdown error: %v", err)
	} else {
		log.Printf("web ui shut down successfully")
	}
}
