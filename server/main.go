//go:build !js
// +build !js

// Command server serves the browser mixer, its sample tree and the catalog.
package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/simukka/ambience/audio"
	"github.com/simukka/ambience/internal/logging"
)

//go:embed index.html
var indexHTML []byte

// CLI defines the server flags.
type CLI struct {
	Port     int    `help:"HTTP server port" default:"8080"`
	Static   string `help:"Directory to serve static files (the compiled mixer) from" default:"." type:"existingdir"`
	Samples  string `help:"Directory holding the Audio/ sample tree; samples are disabled when empty" type:"path"`
	Catalog  string `help:"JSON sound catalog to serve instead of the built-in library" type:"existingfile"`
	LogLevel string `help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error"`
}

// Server holds what the handlers serve.
type Server struct {
	sounds  []*audio.Sound
	static  http.Handler
	samples http.Handler
	log     *slog.Logger
}

// NewServer builds the handlers. Without a sample directory every sound
// is advertised without its sample so the browser synthesizes it.
func NewServer(cli *CLI, sounds []*audio.Sound, logger *slog.Logger) *Server {
	s := &Server{
		sounds: sounds,
		static: http.FileServer(http.Dir(cli.Static)),
		log:    logger,
	}
	if cli.Samples == "" {
		s.sounds = audio.StripSamples(sounds)
	} else {
		s.samples = http.StripPrefix("/Audio/", http.FileServer(http.Dir(cli.Samples)))
	}
	return s
}

// Handler routes every endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(indexHTML)
			return
		}
		s.static.ServeHTTP(w, r)
	})
	mux.HandleFunc("/Audio/", func(w http.ResponseWriter, r *http.Request) {
		if s.samples == nil {
			http.NotFound(w, r)
			return
		}
		s.samples.ServeHTTP(w, r)
	})
	mux.HandleFunc("/api/catalog", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, s.sounds)
	})
	mux.HandleFunc("/api/presets", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, audio.TonePresets)
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return s.logRequests(mux)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response", "err", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func loadSounds(path string) ([]*audio.Sound, error) {
	if path == "" {
		return audio.SoundLibrary, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return audio.LoadCatalog(f)
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("server"),
		kong.Description("Serves the ambient browser mixer"),
		kong.UsageOnError(),
	)

	logger, err := logging.New(cli.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sounds, err := loadSounds(cli.Catalog)
	if err != nil {
		logger.Error("load catalog", "err", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cli.Port)
	logger.Info("server starting", "url", "http://localhost"+addr, "static", cli.Static, "samples", cli.Samples)
	if err := http.ListenAndServe(addr, NewServer(cli, sounds, logger).Handler()); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
