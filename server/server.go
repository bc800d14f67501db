package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	editor "github.com/MadMatas/img-editor"
	"github.com/MadMatas/img-editor/bgremove"
	"github.com/MadMatas/img-editor/utils"
)

// DefaultMaxUploadSize limits the size of the uploaded images.
const DefaultMaxUploadSize = 32 << 20

// Server is the background removal HTTP server.
type Server struct {
	remover       bgremove.Remover
	maxUploadSize int64
	allowOrigin   string
	server        *http.Server
	mux           *http.ServeMux
	logger        *log.Logger

	mu      sync.Mutex
	started bool
}

// Config holds server configuration.
type Config struct {
	Addr          string
	Remover       bgremove.Remover
	StaticDir     string
	MaxUploadSize int64
	// AllowOrigin is the value of the Access-Control-Allow-Origin header.
	AllowOrigin  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Logger       *log.Logger
}

// New creates a new server with the given configuration.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}
	if cfg.Remover == nil {
		cfg.Remover = bgremove.NewColorKeyRemover()
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = DefaultMaxUploadSize
	}
	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = "*"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 2 * time.Minute
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 120 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		remover:       cfg.Remover,
		maxUploadSize: cfg.MaxUploadSize,
		allowOrigin:   cfg.AllowOrigin,
		mux:           http.NewServeMux(),
		logger:        cfg.Logger,
	}

	s.mux.HandleFunc("/remove-bg", s.handleRemoveBg)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if cfg.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// ServeHTTP implements http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	rec.Header().Set("Access-Control-Allow-Origin", s.allowOrigin)
	if r.Method == http.MethodOptions {
		rec.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		rec.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		rec.WriteHeader(http.StatusNoContent)
	} else {
		s.mux.ServeHTTP(rec, r)
	}

	s.logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, utils.FormatTime(time.Since(start)))
}

// ListenAndServe starts the server and shuts it down gracefully once the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("server already started")
	}
	s.started = true
	s.mu.Unlock()

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleRemoveBg(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.ContentLength > s.maxUploadSize {
		http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			http.Error(w, "No file uploaded", http.StatusBadRequest)
			return
		}
	}

	file, _, err := r.FormFile(bgremove.FormField)
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := editor.DecodeImage(file)
	if err != nil {
		s.logger.Printf("remove-bg: %v", err)
		http.Error(w, "Background removal failed", http.StatusInternalServerError)
		return
	}

	out, err := s.remover.Remove(r.Context(), editor.FitMaxSize(img, editor.MaxImageSize))
	if err != nil {
		s.logger.Printf("remove-bg: %v", err)
		http.Error(w, "Background removal failed", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, out); err != nil {
		s.logger.Printf("remove-bg: %v", err)
		http.Error(w, "Background removal failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Printf("remove-bg: could not write the response: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
