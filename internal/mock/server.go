package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/studiowebux/workbench/internal/logging"
)

// Server represents the mock analysis server
type Server struct {
	config     *Config
	httpServer *http.Server
	listener   net.Listener
	logger     *slog.Logger
	logs       []RequestLog
	logsMutex  sync.RWMutex
	routes     map[string]Route
}

// NewServer creates a new mock server
func NewServer(config *Config, logger *slog.Logger) *Server {
	if config.Port == 0 {
		config.Port = 6060
	}
	if config.Host == "" {
		config.Host = "localhost"
	}
	if len(config.Examples) == 0 {
		config.Examples = defaultExamples()
	}
	if len(config.Channels) == 0 {
		config.Channels = DefaultChannels
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	routes := make(map[string]Route, len(config.Routes))
	for _, r := range config.Routes {
		routes[r.Path] = r
	}

	return &Server{
		config: config,
		logger: logger,
		logs:   make([]RequestLog, 0),
		routes: routes,
	}
}

// Handler returns the router serving the analysis endpoints
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Group(func(r chi.Router) {
		r.Use(s.delay)
		r.Post("/ssa", s.handleSSA)
		r.Post("/cfsm", s.handleCFSM)
		r.Post("/migo", s.handleMiGo)
		r.Post("/gong", s.handleGong)
		r.Post("/synthesis", s.handleSynthesis)
		r.Post("/load", s.handleLoad)
	})
	return r
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mock server stopped", "error", err)
		}
	}()

	s.logger.Info("mock server listening", "addr", s.GetAddress())
	return nil
}

// Stop stops the mock server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// GetAddress returns the server base URL
func (s *Server) GetAddress() string {
	if s.listener != nil {
		return "http://" + s.listener.Addr().String()
	}
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

// GetLogs returns all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexPage(sortedNames(s.config.Examples), s.config.Channels))
}

func (s *Server) handleSSA(w http.ResponseWriter, r *http.Request) {
	src, ok := s.readSource(w, r, "Cannot read input Go source code")
	if !ok || s.override(w, r) {
		return
	}
	writeText(w, ssaOutput(src))
}

func (s *Server) handleCFSM(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	src, ok := s.readSource(w, r, "Cannot read input Go source code")
	if !ok || s.override(w, r) {
		return
	}
	cfsm, dot := cfsmOutput(src)
	s.writeRecord(w, map[string]string{"CFSM": cfsm, "dot": dot, "time": elapsed(start)})
}

func (s *Server) handleMiGo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.readSource(w, r, "Cannot read input Go source code"); !ok || s.override(w, r) {
		return
	}
	s.writeRecord(w, map[string]string{"MiGo": migoOutput(), "time": elapsed(start)})
}

func (s *Server) handleGong(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	migo, ok := s.readSource(w, r, "Cannot read input MiGo types")
	if !ok || s.override(w, r) {
		return
	}
	s.writeRecord(w, map[string]string{"Gong": gongOutput(migo), "time": elapsed(start)})
}

func (s *Server) handleSynthesis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if _, ok := s.readSource(w, r, "Cannot read input CFSM"); !ok || s.override(w, r) {
		return
	}
	ch := r.URL.Query().Get("chan")
	if ch == "" {
		http.Error(w, "Missing chan parameter", http.StatusBadRequest)
		return
	}
	s.writeRecord(w, map[string]string{
		"SMC":      smcOutput(ch),
		"Global":   svg("global"),
		"Machines": svg("machines"),
		"time":     elapsed(start),
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	name, ok := s.readSource(w, r, "Cannot read example name")
	if !ok || s.override(w, r) {
		return
	}
	src, found := s.config.Examples[strings.TrimSpace(name)]
	if !found {
		http.Error(w, fmt.Sprintf("Cannot open example %q", name), http.StatusNotFound)
		return
	}
	writeText(w, src)
}

// readSource reads the request body. An empty body is reported as a server error.
func (s *Server) readSource(w http.ResponseWriter, r *http.Request, msg string) (string, bool) {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("%s: %v", msg, err), http.StatusInternalServerError)
		return "", false
	}
	if len(b) == 0 {
		http.Error(w, msg+": empty input", http.StatusInternalServerError)
		return "", false
	}
	return string(b), true
}

// override writes a configured route reply, if any
func (s *Server) override(w http.ResponseWriter, r *http.Request) bool {
	route, ok := s.routes[r.URL.Path]
	if !ok {
		return false
	}
	if route.Delay > 0 {
		sleep(r.Context(), time.Duration(route.Delay)*time.Millisecond)
	}
	status := route.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	io.WriteString(w, route.Body)
	return true
}

func (s *Server) writeRecord(w http.ResponseWriter, v map[string]string) {
	if s.config.Malformed {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, "<html>not json</html>")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode reply", "error", err)
	}
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, body)
}

// delay applies the configured latency to analysis endpoints
func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d := time.Duration(s.config.Latency); d > 0 {
			sleep(r.Context(), d)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Debug("mock request", "method", r.Method, "path", r.URL.Path, "status", status)
		if !s.config.Logging {
			return
		}
		s.logRequest(RequestLog{
			Timestamp: start,
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Body:      string(body),
			Status:    status,
			Duration:  time.Since(start),
		})
	})
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, log)

	// Keep only last 1000 logs
	if len(s.logs) > 1000 {
		s.logs = s.logs[len(s.logs)-1000:]
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func elapsed(start time.Time) string {
	return time.Since(start).String()
}
