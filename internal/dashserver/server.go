package dashserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/wordlens/wordlens/internal/engine"
	"github.com/wordlens/wordlens/internal/engine/analysis"
)

// Server is the dashboard HTTP surface: corpus loading, ranking, drill-down,
// chart interaction, and export, all scoped per session.
type Server struct {
	addr     string
	sessions *SessionManager
	httpSrv  *http.Server
}

// New creates a server whose fresh sessions start from the given default
// policy and topN (presets merged with persisted settings, resolved in main).
func New(addr string, defaultPolicy analysis.Policy, defaultTopN int) *Server {
	s := &Server{
		addr: addr,
		sessions: NewSessionManager(engine.Cfg.SessionTTL, func() *analysis.Session {
			return analysis.NewSession(defaultPolicy, defaultTopN)
		}),
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/corpus", func(r chi.Router) {
			r.Post("/comments", s.handleLoadComments)
			r.Post("/subtitles", s.handleLoadSubtitles)
			r.Post("/page", s.handleLoadPage)
			r.Post("/vk", s.handleLoadVK)
		})
		r.Get("/ranked", s.handleRanked)
		r.Get("/detail", s.handleDetail)
		r.Put("/policy", s.handlePolicy)
		r.Post("/exclude", s.handleExclude)
		r.Post("/chart/event", s.handleChartEvent)
		r.Get("/language", s.handleLanguage)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/trending", s.handleTrending)
		r.Post("/session", s.handleNewSession)
	})

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.sessions.StartSweeper(ctx, 5*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("dashserver listening", slog.String("addr", s.addr))
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// requestLogger logs one slog line per request in the engine's style.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("http",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)))
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
