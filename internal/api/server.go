// Package api exposes the agenda over HTTP: grid composition reads,
// appointment mutations, clinic switching and the settings-screen
// operations.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"organicare/internal/agenda"
	"organicare/internal/clients"
	"organicare/internal/clinic"
	"organicare/internal/events"
	"organicare/internal/templates"
)

// Server wires the agenda core to its HTTP surface.
type Server struct {
	book      *agenda.Book
	provider  *clinic.Provider
	directory *clients.Directory
	templates *templates.Catalogue
	cache     *Cache
	logger    *zerolog.Logger

	apiKey     string
	rps        float64
	burst      int
	trustProxy bool

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter

	router chi.Router
}

// Options carries the server's collaborators and settings.
type Options struct {
	Book      *agenda.Book
	Provider  *clinic.Provider
	Directory *clients.Directory
	Templates *templates.Catalogue
	Cache     *Cache
	Bus       *events.Bus
	Logger    *zerolog.Logger

	// APIKey, when set, is required in the X-API-Key header.
	APIKey string
	// RequestsPerSecond and Burst bound each client IP.
	RequestsPerSecond float64
	Burst             int
	// TrustProxy enables reading the client IP from X-Forwarded-For.
	// Leave it off unless a reverse proxy in front strips the header
	// from incoming requests, otherwise any client can pick its own
	// rate-limit bucket.
	TrustProxy bool
}

// NewServer builds the router and subscribes cache invalidation to the
// event bus: any appointment mutation orphans the cached grids.
func NewServer(opts Options) *Server {
	s := &Server{
		book:       opts.Book,
		provider:   opts.Provider,
		directory:  opts.Directory,
		templates:  opts.Templates,
		cache:      opts.Cache,
		logger:     opts.Logger,
		apiKey:     opts.APIKey,
		rps:        opts.RequestsPerSecond,
		burst:      opts.Burst,
		trustProxy: opts.TrustProxy,
		limiters:   make(map[string]*rate.Limiter),
	}
	if s.cache == nil {
		s.cache = NewCache(nil, 0)
	}
	if s.rps <= 0 {
		s.rps = 20
	}
	if s.burst <= 0 {
		s.burst = 40
	}

	if opts.Bus != nil {
		opts.Bus.SubscribeAll(func(events.Event) error {
			s.cache.Invalidate(context.Background())
			return nil
		})
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Get("/agenda/week", s.handleAgendaWeek)
		r.Get("/agenda/day", s.handleAgendaDay)
		r.Get("/agenda/now", s.handleAgendaNow)
		r.Get("/agenda/export", s.handleAgendaExport)

		r.Post("/appointments", s.handleCreateAppointment)
		r.Post("/appointments/{id}/move", s.handleMoveAppointment)
		r.Post("/appointments/{id}/resize", s.handleResizeAppointment)
		r.Post("/appointments/{id}/complete", s.handleCompleteAppointment)
		r.Delete("/appointments/{id}", s.handleDeleteAppointment)

		r.Get("/clinics", s.handleListClinics)
		r.Get("/clinics/active", s.handleActiveClinic)
		r.Put("/clinics/active", s.handleSetActiveClinic)
		r.Patch("/clinics/{id}/config", s.handlePatchClinicConfig)
		r.Post("/clinics/{id}/cabins", s.handleAddCabin)
		r.Post("/clinics/{id}/cabins/{cabinID}/up", s.handleMoveCabinUp)
		r.Post("/clinics/{id}/cabins/{cabinID}/down", s.handleMoveCabinDown)
		r.Delete("/clinics/{id}/cabins/{cabinID}", s.handleDeleteCabin)

		r.Get("/templates", s.handleListTemplates)

		r.Get("/clients", s.handleSearchClients)
		r.Post("/clients", s.handleCreateClient)
	})

	s.router = r
}

// Handler returns the composed router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs method, path, and duration of every request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// rateLimit bounds requests per client IP.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := s.clientIP(r)
		if !s.limiterFor(ip).Allow() {
			s.logger.Warn().Str("ip", ip).Msg("Rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded; try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limiterFor(ip string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	limiter, ok := s.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.rps), s.burst)
		s.limiters[ip] = limiter
	}
	return limiter
}

// clientIP identifies the rate-limit bucket for a request. Only the
// first X-Forwarded-For hop counts, and only when a trusted proxy sits
// in front; everyone else is bucketed by the connection's address.
func (s *Server) clientIP(r *http.Request) string {
	if s.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if i := strings.Index(fwd, ","); i >= 0 {
				fwd = fwd[:i]
			}
			return strings.TrimSpace(fwd)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requireAPIKey rejects requests without the configured key. An empty
// configured key disables the check.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("X-API-Key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// agendaStatus maps agenda errors to HTTP statuses.
func agendaStatus(err error) int {
	switch {
	case errors.Is(err, agenda.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, agenda.ErrNoFreeSlot):
		return http.StatusConflict
	case errors.Is(err, agenda.ErrUnknownCabin),
		errors.Is(err, agenda.ErrCabinInactive),
		errors.Is(err, agenda.ErrInvalidTime),
		errors.Is(err, agenda.ErrInvalidDuration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
