// Package aiserver provides a local HTTP implementation of the AI assist
// endpoints, backed by an LLM client.
package aiserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/skillfolio/internal/aiserver/ratelimit"
	"github.com/jonathan/skillfolio/internal/llm"
)

// Endpoint paths, matching what assist.Gateway calls
const (
	PathImproveSummary = "/api/ai/improve-summary"
	PathSuggestSkills  = "/api/ai/suggest-skills"
	PathImproveProject = "/api/ai/improve-project"
	PathHealth         = "/health"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// llmTimeout keeps a model call under the gateway's 30s client timeout
const llmTimeout = 25 * time.Second

// Server is the dev AI service
type Server struct {
	httpServer *http.Server
	llm        llm.Client
	tier       llm.ModelTier
	validate   *validator.Validate
	limiter    *ratelimit.Limiter
}

// Config holds server configuration
type Config struct {
	Port int
	// RateLimit is the number of AI requests allowed per client per minute; <= 0 disables it
	RateLimit int
	// Tier selects the model used for every endpoint; empty means standard
	Tier llm.ModelTier
}

// New creates a server answering with client.
func New(cfg Config, client llm.Client) *Server {
	tier := cfg.Tier
	if tier == "" {
		tier = llm.TierStandard
	}

	s := &Server{
		llm:      client,
		tier:     tier,
		validate: validator.New(),
		limiter:  ratelimit.NewLimiter(ratelimit.PerMinute(cfg.RateLimit)),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathImproveSummary, s.handleImproveSummary)
	mux.HandleFunc("POST "+PathSuggestSkills, s.handleSuggestSkills)
	mux.HandleFunc("POST "+PathImproveProject, s.handleImproveProject)
	mux.HandleFunc("GET "+PathHealth, s.handleHealth)

	return s.withLogging(s.withCORS(s.withRateLimit(mux)))
}

// Start listens until ctx is done or the process receives SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[aiserver] listening on %s (model %s)", s.httpServer.Addr, s.llm.GetModel(s.tier))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.limiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[aiserver] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.limiter.Stop()
	log.Println("[aiserver] stopped")
	return nil
}

// withCORS lets the browser form call the service directly
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Cache-Control, Pragma, Expires, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its correlation ID and echoes the ID back
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}
		log.Printf("[aiserver] %s %s %s id=%s", r.Method, r.URL.Path, r.RemoteAddr, requestID)
		next.ServeHTTP(w, r)
		log.Printf("[aiserver] %s %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit limits LLM-backed endpoints per client address
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		info := s.limiter.Allow(clientID(r))
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		}
		if !info.Allowed {
			retry := int(info.RetryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			log.Printf("[aiserver] rate limit exceeded for %s", clientID(r))
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded, retry later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID uses the remote IP without port.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[aiserver] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
