// Package main implements the slotsmith web server for meeting scheduling.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/slotsmith/slotsmith/pkg/rescache"
	"github.com/slotsmith/slotsmith/pkg/scaledown"
	"github.com/slotsmith/slotsmith/pkg/schedule"
	"github.com/slotsmith/slotsmith/pkg/slotsmith"
)

var (
	port         = flag.String("port", "8080", "Port for web server")
	cacheDir     = flag.String("cache-dir", "", "Cache directory (or set CACHE_DIR)")
	cacheTTL     = flag.Duration("cache-ttl", time.Hour, "Response cache TTL")
	scaledownURL = flag.String("scaledown-url", "", "Prompt compression service URL (or set SCALEDOWN_URL)")
	scaledownKey = flag.String("scaledown-key", "", "Prompt compression API key (or set SCALEDOWN_API_KEY)")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Show version")
)

type rateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{
		requests: make(map[string][]time.Time),
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)

	var valid []time.Time
	for _, t := range rl.requests[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	// Rate limit: 30 requests per minute per IP
	if len(valid) >= 30 {
		rl.requests[ip] = valid
		return false
	}

	rl.requests[ip] = append(valid, now)
	return true
}

func main() {
	flag.Parse()

	if *version {
		fmt.Println("slotsmith Server v1.2.0")
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *cacheDir == "" {
		*cacheDir = os.Getenv("CACHE_DIR")
	}
	if *scaledownURL == "" {
		*scaledownURL = os.Getenv("SCALEDOWN_URL")
	}
	if *scaledownKey == "" {
		*scaledownKey = os.Getenv("SCALEDOWN_API_KEY")
	}

	logger.Info("Server configuration",
		"port", *port,
		"verbose", *verbose,
		"cache_dir", *cacheDir,
		"cache_ttl", *cacheTTL,
		"has_scaledown", *scaledownURL != "")

	ctx := context.Background()
	cache, err := rescache.New(ctx, *cacheDir, *cacheTTL, logger)
	if err != nil {
		logger.Error("Failed to build response cache", "error", err)
		return
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Error("Failed to close response cache", "error", err)
		}
	}()

	server := &server{
		scheduler:  slotsmith.New(slotsmith.WithLogger(logger)),
		cache:      cache,
		compressor: scaledown.New(*scaledownURL, *scaledownKey, logger),
		limiter:    newRateLimiter(),
		logger:     logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/schedule", server.handleSchedule)
	mux.HandleFunc("GET /api/v1/compression/stats", server.handleCompressionStats)
	mux.HandleFunc("GET /healthz", server.handleHealth)

	antiCSRF := http.NewCrossOriginProtection()

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           server.wrap(antiCSRF.Handler(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", *port)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

type server struct {
	scheduler  *slotsmith.Scheduler
	cache      *rescache.Cache
	compressor *scaledown.Client
	limiter    *rateLimiter
	logger     *slog.Logger
}

func (s *server) wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := fmt.Sprintf("%d-%d", time.Now().Unix(), time.Now().Nanosecond())
		w.Header().Set("X-Request-ID", requestID)

		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]

				clientIP := strings.Split(r.RemoteAddr, ":")[0]
				s.logger.Error("PANIC: Request handler crashed",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", requestID,
					"client_ip", clientIP,
					"user_agent", r.Header.Get("User-Agent"),
					"stack", string(buf))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=(), bluetooth=()")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self'")

		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}

		handler.ServeHTTP(w, r)
	})
}

func (s *server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	clientIP := strings.Split(r.RemoteAddr, ":")[0]
	requestID := w.Header().Get("X-Request-ID")

	s.logger.Info("Schedule request started",
		"request_id", requestID,
		"client_ip", clientIP,
		"user_agent", r.Header.Get("User-Agent"))

	if !s.limiter.allow(clientIP) {
		s.logger.Error("Rate limit exceeded",
			"request_id", requestID,
			"client_ip", clientIP)
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	var req slotsmith.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Error("Invalid request body",
			"request_id", requestID,
			"error", err,
			"client_ip", clientIP)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	req.Description = scaledown.NormalizeDescription(req.Description)

	cacheKey, err := rescache.Key(&req)
	if err == nil {
		if data, found := s.cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			if _, err := w.Write(data); err != nil {
				s.logger.Error("Failed to write cached response",
					"request_id", requestID, "error", err)
			}
			s.logger.Info("Schedule request completed (cache)",
				"request_id", requestID,
				"duration_ms", time.Since(start).Milliseconds())
			return
		}
	}

	resp, err := s.scheduler.Schedule(r.Context(), &req)
	if err != nil {
		var vErr *schedule.ValidationError
		status := http.StatusInternalServerError
		if errors.As(err, &vErr) {
			status = http.StatusBadRequest
		}
		s.logger.Error("Scheduling failed",
			"request_id", requestID,
			"error", err,
			"client_ip", clientIP,
			"duration_ms", time.Since(start).Milliseconds())
		http.Error(w, err.Error(), status)
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("Failed to encode response",
			"request_id", requestID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if cacheKey != "" {
		s.cache.Set(cacheKey, data)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write response",
			"request_id", requestID, "error", err)
	}
	s.logger.Info("Schedule request completed",
		"request_id", requestID,
		"candidates", len(resp.Candidates),
		"rounds", resp.NegotiationRounds,
		"duration_ms", time.Since(start).Milliseconds())
}

func (s *server) handleCompressionStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.compressor.Stats()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.logger.Error("Failed to encode compression stats", "error", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	health := map[string]any{
		"status": "ok",
		"engines": []string{
			"generator", "availability", "preference", "ranking", "negotiate",
		},
		"cache":               s.cache.Stats(),
		"compression_enabled": s.compressor.Enabled(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.Error("Failed to encode health response", "error", err)
	}
}
