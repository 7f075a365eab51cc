// Package http is the JSON presentation boundary. Handlers translate
// between wire records and domain calls; no aggregation logic lives
// here.
package http

import (
	"container/list"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"moneywise/internal/auth"
	applog "moneywise/internal/log"
	"moneywise/internal/services"
	"moneywise/internal/stats"
	"moneywise/internal/store"
)

// lruCache is a size-bounded TTL cache for derived statistics.
type lruCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

func newLRUCache[T any](maxSize int, ttl time.Duration) *lruCache[T] {
	return &lruCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *lruCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	if time.Now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *lruCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{key: key, data: data, expiresAt: time.Now().Add(c.ttl)}
	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

func (c *lruCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
}

func (c *lruCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

func (c *lruCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*cacheItem[T]).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

// rateLimiter allows 60 requests per client per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

type Server struct {
	http.Server
	tokens       *auth.Manager
	users        *services.UserService
	categories   *services.CategoryService
	transactions *services.TransactionService
	goals        *services.GoalService
	limits       *services.LimitService
	stats        *services.StatsService
	rateLimiter  *rateLimiter

	// Statistics are the expensive read path; cached per user+period
	// and invalidated on any data mutation by that user.
	statsCache *lruCache[stats.View]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires services over the backend and registers routes.
// A nil publisher disables the export mirror.
func NewServer(addr string, backend store.Backend, tokens *auth.Manager, publisher services.TransactionEventPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		tokens:           tokens,
		users:            services.NewUserService(backend, backend, tokens),
		categories:       services.NewCategoryService(backend),
		transactions:     services.NewTransactionService(backend, publisher),
		goals:            services.NewGoalService(backend),
		limits:           services.NewLimitService(backend, backend),
		stats:            services.NewStatsService(backend, backend, backend),
		rateLimiter:      newRateLimiter(),
		statsCache:       newLRUCache[stats.View](200, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.secure(s.handleSignup))
	mux.HandleFunc("POST /api/auth/login", s.secure(s.handleLogin))

	mux.HandleFunc("GET /api/me", s.secure(s.authed(s.handleMe)))

	mux.HandleFunc("GET /api/categories", s.secure(s.authed(s.handleListCategories)))
	mux.HandleFunc("POST /api/categories", s.secure(s.authed(s.handleAddCategory)))
	mux.HandleFunc("PUT /api/categories/{id}", s.secure(s.authed(s.handleUpdateCategory)))
	mux.HandleFunc("DELETE /api/categories/{id}", s.secure(s.authed(s.handleDeleteCategory)))
	mux.HandleFunc("POST /api/categories/defaults", s.secure(s.authed(s.handleInitializeDefaults)))
	mux.HandleFunc("GET /api/categories/names", s.secure(s.authed(s.handleCategoryNames)))

	mux.HandleFunc("GET /api/transactions", s.secure(s.authed(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.secure(s.authed(s.handleCreateTransaction)))
	mux.HandleFunc("PUT /api/transactions/{id}", s.secure(s.authed(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.secure(s.authed(s.handleDeleteTransaction)))
	mux.HandleFunc("POST /api/transactions/{id}/clone", s.secure(s.authed(s.handleCloneTransaction)))

	mux.HandleFunc("GET /api/goals", s.secure(s.authed(s.handleListGoals)))
	mux.HandleFunc("GET /api/goals/categories", s.secure(s.authed(s.handleGoalCategories)))
	mux.HandleFunc("GET /api/goals/budget", s.secure(s.authed(s.handleGoalBudget)))
	mux.HandleFunc("POST /api/goals", s.secure(s.authed(s.handleCreateGoal)))
	mux.HandleFunc("PUT /api/goals/{id}", s.secure(s.authed(s.handleUpdateGoal)))
	mux.HandleFunc("DELETE /api/goals/{id}", s.secure(s.authed(s.handleDeleteGoal)))
	mux.HandleFunc("POST /api/goals/{id}/contribute", s.secure(s.authed(s.handleContributeGoal)))

	mux.HandleFunc("GET /api/limits", s.secure(s.authed(s.handleListLimits)))
	mux.HandleFunc("PUT /api/limits", s.secure(s.authed(s.handleSetLimit)))
	mux.HandleFunc("DELETE /api/limits/{id}", s.secure(s.authed(s.handleDeleteLimit)))

	mux.HandleFunc("GET /api/statistics", s.secure(s.authed(s.handleStatistics)))
	mux.HandleFunc("GET /api/dashboard", s.secure(s.authed(s.handleDashboard)))

	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.statsCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// secure adds security headers, rate limiting on mutations, a request
// ID, and request logging.
func (s *Server) secure(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), contextKey("request_id"), requestID)
		reqLog := applog.FromContext(ctx).WithComponent(applog.ComponentHTTP).With("request_id", requestID)
		ctx = applog.IntoContext(ctx, reqLog)
		r = r.WithContext(ctx)

		reqLog.InfoContext(ctx, "Request started",
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			reqLog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "Troppe richieste, riprova più tardi")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		reqLog.InfoContext(ctx, "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// authed resolves the bearer token into a session before the handler
// runs. No valid token, no data.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.tokens.FromAuthorizationHeader(r.Header.Get("Authorization"))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Sessione non valida")
			return
		}
		next(w, r.WithContext(sessionInto(r.Context(), sess)))
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) statsCacheKey(userID string, period stats.Period) string {
	return userID + ":" + string(period)
}

// invalidateStats drops both cached periods for the user after any
// write to their data.
func (s *Server) invalidateStats(userID string) {
	s.statsCache.Delete(s.statsCacheKey(userID, stats.PeriodMonth))
	s.statsCache.Delete(s.statsCacheKey(userID, stats.PeriodYear))
}
