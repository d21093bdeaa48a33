// Package proxy implements the allow-listed caching proxy endpoint that
// the fetch fallback path talks to.
//
// The endpoint accepts GET ?url=<percent-encoded target>, returns the
// target's body verbatim with permissive CORS headers, and caches
// successful responses for 24 hours. A Cache-Control: no-cache request
// header bypasses the cache. Upstream 2xx bodies missing the expected
// marker phrase are rejected rather than cached, so a broken page can
// never be pinned for a full day.
package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phantomworx/cq-intel/internal/extract"
	"github.com/phantomworx/cq-intel/internal/logging"
)

// DefaultAllowedHosts is the out-of-the-box target allow-list.
var DefaultAllowedHosts = []string{"airbusdriver.net", "www.airbusdriver.net"}

const (
	cacheMaxAge = 24 * time.Hour
	userAgent   = "Mozilla/5.0 (compatible; CQIntelProxy/1.0; +https://github.com/phantomworx/cq-intel)"
)

type cachedResponse struct {
	body        []byte
	contentType string
	status      int
	cachedAt    time.Time
}

// Server is the proxy HTTP service.
type Server struct {
	allowedHosts map[string]bool
	client       *http.Client

	mu        sync.Mutex
	responses map[string]cachedResponse

	now func() time.Time
}

// New creates a Server allowing the given target hostnames. An empty
// list falls back to DefaultAllowedHosts.
func New(allowedHosts []string) *Server {
	if len(allowedHosts) == 0 {
		allowedHosts = DefaultAllowedHosts
	}
	allowed := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		allowed[strings.ToLower(strings.TrimSpace(h))] = true
	}

	return &Server{
		allowedHosts: allowed,
		client:       &http.Client{Timeout: 30 * time.Second},
		responses:    make(map[string]cachedResponse),
		now:          time.Now,
	}
}

// Router builds the chi router for the service.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleFetch)
	r.Options("/", s.handlePreflight)
	return r
}

// Start serves the proxy on addr until the listener fails.
func (s *Server) Start(addr string) error {
	logging.Log.WithField("addr", addr).Info("proxy: listening")
	return http.ListenAndServe(addr, s.Router())
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Cache-Control")
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	rawTarget := r.URL.Query().Get("url")
	if rawTarget == "" {
		writeError(w, http.StatusBadRequest, "Missing required ?url= query parameter.")
		return
	}

	target, err := url.Parse(rawTarget)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid target URL: %s", rawTarget))
		return
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid protocol: %s. Only HTTP and HTTPS are allowed.", target.Scheme))
		return
	}
	if !s.allowedHosts[strings.ToLower(target.Hostname())] {
		writeError(w, http.StatusForbidden, fmt.Sprintf("Target host not allowed: %s", target.Hostname()))
		return
	}

	cacheControl := r.Header.Get("Cache-Control")
	forceRefresh := cacheControl == "no-cache" || cacheControl == "no-store"

	key := target.String()
	if !forceRefresh {
		if cached, ok := s.lookup(key); ok {
			w.Header().Set("Content-Type", cached.contentType)
			w.Header().Set("X-Cached-At", cached.cachedAt.UTC().Format(time.RFC3339))
			w.WriteHeader(cached.status)
			w.Write(cached.body)
			return
		}
	}

	req, err := http.NewRequestWithContext(r.Context(), "GET", key, nil)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to build upstream request.")
		return
	}
	req.Header.Set("User-Agent", userAgent)

	upstream, err := s.client.Do(req)
	if err != nil {
		logging.Log.WithError(err).Warn("proxy: upstream fetch failed")
		writeError(w, http.StatusBadGateway, "Failed to reach origin server.")
		return
	}
	defer upstream.Body.Close()

	body, err := io.ReadAll(upstream.Body)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to read origin response.")
		return
	}

	ok := upstream.StatusCode >= 200 && upstream.StatusCode <= 299
	if ok && !strings.Contains(string(body), extract.MarkerText) {
		logging.Log.Error("proxy: upstream response missing expected marker")
		writeError(w, http.StatusBadGateway, "Invalid response from origin server")
		return
	}

	contentType := upstream.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/html"
	}

	// Only successful responses are cached; errors must not turn a
	// transient failure into a day-long outage.
	if ok {
		cachedAt := s.now()
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("X-Cached-At", cachedAt.UTC().Format(time.RFC3339))
		s.store(key, cachedResponse{
			body:        body,
			contentType: contentType,
			status:      upstream.StatusCode,
			cachedAt:    cachedAt,
		})
	} else {
		w.Header().Set("Cache-Control", "no-cache, no-store")
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(upstream.StatusCode)
	w.Write(body)
}

func (s *Server) lookup(key string) (cachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.responses[key]
	if !ok {
		return cachedResponse{}, false
	}
	if s.now().Sub(cached.cachedAt) > cacheMaxAge {
		delete(s.responses, key)
		return cachedResponse{}, false
	}
	return cached, true
}

func (s *Server) store(key string, resp cachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[key] = resp
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
