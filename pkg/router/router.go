package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type HandlerFunc func(http.ResponseWriter, *http.Request)

type Router struct {
	mux       *http.ServeMux
	routes    map[string]http.Handler // key = METHOD:PATH
	paths     map[string]bool         // track registered paths
	wildcards []string                // wildcard paths in registration order
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]http.Handler),
		paths:  make(map[string]bool),
		logger: logger,
	}

	// Catch-all handler for every path
	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		r.dispatch(lrw, req)

		r.logger.Info("http request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})

	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	if h, ok := r.routes[req.Method+":"+req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	if r.paths[req.URL.Path] {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// Wildcard routes are tried in registration order, so register the more
	// specific ones first
	pathMatched := false
	for _, routePath := range r.wildcards {
		if !matchWildcardRoute(req.URL.Path, routePath) {
			continue
		}
		if h, ok := r.routes[req.Method+":"+routePath]; ok {
			h.ServeHTTP(w, req)
			return
		}
		pathMatched = true
	}

	if pathMatched {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern
func matchWildcardRoute(requestPath, routePattern string) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	// A trailing wildcard matches one or more remaining segments
	last := len(routeSegments) - 1
	if routeSegments[last] == "*" {
		if len(requestSegments) <= last || requestSegments[last] == "" {
			return false
		}
		for i := 0; i < last; i++ {
			if requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return true
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			// Wildcard matches any single non-empty segment
			if requestSegments[i] == "" {
				return false
			}
			continue
		}
		if requestSegments[i] != routeSegment {
			return false
		}
	}
	return true
}

// --- Register paths ---
func (r *Router) register(method, path string, handler http.Handler) {
	key := method + ":" + path
	if _, exists := r.routes[key]; !exists && !r.paths[path] && strings.Contains(path, "*") {
		r.wildcards = append(r.wildcards, path)
	}
	r.routes[key] = handler
	r.paths[path] = true
}

// Handle registers a plain http.Handler, such as the swagger UI
func (r *Router) Handle(method, path string, handler http.Handler) {
	r.register(method, path, handler)
}

func (r *Router) GET(path string, handler HandlerFunc) {
	r.register(http.MethodGet, path, http.HandlerFunc(handler))
}

// Getter methods for testing
func (r *Router) Routes() map[string]http.Handler {
	return r.routes
}

func (r *Router) Paths() map[string]bool {
	return r.paths
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully
func (r *Router) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("🚀 Server started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	r.logger.Info("🛑 Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
