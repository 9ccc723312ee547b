// Package server implements the frame extraction and OCR HTTP service used
// by the player's capture feature.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ytget/cyclops/internal/frames"
)

// MaxUploadBytes bounds the POST /frame/ocr body
const MaxUploadBytes = 10 << 20

// FrameSource probes videos and extracts frames
type FrameSource interface {
	Probe(ctx context.Context, path string) (frames.Metadata, error)
	FrameAt(ctx context.Context, path string, seconds float64) ([]byte, error)
}

// TextRecognizer extracts text from a PNG image
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Options configures a Server
type Options struct {
	Registry       *Registry
	Frames         FrameSource
	Recognizer     TextRecognizer
	Limiter        *KeyedRateLimiter
	CORSOrigins    []string
	RequestTimeout time.Duration
	// TrustProxy takes the client address from X-Real-IP/X-Forwarded-For
	TrustProxy bool
	Logger     *slog.Logger
}

// Server serves video metadata, frames and OCR text
type Server struct {
	registry   *Registry
	frames     FrameSource
	recognizer TextRecognizer
	limiter    *KeyedRateLimiter
	timeout    time.Duration
	router     *chi.Mux
	logger     *slog.Logger
}

// New creates a server with all routes configured
func New(opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = NewRegistry(nil)
	}
	if opts.Limiter == nil {
		opts.Limiter = NewKeyedRateLimiter(0, 1)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		registry:   opts.Registry,
		frames:     opts.Frames,
		recognizer: opts.Recognizer,
		limiter:    opts.Limiter,
		timeout:    opts.RequestTimeout,
		router:     chi.NewRouter(),
		logger:     opts.Logger,
	}

	s.setupMiddleware(opts.CORSOrigins, opts.TrustProxy)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware(origins []string, trustProxy bool) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	if trustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/video", func(r chi.Router) {
		r.Get("/", s.handleListVideos)
		r.Get("/{vid}", s.handleVideoInfo)
		r.Get("/{vid}/frame/{timestamp}", s.handleFrame)
		r.With(RateLimitMiddleware(s.limiter, s.logger)).
			Get("/{vid}/frame/{timestamp}/ocr", s.handleFrameOCR)
	})

	s.router.With(RateLimitMiddleware(s.limiter, s.logger)).
		Post("/frame/ocr", s.handleUploadOCR)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// resolve returns the file path for vid, or ErrVideoNotFound when the ID is
// unknown or its file is gone.
func (s *Server) resolve(vid string) (string, error) {
	path, ok := s.registry.Lookup(vid)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrVideoNotFound, vid)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrVideoNotFound, vid)
	}
	return path, nil
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
