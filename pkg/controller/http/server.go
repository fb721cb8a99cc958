package http

import (
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/frontend"
	"github.com/secmon-lab/memoryjar/pkg/domain/types"
	"github.com/secmon-lab/memoryjar/pkg/usecase"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
	"github.com/secmon-lab/memoryjar/pkg/utils/safe"
)

type Server struct {
	router       *chi.Mux
	uc           *usecase.UseCases
	secureCookie bool
	staticFS     fs.FS
}

type Options func(*Server)

// WithSecureCookie marks the session cookie Secure regardless of the
// request scheme. Use it behind a TLS terminating proxy.
func WithSecureCookie(secure bool) Options {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

// WithStaticFS replaces the embedded page
func WithStaticFS(fsys fs.FS) Options {
	return func(s *Server) {
		s.staticFS = fsys
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.staticFS == nil {
		staticFS, err := fs.Sub(frontend.StaticFiles, "dist")
		if err != nil {
			return nil, goerr.Wrap(err, "failed to bind dist dir for static")
		}
		s.staticFS = staticFS
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(sessionMiddleware(uc.Access))

		r.Get("/session", sessionHandler)
		r.Post("/unlock", unlockHandler(uc.Access, s.secureCookie))
		r.Post("/lock", lockHandler(s.secureCookie))

		r.Route("/jar", func(r chi.Router) {
			r.Use(requireLevel(types.AccessLevelUser))
			r.Get("/status", statusHandler(uc.Reveal))
			r.Post("/reveal", revealHandler(uc.Reveal))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireLevel(types.AccessLevelAdmin))
			r.Post("/memories", addMemoryHandler(uc.Admin))
			r.Post("/enhance", enhanceHandler(uc.Enhance))
			r.Get("/image-preview", imagePreviewHandler(uc.Admin))
			r.Post("/bypass", bypassHandler(uc.Reveal))
			r.Post("/reset", resetHandler(uc.Admin))
		})
	})

	// Static page (catch-all, must be last)
	r.Get("/*", spaHandler(s.staticFS))

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

// spaHandler serves static files and falls back to index.html
func spaHandler(staticFS fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(staticFS))

	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := strings.TrimPrefix(r.URL.Path, "/")
		if urlPath == "" {
			urlPath = "index.html"
		}

		if file, err := staticFS.Open(urlPath); err != nil {
			if indexFile, err := staticFS.Open("index.html"); err == nil {
				defer safe.Close(r.Context(), indexFile)
				w.Header().Set("Content-Type", "text/html")
				safe.Copy(r.Context(), w, indexFile)
				return
			}

			http.NotFound(w, r)
			return
		} else {
			safe.Close(r.Context(), file)
		}

		fileServer.ServeHTTP(w, r)
	}
}
