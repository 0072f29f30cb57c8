// Package api provides the HTTP API server and handlers for the BookHive application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookhiveapp/bookhive-server/internal/account"
	"github.com/bookhiveapp/bookhive-server/internal/auth"
	"github.com/bookhiveapp/bookhive-server/internal/domain"
	"github.com/bookhiveapp/bookhive-server/internal/media/covers"
	"github.com/bookhiveapp/bookhive-server/internal/media/images"
	"github.com/bookhiveapp/bookhive-server/internal/repo"
	"github.com/bookhiveapp/bookhive-server/internal/search"
	"github.com/bookhiveapp/bookhive-server/internal/sse"
	"github.com/bookhiveapp/bookhive-server/internal/store"
	"github.com/bookhiveapp/bookhive-server/internal/validation"
)

// Dependencies groups everything the API server needs. This keeps
// NewServer's signature stable as surfaces are added.
type Dependencies struct {
	Store           *store.Store
	Accounts        *account.Service
	Tokens          *auth.TokenService
	Search          *search.SearchIndex
	SSEManager      *sse.Manager
	Covers          *images.Storage
	CoverProcessor  *images.Processor
	Photos          *images.Storage
	PhotoProcessor  *images.Processor
	CoverDownloader *covers.Downloader
	Instance        *domain.Instance
	Logger          *slog.Logger
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	deps            Dependencies
	router          *chi.Mux
	api             huma.API
	sseHandler      *sse.Handler
	authRateLimiter *RateLimiter
	validator       *validation.Validator
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(deps Dependencies) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig("BookHive API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		deps:            deps,
		router:          router,
		api:             humaAPI,
		authRateLimiter: NewLoginRateLimiter(),
		validator:       validation.New(),
		logger:          deps.Logger,
	}

	s.sseHandler = sse.NewHandler(deps.SSEManager, s.resolveStreamUser, deps.Logger)

	s.registerHealthRoutes()
	s.registerInstanceRoutes()
	s.registerAuthRoutes()
	s.registerBookRoutes()
	s.registerLogRoutes()
	s.registerProfileRoutes()
	s.registerSearchRoutes()
	s.registerCoverRoutes()

	// SSE does not fit huma's request/response model; mounted directly.
	router.Get("/api/v1/events", s.sseHandler.ServeHTTP)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// books returns a book repository bound to the given caller identity.
// Repositories are cheap per-request values over the shared store.
func (s *Server) books(userID string) *repo.BookRepository {
	return repo.NewBookRepository(s.deps.Store, account.StaticIdentity(userID), s.logger)
}

// logs returns a reading log repository bound to the given caller identity.
func (s *Server) logs(userID string) *repo.ReadingLogRepository {
	return repo.NewReadingLogRepository(s.deps.Store, account.StaticIdentity(userID), s.logger)
}

// users returns a user repository bound to the given caller identity.
// An empty userID yields an unauthenticated repository for the public
// auth operations.
func (s *Server) users(userID string) *repo.UserRepository {
	return repo.NewUserRepository(s.deps.Store, s.deps.Accounts, account.StaticIdentity(userID), s.logger)
}

// resolveStreamUser authenticates an SSE connection. EventSource cannot
// set headers, so the token may also arrive as a query parameter.
func (s *Server) resolveStreamUser(r *http.Request) (string, bool) {
	token := ""
	if authHeader := r.Header.Get("Authorization"); len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	} else {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return "", false
	}

	claims, err := s.deps.Tokens.VerifyAccessToken(token)
	if err != nil {
		return "", false
	}
	return claims.UserID, true
}
