package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/config"
	"github.com/inkwell-cms/apiserver/internal/auth"
	"github.com/inkwell-cms/apiserver/internal/handlers"
	"github.com/inkwell-cms/apiserver/internal/mq"
	"github.com/inkwell-cms/apiserver/internal/services"
	"github.com/inkwell-cms/apiserver/internal/storage"
	"github.com/inkwell-cms/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	queue      *mq.MQ
	logger     *zap.Logger
}

// Option customises server construction.
type Option func(*options)

type options struct {
	eventBackend mq.Backend
}

// WithEventBackend publishes content events to b instead of the backend
// named in the configuration.
func WithEventBackend(b mq.Backend) Option {
	return func(o *options) { o.eventBackend = b }
}

// New builds the store, backends, services and routes. The store is seeded
// when cfg.Seed.Enabled is set.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	creds := auth.NewCredentials(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)

	db := store.NewMemoryStore()
	if cfg.Seed.Enabled {
		hash, err := creds.HashPassword(cfg.Seed.AdminPassword)
		if err != nil {
			return nil, err
		}
		if err := store.Seed(ctx, db, hash); err != nil {
			return nil, err
		}
		logger.Info("store seeded", zap.String("admin_email", store.SeedAdminEmail))
	}

	objects, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var queue *mq.MQ
	if o.eventBackend != nil {
		queue = mq.New(o.eventBackend)
	} else if queue, err = mq.Open(ctx, cfg); err != nil {
		return nil, err
	}
	events := mq.NewEventPublisher(queue, cfg.MQChannel, logger.Named("events"))

	userService := services.NewUserService(store.NewUserRepository(db), creds)
	categoryService := services.NewCategoryService(store.NewCategoryRepository(db))
	contentService := services.NewContentService(store.NewContentRepository(db), events)
	mediaService := services.NewMediaService(store.NewMediaRepository(db), objects, cfg.Uploads.MaxBytes, logger.Named("media"))

	guard := handlers.NewGuard(userService, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlers.RequestLogger(logger.Named("http")),
		handlers.Recoverer(logger),
		handlers.CORS(cfg.CORSOrigins),
		middleware.Timeout(60*time.Second),
	)
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, guard, logger)
		})
		r.Route("/contents", func(r chi.Router) {
			handlers.ContentRouter(r, contentService, guard, logger)
		})
		r.Route("/categories", func(r chi.Router) {
			handlers.CategoryRouter(r, categoryService, guard, logger)
		})
		r.Route("/media", func(r chi.Router) {
			handlers.MediaRouter(r, mediaService, guard, logger)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService, guard, logger)
		})
	})
	router.Route("/uploads", func(r chi.Router) {
		handlers.UploadsRouter(r, mediaService, logger)
	})
	router.Handle("/metrics", promhttp.Handler())

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		queue:      queue,
		logger:     logger,
	}, nil
}

// Router exposes the chi router.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests, then closes the event backend.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.queue != nil {
		if cerr := s.queue.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
