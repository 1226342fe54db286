package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aruana-vision/apiserver/config"
	"github.com/aruana-vision/apiserver/internal/auth"
	"github.com/aruana-vision/apiserver/internal/db"
	"github.com/aruana-vision/apiserver/internal/handlers"
	"github.com/aruana-vision/apiserver/internal/notify"
	"github.com/aruana-vision/apiserver/internal/services"
	"github.com/aruana-vision/apiserver/internal/storage"
	"github.com/aruana-vision/apiserver/internal/store"
	"github.com/aruana-vision/apiserver/internal/vision"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer   *http.Server
	router       *chi.Mux
	visionClient *vision.GeminiClient
	notifier     *notify.Notifier
}

// New constructs a Server with all dependencies wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	tokens := auth.NewTokenService(cfg.JWTSecret)

	database, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return nil, err
	}

	visionClient, err := vision.NewGeminiClient(ctx, cfg.Gemini)
	if err != nil {
		return nil, err
	}

	archive, err := newArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}
	notifier, err := newNotifier(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(database)
	detectionRepo := store.NewDetectionRepository(database)
	alertRepo := store.NewAlertRepository(database)
	shareRepo := store.NewShareRepository(database)

	userService := services.NewUserService(userRepo)
	detectionService := services.NewDetectionService(
		detectionRepo, alertRepo, visionClient, vision.DefaultRetryer, archive, notifier, logger,
	)
	alertService := services.NewAlertService(alertRepo)
	shareService := services.NewShareService(shareRepo, detectionRepo, cfg.ShareBaseURL)

	authHandler := handlers.NewAuthHandler(userService, tokens, cfg.BootstrapAdminEmail, cfg.DevMode)
	detectHandler := handlers.NewDetectHandler(detectionService)
	detectionHandler := handlers.NewDetectionHandler(detectionService, shareService)
	alertHandler := handlers.NewAlertHandler(alertService)
	adminHandler := handlers.NewAdminHandler(userService, detectionService, alertService)
	reportHandler := handlers.NewReportHandler(detectionService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)

	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Get("/", handlers.Root)

		handlers.AuthRouter(r, authHandler)
		handlers.ShareRouter(r, detectionHandler)
		handlers.ReportRouter(r, reportHandler)
		handlers.AlertRouter(r, alertHandler, authHandler.RequireAuth)

		r.Group(func(r chi.Router) {
			r.Use(authHandler.RequireAuth)
			handlers.DetectRouter(r, detectHandler)
			handlers.DetectionRouter(r, detectionHandler)

			r.Group(func(r chi.Router) {
				r.Use(authHandler.RequireAdmin)
				handlers.AdminRouter(r, adminHandler)
			})
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer:   httpServer,
		router:       router,
		visionClient: visionClient,
		notifier:     notifier,
	}, nil
}

func newArchive(ctx context.Context, cfg config.Config) (*storage.Archive, error) {
	switch cfg.StorageBackend {
	case "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		archive := storage.NewArchive(client)
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		archive := storage.NewArchive(client)
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newNotifier(ctx context.Context, cfg config.Config) (*notify.Notifier, error) {
	switch cfg.NotifyBackend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := notify.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return notify.NewNotifier(client), nil
	case "pubsub":
		client, err := notify.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return notify.NewNotifier(client), nil
	default:
		return nil, fmt.Errorf("unknown notify backend %q", cfg.NotifyBackend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.visionClient != nil {
		_ = s.visionClient.Close()
	}
	if s.notifier != nil {
		_ = s.notifier.Close()
	}
	return s.httpServer.Close()
}
