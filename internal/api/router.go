package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/marketloop/accounts-api/internal/api/handler"
	"github.com/marketloop/accounts-api/internal/api/middleware"
	"github.com/marketloop/accounts-api/internal/core/service"
	"github.com/marketloop/accounts-api/internal/infrastructure/config"
	mongodb "github.com/marketloop/accounts-api/internal/infrastructure/db/mongo"
	"github.com/marketloop/accounts-api/internal/infrastructure/http/handlers"
	"github.com/marketloop/accounts-api/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := service.NewBcryptHasher(0)
	userService := service.NewUserService(userRepo, hasher, log)
	avatars := storage.NewAvatarStore(storage.Config{
		Dir:        cfg.Upload.Dir,
		PublicPath: cfg.Upload.PublicPath,
		BaseURL:    cfg.Upload.BaseURL,
		MaxBytes:   cfg.Upload.MaxBytes,
		MaxFiles:   cfg.Upload.MaxFiles,
	})
	userHandler := handler.NewUserHandler(userService, avatars)

	auth := middleware.Auth(cfg.JWTSecret)

	// --- User routes ---
	e.GET("/users", userHandler.List, auth, middleware.Gate(middleware.OpListUsers))
	e.GET("/users/personal/me", userHandler.Me, auth, middleware.Gate(middleware.OpSelfFetch))
	e.GET("/users/logout", userHandler.Logout) // no token required
	e.DELETE("/users/delete/:id", userHandler.Delete, auth, middleware.Gate(middleware.OpDeleteUser))
	e.PUT("/users/update/profile", userHandler.UpdateProfile, auth, middleware.Gate(middleware.OpUpdateProfile))
	e.POST("/users/create", userHandler.Create, auth, middleware.Gate(middleware.OpCreateUser))
	e.PUT("/users/update/user/:id", userHandler.AdminUpdate, auth, middleware.Gate(middleware.OpAdminUpdate))
	e.PUT("/users/upload/avatarFile", userHandler.UploadAvatar, auth, middleware.Gate(middleware.OpUploadAvatar))
	e.GET("/users/getUser/:id", userHandler.GetUser, auth, middleware.Gate(middleware.OpGetUser))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
