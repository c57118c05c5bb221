package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/polynux/kanap-openclassrooms/catalog"
	"github.com/polynux/kanap-openclassrooms/checkout"
	"github.com/polynux/kanap-openclassrooms/config"
	cartControllers "github.com/polynux/kanap-openclassrooms/controllers/cart"
	"github.com/polynux/kanap-openclassrooms/middleware"
	"github.com/polynux/kanap-openclassrooms/realtime"
	"github.com/polynux/kanap-openclassrooms/routes"
	"github.com/polynux/kanap-openclassrooms/storage"
	"github.com/polynux/kanap-openclassrooms/web"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting application",
		zap.String("environment", cfg.Environment),
		zap.String("catalog_url", cfg.CatalogURL),
		zap.String("storage", cfg.StorageDriver),
	)

	backend, err := initStorage(cfg)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}

	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatal("template parsing failed", zap.Error(err))
	}

	client := catalog.New(cfg.CatalogURL, cfg.CatalogTimeout)
	validator := checkout.NewValidator()
	deps := &cartControllers.Deps{
		Storage:   backend,
		Catalog:   client,
		Hub:       realtime.NewHub(logger),
		Validator: validator,
		Checkout:  checkout.NewService(validator, client, logger),
		Logger:    logger,
	}

	// Gin setup
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.GuestSession([]byte(cfg.JWTSecret), cfg.GuestTTL, cfg.IsProduction(), logger))
	r.SetHTMLTemplate(tmpl)

	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server running", zap.String("port", cfg.ServerPort))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// initStorage picks the key-value backend holding every guest's cart.
func initStorage(cfg *config.Config) (storage.Backend, error) {
	if cfg.StorageDriver != config.DriverPostgres {
		return storage.NewMemory(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	backend := storage.NewGorm(db)
	if err := backend.Migrate(); err != nil {
		return nil, err
	}
	return backend, nil
}

func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = origins
	conf.AllowCredentials = true
	return conf
}
