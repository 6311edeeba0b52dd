package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "ugeco-backoffice/internal/api/http"
	"ugeco-backoffice/internal/config"
	"ugeco-backoffice/internal/kv"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/repository/postgres"
	"ugeco-backoffice/internal/security"
	"ugeco-backoffice/internal/service"
	"ugeco-backoffice/internal/storage"

	_ "github.com/lib/pq"
)

// fileStore is what the services and upload handler need from storage.
type fileStore interface {
	httpapi.FileSaver
	service.FileDeleter
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.InitializeWriter(logger.Output(cfg.Log.Output), cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting UGECO back office...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "provider", cfg.Email.Provider, "from", cfg.Email.From)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Error("Failed to apply schema", "error", err)
			log.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("Database schema applied")
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL(), cfg.RememberMeTokenTTL())

	// Initialize Storage
	var files fileStore
	staticDir := ""
	switch cfg.Storage.Driver {
	case "s3":
		logger.Info("Using S3 storage", "bucket", cfg.Storage.S3.Bucket, "region", cfg.Storage.S3.Region)
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:          cfg.Storage.S3.Bucket,
			Region:          cfg.Storage.S3.Region,
			Endpoint:        cfg.Storage.S3.Endpoint,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
		})
		if err != nil {
			logger.Error("Failed to initialize S3 storage", "error", err)
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
		files = s3Store
	default:
		logger.Info("Using local storage", "upload_dir", cfg.Storage.UploadDir)
		localStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		files = localStore
		staticDir = localStore.Root()
	}

	// Initialize sign-in throttling
	var limiter service.AttemptLimiter
	if cfg.Redis.Addr != "" {
		redisClient, err := kv.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		limiter = kv.NewLimiter(redisClient, "login", int64(cfg.Redis.LoginLimit), cfg.LoginWindow())
		logger.Info("Sign-in throttling enabled", "limit", cfg.Redis.LoginLimit, "window", cfg.LoginWindow())
	} else {
		logger.Warn("Redis not configured, sign-in throttling disabled")
	}

	// Initialize Email Service
	var emailSvc service.EmailService
	switch cfg.Email.Provider {
	case "sendgrid":
		emailSvc = service.NewSendGridEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.FromName, cfg.Email.AppURL)
	default:
		logger.Warn("Email provider is log, links are written to the log only")
		emailSvc = service.NewLogEmailService(cfg.Email.AppURL)
	}

	initTTL := time.Duration(cfg.Tokens.InitTokenMinutes) * time.Minute
	resetTTL := time.Duration(cfg.Tokens.ResetTokenMinutes) * time.Minute

	// Initialize Services
	packageSvc := service.NewPackageService(store.PackageRepository)
	brandSvc := service.NewBrandService(store.BrandRepository, store.PackageRepository, store.UserRepository, files)
	offerSvc := service.NewOfferService(store.OfferRepository, store.BrandRepository, store.PackageRepository, files)
	userSvc := service.NewUserService(store.UserRepository, store.BrandRepository, store.PackageRepository, emailSvc, initTTL)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, emailSvc, limiter, resetTTL)
	profileSvc := service.NewProfileService(store.ProfileRepository, store.UserRepository, files)

	// Set up HTTP router
	router := httpapi.NewRouter(httpapi.Dependencies{
		Auth:           authSvc,
		Packages:       packageSvc,
		Brands:         brandSvc,
		Offers:         offerSvc,
		Users:          userSvc,
		Profiles:       profileSvc,
		Tokens:         tokenManager,
		Files:          files,
		MaxUploadBytes: cfg.Storage.MaxFileSize << 20,
		AllowedExts:    cfg.Storage.AllowedExts,
		StaticDir:      staticDir,
		CORSOrigin:     cfg.Server.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
