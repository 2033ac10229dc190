package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"storefront/internal/app"
	"storefront/internal/audit"
	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/http"
	"storefront/internal/rbac"
	"storefront/internal/rbac/presets"
	"storefront/internal/repository/postgres"
	"storefront/internal/storage/s3"
	"storefront/pkg/metrics"
	"storefront/pkg/password"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	healthChecks := map[string]http.Pinger{"postgres": db}

	var revoker auth.TokenRevoker
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		redisRevoker := auth.NewRedisTokenRevoker(rdb, cfg.JWT.StaffTTL)
		if err := redisRevoker.Ping(context.Background()); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		revoker = redisRevoker
		healthChecks["redis"] = redisRevoker
		log.Println("Token revocation backed by Redis")
	} else {
		revoker = auth.NewMemoryTokenRevoker(cfg.JWT.StaffTTL)
		log.Println("Warning: REDIS_ADDR not set, token revocation is local to this process")
	}

	s3Client, err := s3.NewClient(&cfg.AWS)
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	log.Println("S3 client initialized")

	hasher, err := password.NewHasher(cfg.App.PasswordCost)
	if err != nil {
		log.Fatalf("Invalid password hashing cost: %v", err)
	}

	roles := rbac.MustNew(presets.Storefront())
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.BuyerTTL, cfg.JWT.StaffTTL, roles)
	authMiddleware := auth.NewMiddleware(jwtService, revoker, roles)

	orderRepo := postgres.NewOrderRepository(db)
	services := app.NewServices(app.Dependencies{
		Buyers:   postgres.NewBuyerRepository(db),
		Staff:    postgres.NewStaffRepository(db),
		Products: postgres.NewProductRepository(db),
		Orders:   orderRepo,
		OrderUoW: orderRepo,
		Hasher:   hasher,
		Tokens:   jwtService,
		Roles:    roles,
		Revoker:  revoker,
		Images:   s3Client,
		Catalog: app.CatalogOptions{
			MaxImageBytes: cfg.App.MaxImageBytes,
			MaxImages:     cfg.App.MaxImagesPerUpload,
			UploadWorkers: cfg.App.ImageUploadWorkers,
		},
	})

	if cfg.Bootstrap.Enabled() {
		created, err := services.Accounts.EnsureOwner(context.Background(),
			cfg.Bootstrap.OwnerName, cfg.Bootstrap.OwnerEmail, cfg.Bootstrap.OwnerSecret)
		if err != nil {
			log.Fatalf("Failed to seed owner account: %v", err)
		}
		if created {
			log.Printf("Seeded owner account %s", cfg.Bootstrap.OwnerEmail)
		}
	}

	auditLogger := audit.NewLogger(db.Pool)

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Services:       services,
		AuthMiddleware: authMiddleware,
		AuditLogger:    auditLogger,
		HealthChecks:   healthChecks,
		Metrics:        metrics.NewCollector(),
	})

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	auditLogger.Wait()

	log.Println("Server exited gracefully")
}
