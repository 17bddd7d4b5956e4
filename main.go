package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/config"
	"devcamper/internal/events"
	"devcamper/internal/geocoder"
	applogger "devcamper/internal/logger"
	"devcamper/internal/mailer"
	"devcamper/internal/metrics"
	"devcamper/internal/ratelimit"
	"devcamper/internal/repositories"
	"devcamper/internal/server"
	"devcamper/internal/services"
	"devcamper/internal/storage"
	"devcamper/pkg/rabbitmq"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := applogger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server gracefully stopped")
}

// run wires every component from cfg and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Error during shutdown", zap.Error(err))
			}
		}
	}()

	// --- Store ---
	repos, ping, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	closers = append(closers, closeStore)

	// --- Collaborators ---
	geoCache, closeCache, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	closers = append(closers, closeCache)
	geo := geocoder.NewCached(
		geocoder.NewMapQuest(cfg.GeocoderBaseURL, cfg.GeocoderAPIKey, logger),
		geoCache, cfg.GeocoderCacheTTL, logger,
	)

	mail, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
		Encryption: cfg.SMTPEncryption,
		FromEmail:  cfg.FromEmail,
		FromName:   cfg.FromName,
	}, logger)
	if err != nil {
		return err
	}

	photos, err := openPhotoStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var m *metrics.MetricsManager
	if cfg.MetricsEnabled {
		m = metrics.NewMetricsManager("devcamper")
	}

	pub, err := openPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	closers = append(closers, pub.Close)
	if m != nil {
		pub = events.NewInstrumented(pub, m)
	}

	limiter := ratelimit.New(cfg.RateLimitBurst, cfg.RateLimitWindow)
	go limiter.Run(ctx, cfg.RateLimitWindow)

	// --- Services and HTTP ---
	opts := server.Options{
		Logger:       logger,
		Auth:         services.NewAuthService(repos.Users, mail, pub, cfg.JWTSecret, cfg.JWTExpire, logger),
		Users:        services.NewUserService(repos.Users, logger),
		Bootcamps:    services.NewBootcampService(repos, geo, photos, pub, cfg.MaxFileUpload, logger),
		Courses:      services.NewCourseService(repos, pub, logger),
		Reviews:      services.NewReviewService(repos, pub, logger),
		Metrics:      m,
		Limiter:      limiter,
		CookieTTL:    cfg.CookieTTL(),
		SecureCookie: cfg.IsProduction(),
		MaxUpload:    cfg.MaxFileUpload,
		Ping:         ping,
	}
	if cfg.PhotoStorage == "local" {
		opts.UploadDir = cfg.FileUploadPath
	}
	app := server.New(opts)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.AppPort), zap.String("env", cfg.Env), zap.String("db_driver", cfg.DBDriver))
		serveErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("Error during Fiber shutdown", zap.Error(err))
	}
	return nil
}

// openStore connects to the configured database and returns its repositories,
// a health probe and a close function.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.Set, func(context.Context) error, func() error, error) {
	switch cfg.DBDriver {
	case "mongo":
		client, err := repositories.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return repositories.Set{}, nil, nil, err
		}
		repos, err := repositories.NewMongoSet(ctx, client.Database(cfg.MongoDatabase), logger)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return repositories.Set{}, nil, nil, err
		}
		logger.Info("MongoDB connected", zap.String("database", cfg.MongoDatabase))
		ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
		closeFn := func() error { return client.Disconnect(context.Background()) }
		return repos, ping, closeFn, nil

	default:
		dsn := cfg.DatabaseDSN
		if cfg.DBDriver == "sqlite" {
			dsn = cfg.SQLitePath
		}
		db, err := repositories.OpenGORM(cfg.DBDriver, dsn)
		if err != nil {
			return repositories.Set{}, nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return repositories.Set{}, nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		repos, err := repositories.NewGORMSet(db)
		if err != nil {
			_ = sqlDB.Close()
			return repositories.Set{}, nil, nil, err
		}
		logger.Info("Database connected", zap.String("driver", cfg.DBDriver))
		return repos, sqlDB.PingContext, sqlDB.Close, nil
	}
}

// openCache returns Redis when REDIS_ADDR is set and an in-process cache otherwise.
func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Repository, func() error, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryRepository(), func() error { return nil }, nil
	}
	client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisRepository(client, logger), client.Close, nil
}

func openPhotoStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.PhotoStore, error) {
	if cfg.PhotoStorage == "minio" {
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, logger)
	}
	return storage.NewLocalStore(cfg.FileUploadPath, logger), nil
}

// openPublisher connects to the configured event broker. With RabbitMQ an
// audit consumer logs every published event.
func openPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	switch cfg.EventsBroker {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			return nil, err
		}
		if err := client.Consume(ctx, "devcamper.audit", "#", rabbitmq.AuditHandler(logger.Named("Audit"))); err != nil {
			_ = client.Close()
			return nil, err
		}
		return events.NewRabbitPublisher(client), nil
	case "nats":
		return events.NewNATSPublisher(cfg.NATSURL, "devcamper", logger)
	case "none":
		return events.Nop{}, nil
	default:
		return nil, errors.New("unsupported events broker " + cfg.EventsBroker)
	}
}
