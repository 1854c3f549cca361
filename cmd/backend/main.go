package main

import (
	"CSS-Society/site-backend/internal"
	"CSS-Society/site-backend/internal/auth"
	"CSS-Society/site-backend/internal/config"
	"CSS-Society/site-backend/internal/content"
	"CSS-Society/site-backend/internal/cors"
	"CSS-Society/site-backend/internal/event"
	"CSS-Society/site-backend/internal/feature"
	"CSS-Society/site-backend/internal/form"
	"CSS-Society/site-backend/internal/form/builder"
	"CSS-Society/site-backend/internal/form/export"
	"CSS-Society/site-backend/internal/form/response"
	"CSS-Society/site-backend/internal/health"
	"CSS-Society/site-backend/internal/jwt"
	"CSS-Society/site-backend/internal/news"
	"CSS-Society/site-backend/internal/trace"
	"CSS-Society/site-backend/internal/user"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.6.1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var AppName = "no-app-name"

var Version = "no-version"

var BuildTime = "no-build-time"

var CommitHash = "no-commit-hash"

var Environment = "no-env"

func main() {
	AppName = os.Getenv("APP_NAME")
	if AppName == "" {
		AppName = "css-site-backend"
	}

	if BuildTime == "no-build-time" {
		now := time.Now()
		BuildTime = "not provided (now: " + now.Format(time.RFC3339) + ")"
	}

	Environment = os.Getenv("ENV")
	if Environment == "" {
		Environment = "no-env"
	}

	appMetadata := []zap.Field{
		zap.String("app_name", AppName),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit_hash", CommitHash),
		zap.String("environment", Environment),
	}

	cfg, cfgLog := config.Load()
	err := cfg.Validate()
	if err != nil {
		if errors.Is(err, config.ErrDatabaseURLRequired) {
			title := "Database URL is required"
			message := "Please set the DATABASE_URL environment variable or provide a config file with the database_url key."
			message = EarlyApplicationFailed(title, message)
			log.Fatal(message)
		} else {
			log.Fatalf("Failed to validate config: %v, exiting...", err)
		}
	}

	logger, err := initLogger(&cfg, appMetadata)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}

	cfgLog.FlushToZap(logger)

	if cfg.Dev {
		logger.Warn("Running in development mode, make sure to disable it in production")
	}

	if cfg.Secret == config.DefaultSecret && !cfg.Debug {
		logger.Warn("Default secret detected in production environment, replace it with a secure random string")
		cfg.Secret = uuid.New().String()
	}

	logger.Info("Starting application...")

	logger.Info("Starting database migration...")

	err = databaseutil.MigrationUp(cfg.MigrationSource, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to run database migration", zap.Error(err))
	}

	dbPool, err := initDatabasePool(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	formCache, closeCache, err := initFormCache(logger, cfg.RedisURL, cfg.FormCacheTTL)
	if err != nil {
		logger.Fatal("Failed to initialize form cache", zap.Error(err))
	}
	defer closeCache()

	shutdown, err := initOpenTelemetry(AppName, Version, BuildTime, CommitHash, Environment, cfg.OtelCollectorUrl)
	if err != nil {
		logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}

	validator := internal.NewValidator()
	problemWriter := internal.NewProblemWriter()
	allowedList := user.NewAllowedList(cfg.AdminAllowedList)
	if allowedList.Len() == 0 {
		logger.Warn("ADMIN_ALLOWED_LIST is empty, nobody can sign in as admin")
	}
	sanitizer := content.NewSanitizer()

	// ============================================
	// Service
	// ============================================

	jwtService := jwt.NewService(logger, cfg.Secret, cfg.AccessTokenExpiration)
	formService := form.NewService(logger, dbPool, formCache)
	responseService := response.NewService(logger, dbPool)
	exportService := export.NewService(logger, formService, responseService)
	newsService := news.NewService(logger, dbPool, sanitizer)
	eventService := event.NewService(logger, dbPool, sanitizer)
	featureService := feature.NewService(logger, dbPool, sanitizer)

	// ============================================
	// Handler
	// ============================================

	providers := auth.CreateAuthProviders(logger, cfg.BaseURL, cfg.GitHubOauth)
	authHandler := auth.NewHandler(logger, problemWriter, jwtService, providers, allowedList, cfg.BaseURL, cfg.Dev, cfg.AccessTokenExpiration)
	formHandler := form.NewHandler(logger, validator, problemWriter, formService, cfg.BaseURL)
	builderHandler := builder.NewHandler(logger, validator, problemWriter, formService, cfg.BaseURL)
	responseHandler := response.NewHandler(logger, validator, problemWriter, responseService, formService)
	exportHandler := export.NewHandler(logger, problemWriter, exportService)
	newsHandler := news.NewHandler(logger, validator, problemWriter, newsService)
	eventHandler := event.NewHandler(logger, validator, problemWriter, eventService)
	featureHandler := feature.NewHandler(logger, validator, problemWriter, featureService)
	healthHandler := health.NewHandler(logger, health.NewPoolChecker(dbPool))

	// ============================================
	// Middleware
	// ============================================

	// Middleware Initialization
	traceMiddleware := trace.NewMiddleware(logger, cfg.Debug)
	corsMiddleware := cors.NewMiddleware(logger, cfg.AllowOrigins)
	jwtMiddleware := jwt.NewMiddleware(logger, problemWriter, jwtService, allowedList)

	// Basic Middleware (Tracing and Recovery)
	basicMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	basicMiddleware = basicMiddleware.Append(traceMiddleware.TraceMiddleware)

	// Auth Middleware
	authMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	authMiddleware = authMiddleware.Append(traceMiddleware.TraceMiddleware)
	authMiddleware = authMiddleware.Append(jwtMiddleware.AuthenticateMiddleware)

	// HTTP Server
	mux := http.NewServeMux()

	// Health check routes
	mux.Handle("GET /api/healthz", basicMiddleware.HandlerFunc(healthHandler.HealthzHandler))
	mux.Handle("GET /api/keep-alive", basicMiddleware.HandlerFunc(healthHandler.KeepAliveHandler))
	mux.Handle("POST /api/keep-alive", basicMiddleware.HandlerFunc(healthHandler.KeepAliveHandler))

	// ============================================
	// Authentication routes
	// ============================================

	mux.Handle("GET /api/auth/login/oauth/{provider}", basicMiddleware.HandlerFunc(authHandler.Oauth2Start))
	mux.Handle("GET /api/auth/login/oauth/{provider}/callback", basicMiddleware.HandlerFunc(authHandler.Callback))
	mux.Handle("GET /api/auth/me", authMiddleware.HandlerFunc(authHandler.Me))
	mux.Handle("POST /api/auth/logout", basicMiddleware.HandlerFunc(authHandler.Logout))

	// ============================================
	// Public routes
	// ============================================

	mux.Handle("GET /api/public/forms/{formId}", basicMiddleware.HandlerFunc(formHandler.PublicGetHandler))
	mux.Handle("POST /api/public/forms/{formId}/responses", basicMiddleware.HandlerFunc(responseHandler.SubmitHandler))

	mux.Handle("GET /api/public/news", basicMiddleware.HandlerFunc(newsHandler.PublicListHandler))
	mux.Handle("GET /api/public/news/{id}", basicMiddleware.HandlerFunc(newsHandler.PublicGetHandler))

	mux.Handle("GET /api/public/events", basicMiddleware.HandlerFunc(eventHandler.PublicListHandler))
	mux.Handle("GET /api/public/events/{id}", basicMiddleware.HandlerFunc(eventHandler.PublicGetHandler))

	mux.Handle("GET /api/public/features", basicMiddleware.HandlerFunc(featureHandler.PublicListHandler))
	mux.Handle("GET /api/public/features/{id}", basicMiddleware.HandlerFunc(featureHandler.PublicGetHandler))

	// ============================================
	// Form routes
	// ============================================

	// Form Management
	// ----------------------
	mux.Handle("GET /api/forms", authMiddleware.HandlerFunc(formHandler.ListHandler))
	mux.Handle("POST /api/forms", authMiddleware.HandlerFunc(builderHandler.CreateHandler))
	mux.Handle("GET /api/forms/{formId}", authMiddleware.HandlerFunc(formHandler.GetHandler))
	mux.Handle("PUT /api/forms/{formId}", authMiddleware.HandlerFunc(builderHandler.UpdateHandler))
	mux.Handle("DELETE /api/forms/{formId}", authMiddleware.HandlerFunc(formHandler.DeleteHandler))
	mux.Handle("PUT /api/forms/{formId}/active", authMiddleware.HandlerFunc(formHandler.SetActiveHandler))

	// Response Management
	// ----------------------
	mux.Handle("GET /api/forms/{formId}/responses", authMiddleware.HandlerFunc(responseHandler.ListHandler))
	mux.Handle("GET /api/forms/{formId}/responses/export", authMiddleware.HandlerFunc(exportHandler.ExportHandler))
	mux.Handle("GET /api/forms/{formId}/responses/{responseId}", authMiddleware.HandlerFunc(responseHandler.GetHandler))
	mux.Handle("DELETE /api/forms/{formId}/responses/{responseId}", authMiddleware.HandlerFunc(responseHandler.DeleteHandler))

	// ============================================
	// Content routes
	// ============================================

	mux.Handle("GET /api/news", authMiddleware.HandlerFunc(newsHandler.ListHandler))
	mux.Handle("POST /api/news", authMiddleware.HandlerFunc(newsHandler.CreateHandler))
	mux.Handle("GET /api/news/{id}", authMiddleware.HandlerFunc(newsHandler.GetHandler))
	mux.Handle("PUT /api/news/{id}", authMiddleware.HandlerFunc(newsHandler.UpdateHandler))
	mux.Handle("DELETE /api/news/{id}", authMiddleware.HandlerFunc(newsHandler.DeleteHandler))

	mux.Handle("GET /api/events", authMiddleware.HandlerFunc(eventHandler.ListHandler))
	mux.Handle("POST /api/events", authMiddleware.HandlerFunc(eventHandler.CreateHandler))
	mux.Handle("GET /api/events/{id}", authMiddleware.HandlerFunc(eventHandler.GetHandler))
	mux.Handle("PUT /api/events/{id}", authMiddleware.HandlerFunc(eventHandler.UpdateHandler))
	mux.Handle("DELETE /api/events/{id}", authMiddleware.HandlerFunc(eventHandler.DeleteHandler))

	mux.Handle("GET /api/features", authMiddleware.HandlerFunc(featureHandler.ListHandler))
	mux.Handle("POST /api/features", authMiddleware.HandlerFunc(featureHandler.CreateHandler))
	mux.Handle("GET /api/features/{id}", authMiddleware.HandlerFunc(featureHandler.GetHandler))
	mux.Handle("PUT /api/features/{id}", authMiddleware.HandlerFunc(featureHandler.UpdateHandler))
	mux.Handle("DELETE /api/features/{id}", authMiddleware.HandlerFunc(featureHandler.DeleteHandler))

	// End of API routes
	// ============================================
	// handle interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// CORS and Entry Point
	entrypoint := corsMiddleware.HandlerFunc(mux.ServeHTTP)

	srv := &http.Server{
		Addr:              cfg.Host + ":" + cfg.Port,
		Handler:           entrypoint,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting listening request", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Fail to start server with error", zap.Error(err))
		}
	}()

	// wait for context close
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := shutdown(otelCtx); err != nil {
		logger.Error("Forced to shutdown OpenTelemetry", zap.Error(err))
	}

	logger.Info("Successfully shutdown")
}

// initFormCache returns a Redis-backed cache when REDIS_URL is set and a
// pass-through cache otherwise.
func initFormCache(logger *zap.Logger, redisURL string, ttl time.Duration) (form.Cache, func(), error) {
	if redisURL == "" {
		logger.Info("REDIS_URL not set, active forms are read straight from the database")
		return form.NopCache{}, func() {}, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	logger.Info("Caching active forms in Redis", zap.Duration("ttl", ttl))
	return form.NewRedisCache(logger, client, ttl), func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}, nil
}

func initLogger(cfg *config.Config, appMetadata []zap.Field) (*zap.Logger, error) {
	var err error
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = logutil.ZapDevelopmentConfig().Build()
		if err != nil {
			return nil, err
		}
		logger.Info("Running in debug mode", appMetadata...)
	} else {
		logger, err = logutil.ZapProductionConfig().Build()
		if err != nil {
			return nil, err
		}

		logger = logger.With(appMetadata...)
	}
	defer func() {
		err := logger.Sync()
		if err != nil {
			zap.S().Errorw("Failed to sync logger", zap.Error(err))
		}
	}()

	return logger, nil
}

func initDatabasePool(databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	return dbPool, nil
}

func initOpenTelemetry(appName, version, buildTime, commitHash, environment, otelCollectorUrl string) (func(context.Context) error, error) {
	ctx := context.Background()

	serviceName := semconv.ServiceNameKey.String(appName)
	serviceVersion := semconv.ServiceVersionKey.String(version)
	serviceNamespace := semconv.ServiceNamespaceKey.String("css-society")
	serviceCommitHash := attribute.String("service.commit_hash", commitHash)
	serviceEnvironment := semconv.DeploymentEnvironmentKey.String(environment)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			serviceName,
			serviceVersion,
			serviceNamespace,
			serviceCommitHash,
			serviceEnvironment,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if otelCollectorUrl != "" {
		conn, err := initGrpcConn(otelCollectorUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}

		traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
		options = append(options, sdktrace.WithSpanProcessor(bsp))
	}

	tracerProvider := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

func initGrpcConn(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	return conn, nil
}

func EarlyApplicationFailed(title, action string) string {
	result := `
-----------------------------------------
Application Failed to Start
-----------------------------------------

# What's wrong?
%s

# How to fix it?
%s

`

	result = fmt.Sprintf(result, title, action)
	return result
}
