package router

import (
	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/pubsub"
	"app/internal/repository"
	"app/internal/service"
	"app/internal/worker"
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the full request path: database, storage, model client,
// services, handlers and middleware. geminiAPIKey is resolved by main before
// this runs (environment or Secret Manager).
func New(cfg *config.Config, geminiAPIKey string, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	// 1. Open the DB pool.
	dsn := cfg.DBConnectionString
	// Local development runs against a plain Postgres without TLS. Production
	// connection strings carry their own SSL settings.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create DB pool")
		return nil, nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 2. Initialize the S3 client when archiving is configured.
	var s3Client *s3.Client
	if cfg.S3Bucket != "" {
		s3Config, err := awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.S3Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
			awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
		)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to load S3 config")
			return nil, nil, err
		}
		s3Client = s3.NewFromConfig(s3Config, func(o *s3.Options) {
			if cfg.S3URL != "" {
				o.BaseEndpoint = aws.String(cfg.S3URL)
				o.UsePathStyle = true
			}
		})
	}

	// 3. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 4. Initialize Pub/Sub publisher when eventing is configured.
	var publisher pubsub.Publisher
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(context.Background(), cfg.GCPProjectID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create Pub/Sub publisher")
			return nil, nil, err
		}
		publisher = p
	}

	// 5. Initialize repositories & services & handlers
	subscriptionRepo := repository.NewSubscriptionRepo(pool)
	usageRepo := repository.NewUsageRepo(pool)
	analysisRepo := repository.NewAnalysisRepo(pool, logger)

	domains, emails := cfg.Allowlist()
	planResolver := service.NewPlanResolver(domains, emails, subscriptionRepo, logger)
	quotaGate := service.NewQuotaGate(usageRepo, cfg.PlanLimits(), logger)
	geminiClient := service.NewGeminiClient(geminiAPIKey, cfg.GeminiModel, service.GenerationParams{
		Temperature:     cfg.GeminiTemperature,
		TopP:            cfg.GeminiTopP,
		MaxOutputTokens: cfg.GeminiMaxOutputTokens,
	}, logger)
	renderPool := worker.NewPool(cfg.RenderWorkers)
	archiveSvc := service.NewArchiveService(s3Client, cfg.S3Bucket, logger)
	analysisSvc := service.NewAnalysisService(analysisRepo, quotaGate, geminiClient, archiveSvc, publisher, cfg.PubSubUsageTopic, renderPool, logger)
	exportSvc := service.NewExportService(renderPool, logger)

	analysisHandler := handler.NewAnalysisHandler(analysisSvc, planResolver, quotaGate, cfg.MaxUploadBytes(), logger)
	exportHandler := handler.NewExportHandler(exportSvc, planResolver, quotaGate, validate, logger)
	healthHandler := handler.NewHealthHandler(pool)

	// 6. Initialize middleware. The shared-secret verifier is only for
	// development; anything else verifies real Google ID tokens.
	var verifier middleware.TokenVerifier
	if cfg.Environment == "development" && cfg.AuthJWTSecret != "" {
		verifier = service.NewStaticSecretVerifier(cfg.AuthJWTSecret)
		logger.Warn().Msg("Using shared-secret token verification")
	} else {
		verifier = service.NewGoogleTokenVerifier(cfg.FirebaseProjectID)
	}
	authMiddleware := middleware.AuthMiddleware(verifier)

	// 7. Create ServeMux router
	mux := http.NewServeMux()

	apiV1Mux := http.NewServeMux()
	analysisHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	exportHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	healthHandler.RegisterRoutes(apiV1Mux)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Swagger documentation
	mux.HandleFunc("/swagger/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger/swagger.json")
	})

	// 8. Apply CORS middleware. Content-Disposition must be exposed so the
	// frontend can read export filenames.
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(c.Handler(mux)), pool, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
