package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/impyreal/realty-ai-platform/cmd/mainconfig"
	"github.com/impyreal/realty-ai-platform/internal/api/router"
	"github.com/impyreal/realty-ai-platform/internal/archive"
	"github.com/impyreal/realty-ai-platform/internal/audit"
	"github.com/impyreal/realty-ai-platform/internal/auth"
	"github.com/impyreal/realty-ai-platform/internal/blog"
	appconfig "github.com/impyreal/realty-ai-platform/internal/config"
	"github.com/impyreal/realty-ai-platform/internal/http/handlers"
	httpmiddleware "github.com/impyreal/realty-ai-platform/internal/http/middleware"
	"github.com/impyreal/realty-ai-platform/internal/leads"
	"github.com/impyreal/realty-ai-platform/internal/live"
	"github.com/impyreal/realty-ai-platform/internal/notify"
	"github.com/impyreal/realty-ai-platform/internal/observability/metrics"
	"github.com/impyreal/realty-ai-platform/internal/projects"
	"github.com/impyreal/realty-ai-platform/internal/qualify"
	"github.com/impyreal/realty-ai-platform/internal/testimonials"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting realty-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	leadMetrics := metrics.NewLeadMetrics(nil)

	// Repositories: Postgres when configured, in-memory otherwise.
	var (
		leadsRepo    leads.Repository
		projectsRepo projects.Repository
		blogRepo     blog.Repository
		testimRepo   testimonials.Repository
		auditSvc     *audit.Service
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		leadsRepo = leads.NewPostgresRepository(pool)
		projectsRepo = projects.NewPostgresRepository(pool)
		blogRepo = blog.NewPostgresRepository(pool)
		testimRepo = testimonials.NewPostgresRepository(pool)

		auditDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open audit database", "error", err)
			os.Exit(1)
		}
		defer auditDB.Close()
		auditSvc = audit.NewService(auditDB)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		leadsRepo = leads.NewInMemoryRepository()
		projectsRepo = projects.NewInMemoryRepository()
		blogRepo = blog.NewInMemoryRepository()
		testimRepo = testimonials.NewInMemoryRepository()
	}

	// Redis: duplicate-submission guard and project cache.
	var guard leads.SubmissionGuard
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		guard = leads.NewRedisDeduper(redisClient, cfg.DedupeWindow, logger)
		projectsRepo = projects.NewCachedRepository(projectsRepo, redisClient, cfg.CacheTTL, logger)
	}

	// AWS clients are only needed for SQS, SES, S3 or Bedrock.
	needsAWS := !cfg.UseMemoryQueue || cfg.EmailProvider == "ses" ||
		cfg.ArchiveBucket != "" || cfg.QualifierProvider == "bedrock"
	var (
		sqsClient     *sqs.Client
		sesClient     *sesv2.Client
		s3Client      *s3.Client
		bedrockClient *bedrockruntime.Client
	)
	if needsAWS {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		sqsClient = sqs.NewFromConfig(awsCfg)
		sesClient = sesv2.NewFromConfig(awsCfg)
		s3Client = s3.NewFromConfig(awsCfg)
		bedrockClient = bedrockruntime.NewFromConfig(awsCfg)
	}

	// Outbound email for hot-lead alerts.
	var emailSender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		if sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sg != nil {
			emailSender = sg
		}
	case "ses":
		if ses := notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); ses != nil {
			emailSender = ses
		}
	}
	notifier := notify.NewService(emailSender, cfg.SalesNotifyEmail, logger)

	// Live admin feed.
	hub := live.NewHub(cfg.AdminJWTSecret, logger)

	// Qualification pipeline.
	var qualifier qualify.Qualifier = qualify.NewRuleQualifier()
	if cfg.QualifierProvider == "bedrock" && cfg.BedrockModelID != "" {
		qualifier = qualify.NewBedrockQualifier(bedrockClient, cfg.BedrockModelID)
	}

	dispatcherCfg := qualify.DispatcherConfig{
		Qualifier: qualifier,
		Repo:      leadsRepo,
		Notifier:  notifier,
		Events:    hub,
		Metrics:   leadMetrics,
		Logger:    logger,
		Timeout:   cfg.QualifyTimeout,
	}
	workersInProcess := 0
	if cfg.UseMemoryQueue {
		if cfg.WorkerCount > 0 {
			dispatcherCfg.Queue = qualify.NewMemoryQueue(256)
			workersInProcess = cfg.WorkerCount
		}
	} else if cfg.QualifyQueueURL != "" {
		dispatcherCfg.Queue = qualify.NewSQSQueue(sqsClient, cfg.QualifyQueueURL)
	}
	dispatcher := qualify.NewDispatcher(dispatcherCfg)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	for i := 0; i < workersInProcess; i++ {
		go func() {
			if err := dispatcher.RunWorker(workerCtx); err != nil && workerCtx.Err() == nil {
				logger.Error("qualification worker exited", "error", err)
			}
		}()
	}

	// Lead archive for deletions.
	var archiver leads.LeadArchiver
	if cfg.ArchiveBucket != "" {
		archiver = archive.NewStore(s3Client, cfg.ArchiveBucket, logger)
	}

	// Audit is optional; handlers accept a nil recorder.
	var (
		auditRecorder leads.AuditRecorder
		projectsAudit projects.AuditRecorder
		blogAudit     blog.AuditRecorder
		testimAudit   testimonials.AuditRecorder
	)
	if auditSvc != nil {
		auditRecorder = auditSvc
		projectsAudit = auditSvc
		blogAudit = auditSvc
		testimAudit = auditSvc
	}

	// Initialize handlers
	leadsHandler := leads.NewHandler(leadsRepo, dispatcher, guard, hub, leadMetrics, logger)
	adminLeadsHandler := leads.NewAdminHandler(leadsRepo, archiver, auditRecorder, leadMetrics, logger)
	projectsHandler := projects.NewHandler(projectsRepo, projectsAudit, logger)
	blogHandler := blog.NewHandler(blogRepo, blogAudit, logger)
	testimHandler := testimonials.NewHandler(testimRepo, testimAudit, logger)
	authHandler := auth.NewHandler(cfg.AdminJWTSecret, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminSessionTTL, logger)
	dashboard := handlers.NewDashboard(leadsRepo, projectsRepo, blogRepo, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:              logger,
		LeadsHandler:        leadsHandler,
		AdminLeadsHandler:   adminLeadsHandler,
		ProjectsHandler:     projectsHandler,
		BlogHandler:         blogHandler,
		TestimonialsHandler: testimHandler,
		AuthHandler:         authHandler,
		Dashboard:           dashboard,
		LiveHub:             hub,
		IntakeLimiter:       httpmiddleware.NewRateLimiter(cfg.IntakeRatePerSec, cfg.IntakeRateBurst),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	stopWorkers()
	dispatcher.Wait()

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
