package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/impyreal/realty-ai-platform/cmd/mainconfig"
	appconfig "github.com/impyreal/realty-ai-platform/internal/config"
	"github.com/impyreal/realty-ai-platform/internal/leads"
	"github.com/impyreal/realty-ai-platform/internal/notify"
	"github.com/impyreal/realty-ai-platform/internal/observability/metrics"
	"github.com/impyreal/realty-ai-platform/internal/qualify"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting qualification worker", "env", cfg.Env)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.QualifyQueueURL == "" {
		logger.Error("QUALIFY_QUEUE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	leadsRepo := leads.NewPostgresRepository(pool)

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	sqsClient := sqs.NewFromConfig(awsCfg)
	queue := qualify.NewSQSQueue(sqsClient, cfg.QualifyQueueURL)

	var qualifier qualify.Qualifier = qualify.NewRuleQualifier()
	if cfg.QualifierProvider == "bedrock" && cfg.BedrockModelID != "" {
		qualifier = qualify.NewBedrockQualifier(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
	}

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
		if ses := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); ses != nil {
			emailSender = ses
		}
	}
	notifier := notify.NewService(emailSender, cfg.SalesNotifyEmail, logger)

	dispatcher := qualify.NewDispatcher(qualify.DispatcherConfig{
		Qualifier: qualifier,
		Repo:      leadsRepo,
		Queue:     queue,
		Notifier:  notifier,
		Metrics:   metrics.NewLeadMetrics(nil),
		Logger:    logger,
		Timeout:   cfg.QualifyTimeout,
	})

	workers := cfg.WorkerCount
	if workers <= 0 {
		workers = 1
	}
	done := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			if err := dispatcher.RunWorker(ctx); err != nil && ctx.Err() == nil {
				logger.Error("worker loop exited", "error", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down qualification worker...")
	cancel()

	timeout := time.After(30 * time.Second)
	for i := 0; i < workers; i++ {
		select {
		case <-done:
		case <-timeout:
			logger.Error("worker shutdown timed out")
			return
		}
	}
	dispatcher.Wait()
	logger.Info("qualification worker stopped")
}
