package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lunaria-app/lunaria/internal/api/handlers"
	"github.com/lunaria-app/lunaria/internal/api/router"
	"github.com/lunaria-app/lunaria/internal/config"
	"github.com/lunaria-app/lunaria/internal/domain/insight"
	"github.com/lunaria-app/lunaria/internal/domain/payment"
	"github.com/lunaria-app/lunaria/internal/domain/questionnaire"
	"github.com/lunaria-app/lunaria/internal/domain/reading"
	"github.com/lunaria-app/lunaria/internal/domain/session"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/validator"
	"github.com/lunaria-app/lunaria/internal/providers"
	"github.com/lunaria-app/lunaria/internal/repository/memory"
	"github.com/lunaria-app/lunaria/internal/repository/postgres"
	"github.com/lunaria-app/lunaria/internal/services"
	"github.com/lunaria-app/lunaria/internal/worker"
	"github.com/lunaria-app/lunaria/migrations"
)

type repositories struct {
	users          user.Repository
	sessions       session.Repository
	questionnaires questionnaire.Repository
	readings       reading.Repository
	payments       payment.Repository
	insights       insight.Repository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	repos, sqlDB, err := buildRepositories(cfg)
	if err != nil {
		log.Fatalf("failed to set up storage: %v", err)
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	if cfg.Auth.AdminEmail != "" {
		if err := promoteAdmin(repos.users, cfg.Auth.AdminEmail); err != nil {
			log.Warnf("admin bootstrap: %v", err)
		}
	}

	// Providers
	generator := providers.NewOpenAIGenerator(cfg.Providers.OpenAIAPIKey)
	processor := providers.NewStripeClient(cfg.Providers.StripeSecretKey, cfg.Providers.StripeWebhookSecret)
	mailer := providers.NewSMTPMailer(cfg.SMTP, log)

	// Services
	userService := services.NewUserService(repos.users, repos.sessions, mailer, cfg.Auth, cfg.Server.FrontendURL, log)
	questionnaireService := services.NewQuestionnaireService(repos.questionnaires, repos.readings, generator, log)
	readingService := services.NewReadingService(repos.readings, repos.questionnaires, generator, log)
	paymentService := services.NewPaymentService(repos.payments, repos.users, processor, cfg.Providers.SubscriptionPriceCents, log)
	insightService := services.NewInsightService(repos.insights, generator, log)
	statsService := services.NewStatsService(repos.users, repos.payments, repos.readings)

	val := validator.New()

	h := &router.Handlers{
		Health:        handlers.NewHealthHandler(sqlDB, log),
		Auth:          handlers.NewAuthHandler(userService, cfg, log, val),
		Questionnaire: handlers.NewQuestionnaireHandler(questionnaireService, log, val),
		Reading:       handlers.NewReadingHandler(readingService, log, val),
		Payment:       handlers.NewPaymentHandler(paymentService, log, val),
		Insight:       handlers.NewInsightHandler(insightService, log),
		Admin:         handlers.NewAdminHandler(userService, questionnaireService, paymentService, insightService, statsService, log, val),
	}

	publisher := worker.NewInsightPublisher(insightService, repos.sessions, log)
	if err := publisher.Start(context.Background()); err != nil {
		log.Fatalf("failed to start insight publisher: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, userService, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	publisher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
}

// promoteAdmin flags the configured account as admin once it exists.
func promoteAdmin(users user.Repository, email string) error {
	ctx := context.Background()
	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", email, err)
	}
	if u.IsAdmin {
		return nil
	}
	return users.SetAdmin(ctx, u.ID, true)
}

// buildRepositories opens the configured backend. The returned *sql.DB is
// nil for the in-memory store.
func buildRepositories(cfg *config.Config) (*repositories, *sql.DB, error) {
	if cfg.Database.Driver == "memory" {
		store := memory.New()
		return &repositories{
			users:          store.Users(),
			sessions:       store.Sessions(),
			questionnaires: store.Questionnaires(),
			readings:       store.Readings(),
			payments:       store.Payments(),
			insights:       store.Insights(),
		}, nil, nil
	}

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(db, migrations.FS()); err != nil {
		db.Close()
		return nil, nil, err
	}

	return &repositories{
		users:          postgres.NewUserRepository(db),
		sessions:       postgres.NewSessionRepository(db),
		questionnaires: postgres.NewQuestionnaireRepository(db),
		readings:       postgres.NewReadingRepository(db),
		payments:       postgres.NewPaymentRepository(db),
		insights:       postgres.NewInsightRepository(db),
	}, db.DB, nil
}
