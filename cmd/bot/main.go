package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"

	"github.com/planbot-dev/vertretungsplan-bot/internal/config"
	"github.com/planbot-dev/vertretungsplan-bot/internal/database"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/service"
	"github.com/planbot-dev/vertretungsplan-bot/internal/filter"
	"github.com/planbot-dev/vertretungsplan-bot/internal/handlers"
	"github.com/planbot-dev/vertretungsplan-bot/internal/vplan"
	"github.com/planbot-dev/vertretungsplan-bot/migrator/sqlite"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("running migrations")
	if err := sqlite.Migrate(db.DB()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	clock, err := buildClock(cfg, logger)
	if err != nil {
		logger.Error("invalid DATE_OVERRIDE", "error", err)
		os.Exit(1)
	}

	dm := database.NewInstance(db)
	slackClient := slack.New(cfg.SlackBotToken)
	fetcher := vplan.NewClient(cfg.VPBaseURL, cfg.VPUser, cfg.VPPass)
	rules := filter.New(domain.MyCourses)

	services := service.New(dm, slackClient, fetcher, rules.Keep, clock, service.Options{
		ChannelID:   cfg.PlanChannelID,
		ClassCode:   cfg.VPClass,
		Interval:    cfg.PollInterval,
		Heartbeat:   cfg.AlwaysHeartbeat,
		LogRawPlans: cfg.LogRawPlans,
	}, logger)

	services.Poller.Start()
	defer services.Poller.Stop()

	handler := handlers.New(services.Plans, cfg.SlackSigningSecret, logger)

	http.HandleFunc("/slack/commands", handler.HandleSlashCommand)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	logger.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func buildClock(cfg *config.Config, logger *slog.Logger) (contract.Clock, error) {
	if cfg.DateOverride == "" {
		return service.NewSystemClock(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", cfg.DateOverride, time.Local)
	if err != nil {
		return nil, err
	}
	logger.Warn("today is pinned by DATE_OVERRIDE", "date", cfg.DateOverride)
	return service.NewFixedClock(day), nil
}
