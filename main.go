package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"turnera/internal/answer"
	"turnera/internal/booking"
	"turnera/internal/config"
	"turnera/internal/database"
	"turnera/internal/dialog"
	"turnera/internal/gcal"
	"turnera/internal/notify"
	"turnera/internal/processor"
	"turnera/internal/server"
	"turnera/internal/speech"
	"turnera/internal/timeutil"
	"turnera/internal/whatsapp"
)

func main() {
	cfg := config.LoadFromEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		fatal("creating logger", err)
	}
	defer logger.Sync()

	// Phase 1: core infrastructure
	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	ctx := context.Background()

	calClient, err := gcal.NewClient(ctx, gcal.ClientConfig{
		CredentialsFile: cfg.GoogleCredentialsFile,
		CalendarID:      cfg.CalendarID,
		Timezone:        cfg.Timezone,
	})
	if err != nil {
		fatal("creating calendar client", err)
	}

	answerer, err := answer.New(ctx, cfg)
	if err != nil {
		fatal("creating answer provider", err)
	}

	// Phase 2: dialogue engine
	controller := newController(cfg, db, calClient, answerer, logger)

	srv := server.New(server.Config{
		DB:         db,
		Turns:      controller,
		Port:       cfg.HTTPPort,
		TestAPIKey: cfg.TestAPIKey,
		Logger:     logger,
	})
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	// Phase 3: transport
	handler := whatsapp.NewHandler(logger)
	waClient, err := whatsapp.NewClient(handler, cfg.WADBPath)
	if err != nil {
		fatal("creating whatsapp client", err)
	}
	if err := waClient.Connect(ctx); err != nil {
		fatal("connecting whatsapp", err)
	}

	proc := processor.New(processor.Config{
		Controller:  controller,
		Sender:      waClient,
		Transcriber: initTranscriber(ctx, cfg, logger),
		MsgChan:     handler.MessageChan(),
		WorkerCount: cfg.ProcessorWorkerCount,
		Logger:      logger,
	})
	proc.Start()

	waitForShutdown(proc, srv, waClient, logger)
}

func newController(cfg *config.Config, db *database.DB, cal *gcal.Client, answerer dialog.Answerer, logger *zap.Logger) *dialog.Controller {
	loc, fellBack := timeutil.ResolveLocation(cfg.Timezone)
	if fellBack {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone))
	}

	sched := booking.NewScheduler(booking.SchedulerConfig{
		Calendar:    cal,
		SlotMinutes: cfg.SlotMinutes,
		Timeout:     time.Duration(cfg.ExternalTimeoutSecs) * time.Second,
		Summary:     "Appointment - Training Office",
		Description: "In-person appointment for information / procedures.",
	})

	return dialog.NewController(dialog.ControllerConfig{
		Store:     db,
		AuditLog:  db,
		Scheduler: sched,
		Answerer:  answerer,
		Handoffs:  db,
		Notifier:  initNotifier(cfg, logger),
		Hours:     dialog.BusinessHours{Open: cfg.OpenHour, Close: cfg.CloseHour},
		Location:  loc,
		BotName:   cfg.BotName,
		Timeout:   time.Duration(cfg.ExternalTimeoutSecs) * time.Second,
		Logger:    logger,
	})
}

func initNotifier(cfg *config.Config, logger *zap.Logger) dialog.HandoffNotifier {
	notifier := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.HandoffEmail)
	if notifier == nil {
		logger.Info("hand-off email notifications disabled (RESEND_API_KEY or TURNERA_HANDOFF_EMAIL not set)")
		return nil
	}
	logger.Info("hand-off email notifications configured (Resend)")
	return notifier
}

func initTranscriber(ctx context.Context, cfg *config.Config, logger *zap.Logger) speech.Transcriber {
	transcriber, err := speech.NewGoogleTranscriber(ctx, cfg.GoogleCredentialsFile, cfg.SpeechLanguage)
	if err != nil {
		logger.Warn("speech-to-text disabled", zap.Error(err))
		return nil
	}
	logger.Info("speech-to-text configured (Cloud Speech)")
	return transcriber
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(proc *processor.Processor, srv *server.Server, waClient *whatsapp.Client, logger *zap.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	proc.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
	waClient.Disconnect()
}
