package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"student_notification_bot/internal/app"
	"student_notification_bot/internal/domain/notify"
	"student_notification_bot/internal/infra/config"
	idb "student_notification_bot/internal/infra/database"
	"student_notification_bot/internal/infra/email"
	"student_notification_bot/internal/infra/logger"
	"student_notification_bot/internal/infra/scheduler"
	"student_notification_bot/internal/infra/whatsapp"
)

func main() {
	jobName := flag.String("job", "", "run a single job once and exit: "+
		"session_24h|session_15min|recordings|assignments|payments|leads|all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, MockMode: %t", cfg.LogLevel, cfg.Environment, cfg.MockMode)

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	sessionRepo := idb.NewPostgresSessionRepository(db)
	recordingRepo := idb.NewPostgresRecordingRepository(db)
	assignmentRepo := idb.NewPostgresAssignmentRepository(db)
	paymentRepo := idb.NewPostgresPaymentRepository(db)
	leadRepo := idb.NewPostgresLeadRepository(db)
	log.Info("Repositories initialized.")

	var emailSender notify.EmailSender
	var whatsappSender notify.WhatsAppSender
	if cfg.MockMode {
		emailSender = app.NewMockEmailSender(log)
		whatsappSender = app.NewMockWhatsAppSender(log)
		log.Info("Mock senders initialized (MOCK_MODE enabled).")
	} else {
		emailSender = email.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFrom)
		whatsappSender = whatsapp.NewAiSensySender(cfg.AiSensyAPIKey, cfg.AiSensyCampaign)
		log.Info("SendGrid and AiSensy senders initialized.")
	}

	reminders := app.NewReminderService(
		sessionRepo, recordingRepo, assignmentRepo, paymentRepo, leadRepo,
		emailSender, whatsappSender, log,
	)
	log.Info("Reminder service initialized.")

	// Manual invocation surface: run the named job once, outside the
	// trigger mechanism, and exit.
	if *jobName != "" {
		if err := runManualJob(reminders, *jobName); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		return
	}

	jobScheduler := scheduler.NewJobScheduler(reminders, log, scheduler.JobSpecs{
		Session24h:   cfg.SpecSession24h,
		Session15min: cfg.SpecSession15min,
		Recordings:   cfg.SpecRecordings,
		Assignments:  cfg.SpecAssignments,
		Payments:     cfg.SpecPayments,
		Leads:        cfg.SpecLeads,
	})
	if err := jobScheduler.RegisterAllJobs(); err != nil {
		log.Fatalf("FATAL: Could not register scheduler jobs: %v", err)
	}
	jobScheduler.Start()
	log.Info("Application setup complete. Scheduler is running.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	jobScheduler.Stop()
	log.Info("Application shut down gracefully.")
}

func runManualJob(reminders app.ReminderService, name string) error {
	jobs := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{"session_24h", reminders.ProcessSession24hReminders},
		{"session_15min", reminders.ProcessSession15minReminders},
		{"recordings", reminders.ProcessRecordingNotifications},
		{"assignments", reminders.ProcessAssignmentReminders},
		{"payments", reminders.ProcessPaymentReminders},
		{"leads", reminders.ProcessLeadFollowUps},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	matched := false
	for _, job := range jobs {
		if name != "all" && name != job.name {
			continue
		}
		matched = true
		if err := job.run(ctx); err != nil {
			return fmt.Errorf("job %s failed: %w", job.name, err)
		}
	}
	if !matched {
		return fmt.Errorf("unknown job %q", name)
	}
	return nil
}
