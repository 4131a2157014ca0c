package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"student_notification_bot/internal/app"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// JobSpecs holds one trigger spec per job: standard 5-field cron expressions
// or @every descriptors, evaluated in UTC.
type JobSpecs struct {
	Session24h   string
	Session15min string
	Recordings   string
	Assignments  string
	Payments     string
	Leads        string
}

type registeredJob struct {
	name    string
	spec    string
	entryID cron.EntryID
}

// JobScheduler owns the cron engine and the fixed set of reminder jobs.
// SkipIfStillRunning in the chain drops a fire while the previous run of the
// same job is still executing; fires missed while the process is down are
// never replayed. Jobs with different ids run concurrently.
type JobScheduler struct {
	cronEngine *cron.Cron
	reminders  app.ReminderService
	logger     *logrus.Logger
	specs      JobSpecs

	mu      sync.Mutex
	started bool
	jobs    []registeredJob
}

func NewJobScheduler(reminders app.ReminderService, logger *logrus.Logger, specs JobSpecs) *JobScheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &JobScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		reminders: reminders,
		logger:    logger,
		specs:     specs,
	}
}

// RegisterAllJobs declares the six jobs with their triggers. Call once
// before Start.
func (s *JobScheduler) RegisterAllJobs() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defs := []struct {
		name    string
		spec    string
		timeout time.Duration
		run     func(ctx context.Context) error
	}{
		{app.JobSession24h, s.specs.Session24h, 2 * time.Minute, s.reminders.ProcessSession24hReminders},
		{app.JobSession15min, s.specs.Session15min, 2 * time.Minute, s.reminders.ProcessSession15minReminders},
		{app.JobRecordings, s.specs.Recordings, 5 * time.Minute, s.reminders.ProcessRecordingNotifications},
		{app.JobAssignments, s.specs.Assignments, 5 * time.Minute, s.reminders.ProcessAssignmentReminders},
		{app.JobPayments, s.specs.Payments, 10 * time.Minute, s.reminders.ProcessPaymentReminders},
		{app.JobLeads, s.specs.Leads, 10 * time.Minute, s.reminders.ProcessLeadFollowUps},
	}

	for _, def := range defs {
		entryID, err := s.cronEngine.AddFunc(def.spec, func() {
			s.runJob(def.name, def.timeout, def.run)
		})
		if err != nil {
			return fmt.Errorf("failed to register job %s with spec %q: %w", def.name, def.spec, err)
		}
		s.jobs = append(s.jobs, registeredJob{name: def.name, spec: def.spec, entryID: entryID})
	}
	return nil
}

// runJob is one firing: log, run with a deadline, log the outcome. Job
// errors never propagate past here.
func (s *JobScheduler) runJob(name string, timeout time.Duration, run func(ctx context.Context) error) {
	log := s.logger.WithFields(logrus.Fields{"job": name, "run_id": uuid.NewString()})
	log.Info("Job firing")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := run(ctx); err != nil {
		log.WithError(err).Error("Job failed")
		return
	}
	log.WithField("duration", time.Since(start).Round(time.Millisecond).String()).Info("Job completed")
}

// Start begins executing registered jobs on their triggers. Calling Start
// while already running is a no-op.
func (s *JobScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.cronEngine.Start()
	s.started = true
	s.logScheduledJobs()
}

func (s *JobScheduler) logScheduledJobs() {
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobs))
	for _, j := range s.jobs {
		entry := s.cronEngine.Entry(j.entryID)
		s.logger.Infof("  - %s (%s), next run: %s", j.name, j.spec, entry.Next.Format(time.RFC3339))
	}
}

// Stop halts future firings and blocks until in-flight jobs drain. Safe to
// call during process exit and when the scheduler never started.
func (s *JobScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.logger.Info("Stopping scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.started = false
	s.logger.Info("Scheduler gracefully stopped")
}
