// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"student_notification_bot/internal/domain/assignment"
	"student_notification_bot/internal/domain/lead"
	"student_notification_bot/internal/domain/notify"
	"student_notification_bot/internal/domain/payment"
	"student_notification_bot/internal/domain/recording"
	"student_notification_bot/internal/domain/session"

	"github.com/sirupsen/logrus"
)

// Job names, also used as cron job identifiers and CLI arguments.
const (
	JobSession24h   = "session_reminders_24h"
	JobSession15min = "session_reminders_15min"
	JobRecordings   = "recording_notifications"
	JobAssignments  = "assignment_reminders"
	JobPayments     = "payment_reminders"
	JobLeads        = "lead_follow_ups"
)

// Query windows. Each window is wider than its job's firing interval, so a
// record is observed by at least one firing even if a firing is skipped; the
// sent flag keeps overlapping observations from re-sending.
const (
	session24hWindowStart = 23 * time.Hour
	session24hWindowEnd   = 25 * time.Hour

	session15minWindowStart = 10 * time.Minute
	session15minWindowEnd   = 20 * time.Minute

	assignmentWindowStart = 24 * time.Hour
	assignmentWindowEnd   = 48 * time.Hour

	paymentFollowUpAge = 3 * 24 * time.Hour
	leadFollowUpAge    = 3 * 24 * time.Hour
)

// ReminderService defines the six reminder jobs. Each method performs one
// full firing: windowed query, per-record dispatch, flag update. A non-nil
// error means the batch query failed and nothing was sent; per-record
// failures are logged and swallowed.
type ReminderService interface {
	ProcessSession24hReminders(ctx context.Context) error
	ProcessSession15minReminders(ctx context.Context) error
	ProcessRecordingNotifications(ctx context.Context) error
	ProcessAssignmentReminders(ctx context.Context) error
	ProcessPaymentReminders(ctx context.Context) error
	ProcessLeadFollowUps(ctx context.Context) error
}

// ReminderServiceImpl implements ReminderService over the five record
// repositories and the two notification channels.
type ReminderServiceImpl struct {
	sessionRepo    session.Repository
	recordingRepo  recording.Repository
	assignmentRepo assignment.Repository
	paymentRepo    payment.Repository
	leadRepo       lead.Repository
	emailSender    notify.EmailSender
	whatsappSender notify.WhatsAppSender
	logger         *logrus.Logger
}

func NewReminderService(
	sessions session.Repository,
	recordings recording.Repository,
	assignments assignment.Repository,
	payments payment.Repository,
	leads lead.Repository,
	emailSender notify.EmailSender,
	whatsappSender notify.WhatsAppSender,
	logger *logrus.Logger,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		sessionRepo:    sessions,
		recordingRepo:  recordings,
		assignmentRepo: assignments,
		paymentRepo:    payments,
		leadRepo:       leads,
		emailSender:    emailSender,
		whatsappSender: whatsappSender,
		logger:         logger,
	}
}

// dispatchItem is one candidate record prepared for notification. A nil
// channel composer disables that channel for the job.
type dispatchItem struct {
	rowID      string
	recipients []notify.Recipient
	email      func(r notify.Recipient) (subject, htmlBody string)
	whatsapp   func(r notify.Recipient) (templateName string, params map[string]string)
	mark       func(ctx context.Context) error
}

// dispatch runs the shared per-record step for a batch: send to every
// reachable recipient on every enabled channel, then flip the record's sent
// flag. Send failures are logged with the row and channel and do not stop
// the recipient loop, the row, or the batch; the flag is set once all sends
// for the row have been attempted. A record with no reachable recipients is
// still marked, otherwise it would be re-fetched every firing.
func (s *ReminderServiceImpl) dispatch(ctx context.Context, jobName string, items []dispatchItem) int {
	for _, item := range items {
		for _, rcpt := range item.recipients {
			if item.email != nil && rcpt.Email != "" {
				subject, body := item.email(rcpt)
				if err := s.emailSender.Send(rcpt.Email, subject, body); err != nil {
					s.logger.WithError(err).WithFields(logrus.Fields{
						"job": jobName, "row_id": item.rowID, "channel": "email", "to": rcpt.Email,
					}).Error("Failed to send email notification")
				}
			}
			if item.whatsapp != nil && rcpt.Phone != "" {
				templateName, params := item.whatsapp(rcpt)
				if err := s.whatsappSender.Send(rcpt.Phone, templateName, params); err != nil {
					s.logger.WithError(err).WithFields(logrus.Fields{
						"job": jobName, "row_id": item.rowID, "channel": "whatsapp", "to": rcpt.Phone,
					}).Error("Failed to send WhatsApp notification")
				}
			}
		}

		if err := item.mark(ctx); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"job": jobName, "row_id": item.rowID,
			}).Error("Failed to mark record as notified")
		}
	}
	return len(items)
}

func (s *ReminderServiceImpl) ProcessSession24hReminders(ctx context.Context) error {
	return s.processSessionReminders(ctx, JobSession24h, session.Reminder24h, session24hWindowStart, session24hWindowEnd)
}

func (s *ReminderServiceImpl) ProcessSession15minReminders(ctx context.Context) error {
	return s.processSessionReminders(ctx, JobSession15min, session.Reminder15min, session15minWindowStart, session15minWindowEnd)
}

func (s *ReminderServiceImpl) processSessionReminders(ctx context.Context, jobName string, kind session.ReminderKind, windowStart, windowEnd time.Duration) error {
	now := time.Now().UTC()
	sessions, err := s.sessionRepo.ListDueForReminder(ctx, kind, now.Add(windowStart), now.Add(windowEnd))
	if err != nil {
		return fmt.Errorf("failed to list sessions due for %s reminder: %w", kind, err)
	}

	items := make([]dispatchItem, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, dispatchItem{
			rowID:      sess.ID,
			recipients: sess.Recipients,
			email: func(r notify.Recipient) (string, string) {
				return sessionReminderSubject(kind, sess.Title),
					sessionReminderEmailBody(r.Name, sess.Title, sess.ScheduledAt, sess.MeetingLink.String, kind)
			},
			whatsapp: func(r notify.Recipient) (string, map[string]string) {
				return templateSessionReminder,
					sessionReminderParams(r.Name, sess.Title, sess.ScheduledAt, sess.MeetingLink.String)
			},
			mark: func(ctx context.Context) error {
				return s.sessionRepo.MarkReminderSent(ctx, sess.ID, kind)
			},
		})
	}

	n := s.dispatch(ctx, jobName, items)
	s.logger.Infof("Processed %d %s session reminders", n, kind)
	return nil
}

func (s *ReminderServiceImpl) ProcessRecordingNotifications(ctx context.Context) error {
	recordings, err := s.recordingRepo.ListAwaitingNotification(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recordings awaiting notification: %w", err)
	}

	items := make([]dispatchItem, 0, len(recordings))
	for _, rec := range recordings {
		items = append(items, dispatchItem{
			rowID:      rec.ID,
			recipients: rec.Recipients,
			email: func(r notify.Recipient) (string, string) {
				return "Recording Available: " + rec.SessionTitle,
					recordingEmailBody(r.Name, rec.SessionTitle, rec.VideoURL.String)
			},
			mark: func(ctx context.Context) error {
				return s.recordingRepo.MarkNotificationSent(ctx, rec.ID)
			},
		})
	}

	n := s.dispatch(ctx, JobRecordings, items)
	s.logger.Infof("Processed %d recording notifications", n)
	return nil
}

func (s *ReminderServiceImpl) ProcessAssignmentReminders(ctx context.Context) error {
	now := time.Now().UTC()
	assignments, err := s.assignmentRepo.ListDueForReminder(ctx, now.Add(assignmentWindowStart), now.Add(assignmentWindowEnd))
	if err != nil {
		return fmt.Errorf("failed to list assignments due for reminder: %w", err)
	}

	items := make([]dispatchItem, 0, len(assignments))
	for _, asg := range assignments {
		items = append(items, dispatchItem{
			rowID:      asg.ID,
			recipients: []notify.Recipient{asg.Student},
			email: func(r notify.Recipient) (string, string) {
				return "Assignment Due Soon: " + asg.Title,
					assignmentReminderEmailBody(r.Name, asg.Title, asg.Deadline)
			},
			mark: func(ctx context.Context) error {
				return s.assignmentRepo.MarkReminderSent(ctx, asg.ID)
			},
		})
	}

	n := s.dispatch(ctx, JobAssignments, items)
	s.logger.Infof("Processed %d assignment reminders", n)
	return nil
}

func (s *ReminderServiceImpl) ProcessPaymentReminders(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-paymentFollowUpAge)
	payments, err := s.paymentRepo.ListPendingSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list pending payments: %w", err)
	}

	items := make([]dispatchItem, 0, len(payments))
	for _, pm := range payments {
		items = append(items, dispatchItem{
			rowID:      pm.ID,
			recipients: []notify.Recipient{pm.Student},
			email: func(r notify.Recipient) (string, string) {
				return "Payment Reminder",
					paymentReminderEmailBody(r.Name, pm.Amount, pm.PaymentLink.String)
			},
			whatsapp: func(r notify.Recipient) (string, map[string]string) {
				return templatePaymentReminder,
					paymentReminderParams(r.Name, pm.Amount, pm.PaymentLink.String)
			},
			mark: func(ctx context.Context) error {
				return s.paymentRepo.MarkReminderSent(ctx, pm.ID)
			},
		})
	}

	n := s.dispatch(ctx, JobPayments, items)
	s.logger.Infof("Processed %d payment reminders", n)
	return nil
}

func (s *ReminderServiceImpl) ProcessLeadFollowUps(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-leadFollowUpAge)
	leads, err := s.leadRepo.ListStaleNew(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale new leads: %w", err)
	}

	items := make([]dispatchItem, 0, len(leads))
	for _, ld := range leads {
		items = append(items, dispatchItem{
			rowID:      ld.ID,
			recipients: []notify.Recipient{{Name: ld.Name, Email: ld.Email.String}},
			email: func(r notify.Recipient) (string, string) {
				return "Following up on your interest", leadFollowUpEmailBody(r.Name)
			},
			mark: func(ctx context.Context) error {
				return s.leadRepo.MarkFollowUpSent(ctx, ld.ID)
			},
		})
	}

	n := s.dispatch(ctx, JobLeads, items)
	s.logger.Infof("Processed %d lead follow-ups", n)
	return nil
}
