package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"
	"time"

	"student_notification_bot/internal/domain/assignment"
	"student_notification_bot/internal/domain/lead"
	"student_notification_bot/internal/domain/notify"
	"student_notification_bot/internal/domain/payment"
	"student_notification_bot/internal/domain/recording"
	"student_notification_bot/internal/domain/session"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type emailSend struct {
	To      string
	Subject string
	Body    string
}

type fakeEmailSender struct {
	sends   []emailSend
	failFor map[string]error // keyed by recipient address
}

func (f *fakeEmailSender) Send(to, subject, body string) error {
	f.sends = append(f.sends, emailSend{To: to, Subject: subject, Body: body})
	if err, ok := f.failFor[to]; ok {
		return err
	}
	return nil
}

type whatsappSend struct {
	To       string
	Template string
	Params   map[string]string
}

type fakeWhatsAppSender struct {
	sends   []whatsappSend
	failFor map[string]error
}

func (f *fakeWhatsAppSender) Send(to, template string, params map[string]string) error {
	f.sends = append(f.sends, whatsappSend{To: to, Template: template, Params: params})
	if err, ok := f.failFor[to]; ok {
		return err
	}
	return nil
}

// The fake repositories apply the same window and flag predicates a real
// store would, so re-running a job against unchanged state exercises the
// idempotency path for real.

type fakeSessionRepo struct {
	sessions []*session.Session
	listErr  error
	markErr  error
}

func (f *fakeSessionRepo) ListDueForReminder(_ context.Context, kind session.ReminderKind, from, to time.Time) ([]*session.Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*session.Session
	for _, s := range f.sessions {
		sent := s.Reminder24hSent
		if kind == session.Reminder15min {
			sent = s.Reminder15minSent
		}
		if sent || s.ScheduledAt.Before(from) || s.ScheduledAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSessionRepo) MarkReminderSent(_ context.Context, id string, kind session.ReminderKind) error {
	if f.markErr != nil {
		return f.markErr
	}
	for _, s := range f.sessions {
		if s.ID != id {
			continue
		}
		if kind == session.Reminder15min {
			s.Reminder15minSent = true
		} else {
			s.Reminder24hSent = true
		}
		return nil
	}
	return fmt.Errorf("session not found")
}

type fakeRecordingRepo struct {
	recordings []*recording.Recording
}

func (f *fakeRecordingRepo) ListAwaitingNotification(context.Context) ([]*recording.Recording, error) {
	var out []*recording.Recording
	for _, r := range f.recordings {
		if r.VisibleToStudents && !r.NotificationSent {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordingRepo) MarkNotificationSent(_ context.Context, id string) error {
	for _, r := range f.recordings {
		if r.ID == id {
			r.NotificationSent = true
			return nil
		}
	}
	return fmt.Errorf("recording not found")
}

type fakeAssignmentRepo struct {
	assignments []*assignment.Assignment
}

func (f *fakeAssignmentRepo) ListDueForReminder(_ context.Context, from, to time.Time) ([]*assignment.Assignment, error) {
	var out []*assignment.Assignment
	for _, a := range f.assignments {
		if a.ReminderSent || a.SubmittedAt.Valid || a.Deadline.Before(from) || a.Deadline.After(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) MarkReminderSent(_ context.Context, id string) error {
	for _, a := range f.assignments {
		if a.ID == id {
			a.ReminderSent = true
			return nil
		}
	}
	return fmt.Errorf("assignment not found")
}

type fakePaymentRepo struct {
	payments []*payment.Payment
}

func (f *fakePaymentRepo) ListPendingSince(_ context.Context, cutoff time.Time) ([]*payment.Payment, error) {
	var out []*payment.Payment
	for _, p := range f.payments {
		if p.ReminderSent || p.Status != payment.StatusPending || p.CreatedAt.After(cutoff) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePaymentRepo) MarkReminderSent(_ context.Context, id string) error {
	for _, p := range f.payments {
		if p.ID == id {
			p.ReminderSent = true
			return nil
		}
	}
	return fmt.Errorf("payment not found")
}

type fakeLeadRepo struct {
	leads []*lead.Lead
}

func (f *fakeLeadRepo) ListStaleNew(_ context.Context, cutoff time.Time) ([]*lead.Lead, error) {
	var out []*lead.Lead
	for _, l := range f.leads {
		if l.FollowUpSent || l.Status != lead.StatusNew || l.CreatedAt.After(cutoff) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLeadRepo) MarkFollowUpSent(_ context.Context, id string) error {
	for _, l := range f.leads {
		if l.ID == id {
			l.FollowUpSent = true
			return nil
		}
	}
	return fmt.Errorf("lead not found")
}

// --- harness ---

type fixture struct {
	sessions    *fakeSessionRepo
	recordings  *fakeRecordingRepo
	assignments *fakeAssignmentRepo
	payments    *fakePaymentRepo
	leads       *fakeLeadRepo
	email       *fakeEmailSender
	whatsapp    *fakeWhatsAppSender
	svc         *ReminderServiceImpl
}

func newFixture() *fixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		sessions:    &fakeSessionRepo{},
		recordings:  &fakeRecordingRepo{},
		assignments: &fakeAssignmentRepo{},
		payments:    &fakePaymentRepo{},
		leads:       &fakeLeadRepo{},
		email:       &fakeEmailSender{failFor: map[string]error{}},
		whatsapp:    &fakeWhatsAppSender{failFor: map[string]error{}},
	}
	f.svc = NewReminderService(
		f.sessions, f.recordings, f.assignments, f.payments, f.leads,
		f.email, f.whatsapp, log,
	)
	return f
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// --- session reminders ---

func TestSession24hReminder_SendsBothChannelsAndMarks(t *testing.T) {
	f := newFixture()
	f.sessions.sessions = []*session.Session{{
		ID:          "s1",
		Title:       "Algebra Basics",
		ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
		MeetingLink: nullString("https://zoom.example/j/1"),
		Recipients: []notify.Recipient{
			{Name: "Asha", Email: "a@x.com", Phone: "+15551234567"},
		},
	}}

	require.NoError(t, f.svc.ProcessSession24hReminders(context.Background()))

	require.Len(t, f.email.sends, 1)
	assert.Equal(t, "a@x.com", f.email.sends[0].To)
	assert.Equal(t, "Starts Tomorrow: Algebra Basics", f.email.sends[0].Subject)
	assert.Contains(t, f.email.sends[0].Body, "https://zoom.example/j/1")

	require.Len(t, f.whatsapp.sends, 1)
	assert.Equal(t, "+15551234567", f.whatsapp.sends[0].To)
	assert.Equal(t, "session_reminder", f.whatsapp.sends[0].Template)
	assert.Equal(t, "Algebra Basics", f.whatsapp.sends[0].Params["session_title"])

	assert.True(t, f.sessions.sessions[0].Reminder24hSent)
	assert.False(t, f.sessions.sessions[0].Reminder15minSent, "15min flag must be untouched")
}

func TestSession24hReminder_SecondRunSendsNothing(t *testing.T) {
	f := newFixture()
	f.sessions.sessions = []*session.Session{{
		ID:          "s1",
		Title:       "Algebra Basics",
		ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
		Recipients:  []notify.Recipient{{Name: "Asha", Email: "a@x.com"}},
	}}

	require.NoError(t, f.svc.ProcessSession24hReminders(context.Background()))
	require.NoError(t, f.svc.ProcessSession24hReminders(context.Background()))

	assert.Len(t, f.email.sends, 1, "flagged session must not be re-sent")
	assert.Empty(t, f.whatsapp.sends)
}

func TestSessionReminder_OutsideWindowNotSelected(t *testing.T) {
	f := newFixture()
	f.sessions.sessions = []*session.Session{
		{ID: "far", Title: "Too Far", ScheduledAt: time.Now().UTC().Add(30 * time.Hour),
			Recipients: []notify.Recipient{{Name: "A", Email: "far@x.com"}}},
		{ID: "past", Title: "Too Close", ScheduledAt: time.Now().UTC().Add(1 * time.Hour),
			Recipients: []notify.Recipient{{Name: "B", Email: "close@x.com"}}},
	}

	require.NoError(t, f.svc.ProcessSession24hReminders(context.Background()))

	assert.Empty(t, f.email.sends)
	assert.False(t, f.sessions.sessions[0].Reminder24hSent)
	assert.False(t, f.sessions.sessions[1].Reminder24hSent)
}

func TestSession15minReminder_UsesOwnFlagAndCopy(t *testing.T) {
	f := newFixture()
	f.sessions.sessions = []*session.Session{{
		ID:          "s1",
		Title:       "Live Q&A",
		ScheduledAt: time.Now().UTC().Add(15 * time.Minute),
		Recipients:  []notify.Recipient{{Name: "Asha", Email: "a@x.com"}},
	}}

	require.NoError(t, f.svc.ProcessSession15minReminders(context.Background()))

	require.Len(t, f.email.sends, 1)
	assert.Equal(t, "Starting Soon: Live Q&A", f.email.sends[0].Subject)
	assert.Contains(t, f.email.sends[0].Body, "in 15 minutes")
	assert.True(t, f.sessions.sessions[0].Reminder15minSent)
	assert.False(t, f.sessions.sessions[0].Reminder24hSent)
}

func TestSessionReminder_PartialSendFailureStillMarksBothRows(t *testing.T) {
	f := newFixture()
	f.email.failFor["a@x.com"] = fmt.Errorf("smtp rejected")
	f.sessions.sessions = []*session.Session{
		{ID: "s1", Title: "One", ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
			Recipients: []notify.Recipient{{Name: "A", Email: "a@x.com"}}},
		{ID: "s2", Title: "Two", ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
			Recipients: []notify.Recipient{{Name: "B", Email: "b@x.com"}}},
	}

	require.NoError(t, f.svc.ProcessSession24hReminders(context.Background()))

	assert.Len(t, f.email.sends, 2, "failure for one recipient must not block the other")
	assert.True(t, f.sessions.sessions[0].Reminder24hSent, "attempted row is still marked")
	assert.True(t, f.sessions.sessions[1].Reminder24hSent)
}

func TestSessionReminder_NoRecipientsStillMarked(t *testing.T) {
	f := newFixture()
	f.sessions.sessions = []*session.Session{{
		ID:          "s1",
		Title:       "Orphan",
		ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
	}}

	require.NoError(t, f.svc.ProcessSession24hReminders(context.Background()))

	assert.Empty(t, f.email.sends)
	assert.Empty(t, f.whatsapp.sends)
	assert.True(t, f.sessions.sessions[0].Reminder24hSent)
}

func TestSessionReminder_QueryFailureReturnsErrorAndSendsNothing(t *testing.T) {
	f := newFixture()
	f.sessions.listErr = fmt.Errorf("store unreachable")

	err := f.svc.ProcessSession24hReminders(context.Background())

	require.Error(t, err)
	assert.Empty(t, f.email.sends)
	assert.Empty(t, f.whatsapp.sends)
}

func TestSessionReminder_MarkFailureDoesNotAbortBatch(t *testing.T) {
	f := newFixture()
	f.sessions.markErr = fmt.Errorf("update failed")
	f.sessions.sessions = []*session.Session{
		{ID: "s1", Title: "One", ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
			Recipients: []notify.Recipient{{Name: "A", Email: "a@x.com"}}},
		{ID: "s2", Title: "Two", ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
			Recipients: []notify.Recipient{{Name: "B", Email: "b@x.com"}}},
	}

	require.NoError(t, f.svc.ProcessSession24hReminders(context.Background()))

	assert.Len(t, f.email.sends, 2)
}

func TestSessionReminder_RecipientMissingPhoneSkipsWhatsAppOnly(t *testing.T) {
	f := newFixture()
	f.sessions.sessions = []*session.Session{{
		ID:          "s1",
		Title:       "Algebra",
		ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
		Recipients: []notify.Recipient{
			{Name: "A", Email: "a@x.com"},
			{Name: "B", Phone: "+15550000001"},
		},
	}}

	require.NoError(t, f.svc.ProcessSession24hReminders(context.Background()))

	require.Len(t, f.email.sends, 1)
	require.Len(t, f.whatsapp.sends, 1)
	assert.Equal(t, "a@x.com", f.email.sends[0].To)
	assert.Equal(t, "+15550000001", f.whatsapp.sends[0].To)
}

// --- recordings ---

func TestRecordingNotification_EmailOnlyForReachableRecipients(t *testing.T) {
	f := newFixture()
	f.recordings.recordings = []*recording.Recording{{
		ID:                "rc1",
		SessionID:         "s1",
		SessionTitle:      "Algebra Basics",
		VideoURL:          nullString("https://cdn.example/rec1.mp4"),
		VisibleToStudents: true,
		Recipients: []notify.Recipient{
			{Name: "A", Email: "a@x.com", Phone: "+15551234567"},
			{Name: "B", Phone: "+15550000001"}, // no email
		},
	}}

	require.NoError(t, f.svc.ProcessRecordingNotifications(context.Background()))

	require.Len(t, f.email.sends, 1)
	assert.Equal(t, "Recording Available: Algebra Basics", f.email.sends[0].Subject)
	assert.Contains(t, f.email.sends[0].Body, "https://cdn.example/rec1.mp4")
	assert.Empty(t, f.whatsapp.sends, "recording notifications are email only")
	assert.True(t, f.recordings.recordings[0].NotificationSent)
}

func TestRecordingNotification_HiddenRecordingNotSelected(t *testing.T) {
	f := newFixture()
	f.recordings.recordings = []*recording.Recording{{
		ID:                "rc1",
		VisibleToStudents: false,
		Recipients:        []notify.Recipient{{Name: "A", Email: "a@x.com"}},
	}}

	require.NoError(t, f.svc.ProcessRecordingNotifications(context.Background()))

	assert.Empty(t, f.email.sends)
	assert.False(t, f.recordings.recordings[0].NotificationSent)
}

// --- assignments ---

func TestAssignmentReminder_SendsOnceInsideWindow(t *testing.T) {
	f := newFixture()
	f.assignments.assignments = []*assignment.Assignment{{
		ID:       "a1",
		Title:    "Essay 3",
		Deadline: time.Now().UTC().Add(30 * time.Hour),
		Student:  notify.Recipient{Name: "Asha", Email: "a@x.com"},
	}}

	require.NoError(t, f.svc.ProcessAssignmentReminders(context.Background()))
	require.NoError(t, f.svc.ProcessAssignmentReminders(context.Background()))

	require.Len(t, f.email.sends, 1)
	assert.Equal(t, "Assignment Due Soon: Essay 3", f.email.sends[0].Subject)
	assert.True(t, f.assignments.assignments[0].ReminderSent)
}

func TestAssignmentReminder_SubmittedAssignmentSkipped(t *testing.T) {
	f := newFixture()
	f.assignments.assignments = []*assignment.Assignment{{
		ID:          "a1",
		Title:       "Essay 3",
		Deadline:    time.Now().UTC().Add(30 * time.Hour),
		SubmittedAt: sql.NullTime{Time: time.Now(), Valid: true},
		Student:     notify.Recipient{Name: "Asha", Email: "a@x.com"},
	}}

	require.NoError(t, f.svc.ProcessAssignmentReminders(context.Background()))

	assert.Empty(t, f.email.sends)
	assert.False(t, f.assignments.assignments[0].ReminderSent)
}

// --- payments ---

func TestPaymentReminder_SendsBothChannels(t *testing.T) {
	f := newFixture()
	f.payments.payments = []*payment.Payment{{
		ID:          "p1",
		Amount:      4999,
		PaymentLink: nullString("https://pay.example/abc"),
		Status:      payment.StatusPending,
		CreatedAt:   time.Now().UTC().Add(-4 * 24 * time.Hour),
		Student:     notify.Recipient{Name: "Asha", Email: "a@x.com", Phone: "+15551234567"},
	}}

	require.NoError(t, f.svc.ProcessPaymentReminders(context.Background()))

	require.Len(t, f.email.sends, 1)
	assert.Equal(t, "Payment Reminder", f.email.sends[0].Subject)
	assert.Contains(t, f.email.sends[0].Body, "https://pay.example/abc")

	require.Len(t, f.whatsapp.sends, 1)
	assert.Equal(t, "payment_reminder", f.whatsapp.sends[0].Template)
	assert.Equal(t, "4999.00", f.whatsapp.sends[0].Params["amount"])

	assert.True(t, f.payments.payments[0].ReminderSent)
}

func TestPaymentReminder_RecentPaymentNotSelected(t *testing.T) {
	f := newFixture()
	f.payments.payments = []*payment.Payment{{
		ID:        "p1",
		Status:    payment.StatusPending,
		CreatedAt: time.Now().UTC().Add(-24 * time.Hour),
		Student:   notify.Recipient{Name: "Asha", Email: "a@x.com"},
	}}

	require.NoError(t, f.svc.ProcessPaymentReminders(context.Background()))

	assert.Empty(t, f.email.sends)
	assert.False(t, f.payments.payments[0].ReminderSent)
}

// --- leads ---

func TestLeadFollowUp_SendsForStaleLead(t *testing.T) {
	f := newFixture()
	f.leads.leads = []*lead.Lead{{
		ID:        "l1",
		Name:      "Ravi",
		Email:     nullString("ravi@x.com"),
		Status:    lead.StatusNew,
		CreatedAt: time.Now().UTC().Add(-4 * 24 * time.Hour),
	}}

	require.NoError(t, f.svc.ProcessLeadFollowUps(context.Background()))

	require.Len(t, f.email.sends, 1)
	assert.Equal(t, "Following up on your interest", f.email.sends[0].Subject)
	assert.Contains(t, f.email.sends[0].Body, "Ravi")
	assert.True(t, f.leads.leads[0].FollowUpSent)
}

func TestLeadFollowUp_LeadYoungerThanThresholdNotSelected(t *testing.T) {
	f := newFixture()
	f.leads.leads = []*lead.Lead{{
		ID:        "l1",
		Name:      "Ravi",
		Email:     nullString("ravi@x.com"),
		Status:    lead.StatusNew,
		CreatedAt: time.Now().UTC().Add(-2 * 24 * time.Hour),
	}}

	require.NoError(t, f.svc.ProcessLeadFollowUps(context.Background()))

	assert.Empty(t, f.email.sends)
	assert.False(t, f.leads.leads[0].FollowUpSent)
}

func TestLeadFollowUp_LeadWithoutEmailStillMarked(t *testing.T) {
	f := newFixture()
	f.leads.leads = []*lead.Lead{{
		ID:        "l1",
		Name:      "Ravi",
		Status:    lead.StatusNew,
		CreatedAt: time.Now().UTC().Add(-4 * 24 * time.Hour),
	}}

	require.NoError(t, f.svc.ProcessLeadFollowUps(context.Background()))

	assert.Empty(t, f.email.sends)
	assert.True(t, f.leads.leads[0].FollowUpSent)
}
