package app

import (
	"fmt"
	"time"

	"student_notification_bot/internal/domain/session"
)

// WhatsApp template names registered with the campaign provider.
const (
	templateSessionReminder = "session_reminder"
	templatePaymentReminder = "payment_reminder"
)

func formatTime(t time.Time) string {
	return t.UTC().Format("Mon, 2 Jan 2006 15:04 MST")
}

func sessionReminderSubject(kind session.ReminderKind, title string) string {
	if kind == session.Reminder24h {
		return "Starts Tomorrow: " + title
	}
	return "Starting Soon: " + title
}

func sessionReminderEmailBody(name, title string, scheduledAt time.Time, meetingLink string, kind session.ReminderKind) string {
	timeText := "tomorrow"
	if kind == session.Reminder15min {
		timeText = "in 15 minutes"
	}

	linkBlock := "<p>Meeting link will be shared shortly.</p>"
	if meetingLink != "" {
		linkBlock = fmt.Sprintf(`<p><strong>Join Meeting:</strong><br><a href="%s" style="background: #3b82f6; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 10px;">Join Now</a></p>`, meetingLink)
	}

	return fmt.Sprintf(`<html>
<body>
    <h2>Hi %s,</h2>
    <p>Your session <strong>"%s"</strong> starts %s!</p>
    <p><strong>Scheduled Time:</strong> %s</p>
    %s
    <p>See you there!</p>
    <p style="color: #666; font-size: 12px; margin-top: 30px;">
        If you have any questions, please contact support.
    </p>
</body>
</html>`, name, title, timeText, formatTime(scheduledAt), linkBlock)
}

func sessionReminderParams(name, title string, scheduledAt time.Time, meetingLink string) map[string]string {
	if meetingLink == "" {
		meetingLink = "Will be shared soon"
	}
	return map[string]string{
		"student_name":  name,
		"session_title": title,
		"time":          formatTime(scheduledAt),
		"meeting_link":  meetingLink,
	}
}

func recordingEmailBody(name, sessionTitle, videoURL string) string {
	return fmt.Sprintf(`<html>
<body>
    <h2>Hi %s,</h2>
    <p>The recording for <strong>"%s"</strong> is now available!</p>
    <p><a href="%s" style="background: #10b981; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 10px;">Watch Recording</a></p>
    <p>You can access all your recordings from your student dashboard.</p>
</body>
</html>`, name, sessionTitle, videoURL)
}

func assignmentReminderEmailBody(name, title string, deadline time.Time) string {
	return fmt.Sprintf(`<html>
<body>
    <h2>Hi %s,</h2>
    <p>Reminder: Your assignment <strong>"%s"</strong> is due soon!</p>
    <p><strong>Deadline:</strong> %s</p>
    <p>Please submit your work before the deadline to avoid late penalties.</p>
    <p><a href="http://your-app.com/student/assignments" style="background: #f59e0b; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 10px;">Submit Assignment</a></p>
</body>
</html>`, name, title, formatTime(deadline))
}

func paymentReminderEmailBody(name string, amount float64, paymentLink string) string {
	linkBlock := ""
	if paymentLink != "" {
		linkBlock = fmt.Sprintf(`<p><a href="%s" style="background: #10b981; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 10px;">Complete Payment</a></p>`, paymentLink)
	}

	return fmt.Sprintf(`<html>
<body>
    <h2>Hi %s,</h2>
    <p>This is a friendly reminder about your pending payment.</p>
    <p><strong>Amount:</strong> ₹%.2f</p>
    %s
    <p>If you've already paid, please ignore this message.</p>
</body>
</html>`, name, amount, linkBlock)
}

func paymentReminderParams(name string, amount float64, paymentLink string) map[string]string {
	if paymentLink == "" {
		paymentLink = "Contact admin for payment link"
	}
	return map[string]string{
		"student_name": name,
		"amount":       fmt.Sprintf("%.2f", amount),
		"payment_link": paymentLink,
	}
}

func leadFollowUpEmailBody(name string) string {
	return fmt.Sprintf(`<html>
<body>
    <h2>Hi %s,</h2>
    <p>We noticed you showed interest in our courses. Would you like to learn more?</p>
    <p>Reply to this email or schedule a call with us to discuss how we can help you achieve your goals.</p>
    <p><a href="http://your-app.com/cta" style="background: #3b82f6; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 10px;">Explore Courses</a></p>
</body>
</html>`, name)
}
