package services

import (
	"fmt"
	"html/template"
	"strings"

	"procurify-api/models"
)

const fallbackProjectTitle = "the project"

type statusMessage struct {
	Title string
	Body  string
	Type  models.NotificationType
}

// buildStatusMessage returns the vendor-facing message for a submission that
// moved to status. The title is quoted as entered; an empty procurementTitle
// falls back to a generic phrase.
func buildStatusMessage(status models.SubmissionStatus, procurementTitle string) statusMessage {
	title := strings.TrimSpace(procurementTitle)
	if title == "" {
		title = fallbackProjectTitle
	}

	switch status {
	case models.SubmissionStatusRejected:
		return statusMessage{
			Title: "Application Status: Not Selected",
			Body: fmt.Sprintf("Following a comprehensive review of the current procurement cycle, "+
				"we regret to inform you that your proposal for \"%s\" has not been selected at this time.", title),
			Type: models.NotificationTypeWarning,
		}
	case models.SubmissionStatusPending:
		return statusMessage{
			Title: "Status Update: PENDING",
			Body:  fmt.Sprintf("Your application for \"%s\" has been returned to review.", title),
			Type:  models.NotificationTypeInfo,
		}
	default:
		return statusMessage{
			Title: fmt.Sprintf("Status Update: %s", status),
			Body:  fmt.Sprintf("Your application review for \"%s\" is complete.", title),
			Type:  models.NotificationTypeSuccess,
		}
	}
}

func buildNotificationEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "Vendor"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
