package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"AuraLink/internal/modules/support/domain/action"
)

const emailShellTpl = `
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;">
        <h2 style="color: #195de6;">{{.Title}}</h2>

        <p>Dear Customer,</p>

        <p>{{.Lead}}</p>

        <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
            {{range .Details}}<p><strong>{{.Key}}:</strong> {{.Value}}</p>
            {{end}}
        </div>

        <h3 style="color: #195de6;">{{.ListTitle}}</h3>
        <ul>
            {{range .ListItems}}<li>{{.}}</li>
            {{end}}
        </ul>

        <p>If you have any questions, please contact our support team with your {{.IDLabel}}.</p>

        <p style="margin-top: 30px;">
            Best regards,<br>
            <strong>AURA Support Team</strong>
        </p>

        <hr style="margin-top: 30px; border: none; border-top: 1px solid #ddd;">
        <p style="font-size: 12px; color: #777;">
            This is an automated message. Please do not reply to this email.
        </p>
    </div>
</body>
</html>
`

var emailShell = template.Must(template.New("email").Parse(emailShellTpl))

type detail struct {
	Key   string
	Value string
}

type emailData struct {
	Title     string
	Lead      string
	Details   []detail
	ListTitle string
	ListItems []string
	IDLabel   string
}

func valueOrNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// RenderEmail 按动作类型渲染确认邮件的主题与正文
func RenderEmail(data *action.NotifyData) (subject, body string, err error) {
	now := time.Now().Format("January 2, 2006")

	var d emailData
	switch data.ActionType {
	case action.InitiateRefund:
		subject = fmt.Sprintf("Refund Request Confirmed - %s", data.ActionID)
		d = emailData{
			Title: "Refund Request Confirmed",
			Lead:  "Your refund request has been successfully initiated. Here are the details:",
			Details: []detail{
				{"Request ID", data.ActionID},
				{"Product", valueOrNA(data.ProductName)},
				{"Date", now},
				{"Status", "Processing"},
			},
			ListTitle: "Next Steps:",
			ListItems: []string{
				"Your refund request is being reviewed by our team",
				"You will receive an update within 3-5 business days",
				"The refund will be processed to your original payment method",
			},
			IDLabel: "request ID",
		}

	case action.InitiateReplacement:
		subject = fmt.Sprintf("Replacement Request Confirmed - %s", data.ActionID)
		d = emailData{
			Title: "Replacement Request Confirmed",
			Lead:  "Your replacement request has been successfully initiated. Here are the details:",
			Details: []detail{
				{"Request ID", data.ActionID},
				{"Product", valueOrNA(data.ProductName)},
				{"Date", now},
				{"Status", "Processing"},
			},
			ListTitle: "Next Steps:",
			ListItems: []string{
				"Your replacement request is being processed",
				"Our team will contact you within 2-3 business days",
				"Product pickup will be scheduled at your convenience",
				"Replacement unit will be dispatched after verification",
			},
			IDLabel: "request ID",
		}

	case action.BookService:
		subject = fmt.Sprintf("Service Booking Confirmed - %s", data.ActionID)
		d = emailData{
			Title: "Service Appointment Confirmed",
			Lead:  "Your service appointment has been successfully booked. Here are the details:",
			Details: []detail{
				{"Booking ID", data.ActionID},
				{"Product", valueOrNA(data.ProductName)},
				{"Service Center", valueOrNA(data.ServiceCenter)},
				{"Scheduled Date", valueOrNA(data.ScheduledDate)},
				{"Time Slot", valueOrNA(data.TimeSlot)},
			},
			ListTitle: "Important Information:",
			ListItems: []string{
				"Please arrive 10 minutes before your scheduled time",
				"Bring your product and proof of purchase",
				"Have your booking ID ready at the service center",
				"If you need to reschedule, contact us at least 24 hours in advance",
			},
			IDLabel: "booking ID",
		}

	default:
		return "", "", fmt.Errorf("no email template for action type %q", data.ActionType)
	}

	var buf bytes.Buffer
	if err := emailShell.Execute(&buf, d); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
