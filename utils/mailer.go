package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"taskhive/config"
)

type InviteEmailData struct {
	Subject     string
	ListName    string
	InviterName string
	Role        string
	Year        int
}

// Embedded email templates
var emailTemplates = map[string]string{
	"list_invite": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .list-name { font-size: 20px; font-weight: bold; color: #3498db; margin: 20px 0; text-align: center; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>You've been added to a list</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.InviterName}} added you as a <strong>{{.Role}}</strong> on the shared to-do list:</p>

        <div class="list-name">{{.ListName}}</div>

        <p>Sign in to see the list and its tasks.</p>
    </div>

    <div class="footer">
        <p>If you weren't expecting this, you can safely ignore this email.</p>
        <p>© {{.Year}} Taskhive. All rights reserved.</p>
    </div>
</body>
</html>`,
}

// SendListInviteEmail notifies a newly added participant. Delivery is best
// effort: callers log failures but never fail the participant-add on a mail
// error. A blank SMTP host disables sending entirely.
func SendListInviteEmail(to, listName, inviterName, role string) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		return nil
	}

	data := InviteEmailData{
		Subject:     fmt.Sprintf("You've been added to %q", listName),
		ListName:    listName,
		InviterName: inviterName,
		Role:        role,
		Year:        time.Now().Year(),
	}

	tmpl, err := template.New("email").Parse(emailTemplates["list_invite"])
	if err != nil {
		return fmt.Errorf("error parsing template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("error executing template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", cfg.FromEmail, cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", data.Subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
