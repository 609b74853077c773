package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/wneessen/go-mail"

	"liyu1981.xyz/poultry-house-service/pkg/models"
)

const emailSubjectPrefix = "🔔 "

type severityStyle struct {
	Color string
	Icon  string
	Label string
}

func styleOf(severity models.Severity) severityStyle {
	switch severity {
	case models.SeverityCritical:
		return severityStyle{"#e74c3c", "⚠️", "CRITIQUE"}
	case models.SeverityWarning:
		return severityStyle{"#f39c12", "⚡", "AVERTISSEMENT"}
	case models.SeverityInfo:
		return severityStyle{"#3498db", "ℹ️", "INFORMATION"}
	case models.SeveritySuccess:
		return severityStyle{"#06d6a0", "✅", "SUCCÈS"}
	default:
		return severityStyle{"#6c757d", "🔔", "NOTIFICATION"}
	}
}

var emailTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; background: #f4f4f4; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background: {{.Style.Color}}; color: #ffffff; padding: 20px; text-align: center;">
      <h1 style="margin: 0;">🐔 {{.Brand}}</h1>
      <p style="margin: 5px 0 0 0;">Système de surveillance de poulailler</p>
    </div>
    <div style="padding: 20px;">
      <span style="display: inline-block; background: {{.Style.Color}}; color: #ffffff; padding: 4px 12px; border-radius: 12px;">{{.Style.Icon}} {{.Style.Label}}</span>
      <h2>{{.Req.Title}}</h2>
      <p>{{.Req.Message}}</p>
      {{- if .Req.DeviceName}}
      <p><strong>Dispositif:</strong> {{.Req.DeviceName}}</p>
      {{- end}}
      {{- if .Trigger}}
      <p><strong>Valeur mesurée:</strong> {{.Trigger}}</p>
      {{- end}}
      {{- if .Threshold}}
      <p><strong>Seuil:</strong> {{.Threshold}}</p>
      {{- end}}
      {{- if .Req.ActionTaken}}
      <p><strong>Action:</strong> {{.Req.ActionTaken}}</p>
      {{- end}}
      <p style="color: #888888; font-size: 12px;">{{.Time}}</p>
    </div>
  </div>
</body>
</html>
`))

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

// RenderEmail returns the subject and HTML body of a notification email.
func RenderEmail(brand string, req *models.NotificationRequest) (string, string) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, map[string]any{
		"Brand":     brand,
		"Style":     styleOf(req.Severity),
		"Req":       req,
		"Trigger":   formatValue(req.TriggerValue),
		"Threshold": formatValue(req.ThresholdValue),
		"Time":      time.Now().Format("02/01/2006 15:04"),
	})
	if err != nil {
		// only reachable through a broken template
		return emailSubjectPrefix + req.Title, template.HTMLEscapeString(req.Message)
	}
	return emailSubjectPrefix + req.Title, buf.String()
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

const (
	defaultSMTPPort = 587
	implicitTLSPort = 465
	smtpTimeout     = 15 * time.Second
)

// SMTPSender delivers HTML mail, upgrading to TLS when the server offers STARTTLS.
type SMTPSender struct {
	config SMTPConfig
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	if config.Port == 0 {
		config.Port = defaultSMTPPort
	}
	return &SMTPSender{config: config}
}

func (s *SMTPSender) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTimeout(smtpTimeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.config.Port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	}
	if s.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
		)
	}
	return mail.NewClient(s.config.Host, opts...)
}

func (s *SMTPSender) buildMessage(address, subject, html string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if s.config.FromName != "" {
		if err := msg.FromFormat(s.config.FromName, s.config.FromEmail); err != nil {
			return nil, fmt.Errorf("smtp from %s: %w", s.config.FromEmail, err)
		}
	} else if err := msg.From(s.config.FromEmail); err != nil {
		return nil, fmt.Errorf("smtp from %s: %w", s.config.FromEmail, err)
	}
	if err := msg.To(address); err != nil {
		return nil, fmt.Errorf("smtp rcpt %s: %w", address, err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextHTML, html)
	return msg, nil
}

func (s *SMTPSender) Send(ctx context.Context, address, subject, html string) error {
	msg, err := s.buildMessage(address, subject, html)
	if err != nil {
		return err
	}
	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("smtp client %s: %w", s.config.Host, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", address, err)
	}
	return nil
}
