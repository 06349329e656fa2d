package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/hearthledger/budget-backend/config"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// emailSender is the subset of the Resend emails API the service uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService renders overspend notifications as HTML and sends them
// through Resend.
type EmailService struct {
	config  *config.EmailConfig
	emails  emailSender
	metrics *EmailMetrics
	tmpl    *template.Template
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"from", cfg.FromAddress, "apiKey", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 0))
	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "overspend_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overspend_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "overspend_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		emails:  client.Emails,
		metrics: metrics,
		tmpl:    template.Must(template.New("overspend").Parse(overspendEmailTemplate)),
	}
}

// SendNotificationEmail emails one composed notification to one recipient.
func (s *EmailService) SendNotificationEmail(ctx context.Context, to string, n types.Notification) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	if to == "" {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("missing recipient address for %s notification", n.Type)
	}

	var html bytes.Buffer
	if err := s.tmpl.Execute(&html, n); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to execute email template", "error", err)
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{to},
		Subject: n.Title,
		Html:    html.String(),
		Text:    n.Message,
	}

	if _, err := s.emails.SendWithContext(ctx, params); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"to", logger.MaskEmail(to),
			"type", n.Type)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Email sent", "to", logger.MaskEmail(to), "type", n.Type, "projectID", n.ProjectID)
	return nil
}

const overspendEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: sans-serif; background-color: #f7f7f7; color: #333333; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 20px auto; background-color: #ffffff; padding: 30px; border-radius: 12px; }
        h1 { font-size: 22px; margin-bottom: 16px; }
        p { font-size: 16px; line-height: 1.6; }
        .high { border-top: 4px solid #D64545; }
    </style>
</head>
<body>
    <div class="container{{if eq .Priority "high"}} high{{end}}">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>`
