// internal/common/notify/notify.go

// Package notify delivers optional run-completion summaries over SES email
// and SNS SMS. Both channels are disabled by default.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"astrogen/internal/common/config"
	stderrors "astrogen/internal/common/errors"
	"astrogen/internal/common/logger"
)

// SESAPI is the subset of the SES client the notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSAPI is the subset of the SNS client the notifier uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// RunSummary describes one finished (or aborted) generation run.
type RunSummary struct {
	RunID      string
	Command    string
	Categories []string
	Documents  []string
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

type Notifier struct {
	cfg       config.NotificationConfig
	sesClient SESAPI
	snsClient SNSAPI
	logger    logger.Logger
}

// New builds a Notifier from config. AWS clients are only created for
// channels that are enabled.
func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	n := &Notifier{cfg: cfg, logger: log}

	if cfg.Email.Enabled {
		sesClient, err := NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		n.sesClient = sesClient.client
	}
	if cfg.SMS.Enabled {
		snsClient, err := NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		n.snsClient = snsClient.client
	}

	return n, nil
}

// NewWithClients is used by tests to inject fake AWS clients.
func NewWithClients(cfg config.NotificationConfig, sesClient SESAPI, snsClient SNSAPI, log logger.Logger) *Notifier {
	return &Notifier{cfg: cfg, sesClient: sesClient, snsClient: snsClient, logger: log}
}

// NotifyRunComplete sends the summary over every enabled channel. Delivery
// failures are logged, not fatal: the run already finished.
func (n *Notifier) NotifyRunComplete(ctx context.Context, summary RunSummary) {
	if n.cfg.Email.Enabled && n.sesClient != nil {
		if err := n.sendEmail(ctx, summary); err != nil {
			n.logger.WithError(err).Error("run summary email failed", map[string]interface{}{
				"runId": summary.RunID,
			})
		}
	}

	if n.cfg.SMS.Enabled && n.snsClient != nil {
		if err := n.sendSMS(ctx, summary); err != nil {
			n.logger.WithError(err).Error("run summary SMS failed", map[string]interface{}{
				"runId": summary.RunID,
			})
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, summary RunSummary) error {
	subject := fmt.Sprintf("astrogen %s: %s", summary.Command, statusWord(summary))
	body := formatSummary(summary)

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.cfg.Email.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.Email.FromEmail),
	})
	if err != nil {
		return stderrors.NewNotificationSendFailedError("email", err)
	}
	return nil
}

func (n *Notifier) sendSMS(ctx context.Context, summary RunSummary) error {
	message := fmt.Sprintf("astrogen %s %s: %d documents, %d failed items",
		summary.Command, statusWord(summary), len(summary.Documents), summary.Failed)

	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.cfg.SMS.PhoneNumber),
		Message:     aws.String(message),
	})
	if err != nil {
		return stderrors.NewNotificationSendFailedError("sms", err)
	}
	return nil
}

func statusWord(summary RunSummary) string {
	if summary.Err != nil {
		return "failed"
	}
	return "completed"
}

func formatSummary(summary RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s %s in %s\n", summary.RunID, statusWord(summary),
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second))
	if len(summary.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(summary.Categories, ", "))
	}
	fmt.Fprintf(&b, "Documents written: %d\n", len(summary.Documents))
	for _, doc := range summary.Documents {
		fmt.Fprintf(&b, "  - %s\n", doc)
	}
	fmt.Fprintf(&b, "Failed items: %d\n", summary.Failed)
	if summary.Err != nil {
		fmt.Fprintf(&b, "Error: %s\n", summary.Err.Error())
	}
	return b.String()
}
