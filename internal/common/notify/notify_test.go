// internal/common/notify/notify_test.go
package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrogen/internal/common/config"
	"astrogen/internal/common/logger"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{}, nil
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{}, nil
}

func testNotificationConfig(email, sms bool) config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = email
	cfg.Email.FromEmail = "noreply@example.com"
	cfg.Email.ToEmail = "ops@example.com"
	cfg.SMS.Enabled = sms
	cfg.SMS.PhoneNumber = "+15550000000"
	return cfg
}

func testSummary() RunSummary {
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return RunSummary{
		RunID:      "run-123",
		Command:    "generate",
		Categories: []string{"zodiacs"},
		Documents:  []string{"data/eng_zodiacs.json", "data/rus_zodiacs.json"},
		Failed:     1,
		StartedAt:  started,
		FinishedAt: started.Add(42 * time.Second),
	}
}

func TestNotifyRunComplete_Email(t *testing.T) {
	sesClient := &fakeSES{}
	n := NewWithClients(testNotificationConfig(true, false), sesClient, nil, logger.NewTestLogger(t))

	n.NotifyRunComplete(context.Background(), testSummary())

	require.Len(t, sesClient.inputs, 1)
	input := sesClient.inputs[0]
	assert.Equal(t, []string{"ops@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "noreply@example.com", *input.Source)
	assert.Equal(t, "astrogen generate: completed", *input.Message.Subject.Data)

	body := *input.Message.Body.Text.Data
	assert.Contains(t, body, "run-123")
	assert.Contains(t, body, "Categories: zodiacs")
	assert.Contains(t, body, "Documents written: 2")
	assert.Contains(t, body, "data/rus_zodiacs.json")
	assert.Contains(t, body, "Failed items: 1")
}

func TestNotifyRunComplete_SMS(t *testing.T) {
	snsClient := &fakeSNS{}
	n := NewWithClients(testNotificationConfig(false, true), nil, snsClient, logger.NewTestLogger(t))

	n.NotifyRunComplete(context.Background(), testSummary())

	require.Len(t, snsClient.inputs, 1)
	input := snsClient.inputs[0]
	assert.Equal(t, "+15550000000", *input.PhoneNumber)
	assert.Equal(t, "astrogen generate completed: 2 documents, 1 failed items", *input.Message)
}

func TestNotifyRunComplete_FailedRun(t *testing.T) {
	sesClient := &fakeSES{}
	n := NewWithClients(testNotificationConfig(true, false), sesClient, nil, logger.NewTestLogger(t))

	summary := testSummary()
	summary.Err = errors.New("no item produced content")
	n.NotifyRunComplete(context.Background(), summary)

	require.Len(t, sesClient.inputs, 1)
	assert.Equal(t, "astrogen generate: failed", *sesClient.inputs[0].Message.Subject.Data)
	assert.Contains(t, *sesClient.inputs[0].Message.Body.Text.Data, "Error: no item produced content")
}

func TestNotifyRunComplete_DisabledChannelsSendNothing(t *testing.T) {
	sesClient := &fakeSES{}
	snsClient := &fakeSNS{}
	n := NewWithClients(testNotificationConfig(false, false), sesClient, snsClient, logger.NewTestLogger(t))

	n.NotifyRunComplete(context.Background(), testSummary())

	assert.Empty(t, sesClient.inputs)
	assert.Empty(t, snsClient.inputs)
}

func TestNotifyRunComplete_DeliveryFailureIsNotFatal(t *testing.T) {
	sesClient := &fakeSES{err: errors.New("ses unavailable")}
	snsClient := &fakeSNS{}
	n := NewWithClients(testNotificationConfig(true, true), sesClient, snsClient, logger.NewTestLogger(t))

	// Must not panic; the SMS channel still gets its message.
	n.NotifyRunComplete(context.Background(), testSummary())
	require.Len(t, snsClient.inputs, 1)
}
