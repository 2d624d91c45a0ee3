package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"plume/internal/domain/service"

	"github.com/pkg/errors"
)

// relayMessage is the JSON body posted to the mail relay endpoint.
type relayMessage struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Template string `json:"template"`
	Subject  string `json:"subject"`

	// Template variables.
	DisplayName string `json:"display_name"`
	ActionURL   string `json:"action_url,omitempty"`
}

// httpDispatcher implements MailDispatcher by posting templated messages to
// an HTTP mail relay. The relay owns rendering and SMTP delivery.
type httpDispatcher struct {
	endpoint   string
	from       string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPDispatcher creates a dispatcher that posts to an HTTP mail relay.
func NewHTTPDispatcher(endpoint, from string, logger *slog.Logger) service.MailDispatcher {
	return &httpDispatcher{
		endpoint: endpoint,
		from:     from,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (d *httpDispatcher) SendVerificationEmail(ctx context.Context, recipient, displayName, verifyURL string) error {
	return d.post(ctx, relayMessage{
		To:          recipient,
		Template:    "account_verification",
		Subject:     "Verify your email address",
		DisplayName: displayName,
		ActionURL:   verifyURL,
	})
}

func (d *httpDispatcher) SendPasswordResetEmail(ctx context.Context, recipient, displayName, resetURL string) error {
	return d.post(ctx, relayMessage{
		To:          recipient,
		Template:    "password_reset",
		Subject:     "Reset your password",
		DisplayName: displayName,
		ActionURL:   resetURL,
	})
}

func (d *httpDispatcher) SendWelcomeEmail(ctx context.Context, recipient, displayName string) error {
	return d.post(ctx, relayMessage{
		To:          recipient,
		Template:    "welcome",
		Subject:     "Welcome to Plume",
		DisplayName: displayName,
	})
}

func (d *httpDispatcher) SendPasswordChangedEmail(ctx context.Context, recipient, displayName string) error {
	return d.post(ctx, relayMessage{
		To:          recipient,
		Template:    "password_changed",
		Subject:     "Your password was changed",
		DisplayName: displayName,
	})
}

func (d *httpDispatcher) post(ctx context.Context, msg relayMessage) error {
	msg.From = d.from

	body, err := json.Marshal(msg)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("mail relay returned non-success status: %d", resp.StatusCode)
	}

	d.logger.Info("[HTTPMail] message dispatched",
		slog.String("template", msg.Template),
		slog.String("to", msg.To),
	)

	return nil
}
