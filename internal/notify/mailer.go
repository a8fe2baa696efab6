package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upperspacecase/habitspace/internal/habit"
)

const resendEndpoint = "https://api.resend.com/emails"

// Mailer delivers notifications as email through the Resend API. With no
// API key it logs what it would have sent and reports success, so local
// runs behave like production minus delivery.
type Mailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

func NewMailer(apiKey, from string, log *zap.Logger) *Mailer {
	return &Mailer{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

func (m *Mailer) Send(ctx context.Context, n habit.Notification) error {
	subject, html := buildMessage(n)

	if m.apiKey == "" {
		m.log.Info("simulated email",
			zap.String("kind", string(n.Kind)),
			zap.String("to", n.Email),
			zap.String("subject", subject))
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"from":    m.from,
		"to":      n.Email,
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend api status %d: %s", resp.StatusCode, body)
	}
	return nil
}
