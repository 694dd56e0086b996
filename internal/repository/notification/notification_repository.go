package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/it-is-Aman/ram-enterprise/pkg/config"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"

	"github.com/pobyzaarif/goshortcute"
)

// Email is a single outgoing message.
type Email struct {
	ToName   string
	ToEmail  string
	Subject  string
	TextPart string
	HTMLPart string
}

type MailjetRepository struct {
	cfg    config.MailjetConfig
	client *http.Client
}

func NewMailjetRepository(cfg config.MailjetConfig) *MailjetRepository {
	return &MailjetRepository{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled is false when no Mailjet endpoint or sender is configured; sends
// are then skipped.
func (r *MailjetRepository) Enabled() bool {
	return r.cfg.MailjetBaseUrl != "" && r.cfg.MailjetSenderEmail != ""
}

type payloadSendEmail struct {
	Messages []message `json:"Messages"`
}

type address struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type message struct {
	From     address   `json:"From"`
	To       []address `json:"To"`
	Subject  string    `json:"Subject"`
	TextPart string    `json:"TextPart"`
	HTMLPart string    `json:"HTMLPart"`
}

func (r *MailjetRepository) SendEmail(ctx context.Context, email Email) error {
	if !r.Enabled() {
		logger.Debug("Mailjet disabled, skipping e-mail", "to", email.ToEmail, "subject", email.Subject)
		return nil
	}

	html := email.HTMLPart
	if html == "" {
		html = strings.ReplaceAll(email.TextPart, "\n", "<br>")
	}

	payload := payloadSendEmail{
		Messages: []message{{
			From: address{
				Email: r.cfg.MailjetSenderEmail,
				Name:  r.cfg.MailjetSenderName,
			},
			To:       []address{{Email: email.ToEmail, Name: email.ToName}},
			Subject:  email.Subject,
			TextPart: email.TextPart,
			HTMLPart: html,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	url := strings.TrimRight(r.cfg.MailjetBaseUrl, "/") + "/v3.1/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mailjet request: %w", err)
	}

	basicAuth := goshortcute.StringtoBase64Encode(r.cfg.MailjetBasicAuthUsername + ":" + r.cfg.MailjetBasicAuthPassword)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+basicAuth)

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mailjet: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	logger.Warn("Mailjet rejected e-mail", "status", res.StatusCode, "response", string(respBody))

	return fmt.Errorf("mailer service return negative response %v", res.StatusCode)
}
