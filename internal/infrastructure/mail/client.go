// Package mail delivers rendered alert emails through an HTTP mail API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lexwatch/lexwatch/internal/application/deadline"
	"github.com/lexwatch/lexwatch/internal/config"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
)

// sendRequest is the mail API's JSON contract.
type sendRequest struct {
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name,omitempty"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	HTMLBody    string `json:"html_body"`
	TextBody    string `json:"text_body,omitempty"`
	Importance  string `json:"importance,omitempty"`
}

// Client implements deadline.MailSender against a JSON mail API.  Transient
// failures (network errors, 5xx) are retried with a flat backoff; 4xx
// responses fail immediately.
type Client struct {
	endpoint    string
	apiKey      string
	fromAddress string
	fromName    string
	maxRetries  int
	httpClient  *http.Client
	log         logging.Logger
}

var _ deadline.MailSender = (*Client)(nil)

// retryBackoff is the pause between delivery attempts.
const retryBackoff = 500 * time.Millisecond

// NewClient builds a mail client from configuration.
func NewClient(cfg config.MailConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		maxRetries:  cfg.MaxRetries,
		httpClient:  &http.Client{Timeout: timeout},
		log:         log.Named("mail"),
	}
}

// Send delivers one message, retrying transient failures.
func (c *Client) Send(ctx context.Context, msg *deadline.Message) error {
	if msg.RecipientEmail == "" {
		return errors.InvalidParam("recipient email must not be empty")
	}

	body, err := json.Marshal(sendRequest{
		FromAddress: c.fromAddress,
		FromName:    c.fromName,
		To:          msg.RecipientEmail,
		Subject:     msg.Subject,
		HTMLBody:    msg.HTMLBody,
		TextBody:    msg.TextBody,
		Importance:  msg.Importance,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode mail request")
	}

	var lastErr error
	attempts := c.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), errors.CodeMailError, "mail delivery cancelled")
			case <-time.After(retryBackoff):
			}
		}

		retryable, err := c.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
		c.log.Warn("mail delivery attempt failed",
			logging.Int("attempt", attempt+1),
			logging.String("recipient", msg.RecipientEmail),
			logging.Err(err))
	}
	return lastErr
}

// post performs one API call.  The boolean reports whether a failure is
// worth retrying.
func (c *Client) post(ctx context.Context, body []byte) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, errors.Wrap(err, errors.CodeMailError, "failed to build mail request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, errors.Wrap(err, errors.CodeMailError, "mail request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	apiErr := errors.New(errors.CodeMailError,
		fmt.Sprintf("mail API returned status %d", resp.StatusCode)).
		WithDetail(string(detail))
	return resp.StatusCode >= 500, apiErr
}
