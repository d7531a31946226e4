package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public Bot API host.
const DefaultBaseURL = "https://api.telegram.org"

// ErrNotConfigured is returned when the bot token is empty.
var ErrNotConfigured = errors.New("telegram bot token not configured")

// Client is a minimal HTTP client for the Bot API sendMessage method.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	name       string
}

// NewClient constructs a bot client. name only labels log lines.
func NewClient(baseURL, token, name string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		name:       name,
	}
}

// Configured reports whether the client has a token.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

// SendMessage delivers text to chatID. A non-ok API answer is returned as an error.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if req.ParseMode == "" {
		req.ParseMode = ParseModeMarkdown
	}

	var msg Message
	if err := c.doRequest(ctx, "sendMessage", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// doRequest POSTs body as JSON to the bot method and decodes the result.
func (c *Client) doRequest(ctx context.Context, method string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the token; keep it out of the error text.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug().
		Str("bot", c.name).
		Str("method", method).
		Int("status_code", resp.StatusCode).
		Msg("[TELEGRAM] response")

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s failed: %d %s", method, apiResp.ErrorCode, apiResp.Description)
	}
	if result != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}
	return nil
}

// WhatsAppLink builds a wa.me deep link with a prefilled message.
func WhatsAppLink(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}
