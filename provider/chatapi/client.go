package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/taskmind/backend/domain"
)

const defaultTimeout = 30 * time.Second

// Config describes one OpenAI-compatible chat-completion backend.
type Config struct {
	// Name is the human-readable provider name returned by Name().
	Name string
	// BaseURL is the API root, e.g. https://api.deepseek.com.
	BaseURL string
	// Model is the fixed backend model identifier.
	Model string
	// ProbePath is a lightweight GET endpoint that validates the credential
	// without consuming generation tokens, e.g. /user/balance.
	ProbePath string
	// Timeout bounds connect, read and write of a single exchange.
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Client calls an OpenAI-compatible chat-completion API to turn natural
// language into task records.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewClient builds a provider client. A zero Timeout defaults to 30s.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		now:    time.Now,
	}
}

func (c *Client) Name() string {
	return c.cfg.Name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ParseTasks performs one chat-completion exchange and maps the model's JSON
// reply into task records. Transport and auth failures surface as typed
// errors; unparsable model output degrades to an empty successful result
// because the exchange itself succeeded and zero tasks is a safe outcome.
func (c *Client) ParseTasks(ctx context.Context, apiKey, text string) ([]domain.Task, error) {
	if apiKey == "" {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "missing api key", nil)
	}

	now := c.now()
	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(now)},
			{Role: "user", Content: text},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, c.cfg.Name+" unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var envelope chatResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstream, "malformed response envelope", err)
	}
	if len(envelope.Choices) == 0 {
		c.logger.Warn("provider returned no choices", zap.String("provider", c.cfg.Name))
		return []domain.Task{}, nil
	}

	tasks := c.parseContent(envelope.Choices[0].Message.Content, text, now)
	return tasks, nil
}

// TestConnection issues a lightweight GET to validate the credential without
// spending generation quota.
func (c *Client) TestConnection(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return domain.WrapError(domain.ErrCodeUnauthorized, "missing api key", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+c.cfg.ProbePath, nil)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrCodeUpstream, c.cfg.Name+" unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return c.statusError(resp.StatusCode, body)
}

// statusError maps a non-2xx response to the failure taxonomy, preserving the
// originating status code and server message in the cause.
func (c *Client) statusError(status int, body []byte) error {
	message := serverMessage(body)

	var code domain.ErrorCode
	switch {
	case status == http.StatusUnauthorized:
		code = domain.ErrCodeUnauthorized
		if message == "" {
			message = "invalid api key"
		}
	case status == http.StatusForbidden:
		code = domain.ErrCodeForbidden
		if message == "" {
			message = "insufficient permission"
		}
	case status == http.StatusTooManyRequests:
		code = domain.ErrCodeRateLimited
		if message == "" {
			message = "rate limited"
		}
	default:
		code = domain.ErrCodeUpstream
		if message == "" {
			message = "server error"
		}
	}
	return domain.NewError(code, fmt.Sprintf("%s: %s (status %d)", c.cfg.Name, message, status))
}

func serverMessage(body []byte) string {
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	if len(body) > 0 && len(body) <= 512 {
		return string(body)
	}
	return ""
}
