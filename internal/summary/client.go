// Package summary asks a chat-completion service for a narrative analysis of
// a finished questionnaire.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kingrea/bizplan/internal/config"
	"github.com/kingrea/bizplan/internal/form"
	"github.com/kingrea/bizplan/internal/report"
)

const (
	fallbackMessage = "Failed to get summary from OpenAI"

	systemPrompt = "You are a business coach specializing in helping mortgage professionals analyze their business plans. " +
		"Your task is to review the submitted business planning form and provide a concise but comprehensive summary and analysis. " +
		"Include key insights, strengths, areas for improvement, and actionable recommendations. " +
		"Focus on identifying patterns, inconsistencies, and opportunities for growth. " +
		"Your summary should be structured, professional, and provide valuable strategic guidance."
	userIntro         = "Please analyze and summarize the following business planning form data:"
	transcriptRequest = " Also review the included meeting transcript and incorporate relevant insights from it into your analysis."
)

var (
	// ErrNotConfigured is returned before any network traffic when no usable
	// credential is set.
	ErrNotConfigured = errors.New("summary: OpenAI API key is not configured")
	// ErrMalformedResponse wraps decode failures and empty choice lists.
	ErrMalformedResponse = errors.New("summary: malformed response")
	// ErrTimeout means the service did not answer within the deadline.
	ErrTimeout = errors.New("summary: request timed out")
)

// APIError is a non-2xx reply from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Options configures a Client.
type Options struct {
	Endpoint   string
	Model      string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Ledger     *Ledger
}

// Client sends one completion request per Summarize call.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
	ledger   *Ledger
}

// New creates a client, filling in the public endpoint and model. Without an
// HTTPClient, requests are bounded by Timeout (config.DefaultSummaryTimeout
// when unset).
func New(opts Options) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(opts.Endpoint),
		model:    strings.TrimSpace(opts.Model),
		apiKey:   strings.TrimSpace(opts.APIKey),
		http:     opts.HTTPClient,
		ledger:   opts.Ledger,
	}
	if c.endpoint == "" {
		c.endpoint = config.DefaultEndpoint
	}
	if c.model == "" {
		c.model = config.DefaultModel
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = config.DefaultSummaryTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	return c
}

// FromConfig builds a client from the project settings.
func FromConfig(cfg *config.Config, ledger *Ledger) *Client {
	return New(Options{
		Endpoint: cfg.Project.Summary.Endpoint,
		Model:    cfg.Project.Summary.Model,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Project.Summary.Timeout,
		Ledger:   ledger,
	})
}

// Configured reports whether a real credential is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != "" && c.apiKey != config.PlaceholderAPIKey
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize returns the service's narrative for doc and the optional
// transcript.
func (c *Client) Summarize(ctx context.Context, doc form.Document, transcript string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	formText := report.Text(doc)
	transcript = strings.TrimSpace(transcript)
	c.ledger.Record(formText, transcript)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage(formText, transcript)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("summary: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("summary: request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("summary: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: fallbackMessage}
		var payload chatError
		if json.Unmarshal(raw, &payload) == nil && strings.TrimSpace(payload.Error.Message) != "" {
			apiErr.Message = payload.Error.Message
		}
		return "", apiErr
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	return payload.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func userMessage(formText, transcript string) string {
	if transcript == "" {
		return userIntro + "\n\n" + formText
	}
	return userIntro + transcriptRequest + "\n\n" + formText + "\n\nMEETING TRANSCRIPT:\n" + transcript + "\n"
}
