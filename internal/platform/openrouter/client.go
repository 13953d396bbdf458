package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cardforge/cardforge-api/internal/config"
)

// Default retry discipline, applied when the configuration leaves a knob unset.
const (
	defaultMaxRetries    = 3
	defaultInitialDelay  = 1000 * time.Millisecond
	defaultMaxDelay      = 5000 * time.Millisecond
	defaultBackoffFactor = 2

	// retryJitter is the half-width of the symmetric jitter added to every
	// backoff delay.
	retryJitter = 100 * time.Millisecond
)

// Client is a completion client for an OpenAI-compatible chat endpoint.
// It holds the model, endpoint, credentials, sampling parameters, and an
// optional structured-output schema, and drives every call through the
// shared rate limiter and the retrying transport.
//
// The message slots and response format are guarded by a mutex so a single
// Client can serve concurrent SendMessage calls; the payload is snapshotted
// under the lock before any network activity starts.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	limiter    *RateLimiter
	validate   *validator.Validate

	apiURL string
	apiKey string
	model  string

	referer string
	title   string

	temperature      float64
	topP             float64
	frequencyPenalty float64
	presencePenalty  float64

	maxRetries    int
	initialDelay  time.Duration
	maxDelay      time.Duration
	backoffFactor int

	mu             sync.Mutex
	systemMessage  *ChatMessage
	userMessage    *ChatMessage
	responseFormat *ResponseFormat
}

// NewClient creates a completion client from the LLM configuration. The
// rate limiter is a required dependency: it carries the process-wide
// admission state shared by all outbound calls. If logger is nil, the
// default logger is used.
func NewClient(cfg config.LLMConfig, limiter *RateLimiter, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, errors.New("model cannot be empty")
	}
	if cfg.APIURL == "" {
		return nil, errors.New("api url cannot be empty")
	}
	if limiter == nil {
		return nil, errors.New("rate limiter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	initialDelay := time.Duration(cfg.InitialRetryDelayMs) * time.Millisecond
	if initialDelay <= 0 {
		initialDelay = defaultInitialDelay
	}
	maxDelay := time.Duration(cfg.MaxRetryDelayMs) * time.Millisecond
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	backoffFactor := cfg.BackoffFactor
	if backoffFactor <= 1 {
		backoffFactor = defaultBackoffFactor
	}

	return &Client{
		logger:           logger.With(slog.String("component", "completion_client")),
		httpClient:       &http.Client{},
		limiter:          limiter,
		validate:         validator.New(),
		apiURL:           cfg.APIURL,
		apiKey:           cfg.APIKey,
		model:            cfg.Model,
		referer:          cfg.AppReferer,
		title:            cfg.AppTitle,
		temperature:      cfg.Temperature,
		topP:             cfg.TopP,
		frequencyPenalty: cfg.FrequencyPenalty,
		presencePenalty:  cfg.PresencePenalty,
		maxRetries:       maxRetries,
		initialDelay:     initialDelay,
		maxDelay:         maxDelay,
		backoffFactor:    backoffFactor,
	}, nil
}

// Model reports the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// SetSystemMessage replaces the system message slot.
func (c *Client) SetSystemMessage(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.systemMessage = &ChatMessage{Role: RoleSystem, Content: text}
}

// SetUserMessage replaces the user message slot.
func (c *Client) SetUserMessage(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userMessage = &ChatMessage{Role: RoleUser, Content: text}
}

// SetResponseFormat attaches a named, strict JSON-schema descriptor that the
// provider is asked to conform its output to. Returns ErrInvalidSchema if
// the schema cannot be attached.
func (c *Client) SetResponseFormat(name string, schema map[string]any) error {
	if name == "" {
		return fmt.Errorf("%w: schema name cannot be empty", ErrInvalidSchema)
	}
	if len(schema) == 0 {
		return fmt.Errorf("%w: schema cannot be empty", ErrInvalidSchema)
	}
	// The descriptor must survive serialization into the request payload.
	if _, err := json.Marshal(schema); err != nil {
		return fmt.Errorf("%w: schema is not serializable: %v", ErrInvalidSchema, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseFormat = &ResponseFormat{
		Type: "json_schema",
		JSONSchema: JSONSchemaSpec{
			Name:   name,
			Strict: true,
			Schema: schema,
		},
	}
	return nil
}

// SendMessage sets the user message, waits for rate-limit admission,
// assembles and validates the payload, delegates to the retrying transport,
// and extracts the reply content.
//
// Failures map onto the package's error taxonomy: ErrInvalidPayload before
// send, ErrPermanentProvider / ErrExhaustedRetries from the transport, and
// ErrMalformedResponse when the reply carries no usable content.
func (c *Client) SendMessage(ctx context.Context, text string) (string, error) {
	c.SetUserMessage(text)

	if err := c.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	// The in-flight slot is freed on every path out of this function.
	defer c.limiter.Release()

	payload, err := c.buildPayload()
	if err != nil {
		c.logError(ctx, err, 0)
		return "", err
	}

	response, err := c.sendWithRetry(ctx, payload)
	if err != nil {
		return "", err
	}

	content, err := extractContent(response)
	if err != nil {
		c.logError(ctx, err, 0)
		return "", err
	}

	return content, nil
}

// buildPayload snapshots the message slots and sampling parameters into a
// validated request payload.
func (c *Client) buildPayload() (*ChatCompletionRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Message order invariant: [system?, user].
	var messages []ChatMessage
	if c.systemMessage != nil {
		messages = append(messages, *c.systemMessage)
	}
	if c.userMessage != nil {
		messages = append(messages, *c.userMessage)
	}

	payload := &ChatCompletionRequest{
		Model:            c.model,
		Messages:         messages,
		Temperature:      &c.temperature,
		TopP:             &c.topP,
		FrequencyPenalty: &c.frequencyPenalty,
		PresencePenalty:  &c.presencePenalty,
		ResponseFormat:   c.responseFormat,
	}

	if err := c.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return payload, nil
}

// attemptOutcome tags the result of one delivery attempt so the retry loop
// can branch on an explicit value instead of classifying raised errors.
type attemptOutcome int

const (
	outcomeSuccess attemptOutcome = iota
	outcomeTransient
	outcomePermanent
)

// attemptResult is the outcome of a single delivery attempt.
type attemptResult struct {
	outcome  attemptOutcome
	response *ChatCompletionResponse
	err      error
}

// sendWithRetry delivers the payload with exponential backoff on transient
// failures. Permanent failures surface immediately; exhausting the retry
// budget yields ErrExhaustedRetries wrapping the last transient error.
func (c *Client) sendWithRetry(ctx context.Context, payload *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload not serializable: %v", ErrInvalidPayload, err)
	}

	delay := c.initialDelay
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		result := c.attempt(ctx, body)

		switch result.outcome {
		case outcomeSuccess:
			c.logger.DebugContext(ctx, "provider call succeeded",
				slog.String("model", c.model),
				slog.Int("attempt", attempt))
			return result.response, nil

		case outcomePermanent:
			c.logError(ctx, result.err, attempt)
			return nil, result.err

		case outcomeTransient:
			lastErr = result.err
			c.logError(ctx, result.err, attempt)

			if attempt == c.maxRetries {
				break
			}

			// Exponential backoff with symmetric jitter.
			jitter := time.Duration(rand.Int63n(int64(2*retryJitter))) - retryJitter
			wait := delay + jitter
			if wait < 0 {
				wait = 0
			}

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}

			delay *= time.Duration(c.backoffFactor)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}
	}

	return nil, fmt.Errorf("%w: failed after %d attempts: %w", ErrExhaustedRetries, c.maxRetries, lastErr)
}

// attempt performs one HTTP round trip and classifies the result.
// Transport errors and 429/5xx statuses are transient; other non-2xx
// statuses are permanent; an unparseable success body is malformed.
func (c *Client) attempt(ctx context.Context, body []byte) attemptResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return attemptResult{
			outcome: outcomePermanent,
			err:     fmt.Errorf("%w: building request: %v", ErrPermanentProvider, err),
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return attemptResult{
			outcome: outcomeTransient,
			err:     fmt.Errorf("%w: %v", ErrTransientProvider, err),
		}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", slog.String("error", cerr.Error()))
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return attemptResult{
			outcome: outcomeTransient,
			err:     fmt.Errorf("%w: reading response: %v", ErrTransientProvider, err),
		}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return attemptResult{
			outcome: outcomeTransient,
			err:     &ProviderError{Kind: ErrTransientProvider, Status: resp.StatusCode, Body: string(respBody)},
		}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return attemptResult{
			outcome: outcomePermanent,
			err:     &ProviderError{Kind: ErrPermanentProvider, Status: resp.StatusCode, Body: string(respBody)},
		}
	}

	var parsed ChatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return attemptResult{
			outcome: outcomePermanent,
			err:     fmt.Errorf("%w: response body is not valid JSON: %v", ErrMalformedResponse, err),
		}
	}

	return attemptResult{outcome: outcomeSuccess, response: &parsed}
}

// extractContent pulls choices[0].message.content out of the reply.
func extractContent(response *ChatCompletionResponse) (string, error) {
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrMalformedResponse)
	}

	content := response.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", ErrMalformedResponse)
	}

	return content, nil
}

// logError records a failed attempt with the model and attempt number.
func (c *Client) logError(ctx context.Context, err error, attempt int) {
	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("model", c.model),
	}
	if attempt > 0 {
		attrs = append(attrs, slog.Int("attempt", attempt))
	}
	c.logger.ErrorContext(ctx, "provider call failed", attrs...)
}
