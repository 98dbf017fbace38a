// Package llm is the outbound boundary to the generative model
// provider, exposed as a single opaque capability: generate text from
// an ordered conversation, bounded by a max output length.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/NicolasThaddeusL/cccup-ai/pkg/logger"
	"github.com/NicolasThaddeusL/cccup-ai/pkg/metrics"
)

// Default provider configuration. The service talks to an
// OpenAI-compatible chat completions endpoint.
const (
	DefaultBaseURL        = "https://api.siliconflow.com/v1"
	DefaultModel          = "THUDM/GLM-Z1-9B-0414"
	DefaultConnectTimeout = 10 * time.Second
	DefaultReadTimeout    = 60 * time.Second

	defaultTemperature = 0.2
	defaultTopP        = 0.9
)

// emptyResponseText is returned when the provider answers with no
// content at all.
const emptyResponseText = "Maaf, respons kosong dari model."

// Message is one turn of a conversation sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator is the capability consumed by the service layer.
type Generator interface {
	Generate(ctx context.Context, messages []Message, maxTokens int) (string, error)
}

// Client implements Generator over HTTP.
type Client struct {
	baseURL        string
	apiKey         string
	model          string
	connectTimeout time.Duration
	readTimeout    time.Duration
	httpClient     *http.Client
	logger         logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the provider base URL (without trailing slash).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeouts sets the connect and read timeouts.
func WithTimeouts(connect, read time.Duration) Option {
	return func(c *Client) {
		if connect > 0 {
			c.connectTimeout = connect
		}
		if read > 0 {
			c.readTimeout = read
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client. Tests use this
// to point the client at a local stub.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client with default provider settings.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		model:          DefaultModel,
		connectTimeout: DefaultConnectTimeout,
		readTimeout:    DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Named("llm")
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.readTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: c.connectTimeout}).DialContext,
			},
		}
	}
	return c
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate performs one chat completion call. The call is never
// retried: a timeout surfaces as ErrTimeout, everything else upstream
// as ErrUpstream.
func (c *Client) Generate(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			metrics.RecordLLMTimeout()
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		metrics.RecordLLMError()
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordLLMLatency(float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordLLMError()
		c.logger.Warn(ctx, "llm upstream status", logger.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordLLMError()
		return "", fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		metrics.RecordLLMError()
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return emptyResponseText, nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// isTimeout distinguishes deadline-style failures from other transport
// errors.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
