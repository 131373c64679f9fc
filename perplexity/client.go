// Package perplexity provides a comparator implementation backed by the
// Perplexity chat-completions API.
package perplexity

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the Perplexity API endpoint.
const DefaultBaseURL = "https://api.perplexity.ai"

// DefaultRequestTimeout bounds a single request attempt.
const DefaultRequestTimeout = 30 * time.Second

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChatRequest is the chat-completions request body.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// Message is a single entry in a chat conversation.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// ChatResponse is the chat-completions response body.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

// Choice is one candidate completion in a response.
type Choice struct {
	Message Message `json:"message"`
}

// Client sends chat-completion requests to the Perplexity API.
type Client struct {
	apiKey        string
	baseURL       string
	doer          Doer
	insecureDoer  Doer
	insecureRetry bool
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithDoer overrides the HTTP client used for normal requests.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithInsecureDoer overrides the HTTP client used for the certificate-failure
// retry.
func WithInsecureDoer(d Doer) Option {
	return func(c *Client) {
		c.insecureDoer = d
	}
}

// WithInsecureRetry enables a single retry with certificate verification
// disabled when a request fails certificate verification. This defeats
// transport security guarantees; the retry logs a prominent warning each time
// it activates. Off unless explicitly requested.
func WithInsecureRetry() Option {
	return func(c *Client) {
		c.insecureRetry = true
	}
}

// WithLogger sets the logger for client diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client authenticated with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: DefaultRequestTimeout}
	}
	if c.insecureDoer == nil {
		c.insecureDoer = newInsecureHTTPClient(DefaultRequestTimeout)
	}
	return c
}

// newInsecureHTTPClient returns an HTTP client that skips certificate
// verification. Used only for the opt-in retry after a verification failure.
func newInsecureHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// ChatCompletion sends a chat-completions request and decodes the response.
// If the first attempt fails certificate verification and the insecure retry
// is enabled, it makes exactly one more attempt with verification disabled.
// A failure of both attempts is reported as a *RequestError naming both
// causes.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, c.doer, body)
	if err == nil {
		return resp, nil
	}

	if !c.insecureRetry || !isCertificateError(err) {
		return nil, &RequestError{Err: err}
	}

	c.logger.Warn("certificate verification failed, retrying with verification disabled",
		"url", c.baseURL,
		"cause", err)

	resp, retryErr := c.post(ctx, c.insecureDoer, body)
	if retryErr != nil {
		return nil, &RequestError{Err: err, RetryErr: retryErr}
	}
	return resp, nil
}

// post performs one request attempt with the given Doer.
func (c *Client) post(ctx context.Context, doer Doer, body []byte) (*ChatResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("perplexity API error (HTTP %d): %s", resp.StatusCode, bytes.TrimSpace(msg)),
		}
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("perplexity: failed to decode response: %w", err)
	}
	return &out, nil
}

// isCertificateError reports whether err stems from TLS certificate
// verification.
func isCertificateError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return true
	}
	var invalid x509.CertificateInvalidError
	return errors.As(err, &invalid)
}

// APIError represents a non-success HTTP status from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// RequestError represents a failed request, including the case where the
// insecure retry was attempted and also failed.
type RequestError struct {
	Err      error // First attempt failure
	RetryErr error // Insecure retry failure, nil if no retry was made
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.RetryErr != nil {
		return fmt.Sprintf("API request failed even with certificate verification disabled: %v (first attempt: %v)", e.RetryErr, e.Err)
	}
	return fmt.Sprintf("API request failed: %v", e.Err)
}

// Unwrap returns the most recent failure.
func (e *RequestError) Unwrap() error {
	if e.RetryErr != nil {
		return e.RetryErr
	}
	return e.Err
}

// MockDoer is a mock implementation of Doer for testing.
type MockDoer struct {
	DoFn func(req *http.Request) (*http.Response, error)
}

func (m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	return m.DoFn(req)
}
