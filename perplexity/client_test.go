package perplexity_test

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subrat-kp/response-comparator/perplexity"
)

// verdictResponse builds a successful HTTP response carrying the verdict.
func verdictResponse(t *testing.T, verdict string) *http.Response {
	t.Helper()
	body, err := json.Marshal(perplexity.ChatResponse{
		Choices: []perplexity.Choice{
			{Message: perplexity.Message{Role: "assistant", Content: verdict}},
		},
	})
	require.NoError(t, err)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

// certError simulates a TLS certificate verification failure as the HTTP
// client surfaces it.
func certError() error {
	return &url.Error{
		Op:  "Post",
		URL: "https://api.perplexity.ai/chat/completions",
		Err: x509.UnknownAuthorityError{},
	}
}

func TestClient_ChatCompletion_SendsExpectedRequest(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	var capturedBody []byte
	doer := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			captured = req
			var err error
			capturedBody, err = io.ReadAll(req.Body)
			require.NoError(t, err)
			return verdictResponse(t, "A. Output A is better."), nil
		},
	}

	client := perplexity.NewClient("test-key", perplexity.WithDoer(doer))

	resp, err := client.ChatCompletion(context.Background(), perplexity.ChatRequest{
		Model: perplexity.DefaultModel,
		Messages: []perplexity.Message{
			{Role: "system", Content: "system prompt"},
			{Role: "user", Content: "user prompt"},
		},
		MaxTokens:   200,
		Temperature: 0.1,
	})

	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "A. Output A is better.", resp.Choices[0].Message.Content)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "https://api.perplexity.ai/chat/completions", captured.URL.String())
	assert.Equal(t, "Bearer test-key", captured.Header.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(capturedBody, &body))
	assert.Equal(t, perplexity.DefaultModel, body["model"])
	assert.Equal(t, float64(200), body["max_tokens"])
	assert.Equal(t, 0.1, body["temperature"])
}

func TestClient_ChatCompletion_NonOKStatus(t *testing.T) {
	t.Parallel()

	doer := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusTooManyRequests,
				Body:       io.NopCloser(strings.NewReader("rate limited")),
			}, nil
		},
	}

	client := perplexity.NewClient("test-key", perplexity.WithDoer(doer))

	_, err := client.ChatCompletion(context.Background(), perplexity.ChatRequest{})

	require.Error(t, err)
	var reqErr *perplexity.RequestError
	require.ErrorAs(t, err, &reqErr)
	var apiErr *perplexity.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "rate limited")
}

func TestClient_ChatCompletion_CertErrorWithoutRetryEnabled(t *testing.T) {
	t.Parallel()

	secureCalls := 0
	insecureCalls := 0
	secure := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			secureCalls++
			return nil, certError()
		},
	}
	insecure := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			insecureCalls++
			return verdictResponse(t, "A"), nil
		},
	}

	client := perplexity.NewClient("test-key",
		perplexity.WithDoer(secure),
		perplexity.WithInsecureDoer(insecure),
	)

	_, err := client.ChatCompletion(context.Background(), perplexity.ChatRequest{})

	require.Error(t, err)
	var reqErr *perplexity.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Nil(t, reqErr.RetryErr)
	assert.Equal(t, 1, secureCalls, "only one attempt without the retry enabled")
	assert.Equal(t, 0, insecureCalls, "insecure client must not be used unless enabled")
}

func TestClient_ChatCompletion_CertErrorRetriesOnceWhenEnabled(t *testing.T) {
	t.Parallel()

	secureCalls := 0
	insecureCalls := 0
	secure := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			secureCalls++
			return nil, certError()
		},
	}
	insecure := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			insecureCalls++
			return verdictResponse(t, "B. Output B is more complete."), nil
		},
	}

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	client := perplexity.NewClient("test-key",
		perplexity.WithDoer(secure),
		perplexity.WithInsecureDoer(insecure),
		perplexity.WithInsecureRetry(),
		perplexity.WithLogger(logger),
	)

	resp, err := client.ChatCompletion(context.Background(), perplexity.ChatRequest{})

	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "B. Output B is more complete.", resp.Choices[0].Message.Content)
	assert.Equal(t, 1, secureCalls)
	assert.Equal(t, 1, insecureCalls, "exactly one insecure retry")
	assert.Contains(t, logBuf.String(), "certificate verification failed")
}

func TestClient_ChatCompletion_RetryAlsoFails(t *testing.T) {
	t.Parallel()

	secure := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			return nil, certError()
		},
	}
	insecure := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusBadGateway,
				Body:       io.NopCloser(strings.NewReader("bad gateway")),
			}, nil
		},
	}

	client := perplexity.NewClient("test-key",
		perplexity.WithDoer(secure),
		perplexity.WithInsecureDoer(insecure),
		perplexity.WithInsecureRetry(),
		perplexity.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	_, err := client.ChatCompletion(context.Background(), perplexity.ChatRequest{})

	require.Error(t, err)
	var reqErr *perplexity.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.NotNil(t, reqErr.RetryErr)
	// Both failures appear in the message.
	assert.Contains(t, err.Error(), "certificate verification disabled")
	assert.Contains(t, err.Error(), "certificate signed by unknown authority")
	assert.Contains(t, err.Error(), "502")
}

func TestClient_ChatCompletion_NonCertErrorNotRetried(t *testing.T) {
	t.Parallel()

	insecureCalls := 0
	secure := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			return nil, &url.Error{Op: "Post", URL: "https://api.perplexity.ai", Err: io.ErrUnexpectedEOF}
		},
	}
	insecure := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			insecureCalls++
			return verdictResponse(t, "A"), nil
		},
	}

	client := perplexity.NewClient("test-key",
		perplexity.WithDoer(secure),
		perplexity.WithInsecureDoer(insecure),
		perplexity.WithInsecureRetry(),
	)

	_, err := client.ChatCompletion(context.Background(), perplexity.ChatRequest{})

	require.Error(t, err)
	assert.Equal(t, 0, insecureCalls, "only certificate failures trigger the retry")
}

func TestClient_ChatCompletion_BaseURLOverride(t *testing.T) {
	t.Parallel()

	var capturedURL string
	doer := &perplexity.MockDoer{
		DoFn: func(req *http.Request) (*http.Response, error) {
			capturedURL = req.URL.String()
			return verdictResponse(t, "A"), nil
		},
	}

	client := perplexity.NewClient("test-key",
		perplexity.WithDoer(doer),
		perplexity.WithBaseURL("https://example.test"),
	)

	_, err := client.ChatCompletion(context.Background(), perplexity.ChatRequest{})

	require.NoError(t, err)
	assert.Equal(t, "https://example.test/chat/completions", capturedURL)
}
