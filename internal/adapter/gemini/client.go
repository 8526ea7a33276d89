package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"auknowlog/internal/domain"

	"go.uber.org/zap"
)

const (
	maxAttempts    = 5
	baseDelay      = 500 * time.Millisecond
	maxDelay       = 10 * time.Second
	jitterCeiling  = 250 * time.Millisecond
	defaultTimeout = 30 * time.Second
)

// generateRequest is the minimal Gemini generateContent envelope.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client issues chat-completion requests against the Gemini REST API.
// It is stateless per call; the underlying http.Client is reused.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	model          string
	apiKey         string
	requestTimeout time.Duration
	logger         *zap.Logger

	// sleep is the cancellable backoff wait; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
	// jitter returns a random duration in [0, max); replaced in tests.
	jitter func(max time.Duration) time.Duration
}

// NewClient creates a new Gemini client.
func NewClient(baseURL, model, apiKey string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient:     &http.Client{},
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		apiKey:         apiKey,
		requestTimeout: timeout,
		logger:         logger,
		sleep:          sleepContext,
		jitter: func(max time.Duration) time.Duration {
			return time.Duration(rand.Int63n(int64(max)))
		},
	}, nil
}

var _ domain.LLMClient = (*Client)(nil)

// Complete sends the prompt and returns the raw first-candidate text.
// Transient statuses (429/502/503/504) are retried with exponential
// backoff; a 404 triggers a one-shot model-version fallback that shares
// the same attempt budget. A 503 surviving the full budget is reported
// as UpstreamOverloaded.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	url := endpointURL(c.baseURL, c.model)
	fallbackTried := false

	var lastErr error
	lastStatus := 0

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, status, retryAfter, err := c.doRequest(ctx, url, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		lastStatus = status

		if status == http.StatusNotFound && !fallbackTried {
			fallbackTried = true
			url = endpointURL(alternateAPIVersion(c.baseURL), alternateModelName(c.model))
			c.logger.Warn("model not found, retrying against alternate API version",
				zap.String("fallback_url", url))
			continue
		}

		if !isRetryableStatus(status) {
			return "", err
		}
		if attempt == maxAttempts {
			break
		}

		delay := c.backoffDelay(attempt, retryAfter)
		c.logger.Warn("transient upstream failure, backing off",
			zap.Int("attempt", attempt),
			zap.Int("status", status),
			zap.Duration("delay", delay),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	if lastStatus == http.StatusServiceUnavailable {
		return "", domain.NewUpstreamOverloadedError(
			"AI 서비스가 일시적으로 과부하 상태입니다. 잠시 후 다시 시도해주세요.", lastErr)
	}
	return "", domain.NewUpstreamTransientError("upstream retry budget exhausted", lastErr)
}

// doRequest performs a single generateContent call. It returns the raw
// candidate text on success, or the HTTP status and any Retry-After
// indication on failure.
func (c *Client) doRequest(ctx context.Context, url, prompt string) (text string, status int, retryAfter time.Duration, err error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", 0, 0, domain.NewInternalError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", 0, 0, domain.NewInternalError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network-level failures are treated like a retryable 5xx.
		return "", http.StatusBadGateway, 0, domain.NewUpstreamTransientError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		err := classifyStatus(resp.StatusCode, string(snippet))
		return "", resp.StatusCode, retryAfter, err
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", resp.StatusCode, 0, domain.NewMalformedOutputError("failed to decode upstream response", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", resp.StatusCode, 0, domain.NewMalformedOutputError("upstream response carried no candidates", nil)
	}
	return decoded.Candidates[0].Content.Parts[0].Text, resp.StatusCode, 0, nil
}

func classifyStatus(status int, body string) error {
	msg := fmt.Sprintf("gemini API error: status=%d body=%s", status, body)
	switch {
	case status == http.StatusNotFound:
		return domain.NewUpstreamNotFoundError(msg, nil)
	case isRetryableStatus(status):
		return domain.NewUpstreamTransientError(msg, nil)
	default:
		return domain.NewLLMServiceError(fmt.Errorf("%s", msg))
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// backoffDelay computes the wait before the next attempt: exponential
// from baseDelay with random jitter, capped at maxDelay. A Retry-After
// indication overrides the computed delay, still clamped to the cap.
func (c *Client) backoffDelay(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		if retryAfter > maxDelay {
			return maxDelay
		}
		return retryAfter
	}
	delay := baseDelay << (attempt - 1)
	delay += c.jitter(jitterCeiling)
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

// parseRetryAfter accepts only the integer-seconds form. The HTTP-date
// form falls back to the computed backoff.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func endpointURL(baseURL, model string) string {
	return fmt.Sprintf("%s/models/%s:generateContent", baseURL, model)
}

// alternateAPIVersion swaps v1 and v1beta in the base URL.
func alternateAPIVersion(baseURL string) string {
	switch {
	case strings.HasSuffix(baseURL, "/v1beta"):
		return strings.TrimSuffix(baseURL, "/v1beta") + "/v1"
	case strings.HasSuffix(baseURL, "/v1"):
		return strings.TrimSuffix(baseURL, "/v1") + "/v1beta"
	}
	return baseURL
}

// alternateModelName toggles the "-latest" suffix on the model name.
func alternateModelName(model string) string {
	if strings.HasSuffix(model, "-latest") {
		return strings.TrimSuffix(model, "-latest")
	}
	return model + "-latest"
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
