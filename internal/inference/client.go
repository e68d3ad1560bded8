package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/pkg/errors"
	"github.com/turtacn/sabdamanthan/pkg/types/nlp"
)

// Version is reported in the User-Agent header.
const Version = "0.1.0"

// maxErrorBody caps how much of a non-2xx body is kept as error detail.
const maxErrorBody = 512

// Client calls the inference service over HTTP.  It never retries: a failed
// request is reported once and the user may resubmit.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     logging.Logger
}

type textRequest struct {
	Text string `json:"text"`
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "inference: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "inference: invalid base URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "inference: base URL scheme must be http or https")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  fmt.Sprintf("sabdamanthan/%s", Version),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// FillMask posts maskedText to /fill-mask.
func (c *Client) FillMask(ctx context.Context, maskedText string) (*nlp.FillResult, error) {
	body, err := c.post(ctx, PathFillMask, maskedText)
	if err != nil {
		return nil, err
	}
	return DecodeFillMask(body)
}

// NER posts text to /ner.
func (c *Client) NER(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	body, err := c.post(ctx, PathNER, text)
	if err != nil {
		return nil, err
	}
	return DecodeSpans(body)
}

// POS posts text to /pos.
func (c *Client) POS(ctx context.Context, text string) ([]nlp.AnnotatedSpan, error) {
	body, err := c.post(ctx, PathPOS, text)
	if err != nil {
		return nil, err
	}
	return DecodeSpans(body)
}

// Ping checks that the service answers HTTP at all.  The service has no
// health route, so any response, even 404 or 405, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewTransport(0, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return errors.NewTransport(resp.StatusCode, nil)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, text string) ([]byte, error) {
	payload, err := json.Marshal(textRequest{Text: text})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create request")
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("inference request failed",
			logging.String("path", path), logging.RequestID(requestID), logging.Err(err))
		return nil, errors.NewTransport(0, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("inference request",
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", duration),
		logging.RequestID(requestID))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransport(0, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := string(body)
		if len(detail) > maxErrorBody {
			detail = detail[:maxErrorBody]
		}
		return nil, errors.NewTransport(resp.StatusCode, nil).WithDetail(strings.TrimSpace(detail))
	}
	return body, nil
}
