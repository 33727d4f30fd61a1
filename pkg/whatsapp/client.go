package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Client talks to the WhatsApp Cloud API. The configuration given to NewClient
// is an immutable snapshot; every call resolves its own effective configuration
// from defaults, the snapshot and an optional per-call override, so a single
// client can serve several sender accounts concurrently.
type Client struct {
	httpc  *resty.Client
	cfg    Config
	logger *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithLogger sets the diagnostics logger. Nil keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout overrides the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpc.SetTimeout(d)
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client. Useful for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpc = resty.NewWithClient(hc)
		}
	}
}

// NewClient builds a Cloud API client around the provided configuration
// snapshot. Zero-value fields fall back to compiled defaults at call time.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		httpc:  resty.New().SetTimeout(defaultTimeout),
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FilePart is the single binary part of a multipart request body.
type FilePart struct {
	FieldName   string
	Filename    string
	ContentType string
	Content     []byte
}

// Form describes a multipart/form-data body: named text fields plus at most
// one file part.
type Form struct {
	Fields map[string]string
	File   *FilePart
}

// Request is one Cloud API call. Payload and Form are mutually exclusive;
// Payload is serialized as JSON, Form as multipart/form-data.
type Request struct {
	Method   string
	Endpoint string
	// Query is appended to the URL for GET/DELETE calls. Empty means no
	// query string.
	Query map[string]string
	// Payload is any JSON-encodable value.
	Payload any
	// Form, when set, switches the body to multipart encoding.
	Form *Form
	// OmitPhoneID drops the phone number id path segment, for account-scoped
	// endpoints or endpoints that already carry their own id.
	OmitPhoneID bool
	// Overrides replaces individual configuration fields for this call only.
	Overrides *Overrides
}

// Response is a successful (2xx) Cloud API reply.
type Response struct {
	StatusCode int
	// Body is the decoded JSON object, nil when the body was empty or not an
	// object.
	Body map[string]any
	// Raw is the body as received.
	Raw []byte
}

// Decode unmarshals the raw response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Send dispatches one request and classifies the outcome: a *Response on 2xx,
// a *ConfigError, *APIError or *TransportError otherwise. It never retries.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	cfg := resolveConfig(c.cfg, req.Overrides)

	if err := validateConfig(cfg, !req.OmitPhoneID); err != nil {
		c.logger.Warn("request rejected by config validation",
			zap.String("endpoint", req.Endpoint), zap.Error(err))
		return nil, err
	}

	url := buildURL(cfg, req.Endpoint, !req.OmitPhoneID)
	reqID := uuid.NewString()

	c.logger.Debug("dispatching request",
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("url", url))

	r := c.httpc.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+cfg.Token)

	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}

	switch {
	case req.Form != nil:
		if len(req.Form.Fields) > 0 {
			r.SetMultipartFormData(req.Form.Fields)
		}
		if f := req.Form.File; f != nil {
			contentType := f.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			r.SetMultipartField(f.FieldName, f.Filename, contentType, bytes.NewReader(f.Content))
		}
	case req.Payload != nil:
		r.SetHeader("Content-Type", "application/json").SetBody(req.Payload)
	}

	resp, err := r.Execute(req.Method, url)
	if err != nil {
		c.logger.Error("transport failure",
			zap.String("request_id", reqID), zap.Error(err))
		return nil, &TransportError{Err: err}
	}

	return c.classify(reqID, resp)
}

// Download fetches a binary resource from a pre-authorized URL, attaching the
// bearer header. The body is opaque bytes, not JSON.
func (c *Client) Download(ctx context.Context, url string, o *Overrides) ([]byte, error) {
	cfg := resolveConfig(c.cfg, o)

	if cfg.Token == "" {
		return nil, &ConfigError{Field: "token"}
	}

	reqID := uuid.NewString()
	c.logger.Debug("downloading media",
		zap.String("request_id", reqID), zap.String("url", url))

	resp, err := c.httpc.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+cfg.Token).
		Get(url)
	if err != nil {
		c.logger.Error("media download transport failure",
			zap.String("request_id", reqID), zap.Error(err))
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		apiErr := newAPIError(resp.StatusCode(), resp.Body())
		c.logger.Warn("media download rejected",
			zap.String("request_id", reqID), zap.Int("status", apiErr.StatusCode))
		return nil, apiErr
	}

	c.logger.Debug("media downloaded",
		zap.String("request_id", reqID), zap.Int("bytes", len(resp.Body())))
	return resp.Body(), nil
}

// VerifyWebhookToken validates Meta's webhook verification handshake against
// the client's verify token and returns the challenge to echo back.
func (c *Client) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", fmt.Errorf("missing hub.mode or hub.verify_token")
	}
	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	cfg := resolveConfig(c.cfg, nil)
	if cfg.VerifyToken == "" {
		return "", &ConfigError{Field: "verifyToken"}
	}
	if verifyToken != cfg.VerifyToken {
		return "", fmt.Errorf("invalid verify token")
	}
	return challenge, nil
}

func (c *Client) classify(reqID string, resp *resty.Response) (*Response, error) {
	status := resp.StatusCode()
	body := resp.Body()

	if status < 200 || status > 299 {
		apiErr := newAPIError(status, body)
		c.logger.Warn("api error response",
			zap.String("request_id", reqID),
			zap.Int("status", status),
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message))
		return nil, apiErr
	}

	out := &Response{StatusCode: status, Raw: body}
	if len(body) > 0 {
		// Best-effort decode; a non-object 2xx body stays raw only.
		_ = json.Unmarshal(body, &out.Body)
	}

	c.logger.Debug("request succeeded",
		zap.String("request_id", reqID), zap.Int("status", status))
	return out, nil
}

// validateConfig checks the fields this call shape requires. The phone number
// id is only mandatory when it is injected into the URL path.
func validateConfig(cfg Config, needPhoneID bool) error {
	if cfg.Token == "" {
		return &ConfigError{Field: "token"}
	}
	if needPhoneID && cfg.PhoneNumberID == "" {
		return &ConfigError{Field: "phoneNumberId"}
	}
	return nil
}

func buildURL(cfg Config, endpoint string, includeID bool) string {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	endpoint = strings.TrimPrefix(endpoint, "/")

	if includeID {
		return fmt.Sprintf("%s/%s/%s/%s", base, cfg.APIVersion, cfg.PhoneNumberID, endpoint)
	}
	return fmt.Sprintf("%s/%s/%s", base, cfg.APIVersion, endpoint)
}
