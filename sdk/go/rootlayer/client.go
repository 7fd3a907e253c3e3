package rootlayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"PIN-RootLayer/internal/chains"
	xerrors "PIN-RootLayer/internal/errors"
	"PIN-RootLayer/internal/signing"

	"github.com/google/uuid"
)

// DefaultHTTPTimeout defines the timeout used by clients created without a
// custom http.Client. It is intentionally short to avoid hanging network calls.
const DefaultHTTPTimeout = 30 * time.Second

// Client wraps the HTTP interactions with the RootLayer gateway REST API.
// Requests that carry a signature slot are auto-signed before submission when
// a signer and chain registry are configured.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	signer     signing.Signer
	chains     *chains.Registry
	headers    map[string]string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSigner attaches the signer used for request auto-signing.
func WithSigner(signer signing.Signer) Option {
	return func(c *Client) { c.signer = signer }
}

// WithChains attaches the settle-chain registry consulted during signing.
func WithChains(registry *chains.Registry) Option {
	return func(c *Client) { c.chains = registry }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout overrides the default request timeout. Ignored when a custom
// HTTP client is also supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithLogger overrides the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// APIError represents server side validation or internal errors.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return fmt.Sprintf("rootlayer api error (%d): %s - %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("rootlayer api error (%d): %s", e.StatusCode, e.Message)
}

// NewClient instantiates a client for the RootLayer gateway API.
func NewClient(rawURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeConfigurationFailure, err, "invalid base url")
	}
	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		headers:    map[string]string{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Check queries the gateway health endpoint.
func (c *Client) Check(ctx context.Context) (HealthCheckResponse, error) {
	var resp HealthCheckResponse
	if err := c.get(ctx, "/health", nil, &resp); err != nil {
		return HealthCheckResponse{}, err
	}
	return resp, nil
}

// SubmitIntent signs (when needed) and submits a single intent.
func (c *Client) SubmitIntent(ctx context.Context, req *SubmitIntentRequest) (SubmitIntentResponse, error) {
	if req == nil {
		return SubmitIntentResponse{}, xerrors.New(xerrors.CodeInvalidArgument, "nil request")
	}
	if err := c.autoSign(req); err != nil {
		return SubmitIntentResponse{}, err
	}
	var resp SubmitIntentResponse
	if err := c.post(ctx, "/api/v1/intents/submit", req, &resp); err != nil {
		return SubmitIntentResponse{}, err
	}
	return resp, nil
}

// SubmitIntentBatch signs each unsigned item and submits the batch.
func (c *Client) SubmitIntentBatch(ctx context.Context, req *SubmitIntentBatchRequest) (SubmitIntentBatchResponse, error) {
	if req == nil {
		return SubmitIntentBatchResponse{}, xerrors.New(xerrors.CodeInvalidArgument, "nil request")
	}
	if err := c.autoSign(req); err != nil {
		return SubmitIntentBatchResponse{}, err
	}
	var resp SubmitIntentBatchResponse
	if err := c.post(ctx, "/api/v1/intents/submit/batch", req, &resp); err != nil {
		return SubmitIntentBatchResponse{}, err
	}
	return resp, nil
}

// GetIntent fetches one intent by identifier.
func (c *Client) GetIntent(ctx context.Context, intentID string) (Intent, error) {
	var resp Intent
	endpoint := "/api/v1/intents/query/" + url.PathEscape(intentID)
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return Intent{}, err
	}
	return resp, nil
}

// GetIntents lists intents matching the provided filter.
func (c *Client) GetIntents(ctx context.Context, req *GetIntentsRequest) (GetIntentsResponse, error) {
	var resp GetIntentsResponse
	if err := c.get(ctx, "/api/v1/intents/query", queryParams(req), &resp); err != nil {
		return GetIntentsResponse{}, err
	}
	return resp, nil
}

// PostAssignment reports a single assignment callback.
func (c *Client) PostAssignment(ctx context.Context, req *Assignment) (Ack, error) {
	if req == nil {
		return Ack{}, xerrors.New(xerrors.CodeInvalidArgument, "nil request")
	}
	var resp Ack
	if err := c.post(ctx, "/api/v1/callbacks/assignment/submit", req, &resp); err != nil {
		return Ack{}, err
	}
	return resp, nil
}

// PostAssignmentBatch reports a batch of assignment callbacks.
func (c *Client) PostAssignmentBatch(ctx context.Context, req *AssignmentBatch) (Ack, error) {
	if req == nil {
		return Ack{}, xerrors.New(xerrors.CodeInvalidArgument, "nil request")
	}
	var resp Ack
	if err := c.post(ctx, "/api/v1/callbacks/assignments/submit", req, &resp); err != nil {
		return Ack{}, err
	}
	return resp, nil
}

// SubmitDirectIntent signs (when needed) and submits a direct intent routed
// to a specific target agent.
func (c *Client) SubmitDirectIntent(ctx context.Context, req *SubmitDirectIntentRequest) (SubmitDirectIntentResponse, error) {
	if req == nil {
		return SubmitDirectIntentResponse{}, xerrors.New(xerrors.CodeInvalidArgument, "nil request")
	}
	if err := c.autoSign(req); err != nil {
		return SubmitDirectIntentResponse{}, err
	}
	var resp SubmitDirectIntentResponse
	if err := c.post(ctx, "/v1/direct/intents", req, &resp); err != nil {
		return SubmitDirectIntentResponse{}, err
	}
	return resp, nil
}

func (c *Client) autoSign(req any) error {
	if c.signer == nil {
		// Pre-signed requests pass through untouched.
		if signed, err := IsSigned(req); err == nil && signed {
			return nil
		}
		return xerrors.New(xerrors.CodeConfigurationFailure, "signer is required for auto-signing")
	}
	return AutoSign(req, c.signer, c.chains)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return xerrors.Wrap(xerrors.CodeEncodingFailure, err, "encode request")
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, params url.Values, body io.Reader) (*http.Request, error) {
	rel := &url.URL{Path: path.Join(c.baseURL.Path, endpoint)}
	u := c.baseURL.ResolveReference(rel)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "create request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return xerrors.Wrap(xerrors.CodeTransportFailure, err, "perform request")
	}
	defer resp.Body.Close()
	c.logger.Debug("rootlayer request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return xerrors.Wrap(xerrors.CodeTransportFailure, err, "read error response")
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &struct {
				Error *APIError `json:"error"`
			}{Error: apiErr}); err != nil {
				// try direct decode if server returned a flat payload
				_ = json.Unmarshal(data, apiErr)
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = string(bytes.TrimSpace(data))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return xerrors.Wrap(xerrors.CodeEncodingFailure, err, "decode response")
	}
	return nil
}

// queryParams flattens the listing filter into URL query parameters. The
// listing endpoint expects snake_case names, unlike the JSON bodies.
func queryParams(req *GetIntentsRequest) url.Values {
	params := url.Values{}
	if req == nil {
		return params
	}
	setStr := func(key, val string) {
		if val != "" {
			params.Set(key, val)
		}
	}
	setStr("intent_id", req.IntentID)
	setStr("subnet_id", req.SubnetID)
	setStr("status", req.Status)
	setStr("requester", req.Requester)
	if req.MinDeadline > 0 {
		params.Set("min_deadline", strconv.FormatInt(req.MinDeadline, 10))
	}
	setStr("min_tips", req.MinTips)
	if req.Page > 0 {
		params.Set("page", strconv.Itoa(req.Page))
	}
	if req.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(req.PageSize))
	}
	setStr("order_by", req.OrderBy)
	setStr("order_dir", req.OrderDir)
	return params
}
