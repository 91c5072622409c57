package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
)

// Dialect selects the REST API flavour and its authentication header.
type Dialect string

const (
	// DialectToncenter is the toncenter v3 indexer API.
	DialectToncenter Dialect = "toncenter"
	// DialectTonAPI is the tonapi v2 API.
	DialectTonAPI Dialect = "tonapi"
)

const (
	ToncenterMainnetURL = "https://toncenter.com/api/v3/"
	ToncenterTestnetURL = "https://testnet.toncenter.com/api/v3/"
	TonAPIMainnetURL    = "https://tonapi.io/v2/"
	TonAPITestnetURL    = "https://testnet.tonapi.io/v2/"
)

const DefaultTimeout = 30 * time.Second

// BaseURL returns the public endpoint of dialect for the selected network.
func BaseURL(dialect Dialect, testnet bool) (string, error) {
	switch dialect {
	case DialectToncenter:
		if testnet {
			return ToncenterTestnetURL, nil
		}
		return ToncenterMainnetURL, nil
	case DialectTonAPI:
		if testnet {
			return TonAPITestnetURL, nil
		}
		return TonAPIMainnetURL, nil
	default:
		return "", fmt.Errorf("unknown indexer dialect %q", dialect)
	}
}

// Client issues REST calls against one indexer endpoint.
type Client struct {
	lggr       logger.SugaredLogger
	dialect    Dialect
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A zero timeout selects DefaultTimeout.
func NewClient(lggr logger.Logger, dialect Dialect, baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if _, err := BaseURL(dialect, false); err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, errors.New("indexer base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid indexer base URL %q: %w", baseURL, err)
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		lggr:    logger.Sugared(logger.Named(lggr, string(dialect))),
		dialect: dialect,
		// methods are appended to the base URL
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) Dialect() Dialect { return c.dialect }

func (c *Client) BaseURL() string { return c.baseURL }

// Query issues GET {baseURL}{method}?{params} and returns the raw JSON body.
// A top-level "error" field fails the call with *provider.RemoteError
// regardless of the other fields in the response.
func (c *Client) Query(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	reqURL := c.baseURL + method
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", provider.ErrEncoding, err)
	}
	return c.do(req, method)
}

// Post issues POST {baseURL}{method} with payload encoded as JSON.
func (c *Client) Post(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %w", provider.ErrEncoding, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", provider.ErrEncoding, err)
	}
	return c.do(req, method)
}

func (c *Client) do(req *http.Request, method string) (json.RawMessage, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request %s: %w", provider.ErrTransport, method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", provider.ErrTransport, err)
	}
	c.lggr.Debugw("Indexer request", "method", req.Method, "path", method, "status", resp.StatusCode, "bytes", len(body))

	return decodeResponse(resp.StatusCode, body)
}

func (c *Client) setAuth(req *http.Request) {
	if c.apiKey == "" {
		return
	}
	switch c.dialect {
	case DialectToncenter:
		req.Header.Set("X-API-Key", c.apiKey)
	case DialectTonAPI:
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

func decodeResponse(status int, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		if status >= http.StatusBadRequest {
			return nil, remoteError(status, string(trimmed))
		}
		return nil, fmt.Errorf("%w: invalid JSON response: %.200s", provider.ErrDecode, trimmed)
	}

	// only objects can carry an error field
	if trimmed[0] == '{' {
		var envelope errorEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON response: %w", provider.ErrDecode, err)
		}
		if msg, ok := errorMessage(envelope.Error); ok {
			return nil, remoteError(status, msg)
		}
	}
	if status >= http.StatusBadRequest {
		return nil, remoteError(status, string(trimmed))
	}
	return json.RawMessage(body), nil
}

func remoteError(status int, msg string) *provider.RemoteError {
	if msg == "" {
		msg = http.StatusText(status)
	}
	re := &provider.RemoteError{Message: msg}
	if status >= http.StatusBadRequest {
		re.StatusCode = status
	}
	return re
}

// errorMessage extracts the message of a present, non-empty error field.
func errorMessage(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "false", `""`:
		return "", false
	}
	var num float64
	if err := json.Unmarshal(trimmed, &num); err == nil && num == 0 {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(trimmed, &msg); err == nil {
		return msg, true
	}
	return string(trimmed), true
}
