// Package gateway provides the JSON client for the music-queue server.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
)

// RequestIDHeader carries a per-call id for server-side log correlation.
const RequestIDHeader = "X-Request-Id"

// Options are merged on top of the gateway defaults (GET, no body).
type Options struct {
	Method string
	Body   any
}

// Client is a thin pass-through to the server's JSON API.
// It performs no caching, de-duplication, retry or timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config represents gateway configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client // optional; a client with a cookie jar is created if nil
}

// New creates a new gateway client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("server base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create cookie jar")
		}
		httpClient = &http.Client{Jar: jar}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the server origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call issues one request and decodes the JSON response into out.
// A nil out discards the body after checking that it is valid JSON.
func (c *Client) Call(ctx context.Context, path string, opts Options, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	reqID := uuid.New().String()
	req.Header.Set(RequestIDHeader, reqID)

	zlog.Debug().Str("request_id", reqID).Msgf("%s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rce := &RemoteCallError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   string(data),
		}
		zlog.Debug().Str("request_id", reqID).Msg(rce.Describe())
		return rce
	}

	if out == nil {
		if !json.Valid(data) {
			return errors.Newf("invalid JSON response from %s %s", method, path)
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "failed to parse response from %s %s", method, path)
	}
	return nil
}
