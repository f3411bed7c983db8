// Package adminapi is a client of the serveradmin remote query API.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"serveradmin/crypto"

	"github.com/sirupsen/logrus"
)

// Request headers used to authenticate against the server.
const (
	ApplicationHeader   = "X-Application"
	TimestampHeader     = "X-Timestamp"
	SecurityTokenHeader = "X-SecurityToken"
)

// Error is an error reported by the server.
type Error struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *Error) Error() string {
	if e.Type == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// signingTransport signs every request with the application's auth token.
type signingTransport struct {
	authToken string
	now       func() time.Time
	base      http.RoundTripper
}

func (t *signingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	signed := req.Clone(req.Context())
	signed.Body = io.NopCloser(bytes.NewReader(body))
	signed.ContentLength = int64(len(body))

	timestamp := t.now().Unix()
	signed.Header.Set(ApplicationHeader, crypto.ApplicationID(t.authToken))
	signed.Header.Set(TimestampHeader, strconv.FormatInt(timestamp, 10))
	signed.Header.Set(SecurityTokenHeader, crypto.SecurityToken(t.authToken, timestamp, body))

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(signed)
}

// Client talks to a serveradmin server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the configured server.
func NewClient(conf Configuration) (*Client, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   conf.TimeoutDuration(),
			Transport: &signingTransport{authToken: conf.AuthToken, now: time.Now},
		},
	}, nil
}

type response struct {
	Status  string          `json:"status"`
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// call posts data to the endpoint and returns the raw result.
func (c *Client) call(ctx context.Context, endpoint string, data interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("Unable to serialize request. Err: %v", err)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	logrus.Debugf("POST %s %s", url, body)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Request to %s failed. Err: %v", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Unable to read response of %s. Err: %v", url, err)
	}

	var r response
	if err := json.Unmarshal(respBody, &r); err != nil {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Unexpected response from %s (%s)", url, resp.Status),
		}
	}
	if r.Status != "success" {
		return nil, &Error{StatusCode: resp.StatusCode, Type: r.Type, Message: r.Message}
	}
	return r.Result, nil
}
