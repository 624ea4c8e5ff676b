package agentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getmockd/feignbridge/pkg/logging"
)

// Literal replies.
const (
	ReplyPong       = "pong"
	ReplyOK         = "OK"
	ReplyDeleted    = "Deleted"
	ReplyNotStarted = "Spring Boot application not started."
	ErrorPrefix     = "Error: "
)

// NoPort marks an unknown agent port.
const NoPort = -1

// Default transport timeouts.
const (
	DefaultDialTimeout   = 2 * time.Second
	DefaultHeaderTimeout = 3 * time.Second
	DefaultTimeout       = 5 * time.Second
)

// maxReplyBytes caps how much of a reply body is read.
const maxReplyBytes = 1 << 20

// Endpoint returns the agent host and port. It is called on every request so
// a reloaded configuration takes effect immediately.
type Endpoint func() (host string, port int)

// Static returns an Endpoint that always answers host and port.
func Static(host string, port int) Endpoint {
	return func() (string, int) { return host, port }
}

// Payload is the body of /update and /delete.
type Payload struct {
	MethodSignature string `json:"methodSignature"`
	JSON            string `json:"json"`
}

// Client talks to the agent.
type Client struct {
	endpoint   Endpoint
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its timeouts are used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the overall per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the agent found at endpoint.
func New(endpoint Endpoint, opts ...Option) *Client {
	if endpoint == nil {
		endpoint = Static("localhost", NoPort)
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: NewHTTPClient(DefaultDialTimeout, DefaultHeaderTimeout, DefaultTimeout),
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient builds an HTTP client with separate dial, response header
// and overall deadlines.
func NewHTTPClient(dial, header, overall time.Duration) *http.Client {
	return &http.Client{
		Timeout: overall,
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: dial}).DialContext,
			ResponseHeaderTimeout: header,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       30 * time.Second,
		},
	}
}

// BaseURL returns the current agent URL, or "" when no port is known.
func (c *Client) BaseURL() string {
	host, port := c.endpoint()
	if port <= 0 {
		return ""
	}
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// Ping asks the agent whether the application is up. A live agent answers
// ReplyPong.
func (c *Client) Ping(ctx context.Context) string {
	base := c.BaseURL()
	if base == "" {
		return ReplyNotStarted
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/ping", nil)
	if err != nil {
		return errorReply(err)
	}
	return c.do(req)
}

// Update installs json as the mock for signature.
func (c *Client) Update(ctx context.Context, signature, json string) string {
	if err := Validate(json); err != nil {
		c.log.Warn("refusing invalid mock JSON", "signature", signature, "error", err)
		return errorReply(fmt.Errorf("invalid mock JSON: %w", err))
	}
	return c.post(ctx, "/update", signature, Compact(json))
}

// Clear removes the mock for signature.
func (c *Client) Clear(ctx context.Context, signature string) string {
	return c.post(ctx, "/delete", signature, "")
}

func (c *Client) post(ctx context.Context, path, signature, text string) string {
	base := c.BaseURL()
	if base == "" {
		return ReplyNotStarted
	}
	body, err := json.Marshal(Payload{MethodSignature: signature, JSON: text})
	if err != nil {
		return errorReply(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewReader(body))
	if err != nil {
		return errorReply(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) string {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("agent request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return errorReply(err)
	}
	defer func() { _ = resp.Body.Close() }()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return errorReply(err)
	}
	c.log.Debug("agent replied", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
	return string(reply)
}

func errorReply(err error) string {
	return ErrorPrefix + err.Error()
}
