// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     sse
// Description: Server-sent events transport for log subscriptions
// Author:      Mike Stoffels
// Created:     2026-10-03
// License:     MIT
// ============================================================================

// Package sse subscribes to GET {base}/api/subscribe?channels=<channel> and
// forwards every default-type event's data to a stream.Handler.
package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/stream"
	"github.com/msto63/livelog/pkg/core/logging"
	"github.com/msto63/livelog/pkg/core/version"
)

// SubscribePath is appended to the base URL
const SubscribePath = "/api/subscribe"

// Client opens SSE subscriptions
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logging.Logger

	mu          sync.Mutex
	lastChannel string
	lastEventID string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. It must not set a
// Timeout, which would cut the stream.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for baseURL. connectTimeout bounds dialing and the
// wait for response headers; zero means 10s.
func New(baseURL string, connectTimeout time.Duration, opts ...Option) *Client {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
				ResponseHeaderTimeout: connectTimeout,
				TLSHandshakeTimeout:   connectTimeout,
			},
		},
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("sse")
	return c
}

// URL returns the subscription URL for channel
func (c *Client) URL(channel string) (string, error) {
	u, err := url.Parse(c.baseURL + SubscribePath)
	if err != nil {
		return "", mdwerror.Wrap(err, "invalid server url").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("base_url", c.baseURL)
	}
	q := u.Query()
	q.Set("channels", channel)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Subscribe starts the request in the background. Outcomes are reported
// through h; nothing is reported after the subscription was closed.
func (c *Client) Subscribe(ctx context.Context, channel string, h stream.Handler) (stream.Subscription, error) {
	target, err := c.URL(channel)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, mdwerror.Wrap(err, "build subscribe request").WithCode(mdwerror.CodeInvalidInput)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", version.UserAgent())
	if id := c.resumeID(channel); id != "" {
		req.Header.Set("Last-Event-ID", id)
	}

	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	go c.run(ctx, channel, req, h, sub)
	return sub, nil
}

func (c *Client) run(ctx context.Context, channel string, req *http.Request, h stream.Handler, sub *subscription) {
	defer close(sub.done)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			h.OnError(mdwerror.Wrap(err, "connect").
				WithCode(mdwerror.CodeConnectionFailed).
				WithDetail("channel", channel))
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.OnError(mdwerror.New(fmt.Sprintf("unexpected status %d", resp.StatusCode)).
			WithCode(mdwerror.CodeServiceUnavailable).
			WithDetail("channel", channel).
			WithDetail("status", resp.StatusCode))
		return
	}

	c.logger.Debug("Stream open", "channel", channel, "status", resp.StatusCode)
	h.OnOpen()

	reader := NewReader(resp.Body)
	for {
		ev, err := reader.Next()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			h.OnError(mdwerror.Wrap(err, "stream ended").
				WithCode(mdwerror.CodeNetworkError).
				WithDetail("channel", channel))
			return
		}

		if ev.HasID {
			c.remember(channel, ev.ID)
		}
		if len(ev.Data) == 0 {
			continue
		}
		if !ev.IsMessage() {
			c.logger.Debug("Ignoring named event", "channel", channel, "event", ev.Type)
			continue
		}
		if ctx.Err() != nil {
			return
		}
		h.OnEvent(ev.Data)
	}
}

func (c *Client) remember(channel, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastChannel = channel
	c.lastEventID = id
}

func (c *Client) resumeID(channel string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if channel != c.lastChannel {
		return ""
	}
	return c.lastEventID
}

type subscription struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// Close cancels the request and waits for the reader goroutine
func (s *subscription) Close() error {
	s.once.Do(s.cancel)
	<-s.done
	return nil
}
