// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     wsstream
// Description: WebSocket transport for log subscriptions
// Author:      Mike Stoffels
// Created:     2026-10-03
// License:     MIT
// ============================================================================

package wsstream

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/stream"
	"github.com/msto63/livelog/pkg/core/logging"
	"github.com/msto63/livelog/pkg/core/version"
)

// SubscribePath is appended to the base URL
const SubscribePath = "/api/subscribe/ws"

// Client opens WebSocket subscriptions. Each text frame is one event.
type Client struct {
	baseURL string
	dialer  websocket.Dialer
	logger  *logging.Logger
}

// New creates a client for an http(s) or ws(s) base URL
func New(baseURL string, handshakeTimeout time.Duration, logger *logging.Logger) *Client {
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		dialer: websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		logger: logger.Named("ws"),
	}
}

// URL returns the ws(s) subscription URL for channel
func (c *Client) URL(channel string) (string, error) {
	u, err := url.Parse(c.baseURL + SubscribePath)
	if err != nil {
		return "", mdwerror.Wrap(err, "invalid server url").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("base_url", c.baseURL)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", mdwerror.New("unsupported scheme " + u.Scheme).
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("base_url", c.baseURL)
	}
	q := u.Query()
	q.Set("channels", channel)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Subscribe dials in the background and reports through h
func (c *Client) Subscribe(ctx context.Context, channel string, h stream.Handler) (stream.Subscription, error) {
	target, err := c.URL(channel)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	go c.run(ctx, channel, target, h, sub)
	return sub, nil
}

func (c *Client) run(ctx context.Context, channel, target string, h stream.Handler, sub *subscription) {
	defer close(sub.done)

	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())

	conn, resp, err := c.dialer.DialContext(ctx, target, header)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		fault := mdwerror.Wrap(err, "failed to connect").
			WithCode(mdwerror.CodeConnectionFailed).
			WithDetail("channel", channel)
		if resp != nil {
			fault = fault.WithDetail("status", resp.StatusCode)
		}
		h.OnError(fault)
		return
	}
	defer conn.Close()

	// unblocks ReadMessage on Close
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	c.logger.Debug("Stream open", "channel", channel)
	h.OnOpen()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			h.OnError(mdwerror.Wrap(err, "failed to read message").
				WithCode(mdwerror.CodeNetworkError).
				WithDetail("channel", channel))
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		h.OnEvent(data)
	}
}

type subscription struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// Close cancels the connection and waits for the reader goroutine
func (s *subscription) Close() error {
	s.once.Do(s.cancel)
	<-s.done
	return nil
}
