package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/posbridge/pkg/backend"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Broker control events.
const (
	frameConnectionEstablished = "connection_established"
	frameSubscribe             = "subscribe"
	frameSubscriptionSucceeded = "subscription_succeeded"
)

// frame is the broker's wire envelope.
type frame struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ChannelAuthorizer grants private-channel subscriptions; the backend client
// satisfies it.
type ChannelAuthorizer interface {
	ChannelAuth(ctx context.Context, socketID, channel string) (*backend.ChannelAuth, error)
}

// PushSource subscribes to the tenant's private broker channels over a
// websocket and feeds validated events to the handler. When it returns an
// error the Manager degrades to polling and retries with backoff.
type PushSource struct {
	brokerURL string
	appKey    string
	tenant    string
	auth      ChannelAuthorizer
	logger    *zap.Logger
	dialer    *websocket.Dialer
}

func NewPushSource(brokerURL, appKey, tenant string, auth ChannelAuthorizer, logger *zap.Logger) *PushSource {
	return &PushSource{
		brokerURL: brokerURL,
		appKey:    appKey,
		tenant:    tenant,
		auth:      auth,
		logger:    logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (p *PushSource) Name() string { return TransportPush }

// Available reports whether the push transport is configured at all.
func (p *PushSource) Available() bool {
	return p.brokerURL != "" && p.appKey != ""
}

func (p *PushSource) Run(ctx context.Context, h Handler) error {
	if !p.Available() {
		return ErrPushUnavailable
	}

	url := fmt.Sprintf("%s/app/%s", p.brokerURL, p.appKey)
	conn, _, err := p.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial broker: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when the manager stops us.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	socketID, err := p.awaitEstablished(conn)
	if err != nil {
		return err
	}

	channels := []string{OrdersChannel(p.tenant), DashboardChannel(p.tenant)}
	for _, channel := range channels {
		if err := p.subscribe(ctx, conn, socketID, channel); err != nil {
			return err
		}
	}

	return p.readLoop(ctx, conn, h)
}

func (p *PushSource) awaitEstablished(conn *websocket.Conn) (string, error) {
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		return "", fmt.Errorf("failed to read handshake: %w", err)
	}
	if f.Event != frameConnectionEstablished {
		return "", fmt.Errorf("unexpected handshake event %q", f.Event)
	}
	var body struct {
		SocketID string `json:"socket_id"`
	}
	if err := json.Unmarshal(f.Data, &body); err != nil || body.SocketID == "" {
		return "", fmt.Errorf("handshake missing socket id")
	}
	return body.SocketID, nil
}

func (p *PushSource) subscribe(ctx context.Context, conn *websocket.Conn, socketID, channel string) error {
	grant, err := p.auth.ChannelAuth(ctx, socketID, channel)
	if err != nil {
		return fmt.Errorf("failed to authorize %s: %w", channel, err)
	}

	data, _ := json.Marshal(map[string]string{
		"channel": channel,
		"auth":    grant.Auth,
	})
	if err := conn.WriteJSON(frame{Event: frameSubscribe, Data: data}); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	return nil
}

func (p *PushSource) readLoop(ctx context.Context, conn *websocket.Conn, h Handler) error {
	connected := false
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("broker read failed: %w", err)
		}

		switch f.Event {
		case frameSubscriptionSucceeded:
			if !connected {
				connected = true
				h.SourceConnected(p.Name())
			}
			continue
		case frameConnectionEstablished:
			continue
		}

		ev, err := ParseEvent(f.Event, f.Data)
		if err != nil {
			p.logger.Warn("dropping malformed broker event",
				zap.String("event", f.Event),
				zap.Error(err))
			continue
		}
		h.HandleEvent(ctx, ev, TransportPush)
	}
}
