// Package events publishes permission decisions to NATS for external
// observers. Publishing is fire-and-forget observability: the gate
// never waits on, or fails because of, the message bus. A nil
// *Publisher is a no-op so deployments without NATS skip it entirely.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Decision event subjects.
const (
	SubjectAllowed = "skillgate.decisions.allowed"
	SubjectDenied  = "skillgate.decisions.denied"
)

// DecisionEvent mirrors one audit record plus the surface that produced it.
type DecisionEvent struct {
	UserID    string    `json:"user_id"`
	Skill     string    `json:"skill"`
	Allowed   bool      `json:"allowed"`
	Reason    string    `json:"reason"`
	Surface   string    `json:"surface"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher wraps a NATS connection for decision events.
type Publisher struct {
	conn *nats.Conn
}

// Connect establishes a connection to the NATS server with unlimited
// reconnects, so a bus restart does not take the gate down with it.
func Connect(url, name string) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(5 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			slog.Info("nats connection closed")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	slog.Info("connected to nats", "url", conn.ConnectedUrl())
	return &Publisher{conn: conn}, nil
}

// Subject returns the subject a decision event is published on.
func Subject(allowed bool) string {
	if allowed {
		return SubjectAllowed
	}
	return SubjectDenied
}

// PublishDecision sends one decision event. Failures are logged and
// swallowed.
func (p *Publisher) PublishDecision(ev DecisionEvent) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to encode decision event", "error", err)
		return
	}
	if err := p.conn.Publish(Subject(ev.Allowed), data); err != nil {
		slog.Warn("failed to publish decision event", "error", err)
	}
}

// Close drains and closes the underlying connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		slog.Warn("nats drain failed", "error", err)
		p.conn.Close()
	}
}
