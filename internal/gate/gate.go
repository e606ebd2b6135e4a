// Package gate wires the decision engine, audit log, and event
// publisher behind a single entry point. The HTTP and in-process tool
// surfaces are thin adapters over Gate.Check, so identical state always
// produces identical decisions regardless of transport.
package gate

import (
	"fmt"
	"time"

	"github.com/helmcode/skillgate/internal/audit"
	"github.com/helmcode/skillgate/internal/events"
	"github.com/helmcode/skillgate/internal/policy"
)

// Delivery surfaces, recorded on published decision events.
const (
	SurfaceHTTP = "http"
	SurfaceTool = "tool"
)

// Gate bundles the shared collaborators of both delivery surfaces.
// Events may be nil when no message bus is configured.
type Gate struct {
	Store  *policy.Store
	Audit  *audit.Logger
	Events *events.Publisher
}

// New creates a Gate.
func New(store *policy.Store, log *audit.Logger, pub *events.Publisher) *Gate {
	return &Gate{Store: store, Audit: log, Events: pub}
}

// Result is the decision as returned to callers on either surface.
type Result struct {
	UserID  string `json:"userId"`
	Skill   string `json:"skill"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Check runs the decision engine against the current policy snapshot,
// records the outcome in the audit log, and publishes a decision event.
// userID is the raw identifier as presented by the caller.
func (g *Gate) Check(userID, skill, surface string) Result {
	skill = audit.SkillOrDefault(skill)

	d := policy.Decide(userID, g.Store.Snapshot())
	g.Audit.Record(userID, skill, d.Allowed, d.Reason)
	g.Events.PublishDecision(events.DecisionEvent{
		UserID:    userID,
		Skill:     skill,
		Allowed:   d.Allowed,
		Reason:    d.Reason,
		Surface:   surface,
		Timestamp: time.Now().UTC(),
	})

	var msg string
	if d.Allowed {
		msg = fmt.Sprintf("User %q may install skill %q.", userID, skill)
	} else {
		msg = fmt.Sprintf("User %q may not install skill %q: %s.", userID, skill, d.Reason)
	}

	return Result{
		UserID:  userID,
		Skill:   skill,
		Allowed: d.Allowed,
		Reason:  d.Reason,
		Message: msg,
	}
}
