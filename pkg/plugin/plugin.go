// Package plugin exposes the permission gate as in-process tools for a
// host agent runtime. It is the second delivery surface: the host calls
// the tools synchronously instead of going over HTTP, and both surfaces
// share the same decision, audit, and policy code.
package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/helmcode/skillgate/internal/audit"
	"github.com/helmcode/skillgate/internal/events"
	"github.com/helmcode/skillgate/internal/gate"
	"github.com/helmcode/skillgate/internal/policy"
)

// Tool names as registered with the host runtime.
const (
	ToolCheckName  = "skill_permission_check"
	ToolStatusName = "skill_permission_status"
)

// Tool describes one named operation the host runtime can invoke. The
// handler returns its result serialized as text for host consumption.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     func(ctx context.Context, args json.RawMessage) (string, error)
}

// Registrar is the capability a host passes in to receive tool
// registrations. It replaces any global-binding discovery: the host
// either injects one or the plugin runs without tools.
type Registrar interface {
	RegisterTool(tool Tool) error
}

// Options configures a Plugin.
type Options struct {
	// ConfigPath is the persisted policy JSON file.
	ConfigPath string
	// AuditLogPath is the newline-delimited JSON decision log.
	AuditLogPath string
	// NATSURL enables decision event publishing when non-empty.
	NATSURL string
}

// Plugin is the in-process deployment form of the gate.
type Plugin struct {
	gate *gate.Gate
}

// New builds the shared gate core from the given paths. A NATS
// connection failure is logged and tolerated: the gate works without
// the event bus.
func New(opts Options) *Plugin {
	store := policy.NewStore(opts.ConfigPath, policy.HostOverrides{})
	log := audit.NewLogger(opts.AuditLogPath, func() bool {
		return store.Snapshot().LogInstallAttempts
	})

	var pub *events.Publisher
	if opts.NATSURL != "" {
		var err error
		pub, err = events.Connect(opts.NATSURL, "skillgate-plugin")
		if err != nil {
			slog.Warn("decision events disabled", "error", err)
			pub = nil
		}
	}

	return &Plugin{gate: gate.New(store, log, pub)}
}

// Attach registers the permission tools with the host. The status tool
// is only registered when the policy actually constrains installs; the
// HTTP surface exposes its config endpoint unconditionally, a deliberate
// difference between the two deployment forms.
func (p *Plugin) Attach(reg Registrar) error {
	if reg == nil {
		slog.Warn("no tool registrar provided, permission tools not registered")
		return nil
	}

	if err := reg.RegisterTool(p.checkTool()); err != nil {
		return fmt.Errorf("registering %s: %w", ToolCheckName, err)
	}

	if p.gate.Store.Snapshot().NonDefault() {
		if err := reg.RegisterTool(p.statusTool()); err != nil {
			return fmt.Errorf("registering %s: %w", ToolStatusName, err)
		}
	}

	return nil
}

var checkInputSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "userId": {
      "type": "string",
      "description": "Identifier of the user requesting the install, optionally prefixed with a channel marker such as whatsapp:"
    },
    "skillName": {
      "type": "string",
      "description": "Name of the skill the user wants to install"
    }
  },
  "required": ["userId"]
}`)

var statusInputSchema = json.RawMessage(`{
  "type": "object",
  "properties": {}
}`)

type checkArgs struct {
	UserID    string `json:"userId"`
	SkillName string `json:"skillName"`
}

func (p *Plugin) checkTool() Tool {
	return Tool{
		Name:        ToolCheckName,
		Description: "Check whether a user is allowed to install a skill. Must be called before any skill installation.",
		InputSchema: checkInputSchema,
		Handler: func(_ context.Context, args json.RawMessage) (string, error) {
			var in checkArgs
			if len(args) > 0 {
				if err := json.Unmarshal(args, &in); err != nil {
					return "", fmt.Errorf("invalid tool arguments: %w", err)
				}
			}
			if in.UserID == "" {
				return "", errors.New("userId is required")
			}

			res := p.gate.Check(in.UserID, in.SkillName, gate.SurfaceTool)
			out, err := json.Marshal(res)
			if err != nil {
				return "", fmt.Errorf("encoding result: %w", err)
			}
			return string(out), nil
		},
	}
}

// statusResult mirrors the non-secret config fields of the HTTP surface.
type statusResult struct {
	DefaultPolicy      string   `json:"defaultPolicy"`
	AllowedUsers       []string `json:"allowedUsers"`
	DeniedUsers        []string `json:"deniedUsers"`
	LogInstallAttempts bool     `json:"logInstallAttempts"`
}

func (p *Plugin) statusTool() Tool {
	return Tool{
		Name:        ToolStatusName,
		Description: "Show the current skill install policy: default stance and the allow and deny lists.",
		InputSchema: statusInputSchema,
		Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
			snap := p.gate.Store.Snapshot()
			st := statusResult{
				DefaultPolicy:      snap.DefaultPolicy,
				AllowedUsers:       snap.AllowedUsers,
				DeniedUsers:        snap.DeniedUsers,
				LogInstallAttempts: snap.LogInstallAttempts,
			}
			if st.AllowedUsers == nil {
				st.AllowedUsers = []string{}
			}
			if st.DeniedUsers == nil {
				st.DeniedUsers = []string{}
			}
			out, err := json.Marshal(st)
			if err != nil {
				return "", fmt.Errorf("encoding status: %w", err)
			}
			return string(out), nil
		},
	}
}
