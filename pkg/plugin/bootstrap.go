package plugin

// BootstrapDocument is the bootstrap file the install instruction is
// appended to.
const BootstrapDocument = "CLAUDE.md"

// Lifecycle event values the plugin reacts to.
const (
	EventTypeAgent       = "agent"
	EventActionBootstrap = "bootstrap"
)

// LifecycleEvent is a host lifecycle notification. Only the agent
// bootstrap variant carries a payload the plugin cares about.
type LifecycleEvent struct {
	Type    string
	Action  string
	Context *LifecycleContext
}

// LifecycleContext carries the mutable bootstrap documents, keyed by
// file name. The map is owned by the host; the plugin mutates it in
// place.
type LifecycleContext struct {
	BootstrapFiles map[string]string
}

const installGateInstruction = `

## Skill installation policy

Before installing any skill, call the ` + "`" + ToolCheckName + "`" + ` tool with the
requesting user's id and the skill name. Only proceed if the tool reports the
user is allowed. If the install is blocked, tell the user so and do not try to
install the skill another way.
`

// HandleLifecycle appends the install-gate instruction to the CLAUDE.md
// bootstrap document on an agent bootstrap event, creating the document
// if absent. Every other event is ignored.
func (p *Plugin) HandleLifecycle(ev LifecycleEvent) {
	if ev.Type != EventTypeAgent || ev.Action != EventActionBootstrap {
		return
	}
	if ev.Context == nil || ev.Context.BootstrapFiles == nil {
		return
	}
	ev.Context.BootstrapFiles[BootstrapDocument] += installGateInstruction
}
