// Package policy implements the install permission policy: identity
// normalization, the allow/deny decision engine, and the persisted
// policy store shared by every delivery surface.
package policy

// Valid default policies.
const (
	PolicyAllow = "allow"
	PolicyDeny  = "deny"
)

// Policy is the full configuration governing install decisions.
// AllowedUsers and DeniedUsers are kept disjoint by every store mutation.
type Policy struct {
	DefaultPolicy      string   `json:"defaultPolicy"`
	AllowedUsers       []string `json:"allowedUsers"`
	DeniedUsers        []string `json:"deniedUsers"`
	LogInstallAttempts bool     `json:"logInstallAttempts"`

	// SharedSecret and ListenPort are host-supplied only and are never
	// written back to the policy file. An empty secret disables the
	// admin endpoints rather than opening them.
	SharedSecret string `json:"-"`
	ListenPort   int    `json:"-"`
}

// Defaults returns the hard-coded fallback policy: allowlist-only with
// install attempt logging enabled.
func Defaults() Policy {
	return Policy{
		DefaultPolicy:      PolicyDeny,
		LogInstallAttempts: true,
	}
}

// NonDefault reports whether the policy differs from a freshly
// constructed one in a way worth exposing through the read-only status
// tool: a populated list, or an explicit allowlist-only stance.
func (p Policy) NonDefault() bool {
	return len(p.AllowedUsers) > 0 || len(p.DeniedUsers) > 0 || p.DefaultPolicy == PolicyDeny
}

// clone returns a deep copy so callers can hold a snapshot without
// racing store mutations.
func (p Policy) clone() Policy {
	c := p
	c.AllowedUsers = append([]string(nil), p.AllowedUsers...)
	c.DeniedUsers = append([]string(nil), p.DeniedUsers...)
	return c
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
