package policy

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// filePolicy is the mutable subset persisted to disk. LogInstallAttempts
// is a pointer so an absent field falls through to the default on load.
type filePolicy struct {
	AllowedUsers       []string `json:"allowedUsers"`
	DeniedUsers        []string `json:"deniedUsers"`
	DefaultPolicy      string   `json:"defaultPolicy"`
	LogInstallAttempts *bool    `json:"logInstallAttempts"`
}

// HostOverrides carries host-supplied configuration applied on top of
// the persisted file. Nil fields fall through to the loaded value, then
// to the hard defaults.
type HostOverrides struct {
	DefaultPolicy      *string
	AllowedUsers       []string
	DeniedUsers        []string
	LogInstallAttempts *bool
	SharedSecret       string
	ListenPort         int
}

// Update is a partial policy change, as accepted by PUT /api/config.
// Present fields overwrite the corresponding in-memory field.
type Update struct {
	DefaultPolicy      *string   `json:"defaultPolicy"`
	AllowedUsers       *[]string `json:"allowedUsers"`
	DeniedUsers        *[]string `json:"deniedUsers"`
	LogInstallAttempts *bool     `json:"logInstallAttempts"`
}

// Store is the single-writer home of the effective policy. All reads go
// through Snapshot and all writes through the mutation methods, which
// persist the mutable subset before returning.
type Store struct {
	mu     sync.Mutex
	path   string
	policy Policy
}

// NewStore builds the effective policy by merging, in priority order,
// host overrides, the persisted policy file, and hard defaults.
// A missing or unparsable file is treated as absent, never an error.
func NewStore(path string, host HostOverrides) *Store {
	p := loadFile(path)

	if host.DefaultPolicy != nil {
		p.DefaultPolicy = *host.DefaultPolicy
	}
	if host.AllowedUsers != nil {
		p.AllowedUsers = append([]string(nil), host.AllowedUsers...)
	}
	if host.DeniedUsers != nil {
		p.DeniedUsers = append([]string(nil), host.DeniedUsers...)
	}
	if host.LogInstallAttempts != nil {
		p.LogInstallAttempts = *host.LogInstallAttempts
	}
	p.SharedSecret = host.SharedSecret
	p.ListenPort = host.ListenPort

	return &Store{path: path, policy: p}
}

// loadFile reads the persisted policy file and merges it over the hard
// defaults. Parse failure is logged and treated the same as a missing
// file: the defaults win.
func loadFile(path string) Policy {
	p := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}

	var f filePolicy
	if err := json.Unmarshal(data, &f); err != nil {
		slog.Warn("policy file is not valid JSON, using defaults", "path", path, "error", err)
		return p
	}

	if f.DefaultPolicy == PolicyAllow || f.DefaultPolicy == PolicyDeny {
		p.DefaultPolicy = f.DefaultPolicy
	}
	if f.AllowedUsers != nil {
		p.AllowedUsers = f.AllowedUsers
	}
	if f.DeniedUsers != nil {
		p.DeniedUsers = f.DeniedUsers
	}
	if f.LogInstallAttempts != nil {
		p.LogInstallAttempts = *f.LogInstallAttempts
	}
	return p
}

// Snapshot returns a copy of the current policy, safe to read without
// holding the store lock.
func (s *Store) Snapshot() Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.clone()
}

// AllowUser moves a user onto the allowlist, removing any denylist
// entry for the same id, and persists.
func (s *Store) AllowUser(id string) Policy {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.policy.DeniedUsers = removeString(s.policy.DeniedUsers, id)
	if !containsString(s.policy.AllowedUsers, id) {
		s.policy.AllowedUsers = append(s.policy.AllowedUsers, id)
	}
	s.persistLocked()
	return s.policy.clone()
}

// DenyUser moves a user onto the denylist, removing any allowlist entry
// for the same id, and persists.
func (s *Store) DenyUser(id string) Policy {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.policy.AllowedUsers = removeString(s.policy.AllowedUsers, id)
	if !containsString(s.policy.DeniedUsers, id) {
		s.policy.DeniedUsers = append(s.policy.DeniedUsers, id)
	}
	s.persistLocked()
	return s.policy.clone()
}

// RemoveUser drops a user from both lists and persists.
func (s *Store) RemoveUser(id string) Policy {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.policy.AllowedUsers = removeString(s.policy.AllowedUsers, id)
	s.policy.DeniedUsers = removeString(s.policy.DeniedUsers, id)
	s.persistLocked()
	return s.policy.clone()
}

// ApplyUpdate overwrites each field present in the update, re-establishes
// list disjointness with deny precedence, and persists.
func (s *Store) ApplyUpdate(u Update) Policy {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.DefaultPolicy != nil {
		s.policy.DefaultPolicy = *u.DefaultPolicy
	}
	if u.AllowedUsers != nil {
		s.policy.AllowedUsers = append([]string(nil), *u.AllowedUsers...)
	}
	if u.DeniedUsers != nil {
		s.policy.DeniedUsers = append([]string(nil), *u.DeniedUsers...)
	}
	if u.LogInstallAttempts != nil {
		s.policy.LogInstallAttempts = *u.LogInstallAttempts
	}

	// A bulk update may introduce the same id on both lists; the
	// denylist wins, matching the decision engine's tie-break.
	for _, id := range s.policy.DeniedUsers {
		s.policy.AllowedUsers = removeString(s.policy.AllowedUsers, id)
	}

	s.persistLocked()
	return s.policy.clone()
}

// persistLocked writes the mutable policy subset as pretty-printed JSON
// using a temp-file-then-rename so a crash mid-write cannot corrupt the
// file. Write failures are logged, never surfaced: the in-memory policy
// remains authoritative for the process lifetime.
func (s *Store) persistLocked() {
	f := filePolicy{
		AllowedUsers:       s.policy.AllowedUsers,
		DeniedUsers:        s.policy.DeniedUsers,
		DefaultPolicy:      s.policy.DefaultPolicy,
		LogInstallAttempts: &s.policy.LogInstallAttempts,
	}
	if f.AllowedUsers == nil {
		f.AllowedUsers = []string{}
	}
	if f.DeniedUsers == nil {
		f.DeniedUsers = []string{}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		slog.Error("failed to encode policy file", "error", err)
		return
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("failed to create policy directory", "dir", dir, "error", err)
			return
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		slog.Error("failed to write policy file", "path", tmp, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		slog.Error("failed to replace policy file", "path", s.path, "error", err)
	}
}
