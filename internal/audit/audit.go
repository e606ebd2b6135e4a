// Package audit appends one JSON line per permission decision to an
// append-only log file and reads recent entries back for the admin
// surfaces. Write failures never propagate to the caller: a decision
// response must not fail because the audit disk is unhappy.
package audit

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSkill is recorded when the caller did not name a skill.
const DefaultSkill = "unknown"

// MaxRecent caps how many records a read returns.
const MaxRecent = 100

// Record is one immutable audit entry. UserID is the raw identifier as
// the caller presented it, before channel-prefix normalization.
type Record struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	UserID    string `json:"userId"`
	Skill     string `json:"skill"`
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason"`
}

// Logger appends decision records to a newline-delimited JSON file.
// The enabled callback is consulted on every append so the
// logInstallAttempts toggle takes effect without restarting.
type Logger struct {
	path    string
	enabled func() bool
}

// NewLogger creates a Logger writing to path. A nil enabled callback
// means always-on.
func NewLogger(path string, enabled func() bool) *Logger {
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &Logger{path: path, enabled: enabled}
}

// SkillOrDefault substitutes the sentinel skill name for an absent one.
func SkillOrDefault(skill string) string {
	if skill == "" {
		return DefaultSkill
	}
	return skill
}

// Record appends one entry for a decision. It is a no-op while logging
// is disabled, and any filesystem failure is logged and swallowed.
func (l *Logger) Record(userID, skill string, allowed bool, reason string) {
	if !l.enabled() {
		return
	}

	rec := Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		UserID:    userID,
		Skill:     SkillOrDefault(skill),
		Allowed:   allowed,
		Reason:    reason,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		slog.Error("failed to encode audit record", "error", err)
		return
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		slog.Error("failed to create audit log directory", "path", l.path, "error", err)
		return
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("failed to open audit log", "path", l.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		slog.Error("failed to append audit record", "path", l.path, "error", err)
	}
}

// Recent returns up to limit records, newest first, capped at MaxRecent.
// Lines that fail to parse (for example a truncated trailing write from
// a crash) are silently skipped. A missing log file yields no records.
func (l *Logger) Recent(limit int) []Record {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil
	}

	lines := strings.Split(string(data), "\n")
	var out []Record
	for i := len(lines) - 1; i >= 0 && len(out) < limit; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Ping verifies the audit log directory is creatable, for health checks.
func (l *Logger) Ping() error {
	return os.MkdirAll(filepath.Dir(l.path), 0o755)
}
