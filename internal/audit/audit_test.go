package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger(t *testing.T, enabled bool) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "install-attempts.jsonl")
	return NewLogger(path, func() bool { return enabled }), path
}

func TestLogger_RecordAppendsOneLine(t *testing.T) {
	l, path := testLogger(t, true)

	l.Record("whatsapp:alice", "weather", true, "user is on the allowlist")
	l.Record("bob", "", false, "default policy: deny (allowlist-only)")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	recs := l.Recent(MaxRecent)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// Newest first.
	if recs[0].UserID != "bob" || recs[1].UserID != "whatsapp:alice" {
		t.Errorf("records not newest-first: %v, %v", recs[0].UserID, recs[1].UserID)
	}
	if recs[0].Skill != DefaultSkill {
		t.Errorf("absent skill should record the sentinel, got %q", recs[0].Skill)
	}
	if recs[1].ID == "" || recs[1].Timestamp == "" {
		t.Error("expected non-empty id and timestamp")
	}
}

func TestLogger_DisabledIsNoOp(t *testing.T) {
	l, path := testLogger(t, false)

	l.Record("alice", "weather", true, "user is on the allowlist")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled logger should not create the log file")
	}
	if recs := l.Recent(MaxRecent); len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}

func TestLogger_RecentCapsAtMaxRecent(t *testing.T) {
	l, _ := testLogger(t, true)

	for i := 0; i < MaxRecent+50; i++ {
		l.Record(fmt.Sprintf("user-%d", i), "skill", false, "default policy: deny (allowlist-only)")
	}

	recs := l.Recent(0)
	if len(recs) != MaxRecent {
		t.Fatalf("expected %d records, got %d", MaxRecent, len(recs))
	}
	// The newest record is the last one written.
	if recs[0].UserID != fmt.Sprintf("user-%d", MaxRecent+49) {
		t.Errorf("newest record first: got %q", recs[0].UserID)
	}
}

func TestLogger_RecentSkipsMalformedLines(t *testing.T) {
	l, path := testLogger(t, true)

	l.Record("alice", "weather", true, "user is on the allowlist")

	// Simulate a truncated write from a crash plus stray garbage.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening log: %v", err)
	}
	if _, err := f.WriteString("{\"id\":\"trunc\nnot json at all\n"); err != nil {
		t.Fatalf("appending garbage: %v", err)
	}
	f.Close()

	l.Record("bob", "weather", false, "user is on the denylist")

	recs := l.Recent(MaxRecent)
	if len(recs) != 2 {
		t.Fatalf("expected 2 parseable records, got %d", len(recs))
	}
	if recs[0].UserID != "bob" || recs[1].UserID != "alice" {
		t.Errorf("unexpected records: %q, %q", recs[0].UserID, recs[1].UserID)
	}
}

func TestLogger_RecentMissingFile(t *testing.T) {
	l, _ := testLogger(t, true)

	if recs := l.Recent(MaxRecent); recs != nil {
		t.Errorf("expected nil for a missing log file, got %d records", len(recs))
	}
}

func TestSkillOrDefault(t *testing.T) {
	if got := SkillOrDefault(""); got != DefaultSkill {
		t.Errorf("got %q, want %q", got, DefaultSkill)
	}
	if got := SkillOrDefault("weather"); got != "weather" {
		t.Errorf("got %q, want %q", got, "weather")
	}
}
