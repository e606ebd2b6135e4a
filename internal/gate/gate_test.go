package gate

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/helmcode/skillgate/internal/audit"
	"github.com/helmcode/skillgate/internal/policy"
)

func testGate(t *testing.T) *Gate {
	t.Helper()
	dir := t.TempDir()
	store := policy.NewStore(filepath.Join(dir, "policy.json"), policy.HostOverrides{})
	log := audit.NewLogger(filepath.Join(dir, "audit.jsonl"), func() bool {
		return store.Snapshot().LogInstallAttempts
	})
	return New(store, log, nil)
}

func TestGate_CheckRecordsRawIdentity(t *testing.T) {
	g := testGate(t)
	g.Store.AllowUser("alice")

	res := g.Check("whatsapp:alice", "weather", SurfaceHTTP)
	if !res.Allowed {
		t.Fatalf("expected allowed, got: %s", res.Reason)
	}
	if res.Reason != policy.ReasonAllowlist {
		t.Errorf("unexpected reason: %s", res.Reason)
	}

	recs := g.Audit.Recent(audit.MaxRecent)
	if len(recs) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(recs))
	}
	// The audit trail keeps the raw identifier, pre-normalization.
	if recs[0].UserID != "whatsapp:alice" {
		t.Errorf("audit userId: got %q, want the raw identifier", recs[0].UserID)
	}
	if recs[0].Skill != "weather" || !recs[0].Allowed {
		t.Errorf("unexpected audit record: %+v", recs[0])
	}
}

func TestGate_CheckDefaultsSkillName(t *testing.T) {
	g := testGate(t)

	res := g.Check("bob", "", SurfaceTool)
	if res.Skill != audit.DefaultSkill {
		t.Errorf("skill: got %q, want %q", res.Skill, audit.DefaultSkill)
	}
	if res.Allowed {
		t.Fatal("expected denied under the default policy")
	}
	if !strings.Contains(res.Message, policy.ReasonDefaultDeny) {
		t.Errorf("message should carry the reason, got %q", res.Message)
	}
}

func TestGate_CheckSkipsAuditWhenLoggingDisabled(t *testing.T) {
	g := testGate(t)
	off := false
	g.Store.ApplyUpdate(policy.Update{LogInstallAttempts: &off})

	g.Check("bob", "weather", SurfaceHTTP)

	if recs := g.Audit.Recent(audit.MaxRecent); len(recs) != 0 {
		t.Errorf("expected no audit records, got %d", len(recs))
	}
}
