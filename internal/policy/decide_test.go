package policy

import "testing"

func TestDecide_AllowlistedUserWithChannelPrefix(t *testing.T) {
	p := Policy{DefaultPolicy: PolicyDeny, AllowedUsers: []string{"alice"}}

	d := Decide("whatsapp:alice", p)
	if !d.Allowed {
		t.Fatalf("expected allowed, got denied: %s", d.Reason)
	}
	if d.Reason != ReasonAllowlist {
		t.Fatalf("unexpected reason: %s", d.Reason)
	}
}

func TestDecide_UnknownUserFallsThroughToDefaultDeny(t *testing.T) {
	p := Policy{DefaultPolicy: PolicyDeny, AllowedUsers: []string{"alice"}}

	d := Decide("bob", p)
	if d.Allowed {
		t.Fatal("expected denied under allowlist-only default")
	}
	if d.Reason != ReasonDefaultDeny {
		t.Fatalf("unexpected reason: %s", d.Reason)
	}
}

func TestDecide_DenylistedUserUnderDefaultAllow(t *testing.T) {
	p := Policy{DefaultPolicy: PolicyAllow, DeniedUsers: []string{"eve"}}

	d := Decide("telegram:eve", p)
	if d.Allowed {
		t.Fatal("expected denied for denylisted user")
	}
	if d.Reason != ReasonDenylist {
		t.Fatalf("unexpected reason: %s", d.Reason)
	}
}

func TestDecide_DenyTakesPrecedenceOverAllow(t *testing.T) {
	p := Policy{
		DefaultPolicy: PolicyAllow,
		AllowedUsers:  []string{"mallory"},
		DeniedUsers:   []string{"mallory"},
	}

	d := Decide("mallory", p)
	if d.Allowed {
		t.Fatal("a user on both lists must be denied")
	}
	if d.Reason != ReasonDenylist {
		t.Fatalf("unexpected reason: %s", d.Reason)
	}
}

func TestDecide_DefaultAllow(t *testing.T) {
	p := Policy{DefaultPolicy: PolicyAllow}

	d := Decide("anyone", p)
	if !d.Allowed {
		t.Fatalf("expected allowed under default allow, got: %s", d.Reason)
	}
	if d.Reason != ReasonDefaultAllow {
		t.Fatalf("unexpected reason: %s", d.Reason)
	}
}

func TestDecide_BidirectionalContainment(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		id      string
		allowed bool
	}{
		{
			name:    "entry is substring of identity",
			policy:  Policy{DefaultPolicy: PolicyDeny, AllowedUsers: []string{"alice"}},
			id:      "alice-laptop",
			allowed: true,
		},
		{
			name:    "identity is substring of entry",
			policy:  Policy{DefaultPolicy: PolicyDeny, AllowedUsers: []string{"alice-laptop"}},
			id:      "alice",
			allowed: true,
		},
		{
			name:    "deny entry is substring of identity",
			policy:  Policy{DefaultPolicy: PolicyAllow, DeniedUsers: []string{"eve"}},
			id:      "eve-2",
			allowed: false,
		},
		{
			name:    "no containment either way",
			policy:  Policy{DefaultPolicy: PolicyDeny, AllowedUsers: []string{"alice"}},
			id:      "bob",
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.id, tt.policy)
			if d.Allowed != tt.allowed {
				t.Errorf("Decide(%q): got allowed=%v, want %v (reason: %s)",
					tt.id, d.Allowed, tt.allowed, d.Reason)
			}
		})
	}
}

func TestDecide_EmptyStringsNeverMatch(t *testing.T) {
	// An empty string is contained in everything; a blank list entry or
	// an empty identity must not become a wildcard.
	p := Policy{DefaultPolicy: PolicyDeny, AllowedUsers: []string{""}}
	if d := Decide("bob", p); d.Allowed {
		t.Fatal("blank allowlist entry must not match every user")
	}

	p = Policy{DefaultPolicy: PolicyAllow, DeniedUsers: []string{""}}
	if d := Decide("bob", p); !d.Allowed {
		t.Fatalf("blank denylist entry must not match every user: %s", d.Reason)
	}

	p = Policy{DefaultPolicy: PolicyDeny, AllowedUsers: []string{"alice"}}
	if d := Decide("", p); d.Allowed {
		t.Fatal("empty identity must not match any list entry")
	}
	// An identity that is exactly a bare channel prefix normalizes to
	// empty and falls through to the default.
	if d := Decide("whatsapp:", p); d.Allowed {
		t.Fatal("bare channel prefix must fall through to the default policy")
	}
}

func TestDecide_DoesNotMutatePolicy(t *testing.T) {
	p := Policy{DefaultPolicy: PolicyDeny, AllowedUsers: []string{"alice"}, DeniedUsers: []string{"eve"}}

	_ = Decide("whatsapp:alice", p)
	_ = Decide("eve", p)

	if len(p.AllowedUsers) != 1 || p.AllowedUsers[0] != "alice" {
		t.Fatal("Decide mutated AllowedUsers")
	}
	if len(p.DeniedUsers) != 1 || p.DeniedUsers[0] != "eve" {
		t.Fatal("Decide mutated DeniedUsers")
	}
}
