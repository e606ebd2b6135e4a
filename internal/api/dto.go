// Package api implements the Fiber HTTP API for the skill install
// permission gate. It is a thin adapter: every decision goes through
// the shared gate so the in-process tool surface behaves identically.
package api

import (
	"github.com/helmcode/skillgate/internal/audit"
	"github.com/helmcode/skillgate/internal/policy"
)

// UserRequest is the payload for the POST /api/users/* endpoints.
type UserRequest struct {
	UserID string `json:"userId"`
}

// ConfigResponse exposes the mutable, non-secret policy fields.
type ConfigResponse struct {
	DefaultPolicy      string   `json:"defaultPolicy"`
	AllowedUsers       []string `json:"allowedUsers"`
	DeniedUsers        []string `json:"deniedUsers"`
	LogInstallAttempts bool     `json:"logInstallAttempts"`
}

// LogsResponse is the payload for GET /api/logs.
type LogsResponse struct {
	Logs  []audit.Record `json:"logs"`
	Count int            `json:"count"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// configResponse builds a ConfigResponse with non-nil lists so clients
// always receive JSON arrays.
func configResponse(p policy.Policy) ConfigResponse {
	r := ConfigResponse{
		DefaultPolicy:      p.DefaultPolicy,
		AllowedUsers:       p.AllowedUsers,
		DeniedUsers:        p.DeniedUsers,
		LogInstallAttempts: p.LogInstallAttempts,
	}
	if r.AllowedUsers == nil {
		r.AllowedUsers = []string{}
	}
	if r.DeniedUsers == nil {
		r.DeniedUsers = []string{}
	}
	return r
}
