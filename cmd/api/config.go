package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/helmcode/skillgate/internal/policy"
)

// ServerConfig holds the host-supplied configuration for the gate server.
// Values are loaded from a YAML file and can be overridden by environment
// variables; both override whatever the persisted policy file says.
type ServerConfig struct {
	Gate GateSection `yaml:"gate"`
}

// GateSection contains gate-specific configuration. Pointer fields
// distinguish "not set" from an explicit value so unset fields fall
// through to the persisted policy, then to the defaults.
type GateSection struct {
	PolicyPath         string      `yaml:"policy_path"`
	AuditLogPath       string      `yaml:"audit_log_path"`
	ListenPort         *int        `yaml:"listen_port"`
	SharedSecret       string      `yaml:"shared_secret"`
	DefaultPolicy      *string     `yaml:"default_policy"`
	AllowedUsers       []string    `yaml:"allowed_users"`
	DeniedUsers        []string    `yaml:"denied_users"`
	LogInstallAttempts *bool       `yaml:"log_install_attempts"`
	NATS               NATSSection `yaml:"nats"`
}

// NATSSection holds NATS connection settings.
type NATSSection struct {
	URL string `yaml:"url"`
}

// LoadConfig reads a YAML config file and applies environment variable
// overrides. Environment variables take precedence over YAML values.
func LoadConfig(path string) (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	// Environment variable overrides.
	if v := os.Getenv("POLICY_PATH"); v != "" {
		cfg.Gate.PolicyPath = v
	}
	if v := os.Getenv("AUDIT_LOG_PATH"); v != "" {
		cfg.Gate.AuditLogPath = v
	}
	if v := os.Getenv("SHARED_SECRET"); v != "" {
		cfg.Gate.SharedSecret = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.Gate.NATS.URL = v
	}
	if v := os.Getenv("LISTEN_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parsing LISTEN_PORT %q: %w", v, err)
		}
		cfg.Gate.ListenPort = &port
	}
	if v := os.Getenv("DEFAULT_POLICY"); v != "" {
		cfg.Gate.DefaultPolicy = &v
	}
	if v := os.Getenv("LOG_INSTALL_ATTEMPTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parsing LOG_INSTALL_ATTEMPTS %q: %w", v, err)
		}
		cfg.Gate.LogInstallAttempts = &b
	}

	// Validate.
	if cfg.Gate.DefaultPolicy != nil {
		switch *cfg.Gate.DefaultPolicy {
		case policy.PolicyAllow, policy.PolicyDeny:
		default:
			return nil, fmt.Errorf("default_policy must be %q or %q, got %q",
				policy.PolicyAllow, policy.PolicyDeny, *cfg.Gate.DefaultPolicy)
		}
	}

	// Defaults.
	if cfg.Gate.PolicyPath == "" {
		cfg.Gate.PolicyPath = "skillgate.json"
	}
	if cfg.Gate.AuditLogPath == "" {
		cfg.Gate.AuditLogPath = "logs/install-attempts.jsonl"
	}

	return cfg, nil
}

// Overrides translates the host configuration into the policy store's
// merge input.
func (c *ServerConfig) Overrides() policy.HostOverrides {
	h := policy.HostOverrides{
		DefaultPolicy:      c.Gate.DefaultPolicy,
		AllowedUsers:       c.Gate.AllowedUsers,
		DeniedUsers:        c.Gate.DeniedUsers,
		LogInstallAttempts: c.Gate.LogInstallAttempts,
		SharedSecret:       c.Gate.SharedSecret,
	}
	if c.Gate.ListenPort != nil {
		h.ListenPort = *c.Gate.ListenPort
	}
	return h
}
