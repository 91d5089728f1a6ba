package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "a-secret-of-sufficient-length", AccessTokenTTL: time.Hour},
		Mail:   MailConfig{Provider: "console"},
		Tutoring: TutoringConfig{
			RiskThreshold:           7,
			DefaultRequiredSessions: 3,
			MaxRequiredSessions:     10,
			Timezone:                "America/Guayaquil",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret is required"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "at least 16"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero threshold", func(c *Config) { c.Tutoring.RiskThreshold = 0 }, "risk_threshold"},
		{"threshold above scale", func(c *Config) { c.Tutoring.RiskThreshold = 11 }, "risk_threshold"},
		{"default above max", func(c *Config) { c.Tutoring.DefaultRequiredSessions = 11 }, "default_required_sessions"},
		{"default zero", func(c *Config) { c.Tutoring.DefaultRequiredSessions = 0 }, "default_required_sessions"},
		{"unknown timezone", func(c *Config) { c.Tutoring.Timezone = "Mars/Olympus" }, "timezone"},
		{"sendgrid without key", func(c *Config) { c.Mail.Provider = "sendgrid" }, "sendgrid_api_key"},
		{"unknown provider", func(c *Config) { c.Mail.Provider = "pigeon" }, "unknown mail.provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
auth:
  jwt_secret: "file-secret-0123456789"
tutoring:
  default_required_sessions: 4
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("SAI_SERVER_PORT", "9191")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("env should override file, got port %d", cfg.Server.Port)
	}
	if cfg.Tutoring.DefaultRequiredSessions != 4 {
		t.Errorf("expected 4 sessions from file, got %d", cfg.Tutoring.DefaultRequiredSessions)
	}
	if cfg.Tutoring.RiskThreshold != 7 {
		t.Errorf("expected default threshold 7, got %v", cfg.Tutoring.RiskThreshold)
	}
	if cfg.Auth.AccessTokenTTL != 8*time.Hour {
		t.Errorf("expected default ttl 8h, got %v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Tutoring.Location().String() != "America/Guayaquil" {
		t.Errorf("unexpected location %v", cfg.Tutoring.Location())
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	c := &TutoringConfig{Timezone: "Nowhere/Invalid"}
	if c.Location() != time.UTC {
		t.Errorf("expected UTC fallback, got %v", c.Location())
	}
}
