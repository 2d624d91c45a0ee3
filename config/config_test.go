package config

import (
	"testing"
	"time"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"secretKey": map[string]any{
			"passwordReset": "",
		},
		"token": map[string]any{
			"verificationTtl": "24h",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "SECRETKEY_PASSWORDRESET", want: "secretKey.passwordReset"},
		{envKey: "TOKEN_VERIFICATIONTTL", want: "token.verificationTtl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Token.AccessTTL != 15*time.Minute {
		t.Fatalf("access TTL default = %v, want 15m", cfg.Token.AccessTTL)
	}
	if cfg.Token.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("refresh TTL default = %v, want 168h", cfg.Token.RefreshTTL)
	}
	if cfg.Token.VerificationTTL != 24*time.Hour {
		t.Fatalf("verification TTL default = %v, want 24h", cfg.Token.VerificationTTL)
	}
	if cfg.Token.ResetTTL != time.Hour {
		t.Fatalf("reset TTL default = %v, want 1h", cfg.Token.ResetTTL)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("bcrypt cost default = %d, want 12", cfg.Auth.BcryptCost)
	}
	if cfg.Content.MaxCommentDepth != 8 {
		t.Fatalf("max comment depth default = %d, want 8", cfg.Content.MaxCommentDepth)
	}
}

func TestApplyDefaults_RefusesWeakBcryptCost(t *testing.T) {
	cfg := &Config{Auth: &AuthConfig{BcryptCost: 4}}
	cfg.applyDefaults()

	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("bcrypt cost = %d, want floor of 12", cfg.Auth.BcryptCost)
	}
}
