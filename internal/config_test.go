package internal

import (
	"testing"
)

func TestDefaultConfigNeedsSecret(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("defaults without a jwt secret should fail validation")
	}
	cfg.Auth.JWTSecret = "0123456789abcdef0123"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults with secret should pass: %v", err)
	}
}

func TestAuthConfigShortSecret(t *testing.T) {
	cfg := AuthConfig{JWTSecret: "short", TokenTTLHours: 72}
	if err := cfg.Validate(); err == nil {
		t.Fatal("short jwt secret should fail validation")
	}
}

func TestAuthConfigZeroTTL(t *testing.T) {
	cfg := AuthConfig{JWTSecret: "0123456789abcdef0123", TokenTTLHours: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero token ttl should fail validation")
	}
}

func TestHTTPConfigPortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
	cfg := HTTPConfig{Port: 8080}
	if err := cfg.Validate(); err != nil {
		t.Errorf("port 8080 should pass: %v", err)
	}
	if cfg.Address() != ":8080" {
		t.Errorf("address = %q", cfg.Address())
	}
}

func TestAnalyzerConfigNegativeDelay(t *testing.T) {
	cfg := AnalyzerConfig{DelayMS: -5}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative delay should fail validation")
	}
}

func TestSQLiteConfigRequiresPath(t *testing.T) {
	cfg := SQLiteConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty sqlite path should fail validation")
	}
}
