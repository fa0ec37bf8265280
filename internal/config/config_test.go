package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setEnv(t *testing.T, key, val string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Setenv(key, val)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "SECRET_KEY", "test-secret")
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("default addr: %q", c.Server.Addr)
	}
	if c.JWT.Algorithm != "HS256" {
		t.Fatalf("default alg: %q", c.JWT.Algorithm)
	}
	if c.JWT.AccessTTLMinutes != 30 || c.JWT.RefreshTTLMinutes != 1440 {
		t.Fatalf("default ttls: %d/%d", c.JWT.AccessTTLMinutes, c.JWT.RefreshTTLMinutes)
	}
	if c.Cache.Kind != "memory" {
		t.Fatalf("default cache: %q", c.Cache.Kind)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":9999"
jwt:
  secret: "yaml-secret"
  algorithm: "HS384"
  access_ttl_minutes: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	setEnv(t, "SECRET_KEY", "env-secret")
	setEnv(t, "ACCESS_TOKEN_EXPIRE_MINUTES", "15")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.JWT.Secret != "env-secret" {
		t.Fatalf("env should win: %q", c.JWT.Secret)
	}
	if c.JWT.AccessTTLMinutes != 15 {
		t.Fatalf("env ttl should win: %d", c.JWT.AccessTTLMinutes)
	}
	if c.Server.Addr != ":9999" {
		t.Fatalf("yaml addr should hold: %q", c.Server.Addr)
	}
	if c.JWT.Algorithm != "HS384" {
		t.Fatalf("yaml alg should hold: %q", c.JWT.Algorithm)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	setEnv(t, "SECRET_KEY", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error without SECRET_KEY")
	}
}

func TestLoad_BadAlgorithm(t *testing.T) {
	setEnv(t, "SECRET_KEY", "s")
	setEnv(t, "ALGORITHM", "RS256")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}
