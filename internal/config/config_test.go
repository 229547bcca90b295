package config

import (
	"os"
	"testing"
)

func TestGetEnvWithDefault(t *testing.T) {
	const key = "TEST_APP_PORT"

	// Unset -> default value wins.
	_ = os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "9000" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "9000")
	}

	// Set -> env value wins.
	if err := os.Setenv(key, "8080"); err != nil {
		t.Fatalf("Setenv error: %v", err)
	}
	defer os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "8080" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "8080")
	}
}

func TestLoadReadsPortAndKeys(t *testing.T) {
	_ = os.Setenv("APP_PORT", "1234")
	_ = os.Setenv("NEWSAPI_KEY", "k1")
	_ = os.Setenv("NEWSDATA_KEY", "k2")
	defer func() {
		_ = os.Unsetenv("APP_PORT")
		_ = os.Unsetenv("NEWSAPI_KEY")
		_ = os.Unsetenv("NEWSDATA_KEY")
	}()

	cfg := Load()
	if cfg.AppPort != "1234" {
		t.Fatalf("AppPort = %q, want %q", cfg.AppPort, "1234")
	}
	if cfg.NewsAPIKey != "k1" || cfg.NewsDataKey != "k2" {
		t.Fatalf("API keys not loaded correctly: %+v", cfg)
	}
}
