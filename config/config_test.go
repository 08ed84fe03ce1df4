package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Session.CookieName != "crimewatch_session" {
		t.Errorf("cookie name = %q", cfg.Session.CookieName)
	}
	if cfg.Admin.PageSize != 20 {
		t.Errorf("page size = %d", cfg.Admin.PageSize)
	}
	if cfg.Session.LoginPath != "/login" || cfg.Session.AdminPath != "/admin" {
		t.Errorf("paths = %q %q", cfg.Session.LoginPath, cfg.Session.AdminPath)
	}
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"api":{"base_url":"http://file-api"},"admin":{"page_size":10},"session":{"cookie_name":"from_file"}}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PAGE_SIZE", "30")
	t.Setenv("AUTH_ISSUER", "https://login.example.com/tenant/v2.0")
	t.Setenv("LOG_DEBUG", "true")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.BaseURL != "http://file-api" {
		t.Errorf("base url = %q, want file value", cfg.API.BaseURL)
	}
	if cfg.Session.CookieName != "from_file" {
		t.Errorf("cookie name = %q, want file value", cfg.Session.CookieName)
	}
	if cfg.Admin.PageSize != 30 {
		t.Errorf("page size = %d, env should override file", cfg.Admin.PageSize)
	}
	if !cfg.Log.Debug {
		t.Error("LOG_DEBUG should enable debug")
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if got := cfg.Auth.KeySetURL(); got != "https://login.example.com/tenant/discovery/v2.0/keys" {
		t.Errorf("KeySetURL = %q", got)
	}
}

func TestLoadConfigMissingFileIsIgnored(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Admin.PageSize = 0
	cfg.Session.LoginPath = "login"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestKeySetURLExplicit(t *testing.T) {
	a := AuthConfig{Issuer: "https://issuer", JWKSURL: "https://keys"}
	if a.KeySetURL() != "https://keys" {
		t.Fatalf("explicit JWKS URL should win, got %q", a.KeySetURL())
	}
	if (AuthConfig{}).KeySetURL() != "" {
		t.Fatal("no issuer should yield empty URL")
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "3306", User: "app", Password: "secret", DBName: "crimewatch"}
	if !d.Enabled() {
		t.Fatalf("database with host and name should be enabled")
	}
	dsn := d.DSN()
	for _, want := range []string{"app:secret@tcp(db:3306)/crimewatch", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("DSN %q missing %q", dsn, want)
		}
	}
}
