package infra

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "PORT", "N8N_API_URL", "N8N_API_KEY",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URI",
		"CORS_ALLOWED_ORIGINS",
		"HTTP_READ_TIMEOUT_SECONDS", "HTTP_WRITE_TIMEOUT_SECONDS", "HTTP_IDLE_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Errorf("AppEnv = %q, want development", cfg.AppEnv)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.AgentBaseURL == "" {
		t.Errorf("AgentBaseURL empty, want a default")
	}
	if cfg.GoogleConfigured() {
		t.Errorf("GoogleConfigured() = true without credentials")
	}
	if cfg.HTTPReadTimeout != 15*time.Second {
		t.Errorf("HTTPReadTimeout = %v, want 15s", cfg.HTTPReadTimeout)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		t.Errorf("CORSAllowedOrigins empty, want defaults")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("N8N_API_URL", "https://agent.internal")
	t.Setenv("N8N_API_KEY", "secret")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("HTTP_WRITE_TIMEOUT_SECONDS", "45")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.AppEnv != "production" {
		t.Errorf("AppEnv = %q, want production", cfg.AppEnv)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AgentBaseURL != "https://agent.internal" || cfg.AgentAPIKey != "secret" {
		t.Errorf("agent settings = %q/%q", cfg.AgentBaseURL, cfg.AgentAPIKey)
	}
	if !cfg.GoogleConfigured() {
		t.Errorf("GoogleConfigured() = false with credentials set")
	}
	if cfg.HTTPWriteTimeout != 45*time.Second {
		t.Errorf("HTTPWriteTimeout = %v, want 45s", cfg.HTTPWriteTimeout)
	}
}

func TestLoadConfigOriginList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{
			name:  "comma separated",
			value: "https://a.example.com,https://b.example.com",
			want:  []string{"https://a.example.com", "https://b.example.com"},
		},
		{
			name:  "whitespace trimmed",
			value: " https://a.example.com , https://b.example.com ",
			want:  []string{"https://a.example.com", "https://b.example.com"},
		},
		{
			name:  "only separators falls back",
			value: " , ,",
			want:  []string{"http://localhost:5000", "http://localhost:5173"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CORS_ALLOWED_ORIGINS", tc.value)
			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if !reflect.DeepEqual(cfg.CORSAllowedOrigins, tc.want) {
				t.Errorf("CORSAllowedOrigins = %#v, want %#v", cfg.CORSAllowedOrigins, tc.want)
			}
		})
	}
}

func TestLoadConfigBadIntFallsBack(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT_SECONDS", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.HTTPReadTimeout != 15*time.Second {
		t.Errorf("HTTPReadTimeout = %v, want default 15s", cfg.HTTPReadTimeout)
	}
}
