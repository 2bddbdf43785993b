package main

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/dskvich/clinical-console/pkg/modal"
)

func parseConfig(t *testing.T, environment map[string]string) Config {
	t.Helper()
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	return cfg
}

func TestConfigDefaults(t *testing.T) {
	cfg := parseConfig(t, map[string]string{})

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.UpstreamTimeout != 2*time.Minute || cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected timeouts %v %v", cfg.UpstreamTimeout, cfg.ShutdownTimeout)
	}
	if cfg.Endpoint() != modal.DefaultEndpoint {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint())
	}
}

func TestConfigEndpointResolution(t *testing.T) {
	tests := []struct {
		env  map[string]string
		want string
	}{
		{map[string]string{"MODAL_ENDPOINT": "https://private", "PUBLIC_MODAL_ENDPOINT": "https://public"}, "https://private"},
		{map[string]string{"PUBLIC_MODAL_ENDPOINT": "https://public"}, "https://public"},
		{map[string]string{"MODAL_ENDPOINT": " ", "PUBLIC_MODAL_ENDPOINT": "https://public"}, "https://public"},
		{map[string]string{"MODAL_ENDPOINT": ""}, modal.DefaultEndpoint},
	}

	for _, test := range tests {
		if got := parseConfig(t, test.env).Endpoint(); got != test.want {
			t.Errorf("env %v: got %q, want %q", test.env, got, test.want)
		}
	}
}
