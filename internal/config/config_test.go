package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.DBPath != "vex.db" || cfg.ServerPort != "8080" || cfg.LogLevel != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %s", cfg.PollInterval)
	}
	if len(cfg.TrackedSKUs) != 0 {
		t.Errorf("TrackedSKUs = %v", cfg.TrackedSKUs)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("API_TOKEN", "")

	if _, err := Load(zerolog.Nop()); err == nil {
		t.Fatal("want error for missing API_TOKEN")
	}
}

func TestLoadParsesSKUListAndInterval(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")
	t.Setenv("TRACKED_SKUS", "RE-VRC-23-0001, RE-VRC-23-0002 ,,RE-VRC-23-0003")
	t.Setenv("POLL_INTERVAL", "30s")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"RE-VRC-23-0001", "RE-VRC-23-0002", "RE-VRC-23-0003"}
	if diff := cmp.Diff(want, cfg.TrackedSKUs); diff != "" {
		t.Errorf("TrackedSKUs (-want +got):\n%s", diff)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %s", cfg.PollInterval)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	t.Setenv("API_TOKEN", "secret")

	for _, raw := range []string{"nonsense", "100ms"} {
		t.Setenv("POLL_INTERVAL", raw)
		if _, err := Load(zerolog.Nop()); err == nil {
			t.Errorf("POLL_INTERVAL=%q: want error", raw)
		}
	}
}
