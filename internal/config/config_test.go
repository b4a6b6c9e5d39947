package config

import (
	"testing"
	"time"

	"github.com/mercy-korir600/LiveDev/internal/identity"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.WebSocket.PingInterval != 30*time.Second {
		t.Errorf("ping interval = %v, want 30s", cfg.WebSocket.PingInterval)
	}
	if cfg.WebSocket.PongWait != 60*time.Second {
		t.Errorf("pong wait = %v, want 60s", cfg.WebSocket.PongWait)
	}
	if cfg.Relay.QueueSize != 64 {
		t.Errorf("queue size = %d, want 64", cfg.Relay.QueueSize)
	}
	if cfg.Relay.IdleTimeout != 5*time.Minute {
		t.Errorf("idle timeout = %v, want 5m", cfg.Relay.IdleTimeout)
	}
	if cfg.Relay.JoinTimeout != 10*time.Second {
		t.Errorf("join timeout = %v, want 10s", cfg.Relay.JoinTimeout)
	}
	if cfg.Relay.CodeLength != identity.DefaultCodeLength {
		t.Errorf("code length = %d, want %d", cfg.Relay.CodeLength, identity.DefaultCodeLength)
	}
	if cfg.Relay.CodeAlphabet != identity.DefaultCodeAlphabet {
		t.Errorf("code alphabet = %q, want default", cfg.Relay.CodeAlphabet)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("RELAY_QUEUE_SIZE", "128")
	t.Setenv("RELAY_IDLE_TIMEOUT", "90s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("server port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Relay.QueueSize != 128 {
		t.Errorf("queue size = %d, want 128", cfg.Relay.QueueSize)
	}
	if cfg.Relay.IdleTimeout != 90*time.Second {
		t.Errorf("idle timeout = %v, want 90s", cfg.Relay.IdleTimeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}
