package config

import (
	"testing"
	"time"

	"pecha/game"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"PECHA_ADDR", "PECHA_TICK_HZ", "PECHA_BROADCAST_HZ", "PECHA_FIELD_WIDTH", "PECHA_STALE_AFTER"} {
		t.Setenv(name, "")
	}
	s, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != Defaults() {
		t.Fatalf("expected defaults, got %+v", s)
	}
	if s.Tuning() != game.DefaultTuning() {
		t.Fatalf("default settings should produce the default tuning")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PECHA_ADDR", ":9000")
	t.Setenv("PECHA_TICK_HZ", "120")
	t.Setenv("PECHA_BROADCAST_HZ", "20")
	t.Setenv("PECHA_STALE_AFTER", "5s")
	t.Setenv("PECHA_FIELD_WIDTH", "800")
	t.Setenv("PECHA_FIELD_HEIGHT", "600")
	t.Setenv("PECHA_SEED", "42")

	s, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Addr != ":9000" || s.TickHz != 120 || s.BroadcastHz != 20 || s.StaleAfter != 5*time.Second || s.Seed != 42 {
		t.Fatalf("overrides not applied: %+v", s)
	}
	tu := s.Tuning()
	if tu.Width != 800 || tu.Height != 600 {
		t.Fatalf("tuning ignores field size: %vx%v", tu.Width, tu.Height)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"PECHA_TICK_HZ":      "fast",
		"PECHA_STALE_AFTER":  "soon",
		"PECHA_FIELD_HEIGHT": "-1",
		"PECHA_BROADCAST_HZ": "999",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected %s=%s to fail", name, value)
			}
		})
	}
}

func TestGetEnvVariable(t *testing.T) {
	if _, err := GetEnvVariable(""); err == nil {
		t.Fatalf("expected error for empty name")
	}
	t.Setenv("PECHA_TEST_VAR", "x")
	if v, err := GetEnvVariable("PECHA_TEST_VAR"); err != nil || v != "x" {
		t.Fatalf("got %q, %v", v, err)
	}
}
