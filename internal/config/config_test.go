package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("INTERVIEW_IDLE_TIMEOUT", "")
	t.Setenv("INTERVIEW_QUESTION_COUNT", "")
	t.Setenv("INTERVIEW_WRITE_TIMEOUT", "")
	t.Setenv("INTERVIEW_COMPLETED_RETENTION", "")

	cfg := Load()
	if cfg.Server.Port != "8000" {
		t.Errorf("port = %q, want 8000", cfg.Server.Port)
	}
	if cfg.Interview.IdleTimeout != 10*time.Minute {
		t.Errorf("idle timeout = %v, want 10m", cfg.Interview.IdleTimeout)
	}
	if cfg.Interview.WriteTimeout != 10*time.Second {
		t.Errorf("write timeout = %v, want 10s", cfg.Interview.WriteTimeout)
	}
	if cfg.Interview.Retention != 30*time.Minute {
		t.Errorf("retention = %v, want 30m", cfg.Interview.Retention)
	}
	if cfg.Interview.QuestionCount != 5 {
		t.Errorf("question count = %d, want 5", cfg.Interview.QuestionCount)
	}
	if cfg.Auth.TokenExpiry != 30*time.Minute {
		t.Errorf("token expiry = %v, want 30m", cfg.Auth.TokenExpiry)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INTERVIEW_MAX_HISTORY", "50")
	t.Setenv("INTERVIEW_SEED", "42")
	t.Setenv("QDRANT_ENABLED", "false")
	t.Setenv("INTERVIEW_IDLE_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Interview.MaxHistory != 50 {
		t.Errorf("max history = %d", cfg.Interview.MaxHistory)
	}
	if cfg.Interview.Seed != 42 {
		t.Errorf("seed = %d", cfg.Interview.Seed)
	}
	if cfg.Qdrant.Enabled {
		t.Error("expected qdrant to be disabled")
	}
	if cfg.Interview.IdleTimeout != 10*time.Minute {
		t.Errorf("invalid duration should fall back to default, got %v", cfg.Interview.IdleTimeout)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", DBName: "hiremind",
	}}

	want := "host=db port=5432 user=u password=p dbname=hiremind sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}
