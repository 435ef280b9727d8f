package config

import (
	"testing"
	"time"

	"github.com/sportserve/matchcenter/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "matchcenter-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.FeedBaseURL != "https://feeds.sportsdataprovider.com/v2" {
		t.Fatalf("unexpected FeedBaseURL: %q", cfg.FeedBaseURL)
	}
	if cfg.FeedTimeout != 10*time.Second {
		t.Fatalf("unexpected FeedTimeout: %s", cfg.FeedTimeout)
	}
	if cfg.FeedMatchDetailTTL != 15*time.Second {
		t.Fatalf("unexpected FeedMatchDetailTTL: %s", cfg.FeedMatchDetailTTL)
	}
	if cfg.FeedSquadsTTL != 10*time.Minute {
		t.Fatalf("unexpected FeedSquadsTTL: %s", cfg.FeedSquadsTTL)
	}
	if !cfg.FeedCircuitEnabled {
		t.Fatalf("expected FeedCircuitEnabled=true by default")
	}
	if cfg.RefreshMaxWorkers != 4 {
		t.Fatalf("unexpected RefreshMaxWorkers: %d", cfg.RefreshMaxWorkers)
	}
	if cfg.ArchiveEnabled {
		t.Fatalf("expected ArchiveEnabled=false by default")
	}
	if len(cfg.RefreshTargets) != 0 {
		t.Fatalf("expected no refresh targets by default, got %d", len(cfg.RefreshTargets))
	}
}

func TestLoad_RefreshTargets(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("REFRESH_TARGETS", "8:2025, 5:2025")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.RefreshTargets) != 2 {
		t.Fatalf("expected 2 refresh targets, got %d", len(cfg.RefreshTargets))
	}
	if cfg.RefreshTargets[0] != (RefreshTarget{CompetitionID: "8", SeasonID: "2025"}) {
		t.Fatalf("unexpected first target: %+v", cfg.RefreshTargets[0])
	}
	if cfg.RefreshTargets[1] != (RefreshTarget{CompetitionID: "5", SeasonID: "2025"}) {
		t.Fatalf("unexpected second target: %+v", cfg.RefreshTargets[1])
	}
}

func TestLoad_RefreshTargetsInvalid(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("REFRESH_TARGETS", "8")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for target without season id")
	}
}

func TestLoad_ArchiveRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("ARCHIVE_ENABLED", "true")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ARCHIVE_ENABLED=true without DB_URL")
	}
}

func TestLoad_ProdRequiresFeedCredentials(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STATSFEED_USERNAME", "")
	t.Setenv("STATSFEED_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing feed credentials in prod")
	}
}

func TestLoad_FeedTTLValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STATSFEED_COMMENTARY_TTL", "-5s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive TTL")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}
