package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sportserve/matchcenter/internal/platform/logging"
)

// RefreshTarget names a competition season the warm sweep keeps fresh.
type RefreshTarget struct {
	CompetitionID string
	SeasonID      string
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	CORSAllowedOrigins         []string
	LogLevel                   logging.Level
	FeedBaseURL                string
	FeedUsername               string
	FeedPassword               string
	FeedTimeout                time.Duration
	FeedFixturesTTL            time.Duration
	FeedStandingsTTL           time.Duration
	FeedMatchDetailTTL         time.Duration
	FeedCommentaryTTL          time.Duration
	FeedSeasonStatsTTL         time.Duration
	FeedSquadsTTL              time.Duration
	FeedCircuitEnabled         bool
	FeedCircuitFailureCount    int
	FeedCircuitOpenTimeout     time.Duration
	FeedCircuitProbeBudget     int
	CMSBaseURL                 string
	CMSAPIKey                  string
	CMSTimeout                 time.Duration
	CMSCircuitEnabled          bool
	CMSCircuitFailureCount     int
	CMSCircuitOpenTimeout      time.Duration
	CMSCircuitProbeBudget      int
	ArchiveEnabled             bool
	DBURL                      string
	DBDisablePreparedBinary    bool
	InternalJobToken           string
	RefreshTargets             []RefreshTarget
	RefreshMaxWorkers          int
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	feedTimeout, err := time.ParseDuration(getEnv("STATSFEED_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_TIMEOUT: %w", err)
	}
	if feedTimeout <= 0 {
		return Config{}, fmt.Errorf("STATSFEED_TIMEOUT must be > 0")
	}

	feedTTLs := map[string]time.Duration{}
	for key, fallback := range map[string]string{
		"STATSFEED_FIXTURES_TTL":     "60s",
		"STATSFEED_STANDINGS_TTL":    "120s",
		"STATSFEED_MATCH_DETAIL_TTL": "15s",
		"STATSFEED_COMMENTARY_TTL":   "15s",
		"STATSFEED_SEASON_STATS_TTL": "5m",
		"STATSFEED_SQUADS_TTL":       "10m",
	} {
		ttl, err := time.ParseDuration(getEnv(key, fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", key, err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("%s must be > 0", key)
		}
		feedTTLs[key] = ttl
	}

	feedCircuitEnabled, err := strconv.ParseBool(getEnv("STATSFEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_CIRCUIT_ENABLED: %w", err)
	}
	feedCircuitFailureCount, err := getEnvAsInt("STATSFEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if feedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STATSFEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	feedCircuitOpenTimeout, err := time.ParseDuration(getEnv("STATSFEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if feedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STATSFEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	feedCircuitProbeBudget, err := getEnvAsInt("STATSFEED_CIRCUIT_PROBE_BUDGET", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSFEED_CIRCUIT_PROBE_BUDGET: %w", err)
	}
	if feedCircuitProbeBudget < 1 {
		return Config{}, fmt.Errorf("STATSFEED_CIRCUIT_PROBE_BUDGET must be >= 1")
	}

	feedUsername := strings.TrimSpace(getEnv("STATSFEED_USERNAME", ""))
	feedPassword := strings.TrimSpace(getEnv("STATSFEED_PASSWORD", ""))
	if appEnv == EnvProd && (feedUsername == "" || feedPassword == "") {
		return Config{}, fmt.Errorf("STATSFEED_USERNAME and STATSFEED_PASSWORD are required in prod")
	}

	cmsTimeout, err := time.ParseDuration(getEnv("CMS_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CMS_TIMEOUT: %w", err)
	}
	if cmsTimeout <= 0 {
		return Config{}, fmt.Errorf("CMS_TIMEOUT must be > 0")
	}
	cmsCircuitEnabled, err := strconv.ParseBool(getEnv("CMS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CMS_CIRCUIT_ENABLED: %w", err)
	}
	cmsCircuitFailureCount, err := getEnvAsInt("CMS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CMS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cmsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CMS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cmsCircuitOpenTimeout, err := time.ParseDuration(getEnv("CMS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CMS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cmsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CMS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cmsCircuitProbeBudget, err := getEnvAsInt("CMS_CIRCUIT_PROBE_BUDGET", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CMS_CIRCUIT_PROBE_BUDGET: %w", err)
	}
	if cmsCircuitProbeBudget < 1 {
		return Config{}, fmt.Errorf("CMS_CIRCUIT_PROBE_BUDGET must be >= 1")
	}

	archiveEnabled, err := strconv.ParseBool(getEnv("ARCHIVE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARCHIVE_ENABLED: %w", err)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if archiveEnabled && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when ARCHIVE_ENABLED=true")
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	refreshTargets, err := parseRefreshTargets(getEnv("REFRESH_TARGETS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_TARGETS: %w", err)
	}
	refreshMaxWorkers, err := getEnvAsInt("REFRESH_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_MAX_WORKERS: %w", err)
	}
	if refreshMaxWorkers < 1 {
		return Config{}, fmt.Errorf("REFRESH_MAX_WORKERS must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "matchcenter-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		FeedBaseURL:                strings.TrimSpace(getEnv("STATSFEED_BASE_URL", "https://feeds.sportsdataprovider.com/v2")),
		FeedUsername:               feedUsername,
		FeedPassword:               feedPassword,
		FeedTimeout:                feedTimeout,
		FeedFixturesTTL:            feedTTLs["STATSFEED_FIXTURES_TTL"],
		FeedStandingsTTL:           feedTTLs["STATSFEED_STANDINGS_TTL"],
		FeedMatchDetailTTL:         feedTTLs["STATSFEED_MATCH_DETAIL_TTL"],
		FeedCommentaryTTL:          feedTTLs["STATSFEED_COMMENTARY_TTL"],
		FeedSeasonStatsTTL:         feedTTLs["STATSFEED_SEASON_STATS_TTL"],
		FeedSquadsTTL:              feedTTLs["STATSFEED_SQUADS_TTL"],
		FeedCircuitEnabled:         feedCircuitEnabled,
		FeedCircuitFailureCount:    feedCircuitFailureCount,
		FeedCircuitOpenTimeout:     feedCircuitOpenTimeout,
		FeedCircuitProbeBudget:     feedCircuitProbeBudget,
		CMSBaseURL:                 strings.TrimSpace(getEnv("CMS_BASE_URL", "http://localhost:8081")),
		CMSAPIKey:                  strings.TrimSpace(getEnv("CMS_API_KEY", "")),
		CMSTimeout:                 cmsTimeout,
		CMSCircuitEnabled:          cmsCircuitEnabled,
		CMSCircuitFailureCount:     cmsCircuitFailureCount,
		CMSCircuitOpenTimeout:      cmsCircuitOpenTimeout,
		CMSCircuitProbeBudget:      cmsCircuitProbeBudget,
		ArchiveEnabled:             archiveEnabled,
		DBURL:                      dbURL,
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		RefreshTargets:             refreshTargets,
		RefreshMaxWorkers:          refreshMaxWorkers,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseRefreshTargets parses "competition:season" pairs, e.g. "8:2025,5:2025".
func parseRefreshTargets(raw string) ([]RefreshTarget, error) {
	var out []RefreshTarget
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid target %q, expected competition_id:season_id", item)
		}

		competitionID := strings.TrimSpace(segments[0])
		seasonID := strings.TrimSpace(segments[1])
		if competitionID == "" || seasonID == "" {
			return nil, fmt.Errorf("empty id in target %q", item)
		}

		out = append(out, RefreshTarget{CompetitionID: competitionID, SeasonID: seasonID})
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
