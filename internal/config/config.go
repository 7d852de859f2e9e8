package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skanelive/matchcenter/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DBURL     string
	DBEnabled bool

	CORSAllowedOrigins []string

	CMSBaseURL               string
	CMSToken                 string
	CMSTimeout               time.Duration
	CMSMaxRetries            int
	CMSCircuitEnabled        bool
	CMSCircuitFailureCount   int
	CMSCircuitOpenTimeout    time.Duration
	CMSCircuitHalfOpenMaxReq int

	SportDataBaseURL               string
	SportDataAPIKey                string
	SportDataTimeout               time.Duration
	SportDataMaxRetries            int
	SportDataRetryBackoff          time.Duration
	SportDataCircuitEnabled        bool
	SportDataCircuitFailureCount   int
	SportDataCircuitOpenTimeout    time.Duration
	SportDataCircuitHalfOpenMaxReq int

	UpcomingCacheTTL time.Duration

	PollLiveInterval    time.Duration
	PollDefaultInterval time.Duration
	PollWorkerPoolSize  int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	dbEnabled, err := getEnvAsBool("DB_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbEnabled && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when DB_ENABLED=true")
	}

	cmsBaseURL := strings.TrimSpace(getEnv("CMS_BASE_URL", ""))
	if cmsBaseURL == "" {
		return Config{}, fmt.Errorf("CMS_BASE_URL is required")
	}
	cmsTimeout, err := getEnvAsDuration("CMS_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cmsMaxRetries, err := getEnvAsInt("CMS_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse CMS_MAX_RETRIES: %w", err)
	}
	if cmsMaxRetries < 0 {
		return Config{}, fmt.Errorf("CMS_MAX_RETRIES must be >= 0")
	}
	cmsCircuitEnabled, err := getEnvAsBool("CMS_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	cmsCircuitFailureCount, err := getEnvAsInt("CMS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CMS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	cmsCircuitOpenTimeout, err := getEnvAsDuration("CMS_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cmsCircuitHalfOpenMaxReq, err := getEnvAsInt("CMS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CMS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	sportDataBaseURL := strings.TrimSpace(getEnv("SPORTDATA_BASE_URL", ""))
	if sportDataBaseURL == "" {
		return Config{}, fmt.Errorf("SPORTDATA_BASE_URL is required")
	}
	sportDataAPIKey := strings.TrimSpace(getEnv("SPORTDATA_API_KEY", ""))
	if appEnv == EnvProd && sportDataAPIKey == "" {
		return Config{}, fmt.Errorf("SPORTDATA_API_KEY is required in prod")
	}
	sportDataTimeout, err := getEnvAsDuration("SPORTDATA_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	sportDataMaxRetries, err := getEnvAsInt("SPORTDATA_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTDATA_MAX_RETRIES: %w", err)
	}
	if sportDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("SPORTDATA_MAX_RETRIES must be >= 0")
	}
	sportDataRetryBackoff, err := getEnvAsDuration("SPORTDATA_RETRY_BACKOFF", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	sportDataCircuitEnabled, err := getEnvAsBool("SPORTDATA_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	sportDataCircuitFailureCount, err := getEnvAsInt("SPORTDATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTDATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	sportDataCircuitOpenTimeout, err := getEnvAsDuration("SPORTDATA_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	sportDataCircuitHalfOpenMaxReq, err := getEnvAsInt("SPORTDATA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTDATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	upcomingCacheTTL, err := getEnvAsDuration("UPCOMING_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	if upcomingCacheTTL <= 0 {
		return Config{}, fmt.Errorf("UPCOMING_CACHE_TTL must be > 0")
	}

	pollLiveInterval, err := getEnvAsDuration("POLL_LIVE_INTERVAL", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	pollDefaultInterval, err := getEnvAsDuration("POLL_DEFAULT_INTERVAL", 2*time.Minute)
	if err != nil {
		return Config{}, err
	}
	pollWorkerPoolSize, err := getEnvAsInt("POLL_WORKER_POOL_SIZE", 32)
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_WORKER_POOL_SIZE: %w", err)
	}
	if pollWorkerPoolSize < 1 {
		return Config{}, fmt.Errorf("POLL_WORKER_POOL_SIZE must be >= 1")
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	serviceName := getEnv("APP_SERVICE_NAME", "matchcenter-api")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		DBURL:     dbURL,
		DBEnabled: dbEnabled,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		CMSBaseURL:               cmsBaseURL,
		CMSToken:                 strings.TrimSpace(getEnv("CMS_TOKEN", "")),
		CMSTimeout:               cmsTimeout,
		CMSMaxRetries:            cmsMaxRetries,
		CMSCircuitEnabled:        cmsCircuitEnabled,
		CMSCircuitFailureCount:   cmsCircuitFailureCount,
		CMSCircuitOpenTimeout:    cmsCircuitOpenTimeout,
		CMSCircuitHalfOpenMaxReq: cmsCircuitHalfOpenMaxReq,

		SportDataBaseURL:               sportDataBaseURL,
		SportDataAPIKey:                sportDataAPIKey,
		SportDataTimeout:               sportDataTimeout,
		SportDataMaxRetries:            sportDataMaxRetries,
		SportDataRetryBackoff:          sportDataRetryBackoff,
		SportDataCircuitEnabled:        sportDataCircuitEnabled,
		SportDataCircuitFailureCount:   sportDataCircuitFailureCount,
		SportDataCircuitOpenTimeout:    sportDataCircuitOpenTimeout,
		SportDataCircuitHalfOpenMaxReq: sportDataCircuitHalfOpenMaxReq,

		UpcomingCacheTTL: upcomingCacheTTL,

		PollLiveInterval:    pollLiveInterval,
		PollDefaultInterval: pollDefaultInterval,
		PollWorkerPoolSize:  pollWorkerPoolSize,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
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

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
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
