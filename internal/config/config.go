package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Source    SourceConfig    `yaml:"source"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Sync      SyncConfig      `yaml:"sync"`
}

type AppConfig struct {
	AppName     string `yaml:"name"`
	Environment string `yaml:"env"`
	HTTPPort    string `yaml:"http_port"`
	LogLevel    string `yaml:"log_level"`

	// WSAllowedOrigins restricts websocket upgrades; empty allows any origin.
	WSAllowedOrigins []string `yaml:"ws_allowed_origins"`
}

type DatabaseConfig struct {
	DBHost     string `yaml:"host"`
	DBPort     string `yaml:"port"`
	DBName     string `yaml:"name"`
	DBUser     string `yaml:"user"`
	DBPassword string `yaml:"password"`
	DBSSLMode  string `yaml:"ssl_mode"`

	ConnectTimeout        time.Duration `yaml:"connect_timeout"`
	PoolMaxConns          int32         `yaml:"pool_max_conns"`
	PoolMinConns          int32         `yaml:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `yaml:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `yaml:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `yaml:"pool_health_check_period"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SourceConfig struct {
	ServiceKey string        `yaml:"service_key"`
	BaseURL    string        `yaml:"base_url"`
	PageSize   int           `yaml:"page_size"`
	MaxPages   int           `yaml:"max_pages"`
	PageDelay  time.Duration `yaml:"page_delay"`
	Timeout    time.Duration `yaml:"timeout"`
}

type GeocodingConfig struct {
	KakaoAPIKey        string        `yaml:"kakao_api_key"`
	KakaoBaseURL       string        `yaml:"kakao_base_url"`
	NominatimBaseURL   string        `yaml:"nominatim_base_url"`
	NominatimUserAgent string        `yaml:"nominatim_user_agent"`
	Timeout            time.Duration `yaml:"timeout"`
	SecondaryDelay     time.Duration `yaml:"secondary_delay"`
}

type SyncConfig struct {
	RecordDelay        time.Duration `yaml:"record_delay"`
	InlineGeocode      bool          `yaml:"inline_geocode"`
	SweepBatch         int           `yaml:"sweep_batch"`
	SweepDelay         time.Duration `yaml:"sweep_delay"`
	BatchGeocodeLimit  int           `yaml:"batch_geocode_limit"`
	BatchGeocodeDelay  time.Duration `yaml:"batch_geocode_delay"`
	StaleRunAfter      time.Duration `yaml:"stale_run_after"`
	CronSync           string        `yaml:"cron_sync"`
	CronGeocodePending string        `yaml:"cron_geocode_pending"`
	CronTimeZone       string        `yaml:"cron_time_zone"`
	InitialRunDelay    time.Duration `yaml:"initial_run_delay"`
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Defaults() Config {
	return Config{
		App: AppConfig{LogLevel: "info"},
		Database: DatabaseConfig{
			DBHost:    "localhost",
			DBPort:    "5432",
			DBSSLMode: "disable",

			ConnectTimeout: 5 * time.Second,
			PoolMaxConns:   10,
		},
		Redis: RedisConfig{Host: "localhost", Port: "6379"},
		Source: SourceConfig{
			PageSize:  100,
			MaxPages:  10,
			PageDelay: 500 * time.Millisecond,
			Timeout:   30 * time.Second,
		},
		Geocoding: GeocodingConfig{
			Timeout:        10 * time.Second,
			SecondaryDelay: 500 * time.Millisecond,
		},
		Sync: SyncConfig{
			RecordDelay:        100 * time.Millisecond,
			InlineGeocode:      true,
			SweepBatch:         100,
			SweepDelay:         time.Second,
			BatchGeocodeLimit:  50,
			BatchGeocodeDelay:  100 * time.Millisecond,
			StaleRunAfter:      2 * time.Hour,
			CronSync:           "0 3 * * *",
			CronGeocodePending: "0 */6 * * *",
			CronTimeZone:       "Asia/Seoul",
			InitialRunDelay:    10 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then the environment.
func Load() (Config, error) {
	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	var invalid []string
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	secret := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				invalid = append(invalid, key)
				return
			}
			*dst = n
		}
	}
	int32v := func(key string, dst *int32) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil {
				invalid = append(invalid, key)
				return
			}
			*dst = int32(n)
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				invalid = append(invalid, key)
				return
			}
			*dst = d
		}
	}
	list := func(key string, dst *[]string) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return
		}
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*dst = out
	}
	boolean := func(key string, dst *bool) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				invalid = append(invalid, key)
				return
			}
			*dst = b
		}
	}

	str("APP_NAME", &cfg.App.AppName)
	str("APP_ENV", &cfg.App.Environment)
	str("HTTP_PORT", &cfg.App.HTTPPort)
	str("LOG_LEVEL", &cfg.App.LogLevel)
	list("WS_ALLOWED_ORIGINS", &cfg.App.WSAllowedOrigins)

	str("DB_HOST", &cfg.Database.DBHost)
	str("DB_PORT", &cfg.Database.DBPort)
	str("DB_NAME", &cfg.Database.DBName)
	str("DB_USER", &cfg.Database.DBUser)
	secret("DB_PASSWORD", &cfg.Database.DBPassword)
	str("DB_SSL_MODE", &cfg.Database.DBSSLMode)
	duration("DB_CONNECT_TIMEOUT", &cfg.Database.ConnectTimeout)
	int32v("DB_POOL_MAX_CONNS", &cfg.Database.PoolMaxConns)
	int32v("DB_POOL_MIN_CONNS", &cfg.Database.PoolMinConns)
	duration("DB_POOL_MAX_CONN_LIFETIME", &cfg.Database.PoolMaxConnLifetime)
	duration("DB_POOL_MAX_CONN_IDLE_TIME", &cfg.Database.PoolMaxConnIdleTime)
	duration("DB_POOL_HEALTH_CHECK_PERIOD", &cfg.Database.PoolHealthCheckPeriod)

	boolean("REDIS_ENABLED", &cfg.Redis.Enabled)
	str("REDIS_HOST", &cfg.Redis.Host)
	str("REDIS_PORT", &cfg.Redis.Port)
	secret("REDIS_PASSWORD", &cfg.Redis.Password)
	integer("REDIS_DB", &cfg.Redis.DB)

	secret("DATA_GO_KR_API_KEY", &cfg.Source.ServiceKey)
	str("DATA_GO_KR_BASE_URL", &cfg.Source.BaseURL)
	integer("SOURCE_PAGE_SIZE", &cfg.Source.PageSize)
	integer("SOURCE_MAX_PAGES", &cfg.Source.MaxPages)
	duration("SOURCE_PAGE_DELAY", &cfg.Source.PageDelay)
	duration("SOURCE_TIMEOUT", &cfg.Source.Timeout)

	secret("KAKAO_REST_API_KEY", &cfg.Geocoding.KakaoAPIKey)
	str("KAKAO_BASE_URL", &cfg.Geocoding.KakaoBaseURL)
	str("NOMINATIM_BASE_URL", &cfg.Geocoding.NominatimBaseURL)
	str("NOMINATIM_USER_AGENT", &cfg.Geocoding.NominatimUserAgent)
	duration("GEOCODE_TIMEOUT", &cfg.Geocoding.Timeout)
	duration("GEOCODE_SECONDARY_DELAY", &cfg.Geocoding.SecondaryDelay)

	duration("SYNC_RECORD_DELAY", &cfg.Sync.RecordDelay)
	boolean("SYNC_INLINE_GEOCODE", &cfg.Sync.InlineGeocode)
	integer("SYNC_SWEEP_BATCH", &cfg.Sync.SweepBatch)
	duration("SYNC_SWEEP_DELAY", &cfg.Sync.SweepDelay)
	integer("GEOCODE_BATCH_LIMIT", &cfg.Sync.BatchGeocodeLimit)
	duration("GEOCODE_BATCH_DELAY", &cfg.Sync.BatchGeocodeDelay)
	duration("SYNC_STALE_RUN_AFTER", &cfg.Sync.StaleRunAfter)
	str("SYNC_CRON", &cfg.Sync.CronSync)
	str("GEOCODE_PENDING_CRON", &cfg.Sync.CronGeocodePending)
	str("CRON_TIME_ZONE", &cfg.Sync.CronTimeZone)
	duration("SYNC_INITIAL_DELAY", &cfg.Sync.InitialRunDelay)

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	var missing []string
	req := func(key, v string) {
		if v == "" {
			missing = append(missing, key)
		}
	}
	req("APP_NAME", cfg.App.AppName)
	req("APP_ENV", cfg.App.Environment)
	req("HTTP_PORT", cfg.App.HTTPPort)

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}
