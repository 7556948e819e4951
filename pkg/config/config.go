package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	OTel      OTelConfig      `mapstructure:"otel"`
	Admission AdmissionConfig `mapstructure:"admission"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Sweeper   SweeperConfig   `mapstructure:"sweeper"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	Version     string `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka/Redpanda connection settings
type KafkaConfig struct {
	Brokers           []string `mapstructure:"brokers"`
	ClientID          string   `mapstructure:"client_id"`
	NotificationTopic string   `mapstructure:"notification_topic"`
}

// JWTConfig holds admin token verification settings
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	ServiceName   string  `mapstructure:"service_name"`
	CollectorAddr string  `mapstructure:"collector_addr"`
	SampleRatio   float64 `mapstructure:"sample_ratio"`
}

// AdmissionConfig holds the priority-admission policy knobs. Capacities
// and the timer length are club policy, not code, so they live here
// rather than as literals in the services.
type AdmissionConfig struct {
	// QueueCapacity is the total number of priority slots
	QueueCapacity int `mapstructure:"queue_capacity"`
	// CategoryCapacities is a comma-separated category:limit list,
	// e.g. "A:6,B:6"
	CategoryCapacities string `mapstructure:"category_capacities"`
	// TimerDuration is the length of a priority window
	TimerDuration time.Duration `mapstructure:"timer_duration"`
}

// Capacities parses CategoryCapacities into a category -> limit map
func (a *AdmissionConfig) Capacities() (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range strings.Split(a.CategoryCapacities, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		category, limit, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid category capacity %q, want category:limit", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(limit))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid capacity for category %q: %q", category, limit)
		}
		out[strings.TrimSpace(category)] = n
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no category capacities configured")
	}
	return out, nil
}

// ScheduleConfig holds schedule-trigger settings
type ScheduleConfig struct {
	// CheckInterval is how often the worker evaluates the rules
	CheckInterval time.Duration `mapstructure:"check_interval"`
	// MatchTolerance is the band around a rule's start time that still
	// counts as a match, absorbing invocation jitter
	MatchTolerance time.Duration `mapstructure:"match_tolerance"`
	// RefireGuard suppresses a new timer start this soon after the
	// previous one
	RefireGuard time.Duration `mapstructure:"refire_guard"`
}

// SweeperConfig holds queue-sweeper settings
type SweeperConfig struct {
	// Interval is how often the sweeper runs
	Interval time.Duration `mapstructure:"interval"`
	// IdleThreshold is how long an entry may sit in the queue without a
	// booking before it is evicted
	IdleThreshold time.Duration `mapstructure:"idle_threshold"`
}

// Load loads configuration from environment variables and an optional
// .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// .env is optional; env vars alone are enough
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "court-priority-play")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Database defaults
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_DBNAME", "court_priority")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_CONNS", 50)
	v.SetDefault("DATABASE_MIN_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", "30m")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Kafka defaults
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_CLIENT_ID", "court-priority-play")
	v.SetDefault("KAFKA_NOTIFICATION_TOPIC", "player-notifications")

	// JWT defaults
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "court-priority-play")

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "court-priority-play")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)

	// Admission defaults mirror the club's standing policy: 12 slots
	// split six and six between the categories, 10-minute window
	v.SetDefault("ADMISSION_QUEUE_CAPACITY", 12)
	v.SetDefault("ADMISSION_CATEGORY_CAPACITIES", "A:6,B:6")
	v.SetDefault("ADMISSION_TIMER_DURATION", "600s")

	// Schedule trigger defaults
	v.SetDefault("SCHEDULE_CHECK_INTERVAL", "1m")
	v.SetDefault("SCHEDULE_MATCH_TOLERANCE", "1m")
	v.SetDefault("SCHEDULE_REFIRE_GUARD", "1h")

	// Sweeper defaults
	v.SetDefault("SWEEPER_INTERVAL", "10m")
	v.SetDefault("SWEEPER_IDLE_THRESHOLD", "2h")
}

func bindConfig(v *viper.Viper, cfg *Config) {
	cfg.App = AppConfig{
		Name:        v.GetString("APP_NAME"),
		Environment: v.GetString("APP_ENVIRONMENT"),
		Debug:       v.GetBool("APP_DEBUG"),
		Version:     v.GetString("APP_VERSION"),
	}
	cfg.Server = ServerConfig{
		Host:         v.GetString("SERVER_HOST"),
		Port:         v.GetInt("SERVER_PORT"),
		ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
	}
	cfg.Database = DatabaseConfig{
		Host:            v.GetString("DATABASE_HOST"),
		Port:            v.GetInt("DATABASE_PORT"),
		User:            v.GetString("DATABASE_USER"),
		Password:        v.GetString("DATABASE_PASSWORD"),
		DBName:          v.GetString("DATABASE_DBNAME"),
		SSLMode:         v.GetString("DATABASE_SSLMODE"),
		MaxConns:        v.GetInt32("DATABASE_MAX_CONNS"),
		MinConns:        v.GetInt32("DATABASE_MIN_CONNS"),
		ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
		ConnMaxIdleTime: v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME"),
	}
	cfg.Redis = RedisConfig{
		Host:         v.GetString("REDIS_HOST"),
		Port:         v.GetInt("REDIS_PORT"),
		Password:     v.GetString("REDIS_PASSWORD"),
		DB:           v.GetInt("REDIS_DB"),
		PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
		MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
		DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
		ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
	}
	cfg.Kafka = KafkaConfig{
		Brokers:           splitAndTrim(v.GetString("KAFKA_BROKERS")),
		ClientID:          v.GetString("KAFKA_CLIENT_ID"),
		NotificationTopic: v.GetString("KAFKA_NOTIFICATION_TOPIC"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}
	cfg.OTel = OTelConfig{
		Enabled:       v.GetBool("OTEL_ENABLED"),
		ServiceName:   v.GetString("OTEL_SERVICE_NAME"),
		CollectorAddr: v.GetString("OTEL_COLLECTOR_ADDR"),
		SampleRatio:   v.GetFloat64("OTEL_SAMPLE_RATIO"),
	}
	cfg.Admission = AdmissionConfig{
		QueueCapacity:      v.GetInt("ADMISSION_QUEUE_CAPACITY"),
		CategoryCapacities: v.GetString("ADMISSION_CATEGORY_CAPACITIES"),
		TimerDuration:      v.GetDuration("ADMISSION_TIMER_DURATION"),
	}
	cfg.Schedule = ScheduleConfig{
		CheckInterval:  v.GetDuration("SCHEDULE_CHECK_INTERVAL"),
		MatchTolerance: v.GetDuration("SCHEDULE_MATCH_TOLERANCE"),
		RefireGuard:    v.GetDuration("SCHEDULE_REFIRE_GUARD"),
	}
	cfg.Sweeper = SweeperConfig{
		Interval:      v.GetDuration("SWEEPER_INTERVAL"),
		IdleThreshold: v.GetDuration("SWEEPER_IDLE_THRESHOLD"),
	}
}

// Validate checks the configuration for obviously broken values
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Admission.QueueCapacity <= 0 {
		return fmt.Errorf("admission queue capacity must be positive")
	}
	caps, err := c.Admission.Capacities()
	if err != nil {
		return err
	}
	total := 0
	for _, n := range caps {
		total += n
	}
	if total < c.Admission.QueueCapacity {
		return fmt.Errorf("category capacities sum to %d, below queue capacity %d", total, c.Admission.QueueCapacity)
	}
	if c.Admission.TimerDuration <= 0 {
		return fmt.Errorf("admission timer duration must be positive")
	}
	if c.Schedule.MatchTolerance <= 0 {
		return fmt.Errorf("schedule match tolerance must be positive")
	}
	if c.Sweeper.IdleThreshold <= 0 {
		return fmt.Errorf("sweeper idle threshold must be positive")
	}
	return nil
}

// IsDevelopment reports whether the app is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction reports whether the app is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
