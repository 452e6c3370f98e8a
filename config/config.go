package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App         AppConfig         `yaml:"app"`
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Booking     BookingConfig     `yaml:"booking"`
	Mail        MailConfig        `yaml:"mail"`
	Worker      WorkerConfig      `yaml:"worker"`
	SlotsClient SlotsClientConfig `yaml:"slots_client"`
}

type AppConfig struct {
	Env      string `yaml:"env"`
	Timezone string `yaml:"timezone"`
	LogLevel string `yaml:"log_level"`
}

// Location resolves the venue timezone. All wall-clock times on the wire are
// interpreted in this location.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

type HTTPConfig struct {
	Address            string   `yaml:"address"`
	ShutdownSeconds    int      `yaml:"shutdown_seconds"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
}

func (h HTTPConfig) ShutdownTimeout() time.Duration {
	return time.Duration(h.ShutdownSeconds) * time.Second
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	MinAdvanceDays      int `yaml:"min_advance_days"`
	MinGapHours         int `yaml:"min_gap_hours"`
	MinGuests           int `yaml:"min_guests"`
	MinSlotMinutes      int `yaml:"min_slot_minutes"`
	SlotsCacheTTL       int `yaml:"slots_cache_ttl_seconds"`
	EventsCacheTTL      int `yaml:"events_cache_ttl_seconds"`
	ScheduleLockSeconds int `yaml:"schedule_lock_seconds"`
}

func (b BookingConfig) MinGap() time.Duration {
	return time.Duration(b.MinGapHours) * time.Hour
}

func (b BookingConfig) MinSlot() time.Duration {
	return time.Duration(b.MinSlotMinutes) * time.Minute
}

type MailConfig struct {
	Domain     string `yaml:"domain"`
	APIKey     string `yaml:"api_key"`
	From       string `yaml:"from"`
	AdminEmail string `yaml:"admin_email"`
	Dev        bool   `yaml:"dev"`
}

type WorkerConfig struct {
	WarmCron string `yaml:"warm_cron"`
	WarmDays int    `yaml:"warm_days"`
}

type SlotsClientConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (s SlotsClientConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Path returns the config file location taken from CONFIG_PATH.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default holds the business rules the venue runs with when the file leaves
// them out.
func Default() *Config {
	return &Config{
		App:  AppConfig{Env: "development", LogLevel: "info"},
		HTTP: HTTPConfig{Address: ":8080", ShutdownSeconds: 5, RateLimitPerMinute: 120},
		Booking: BookingConfig{
			MinAdvanceDays:      15,
			MinGapHours:         10,
			MinGuests:           70,
			MinSlotMinutes:      60,
			SlotsCacheTTL:       300,
			EventsCacheTTL:      600,
			ScheduleLockSeconds: 10,
		},
		Worker:      WorkerConfig{WarmCron: "@every 10m", WarmDays: 30},
		SlotsClient: SlotsClientConfig{BaseURL: "http://localhost:8080", TimeoutSeconds: 10},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("MAILGUN_API_KEY"); v != "" {
		c.Mail.APIKey = v
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Address == "" {
		errs = append(errs, errors.New("http.address is required"))
	}
	if c.Booking.MinGapHours < 0 {
		errs = append(errs, errors.New("booking.min_gap_hours must not be negative"))
	}
	if c.Booking.MinSlotMinutes <= 0 {
		errs = append(errs, errors.New("booking.min_slot_minutes must be positive"))
	}
	if c.Booking.MinAdvanceDays < 0 {
		errs = append(errs, errors.New("booking.min_advance_days must not be negative"))
	}
	if _, err := c.App.Location(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
