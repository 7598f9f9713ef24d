package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Режимы хранилища
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Политика уведомления о неявке
const (
	NoShowNotifyAsCancelled = "cancelled"
	NoShowNotifySuppress    = "suppress"
)

// Провайдеры каналов
const (
	SMSProviderWebhook = "webhook"
	SMSProviderMock    = "mock"
	EmailProviderSMTP  = "smtp"
	EmailProviderMock  = "mock"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server          ServerConfig        `toml:"server"`
	Logs            LogsConfig          `toml:"logs"`
	Database        DatabaseConfig      `toml:"database"`
	Metrics         MetricsConfig       `toml:"metrics"`
	CustomerService ClientConfig        `toml:"customer_service"`
	MerchantService ClientConfig        `toml:"merchant_service"`
	Scheduling      SchedulingConfig    `toml:"scheduling"`
	Notifications   NotificationsConfig `toml:"notifications"`
	SMS             SMSConfig           `toml:"sms"`
	Email           EmailConfig         `toml:"email"`
	Redis           RedisConfig         `toml:"redis"`
	Kafka           KafkaConfig         `toml:"kafka"`
	Business        BusinessConfig      `toml:"business"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
	MigrationsPath  string `toml:"migrations_path"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения в формате URL (для golang-migrate)
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type ClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type SchedulingConfig struct {
	Timezone                 string `toml:"timezone"`
	PastBookingGraceMinutes  int    `toml:"past_booking_grace_minutes"`
	NoShowGraceHours         int    `toml:"no_show_grace_hours"`
	NoShowNotification       string `toml:"no_show_notification"`
	OverdueScanInterval      int    `toml:"overdue_scan_interval"`
	ReminderScanInterval     int    `toml:"reminder_scan_interval"`
	ReminderLeadLongMinutes  int    `toml:"reminder_lead_long_minutes"`
	ReminderLeadShortMinutes int    `toml:"reminder_lead_short_minutes"`
}

// Location часовой пояс, в котором хранятся дата и время записей
func (s SchedulingConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

type NotificationsConfig struct {
	ProviderTimeout     int    `toml:"provider_timeout"`
	DefaultCountry      string `toml:"default_country"`
	RetryInterval       int    `toml:"retry_interval"`
	RetryMaxAttempts    int    `toml:"retry_max_attempts"`
	RetryInitialBackoff int    `toml:"retry_initial_backoff"`
	RetryMaxBackoff     int    `toml:"retry_max_backoff"`
	RetryBatchSize      int    `toml:"retry_batch_size"`
	EventBufferSize     int    `toml:"event_buffer_size"`
	EventWorkers        int    `toml:"event_workers"`

	// Создание стандартных шаблонов для перечисленных тенантов при старте
	SeedDefaultTemplates bool    `toml:"seed_default_templates"`
	SeedTenantIDs        []int64 `toml:"seed_tenant_ids"`
}

type SMSConfig struct {
	Enabled      bool   `toml:"enabled"`
	Provider     string `toml:"provider"`
	WebhookURL   string `toml:"webhook_url"`
	WebhookToken string `toml:"webhook_token"`
}

type EmailConfig struct {
	Enabled  bool   `toml:"enabled"`
	Provider string `toml:"provider"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	From     string `toml:"from"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type RedisConfig struct {
	Enabled           bool   `toml:"enabled"`
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	ReminderMarkerTTL int    `toml:"reminder_marker_ttl"`
}

type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// BusinessConfig реквизиты по умолчанию, если MerchantService недоступен
type BusinessConfig struct {
	Name    string `toml:"name"`
	Address string `toml:"address"`
	Phone   string `toml:"phone"`
}

// Load читает TOML-файл, затем применяет .env и переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	// .env опционален
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Logs: LogsConfig{Level: "info"},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MigrationsPath:  "migrations",
		},
		Metrics:         MetricsConfig{Path: "/metrics", ServiceName: "scheduling"},
		CustomerService: ClientConfig{Timeout: 5},
		MerchantService: ClientConfig{Timeout: 5},
		Scheduling: SchedulingConfig{
			Timezone:                 "UTC",
			PastBookingGraceMinutes:  0,
			NoShowGraceHours:         24,
			NoShowNotification:       NoShowNotifyAsCancelled,
			OverdueScanInterval:      3600,
			ReminderScanInterval:     300,
			ReminderLeadLongMinutes:  24 * 60,
			ReminderLeadShortMinutes: 60,
		},
		Notifications: NotificationsConfig{
			ProviderTimeout:     10,
			DefaultCountry:      "CN",
			RetryInterval:       600,
			RetryMaxAttempts:    5,
			RetryInitialBackoff: 60,
			RetryMaxBackoff:     3600,
			RetryBatchSize:      100,
			EventBufferSize:     256,
			EventWorkers:        4,
		},
		SMS:   SMSConfig{Provider: SMSProviderMock},
		Email: EmailConfig{Provider: EmailProviderMock, Port: 587},
		Redis: RedisConfig{Addr: "localhost:6379", ReminderMarkerTTL: 72 * 3600},
		Kafka: KafkaConfig{Topic: "appointment-events"},
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}

	switch c.Scheduling.NoShowNotification {
	case NoShowNotifyAsCancelled, NoShowNotifySuppress:
	default:
		return fmt.Errorf("%w: unknown scheduling.no_show_notification %q", ErrInvalidConfig, c.Scheduling.NoShowNotification)
	}

	if c.Scheduling.ReminderLeadShortMinutes <= 0 || c.Scheduling.ReminderLeadLongMinutes <= c.Scheduling.ReminderLeadShortMinutes {
		return fmt.Errorf("%w: reminder leads must satisfy 0 < short < long", ErrInvalidConfig)
	}

	if c.Notifications.ProviderTimeout <= 0 {
		return fmt.Errorf("%w: notifications.provider_timeout must be positive", ErrInvalidConfig)
	}

	if c.Notifications.SeedDefaultTemplates && len(c.Notifications.SeedTenantIDs) == 0 {
		return fmt.Errorf("%w: notifications.seed_tenant_ids is required when seed_default_templates is enabled", ErrInvalidConfig)
	}

	if c.SMS.Enabled && c.SMS.Provider == SMSProviderWebhook && c.SMS.WebhookURL == "" {
		return fmt.Errorf("%w: sms.webhook_url is required for webhook provider", ErrInvalidConfig)
	}

	if c.Email.Enabled && c.Email.Provider == EmailProviderSMTP && (c.Email.Host == "" || c.Email.From == "") {
		return fmt.Errorf("%w: email.host and email.from are required for smtp provider", ErrInvalidConfig)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
	}

	return nil
}

// applyEnv переопределяет секреты и адреса из окружения
func applyEnv(c *Config) {
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Logs.Level, "LOG_LEVEL")
	setString(&c.SMS.WebhookToken, "SMS_WEBHOOK_TOKEN")
	setString(&c.Email.Password, "SMTP_PASSWORD")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")

	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
