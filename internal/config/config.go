// Package config provides configuration loading and validation for the
// benchmark analysis binaries.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config is the root configuration shared by every binary. Each binary reads
// only the sections it needs, so a single config.yaml can drive a whole
// benchmark run.
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Paths          PathsConfig          `mapstructure:"paths"`
	Windows        WindowsConfig        `mapstructure:"windows"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
	Postgres       PostgresConfig       `mapstructure:"postgres"`
	Collector      CollectorConfig      `mapstructure:"collector"`
	Exporter       ExporterConfig       `mapstructure:"exporter"`
	Chaos          ChaosConfig          `mapstructure:"chaos"`
}

// AppConfig defines application level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

// PathsConfig locates the benchmark artifacts on disk. Trace exports live
// under tracings_dir/<protocol>, consistency snapshots under
// consistency_dir/<protocol>, and every generated report under results_dir.
type PathsConfig struct {
	TracingsDir    string `mapstructure:"tracings_dir" validate:"required"`
	ConsistencyDir string `mapstructure:"consistency_dir" validate:"required"`
	ResultsDir     string `mapstructure:"results_dir" validate:"required"`
}

// WindowsConfig positions the chaos experiment windows on the run-relative
// axis in seconds.
type WindowsConfig struct {
	RampUpSec         float64 `mapstructure:"ramp_up_sec" validate:"gte=0"`
	PreChaosEndSec    float64 `mapstructure:"pre_chaos_end_sec" validate:"gtefield=RampUpSec"`
	PostChaosStartSec float64 `mapstructure:"post_chaos_start_sec" validate:"gtefield=PreChaosEndSec"`
}

// ReconciliationConfig carries the seeded entity state every benchmark run
// starts from.
type ReconciliationConfig struct {
	InitialValue int64 `mapstructure:"initial_value" validate:"gt=0"`
}

// PostgresConfig defines how the reconciler reaches the protocol databases.
type PostgresConfig struct {
	Host           string                  `mapstructure:"host" validate:"required"`
	Port           int                     `mapstructure:"port" validate:"gt=0"`
	User           string                  `mapstructure:"user" validate:"required"`
	Password       string                  `mapstructure:"password"`
	ConnectTimeout string                  `mapstructure:"connect_timeout"`
	Databases      PostgresDatabasesConfig `mapstructure:"databases"`
}

// PostgresDatabasesConfig names the four databases a protocol deployment
// exposes: the coordinator, the order service and the two entity services.
type PostgresDatabasesConfig struct {
	DTM       string `mapstructure:"dtm" validate:"required"`
	Orders    string `mapstructure:"orders" validate:"required"`
	Payments  string `mapstructure:"payments" validate:"required"`
	Inventory string `mapstructure:"inventory" validate:"required"`
}

// CollectorConfig defines the OTLP ingest endpoint that captures trace
// exports into the tracings directory.
type CollectorConfig struct {
	Protocol      string `mapstructure:"protocol" validate:"oneof=2pc tcc saga"`
	ListenAddress string `mapstructure:"listen_address" validate:"required"`
	BufferSize    int    `mapstructure:"buffer_size" validate:"gt=0"`
	FlushInterval string `mapstructure:"flush_interval"`
}

// ExporterConfig defines the live scrape loop that publishes protocol
// metrics from a tracing backend.
type ExporterConfig struct {
	Protocol       string              `mapstructure:"protocol" validate:"oneof=2pc tcc saga"`
	Backend        string              `mapstructure:"backend" validate:"oneof=jaeger elasticsearch"`
	ServiceName    string              `mapstructure:"service_name" validate:"required"`
	ScrapeInterval string              `mapstructure:"scrape_interval"`
	Lookback       string              `mapstructure:"lookback"`
	Limit          int                 `mapstructure:"limit" validate:"gt=0"`
	Host           string              `mapstructure:"host"`
	Port           int                 `mapstructure:"port" validate:"gt=0"`
	Jaeger         JaegerConfig        `mapstructure:"jaeger"`
	Elasticsearch  ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// JaegerConfig points at the Jaeger query API.
type JaegerConfig struct {
	URL     string `mapstructure:"url"`
	Timeout string `mapstructure:"timeout"`
}

// ElasticsearchConfig points at the span index behind a Jaeger deployment
// that stores traces in Elasticsearch.
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	SpanIndex string   `mapstructure:"span_index"`
}

// ChaosConfig drives the fault injection schedule.
type ChaosConfig struct {
	Seed                   int64    `mapstructure:"seed"`
	Targets                []string `mapstructure:"targets" validate:"min=1"`
	MinDowntimeSec         int      `mapstructure:"min_downtime_sec" validate:"gt=0"`
	MaxDowntimeSec         int      `mapstructure:"max_downtime_sec" validate:"gtefield=MinDowntimeSec"`
	MinPauseSec            int      `mapstructure:"min_pause_sec" validate:"gt=0"`
	MaxPauseSec            int      `mapstructure:"max_pause_sec" validate:"gtefield=MinPauseSec"`
	CoordinatorName        string   `mapstructure:"coordinator_name"`
	CoordinatorDowntimeSec int      `mapstructure:"coordinator_downtime_sec" validate:"gte=0"`
	StabilizationSec       int      `mapstructure:"stabilization_sec" validate:"gte=0"`
	DurationSec            int      `mapstructure:"duration_sec" validate:"gte=0"`
}

// Load reads config.yaml, applies defaults and environment overrides, and
// validates the result. A missing config file is not an error because every
// value has a default.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/dtx-benchmark")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("paths.tracings_dir", "tracings")
	viper.SetDefault("paths.consistency_dir", "consistency")
	viper.SetDefault("paths.results_dir", "results")

	viper.SetDefault("windows.ramp_up_sec", 5.0)
	viper.SetDefault("windows.pre_chaos_end_sec", 60.0)
	viper.SetDefault("windows.post_chaos_start_sec", 69.0)

	viper.SetDefault("reconciliation.initial_value", 900_000_000)

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5433)
	viper.SetDefault("postgres.user", "root")
	viper.SetDefault("postgres.password", "pass")
	viper.SetDefault("postgres.connect_timeout", "5s")
	viper.SetDefault("postgres.databases.dtm", "dtm")
	viper.SetDefault("postgres.databases.orders", "orders_db")
	viper.SetDefault("postgres.databases.payments", "payments_db")
	viper.SetDefault("postgres.databases.inventory", "inventory_db")

	viper.SetDefault("collector.protocol", "saga")
	viper.SetDefault("collector.listen_address", "0.0.0.0:4317")
	viper.SetDefault("collector.buffer_size", 30)
	viper.SetDefault("collector.flush_interval", "10s")

	viper.SetDefault("exporter.protocol", "saga")
	viper.SetDefault("exporter.backend", "jaeger")
	viper.SetDefault("exporter.service_name", "orders-service")
	viper.SetDefault("exporter.scrape_interval", "60s")
	viper.SetDefault("exporter.lookback", "5m")
	viper.SetDefault("exporter.limit", 1000)
	viper.SetDefault("exporter.host", "0.0.0.0")
	viper.SetDefault("exporter.port", 8000)
	viper.SetDefault("exporter.jaeger.url", "http://localhost:16686")
	viper.SetDefault("exporter.jaeger.timeout", "10s")
	viper.SetDefault("exporter.elasticsearch.addresses", []string{"http://localhost:9200"})
	viper.SetDefault("exporter.elasticsearch.span_index", "jaeger-span-*")

	viper.SetDefault("chaos.seed", 44)
	viper.SetDefault("chaos.targets", []string{"dtm", "inventory_service", "payments_service"})
	viper.SetDefault("chaos.min_downtime_sec", 2)
	viper.SetDefault("chaos.max_downtime_sec", 8)
	viper.SetDefault("chaos.min_pause_sec", 5)
	viper.SetDefault("chaos.max_pause_sec", 10)
	viper.SetDefault("chaos.coordinator_name", "dtm")
	viper.SetDefault("chaos.coordinator_downtime_sec", 1)
	viper.SetDefault("chaos.stabilization_sec", 65)
	viper.SetDefault("chaos.duration_sec", 0)
}

func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	durations := []struct {
		name  string
		value string
	}{
		{"postgres connect_timeout", cfg.Postgres.ConnectTimeout},
		{"collector flush_interval", cfg.Collector.FlushInterval},
		{"exporter scrape_interval", cfg.Exporter.ScrapeInterval},
		{"exporter lookback", cfg.Exporter.Lookback},
		{"exporter jaeger timeout", cfg.Exporter.Jaeger.Timeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s duration: %w", d.name, err)
		}
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed on %q", fieldError.Namespace(), fieldError.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

// GetConnectTimeout parses the configured postgres connect timeout.
func (c *PostgresConfig) GetConnectTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ConnectTimeout)
	if d == 0 {
		return 5 * time.Second
	}
	return d
}

// GetFlushInterval parses the configured collector flush interval.
func (c *CollectorConfig) GetFlushInterval() time.Duration {
	d, _ := time.ParseDuration(c.FlushInterval)
	if d == 0 {
		return 10 * time.Second
	}
	return d
}

// GetScrapeInterval parses the configured scrape interval.
func (c *ExporterConfig) GetScrapeInterval() time.Duration {
	d, _ := time.ParseDuration(c.ScrapeInterval)
	if d == 0 {
		return 5 * time.Second
	}
	return d
}

// GetLookback parses the configured scrape lookback window.
func (c *ExporterConfig) GetLookback() time.Duration {
	d, _ := time.ParseDuration(c.Lookback)
	if d == 0 {
		return 5 * time.Minute
	}
	return d
}

// GetTimeout parses the configured Jaeger query timeout.
func (c *JaegerConfig) GetTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	if d == 0 {
		return 10 * time.Second
	}
	return d
}
