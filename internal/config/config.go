// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, storage backends, collaborator endpoints, rate limiting and
// observability settings for the design service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Supported values for STORE_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "sparrow-design-service")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DynamoConfig selects the DynamoDB table used when STORE_BACKEND=dynamodb.
type DynamoConfig struct {
	Region    string // AWS_REGION
	Endpoint  string // DYNAMODB_ENDPOINT, empty uses the AWS default resolver
	Table     string // DYNAMODB_TABLE
	AccessKey string // AWS_ACCESS_KEY_ID, optional static credentials
	SecretKey string // AWS_SECRET_ACCESS_KEY
}

// KafkaConfig configures design event notifications. No brokers means
// events are only logged.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// PaymentsConfig controls verification of recorded payment outcomes.
type PaymentsConfig struct {
	Verify      bool   // PAYMENT_VERIFY
	AccessToken string // MERCADOPAGO_ACCESS_TOKEN
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful drain
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	StoreBackend string // sqlite|dynamodb
	DBPath       string // SQLite path (orders, addresses, idempotency; designs for sqlite)
	Dynamo       DynamoConfig

	// Identity
	SellerIDs []string // identifiers treated as sellers

	// Collaborators
	Kafka    KafkaConfig
	Payments PaymentsConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad is Load for process startup: any configuration error panics.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load builds a Config from the process environment. Unset or blank
// variables take their defaults; values that are present but malformed
// are reported together with any validation failures.
func Load() (Config, error) {
	return load(newEnvReader())
}

func load(env *envReader) (Config, error) {
	var cfg Config

	cfg.Port = env.str("PORT", "8080")
	cfg.ReadTimeout = env.span("READ_TIMEOUT", 15*time.Second)
	cfg.ReadHeaderTimeout = env.span("READ_HEADER_TIMEOUT", 10*time.Second)
	cfg.WriteTimeout = env.span("WRITE_TIMEOUT", 20*time.Second)
	cfg.IdleTimeout = env.span("IDLE_TIMEOUT", 60*time.Second)
	cfg.ShutdownTimeout = env.span("SHUTDOWN_TIMEOUT", 10*time.Second)
	cfg.MaxHeaderBytes = env.num("MAX_HEADER_BYTES", 1<<20)
	cfg.GinMode = env.lower("GIN_MODE", "release")

	cfg.LogLevel = env.lower("LOG_LEVEL", "info")
	cfg.LogPretty = env.flag("LOG_PRETTY", false)
	cfg.SwaggerEnabled = env.flag("SWAGGER_ENABLED", false)
	cfg.APIBasePath = cleanBasePath(env.str("API_BASE_PATH", "/api/v1"))

	cfg.StoreBackend = env.lower("STORE_BACKEND", BackendSQLite)
	cfg.DBPath = env.str("DB_PATH", "designs.db")
	cfg.Dynamo = DynamoConfig{
		Region:    env.str("AWS_REGION", "us-east-1"),
		Endpoint:  env.str("DYNAMODB_ENDPOINT", ""),
		Table:     env.str("DYNAMODB_TABLE", "design_requests"),
		AccessKey: env.str("AWS_ACCESS_KEY_ID", ""),
		SecretKey: env.str("AWS_SECRET_ACCESS_KEY", ""),
	}

	cfg.SellerIDs = env.list("SELLER_IDS")
	cfg.Kafka = KafkaConfig{
		Brokers: env.list("KAFKA_BROKERS"),
		Topic:   env.str("KAFKA_TOPIC", "design-events"),
	}
	cfg.Payments = PaymentsConfig{
		Verify:      env.flag("PAYMENT_VERIFY", false),
		AccessToken: env.str("MERCADOPAGO_ACCESS_TOKEN", ""),
	}

	cfg.RateRPS = env.ratio("RATE_RPS", 5)
	cfg.RateBurst = env.num("RATE_BURST", 10)
	cfg.CORS.AllowedOrigins = env.list("CORS_ALLOWED_ORIGINS")
	cfg.Security = SecurityConfig{
		EnableHSTS: env.flag("ENABLE_HSTS", false),
		HSTSMaxAge: env.span("HSTS_MAX_AGE", 180*24*time.Hour),
	}
	cfg.IdempotencyTTL = env.span("IDEMPOTENCY_TTL", 24*time.Hour)

	cfg.OTEL = OTELConfig{
		Enabled:     env.flag("OTEL_ENABLED", false),
		Endpoint:    env.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Insecure:    env.flag("OTEL_EXPORTER_OTLP_INSECURE", true),
		ServiceName: env.str("OTEL_SERVICE_NAME", "sparrow-design-service"),
		SampleRatio: env.ratio("OTEL_TRACES_SAMPLER_ARG", 1),
	}

	cfg.normalize()
	errs := append(env.errs, cfg.validate()...)
	return cfg, errors.Join(errs...)
}

// normalize maps accepted aliases onto their canonical values.
func (c *Config) normalize() {
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if c.StoreBackend == "dynamo" {
		c.StoreBackend = BackendDynamoDB
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		c.GinMode = "release"
	}
}

func (c Config) validate() []error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error, fatal, panic", c.LogLevel))
	}
	check(c.Port != "", "PORT must not be empty")
	for name, d := range map[string]time.Duration{
		"READ_TIMEOUT":        c.ReadTimeout,
		"READ_HEADER_TIMEOUT": c.ReadHeaderTimeout,
		"WRITE_TIMEOUT":       c.WriteTimeout,
		"IDLE_TIMEOUT":        c.IdleTimeout,
		"SHUTDOWN_TIMEOUT":    c.ShutdownTimeout,
	} {
		check(d > 0, "%s must be a positive duration, got %s", name, d)
	}
	check(c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")

	switch c.StoreBackend {
	case BackendSQLite:
	case BackendDynamoDB:
		check(strings.TrimSpace(c.Dynamo.Table) != "", "DYNAMODB_TABLE is required for the dynamodb backend")
		check(strings.TrimSpace(c.Dynamo.Region) != "", "AWS_REGION is required for the dynamodb backend")
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND %q is not one of sqlite, dynamodb", c.StoreBackend))
	}
	check(c.DBPath != "", "DB_PATH must not be empty")

	check(len(c.Kafka.Brokers) == 0 || c.Kafka.Topic != "", "KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	check(!c.Payments.Verify || c.Payments.AccessToken != "", "MERCADOPAGO_ACCESS_TOKEN is required when PAYMENT_VERIFY is on")

	check(c.RateRPS >= 0, "RATE_RPS must be >= 0")
	check(c.RateBurst >= 1, "RATE_BURST must be >= 1")
	check(c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(c.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be within [0,1]")
	return errs
}
