package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/Dev-Abood/GlucoTwin/pkg/kafka"
)

// Config holds all configuration for the prediction service.
type Config struct {
	// HTTP listen settings
	Host string
	Port int
	// Optional HTTPS key pair; both or neither must be set
	TLSCertFile string
	TLSKeyFile  string
	// Artifact locations
	Artifacts ArtifactConfig
	// Kafka configuration for prediction events
	Kafka KafkaConfig
	// Logging
	LogLevel  string
	LogFormat string
	// Allowed CORS origin
	CORSAllowOrigin string
	Environment     string
	// Service name for observability
	ServiceName string
	// Time allowed for in-flight requests on shutdown
	ShutdownTimeout time.Duration
}

// ArtifactConfig holds the trained artifact paths.
type ArtifactConfig struct {
	ModelPath    string
	ScalerPath   string
	EncodersPath string
}

// KafkaConfig holds Kafka connection settings. No brokers disables publishing.
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	TLS           bool
	TLSCAFile     string
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// Producer converts the settings to a pkg/kafka configuration.
func (c KafkaConfig) Producer() kafka.Config {
	return kafka.Config{
		Brokers:       c.Brokers,
		Topic:         c.Topic,
		TLS:           c.TLS,
		TLSCAFile:     c.TLSCAFile,
		SASLEnabled:   c.SASLMechanism != "",
		SASLMechanism: c.SASLMechanism,
		SASLUsername:  c.SASLUsername,
		SASLPassword:  c.SASLPassword,
		WriteTimeout:  5 * time.Second,
	}
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		Host:        getEnv("HOST", "0.0.0.0"),
		Port:        getEnvInt("PORT", 5000),
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		ServiceName: getEnv("SERVICE_NAME", "gdm-api"),
		Artifacts: ArtifactConfig{
			ModelPath:    getEnv("MODEL_PATH", "model.gob"),
			ScalerPath:   getEnv("SCALER_PATH", "scaler.gob"),
			EncodersPath: getEnv("ENCODERS_PATH", "encoders.json"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:         getEnv("KAFKA_TOPIC", "gdm.predictions"),
			TLS:           getEnv("KAFKA_TLS", "false") == "true",
			TLSCAFile:     getEnv("KAFKA_TLS_CA_FILE", ""),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

// Validate checks the configuration and reports every problem found.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.Port < 1 || c.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.Artifacts.ModelPath == "" {
		result = multierror.Append(result, errors.New("MODEL_PATH is required"))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		result = multierror.Append(result, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		result = multierror.Append(result, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	switch c.Kafka.SASLMechanism {
	case "", "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported KAFKA_SASL_MECHANISM %q", c.Kafka.SASLMechanism))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		result = multierror.Append(result, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	if c.ShutdownTimeout <= 0 {
		result = multierror.Append(result, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive"))
	}

	return result.ErrorOrNil()
}

// Enabled reports whether prediction events should be published.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// TLSEnabled reports whether the HTTP server should serve HTTPS.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Address returns the HTTP listen address.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
