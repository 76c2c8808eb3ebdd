package kafka

import "time"

// Config holds Kafka connection parameters for a single-topic producer.
type Config struct {
	Topic string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN" or "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// WriteTimeout bounds each publish call. Zero uses the kafka-go default.
	WriteTimeout time.Duration

	// TLSCAFile is an optional PEM root CA. Empty uses the system pool.
	TLSCAFile string

	// TLS enables TLS for Kafka connections.
	TLS         bool
	SASLEnabled bool
}

// Enabled reports whether any broker is configured.
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}
