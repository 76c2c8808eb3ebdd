package kafka

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:      []string{"localhost:9092", "localhost:9093"},
		Topic:        "gdm.predictions",
		WriteTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	assert.Equal(t, "gdm.predictions", p.Topic())
	assert.Equal(t, "gdm.predictions", p.writer.Topic)
	assert.Equal(t, 2*time.Second, p.writer.WriteTimeout)
	assert.Nil(t, p.writer.Transport)
}

func TestNewProducerValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "no brokers", cfg: Config{Topic: "t"}, wantErr: "no brokers configured"},
		{name: "no topic", cfg: Config{Brokers: []string{"kafka:9092"}}, wantErr: "topic is required"},
		{
			name:    "unknown SASL mechanism",
			cfg:     Config{Brokers: []string{"kafka:9092"}, Topic: "t", SASLEnabled: true, SASLMechanism: "GSSAPI"},
			wantErr: "unsupported SASL mechanism",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProducer(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewProducerTransport(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:       []string{"kafka:9092"},
		Topic:         "t",
		TLS:           true,
		SASLEnabled:   true,
		SASLMechanism: "SCRAM-SHA-512",
		SASLUsername:  "user",
		SASLPassword:  "secret",
	})
	require.NoError(t, err)

	transport, ok := p.writer.Transport.(*kafkago.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.TLS)
	require.NotNil(t, transport.SASL)
	assert.Equal(t, "SCRAM-SHA-512", transport.SASL.Name())
}

func TestPublishNoMessages(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"kafka:9092"}, Topic: "t"})
	require.NoError(t, err)

	assert.NoError(t, p.Publish(context.Background()))
}

func TestToKafkaMessages(t *testing.T) {
	out := toKafkaMessages([]Message{
		{
			Key:     []byte("prediction-1"),
			Value:   []byte(`{"prediction":"GDM Risk"}`),
			Headers: map[string]string{"event-type": "gdm.prediction.completed"},
		},
		{Key: []byte("prediction-2")},
	})

	require.Len(t, out, 2)
	assert.Equal(t, []byte("prediction-1"), out[0].Key)
	require.Len(t, out[0].Headers, 1)
	assert.Equal(t, "event-type", out[0].Headers[0].Key)
	assert.Equal(t, []byte("gdm.prediction.completed"), out[0].Headers[0].Value)
	assert.Empty(t, out[1].Headers)
}

func TestNewProducerMissingCAFile(t *testing.T) {
	_, err := NewProducer(Config{
		Brokers:   []string{"kafka:9092"},
		Topic:     "t",
		TLS:       true,
		TLSCAFile: t.TempDir() + "/missing-ca.pem",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read CA file")
}
