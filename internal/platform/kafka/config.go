package kafka

import "time"

// Topics used by the document store.
const (
	TopicDocumentsUploaded      = "documents.uploaded"
	TopicDocumentsAuthenticated = "documents.authenticated"
)

// Config holds the broker settings shared by producer, consumer and admin.
type Config struct {
	Brokers           string
	ClientID          string
	GroupID           string
	Acks              string
	Retries           int
	DeliveryTimeout   time.Duration
	AutoOffsetReset   string
	Partitions        int32
	ReplicationFactor int16
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		ClientID:          "carpeta",
		GroupID:           "carpeta-documents",
		Acks:              "all",
		Retries:           3,
		DeliveryTimeout:   30 * time.Second,
		AutoOffsetReset:   "earliest",
		Partitions:        3,
		ReplicationFactor: 1,
	}
}

// Enabled reports whether brokers are configured.
func (c Config) Enabled() bool {
	return c.Brokers != ""
}
