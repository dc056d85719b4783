// Package config loads process configuration from the environment. A .env
// file in the working directory is read first when present; variables
// already set in the environment win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"

	"carpeta/internal/blob"
	"carpeta/internal/platform/database"
	"carpeta/internal/platform/kafka"
	"carpeta/internal/platform/redis"
)

// Storage backends for the partition store.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
)

// Blob backends.
const (
	BlobMemory = "memory"
	BlobMinio  = "minio"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// Storage selects and configures the partition store backend.
type Storage struct {
	Backend    string
	Postgres   database.Config
	SQLitePath string
	Redis      redis.Config
}

// Blob configures document content storage.
type Blob struct {
	Backend    string
	Minio      blob.MinioConfig
	PresignTTL time.Duration

	// Secret and BaseURL shape the download URLs of the in-memory backend.
	Secret  string
	BaseURL string
}

// Downstream configures one resilient HTTP dependency.
type Downstream struct {
	BaseURL string
	APIKey  string
}

// Resilience holds retry and breaker parameters shared by every dependency.
type Resilience struct {
	CallTimeout    time.Duration
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	WindowSize     int
	MinCalls       int
	FailureRate    float64
	Cooldown       time.Duration
	HalfOpenProbes int
}

// Registration configures the citizen registration saga.
type Registration struct {
	Registry Downstream
	// Folders has no BaseURL when folders are provisioned in process.
	Folders Downstream

	AlreadyRegisteredStatus int
	SystemOperatorID        string
	SystemOperatorName      string
	AsyncAudit              bool
}

// Config is the full process configuration.
type Config struct {
	Server       Server
	Storage      Storage
	Blob         Blob
	Registration Registration
	Resilience   Resilience
	Kafka        kafka.Config
}

// FromEnv loads .env when present and builds a validated Config.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse(os.Getenv)
}

// Parse builds a Config from a variable lookup.
func Parse(getenv func(string) string) (Config, error) {
	e := env{get: getenv}

	pg := database.DefaultConfig()
	pg.URL = e.str("DATABASE_URL", "")
	pg.MaxOpenConns = e.int("DATABASE_MAX_OPEN_CONNS", pg.MaxOpenConns)
	pg.MaxIdleConns = e.int("DATABASE_MAX_IDLE_CONNS", pg.MaxIdleConns)
	pg.ConnMaxLifetime = e.duration("DATABASE_CONN_MAX_LIFETIME", pg.ConnMaxLifetime)
	pg.Migrate = e.bool("DATABASE_MIGRATE", pg.Migrate)

	kc := kafka.DefaultConfig()
	kc.Brokers = e.str("KAFKA_BROKERS", "")
	kc.ClientID = e.str("KAFKA_CLIENT_ID", kc.ClientID)
	kc.GroupID = e.str("KAFKA_GROUP_ID", kc.GroupID)
	kc.Acks = e.str("KAFKA_ACKS", kc.Acks)
	kc.Retries = e.int("KAFKA_RETRIES", kc.Retries)
	kc.DeliveryTimeout = e.duration("KAFKA_DELIVERY_TIMEOUT", kc.DeliveryTimeout)
	kc.AutoOffsetReset = e.str("KAFKA_AUTO_OFFSET_RESET", kc.AutoOffsetReset)
	kc.Partitions = int32(e.int("KAFKA_TOPIC_PARTITIONS", int(kc.Partitions)))
	kc.ReplicationFactor = int16(e.int("KAFKA_TOPIC_REPLICATION", int(kc.ReplicationFactor)))

	cfg := Config{
		Server: Server{
			Addr:            e.str("CARPETA_ADDR", ":8080"),
			Environment:     e.str("ENVIRONMENT", "development"),
			LogLevel:        e.str("LOG_LEVEL", "info"),
			RequestTimeout:  e.duration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
			CORSOrigins:     e.list("CORS_ALLOWED_ORIGINS"),
		},
		Storage: Storage{
			Backend:    e.str("STORAGE_BACKEND", StorageMemory),
			Postgres:   pg,
			SQLitePath: e.str("SQLITE_PATH", "./data/carpeta.db"),
			Redis: redis.Config{
				URL:          e.str("REDIS_URL", ""),
				PoolSize:     e.int("REDIS_POOL_SIZE", 0),
				MinIdleConns: e.int("REDIS_MIN_IDLE_CONNS", 0),
				DialTimeout:  e.duration("REDIS_DIAL_TIMEOUT", 0),
				ReadTimeout:  e.duration("REDIS_READ_TIMEOUT", 0),
				WriteTimeout: e.duration("REDIS_WRITE_TIMEOUT", 0),
			},
		},
		Blob: Blob{
			Backend: e.str("BLOB_BACKEND", BlobMemory),
			Minio: blob.MinioConfig{
				Endpoint:  e.str("MINIO_ENDPOINT", ""),
				AccessKey: e.str("MINIO_ACCESS_KEY", ""),
				SecretKey: e.str("MINIO_SECRET_KEY", ""),
				Bucket:    e.str("MINIO_BUCKET", "carpeta-documentos"),
				UseSSL:    e.bool("MINIO_USE_SSL", false),
				Region:    e.str("MINIO_REGION", ""),
			},
			Secret:     e.str("BLOB_SIGNING_SECRET", "dev-blob-secret"),
			BaseURL:    e.str("BLOB_BASE_URL", "http://localhost:8080/blobs"),
			PresignTTL: e.duration("PRESIGN_TTL", blob.DefaultPresignTTL),
		},
		Registration: Registration{
			Registry: Downstream{
				BaseURL: e.str("REGISTRY_API_URL", ""),
				APIKey:  e.str("REGISTRY_API_KEY", ""),
			},
			Folders: Downstream{
				BaseURL: e.str("FOLDER_API_URL", ""),
				APIKey:  e.str("FOLDER_API_KEY", ""),
			},
			AlreadyRegisteredStatus: e.int("REGISTRY_ALREADY_REGISTERED_STATUS", 501),
			SystemOperatorID:        e.str("SYSTEM_OPERATOR_ID", "SISTEMA_REGISTRO"),
			SystemOperatorName:      e.str("SYSTEM_OPERATOR_NAME", "Sistema de Registro"),
			AsyncAudit:              e.bool("AUDIT_ASYNC", false),
		},
		Resilience: Resilience{
			CallTimeout:    e.duration("DOWNSTREAM_CALL_TIMEOUT", 10*time.Second),
			MaxRetries:     e.int("RETRY_MAX_RETRIES", 2),
			InitialDelay:   e.duration("RETRY_INITIAL_DELAY", 200*time.Millisecond),
			MaxDelay:       e.duration("RETRY_MAX_DELAY", 2*time.Second),
			WindowSize:     e.int("BREAKER_WINDOW_SIZE", 10),
			MinCalls:       e.int("BREAKER_MIN_CALLS", 5),
			FailureRate:    e.float("BREAKER_FAILURE_RATE", 0.5),
			Cooldown:       e.duration("BREAKER_COOLDOWN", 30*time.Second),
			HalfOpenProbes: e.int("BREAKER_HALF_OPEN_PROBES", 3),
		},
		Kafka: kc,
	}
	if len(e.errs) > 0 {
		return Config{}, fmt.Errorf("parse environment: %s", strings.Join(e.errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// InProcessFolders reports whether folders are provisioned by the local document store.
func (c Config) InProcessFolders() bool {
	return c.Registration.Folders.BaseURL == ""
}

// Validate checks cross-field requirements of the selected backends.
func (c Config) Validate() error {
	s, b, reg, res := c.Storage, c.Blob, c.Registration, c.Resilience
	return ozzo.Errors{
		"addr":               ozzo.Validate(c.Server.Addr, ozzo.Required),
		"storage_backend":    ozzo.Validate(s.Backend, ozzo.In(StorageMemory, StoragePostgres, StorageSQLite, StorageRedis)),
		"database_url":       ozzo.Validate(s.Postgres.URL, ozzo.When(s.Backend == StoragePostgres, ozzo.Required)),
		"redis_url":          ozzo.Validate(s.Redis.URL, ozzo.When(s.Backend == StorageRedis, ozzo.Required)),
		"sqlite_path":        ozzo.Validate(s.SQLitePath, ozzo.When(s.Backend == StorageSQLite, ozzo.Required)),
		"blob_backend":       ozzo.Validate(b.Backend, ozzo.In(BlobMemory, BlobMinio)),
		"minio_endpoint":     ozzo.Validate(b.Minio.Endpoint, ozzo.When(b.Backend == BlobMinio, ozzo.Required)),
		"minio_bucket":       ozzo.Validate(b.Minio.Bucket, ozzo.When(b.Backend == BlobMinio, ozzo.Required)),
		"blob_secret":        ozzo.Validate(b.Secret, ozzo.When(b.Backend == BlobMemory, ozzo.Required)),
		"registry_api_url":   ozzo.Validate(reg.Registry.BaseURL, ozzo.Required),
		"already_registered": ozzo.Validate(reg.AlreadyRegisteredStatus, ozzo.Min(100), ozzo.Max(599)),
		"retry_max_retries":  ozzo.Validate(res.MaxRetries, ozzo.Min(0)),
		"call_timeout":       ozzo.Validate(res.CallTimeout, ozzo.Min(time.Millisecond)),
		"breaker_failure":    ozzo.Validate(res.FailureRate, ozzo.Min(0.01), ozzo.Max(1.0)),
		"kafka_offset_reset": ozzo.Validate(c.Kafka.AutoOffsetReset, ozzo.In("earliest", "latest")),
	}.Filter()
}

// env reads typed variables and collects parse errors.
type env struct {
	get  func(string) string
	errs []string
}

func (e *env) str(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

func (e *env) int(key string, def int) int {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s: not an integer", key))
		return def
	}
	return v
}

func (e *env) float(key string, def float64) float64 {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s: not a number", key))
		return def
	}
	return v
}

func (e *env) bool(key string, def bool) bool {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s: not a boolean", key))
		return def
	}
	return v
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s: not a duration", key))
		return def
	}
	return v
}

func (e *env) list(key string) []string {
	var out []string
	for _, item := range strings.Split(e.get(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
