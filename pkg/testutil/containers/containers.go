//go:build integration

// Package containers starts the backing services of carpeta (PostgreSQL,
// Redis and a Kafka-compatible Redpanda broker) once per test binary.
// Ryuk removes them when the process exits, so there is no explicit teardown.
package containers

import (
	"context"
	"sync"
	"testing"
	"time"
)

const startTimeout = 2 * time.Minute

// shared starts a container on first use and hands every later caller the
// same instance, or the same startup error.
type shared[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (s *shared[T]) get(t *testing.T, name string, start func(context.Context) (T, error)) T {
	t.Helper()
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
		defer cancel()
		s.val, s.err = start(ctx)
	})
	if s.err != nil {
		t.Fatalf("start %s container: %v", name, s.err)
	}
	return s.val
}

var (
	postgresOnce shared[*PostgresContainer]
	redisOnce    shared[*RedisContainer]
	kafkaOnce    shared[*KafkaContainer]
)

// Postgres returns the shared PostgreSQL container with migrations applied.
func Postgres(t *testing.T) *PostgresContainer {
	return postgresOnce.get(t, "postgres", startPostgres)
}

func Redis(t *testing.T) *RedisContainer {
	return redisOnce.get(t, "redis", startRedis)
}

// Kafka returns the shared Redpanda broker.
func Kafka(t *testing.T) *KafkaContainer {
	return kafkaOnce.get(t, "redpanda", startKafka)
}
