package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

var errNoBrokers = errors.New("kafka brokers not configured")

// withAdmin runs fn with a short-lived admin client on the seed brokers.
func withAdmin(cfg Config, fn func(*kadm.Client) error) error {
	if strings.TrimSpace(cfg.Brokers) == "" {
		return errNoBrokers
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(cfg.Brokers, ",")...),
		kgo.ClientID(cfg.ClientID),
	)
	if err != nil {
		return fmt.Errorf("create kafka admin client: %w", err)
	}
	defer client.Close()
	return fn(kadm.NewClient(client))
}

// EnsureTopics creates the given topics when missing. Existing topics are left untouched.
func EnsureTopics(ctx context.Context, cfg Config, topics ...string) error {
	partitions := max(cfg.Partitions, 1)
	replication := max(cfg.ReplicationFactor, 1)

	return withAdmin(cfg, func(admin *kadm.Client) error {
		resp, err := admin.CreateTopics(ctx, partitions, replication, nil, topics...)
		if err != nil {
			return fmt.Errorf("create topics: %w", err)
		}
		for _, t := range resp.Sorted() {
			if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
				return fmt.Errorf("create topic %s: %w", t.Topic, t.Err)
			}
		}
		return nil
	})
}

// TopicsCheck returns a readiness check that passes when the brokers answer
// and every topic exists.
func TopicsCheck(cfg Config, topics ...string) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		return withAdmin(cfg, func(admin *kadm.Client) error {
			details, err := admin.ListTopics(ctx, topics...)
			if err != nil {
				return fmt.Errorf("no kafka brokers reachable: %w", err)
			}
			for _, topic := range topics {
				d, ok := details[topic]
				if !ok || d.Err != nil {
					return fmt.Errorf("topic %s unavailable", topic)
				}
			}
			return nil
		})
	}
}
