package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message represents a received Kafka message.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes consumed messages.
type Handler interface {
	// Handle processes a message. Return error to skip commit (message will be redelivered).
	Handle(ctx context.Context, msg *Message) error
}

// Consumer reads a consumer group with manual commits: an offset is committed
// only after the handler accepts the record.
type Consumer struct {
	client       *kgo.Client
	handler      Handler
	logger       *slog.Logger
	retryBackoff time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// Config holds consumer configuration.
type Config struct {
	Brokers         string
	GroupID         string
	AutoOffsetReset string
	// RetryBackoff is the pause before a failed record is fetched again.
	RetryBackoff time.Duration
}

// New creates a new Kafka consumer.
func New(cfg Config, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	if cfg.GroupID == "" {
		return nil, fmt.Errorf("kafka consumer group ID not configured")
	}

	reset := kgo.NewOffset().AtStart()
	if cfg.AutoOffsetReset == "latest" {
		reset = kgo.NewOffset().AtEnd()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(cfg.Brokers, ",")...),
		kgo.ConsumerGroup(cfg.GroupID),
		kgo.ConsumeResetOffset(reset),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		client:       client,
		handler:      handler,
		logger:       logger,
		retryBackoff: backoff,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// Subscribe starts consuming from the specified topics.
func (c *Consumer) Subscribe(topics []string) error {
	if len(topics) == 0 {
		return fmt.Errorf("subscribe to topics: no topics given")
	}
	c.client.AddConsumeTopics(topics...)
	return nil
}

// Start begins the consumption loop in a background goroutine.
func (c *Consumer) Start() {
	c.wg.Add(1)
	go c.run()
}

func (c *Consumer) run() {
	defer c.wg.Done()

	for {
		fetches := c.client.PollFetches(c.ctx)
		if fetches.IsClientClosed() || c.ctx.Err() != nil {
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logError("kafka fetch error", "topic", topic, "partition", partition, "error", err)
		})

		failed := false
		fetches.EachPartition(func(p kgo.FetchTopicPartition) {
			if !c.handlePartition(p.Records) {
				failed = true
			}
		})

		if failed {
			select {
			case <-c.ctx.Done():
				return
			case <-time.After(c.retryBackoff):
			}
		}
	}
}

// handlePartition processes records in order and stops at the first failure,
// rewinding the partition so the failed record is fetched again.
func (c *Consumer) handlePartition(records []*kgo.Record) bool {
	var handled []*kgo.Record
	ok := true
	for _, r := range records {
		if err := c.handler.Handle(c.ctx, toMessage(r)); err != nil {
			c.logError("failed to handle message",
				"topic", r.Topic,
				"partition", r.Partition,
				"offset", r.Offset,
				"error", err,
			)
			c.client.SetOffsets(map[string]map[int32]kgo.EpochOffset{
				r.Topic: {r.Partition: {Epoch: r.LeaderEpoch, Offset: r.Offset}},
			})
			ok = false
			break
		}
		handled = append(handled, r)
	}

	if len(handled) > 0 {
		if err := c.client.CommitRecords(c.ctx, handled...); err != nil {
			last := handled[len(handled)-1]
			c.logError("failed to commit offset",
				"topic", last.Topic,
				"partition", last.Partition,
				"offset", last.Offset,
				"error", err,
			)
		}
	}
	return ok
}

func toMessage(r *kgo.Record) *Message {
	headers := make(map[string]string, len(r.Headers))
	for _, h := range r.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Headers:   headers,
		Timestamp: r.Timestamp,
	}
}

func (c *Consumer) logError(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Error(msg, args...)
	}
}

// Stop gracefully stops the consumer.
func (c *Consumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.client.Close()
		return nil
	case <-ctx.Done():
		c.client.Close()
		return ctx.Err()
	}
}

// Healthy checks if the consumer can reach the brokers.
func (c *Consumer) Healthy(ctx context.Context) bool {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return false
	}
	c.mu.RUnlock()

	return c.client.Ping(ctx) == nil
}
