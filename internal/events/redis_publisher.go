package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds configuration for RedisPublisher
type Config struct {
	PublishTimeout time.Duration
}

// DefaultConfig returns default configuration values
func DefaultConfig() Config {
	return Config{
		PublishTimeout: 5 * time.Second,
	}
}

type metrics struct {
	publishLatency prometheus.Histogram
	errorCount     *prometheus.CounterVec
	eventCount     *prometheus.CounterVec
}

var (
	metricsInstance *metrics
	metricsOnce     sync.Once
	defaultRegistry = prometheus.DefaultRegisterer
)

func newMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInstance = &metrics{
			publishLatency: promauto.With(defaultRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "overspend_event_publish_duration_seconds",
				Help:    "Time taken to publish household events",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			}),
			errorCount: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "overspend_event_errors_total",
				Help: "Total number of event publishing errors",
			}, []string{"operation", "type"}),
			eventCount: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "overspend_events_total",
				Help: "Total number of events by operation and type",
			}, []string{"operation", "type"}),
		}
	})
	return metricsInstance
}

// For testing purposes - reset metrics
func resetMetricsForTesting() {
	defaultRegistry = prometheus.NewRegistry()
	metricsInstance = nil
	metricsOnce = sync.Once{}
}

// Channel returns the Redis channel events for a household are published on.
func Channel(householdID string) string {
	return fmt.Sprintf("household:%s", householdID)
}

// RedisPublisher implements types.EventPublisher using Redis Pub/Sub
type RedisPublisher struct {
	rdb     *redis.Client
	log     *zap.SugaredLogger
	metrics *metrics
	config  Config
	mu      sync.RWMutex
	closed  bool
}

var _ types.EventPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a new RedisPublisher instance
func NewRedisPublisher(rdb *redis.Client, cfg ...Config) *RedisPublisher {
	config := DefaultConfig()
	if len(cfg) > 0 {
		config = cfg[0]
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = DefaultConfig().PublishTimeout
	}

	return &RedisPublisher{
		rdb:     rdb,
		log:     logger.GetLogger().Named("events"),
		metrics: newMetrics(),
		config:  config,
	}
}

// prepare fills in defaults and encodes the event.
func prepare(householdID string, event *types.Event) ([]byte, string, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Version == 0 {
		event.Version = 1
	}
	if event.HouseholdID == "" {
		event.HouseholdID = householdID
	}

	if err := event.Validate(); err != nil {
		return nil, "validation", fmt.Errorf("invalid event: %w", err)
	}
	if event.HouseholdID != householdID {
		return nil, "validation", fmt.Errorf("event household %s does not match channel household %s", event.HouseholdID, householdID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, "marshal", fmt.Errorf("marshal event: %w", err)
	}
	return data, "", nil
}

// Publish publishes an event to the household's channel
func (p *RedisPublisher) Publish(ctx context.Context, householdID string, event types.Event) error {
	start := time.Now()
	defer func() {
		p.metrics.publishLatency.Observe(time.Since(start).Seconds())
	}()

	if p.isClosed() {
		p.metrics.errorCount.WithLabelValues("publish", "closed").Inc()
		return fmt.Errorf("publisher is shut down")
	}

	data, kind, err := prepare(householdID, &event)
	if err != nil {
		p.metrics.errorCount.WithLabelValues("publish", kind).Inc()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, Channel(householdID), data).Err(); err != nil {
		p.metrics.errorCount.WithLabelValues("publish", "redis").Inc()
		return fmt.Errorf("redis publish: %w", err)
	}

	p.metrics.eventCount.WithLabelValues("publish", string(event.Type)).Inc()
	return nil
}

// PublishBatch publishes multiple events using a Redis pipeline
func (p *RedisPublisher) PublishBatch(ctx context.Context, householdID string, events []types.Event) error {
	if len(events) == 0 {
		return nil
	}
	if p.isClosed() {
		p.metrics.errorCount.WithLabelValues("publish_batch", "closed").Inc()
		return fmt.Errorf("publisher is shut down")
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	channel := Channel(householdID)
	pipe := p.rdb.Pipeline()

	for i := range events {
		data, kind, err := prepare(householdID, &events[i])
		if err != nil {
			p.metrics.errorCount.WithLabelValues("publish_batch", kind).Inc()
			return fmt.Errorf("event %d in batch: %w", i, err)
		}
		pipe.Publish(ctx, channel, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		p.metrics.errorCount.WithLabelValues("publish_batch", "redis").Inc()
		return fmt.Errorf("execute batch publish: %w", err)
	}

	for _, event := range events {
		p.metrics.eventCount.WithLabelValues("publish", string(event.Type)).Inc()
	}

	return nil
}

func (p *RedisPublisher) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Shutdown stops accepting new events. The Redis client is owned by the caller.
func (p *RedisPublisher) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.log.Infow("RedisPublisher shutdown complete")
	return ctx.Err()
}
