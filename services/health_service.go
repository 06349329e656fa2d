package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hearthledger/budget-backend/logger"
	"github.com/hearthledger/budget-backend/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	dbPingAttempts   = 3
	dbPingBackoff    = 100 * time.Millisecond
	warmupPeriod     = 5 * time.Minute
	poolDegradeRatio = 0.8
)

// DBPool is the slice of *pgxpool.Pool the health check needs.
type DBPool interface {
	Ping(ctx context.Context) error
	Stat() *pgxpool.Stat
	Config() *pgxpool.Config
}

type HealthService struct {
	dbPool      DBPool
	redisClient *redis.Client
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

func NewHealthService(dbPool DBPool, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		dbPool:      dbPool,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger().Named("health"),
	}
}

// CheckHealth reports DOWN if any dependency is down, DEGRADED if any is
// degraded, and UP otherwise.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := map[string]types.HealthComponent{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}

	overall := types.HealthStatusUp
	for _, c := range components {
		switch c.Status {
		case types.HealthStatusDown:
			overall = types.HealthStatusDown
		case types.HealthStatusDegraded:
			if overall != types.HealthStatusDown {
				overall = types.HealthStatusDegraded
			}
		}
	}

	return types.HealthCheck{
		Status:     overall,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	var err error
	for attempt := 1; attempt <= dbPingAttempts; attempt++ {
		if err = h.dbPool.Ping(ctx); err == nil {
			break
		}
		h.log.Warnw("Database ping failed", "attempt", attempt, "error", err)
		if ctx.Err() != nil {
			break
		}
		if attempt < dbPingAttempts {
			time.Sleep(dbPingBackoff)
		}
	}
	if err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed after multiple attempts",
		}
	}

	// Pool pressure is only judged once the instance is warm.
	if time.Since(h.startTime) <= warmupPeriod {
		return types.HealthComponent{Status: types.HealthStatusUp}
	}

	maxConns := h.dbPool.Config().MaxConns
	if maxConns > 0 {
		usage := float64(h.dbPool.Stat().AcquiredConns()) / float64(maxConns)
		if usage > poolDegradeRatio {
			return types.HealthComponent{
				Status:  types.HealthStatusDegraded,
				Details: fmt.Sprintf("Connection pool near capacity (%.0f%%)", usage*100),
			}
		}
	}

	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "Redis not configured"}
	}
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
