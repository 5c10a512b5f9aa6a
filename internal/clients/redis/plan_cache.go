package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/skindiary/careplan-backend/internal/logger"
	"github.com/skindiary/careplan-backend/internal/plan"
	"github.com/skindiary/careplan-backend/internal/utils"
)

// PlanCache stores finished plans keyed by (user, profile version). A new
// profile version is a new key, so a questionnaire retake naturally
// invalidates the prior entry.
type PlanCache interface {
	// Get returns the cached plan or (nil, nil) on a miss. An entry whose
	// payload lacks plan28 is treated as a miss and regenerated.
	Get(ctx context.Context, userID uuid.UUID, profileVersion int) (*plan.GeneratedPlan, error)
	Set(ctx context.Context, userID uuid.UUID, profileVersion int, generated *plan.GeneratedPlan) error
	Close() error
}

type planCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewPlanCache(log *logger.Logger) (PlanCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlHours := utils.GetEnvAsInt("PLAN_CACHE_TTL_HOURS", 720, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &planCache{
		log: log.With("service", "PlanCache"),
		rdb: rdb,
		ttl: time.Duration(ttlHours) * time.Hour,
	}, nil
}

func cacheKey(userID uuid.UUID, profileVersion int) string {
	return fmt.Sprintf("careplan:%s:v%d", userID, profileVersion)
}

func (c *planCache) Get(ctx context.Context, userID uuid.UUID, profileVersion int) (*plan.GeneratedPlan, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(userID, profileVersion)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("plan cache get: %w", err)
	}
	generated, ok := decodePlan(raw)
	if !ok {
		c.log.Debug("Cached plan entry is stale or undecodable, treating as miss", "user_id", userID, "version", profileVersion)
		return nil, nil
	}
	return generated, nil
}

func (c *planCache) Set(ctx context.Context, userID uuid.UUID, profileVersion int, generated *plan.GeneratedPlan) error {
	raw, err := json.Marshal(generated)
	if err != nil {
		return fmt.Errorf("plan cache marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey(userID, profileVersion), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("plan cache set: %w", err)
	}
	return nil
}

func (c *planCache) Close() error {
	return c.rdb.Close()
}

// decodePlan applies the forward-compatibility rule: entries written by
// older releases have no plan28 field and must be regenerated.
func decodePlan(raw []byte) (*plan.GeneratedPlan, bool) {
	var generated plan.GeneratedPlan
	if err := json.Unmarshal(raw, &generated); err != nil {
		return nil, false
	}
	if generated.Plan28 == nil {
		return nil, false
	}
	return &generated, true
}
