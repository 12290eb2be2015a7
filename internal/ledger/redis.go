package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "votes"

// Redis keeps marks in a sorted set scored by a per-ledger counter, so several clients
// sharing one server also share one ledger.
type Redis struct {
	client *redis.Client
	key    string
	logger *log.Logger
}

// NewRedis connects to redisURL and pings it once. Marks live under "personas:<key>".
func NewRedis(ctx context.Context, redisURL, key string, logger *log.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	if key == "" {
		key = defaultRedisKey
	}
	return &Redis{client: client, key: "personas:" + key, logger: discardLogger(logger)}, nil
}

func (r *Redis) seqKey() string { return r.key + ":seq" }

func (r *Redis) HasVoted(ctx context.Context, id string) bool {
	_, err := r.client.ZScore(ctx, r.key, id).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		r.logger.Warn("could not read vote ledger", "id", id, "error", err)
		return false
	}
	return true
}

func (r *Redis) MarkVoted(ctx context.Context, id string) {
	if r.HasVoted(ctx, id) {
		return
	}

	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		r.logger.Warn("could not record vote", "id", id, "error", err)
		return
	}

	if err := r.client.ZAddNX(ctx, r.key, redis.Z{Score: float64(seq), Member: id}).Err(); err != nil {
		r.logger.Warn("could not record vote", "id", id, "error", err)
	}
}

func (r *Redis) Voted(ctx context.Context) []string {
	ids, err := r.client.ZRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		r.logger.Warn("could not list vote ledger", "error", err)
		return []string{}
	}
	if ids == nil {
		return []string{}
	}
	return ids
}

func (r *Redis) Close() error { return r.client.Close() }
