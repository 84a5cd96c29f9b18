package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisQueue is a Queue backed by a redis list.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client, key: TaskQueueKey}
}

func (q *RedisQueue) Enqueue(ctx context.Context, taskID uint) error {
	if err := q.client.RPush(ctx, q.key, taskID).Err(); err != nil {
		return fmt.Errorf("failed to push task %d to queue: %w", taskID, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (uint, error) {
	result, err := q.client.BLPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrEmpty
		}
		return 0, err
	}
	// BLPOP returns [key, value]
	id, err := strconv.ParseUint(result[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q in queue: %w", result[1], err)
	}
	return uint(id), nil
}

// Len reports the number of queued ids.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
