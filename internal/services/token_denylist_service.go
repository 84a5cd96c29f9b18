package services

import (
	"errors"
	"time"

	"adlaan-backend/internal/database"

	"github.com/go-redis/redis/v8"
)

const denylistPrefix = "denylist:"

var ErrDenylistUnavailable = errors.New("token denylist unavailable")

func AddToDenylist(tokenString string, expiration time.Duration) error {
	if database.RedisClient == nil {
		return ErrDenylistUnavailable
	}
	key := denylistPrefix + tokenString
	return database.RedisClient.Set(database.Ctx, key, 1, expiration).Err()
}

func IsDenylisted(tokenString string) (bool, error) {
	if database.RedisClient == nil {
		return false, nil
	}
	key := denylistPrefix + tokenString
	val, err := database.RedisClient.Get(database.Ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return val != "", nil
}
