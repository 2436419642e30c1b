package cache

import (
	"context"

	"codecrux/internal/platform/config"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatalf("could not connect to Redis: %v", err)
	}
	log.Info("connected to Redis")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		log.Info("redis connection closed")
	}
}
