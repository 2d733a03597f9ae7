package redis

import (
	"sync"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/maktse/pollloop-backend/env"
)

var (
	pool *redis.Pool
	once sync.Once
)

func GetPool() *redis.Pool {
	once.Do(func() {
		pool = &redis.Pool{
			MaxIdle:     10,
			IdleTimeout: 240 * time.Second,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", env.REDIS_CONN)
			},
		}
	})
	return pool
}
