package redis

import (
	"fmt"

	"github.com/gomodule/redigo/redis"
)

// presence keys expire on their own in case an unregister is lost
const presenceTTL = 12 * 60 * 60

func presenceKey(userID uint) string {
	return fmt.Sprintf("online:%d", userID)
}

// Presence tracks which users hold an open notification socket somewhere in
// the cluster. The notifier consults it before falling back to mobile push.
type Presence struct {
	pool *redis.Pool
}

func NewPresence() *Presence {
	return &Presence{pool: GetPool()}
}

func (p *Presence) SetOnline(userID uint) error {
	conn := p.pool.Get()
	defer conn.Close()
	_, err := conn.Do("SET", presenceKey(userID), 1, "EX", presenceTTL)
	return err
}

func (p *Presence) SetOffline(userID uint) error {
	conn := p.pool.Get()
	defer conn.Close()
	_, err := conn.Do("DEL", presenceKey(userID))
	return err
}

func (p *Presence) IsOnline(userID uint) (bool, error) {
	conn := p.pool.Get()
	defer conn.Close()
	return redis.Bool(conn.Do("EXISTS", presenceKey(userID)))
}
