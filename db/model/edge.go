package model

import (
	"database/sql/driver"
	"time"
)

type EdgeKind string

const (
	EdgeFollow EdgeKind = "follow"
	EdgeBlock  EdgeKind = "block"
	EdgeMute   EdgeKind = "mute"
)

func (k *EdgeKind) Scan(value any) error {
	*k = EdgeKind(value.(string))
	return nil
}

func (k EdgeKind) Value() (driver.Value, error) {
	return string(k), nil
}

// Edge is a single directed relation between two users. Follow, block and
// mute all share the "directed pair, composite key, no self-loop" shape, so
// they share one table keyed by kind. Friendship is never an edge: it is
// recomputed from the two follow directions on every read.
type Edge struct {
	Kind      EdgeKind  `gorm:"primaryKey" json:"kind"`
	FromID    uint      `gorm:"primaryKey" json:"from_id"`
	ToID      uint      `gorm:"primaryKey" json:"to_id"`
	From      *User     `gorm:"foreignKey:FromID" json:"-"`
	To        *User     `gorm:"foreignKey:ToID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
