package model

import (
	"database/sql/driver"
	"time"
)

type RequestStatus string

// PENDING is the only non-terminal status.
const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestRejected RequestStatus = "REJECTED"
)

func (s *RequestStatus) Scan(value any) error {
	*s = RequestStatus(value.(string))
	return nil
}

func (s RequestStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// FollowRequest gates follow creation against a private followee. Unlike the
// other directed relations it carries a status lifecycle, so it gets its own
// table. Terminal rows are kept as history; at most one PENDING row exists
// per (follower, followee) pair at a time, enforced at the service layer.
type FollowRequest struct {
	Base
	FollowerID  uint          `gorm:"index:idx_follow_request_pair" json:"follower_id"`
	FolloweeID  uint          `gorm:"index:idx_follow_request_pair" json:"followee_id"`
	Follower    *User         `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee    *User         `gorm:"foreignKey:FolloweeID" json:"-"`
	Status      RequestStatus `json:"status"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
}
