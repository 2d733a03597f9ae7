package model

import "time"

type PollVisibility string

const (
	VisibilityPublic      PollVisibility = "PUBLIC"
	VisibilityFriendsOnly PollVisibility = "FRIENDS_ONLY"
	VisibilityPrivateLink PollVisibility = "PRIVATE_LINK"
)

func (v PollVisibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFriendsOnly, VisibilityPrivateLink:
		return true
	}
	return false
}

type Poll struct {
	Base
	OwnerID    uint           `json:"owner_id"`
	Owner      *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Question   string         `json:"question"`
	Visibility PollVisibility `json:"visibility"`
	// PrivateLinkToken is set iff Visibility is PRIVATE_LINK. It is the sole
	// gate for such polls; relationship state is never consulted.
	PrivateLinkToken string     `gorm:"index" json:"-"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

func (p *Poll) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}
