package mq

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// TopicRelationships fans relationship events out to every server instance,
// which forward them to whichever sockets they hold for the target user.
const TopicRelationships = "relationships"

const (
	EventFollowed        = "followed"
	EventFollowRequested = "follow_requested"
	EventFollowAccepted  = "follow_accepted"
)

type RelationshipEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	ActorID   uint   `json:"actor_id"`
	TargetID  uint   `json:"target_id"`
	Timestamp int64  `json:"timestamp"`
}

// Emitter implements relationship.Events by publishing to nsq. Delivery is
// best-effort: a failed publish is logged and dropped, the mutation it
// followed has already committed.
type Emitter struct {
	logger *log.Logger
}

func NewEmitter(logger *log.Logger) *Emitter {
	return &Emitter{logger: logger}
}

func (e *Emitter) emit(typ string, actorID, targetID uint) {
	evt := RelationshipEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		ActorID:   actorID,
		TargetID:  targetID,
		Timestamp: time.Now().Unix(),
	}
	if err := Publish(TopicRelationships, evt); err != nil {
		e.logger.Println(err)
	}
}

func (e *Emitter) Followed(followerID, followeeID uint) {
	e.emit(EventFollowed, followerID, followeeID)
}

func (e *Emitter) FollowRequested(followerID, followeeID uint) {
	e.emit(EventFollowRequested, followerID, followeeID)
}

func (e *Emitter) FollowAccepted(followerID, followeeID uint) {
	// the follower is the one to notify: their request got approved
	e.emit(EventFollowAccepted, followeeID, followerID)
}
