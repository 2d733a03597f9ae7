// Package relationship mutates the social graph: follow/unfollow,
// block/unblock (with cascade), mute/unmute and the follow-request
// lifecycle. Invariants are enforced here, at mutation time.
package relationship

import (
	"context"
	"errors"
	"time"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/fault"
)

// Store is the persistence the mutations run against. CreateEdge returns a
// fault.Conflict error when the edge already exists; DeleteEdge reports
// whether anything was removed.
type Store interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	HasEdge(ctx context.Context, kind model.EdgeKind, fromID, toID uint) (bool, error)
	CreateEdge(ctx context.Context, e *model.Edge) error
	UpsertEdge(ctx context.Context, e *model.Edge) error
	DeleteEdge(ctx context.Context, kind model.EdgeKind, fromID, toID uint) (bool, error)
	PendingRequest(ctx context.Context, followerID, followeeID uint) (*model.FollowRequest, error)
	CreateRequest(ctx context.Context, req *model.FollowRequest) error
	SaveRequest(ctx context.Context, req *model.FollowRequest) error
	ListIncomingRequests(ctx context.Context, followeeID uint, status model.RequestStatus) ([]model.FollowRequest, error)
}

// Events receives best-effort notifications after a successful mutation.
// Implementations must not block; failures are the implementation's problem.
type Events interface {
	Followed(followerID, followeeID uint)
	FollowRequested(followerID, followeeID uint)
	FollowAccepted(followerID, followeeID uint)
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) Followed(uint, uint)        {}
func (NopEvents) FollowRequested(uint, uint) {}
func (NopEvents) FollowAccepted(uint, uint)  {}

// FollowOutcome reports whether Follow created an edge directly or parked a
// pending request behind a private account.
type FollowOutcome string

const (
	OutcomeFollowing FollowOutcome = "following"
	OutcomeRequested FollowOutcome = "requested"
)

type Service struct {
	store  Store
	events Events
}

func NewService(store Store, events Events) *Service {
	if events == nil {
		events = NopEvents{}
	}
	return &Service{store: store, events: events}
}

// Follow makes follower subscribe to followee. Against a private followee it
// creates a PENDING request instead of an edge.
func (s *Service) Follow(ctx context.Context, followerID, followeeID uint) (FollowOutcome, error) {
	if followerID == followeeID {
		return "", fault.Validation("cannot follow yourself")
	}
	followee, err := s.store.GetUser(ctx, followeeID)
	if err != nil {
		return "", err
	}
	if blocked, err := s.store.HasEdge(ctx, model.EdgeBlock, followeeID, followerID); err != nil {
		return "", err
	} else if blocked {
		return "", fault.Validation("user is not accepting follows")
	}
	if following, err := s.store.HasEdge(ctx, model.EdgeFollow, followerID, followeeID); err != nil {
		return "", err
	} else if following {
		return "", fault.Conflict("already following")
	}

	if followee.IsPrivate {
		if _, err := s.store.PendingRequest(ctx, followerID, followeeID); err == nil {
			return "", fault.Conflict("follow request already pending")
		} else if !errors.Is(err, fault.ErrNotFound) {
			return "", err
		}
		req := &model.FollowRequest{
			FollowerID: followerID,
			FolloweeID: followeeID,
			Status:     model.RequestPending,
		}
		if err := s.store.CreateRequest(ctx, req); err != nil {
			return "", err
		}
		s.events.FollowRequested(followerID, followeeID)
		return OutcomeRequested, nil
	}

	if err := s.store.CreateEdge(ctx, &model.Edge{
		Kind:   model.EdgeFollow,
		FromID: followerID,
		ToID:   followeeID,
	}); err != nil {
		return "", err
	}
	s.events.Followed(followerID, followeeID)
	return OutcomeFollowing, nil
}

// Unfollow removes the follow edge if present. Removing a missing edge is an
// idempotent no-op, not a failure.
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return fault.Validation("cannot unfollow yourself")
	}
	_, err := s.store.DeleteEdge(ctx, model.EdgeFollow, followerID, followeeID)
	return err
}

// Block upserts the block edge after a best-effort removal of the follow
// edges in both directions. The cascade deletes are independently keyed and
// purely corrective, so their errors are swallowed; absence is not an error.
func (s *Service) Block(ctx context.Context, blockerID, blockedID uint) error {
	if blockerID == blockedID {
		return fault.Validation("cannot block yourself")
	}
	if _, err := s.store.GetUser(ctx, blockedID); err != nil {
		return err
	}
	s.store.DeleteEdge(ctx, model.EdgeFollow, blockerID, blockedID)
	s.store.DeleteEdge(ctx, model.EdgeFollow, blockedID, blockerID)
	return s.store.UpsertEdge(ctx, &model.Edge{
		Kind:   model.EdgeBlock,
		FromID: blockerID,
		ToID:   blockedID,
	})
}

// Unblock removes the block edge; idempotent. No cascade: follow edges were
// already gone when the block was created.
func (s *Service) Unblock(ctx context.Context, blockerID, blockedID uint) error {
	if blockerID == blockedID {
		return fault.Validation("cannot unblock yourself")
	}
	_, err := s.store.DeleteEdge(ctx, model.EdgeBlock, blockerID, blockedID)
	return err
}

// Mute upserts the mute edge. Mute affects feed filtering only and carries
// no cascade in either direction.
func (s *Service) Mute(ctx context.Context, muterID, mutedID uint) error {
	if muterID == mutedID {
		return fault.Validation("cannot mute yourself")
	}
	if _, err := s.store.GetUser(ctx, mutedID); err != nil {
		return err
	}
	return s.store.UpsertEdge(ctx, &model.Edge{
		Kind:   model.EdgeMute,
		FromID: muterID,
		ToID:   mutedID,
	})
}

func (s *Service) Unmute(ctx context.Context, muterID, mutedID uint) error {
	if muterID == mutedID {
		return fault.Validation("cannot unmute yourself")
	}
	_, err := s.store.DeleteEdge(ctx, model.EdgeMute, muterID, mutedID)
	return err
}

// AcceptFollowRequest turns the pending request into a follow edge and marks
// the request ACCEPTED. Valid only while the request is PENDING. The two
// writes are sequential, not transactional; an edge that already exists is
// tolerated.
func (s *Service) AcceptFollowRequest(ctx context.Context, followerID, followeeID uint) error {
	req, err := s.store.PendingRequest(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	err = s.store.CreateEdge(ctx, &model.Edge{
		Kind:   model.EdgeFollow,
		FromID: followerID,
		ToID:   followeeID,
	})
	if err != nil && !fault.IsConflict(err) {
		return err
	}
	now := time.Now()
	req.Status = model.RequestAccepted
	req.RespondedAt = &now
	if err := s.store.SaveRequest(ctx, req); err != nil {
		return err
	}
	s.events.FollowAccepted(followerID, followeeID)
	return nil
}

// RejectFollowRequest marks the pending request REJECTED. Terminal: the
// follower may re-request later, which creates a fresh PENDING row.
func (s *Service) RejectFollowRequest(ctx context.Context, followerID, followeeID uint) error {
	req, err := s.store.PendingRequest(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	now := time.Now()
	req.Status = model.RequestRejected
	req.RespondedAt = &now
	return s.store.SaveRequest(ctx, req)
}

// IncomingRequests lists the PENDING requests awaiting the followee.
func (s *Service) IncomingRequests(ctx context.Context, followeeID uint) ([]model.FollowRequest, error) {
	return s.store.ListIncomingRequests(ctx, followeeID, model.RequestPending)
}
