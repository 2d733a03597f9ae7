// Package response owns the per-response visibility overlay: hide/share
// flags and flip-flop counting, independent of poll-level visibility.
package response

import (
	"context"
	"errors"
	"time"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/fault"
)

type Store interface {
	GetPoll(ctx context.Context, id uint) (*model.Poll, error)
	GetResponse(ctx context.Context, id uint) (*model.Response, error)
	GetResponseByPollAuthor(ctx context.Context, pollID, authorID uint) (*model.Response, error)
	CreateResponse(ctx context.Context, resp *model.Response) error
	SaveResponse(ctx context.Context, resp *model.Response) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Submit records or updates the author's response to a poll. The first
// submission starts FlipFlopCount at 0; every write through the update path
// increments it by exactly 1, same-value resubmissions included. Concurrent
// writers are last-writer-wins on both value and count.
func (s *Service) Submit(ctx context.Context, pollID, authorID uint, value int) (*model.Response, error) {
	if value < model.SliderMin || value > model.SliderMax {
		return nil, fault.Validation("value must be between %d and %d", model.SliderMin, model.SliderMax)
	}
	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.Expired(time.Now()) {
		return nil, fault.Validation("poll has expired")
	}

	resp, err := s.store.GetResponseByPollAuthor(ctx, pollID, authorID)
	if errors.Is(err, fault.ErrNotFound) {
		resp = &model.Response{
			PollID:   pollID,
			AuthorID: authorID,
			Value:    value,
		}
		if err := s.store.CreateResponse(ctx, resp); err != nil {
			return nil, err
		}
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	resp.Value = value
	resp.FlipFlopCount++
	if err := s.store.SaveResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// VisibilityUpdate carries the optional overlay fields; nil leaves a field
// untouched.
type VisibilityUpdate struct {
	IsHidden         *bool
	IsSharedPublicly *bool
	PublicComment    *string
}

// SetVisibility applies the overlay. Only the author may change it, and a
// response can be shared publicly only when its poll is PUBLIC. Rejections
// happen before any write.
func (s *Service) SetVisibility(ctx context.Context, responseID, requesterID uint, upd VisibilityUpdate) (*model.Response, error) {
	resp, err := s.store.GetResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if requesterID != resp.AuthorID {
		return nil, fault.Validation("only the author may change response visibility")
	}
	if upd.IsSharedPublicly != nil && *upd.IsSharedPublicly {
		poll, err := s.store.GetPoll(ctx, resp.PollID)
		if err != nil {
			return nil, err
		}
		if poll.Visibility != model.VisibilityPublic {
			return nil, fault.Validation("responses can be shared publicly only on public polls")
		}
	}

	if upd.IsHidden != nil {
		resp.IsHidden = *upd.IsHidden
	}
	if upd.IsSharedPublicly != nil {
		resp.IsSharedPublicly = *upd.IsSharedPublicly
	}
	if upd.PublicComment != nil {
		resp.PublicComment = *upd.PublicComment
	}
	if err := s.store.SaveResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
