// Package store is the gorm-backed implementation of every service-facing
// store interface. Record-not-found and duplicate-key errors are translated
// into the fault taxonomy here so services stay storage-agnostic.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/fault"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fault.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fault.Conflict("already exists")
	default:
		return err
	}
}

func (s *Store) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetPoll(ctx context.Context, id uint) (*model.Poll, error) {
	var p model.Poll
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) GetResponse(ctx context.Context, id uint) (*model.Response, error) {
	var r model.Response
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *Store) GetResponseByPollAuthor(ctx context.Context, pollID, authorID uint) (*model.Response, error) {
	var r model.Response
	err := s.db.WithContext(ctx).
		Where("poll_id = ? AND author_id = ?", pollID, authorID).
		First(&r).Error
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *Store) CreateResponse(ctx context.Context, resp *model.Response) error {
	return translate(s.db.WithContext(ctx).Create(resp).Error)
}

func (s *Store) SaveResponse(ctx context.Context, resp *model.Response) error {
	return translate(s.db.WithContext(ctx).Save(resp).Error)
}

func (s *Store) HasEdge(ctx context.Context, kind model.EdgeKind, fromID, toID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Edge{}).
		Where("kind = ? AND from_id = ? AND to_id = ?", kind, fromID, toID).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) CreateEdge(ctx context.Context, e *model.Edge) error {
	return translate(s.db.WithContext(ctx).Create(e).Error)
}

// UpsertEdge refreshes updated_at when the edge already exists.
func (s *Store) UpsertEdge(ctx context.Context, e *model.Edge) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "kind"}, {Name: "from_id"}, {Name: "to_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"updated_at": time.Now(),
		}),
	}).Create(e).Error
}

func (s *Store) DeleteEdge(ctx context.Context, kind model.EdgeKind, fromID, toID uint) (bool, error) {
	tx := s.db.WithContext(ctx).
		Where("kind = ? AND from_id = ? AND to_id = ?", kind, fromID, toID).
		Delete(&model.Edge{})
	return tx.RowsAffected > 0, tx.Error
}

func (s *Store) PendingRequest(ctx context.Context, followerID, followeeID uint) (*model.FollowRequest, error) {
	var req model.FollowRequest
	err := s.db.WithContext(ctx).
		Where(&model.FollowRequest{
			FollowerID: followerID,
			FolloweeID: followeeID,
			Status:     model.RequestPending,
		}).
		First(&req).Error
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (s *Store) CreateRequest(ctx context.Context, req *model.FollowRequest) error {
	return translate(s.db.WithContext(ctx).Create(req).Error)
}

func (s *Store) SaveRequest(ctx context.Context, req *model.FollowRequest) error {
	return translate(s.db.WithContext(ctx).Save(req).Error)
}

func (s *Store) ListIncomingRequests(ctx context.Context, followeeID uint, status model.RequestStatus) ([]model.FollowRequest, error) {
	reqs := make([]model.FollowRequest, 0)
	err := s.db.WithContext(ctx).
		Preload("Follower").
		Where(&model.FollowRequest{FolloweeID: followeeID, Status: status}).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

func (s *Store) SessionsForUser(ctx context.Context, userID uint) ([]model.Session, error) {
	sessions := make([]model.Session, 0)
	err := s.db.WithContext(ctx).
		Where(&model.Session{UserID: userID}).
		Find(&sessions).Error
	return sessions, err
}
