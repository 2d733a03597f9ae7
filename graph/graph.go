// Package graph answers existence questions over the persisted relation
// edges and derives mutual follows. Aggregated snapshots are composed from
// independent lookups, so they are only true at the instant they were read.
package graph

import (
	"context"

	"github.com/maktse/pollloop-backend/db/model"
	"golang.org/x/sync/errgroup"
)

// Store is the persisted edge lookup the queries run over.
type Store interface {
	HasEdge(ctx context.Context, kind model.EdgeKind, fromID, toID uint) (bool, error)
}

// Mutuals is the result of recomputing friendship between two users.
type Mutuals struct {
	AFollowsB  bool `json:"a_follows_b"`
	BFollowsA  bool `json:"b_follows_a"`
	AreMutuals bool `json:"are_mutuals"`
}

// Snapshot aggregates every pairwise predicate between two users, from a's
// point of view. It is not transactional: each field comes from its own
// storage call.
type Snapshot struct {
	Following  bool `json:"following"`
	FollowedBy bool `json:"followed_by"`
	Blocking   bool `json:"blocking"`
	BlockedBy  bool `json:"blocked_by"`
	Muting     bool `json:"muting"`
	MutedBy    bool `json:"muted_by"`
	AreMutuals bool `json:"are_mutuals"`
}

func (s Snapshot) BlockedEither() bool {
	return s.Blocking || s.BlockedBy
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) IsFollowing(ctx context.Context, a, b uint) (bool, error) {
	return s.store.HasEdge(ctx, model.EdgeFollow, a, b)
}

func (s *Service) IsBlocked(ctx context.Context, a, b uint) (bool, error) {
	return s.store.HasEdge(ctx, model.EdgeBlock, a, b)
}

func (s *Service) IsMuted(ctx context.Context, a, b uint) (bool, error) {
	return s.store.HasEdge(ctx, model.EdgeMute, a, b)
}

// MutualFollows recomputes friendship from the two follow directions. Never
// cached: a stale mutual bit would leak friends-only polls.
func (s *Service) MutualFollows(ctx context.Context, a, b uint) (Mutuals, error) {
	var m Mutuals
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		m.AFollowsB, err = s.store.HasEdge(ctx, model.EdgeFollow, a, b)
		return err
	})
	g.Go(func() (err error) {
		m.BFollowsA, err = s.store.HasEdge(ctx, model.EdgeFollow, b, a)
		return err
	})
	if err := g.Wait(); err != nil {
		return Mutuals{}, err
	}
	m.AreMutuals = m.AFollowsB && m.BFollowsA
	return m, nil
}

// RelationshipStatus fans out the six edge lookups concurrently and joins
// them into one snapshot. Callers must treat the result as "true at time T".
func (s *Service) RelationshipStatus(ctx context.Context, a, b uint) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	lookup := func(dst *bool, kind model.EdgeKind, from, to uint) {
		g.Go(func() (err error) {
			*dst, err = s.store.HasEdge(ctx, kind, from, to)
			return err
		})
	}
	lookup(&snap.Following, model.EdgeFollow, a, b)
	lookup(&snap.FollowedBy, model.EdgeFollow, b, a)
	lookup(&snap.Blocking, model.EdgeBlock, a, b)
	lookup(&snap.BlockedBy, model.EdgeBlock, b, a)
	lookup(&snap.Muting, model.EdgeMute, a, b)
	lookup(&snap.MutedBy, model.EdgeMute, b, a)
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	snap.AreMutuals = snap.Following && snap.FollowedBy
	return snap, nil
}
