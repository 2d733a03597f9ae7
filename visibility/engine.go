package visibility

import (
	"context"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/graph"
)

// TargetStore resolves decision targets. Implementations return
// fault.ErrNotFound when an id does not resolve; not-found is a failure, not
// a visibility reason.
type TargetStore interface {
	GetPoll(ctx context.Context, id uint) (*model.Poll, error)
	GetResponse(ctx context.Context, id uint) (*model.Response, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

// Engine loads a target plus the viewer↔owner snapshot and runs the pure
// decide functions. It is the single decision path: the API handlers and the
// simulator share one instance.
type Engine struct {
	store TargetStore
	graph *graph.Service
}

func NewEngine(store TargetStore, g *graph.Service) *Engine {
	return &Engine{store: store, graph: g}
}

func (e *Engine) snapshot(ctx context.Context, viewer Viewer, ownerID uint) (graph.Snapshot, error) {
	if viewer.Anonymous() || viewer.ID == ownerID {
		return graph.Snapshot{}, nil
	}
	return e.graph.RelationshipStatus(ctx, viewer.ID, ownerID)
}

// Poll decides visibility of a poll. The snapshot the decision was based on
// is returned alongside so diagnostic callers need not re-query.
func (e *Engine) Poll(ctx context.Context, pollID uint, viewer Viewer) (Decision, graph.Snapshot, error) {
	p, err := e.store.GetPoll(ctx, pollID)
	if err != nil {
		return Decision{}, graph.Snapshot{}, err
	}
	snap, err := e.snapshot(ctx, viewer, p.OwnerID)
	if err != nil {
		return Decision{}, graph.Snapshot{}, err
	}
	return DecidePoll(p, viewer, snap), snap, nil
}

func (e *Engine) Response(ctx context.Context, responseID uint, viewer Viewer) (Decision, graph.Snapshot, error) {
	resp, err := e.store.GetResponse(ctx, responseID)
	if err != nil {
		return Decision{}, graph.Snapshot{}, err
	}
	p, err := e.store.GetPoll(ctx, resp.PollID)
	if err != nil {
		return Decision{}, graph.Snapshot{}, err
	}
	snap, err := e.snapshot(ctx, viewer, p.OwnerID)
	if err != nil {
		return Decision{}, graph.Snapshot{}, err
	}
	return DecideResponse(resp, p, viewer, snap), snap, nil
}

func (e *Engine) Profile(ctx context.Context, userID uint, viewer Viewer) (Decision, graph.Snapshot, error) {
	u, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return Decision{}, graph.Snapshot{}, err
	}
	snap, err := e.snapshot(ctx, viewer, u.ID)
	if err != nil {
		return Decision{}, graph.Snapshot{}, err
	}
	return DecideProfile(u, viewer, snap), snap, nil
}
