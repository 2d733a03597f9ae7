// Package simulate replays access decisions for arbitrary (viewer, target)
// pairs. It runs the same visibility engine as the enforcement path, never a
// second encoding of the rules, so the admin tooling cannot disagree with
// runtime behaviour.
package simulate

import (
	"context"

	"github.com/maktse/pollloop-backend/fault"
	"github.com/maktse/pollloop-backend/graph"
	"github.com/maktse/pollloop-backend/visibility"
)

type TargetType string

const (
	TargetPoll     TargetType = "poll"
	TargetResponse TargetType = "response"
	TargetProfile  TargetType = "profile"
)

// Debug exposes the raw relationship snapshot and the predicate that decided
// the outcome, enough to reconstruct the decision without re-querying.
type Debug struct {
	ViewerID  uint           `json:"viewer_id"`
	Anonymous bool           `json:"anonymous"`
	Snapshot  graph.Snapshot `json:"snapshot"`
	Predicate string         `json:"predicate"`
}

type Result struct {
	Allowed bool              `json:"allowed"`
	Reason  visibility.Reason `json:"reason"`
	Debug   Debug             `json:"debug"`
}

type Simulator struct {
	engine *visibility.Engine
}

func NewSimulator(engine *visibility.Engine) *Simulator {
	return &Simulator{engine: engine}
}

func (s *Simulator) Simulate(ctx context.Context, viewer visibility.Viewer, targetType TargetType, targetID uint) (*Result, error) {
	var (
		d    visibility.Decision
		snap graph.Snapshot
		err  error
	)
	switch targetType {
	case TargetPoll:
		d, snap, err = s.engine.Poll(ctx, targetID, viewer)
	case TargetResponse:
		d, snap, err = s.engine.Response(ctx, targetID, viewer)
	case TargetProfile:
		d, snap, err = s.engine.Profile(ctx, targetID, viewer)
	default:
		return nil, fault.Validation("unknown target type %q", targetType)
	}
	if err != nil {
		return nil, err
	}
	return &Result{
		Allowed: d.Allowed,
		Reason:  d.Reason,
		Debug: Debug{
			ViewerID:  viewer.ID,
			Anonymous: viewer.Anonymous(),
			Snapshot:  snap,
			Predicate: d.Predicate,
		},
	}, nil
}
