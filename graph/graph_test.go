package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/graph"
	"github.com/maktse/pollloop-backend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutualFollows(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		aToB    bool
		bToA    bool
		mutuals bool
	}{
		{name: "no edges", aToB: false, bToA: false, mutuals: false},
		{name: "one way", aToB: true, bToA: false, mutuals: false},
		{name: "other way", aToB: false, bToA: true, mutuals: false},
		{name: "both ways", aToB: true, bToA: true, mutuals: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testutil.NewMemStore()
			if tt.aToB {
				st.SetEdge(model.EdgeFollow, 1, 2)
			}
			if tt.bToA {
				st.SetEdge(model.EdgeFollow, 2, 1)
			}
			m, err := graph.NewService(st).MutualFollows(ctx, 1, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.aToB, m.AFollowsB)
			assert.Equal(t, tt.bToA, m.BFollowsA)
			assert.Equal(t, tt.mutuals, m.AreMutuals)
		})
	}
}

// Friendship is recomputed, never stored: dropping one direction must be
// visible on the very next read.
func TestMutualFollowsRecomputed(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewMemStore()
	svc := graph.NewService(st)

	st.SetEdge(model.EdgeFollow, 1, 2)
	st.SetEdge(model.EdgeFollow, 2, 1)
	m, err := svc.MutualFollows(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, m.AreMutuals)

	_, err = st.DeleteEdge(ctx, model.EdgeFollow, 2, 1)
	require.NoError(t, err)
	m, err = svc.MutualFollows(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, m.AreMutuals)
}

func TestRelationshipStatus(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewMemStore()
	st.SetEdge(model.EdgeFollow, 1, 2)
	st.SetEdge(model.EdgeFollow, 2, 1)
	st.SetEdge(model.EdgeBlock, 2, 1)
	st.SetEdge(model.EdgeMute, 1, 2)

	snap, err := graph.NewService(st).RelationshipStatus(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, graph.Snapshot{
		Following:  true,
		FollowedBy: true,
		Blocking:   false,
		BlockedBy:  true,
		Muting:     true,
		MutedBy:    false,
		AreMutuals: true,
	}, snap)
	assert.True(t, snap.BlockedEither())

	// the same pair seen from the other side
	snap, err = graph.NewService(st).RelationshipStatus(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, snap.Blocking)
	assert.True(t, snap.MutedBy)
}

type failingStore struct{}

func (failingStore) HasEdge(ctx context.Context, kind model.EdgeKind, fromID, toID uint) (bool, error) {
	return false, errors.New("store down")
}

func TestStorageFaultBubbles(t *testing.T) {
	svc := graph.NewService(failingStore{})

	_, err := svc.RelationshipStatus(context.Background(), 1, 2)
	assert.EqualError(t, err, "store down")

	_, err = svc.MutualFollows(context.Background(), 1, 2)
	assert.EqualError(t, err, "store down")
}
