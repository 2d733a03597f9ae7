package visibility_test

import (
	"context"
	"testing"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/fault"
	"github.com/maktse/pollloop-backend/graph"
	"github.com/maktse/pollloop-backend/testutil"
	"github.com/maktse/pollloop-backend/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(st *testutil.MemStore) *visibility.Engine {
	return visibility.NewEngine(st, graph.NewService(st))
}

func TestEngineTargetNotFound(t *testing.T) {
	engine := newEngine(testutil.NewMemStore())
	ctx := context.Background()

	_, _, err := engine.Poll(ctx, 99, visibility.Viewer{})
	assert.ErrorIs(t, err, fault.ErrNotFound)

	_, _, err = engine.Response(ctx, 99, visibility.Viewer{})
	assert.ErrorIs(t, err, fault.ErrNotFound)

	_, _, err = engine.Profile(ctx, 99, visibility.Viewer{})
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestEngineFriendsOnlyPoll(t *testing.T) {
	st := testutil.NewMemStore()
	owner := st.AddUser(model.User{Handle: "owner"})
	friend := st.AddUser(model.User{Handle: "friend"})
	stranger := st.AddUser(model.User{Handle: "stranger"})
	poll := st.AddPoll(model.Poll{OwnerID: owner.ID, Visibility: model.VisibilityFriendsOnly})

	st.SetEdge(model.EdgeFollow, friend.ID, owner.ID)
	st.SetEdge(model.EdgeFollow, owner.ID, friend.ID)

	engine := newEngine(st)
	ctx := context.Background()

	d, snap, err := engine.Poll(ctx, poll.ID, visibility.Viewer{ID: friend.ID})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.True(t, snap.AreMutuals)

	d, _, err = engine.Poll(ctx, poll.ID, visibility.Viewer{ID: stranger.ID})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, visibility.ReasonNotMutuals, d.Reason)

	// snapshot loading is skipped for anonymous viewers
	d, snap, err = engine.Poll(ctx, poll.ID, visibility.Viewer{})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, graph.Snapshot{}, snap)
}

func TestEngineResponseUsesParentPollGate(t *testing.T) {
	st := testutil.NewMemStore()
	owner := st.AddUser(model.User{Handle: "owner"})
	author := st.AddUser(model.User{Handle: "author"})
	stranger := st.AddUser(model.User{Handle: "stranger"})
	poll := st.AddPoll(model.Poll{OwnerID: owner.ID, Visibility: model.VisibilityFriendsOnly})
	resp := st.AddResponse(model.Response{PollID: poll.ID, AuthorID: author.ID})

	engine := newEngine(st)
	ctx := context.Background()

	d, _, err := engine.Response(ctx, resp.ID, visibility.Viewer{ID: stranger.ID})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, visibility.ReasonCannotViewPoll, d.Reason)
}

func TestEngineProfileBlock(t *testing.T) {
	st := testutil.NewMemStore()
	owner := st.AddUser(model.User{Handle: "owner"})
	viewer := st.AddUser(model.User{Handle: "viewer"})
	st.SetEdge(model.EdgeBlock, owner.ID, viewer.ID)

	engine := newEngine(st)

	d, snap, err := engine.Profile(context.Background(), owner.ID, visibility.Viewer{ID: viewer.ID})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, visibility.ReasonBlocked, d.Reason)
	assert.True(t, snap.BlockedBy)
}
