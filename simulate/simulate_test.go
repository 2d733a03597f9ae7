package simulate_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/fault"
	"github.com/maktse/pollloop-backend/graph"
	"github.com/maktse/pollloop-backend/simulate"
	"github.com/maktse/pollloop-backend/testutil"
	"github.com/maktse/pollloop-backend/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type world struct {
	store  *testutil.MemStore
	engine *visibility.Engine
	sim    *simulate.Simulator
	users  []model.User
	polls  []model.Poll
	resps  []model.Response
}

// buildWorld seeds a deterministic social graph covering every rule branch:
// public/private profiles, all three poll visibilities, hidden responses,
// blocks, mutes, one-way and mutual follows.
func buildWorld(t *testing.T) *world {
	t.Helper()
	st := testutil.NewMemStore()

	users := make([]model.User, 0, 6)
	for i := 0; i < 6; i++ {
		users = append(users, st.AddUser(model.User{
			Handle:    fmt.Sprintf("user%d", i),
			IsPrivate: i%2 == 0,
		}))
	}

	// mutuals: 0<->1, 2<->3; one-way: 4->0; block: 5 blocks 1; mute: 3 mutes 2
	st.SetEdge(model.EdgeFollow, users[0].ID, users[1].ID)
	st.SetEdge(model.EdgeFollow, users[1].ID, users[0].ID)
	st.SetEdge(model.EdgeFollow, users[2].ID, users[3].ID)
	st.SetEdge(model.EdgeFollow, users[3].ID, users[2].ID)
	st.SetEdge(model.EdgeFollow, users[4].ID, users[0].ID)
	st.SetEdge(model.EdgeBlock, users[5].ID, users[1].ID)
	st.SetEdge(model.EdgeMute, users[3].ID, users[2].ID)

	polls := []model.Poll{
		st.AddPoll(model.Poll{OwnerID: users[0].ID, Visibility: model.VisibilityPublic}),
		st.AddPoll(model.Poll{OwnerID: users[1].ID, Visibility: model.VisibilityFriendsOnly}),
		st.AddPoll(model.Poll{OwnerID: users[2].ID, Visibility: model.VisibilityPrivateLink, PrivateLinkToken: "tok-abc"}),
		st.AddPoll(model.Poll{OwnerID: users[3].ID, Visibility: model.VisibilityFriendsOnly}),
	}
	resps := []model.Response{
		st.AddResponse(model.Response{PollID: polls[0].ID, AuthorID: users[1].ID, Value: 4}),
		st.AddResponse(model.Response{PollID: polls[0].ID, AuthorID: users[2].ID, Value: 8, IsHidden: true}),
		st.AddResponse(model.Response{PollID: polls[1].ID, AuthorID: users[0].ID, Value: 2}),
		st.AddResponse(model.Response{PollID: polls[2].ID, AuthorID: users[2].ID, Value: 6, IsHidden: true}),
	}

	engine := visibility.NewEngine(st, graph.NewService(st))
	return &world{
		store:  st,
		engine: engine,
		sim:    simulate.NewSimulator(engine),
		users:  users,
		polls:  polls,
		resps:  resps,
	}
}

// The simulator must agree with the enforcement engine on every pair it is
// asked about, because it runs the same code. Sweep a randomized sample of
// (viewer, target) pairs across all three target types and compare outcomes.
func TestSimulatorMatchesEnforcement(t *testing.T) {
	w := buildWorld(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))

	viewers := []visibility.Viewer{{}} // anonymous
	for _, u := range w.users {
		viewers = append(viewers, visibility.Viewer{ID: u.ID})
		viewers = append(viewers, visibility.Viewer{ID: u.ID, LinkToken: "tok-abc"})
	}
	viewers = append(viewers,
		visibility.Viewer{LinkToken: "tok-abc"},
		visibility.Viewer{LinkToken: "wrong"},
	)

	for i := 0; i < 200; i++ {
		viewer := viewers[rng.Intn(len(viewers))]

		var (
			targetType simulate.TargetType
			targetID   uint
			d          visibility.Decision
			err        error
		)
		switch rng.Intn(3) {
		case 0:
			targetType = simulate.TargetPoll
			targetID = w.polls[rng.Intn(len(w.polls))].ID
			d, _, err = w.engine.Poll(ctx, targetID, viewer)
		case 1:
			targetType = simulate.TargetResponse
			targetID = w.resps[rng.Intn(len(w.resps))].ID
			d, _, err = w.engine.Response(ctx, targetID, viewer)
		default:
			targetType = simulate.TargetProfile
			targetID = w.users[rng.Intn(len(w.users))].ID
			d, _, err = w.engine.Profile(ctx, targetID, viewer)
		}
		require.NoError(t, err)

		res, err := w.sim.Simulate(ctx, viewer, targetType, targetID)
		require.NoError(t, err)
		assert.Equal(t, d.Allowed, res.Allowed,
			"viewer=%+v %s/%d", viewer, targetType, targetID)
		assert.Equal(t, d.Reason, res.Reason,
			"viewer=%+v %s/%d", viewer, targetType, targetID)
	}
}

func TestSimulateDebugPayload(t *testing.T) {
	w := buildWorld(t)
	ctx := context.Background()

	// friends-only poll owned by user1, viewed by their mutual user0
	res, err := w.sim.Simulate(ctx, visibility.Viewer{ID: w.users[0].ID}, simulate.TargetPoll, w.polls[1].ID)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, visibility.ReasonOK, res.Reason)
	assert.Equal(t, w.users[0].ID, res.Debug.ViewerID)
	assert.False(t, res.Debug.Anonymous)
	assert.True(t, res.Debug.Snapshot.AreMutuals)
	assert.NotEmpty(t, res.Debug.Predicate)
}

func TestSimulateAnonymousViewer(t *testing.T) {
	w := buildWorld(t)

	res, err := w.sim.Simulate(context.Background(), visibility.Viewer{}, simulate.TargetPoll, w.polls[1].ID)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, visibility.ReasonNotMutuals, res.Reason)
	assert.True(t, res.Debug.Anonymous)
	assert.Zero(t, res.Debug.ViewerID)
	assert.Equal(t, graph.Snapshot{}, res.Debug.Snapshot)
}

func TestSimulateUnknownTargetType(t *testing.T) {
	w := buildWorld(t)

	_, err := w.sim.Simulate(context.Background(), visibility.Viewer{}, "comment", 1)
	assert.True(t, fault.IsValidation(err))
}

func TestSimulateTargetNotFound(t *testing.T) {
	w := buildWorld(t)

	for _, tt := range []simulate.TargetType{simulate.TargetPoll, simulate.TargetResponse, simulate.TargetProfile} {
		_, err := w.sim.Simulate(context.Background(), visibility.Viewer{}, tt, 9999)
		assert.ErrorIs(t, err, fault.ErrNotFound, string(tt))
	}
}
