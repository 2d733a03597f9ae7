package visibility

import (
	"testing"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/graph"
	"github.com/stretchr/testify/assert"
)

func TestDecidePoll(t *testing.T) {
	publicPoll := &model.Poll{OwnerID: 1, Visibility: model.VisibilityPublic}
	friendsPoll := &model.Poll{OwnerID: 1, Visibility: model.VisibilityFriendsOnly}
	linkPoll := &model.Poll{OwnerID: 1, Visibility: model.VisibilityPrivateLink, PrivateLinkToken: "tok-123"}

	tests := []struct {
		name        string
		poll        *model.Poll
		viewer      Viewer
		rel         graph.Snapshot
		wantAllowed bool
		wantReason  Reason
	}{
		{
			name:        "public poll, anonymous viewer",
			poll:        publicPoll,
			viewer:      Viewer{},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "public poll, blocked viewer still allowed",
			poll:        publicPoll,
			viewer:      Viewer{ID: 2},
			rel:         graph.Snapshot{BlockedBy: true},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "friends-only, owner",
			poll:        friendsPoll,
			viewer:      Viewer{ID: 1},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "friends-only, mutual follower",
			poll:        friendsPoll,
			viewer:      Viewer{ID: 2},
			rel:         graph.Snapshot{Following: true, FollowedBy: true, AreMutuals: true},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "friends-only, one-way follower",
			poll:        friendsPoll,
			viewer:      Viewer{ID: 2},
			rel:         graph.Snapshot{Following: true},
			wantAllowed: false,
			wantReason:  ReasonNotMutuals,
		},
		{
			name:        "friends-only, anonymous",
			poll:        friendsPoll,
			viewer:      Viewer{},
			wantAllowed: false,
			wantReason:  ReasonNotMutuals,
		},
		{
			name:        "private link, correct token",
			poll:        linkPoll,
			viewer:      Viewer{LinkToken: "tok-123"},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "private link, wrong token",
			poll:        linkPoll,
			viewer:      Viewer{ID: 2, LinkToken: "nope"},
			wantAllowed: false,
			wantReason:  ReasonPrivateLinkRequired,
		},
		{
			name:        "private link, missing token",
			poll:        linkPoll,
			viewer:      Viewer{ID: 2},
			wantAllowed: false,
			wantReason:  ReasonPrivateLinkRequired,
		},
		{
			name:        "private link, owner without token denied",
			poll:        linkPoll,
			viewer:      Viewer{ID: 1},
			wantAllowed: false,
			wantReason:  ReasonPrivateLinkRequired,
		},
		{
			name:        "private link, mutuals are irrelevant",
			poll:        linkPoll,
			viewer:      Viewer{ID: 2},
			rel:         graph.Snapshot{Following: true, FollowedBy: true, AreMutuals: true},
			wantAllowed: false,
			wantReason:  ReasonPrivateLinkRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecidePoll(tt.poll, tt.viewer, tt.rel)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

func TestDecideResponse(t *testing.T) {
	publicPoll := &model.Poll{OwnerID: 1, Visibility: model.VisibilityPublic}
	friendsPoll := &model.Poll{OwnerID: 1, Visibility: model.VisibilityFriendsOnly}
	visible := &model.Response{AuthorID: 3}
	hidden := &model.Response{AuthorID: 3, IsHidden: true}

	tests := []struct {
		name        string
		resp        *model.Response
		poll        *model.Poll
		viewer      Viewer
		rel         graph.Snapshot
		wantAllowed bool
		wantReason  Reason
	}{
		{
			name:        "visible response on public poll",
			resp:        visible,
			poll:        publicPoll,
			viewer:      Viewer{ID: 2},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "hidden response denied",
			resp:        hidden,
			poll:        publicPoll,
			viewer:      Viewer{ID: 2},
			wantAllowed: false,
			wantReason:  ReasonResponseHidden,
		},
		{
			name:        "hidden response, author still sees it",
			resp:        hidden,
			poll:        publicPoll,
			viewer:      Viewer{ID: 3},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "poll gate runs first",
			resp:        visible,
			poll:        friendsPoll,
			viewer:      Viewer{ID: 2},
			wantAllowed: false,
			wantReason:  ReasonCannotViewPoll,
		},
		{
			name:        "author cannot bypass the poll gate",
			resp:        hidden,
			poll:        friendsPoll,
			viewer:      Viewer{ID: 3},
			wantAllowed: false,
			wantReason:  ReasonCannotViewPoll,
		},
		{
			name:        "anonymous never matches the author",
			resp:        &model.Response{AuthorID: 0, IsHidden: true},
			poll:        publicPoll,
			viewer:      Viewer{},
			wantAllowed: false,
			wantReason:  ReasonResponseHidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecideResponse(tt.resp, tt.poll, tt.viewer, tt.rel)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

func TestDecideProfile(t *testing.T) {
	public := &model.User{Base: model.Base{ID: 1}}
	private := &model.User{Base: model.Base{ID: 1}, IsPrivate: true}

	tests := []struct {
		name        string
		owner       *model.User
		viewer      Viewer
		rel         graph.Snapshot
		wantAllowed bool
		wantReason  Reason
	}{
		{
			name:        "public profile, anonymous",
			owner:       public,
			viewer:      Viewer{},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "owner always allowed",
			owner:       private,
			viewer:      Viewer{ID: 1},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "blocked wins over public",
			owner:       public,
			viewer:      Viewer{ID: 2},
			rel:         graph.Snapshot{BlockedBy: true},
			wantAllowed: false,
			wantReason:  ReasonBlocked,
		},
		{
			name:        "blocking viewer is denied too",
			owner:       public,
			viewer:      Viewer{ID: 2},
			rel:         graph.Snapshot{Blocking: true},
			wantAllowed: false,
			wantReason:  ReasonBlocked,
		},
		{
			name:   "block precedes the privacy check",
			owner:  private,
			viewer: Viewer{ID: 2},
			rel: graph.Snapshot{
				Following: true, FollowedBy: true, AreMutuals: true, BlockedBy: true,
			},
			wantAllowed: false,
			wantReason:  ReasonBlocked,
		},
		{
			name:        "private profile, mutual follower",
			owner:       private,
			viewer:      Viewer{ID: 2},
			rel:         graph.Snapshot{Following: true, FollowedBy: true, AreMutuals: true},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
		{
			name:        "private profile, stranger",
			owner:       private,
			viewer:      Viewer{ID: 2},
			wantAllowed: false,
			wantReason:  ReasonPrivateNotMutuals,
		},
		{
			name:        "private profile, anonymous",
			owner:       private,
			viewer:      Viewer{},
			wantAllowed: false,
			wantReason:  ReasonPrivateNotMutuals,
		},
		{
			name:        "mute never affects access",
			owner:       public,
			viewer:      Viewer{ID: 2},
			rel:         graph.Snapshot{Muting: true, MutedBy: true},
			wantAllowed: true,
			wantReason:  ReasonOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecideProfile(tt.owner, tt.viewer, tt.rel)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

// Same inputs, same outputs: decisions are pure values.
func TestDecisionIdempotence(t *testing.T) {
	poll := &model.Poll{OwnerID: 1, Visibility: model.VisibilityFriendsOnly}
	viewer := Viewer{ID: 2}
	rel := graph.Snapshot{Following: true}

	first := DecidePoll(poll, viewer, rel)
	second := DecidePoll(poll, viewer, rel)
	assert.Equal(t, first, second)
}
