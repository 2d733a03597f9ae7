// Package visibility holds the access decision rules for polls, responses
// and profiles. The decide functions are pure: the enforcement path and the
// admin simulator both run through them, so they can never disagree.
package visibility

import (
	"crypto/subtle"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/graph"
)

// Reason strings are part of the admin simulation contract and must stay
// bit-exact.
type Reason string

const (
	ReasonOK                  Reason = "OK"
	ReasonPrivateLinkRequired Reason = "PRIVATE_LINK_REQUIRED"
	ReasonNotMutuals          Reason = "NOT_MUTUALS"
	ReasonBlocked             Reason = "BLOCKED"
	ReasonPrivateNotMutuals   Reason = "PRIVATE_NOT_MUTUALS"
	ReasonCannotViewPoll      Reason = "CANNOT_VIEW_POLL"
	ReasonResponseHidden      Reason = "RESPONSE_HIDDEN"
)

// Viewer identifies who is asking. A zero ID means anonymous. LinkToken is
// whatever token the request carried, relevant only to PRIVATE_LINK polls.
type Viewer struct {
	ID        uint
	LinkToken string
}

func (v Viewer) Anonymous() bool {
	return v.ID == 0
}

// Decision is a value, never an error: denial is an expected outcome.
// Predicate names the check that produced the outcome, for the simulator.
type Decision struct {
	Allowed   bool   `json:"allowed"`
	Reason    Reason `json:"reason"`
	Predicate string `json:"-"`
}

func allow(predicate string) Decision {
	return Decision{Allowed: true, Reason: ReasonOK, Predicate: predicate}
}

func deny(reason Reason, predicate string) Decision {
	return Decision{Allowed: false, Reason: reason, Predicate: predicate}
}

// DecidePoll maps a poll and a viewer to an access decision. rel is the
// viewer↔owner snapshot; it is ignored for PUBLIC and PRIVATE_LINK polls.
func DecidePoll(p *model.Poll, viewer Viewer, rel graph.Snapshot) Decision {
	switch p.Visibility {
	case model.VisibilityPrivateLink:
		// The token is the sole gate, even for the owner.
		if viewer.LinkToken != "" &&
			subtle.ConstantTimeCompare([]byte(viewer.LinkToken), []byte(p.PrivateLinkToken)) == 1 {
			return allow("token")
		}
		return deny(ReasonPrivateLinkRequired, "token")
	case model.VisibilityFriendsOnly:
		if !viewer.Anonymous() && viewer.ID == p.OwnerID {
			return allow("owner")
		}
		if !viewer.Anonymous() && rel.AreMutuals {
			return allow("mutuals")
		}
		return deny(ReasonNotMutuals, "mutuals")
	default:
		// PUBLIC polls are visible to everyone, blocked viewers included.
		// Block-based suppression is a feed concern, not an item one.
		return allow("public")
	}
}

// DecideResponse first applies the parent poll's gate, then the per-response
// overlay. rel is the viewer↔poll-owner snapshot.
func DecideResponse(resp *model.Response, poll *model.Poll, viewer Viewer, rel graph.Snapshot) Decision {
	if d := DecidePoll(poll, viewer, rel); !d.Allowed {
		return deny(ReasonCannotViewPoll, d.Predicate)
	}
	if !viewer.Anonymous() && viewer.ID == resp.AuthorID {
		return allow("author")
	}
	if resp.IsHidden {
		return deny(ReasonResponseHidden, "hidden")
	}
	return allow("visible")
}

// DecideProfile applies block precedence first, then the privacy gate. rel is
// the viewer↔owner snapshot.
func DecideProfile(owner *model.User, viewer Viewer, rel graph.Snapshot) Decision {
	if !viewer.Anonymous() && viewer.ID == owner.ID {
		return allow("owner")
	}
	// A block in either direction wins over everything else.
	if rel.BlockedEither() {
		return deny(ReasonBlocked, "block")
	}
	if owner.IsPrivate {
		if !viewer.Anonymous() && rel.AreMutuals {
			return allow("mutuals")
		}
		return deny(ReasonPrivateNotMutuals, "mutuals")
	}
	return allow("public")
}
