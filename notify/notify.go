// Package notify routes relationship events to their target: a websocket
// frame when the user is online somewhere, an Expo push otherwise.
package notify

import (
	"context"
	"encoding/json"
	"log"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"golang.org/x/sync/errgroup"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/mq"
	"github.com/maktse/pollloop-backend/ws"
)

type SessionStore interface {
	SessionsForUser(ctx context.Context, userID uint) ([]model.Session, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

type Presence interface {
	IsOnline(userID uint) (bool, error)
}

type Dispatcher struct {
	logger   *log.Logger
	hub      *ws.Hub
	presence Presence
	store    SessionStore
	push     *expo.PushClient
}

func NewDispatcher(logger *log.Logger, hub *ws.Hub, presence Presence, store SessionStore) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		hub:      hub,
		presence: presence,
		store:    store,
		push:     expo.NewPushClient(nil),
	}
}

// Handle is the mq consumer callback. Everything here is best-effort:
// notifications are advisory and never block or fail a mutation.
func (d *Dispatcher) Handle(evt mq.RelationshipEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		d.logger.Println(err)
		return
	}
	d.hub.Notify(evt.TargetID, payload)

	online, err := d.presence.IsOnline(evt.TargetID)
	if err != nil {
		d.logger.Println(err)
	}
	if online {
		return
	}
	if evt.Type == mq.EventFollowRequested || evt.Type == mq.EventFollowAccepted {
		d.pushToDevices(evt)
	}
}

func (d *Dispatcher) pushToDevices(evt mq.RelationshipEvent) {
	ctx := context.Background()
	sessions, err := d.store.SessionsForUser(ctx, evt.TargetID)
	if err != nil {
		d.logger.Println(err)
		return
	}
	actor, err := d.store.GetUser(ctx, evt.ActorID)
	if err != nil {
		d.logger.Println(err)
		return
	}

	var body string
	switch evt.Type {
	case mq.EventFollowRequested:
		body = "@" + actor.Handle + " wants to follow you"
	case mq.EventFollowAccepted:
		body = "@" + actor.Handle + " accepted your follow request"
	default:
		return
	}

	g := new(errgroup.Group)
	for _, s := range sessions {
		if s.ExpoPushToken == "" {
			continue
		}
		token := s.ExpoPushToken
		g.Go(func() error {
			pushToken, err := expo.NewExponentPushToken(token)
			if err != nil {
				return err
			}
			_, err = d.push.Publish(&expo.PushMessage{
				To:       []expo.ExponentPushToken{pushToken},
				Body:     body,
				Sound:    "default",
				Priority: expo.DefaultPriority,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		d.logger.Println(err)
	}
}
