// Package ws pushes relationship notifications to signed-in browsers over a
// websocket. The hub only fans out; events originate from the mq consumer.
package ws

import (
	"log"
	"sync"
)

// Presence mirrors socket lifetimes into shared state so other instances
// know whether a user is reachable without a push notification.
type Presence interface {
	SetOnline(userID uint) error
	SetOffline(userID uint) error
}

type notification struct {
	userID  uint
	payload []byte
}

type Hub struct {
	logger   *log.Logger
	presence Presence

	clients    map[uint]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	notify     chan notification
	done       chan struct{}
	closeOnce  sync.Once
}

func NewHub(logger *log.Logger, presence Presence) *Hub {
	return &Hub{
		logger:     logger,
		presence:   presence,
		clients:    make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan notification, 256),
		done:       make(chan struct{}),
	}
}

// Notify queues a payload for every open socket of the user on this
// instance. Dropped when the hub is shutting down.
func (h *Hub) Notify(userID uint, payload []byte) {
	select {
	case h.notify <- notification{userID: userID, payload: payload}:
	case <-h.done:
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*Client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
			if err := h.presence.SetOnline(c.userID); err != nil {
				h.logger.Println(err)
			}
		case c := <-h.unregister:
			if set := h.clients[c.userID]; set != nil {
				if _, ok := set[c]; ok {
					delete(set, c)
					close(c.send)
				}
				if len(set) == 0 {
					delete(h.clients, c.userID)
					if err := h.presence.SetOffline(c.userID); err != nil {
						h.logger.Println(err)
					}
				}
			}
		case n := <-h.notify:
			for c := range h.clients[n.userID] {
				select {
				case c.send <- n.payload:
				default:
					// slow client, let its write pump die
				}
			}
		case <-h.done:
			for userID, set := range h.clients {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, userID)
				if err := h.presence.SetOffline(userID); err != nil {
					h.logger.Println(err)
				}
			}
			return
		}
	}
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}
