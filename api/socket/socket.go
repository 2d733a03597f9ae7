package socket

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/middleware"
	"github.com/maktse/pollloop-backend/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handlers struct {
	logger *log.Logger
	hub    *ws.Hub
}

func (h *Handlers) connect(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Println(err)
		return
	}
	ws.NewClient(h.logger, h.hub, conn, u.ID).Register()
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Get("/socket", h.connect)
	})
}

func NewHandlers(l *log.Logger, hub *ws.Hub) *Handlers {
	return &Handlers{logger: l, hub: hub}
}
