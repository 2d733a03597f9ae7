package relationship

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/graph"
	"github.com/maktse/pollloop-backend/middleware"
	"github.com/maktse/pollloop-backend/relationship"
)

type Handlers struct {
	logger *log.Logger
	svc    *relationship.Service
	graph  *graph.Service
}

func (h *Handlers) follow(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)

	outcome, err := h.svc.Follow(r.Context(), u.ID, target.ID)
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, struct {
		Outcome relationship.FollowOutcome `json:"outcome"`
	}{Outcome: outcome})
}

func (h *Handlers) unfollow(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)

	if err := h.svc.Unfollow(r.Context(), u.ID, target.ID); err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) block(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)

	if err := h.svc.Block(r.Context(), u.ID, target.ID); err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) unblock(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)

	if err := h.svc.Unblock(r.Context(), u.ID, target.ID); err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) mute(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)

	if err := h.svc.Mute(r.Context(), u.ID, target.ID); err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) unmute(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)

	if err := h.svc.Unmute(r.Context(), u.ID, target.ID); err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// status reports the viewer↔target snapshot; only valid at read time.
func (h *Handlers) status(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	target := r.Context().Value("target").(*model.User)

	snap, err := h.graph.RelationshipStatus(r.Context(), u.ID, target.ID)
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handlers) incomingRequests(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)

	reqs, err := h.svc.IncomingRequests(r.Context(), u.ID)
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, reqs)
}

func (h *Handlers) acceptRequest(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	follower := r.Context().Value("target").(*model.User)

	if err := h.svc.AcceptFollowRequest(r.Context(), follower.ID, u.ID); err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) rejectRequest(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	follower := r.Context().Value("target").(*model.User)

	if err := h.svc.RejectFollowRequest(r.Context(), follower.ID, u.ID); err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/relationships", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Get("/requests", h.incomingRequests)
		r.Group(func(r chi.Router) {
			r.Use(middleware.WithTargetUser)
			r.Get("/{userID}", h.status)
			r.Post("/{userID}/follow", h.follow)
			r.Delete("/{userID}/follow", h.unfollow)
			r.Post("/{userID}/block", h.block)
			r.Delete("/{userID}/block", h.unblock)
			r.Post("/{userID}/mute", h.mute)
			r.Delete("/{userID}/mute", h.unmute)
			r.Post("/requests/{userID}/accept", h.acceptRequest)
			r.Post("/requests/{userID}/reject", h.rejectRequest)
		})
	})
}

func NewHandlers(l *log.Logger, svc *relationship.Service, g *graph.Service) *Handlers {
	return &Handlers{logger: l, svc: svc, graph: g}
}
