package admin

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maktse/pollloop-backend/middleware"
	"github.com/maktse/pollloop-backend/simulate"
	"github.com/maktse/pollloop-backend/visibility"
)

type Handlers struct {
	logger *log.Logger
	sim    *simulate.Simulator
}

// simulateVisibility replays an access decision for an arbitrary (viewer,
// target) pair. An empty viewer_id simulates an anonymous viewer.
func (h *Handlers) simulateVisibility(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	targetID, err := strconv.ParseUint(q.Get("target_id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid target_id"))
		return
	}
	viewer := visibility.Viewer{LinkToken: q.Get("link_token")}
	if raw := q.Get("viewer_id"); raw != "" {
		viewerID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("invalid viewer_id"))
			return
		}
		viewer.ID = uint(viewerID)
	}

	result, err := h.sim.Simulate(r.Context(), viewer, simulate.TargetType(q.Get("target_type")), uint(targetID))
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Get("/simulate", h.simulateVisibility)
	})
}

func NewHandlers(l *log.Logger, sim *simulate.Simulator) *Handlers {
	return &Handlers{logger: l, sim: sim}
}
