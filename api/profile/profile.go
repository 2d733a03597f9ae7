package profile

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maktse/pollloop-backend/db"
	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/middleware"
	"github.com/maktse/pollloop-backend/visibility"
)

type Handlers struct {
	logger *log.Logger
	engine *visibility.Engine
}

func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	d, _, err := h.engine.Profile(r.Context(), uint(userID), middleware.ViewerFrom(r))
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	if !d.Allowed {
		middleware.WriteDenied(w, d)
		return
	}

	var u model.User
	if err := db.GetDB(r.Context()).First(&u, userID).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, &u)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.MaybeAuthenticator(h.logger))
		r.Get("/{userID}", h.get)
	})
}

func NewHandlers(l *log.Logger, engine *visibility.Engine) *Handlers {
	return &Handlers{logger: l, engine: engine}
}
