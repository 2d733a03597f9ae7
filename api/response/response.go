package response

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maktse/pollloop-backend/db"
	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/middleware"
	"github.com/maktse/pollloop-backend/response"
	"github.com/maktse/pollloop-backend/visibility"
)

type Handlers struct {
	logger *log.Logger
	engine *visibility.Engine
	svc    *response.Service
}

// submit records the viewer's answer. The poll gate runs first: whoever
// cannot see a poll cannot respond to it either.
func (h *Handlers) submit(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	pollID, err := strconv.ParseUint(chi.URLParam(r, "pollID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var body struct {
		Value *int `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	d, _, err := h.engine.Poll(r.Context(), uint(pollID), middleware.ViewerFrom(r))
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	if !d.Allowed {
		middleware.WriteDenied(w, d)
		return
	}

	resp, err := h.svc.Submit(r.Context(), uint(pollID), u.ID, *body.Value)
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	responseID, err := strconv.ParseUint(chi.URLParam(r, "responseID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	d, _, err := h.engine.Response(r.Context(), uint(responseID), middleware.ViewerFrom(r))
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	if !d.Allowed {
		middleware.WriteDenied(w, d)
		return
	}

	var resp model.Response
	if err := db.GetDB(r.Context()).First(&resp, responseID).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, &resp)
}

func (h *Handlers) setVisibility(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	responseID, err := strconv.ParseUint(chi.URLParam(r, "responseID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var body struct {
		IsHidden         *bool   `json:"is_hidden"`
		IsSharedPublicly *bool   `json:"is_shared_publicly"`
		PublicComment    *string `json:"public_comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp, err := h.svc.SetVisibility(r.Context(), uint(responseID), u.ID, response.VisibilityUpdate{
		IsHidden:         body.IsHidden,
		IsSharedPublicly: body.IsSharedPublicly,
		PublicComment:    body.PublicComment,
	})
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Put("/polls/{pollID}/response", h.submit)
		r.Patch("/responses/{responseID}/visibility", h.setVisibility)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.MaybeAuthenticator(h.logger))
		r.Get("/responses/{responseID}", h.get)
	})
}

func NewHandlers(l *log.Logger, engine *visibility.Engine, svc *response.Service) *Handlers {
	return &Handlers{logger: l, engine: engine, svc: svc}
}
