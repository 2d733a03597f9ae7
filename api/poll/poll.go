package poll

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/maktse/pollloop-backend/db"
	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/middleware"
	"github.com/maktse/pollloop-backend/visibility"
)

type Handlers struct {
	logger *log.Logger
	engine *visibility.Engine
}

type outPoll struct {
	*model.Poll
	// the link token is returned to the owner only, so they can share it
	PrivateLinkToken string `json:"private_link_token,omitempty"`
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body struct {
		Question   string               `json:"question"`
		Visibility model.PollVisibility `json:"visibility"`
		ExpiresAt  *time.Time           `json:"expires_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Question == "" || !body.Visibility.Valid() {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid input"))
		return
	}

	p := &model.Poll{
		OwnerID:    u.ID,
		Question:   body.Question,
		Visibility: body.Visibility,
		ExpiresAt:  body.ExpiresAt,
	}
	if body.Visibility == model.VisibilityPrivateLink {
		p.PrivateLinkToken = uuid.NewString()
	}
	if err := db.GetDB(r.Context()).Create(p).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, outPoll{Poll: p, PrivateLinkToken: p.PrivateLinkToken})
}

func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	pollID, err := strconv.ParseUint(chi.URLParam(r, "pollID"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	viewer := middleware.ViewerFrom(r)

	d, _, err := h.engine.Poll(r.Context(), uint(pollID), viewer)
	if err != nil {
		middleware.WriteFault(h.logger, w, err)
		return
	}
	if !d.Allowed {
		middleware.WriteDenied(w, d)
		return
	}

	var p model.Poll
	if err := db.GetDB(r.Context()).First(&p, pollID).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	out := outPoll{Poll: &p}
	if viewer.ID == p.OwnerID {
		out.PrivateLinkToken = p.PrivateLinkToken
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(h.logger))
		r.Post("/polls", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.MaybeAuthenticator(h.logger))
		r.Get("/polls/{pollID}", h.get)
	})
}

func NewHandlers(l *log.Logger, engine *visibility.Engine) *Handlers {
	return &Handlers{logger: l, engine: engine}
}
