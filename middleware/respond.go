package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/fault"
	"github.com/maktse/pollloop-backend/visibility"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteFault maps the failure taxonomy onto HTTP statuses without losing the
// reason text. Storage faults are logged and surfaced as 500.
func WriteFault(logger *log.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fault.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case fault.IsValidation(err):
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case fault.IsConflict(err):
		WriteJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		logger.Println(err)
		WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// WriteDenied renders a negative decision. Denial is an ordinary outcome and
// keeps its reason code on the wire.
func WriteDenied(w http.ResponseWriter, d visibility.Decision) {
	WriteJSON(w, http.StatusForbidden, struct {
		Allowed bool              `json:"allowed"`
		Reason  visibility.Reason `json:"reason"`
	}{Allowed: false, Reason: d.Reason})
}

// ViewerFrom builds the decision-engine viewer for a request: the resolved
// user if any, plus whatever link token the query string carried.
func ViewerFrom(r *http.Request) visibility.Viewer {
	v := visibility.Viewer{LinkToken: r.URL.Query().Get("link_token")}
	if u, ok := r.Context().Value("user").(*model.User); ok {
		v.ID = u.ID
	}
	return v
}
