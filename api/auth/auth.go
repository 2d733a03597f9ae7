package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/maktse/pollloop-backend/db"
	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/middleware"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handlers struct {
	logger *log.Logger
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email     string `json:"email"`
		Handle    string `json:"handle"`
		Password  string `json:"password"`
		IsPrivate bool   `json:"is_private"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Email == "" || body.Handle == "" || body.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid input"))
		return
	}
	addr, err := mail.ParseAddress(body.Email)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid email"))
		return
	}
	body.Email = addr.Address

	exists, err := userExists(r.Context(), body.Email, body.Handle)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if exists {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("email / handle exists"))
		return
	}

	passBytes, err := bcrypt.GenerateFromPassword([]byte(body.Password), 14)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	user := &model.User{
		Email:     body.Email,
		Handle:    body.Handle,
		Pass:      string(passBytes),
		IsPrivate: body.IsPrivate,
	}
	if err := db.GetDB(r.Context()).Create(user).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handlers) signin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Email == "" || body.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid input"))
		return
	}

	c := r.Context()
	u, err := getUserFromEmail(c, body.Email)
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Pass), []byte(body.Password)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ip := c.Value("deviceIP").(string)
	if err := upsertSession(c, u.ID, ip, r.Header.Get("X-Expo-Push-Token")); err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	accessToken, err := genAccessToken(ip, strconv.FormatUint(uint64(u.ID), 10))
	if err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Expires:  time.Now().Add(2 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	middleware.WriteJSON(w, http.StatusOK, struct {
		AccessToken string      `json:"access_token"`
		User        *model.User `json:"user"`
	}{AccessToken: accessToken, User: u})
}

func (h *Handlers) signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	middleware.WriteJSON(w, http.StatusOK, u)
}

// updateMe changes the viewer's own privacy settings and bio.
func (h *Handlers) updateMe(w http.ResponseWriter, r *http.Request) {
	u := r.Context().Value("user").(*model.User)
	var body struct {
		Bio                  *string `json:"bio"`
		IsPrivate            *bool   `json:"is_private"`
		HideVotesFromFriends *bool   `json:"hide_votes_from_friends"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Bio != nil {
		u.Bio = *body.Bio
	}
	if body.IsPrivate != nil {
		u.IsPrivate = *body.IsPrivate
	}
	if body.HideVotesFromFriends != nil {
		u.HideVotesFromFriends = *body.HideVotesFromFriends
	}
	if err := db.GetDB(r.Context()).Save(u).Error; err != nil {
		h.logger.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, u)
}

func getUserFromEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := db.GetDB(ctx).Where(&model.User{Email: email}).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func userExists(ctx context.Context, email, handle string) (bool, error) {
	var n int64
	err := db.GetDB(ctx).Model(&model.User{}).
		Where("email = ? OR handle = ?", email, handle).
		Count(&n).Error
	return n > 0, err
}

func upsertSession(ctx context.Context, userID uint, ip, expoToken string) error {
	s := &model.Session{}
	err := db.GetDB(ctx).Where(&model.Session{UserID: userID, IP: ip}).First(s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.GetDB(ctx).Create(&model.Session{
			UserID:        userID,
			IP:            ip,
			ExpoPushToken: expoToken,
		}).Error
	}
	if err != nil {
		return err
	}
	if expoToken != "" && expoToken != s.ExpoPushToken {
		s.ExpoPushToken = expoToken
		return db.GetDB(ctx).Save(s).Error
	}
	return nil
}

func (h *Handlers) SetupRoutes(r *chi.Mux) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/signin", h.signin)
		r.Post("/signout", h.signout)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(h.logger))
			r.Get("/me", h.me)
			r.Patch("/me", h.updateMe)
		})
	})
}

func NewHandlers(l *log.Logger) *Handlers {
	return &Handlers{l}
}
