package api

import (
	"net/http"

	"github.com/mmynk/spendbook/internal/middleware"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
	Token   string `json:"token,omitempty"`
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.Auth.Register(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Message: "registered", Email: user.Email})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, token, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, h.sessionCookie(token, int(h.Auth.TokenDuration().Seconds())))
	writeJSON(w, http.StatusOK, authResponse{Message: "logged in", Email: user.Email, Token: token})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, authResponse{Message: "logged out"})
}

// sessionCookie builds the auth-token cookie. A negative maxAge deletes it.
func (h *handler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
