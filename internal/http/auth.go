package http

import (
	"errors"
	"net/http"

	"github.com/paytrack/authd/internal/domain"
	"github.com/paytrack/authd/internal/service"
	"github.com/paytrack/authd/pkg/httpx"
	"github.com/paytrack/authd/pkg/slogx"
)

// AuthHandler serves POST /auth. Accepts form-encoded login/password and
// returns the bearer token for the authenticated user.
type AuthHandler struct {
	Auth *service.AuthService
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	login := r.PostFormValue("login")
	if login == "" {
		// OAuth2 password-style clients send the login as "username".
		login = r.PostFormValue("username")
	}
	password := r.PostFormValue("password")

	if login == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Login and password are required")
		return
	}

	token, err := h.Auth.Login(ctx, login, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoginNotFound):
			writeError(w, http.StatusBadRequest, "Login not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, "Incorrect login or password")
		default:
			log.Error("login failed", "login", login, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token.Value,
		Expires:     token.ExpiresAt.Format(timestampFormat),
		TokenType:   domain.TokenType,
	})
}
