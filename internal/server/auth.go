package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/amosley/joinboard/internal/models"
	"github.com/amosley/joinboard/internal/shared"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  userDTO `json:"user"`
	Token string  `json:"token"`
}

// Signup registers a new account and returns the user with a signed token.
func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email, and password are required")
		return
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		a.logger.Error("failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := models.NewUser(0, req.Email, req.Name)
	user.SetPasswordHash(hash)

	if err := a.users.Create(user); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		if errors.Is(err, shared.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := a.issuer.Issue(user.ID(), user.Email())
	if err != nil {
		a.logger.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: toUserDTO(user), Token: token})
}

// Login verifies credentials and returns the user with a signed token.
//
// Unknown email and wrong password produce the same response, so the endpoint
// does not leak which emails are registered.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := a.users.GetByEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := a.hasher.Compare(user.PasswordHash(), req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := a.issuer.Issue(user.ID(), user.Email())
	if err != nil {
		a.logger.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: toUserDTO(user), Token: token})
}
