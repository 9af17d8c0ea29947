package api

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/prasetyadi/survey-kiosk/internal/token"
	"github.com/prasetyadi/survey-kiosk/pkg/repository"
)

type AuthHandler struct {
	adminRepo     repository.AdminRepo
	signer        *token.Signer
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ar repository.AdminRepo, signer *token.Signer, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{adminRepo: ar, signer: signer, tokenDuration: tokenDuration}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

type loginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, "missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// unknown user, inactive user and wrong password all produce the same
	// answer so the response leaks nothing
	user, err := h.adminRepo.GetAdminByUsername(ctx, req.Username)
	if err != nil {
		logger.Error("lookup admin", slog.Any("err", err))
		writeError(w, "login failed", http.StatusInternalServerError)
		return
	}
	if user == nil || !user.Active {
		writeError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.adminRepo.UpdateAdminLastLogin(ctx, user.ID, time.Now().UTC().Unix()); err != nil {
		// a failed bookkeeping write must not block the login
		logger.Error("update last login", slog.Any("err", err))
	}

	claims := token.Claims{
		UID:      user.ID,
		Username: user.Username,
		Name:     user.Name,
		Purpose:  token.PurposeAdmin,
	}
	tok, err := h.signer.Sign(claims, h.tokenDuration)
	if err != nil {
		logger.Error("sign admin token", slog.Any("err", err))
		writeError(w, "login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, loginResponse{
		Token: tok,
		User:  loginUser{ID: user.ID, Username: user.Username, Name: user.Name},
	}, http.StatusOK)
}
