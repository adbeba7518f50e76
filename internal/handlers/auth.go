package handlers

import (
	"JourFlow/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// AuthHandler — вход через Google и обновление JWT.
type AuthHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
}

// NewAuthHandler создаёт хендлер авторизации
func NewAuthHandler(s *service.UserService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{UserService: s, Logger: logger}
}

type googleSignInRequest struct {
	IDToken string `json:"id_token"`
}

type signInResponse struct {
	UserID       string `json:"user_id"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	UserName     string `json:"user_name"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatar_url"`
}

type refreshRequest struct {
	UserID       string `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}

// GoogleSignIn обменивает Google id token на JWT и refresh-токен
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		h.Logger.Warnw("GoogleSignIn: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	res, err := h.UserService.SignIn(r.Context(), req.IDToken)
	if errors.Is(err, service.ErrInvalidIDToken) {
		h.Logger.Warnw("GoogleSignIn: rejected id token")
		http.Error(w, "invalid id token", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.Logger.Errorw("GoogleSignIn: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.Logger.Infow("user signed in", "user_id", res.User.ID)
	writeJSON(w, http.StatusOK, signInResponse{
		UserID:       res.User.ID,
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		UserName:     res.User.UserName,
		Email:        res.User.Email,
		AvatarURL:    res.User.AvatarURL,
	})
}

// Refresh выпускает новый JWT по refresh-токену
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Refresh: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	tok, err := h.UserService.Refresh(r.Context(), req.UserID, req.RefreshToken)
	if errors.Is(err, service.ErrInvalidRefreshToken) {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.Logger.Errorw("Refresh: service error", "user_id", req.UserID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}
