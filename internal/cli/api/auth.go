package api

import (
	"context"
	"net/http"
)

// SignInResponse — ответ /api/auth/google-signin.
type SignInResponse struct {
	UserID       string `json:"user_id"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	UserName     string `json:"user_name"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatar_url"`
}

type signInRequest struct {
	IDToken string `json:"id_token"`
}

type refreshRequest struct {
	UserID       string `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

// SignIn обменивает Google id token на JWT сервера.
func (c *Client) SignIn(ctx context.Context, idToken string) (*SignInResponse, error) {
	var out SignInResponse
	if err := c.callJSON(ctx, "sign in", http.MethodPost, "/api/auth/google-signin",
		signInRequest{IDToken: idToken}, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshJWT выпускает новый JWT по refresh-токену.
func (c *Client) RefreshJWT(ctx context.Context, userID, refreshToken string) (string, error) {
	var out refreshResponse
	if err := c.callJSON(ctx, "refresh token", http.MethodPost, "/api/auth/refresh",
		refreshRequest{UserID: userID, RefreshToken: refreshToken}, &out, false); err != nil {
		return "", err
	}
	return out.Token, nil
}
