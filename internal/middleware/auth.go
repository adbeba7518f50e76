package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// Claims — содержимое JWT сервера.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// BuildJWT выпускает HS256-токен с sub=userID и сроком жизни ttl.
func BuildJWT(userID, email, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseJWT проверяет подпись и срок токена и возвращает userID.
func ParseJWT(tokenStr, secret string) (string, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("missing sub")
	}
	return claims.Subject, nil
}

// WithAuth кладёт userID в контекст, если запрос несёт валидный Bearer-токен.
// Запрос без токена проходит анонимно; доступ проверяют хендлеры.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			uid, err := ParseJWT(strings.TrimPrefix(h, "Bearer "), secret)
			if err != nil {
				sugar.Debugw("auth: rejected token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
		})
	}
}

// GetUserIDFromContext возвращает userID, установленный WithAuth.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDKey).(string)
	return uid, ok && uid != ""
}
