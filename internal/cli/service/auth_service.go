package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"JourFlow/internal/cli/api"
	"JourFlow/internal/cli/model"
	"JourFlow/internal/cli/repo"
	"JourFlow/internal/common"
)

// RefreshWindow — за сколько до истечения JWT обновляется.
const RefreshWindow = 5 * time.Minute

var (
	// ErrNotSignedIn — на устройстве нет текущего пользователя.
	ErrNotSignedIn = errors.New("not signed in, run `login` first")
	// ErrSessionExpired — JWT истёк, а refresh-токена нет.
	ErrSessionExpired = errors.New("session expired, sign in again")
)

// AuthAPI — эндпоинты аутентификации удалённого API.
type AuthAPI interface {
	SignIn(ctx context.Context, idToken string) (*api.SignInResponse, error)
	RefreshJWT(ctx context.Context, userID, refreshToken string) (string, error)
}

// UserStore — хранение локального пользователя.
type UserStore interface {
	UpsertUser(ctx context.Context, u model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Puller — начальная загрузка данных после входа.
type Puller interface {
	Pull(ctx context.Context, sess model.Session) (model.MergeResult, error)
}

// AuthService — юзкейс-уровень аутентификации CLI.
type AuthService struct {
	api    AuthAPI
	users  UserStore
	tokens repo.TokenStore
	ctx    repo.UserContextStore
	puller Puller
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewAuthService создаёт сервис. puller может быть nil.
func NewAuthService(a AuthAPI, users UserStore, tokens repo.TokenStore, uctx repo.UserContextStore, puller Puller, log *zap.SugaredLogger) *AuthService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AuthService{api: a, users: users, tokens: tokens, ctx: uctx, puller: puller, log: log, now: time.Now}
}

// SignIn обменивает Google id token на JWT, сохраняет пользователя и сессию,
// затем подтягивает данные с сервера. Сбой начальной загрузки не отменяет вход.
func (s *AuthService) SignIn(ctx context.Context, idToken string) (*model.User, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, common.NewValidationError("id_token", "required")
	}
	resp, err := s.api.SignIn(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if resp.UserID == "" || resp.Token == "" {
		return nil, errors.New("sign in: server returned no user or token")
	}
	u, err := s.users.UpsertUser(ctx, model.User{
		ID:                resp.UserID,
		Username:          resp.UserName,
		Email:             resp.Email,
		AvatarURL:         resp.AvatarURL,
		JWT:               resp.Token,
		GoogleAccessToken: idToken,
		RefreshToken:      resp.RefreshToken,
	})
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(u.JWT); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	if err := s.ctx.SaveUserID(u.ID); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if s.puller != nil {
		if res, err := s.puller.Pull(ctx, model.Session{UserID: u.ID}); err != nil {
			s.log.Warnw("initial pull failed", "user_id", u.ID, "err", err)
		} else {
			s.log.Infow("initial pull", "user_id", u.ID, "posts", res.PostsInserted, "images", res.ImagesInserted)
		}
	}
	return u, nil
}

// Current возвращает сессию и пользователя устройства.
func (s *AuthService) Current(ctx context.Context) (model.Session, *model.User, error) {
	id, err := s.ctx.LoadUserID()
	if err != nil {
		return model.Session{}, nil, ErrNotSignedIn
	}
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return model.Session{}, nil, ErrNotSignedIn
		}
		return model.Session{}, nil, err
	}
	return model.Session{UserID: u.ID}, u, nil
}

// EnsureFreshToken обновляет JWT, если он истекает в течение RefreshWindow.
func (s *AuthService) EnsureFreshToken(ctx context.Context, sess model.Session) (string, error) {
	u, err := s.users.GetUser(ctx, sess.UserID)
	if err != nil {
		return "", err
	}
	exp, ok := tokenExpiry(u.JWT)
	if !ok || s.now().Add(RefreshWindow).Before(exp) {
		return u.JWT, nil
	}
	if u.RefreshToken == "" {
		return "", ErrSessionExpired
	}
	tok, err := s.api.RefreshJWT(ctx, u.ID, u.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	u.JWT = tok
	if _, err := s.users.UpsertUser(ctx, *u); err != nil {
		return "", err
	}
	if err := s.tokens.Save(tok); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}
	s.log.Debugw("jwt refreshed", "user_id", u.ID)
	return tok, nil
}

// SignOut снимает указатель на пользователя и токен. Локальные данные остаются.
func (s *AuthService) SignOut() error {
	if err := s.tokens.Clear(); err != nil {
		return err
	}
	return s.ctx.ClearUserID()
}

// tokenExpiry читает exp без проверки подписи: секрет есть только у сервера.
func tokenExpiry(tok string) (time.Time, bool) {
	if tok == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
