package service

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// ErrInvalidIDToken — Google не подтвердил id token.
var ErrInvalidIDToken = errors.New("invalid google id token")

// GoogleProfile — данные пользователя из подтверждённого id token.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IDTokenVerifier проверяет Google id token.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleProfile, error)
}

type payloadValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier проверяет подпись, срок и издателя id token по ключам Google.
type GoogleVerifier struct {
	validator payloadValidator
	clientID  string // пусто — aud не проверяется
}

// NewGoogleVerifier создаёт верификатор; opts передаются idtoken (например, свой http.Client).
func NewGoogleVerifier(ctx context.Context, clientID string, opts ...option.ClientOption) (*GoogleVerifier, error) {
	v, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("idtoken validator: %w", err)
	}
	return &GoogleVerifier{validator: v, clientID: clientID}, nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleProfile, error) {
	p, err := v.validator.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	email, _ := p.Claims["email"].(string)
	if email == "" || !emailVerified(p.Claims["email_verified"]) {
		return nil, ErrInvalidIDToken
	}
	name, _ := p.Claims["name"].(string)
	picture, _ := p.Claims["picture"].(string)
	return &GoogleProfile{Subject: p.Subject, Email: email, Name: name, Picture: picture}, nil
}

// emailVerified: Google отдаёт bool, старые токены — строку "true".
func emailVerified(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "true"
	default:
		return false
	}
}
