package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

// ErrGoogleTokenInvalid colapsa cualquier fallo de verificación (firma,
// audiencia, emisor, expiración o timeout) en un único error opaco.
var ErrGoogleTokenInvalid = errors.New("invalid google token")

// GoogleClaims son los datos de identidad extraídos de un ID token verificado.
type GoogleClaims struct {
	Sub           string
	Email         string
	FullName      string
	Picture       string
	EmailVerified bool
}

// GoogleVerifier valida ID tokens de Google contra las llaves públicas del
// emisor.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleClaims, error)
}

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

type googleIDTokenVerifier struct {
	logger   *zap.Logger
	clientID string
	timeout  time.Duration
}

// NewGoogleVerifier crea un verificador con la audiencia registrada de la
// aplicación. La verificación remota tiene un timeout acotado.
func NewGoogleVerifier(logger *zap.Logger, clientID string) GoogleVerifier {
	return &googleIDTokenVerifier{
		logger:   logger,
		clientID: clientID,
		timeout:  5 * time.Second,
	}
}

func (v *googleIDTokenVerifier) Verify(ctx context.Context, token string) (GoogleClaims, error) {
	if v.clientID == "" || token == "" {
		return GoogleClaims{}, ErrGoogleTokenInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		if v.logger != nil {
			v.logger.Debug("google id token rejected", zap.Error(err))
		}
		return GoogleClaims{}, ErrGoogleTokenInvalid
	}

	validIssuer := false
	for _, iss := range googleIssuers {
		if payload.Issuer == iss {
			validIssuer = true
			break
		}
	}
	if !validIssuer {
		return GoogleClaims{}, ErrGoogleTokenInvalid
	}

	claims := GoogleClaims{
		Sub:           payload.Subject,
		Email:         claimString(payload.Claims, "email"),
		FullName:      claimString(payload.Claims, "name"),
		Picture:       claimString(payload.Claims, "picture"),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
	}
	if claims.Sub == "" || claims.Email == "" {
		return GoogleClaims{}, ErrGoogleTokenInvalid
	}
	return claims, nil
}

func claimString(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return s
}

func claimBool(claims map[string]any, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
