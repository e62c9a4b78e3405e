package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token emitidos por JWTService.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

// Claims es el payload firmado: sub lleva el id de usuario y type distingue
// access de refresh.
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWTService emite y valida tokens JWT firmados con HS256. Los tokens son
// valores sin estado: su validez se evalúa al decodificar, salvo el denylist
// de jti revocados.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	revoked    RevocationStore
}

func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     "steamx-api",
		revoked:    NewMemoryRevocationStore(),
	}
}

func NewJWTServiceWithStore(secret string, accessTTL, refreshTTL time.Duration, store RevocationStore) *JWTService {
	svc := NewJWTService(secret, accessTTL, refreshTTL)
	if store != nil {
		svc.revoked = store
	}
	return svc
}

func (s *JWTService) AccessTTL() time.Duration {
	return s.accessTTL
}

// GeneratePair emite un access token y un refresh token para el usuario.
func (s *JWTService) GeneratePair(userID string) (TokenPair, error) {
	access, err := s.GenerateAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.GenerateRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *JWTService) GenerateAccessToken(userID string) (string, error) {
	return s.signToken(userID, s.accessTTL, TokenTypeAccess)
}

func (s *JWTService) GenerateRefreshToken(userID string) (string, error) {
	return s.signToken(userID, s.refreshTTL, TokenTypeRefresh)
}

// DecodeToken verifica firma y expiración y devuelve los claims.
func (s *JWTService) DecodeToken(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrJWTInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrJWTInvalid
	}
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

// ParseAccessToken decodifica y exige type=access.
func (s *JWTService) ParseAccessToken(accessToken string) (Claims, error) {
	claims, err := s.DecodeToken(accessToken)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != TokenTypeAccess {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

// RefreshAccess decodifica un refresh token válido y no revocado y emite un
// nuevo access token. El refresh token no se rota ni invalida.
func (s *JWTService) RefreshAccess(refreshToken string) (string, error) {
	claims, err := s.DecodeToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", ErrJWTInvalid
	}
	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(claims.ID)
		if err != nil || revoked {
			return "", ErrJWTInvalid
		}
	}
	return s.GenerateAccessToken(claims.Subject)
}

// RevokeRefresh marca el jti del refresh token como revocado hasta su
// expiración natural.
func (s *JWTService) RevokeRefresh(refreshToken string) error {
	claims, err := s.DecodeToken(refreshToken)
	if err != nil {
		return err
	}
	if claims.TokenType != TokenTypeRefresh || claims.ID == "" {
		return ErrJWTInvalid
	}
	if s.revoked == nil {
		return ErrJWTInvalid
	}
	ttl := s.refreshTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.revoked.Revoke(claims.ID, ttl)
}

func (s *JWTService) signToken(userID string, ttl time.Duration, tokenType string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrJWTInvalid
	}
	if strings.TrimSpace(userID) == "" {
		return "", ErrJWTInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.Subject) == "" {
		return false
	}
	if claims.TokenType != TokenTypeAccess && claims.TokenType != TokenTypeRefresh {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
