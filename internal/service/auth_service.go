package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"steamx-api/internal/domain"
	"steamx-api/internal/repository"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
)

// AuthService orquesta registro, login, autenticación con Google y refresh.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
	hasher *PasswordHasher
	jwt    *JWTService
	google GoogleVerifier
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, hasher *PasswordHasher, jwtSvc *JWTService, google GoogleVerifier) *AuthService {
	return &AuthService{
		logger: logger,
		users:  users,
		hasher: hasher,
		jwt:    jwtSvc,
		google: google,
	}
}

// Register crea un usuario local con contraseña hasheada. El índice único de
// email respalda el pre-chequeo ante registros concurrentes.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (domain.User, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	fullName = strings.TrimSpace(fullName)
	if email == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if password == "" || fullName == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     hash,
		FullName:         fullName,
		SubscriptionTier: "free",
		AuthProvider:     domain.ProviderLocal,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}
	return user, nil
}

// Login autentica credenciales locales. Usuario inexistente, cuenta solo-Google
// y contraseña incorrecta fallan con el mismo error para no permitir
// enumeración de cuentas.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, TokenPair, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return domain.User{}, TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, TokenPair{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.jwt.GeneratePair(user.ID)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// AuthenticateGoogle verifica el ID token y resuelve identidad: por google_id,
// por email (vinculando la cuenta local y conservando su contraseña), o
// creando un usuario nuevo sin contraseña. Siempre emite tokens frescos.
func (s *AuthService) AuthenticateGoogle(ctx context.Context, idToken string) (domain.User, TokenPair, error) {
	claims, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return domain.User{}, TokenPair{}, ErrGoogleTokenInvalid
	}

	user, err := s.resolveGoogleUser(ctx, claims)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}

	pair, err := s.jwt.GeneratePair(user.ID)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

func (s *AuthService) resolveGoogleUser(ctx context.Context, claims GoogleClaims) (domain.User, error) {
	user, err := s.users.GetByGoogleID(ctx, claims.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	email := normalizeEmail(claims.Email)
	now := time.Now().UTC()

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if err := s.users.LinkGoogle(ctx, existing.ID, claims.Sub, claims.Picture, now); err != nil {
			return domain.User{}, err
		}
		s.logger.Info("google account linked", zap.String("user_id", existing.ID))
		existing.GoogleID = claims.Sub
		existing.ProfilePicture = claims.Picture
		existing.AuthProvider = domain.ProviderGoogle
		existing.IsVerified = true
		existing.UpdatedAt = now
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	user = domain.User{
		ID:               uuid.NewString(),
		Email:            email,
		FullName:         claims.FullName,
		IsVerified:       true,
		SubscriptionTier: "free",
		GoogleID:         claims.Sub,
		ProfilePicture:   claims.Picture,
		AuthProvider:     domain.ProviderGoogle,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Carrera con otro sign-in del mismo usuario: releer por google_id.
			return s.users.GetByGoogleID(ctx, claims.Sub)
		}
		return domain.User{}, err
	}
	return user, nil
}

// RefreshAccessToken delega en el JWTService.
func (s *AuthService) RefreshAccessToken(refreshToken string) (string, error) {
	return s.jwt.RefreshAccess(refreshToken)
}

// Logout revoca el refresh token entregado.
func (s *AuthService) Logout(refreshToken string) error {
	return s.jwt.RevokeRefresh(refreshToken)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
