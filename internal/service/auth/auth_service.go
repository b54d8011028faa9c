package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AuthUseCase interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.Profile, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
	Profile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
}

// Revoker keeps signed-out token ids until the token would have expired anyway.
type Revoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type SignUpInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

type Session struct {
	Token     string         `json:"access_token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Profile   domain.Profile `json:"profile"`
}

type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	profiles   repository.ProfileRepository
	revoker    Revoker
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	log        *zap.Logger
	now        func() time.Time
}

func NewAuthService(profiles repository.ProfileRepository, revoker Revoker, cfg config.AuthConfig, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		profiles:   profiles,
		revoker:    revoker,
		secret:     []byte(cfg.JWTSecret),
		ttl:        cfg.TokenTTL(),
		bcryptCost: cfg.BcryptCost,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*domain.Profile, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "must be at least %d characters", minPasswordLength)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &domain.Profile{ID: uuid.New(), Email: email, Role: role}
	if err := s.profiles.CreateWithCredentials(ctx, profile, string(hash)); err != nil {
		return nil, err
	}
	s.log.Info("user signed up", zap.String("user_id", profile.ID.String()), zap.String("role", string(role)))
	return profile, nil
}

// SignIn does not tell an unknown email apart from a wrong password.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, hash, err := s.profiles.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, expiresAt, err := s.issue(profile)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Profile: *profile}, nil
}

func (s *AuthService) issue(profile *domain.Profile) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Role: profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *AuthService) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// SignOut revokes the token for the rest of its lifetime.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if s.revoker == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revoker.RevokeToken(ctx, claims.ID, ttl)
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.Identity{}, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || !claims.Role.Valid() {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return domain.Identity{}, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return domain.Identity{}, domain.ErrUnauthorized
		}
	}
	return domain.Identity{UserID: userID, Role: claims.Role}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

func (s *AuthService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.List(ctx)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.NewValidationError("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.NewValidationError("email", "is not a valid address")
	}
	return email, nil
}

var _ AuthUseCase = (*AuthService)(nil)
