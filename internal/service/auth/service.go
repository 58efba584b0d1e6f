package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"shopassist-backend/internal/domain"
)

// ErrInvalidToken indicates the bearer token could not be resolved to a user
// by either the external identity provider or the local token scheme.
var ErrInvalidToken = errors.New("invalid token")

// Identity is what the external provider asserts about a token holder.
type Identity struct {
	UID      string
	Email    string
	Name     string
	PhotoURL string
}

// Verifier checks a bearer token against the external identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByExternalUID(ctx context.Context, uid string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) (*domain.User, error)
}

// Service resolves bearer tokens: the external provider is tried first, then
// locally-issued HS256 tokens. A first-seen external identity auto-provisions
// a user record.
type Service struct {
	users    userRepo
	verifier Verifier
	secret   []byte
	tokenTTL time.Duration
	logger   *log.Logger
}

func New(users userRepo, verifier Verifier, secret string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		users:    users,
		verifier: verifier,
		secret:   []byte(secret),
		tokenTTL: 30 * 24 * time.Hour,
		logger:   logger,
	}
}

type localClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Authenticate resolves a bearer token to a user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}

	if s.verifier != nil {
		id, err := s.verifier.Verify(ctx, token)
		if err == nil && id != nil {
			return s.findOrCreate(ctx, *id)
		}
	}

	return s.authenticateLocal(ctx, token)
}

func (s *Service) authenticateLocal(ctx context.Context, token string) (*domain.User, error) {
	if len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}
	claims := &localClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// IssueToken signs a local token for the given user id.
func (s *Service) IssueToken(userID string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token secret not configured")
	}
	now := time.Now()
	claims := localClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) findOrCreate(ctx context.Context, id Identity) (*domain.User, error) {
	u, err := s.users.GetByExternalUID(ctx, id.UID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = "User"
	}
	created, err := s.users.Create(ctx, domain.User{
		ExternalUID: id.UID,
		Email:       strings.ToLower(strings.TrimSpace(id.Email)),
		DisplayName: name,
		PhotoURL:    id.PhotoURL,
		Preferences: domain.DefaultPreferences(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Concurrent first login provisioned the record already.
			return s.users.GetByExternalUID(ctx, id.UID)
		}
		return nil, err
	}
	s.logger.Printf("auth: provisioned user id=%s uid=%s", created.ID, id.UID)
	return created, nil
}
