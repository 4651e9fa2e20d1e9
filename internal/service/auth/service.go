// Package auth implements the identity boundary the storefront core
// depends on: signup, login, and resolving a bearer token to a typed
// actor exactly once per request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"marketfront/internal/domain"
	tokenrepo "marketfront/internal/repository/token"
	userrepo "marketfront/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

type Service struct {
	users       userrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(users userrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		users:       users,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// Signup registers a new user with role USER.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, fmt.Errorf("password must be at least %d characters", s.passwordMin)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         domain.RoleUser,
		Status:       domain.UserActive,
	})
}

// Login validates credentials and returns issued tokens plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	password = strings.TrimSpace(password)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, u.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// ActorFromToken resolves a valid access token to a typed actor.
func (s *Service) ActorFromToken(ctx context.Context, token string) (domain.Actor, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return domain.Actor{}, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, ErrInvalidToken
		}
		return domain.Actor{}, err
	}
	if u.Status != domain.UserActive {
		return domain.Actor{}, ErrInvalidToken
	}
	return domain.Actor{ID: u.ID, Role: u.Role, Email: u.Email}, nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
