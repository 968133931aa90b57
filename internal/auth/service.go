// Package auth implements credential checks and server-side session
// management. Exactly one credential path exists: a username/password pair
// verified against a bcrypt hash, with a single generic failure so callers
// cannot tell which half was wrong.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/betterpage/betterpage/internal/domain"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated indicates a missing, invalid or expired session token.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// UserSummary is the identity payload returned to authenticated clients.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

// UserRepository provides identity lookups.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.SysUser, error)
	GetByID(ctx context.Context, id int64) (*domain.SysUser, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// SessionRepository stores server-side sessions keyed by opaque token.
type SessionRepository interface {
	Create(ctx context.Context, sess *domain.SysSession) error
	GetByToken(ctx context.Context, token string) (*domain.SysSession, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuthService validates credentials and resolves the current user from a
// session token.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	ttl      time.Duration
}

func NewAuthService(users UserRepository, sessions SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, ttl: ttl}
}

// Login verifies the credential pair and establishes a new session. The
// returned token is the only session handle the client ever sees.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *UserSummary, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil || user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if !strings.EqualFold(user.Status, domain.StatusEnabled) {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return "", nil, err
	}
	now := time.Now()
	if err := s.sessions.Create(ctx, &domain.SysSession{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}); err != nil {
		return "", nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		zap.L().Warn("failed to update last login", zap.String("username", user.Username), zap.Error(err))
	}

	return token, summarize(user), nil
}

// Logout invalidates the session. A second call with the same token fails
// with ErrNotAuthenticated, the session is already gone.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotAuthenticated
	}
	if _, err := s.sessions.GetByToken(ctx, token); err != nil {
		return ErrNotAuthenticated
	}
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves the user bound to a session token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*UserSummary, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrNotAuthenticated
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil || user == nil {
		return nil, ErrNotAuthenticated
	}
	return summarize(user), nil
}

// PurgeExpired drops sessions past their expiry. Run from the scheduler.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now())
}

func summarize(u *domain.SysUser) *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsStaff:  u.IsStaff,
	}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashPassword produces the bcrypt hash stored in sys_user.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
