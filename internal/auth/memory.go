package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/betterpage/betterpage/internal/domain"
)

var errNoRecord = errors.New("no such record")

// MemoryIdentity is an in-memory UserRepository + SessionRepository pair for
// development and tests.
type MemoryIdentity struct {
	mu       sync.Mutex
	users    map[int64]domain.SysUser
	sessions map[string]domain.SysSession
	nextID   int64
}

var (
	_ UserRepository    = (*MemoryIdentity)(nil)
	_ SessionRepository = (*MemoryIdentity)(nil)
)

func NewMemoryIdentity() *MemoryIdentity {
	return &MemoryIdentity{
		users:    make(map[int64]domain.SysUser),
		sessions: make(map[string]domain.SysSession),
	}
}

// AddUser registers a user with an already hashed password and returns its id.
func (m *MemoryIdentity) AddUser(user domain.SysUser) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	if user.Status == "" {
		user.Status = domain.StatusEnabled
	}
	m.users[user.ID] = user
	return user.ID
}

func (m *MemoryIdentity) GetByUsername(ctx context.Context, username string) (*domain.SysUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, errNoRecord
}

func (m *MemoryIdentity) GetByID(ctx context.Context, id int64) (*domain.SysUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errNoRecord
	}
	return &u, nil
}

func (m *MemoryIdentity) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errNoRecord
	}
	u.LastLogin = at
	m.users[id] = u
	return nil
}

func (m *MemoryIdentity) Create(ctx context.Context, sess *domain.SysSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.Token] = *sess
	return nil
}

func (m *MemoryIdentity) GetByToken(ctx context.Context, token string) (*domain.SysSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, errNoRecord
	}
	return &s, nil
}

func (m *MemoryIdentity) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MemoryIdentity) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for token, sess := range m.sessions {
		if sess.ExpiresAt.Before(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}
