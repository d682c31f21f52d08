package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/creatorlink/creatorlink/internal/domain/user"
	"github.com/creatorlink/creatorlink/internal/store"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email
	// and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated is returned when a token resolves to no live
	// session.
	ErrUnauthenticated = errors.New("not authenticated")
)

const defaultTTL = 24 * time.Hour

// Session associates an opaque token with the identity snapshot taken
// at login time. The snapshot never includes the password hash, and it
// is not refreshed until the next login.
type Session struct {
	Token     string      `json:"token"`
	User      user.Public `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Store persists live sessions keyed by token.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, bool, error)
	Delete(ctx context.Context, token string) error
}

// Manager owns the session lifecycle. It consults the credential store
// only at login; every later lookup is a pure session-store read.
type Manager struct {
	users    store.Store
	sessions Store
	ttl      time.Duration
}

func NewManager(users store.Store, sessions Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Manager{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
	}
}

// TTL is exposed so the HTTP layer can align the cookie MaxAge with
// session expiry.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Login(ctx context.Context, email, rawPassword string) (Session, error) {
	u, err := m.users.Verify(ctx, email, rawPassword)

	if err != nil {
		if errors.Is(err, store.ErrNoMatch) {
			return Session{}, ErrInvalidCredentials
		}

		return Session{}, err
	}

	token, err := newToken()

	if err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()

	s := Session{
		Token:     token,
		User:      u.PublicView(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.sessions.Put(ctx, s); err != nil {
		return Session{}, err
	}

	return s, nil
}

// CurrentUser resolves a token to the snapshot cached at login. It never
// touches the credential store.
func (m *Manager) CurrentUser(ctx context.Context, token string) (user.Public, error) {
	if token == "" {
		return user.Public{}, ErrUnauthenticated
	}

	s, ok, err := m.sessions.Get(ctx, token)

	if err != nil {
		return user.Public{}, err
	}

	if !ok {
		return user.Public{}, ErrUnauthenticated
	}

	if time.Now().UTC().After(s.ExpiresAt) {
		// lazily drop the expired record
		_ = m.sessions.Delete(ctx, token)

		return user.Public{}, ErrUnauthenticated
	}

	return s.User, nil
}

// Logout destroys the session for the token. Destroying a missing or
// already-destroyed session is not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	return m.sessions.Delete(ctx, token)
}

func newToken() (string, error) {
	buf := make([]byte, 32)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
