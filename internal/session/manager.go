package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"hotelbook/internal/storage"
)

// Storage keys of the two persisted entries.
const (
	KeyToken = "token"
	KeyRole  = "role"
)

// Manager loads, saves and clears the persisted session.
type Manager struct {
	kv     storage.KV
	cipher *Cipher
	logger zerolog.Logger
	now    func() time.Time
}

// NewManager wires a storage backend and cipher together.
func NewManager(kv storage.KV, c *Cipher, logger zerolog.Logger) *Manager {
	return &Manager{
		kv:     kv,
		cipher: c,
		logger: logger.With().Str("component", "session").Logger(),
		now:    time.Now,
	}
}

// SetClock overrides the time source used for token expiry checks.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Load reads the persisted session. It never fails: storage and decryption
// errors yield an absent session.
func (m *Manager) Load(ctx context.Context) *Session {
	token, ok := m.read(ctx, KeyToken)
	if !ok || token == "" {
		return Absent()
	}
	if expired(token, m.now()) {
		m.logger.Debug().Msg("stored token expired")
		return Absent()
	}
	role, _ := m.read(ctx, KeyRole)
	return New(token, ParseRole(role))
}

// Save encrypts and persists token and role and returns the active session.
func (m *Manager) Save(ctx context.Context, token string, role Role) (*Session, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	if err := m.write(ctx, KeyToken, token); err != nil {
		return nil, err
	}
	if err := m.write(ctx, KeyRole, string(role)); err != nil {
		return nil, err
	}
	return New(token, role), nil
}

// Clear removes both entries and moves s to the cleared state.
func (m *Manager) Clear(ctx context.Context, s *Session) error {
	s.clear()
	if err := m.kv.Delete(ctx, KeyToken, KeyRole); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (m *Manager) read(ctx context.Context, key string) (string, bool) {
	enc, err := m.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Debug().Err(err).Str("key", key).Msg("session read failed")
		}
		return "", false
	}
	plain, ok := m.cipher.Decrypt(enc)
	if !ok {
		m.logger.Debug().Str("key", key).Msg("session entry could not be decrypted")
	}
	return plain, ok
}

func (m *Manager) write(ctx context.Context, key, value string) error {
	enc, err := m.cipher.Encrypt(value)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", key, err)
	}
	if err := m.kv.Set(ctx, key, enc); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// expired reports whether token is a JWT whose exp has passed. Opaque tokens
// never expire on the client side.
func expired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}
