package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbook/internal/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.MemoryKV) {
	t.Helper()
	c, err := NewCipher("test-key")
	require.NoError(t, err)
	kv := storage.NewMemoryKV()
	return NewManager(kv, c, zerolog.Nop()), kv
}

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher("secret")
	require.NoError(t, err)

	for _, plain := range []string{"a", "eyJhbGciOiJIUzI1NiJ9.payload.sig", "ADMIN", "ünïcødé token"} {
		enc, err := c.Encrypt(plain)
		require.NoError(t, err)
		assert.NotEqual(t, plain, enc)

		got, ok := c.Decrypt(enc)
		assert.True(t, ok)
		assert.Equal(t, plain, got)
	}
}

func TestCipher_DecryptGarbage(t *testing.T) {
	c, err := NewCipher("secret")
	require.NoError(t, err)
	other, err := NewCipher("different")
	require.NoError(t, err)

	enc, err := c.Encrypt("token")
	require.NoError(t, err)

	tampered := []byte(enc)
	tampered[5] ^= 0x01

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not base64", "%%%"},
		{"too short", "AAAA"},
		{"tampered", string(tampered)},
		{"plain text", "token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Decrypt(tt.input)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}

	t.Run("wrong key", func(t *testing.T) {
		_, ok := other.Decrypt(enc)
		assert.False(t, ok)
	})
}

func TestSession_NilAndAbsent(t *testing.T) {
	var s *Session
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, StateAbsent, s.State())
	assert.Empty(t, s.Token())

	assert.False(t, New("", RoleAdmin).IsAuthenticated())
}

func TestManager_LoginLifecycle(t *testing.T) {
	m, kv := newTestManager(t)
	ctx := context.Background()

	assert.Equal(t, StateAbsent, m.Load(ctx).State())

	s, err := m.Save(ctx, "jwt-token", RoleCustomer)
	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsCustomer())
	assert.False(t, s.IsAdmin())

	raw, err := kv.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.NotContains(t, raw, "jwt-token")

	loaded := m.Load(ctx)
	assert.Equal(t, StateActive, loaded.State())
	assert.Equal(t, "jwt-token", loaded.Token())
	assert.Equal(t, RoleCustomer, loaded.Role())

	require.NoError(t, m.Clear(ctx, loaded))
	assert.Equal(t, StateCleared, loaded.State())
	assert.False(t, loaded.IsAuthenticated())
	assert.False(t, m.Load(ctx).IsAuthenticated())
}

func TestManager_AdminRole(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Save(ctx, "t", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, m.Load(ctx).IsAdmin())
}

func TestManager_CorruptedEntryFailsOpen(t *testing.T) {
	m, kv := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, KeyToken, "garbage"))
	s := m.Load(ctx)
	assert.NotNil(t, s)
	assert.False(t, s.IsAuthenticated())
}

type failingKV struct{ storage.MemoryKV }

func (f *failingKV) Get(context.Context, string) (string, error) {
	return "", errors.New("disk on fire")
}

func TestManager_StorageErrorFailsOpen(t *testing.T) {
	c, err := NewCipher("k")
	require.NoError(t, err)
	m := NewManager(&failingKV{}, c, zerolog.Nop())
	assert.False(t, m.Load(context.Background()).IsAuthenticated())
}

func TestManager_ExpiredJWT(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return now })

	sign := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
		s, err := tok.SignedString([]byte("server-secret"))
		require.NoError(t, err)
		return s
	}

	_, err := m.Save(ctx, sign(now.Add(time.Hour)), RoleCustomer)
	require.NoError(t, err)
	assert.True(t, m.Load(ctx).IsAuthenticated())

	_, err = m.Save(ctx, sign(now.Add(-time.Minute)), RoleCustomer)
	require.NoError(t, err)
	assert.False(t, m.Load(ctx).IsAuthenticated())
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleCustomer, ParseRole("CUSTOMER"))
	assert.Equal(t, RoleNone, ParseRole("guest"))
}
