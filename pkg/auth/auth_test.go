package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestfin/gestfin/internal/config"
	"github.com/gestfin/gestfin/internal/test_utils"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/gestfin/gestfin/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var ctx = context.Background()

func setupManager(t *testing.T) (*Manager, *utils.MockClock, user.User) {
	t.Helper()
	db := test_utils.SetupTestDB(t)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)}
	users := user.NewService(user.NewRepository(db), clock, bcrypt.MinCost)
	manager := NewManager(users, clock, config.Auth{
		Secret:     "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	})
	created, err := manager.CreateUser(ctx, user.NewUser{Name: "Awa Diallo", Email: "Awa@Example.com", Password: "s3cret"})
	require.NoError(t, err)
	return manager, clock, created
}

func TestManager_Login(t *testing.T) {
	manager, _, awa := setupManager(t)

	t.Run("should open a session with valid credentials", func(t *testing.T) {
		// when
		session, err := manager.Login(ctx, "awa@example.com", "s3cret")

		// then
		require.NoError(t, err)
		assert.Equal(t, awa.Id, session.User.Id)
		assert.NotEmpty(t, session.Token)
		assert.NotEmpty(t, session.RefreshToken)
		authenticated, err := manager.Authenticate(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, "awa@example.com", authenticated.Email)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		_, err := manager.Login(ctx, "awa@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should reject an unknown email", func(t *testing.T) {
		_, err := manager.Login(ctx, "nobody@example.com", "s3cret")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestManager_Authenticate(t *testing.T) {
	manager, clock, _ := setupManager(t)
	session, err := manager.Login(ctx, "awa@example.com", "s3cret")
	require.NoError(t, err)

	t.Run("should refuse a refresh token as access token", func(t *testing.T) {
		_, err := manager.Authenticate(ctx, session.RefreshToken)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should refuse a token signed with another secret", func(t *testing.T) {
		other := NewManager(manager.users, clock, config.Auth{Secret: "other", AccessTTL: time.Minute, RefreshTTL: time.Hour})
		foreign, err := other.Login(ctx, "awa@example.com", "s3cret")
		require.NoError(t, err)

		_, err = manager.Authenticate(ctx, foreign.Token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should refuse an expired token", func(t *testing.T) {
		clock.Advance(16 * time.Minute)

		_, err := manager.Authenticate(ctx, session.Token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestManager_Refresh(t *testing.T) {
	// given
	manager, clock, awa := setupManager(t)
	session, err := manager.Login(ctx, "awa@example.com", "s3cret")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	// when
	refreshed, err := manager.Refresh(ctx, session.RefreshToken)

	// then
	require.NoError(t, err)
	assert.Equal(t, awa.Id, refreshed.User.Id)
	assert.NotEqual(t, session.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, clock.FixedNow.Add(15*time.Minute), refreshed.ExpiresAt)

	t.Run("should not accept the same refresh token twice", func(t *testing.T) {
		_, err := manager.Refresh(ctx, session.RefreshToken)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("should revoke the refresh token on logout", func(t *testing.T) {
		require.NoError(t, manager.Logout(refreshed.RefreshToken))

		_, err := manager.Refresh(ctx, refreshed.RefreshToken)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestManager_GetCurrentUser(t *testing.T) {
	manager, _, awa := setupManager(t)

	current, err := manager.GetCurrentUser(user.WithUser(ctx, awa))
	require.NoError(t, err)
	assert.Equal(t, awa.Id, current.Id)

	anonymous, err := manager.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, anonymous)
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc.def", token: "abc.def", ok: true},
		{header: "bearer abc", token: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer", ok: false},
		{header: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/users/current", nil)
			r.Header.Set("Authorization", tt.header)

			token, ok := TokenFromRequest(r)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}
