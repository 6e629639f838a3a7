package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/go-shop-backend/internal/app/config"
	"github.com/shopora/go-shop-backend/internal/app/entity"
)

func newTestManager() *Manager {
	return NewManager(config.Config{
		SessionSecret:    "session-secret",
		ActivationSecret: "activation-secret",
	})
}

func TestSessionTokenRoundTrip(t *testing.T) {
	manager := newTestManager()

	tokenString, err := manager.BuildSessionToken("user-1", entity.RoleSeller)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	subject, role, err := manager.ParseSessionToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
	assert.Equal(t, entity.RoleSeller, role)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	manager := newTestManager()
	other := NewManager(config.Config{
		SessionSecret:    "different-secret",
		ActivationSecret: "activation-secret",
	})

	tokenString, err := manager.BuildSessionToken("user-1", entity.RoleUser)
	require.NoError(t, err)

	_, _, err = other.ParseSessionToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionSecretNotValidForActivation(t *testing.T) {
	manager := newTestManager()

	sessionToken, err := manager.BuildSessionToken("user-1", entity.RoleUser)
	require.NoError(t, err)

	_, err = manager.ParseActivationToken(sessionToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestActivationTokenRoundTrip(t *testing.T) {
	manager := newTestManager()

	payload := ActivationPayload{
		Role:     entity.RoleUser,
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "$2a$14$hash",
		Avatar:   entity.Image{ObjectID: "avatars/1", URL: "http://assets/avatars/1"},
	}

	tokenString, err := manager.BuildActivationToken(payload)
	require.NoError(t, err)

	parsed, err := manager.ParseActivationToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, payload, parsed)
}

func TestResetTokenRoundTrip(t *testing.T) {
	manager := newTestManager()

	tokenString, err := manager.BuildResetToken("user-1", entity.RoleUser)
	require.NoError(t, err)

	subject, role, err := manager.ParseResetToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
	assert.Equal(t, entity.RoleUser, role)
}

func TestParseGarbageToken(t *testing.T) {
	manager := newTestManager()

	_, _, err := manager.ParseSessionToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.ParseActivationToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
