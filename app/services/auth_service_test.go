package services

import (
	"context"
	"testing"

	"remote-admin-svc/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	store := memory.NewStore()
	svc := NewAuthService(store)
	server := newTestServer(t, store, 1, "lobby")
	ctx := context.Background()

	got, err := svc.Authenticate(ctx, server.APIKey)
	require.NoError(t, err)
	assert.Equal(t, server.ID, got.ID)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "ra_nope")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateRejectsDeactivatedServer(t *testing.T) {
	store := memory.NewStore()
	svc := NewAuthService(store)
	server := newTestServer(t, store, 1, "lobby")
	ctx := context.Background()

	server.IsActive = false
	require.NoError(t, store.UpdateServer(ctx, server))

	_, err := svc.Authenticate(ctx, server.APIKey)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
