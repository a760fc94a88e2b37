package services

import (
	"context"
	"fmt"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/app/domains"

	"github.com/google/uuid"
)

// AuthService resolves agent credentials and tracks liveness. Heartbeats are
// the only health signal: an agent with no heartbeat past the operator's
// threshold is considered offline, there is no disconnect notification.
type AuthService struct {
	storage clients.StorageAdapter
}

// NewAuthService creates a new auth service
func NewAuthService(storage clients.StorageAdapter) *AuthService {
	return &AuthService{storage: storage}
}

// Authenticate resolves a bearer API key to its active server.
func (s *AuthService) Authenticate(ctx context.Context, apiKey string) (*domains.GameServer, error) {
	if apiKey == "" {
		return nil, ErrUnauthenticated
	}
	server, err := s.storage.GetServerByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}
	if server == nil {
		return nil, ErrUnauthenticated
	}
	return server, nil
}

// Heartbeat advances the server's last-seen timestamp and, when the agent
// reported one, its current occupancy. Called on every successful poll or
// telemetry push.
func (s *AuthService) Heartbeat(ctx context.Context, serverID uuid.UUID, playerCount *int) error {
	if err := s.storage.UpdateServerHeartbeat(ctx, serverID, playerCount); err != nil {
		return fmt.Errorf("failed to update heartbeat: %w", err)
	}
	return nil
}
