package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/app/domains"

	"github.com/google/uuid"
)

// ServerService manages game server registrations for operators.
type ServerService struct {
	storage clients.StorageAdapter
}

// NewServerService creates a new server service
func NewServerService(storage clients.StorageAdapter) *ServerService {
	return &ServerService{storage: storage}
}

// ServerWithCounts pairs a server with its recent activity volume.
type ServerWithCounts struct {
	domains.GameServer
	ChatMessages24h int64
	Events24h       int64
}

// generateAPIKey mints the opaque bearer credential handed to a game server.
func generateAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return "ra_" + hex.EncodeToString(buf), nil
}

// Create registers a new server and mints its API key.
func (s *ServerService) Create(ctx context.Context, workspaceGroupID int64, name string, description *string, gameID int64, universeID *int64, maxPlayers int) (*domains.GameServer, error) {
	if maxPlayers <= 0 {
		maxPlayers = 100
	}
	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, err
	}
	server := &domains.GameServer{
		ID:               uuid.New(),
		WorkspaceGroupID: workspaceGroupID,
		Name:             name,
		Description:      description,
		GameID:           gameID,
		UniverseID:       universeID,
		APIKey:           apiKey,
		MaxPlayers:       maxPlayers,
		IsActive:         true,
	}
	if err := s.storage.CreateServer(ctx, server); err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	return server, nil
}

// List returns the workspace's servers with 24h activity counts.
func (s *ServerService) List(ctx context.Context, workspaceGroupID int64) ([]ServerWithCounts, error) {
	servers, err := s.storage.ListServers(ctx, workspaceGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	since := time.Now().Add(-24 * time.Hour)
	out := make([]ServerWithCounts, 0, len(servers))
	for _, srv := range servers {
		chat, events, err := s.storage.ActivityCounts(ctx, srv.ID, since)
		if err != nil {
			return nil, fmt.Errorf("failed to count activity: %w", err)
		}
		out = append(out, ServerWithCounts{GameServer: srv, ChatMessages24h: chat, Events24h: events})
	}
	return out, nil
}

// Update mutates operator-editable fields; nil fields keep current values.
func (s *ServerService) Update(ctx context.Context, workspaceGroupID int64, serverID uuid.UUID, name *string, description *string, maxPlayers *int, isActive *bool) (*domains.GameServer, error) {
	server, err := s.storage.GetServerInWorkspace(ctx, serverID, workspaceGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	if server == nil {
		return nil, notFoundError("server not found")
	}

	if name != nil {
		server.Name = *name
	}
	if description != nil {
		server.Description = description
	}
	if maxPlayers != nil {
		server.MaxPlayers = *maxPlayers
	}
	if isActive != nil {
		server.IsActive = *isActive
	}

	if err := s.storage.UpdateServer(ctx, server); err != nil {
		return nil, fmt.Errorf("failed to update server: %w", err)
	}
	return server, nil
}

// Delete removes a server and all of its dependent records.
func (s *ServerService) Delete(ctx context.Context, workspaceGroupID int64, serverID uuid.UUID) error {
	server, err := s.storage.GetServerInWorkspace(ctx, serverID, workspaceGroupID)
	if err != nil {
		return fmt.Errorf("failed to get server: %w", err)
	}
	if server == nil {
		return notFoundError("server not found")
	}
	if err := s.storage.DeleteServer(ctx, serverID, workspaceGroupID); err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}
	return nil
}
