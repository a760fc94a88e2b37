package postgres

import (
	"context"
	"fmt"
	"time"

	"remote-admin-svc/app/domains"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store represents the Postgres storage implementation
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Postgres store
// The database must already exist - creation should be handled at the infrastructure/deployment level
func NewStore(connString string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateServer inserts a new game server registration.
func (s *Store) CreateServer(ctx context.Context, server *domains.GameServer) error {
	query := `
		INSERT INTO game_servers (
			id, workspace_group_id, name, description, game_id, universe_id,
			api_key, player_count, max_players, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	return s.pool.QueryRow(ctx, query,
		server.ID, server.WorkspaceGroupID, server.Name, server.Description,
		server.GameID, server.UniverseID, server.APIKey,
		server.PlayerCount, server.MaxPlayers, server.IsActive,
	).Scan(&server.CreatedAt, &server.UpdatedAt)
}

const serverColumns = `id, workspace_group_id, name, description, game_id, universe_id,
	api_key, player_count, max_players, is_active, last_seen, created_at, updated_at`

func scanServer(row pgx.Row) (*domains.GameServer, error) {
	var srv domains.GameServer
	err := row.Scan(
		&srv.ID, &srv.WorkspaceGroupID, &srv.Name, &srv.Description,
		&srv.GameID, &srv.UniverseID, &srv.APIKey,
		&srv.PlayerCount, &srv.MaxPlayers, &srv.IsActive,
		&srv.LastSeen, &srv.CreatedAt, &srv.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

// GetServerByAPIKey resolves an agent credential to its active server.
// Inactive servers do not authenticate.
func (s *Store) GetServerByAPIKey(ctx context.Context, apiKey string) (*domains.GameServer, error) {
	query := `SELECT ` + serverColumns + ` FROM game_servers WHERE api_key = $1 AND is_active = TRUE`
	return scanServer(s.pool.QueryRow(ctx, query, apiKey))
}

// GetServerInWorkspace retrieves a server scoped to its workspace.
func (s *Store) GetServerInWorkspace(ctx context.Context, id uuid.UUID, workspaceGroupID int64) (*domains.GameServer, error) {
	query := `SELECT ` + serverColumns + ` FROM game_servers WHERE id = $1 AND workspace_group_id = $2`
	return scanServer(s.pool.QueryRow(ctx, query, id, workspaceGroupID))
}

// ListServers retrieves all servers of a workspace, newest first.
func (s *Store) ListServers(ctx context.Context, workspaceGroupID int64) ([]domains.GameServer, error) {
	query := `SELECT ` + serverColumns + ` FROM game_servers WHERE workspace_group_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, workspaceGroupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var servers []domains.GameServer
	for rows.Next() {
		srv, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		servers = append(servers, *srv)
	}
	return servers, rows.Err()
}

// UpdateServer persists operator-editable fields.
func (s *Store) UpdateServer(ctx context.Context, server *domains.GameServer) error {
	query := `
		UPDATE game_servers
		SET name = $1, description = $2, max_players = $3, is_active = $4, updated_at = $5
		WHERE id = $6 AND workspace_group_id = $7
		RETURNING updated_at
	`
	return s.pool.QueryRow(ctx, query,
		server.Name, server.Description, server.MaxPlayers, server.IsActive,
		time.Now(), server.ID, server.WorkspaceGroupID,
	).Scan(&server.UpdatedAt)
}

// DeleteServer removes a server and, via cascade, its queue and telemetry.
func (s *Store) DeleteServer(ctx context.Context, id uuid.UUID, workspaceGroupID int64) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM game_servers WHERE id = $1 AND workspace_group_id = $2`, id, workspaceGroupID)
	return err
}

// UpdateServerHeartbeat advances last_seen and optionally the occupancy.
func (s *Store) UpdateServerHeartbeat(ctx context.Context, id uuid.UUID, playerCount *int) error {
	if playerCount != nil {
		_, err := s.pool.Exec(ctx,
			`UPDATE game_servers SET last_seen = $1, player_count = $2 WHERE id = $3`,
			time.Now(), *playerCount, id)
		return err
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE game_servers SET last_seen = $1 WHERE id = $2`, time.Now(), id)
	return err
}

// ActivityCounts returns chat and event volumes for a server since a cutoff.
func (s *Store) ActivityCounts(ctx context.Context, serverID uuid.UUID, since time.Time) (int64, int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM chat_messages WHERE server_id = $1 AND timestamp >= $2),
			(SELECT COUNT(*) FROM game_events WHERE server_id = $1 AND timestamp >= $2)
	`
	var chat, events int64
	if err := s.pool.QueryRow(ctx, query, serverID, since).Scan(&chat, &events); err != nil {
		return 0, 0, err
	}
	return chat, events, nil
}
