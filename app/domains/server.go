package domains

import (
	"time"

	"github.com/google/uuid"
)

// GameServer represents a registered remote game server instance
type GameServer struct {
	ID               uuid.UUID  `db:"id"`
	WorkspaceGroupID int64      `db:"workspace_group_id"`
	Name             string     `db:"name"`
	Description      *string    `db:"description"`
	GameID           int64      `db:"game_id"`
	UniverseID       *int64     `db:"universe_id"`
	APIKey           string     `db:"api_key"`
	PlayerCount      int        `db:"player_count"`
	MaxPlayers       int        `db:"max_players"`
	IsActive         bool       `db:"is_active"`
	LastSeen         *time.Time `db:"last_seen"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}
