package domains

import (
	"time"

	"github.com/google/uuid"
)

// PlayerAction represents a discrete in-game action. Immutable once created.
type PlayerAction struct {
	ID         int64                  `db:"id"`
	ServerID   uuid.UUID              `db:"server_id"`
	UserID     int64                  `db:"user_id"`
	Username   string                 `db:"username"`
	ActionType string                 `db:"action_type"`
	Position   map[string]interface{} `db:"position"`
	Data       map[string]interface{} `db:"data"`
	Timestamp  time.Time              `db:"timestamp"`
	ServerName string                 `db:"server_name"` // joined for feed queries
}
