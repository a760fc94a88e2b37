package domains

import (
	"time"

	"github.com/google/uuid"
)

// ServerMetrics represents a point-in-time utilization sample pushed by a
// server. Samples are append-only and never merged into the activity feed.
type ServerMetrics struct {
	ID            int64                  `db:"id"`
	ServerID      uuid.UUID              `db:"server_id"`
	PlayerCount   int                    `db:"player_count"`
	ActivePlayers *int                   `db:"active_players"`
	Performance   map[string]interface{} `db:"performance"`
	Timestamp     time.Time              `db:"timestamp"`
}
