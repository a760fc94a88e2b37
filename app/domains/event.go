package domains

import (
	"time"

	"github.com/google/uuid"
)

// IngestType is the closed set of telemetry tags an agent may push.
type IngestType string

const (
	IngestChatMessage   IngestType = "chat_message"
	IngestPlayerJoin    IngestType = "player_join"
	IngestPlayerLeave   IngestType = "player_leave"
	IngestPlayerAction  IngestType = "player_action"
	IngestServerMetrics IngestType = "server_metrics"
	IngestGameEvent     IngestType = "game_event"
)

// ParseIngestType maps a wire tag onto the closed set.
func ParseIngestType(s string) (IngestType, bool) {
	switch t := IngestType(s); t {
	case IngestChatMessage, IngestPlayerJoin, IngestPlayerLeave,
		IngestPlayerAction, IngestServerMetrics, IngestGameEvent:
		return t, true
	default:
		return "", false
	}
}

// EventTypeAdminCommand tags the audit record appended on every enqueue.
// It survives queue purges and is how command history outlives the sweeper.
const EventTypeAdminCommand = "admin_command"

// GameEvent represents generic telemetry: joins, leaves, arbitrary game
// events and the synthesized admin_command audit trail. Immutable once created.
type GameEvent struct {
	ID         int64                  `db:"id"`
	ServerID   *uuid.UUID             `db:"server_id"` // nil for broadcast audit records
	EventType  string                 `db:"event_type"`
	UserID     *int64                 `db:"user_id"`
	Username   *string                `db:"username"`
	Data       map[string]interface{} `db:"data"`
	Timestamp  time.Time              `db:"timestamp"`
	ServerName string                 `db:"server_name"` // joined for feed queries
}
