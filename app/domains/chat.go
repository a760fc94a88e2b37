package domains

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage represents an ingested chat line. Mutable only through
// moderation (flag/unflag) or hard deletion.
type ChatMessage struct {
	ID          int64     `db:"id"`
	ServerID    uuid.UUID `db:"server_id"`
	UserID      int64     `db:"user_id"`
	Username    string    `db:"username"`
	Message     string    `db:"message"`
	Filtered    bool      `db:"filtered"` // client-reported, stored as-is
	Flagged     bool      `db:"flagged"`  // server filter or moderator
	ModeratedBy *int64    `db:"moderated_by"`
	Timestamp   time.Time `db:"timestamp"`
	ServerName  string    `db:"server_name"` // joined for listings
}

// ModerationAction is the closed set of chat moderation operations.
type ModerationAction string

const (
	ModerationFlag   ModerationAction = "flag"
	ModerationUnflag ModerationAction = "unflag"
	ModerationDelete ModerationAction = "delete"
)
