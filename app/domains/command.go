package domains

import (
	"time"

	"github.com/google/uuid"
)

// Command lifecycle. A command is mutated exactly once: pending -> delivered.
const (
	CommandStatusPending   = "pending"
	CommandStatusDelivered = "delivered"
)

// Target addresses a queued command at either a single server or every
// active server of the workspace. The zero value is the broadcast target.
type Target struct {
	serverID *uuid.UUID
}

// BroadcastTarget addresses every server of the issuing workspace.
func BroadcastTarget() Target {
	return Target{}
}

// ServerTarget addresses one specific server.
func ServerTarget(id uuid.UUID) Target {
	return Target{serverID: &id}
}

// IsBroadcast reports whether the target is the whole workspace.
func (t Target) IsBroadcast() bool {
	return t.serverID == nil
}

// ServerID returns the targeted server id, if any.
func (t Target) ServerID() (uuid.UUID, bool) {
	if t.serverID == nil {
		return uuid.Nil, false
	}
	return *t.serverID, true
}

// QueuedCommand represents an admin-issued command in the durable queue
type QueuedCommand struct {
	ID               int64                  `db:"id"`
	WorkspaceGroupID int64                  `db:"workspace_group_id"`
	ServerID         *uuid.UUID             `db:"server_id"` // nil = broadcast
	Command          string                 `db:"command"`
	TargetUserID     *int64                 `db:"target_user_id"`
	Parameters       map[string]interface{} `db:"parameters"`
	Priority         int                    `db:"priority"`
	ExecutedBy       int64                  `db:"executed_by"`
	ExecutorUsername string                 `db:"executor_username"`
	Status           string                 `db:"status"`
	CreatedAt        time.Time              `db:"created_at"`
	DeliveredAt      *time.Time             `db:"delivered_at"`
	ServerName       *string                `db:"server_name"` // joined for queue listings
}

// Target returns the addressing of the command.
func (c *QueuedCommand) Target() Target {
	if c.ServerID == nil {
		return BroadcastTarget()
	}
	return ServerTarget(*c.ServerID)
}
