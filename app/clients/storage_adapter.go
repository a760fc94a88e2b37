package clients

import (
	"context"
	"time"

	"remote-admin-svc/app/domains"

	"github.com/google/uuid"
)

// ActivityQuery is the shared filter set applied to each activity source.
// Search matches case-insensitively; each store adapts the target fields
// (username/event-type, message/username, username/action-type).
type ActivityQuery struct {
	WorkspaceGroupID int64
	ServerID         *uuid.UUID
	EventType        string // exact event/sub-kind match when non-empty
	UserID           *int64
	Search           string
	Limit            int
}

// ChatQuery filters the chat listing.
type ChatQuery struct {
	WorkspaceGroupID int64
	Since            time.Time
	ServerID         *uuid.UUID
	FlaggedOnly      bool
	UserID           *int64
	Search           string
	Limit            int
}

// StorageAdapter defines the interface for storage operations
type StorageAdapter interface {
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Servers
	CreateServer(ctx context.Context, server *domains.GameServer) error
	GetServerByAPIKey(ctx context.Context, apiKey string) (*domains.GameServer, error)
	GetServerInWorkspace(ctx context.Context, id uuid.UUID, workspaceGroupID int64) (*domains.GameServer, error)
	ListServers(ctx context.Context, workspaceGroupID int64) ([]domains.GameServer, error)
	UpdateServer(ctx context.Context, server *domains.GameServer) error
	DeleteServer(ctx context.Context, id uuid.UUID, workspaceGroupID int64) error
	// UpdateServerHeartbeat advances last_seen and, when playerCount is
	// non-nil, the current occupancy.
	UpdateServerHeartbeat(ctx context.Context, id uuid.UUID, playerCount *int) error
	// ActivityCounts returns chat and event counts for a server since a cutoff.
	ActivityCounts(ctx context.Context, serverID uuid.UUID, since time.Time) (chat int64, events int64, err error)

	// Commands
	// EnqueueCommand persists the command row and its admin_command audit
	// event as one atomic unit; on failure neither is written.
	EnqueueCommand(ctx context.Context, cmd *domains.QueuedCommand, audit *domains.GameEvent) (int64, error)
	// PollCommands selects pending commands addressed to the server (directly
	// or by workspace broadcast), ordered by priority desc then creation asc,
	// and atomically marks every returned command delivered. Concurrent
	// pollers partition the pending set; no command is returned twice.
	PollCommands(ctx context.Context, serverID uuid.UUID, workspaceGroupID int64, limit int) ([]domains.QueuedCommand, error)
	ListQueue(ctx context.Context, workspaceGroupID int64, limit int) ([]domains.QueuedCommand, error)
	// DeleteDeliveredBefore removes delivered commands whose delivery is older
	// than the cutoff. Pending commands are never touched. Concurrent sweeps
	// are excluded at the store level; the second caller returns (0, nil).
	DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Events
	CreateEvent(ctx context.Context, event *domains.GameEvent) error
	QueryEvents(ctx context.Context, q ActivityQuery) ([]domains.GameEvent, error)

	// Chat
	CreateChatMessage(ctx context.Context, msg *domains.ChatMessage) error
	QueryChatMessages(ctx context.Context, q ChatQuery) ([]domains.ChatMessage, error)
	GetChatMessageInWorkspace(ctx context.Context, id int64, workspaceGroupID int64) (*domains.ChatMessage, error)
	SetChatFlag(ctx context.Context, id int64, flagged bool, moderatorID int64) error
	DeleteChatMessage(ctx context.Context, id int64) error

	// Player actions
	CreatePlayerAction(ctx context.Context, action *domains.PlayerAction) error
	QueryPlayerActions(ctx context.Context, q ActivityQuery) ([]domains.PlayerAction, error)

	// Metrics
	CreateServerMetrics(ctx context.Context, sample *domains.ServerMetrics) error
}
