package dto

import "encoding/json"

// PollRequest is the body of an agent poll. All fields are advisory context
// reported by the game server runtime.
type PollRequest struct {
	GameID  *UserID `json:"gameId,omitempty"`
	PlaceID *UserID `json:"placeId,omitempty"`
	JobID   string  `json:"jobId,omitempty"`
}

// ActivityPushRequest is the tagged telemetry envelope pushed by agents.
type ActivityPushRequest struct {
	Type string          `json:"type" validate:"required"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// ChatMessageData is the chat_message payload.
type ChatMessageData struct {
	UserID      UserID `json:"userId" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Message     string `json:"message" validate:"required"`
	Filtered    bool   `json:"filtered,omitempty"`
	PlayerCount *int   `json:"playerCount,omitempty"`
}

// PlayerPresenceData is the player_join / player_leave payload.
type PlayerPresenceData struct {
	UserID      UserID                 `json:"userId" validate:"required"`
	Username    string                 `json:"username" validate:"required"`
	SessionData map[string]interface{} `json:"sessionData,omitempty"`
	PlayerCount *int                   `json:"playerCount,omitempty"`
}

// PlayerActionData is the player_action payload.
type PlayerActionData struct {
	UserID         UserID                 `json:"userId" validate:"required"`
	Username       string                 `json:"username" validate:"required"`
	ActionType     string                 `json:"actionType" validate:"required"`
	Position       map[string]interface{} `json:"position,omitempty"`
	AdditionalData map[string]interface{} `json:"additionalData,omitempty"`
	PlayerCount    *int                   `json:"playerCount,omitempty"`
}

// ServerMetricsData is the server_metrics payload.
type ServerMetricsData struct {
	PlayerCount   int                    `json:"playerCount"`
	ActivePlayers *int                   `json:"activePlayers,omitempty"`
	Performance   map[string]interface{} `json:"performance,omitempty"`
}

// GameEventData is the game_event payload; EventType is an arbitrary sub-kind.
type GameEventData struct {
	EventType   string                 `json:"eventType" validate:"required"`
	UserID      *UserID                `json:"userId,omitempty"`
	Username    *string                `json:"username,omitempty"`
	EventData   map[string]interface{} `json:"eventData,omitempty"`
	PlayerCount *int                   `json:"playerCount,omitempty"`
}

// EnqueueCommandRequest is the operator command submission body.
type EnqueueCommandRequest struct {
	Command      string                 `json:"command" validate:"required"`
	ServerID     string                 `json:"serverId,omitempty"`
	TargetUserID *UserID                `json:"targetUserId,omitempty"`
	Parameters   map[string]interface{} `json:"parameters,omitempty"`
	Priority     *int                   `json:"priority,omitempty"`
}

// CreateServerRequest registers a new game server.
type CreateServerRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	GameID      UserID  `json:"gameId" validate:"required"`
	UniverseID  *UserID `json:"universeId,omitempty"`
	MaxPlayers  *int    `json:"maxPlayers,omitempty" validate:"omitempty,min=1"`
}

// UpdateServerRequest mutates operator-editable server fields.
type UpdateServerRequest struct {
	ServerID    string  `json:"serverId" validate:"required"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	MaxPlayers  *int    `json:"maxPlayers,omitempty" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// DeleteServerRequest removes a server registration.
type DeleteServerRequest struct {
	ServerID string `json:"serverId" validate:"required"`
}

// ModerateChatRequest applies a moderation action to one message.
type ModerateChatRequest struct {
	MessageID int64  `json:"messageId" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=flag unflag delete"`
}
