package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// PollResponse carries the commands delivered by one poll.
type PollResponse struct {
	Commands     []PolledCommand `json:"commands"`
	ServerStatus string          `json:"serverStatus"`
}

// PolledCommand is the wire shape a game server executes.
type PolledCommand struct {
	ID           int64                  `json:"id"`
	Command      string                 `json:"command"`
	TargetUserID *UserID                `json:"targetUserId,omitempty"`
	Parameters   map[string]interface{} `json:"parameters"`
	ExecutedBy   ExecutorInfo           `json:"executedBy"`
	Timestamp    string                 `json:"timestamp"`
}

// ExecutorInfo identifies the operator that issued a command.
type ExecutorInfo struct {
	Username string `json:"username"`
}

// ActivityPushResponse acknowledges an ingested telemetry envelope.
type ActivityPushResponse struct {
	Success bool `json:"success"`
}

// EnqueueCommandResponse acknowledges a queued command.
type EnqueueCommandResponse struct {
	Success           bool   `json:"success"`
	CommandID         int64  `json:"commandId"`
	Message           string `json:"message"`
	Target            string `json:"target"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// QueueResponse lists recent queue entries for operators.
type QueueResponse struct {
	Commands []QueuedCommandInfo `json:"commands"`
	Total    int                 `json:"total"`
}

// QueuedCommandInfo is one operator-visible queue entry.
type QueuedCommandInfo struct {
	ID           int64                  `json:"id"`
	Command      string                 `json:"command"`
	TargetUserID *UserID                `json:"targetUserId,omitempty"`
	Parameters   map[string]interface{} `json:"parameters"`
	Status       string                 `json:"status"`
	Priority     int                    `json:"priority"`
	CreatedAt    string                 `json:"createdAt"`
	DeliveredAt  *string                `json:"deliveredAt,omitempty"`
	Executor     ExecutorInfo           `json:"executor"`
	Server       *ServerRef             `json:"server"`
}

// ServerRef names a server inside nested responses.
type ServerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActivityFeedResponse is the merged, time-ordered activity view.
type ActivityFeedResponse struct {
	Events []ActivityEnvelope `json:"events"`
}

// ActivityEnvelope is the unified record shape of the merged feed.
type ActivityEnvelope struct {
	ID         int64                  `json:"id"`
	Type       string                 `json:"type"`
	ServerID   string                 `json:"serverId"`
	ServerName string                 `json:"serverName"`
	UserID     *UserID                `json:"userId,omitempty"`
	Username   *string                `json:"username,omitempty"`
	Message    *string                `json:"message,omitempty"`
	Data       map[string]interface{} `json:"data"`
	Timestamp  string                 `json:"timestamp"`
}

// ChatListResponse lists chat messages for operators.
type ChatListResponse struct {
	Messages []ChatMessageInfo `json:"messages"`
}

// ChatMessageInfo is one operator-visible chat record.
type ChatMessageInfo struct {
	ID          int64   `json:"id"`
	ServerID    string  `json:"serverId"`
	ServerName  string  `json:"serverName"`
	UserID      UserID  `json:"userId"`
	Username    string  `json:"username"`
	Message     string  `json:"message"`
	Filtered    bool    `json:"filtered"`
	Flagged     bool    `json:"flagged"`
	Timestamp   string  `json:"timestamp"`
	ModeratedBy *UserID `json:"moderatedBy,omitempty"`
}

// ModerateChatResponse acknowledges a moderation action.
type ModerateChatResponse struct {
	Success bool `json:"success"`
}

// ServerInfo is the operator-visible server shape.
type ServerInfo struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	GameID          UserID  `json:"gameId"`
	UniverseID      *UserID `json:"universeId,omitempty"`
	PlayerCount     int     `json:"playerCount"`
	MaxPlayers      int     `json:"maxPlayers"`
	IsActive        bool    `json:"isActive"`
	LastSeen        *string `json:"lastSeen,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	ChatMessages24h int64   `json:"chatMessages24h"`
	Events24h       int64   `json:"events24h"`
}

// WorkspaceServerStats aggregates fleet counters for the dashboard.
type WorkspaceServerStats struct {
	TotalServers         int   `json:"totalServers"`
	ActiveServers        int   `json:"activeServers"`
	TotalPlayers         int   `json:"totalPlayers"`
	TotalChatMessages24h int64 `json:"totalChatMessages24h"`
	TotalEvents24h       int64 `json:"totalEvents24h"`
}

// ListServersResponse lists a workspace's servers plus fleet stats.
type ListServersResponse struct {
	Servers []ServerInfo         `json:"servers"`
	Stats   WorkspaceServerStats `json:"stats"`
}

// CreateServerResponse returns the new server including its API key. The key
// is only ever shown here.
type CreateServerResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	GameID      UserID  `json:"gameId"`
	UniverseID  *UserID `json:"universeId,omitempty"`
	APIKey      string  `json:"apiKey"`
	MaxPlayers  int     `json:"maxPlayers"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   string  `json:"createdAt"`
}

// UpdateServerResponse returns the mutated server fields.
type UpdateServerResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	GameID      UserID  `json:"gameId"`
	MaxPlayers  int     `json:"maxPlayers"`
	IsActive    bool    `json:"isActive"`
	UpdatedAt   string  `json:"updatedAt"`
}

// DeleteServerResponse acknowledges a server removal.
type DeleteServerResponse struct {
	Success bool `json:"success"`
}
