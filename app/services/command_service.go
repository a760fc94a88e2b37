package services

import (
	"context"
	"fmt"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/app/domains"
	"remote-admin-svc/app/dto"
)

// DefaultPollLimit caps the commands handed out per poll.
const DefaultPollLimit = 10

// QueueListLimit caps the operator queue listing.
const QueueListLimit = 100

// Operator identifies the admin issuing a command. Minted by the external
// dashboard auth layer; this service only consumes it.
type Operator struct {
	UserID   int64
	Username string
}

// CommandService owns the durable priority queue: enqueue with audit,
// exactly-once-per-command delivery on poll, and operator listings.
type CommandService struct {
	storage clients.StorageAdapter
}

// NewCommandService creates a new command service
func NewCommandService(storage clients.StorageAdapter) *CommandService {
	return &CommandService{storage: storage}
}

// Enqueue validates and queues an admin command. Kinds outside the registry
// and user-targeted kinds without a target user are rejected. A targeted
// server must belong to the issuing workspace. The command row and its
// admin_command audit event are written atomically.
func (s *CommandService) Enqueue(
	ctx context.Context,
	workspaceGroupID int64,
	operator Operator,
	command string,
	target domains.Target,
	targetUserID *int64,
	parameters map[string]interface{},
	priority int,
) (*domains.QueuedCommand, error) {
	def, ok := dto.CommandRegistry[command]
	if !ok {
		return nil, validationError("invalid command type")
	}
	if def.RequiresTargetUser && targetUserID == nil {
		return nil, validationError("target user ID required for this command")
	}

	cmd := &domains.QueuedCommand{
		WorkspaceGroupID: workspaceGroupID,
		Command:          command,
		TargetUserID:     targetUserID,
		Parameters:       parameters,
		Priority:         priority,
		ExecutedBy:       operator.UserID,
		ExecutorUsername: operator.Username,
	}

	audit := &domains.GameEvent{
		EventType: domains.EventTypeAdminCommand,
		UserID:    &operator.UserID,
		Username:  &operator.Username,
		Data: map[string]interface{}{
			"command":      command,
			"targetUserId": targetUserID,
			"parameters":   parameters,
		},
	}

	if serverID, ok := target.ServerID(); ok {
		server, err := s.storage.GetServerInWorkspace(ctx, serverID, workspaceGroupID)
		if err != nil {
			return nil, fmt.Errorf("failed to get server: %w", err)
		}
		if server == nil {
			return nil, notFoundError("server not found")
		}
		cmd.ServerID = &serverID
		cmd.ServerName = &server.Name
		audit.ServerID = &serverID
	}

	if _, err := s.storage.EnqueueCommand(ctx, cmd, audit); err != nil {
		return nil, fmt.Errorf("failed to enqueue command: %w", err)
	}
	return cmd, nil
}

// Poll delivers pending commands addressed to a server, priority descending
// then oldest first, capped at limit. Every returned command is marked
// delivered before the caller sees it and is never handed out again.
func (s *CommandService) Poll(ctx context.Context, server *domains.GameServer, limit int) ([]domains.QueuedCommand, error) {
	if limit <= 0 {
		limit = DefaultPollLimit
	}
	commands, err := s.storage.PollCommands(ctx, server.ID, server.WorkspaceGroupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to poll commands: %w", err)
	}
	return commands, nil
}

// ListQueue returns the workspace's recent commands for operator visibility.
func (s *CommandService) ListQueue(ctx context.Context, workspaceGroupID int64) ([]domains.QueuedCommand, error) {
	commands, err := s.storage.ListQueue(ctx, workspaceGroupID, QueueListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	return commands, nil
}
