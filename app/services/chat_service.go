package services

import (
	"context"
	"fmt"
	"time"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/app/domains"

	"github.com/google/uuid"
)

// DefaultChatLimit caps the chat listing when unspecified.
const DefaultChatLimit = 100

// ChatTimeRange converts the wire time-range token into a cutoff. Unknown
// tokens fall back to 24h, matching the dashboard default.
func ChatTimeRange(token string, now time.Time) time.Time {
	switch token {
	case "1h":
		return now.Add(-time.Hour)
	case "7d":
		return now.Add(-7 * 24 * time.Hour)
	case "30d":
		return now.Add(-30 * 24 * time.Hour)
	default:
		return now.Add(-24 * time.Hour)
	}
}

// ChatFilter narrows the chat listing.
type ChatFilter struct {
	WorkspaceGroupID int64
	Since            time.Time
	ServerID         *uuid.UUID
	FlaggedOnly      bool
	UserID           *int64
	Search           string
	Limit            int
}

// ChatService serves operator chat queries and moderation.
type ChatService struct {
	storage clients.StorageAdapter
}

// NewChatService creates a new chat service
func NewChatService(storage clients.StorageAdapter) *ChatService {
	return &ChatService{storage: storage}
}

// ListMessages returns workspace chat matching the filter, newest first.
func (s *ChatService) ListMessages(ctx context.Context, filter ChatFilter) ([]domains.ChatMessage, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultChatLimit
	}
	messages, err := s.storage.QueryChatMessages(ctx, clients.ChatQuery{
		WorkspaceGroupID: filter.WorkspaceGroupID,
		Since:            filter.Since,
		ServerID:         filter.ServerID,
		FlaggedOnly:      filter.FlaggedOnly,
		UserID:           filter.UserID,
		Search:           filter.Search,
		Limit:            filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	return messages, nil
}

// Moderate applies a flag, unflag or delete action to one message. The
// message must belong to the caller's workspace. Flag decisions record the
// acting moderator; deletion is permanent.
func (s *ChatService) Moderate(ctx context.Context, workspaceGroupID int64, moderatorID int64, messageID int64, action domains.ModerationAction) error {
	msg, err := s.storage.GetChatMessageInWorkspace(ctx, messageID, workspaceGroupID)
	if err != nil {
		return fmt.Errorf("failed to get chat message: %w", err)
	}
	if msg == nil {
		return notFoundError("message not found")
	}

	switch action {
	case domains.ModerationFlag:
		err = s.storage.SetChatFlag(ctx, messageID, true, moderatorID)
	case domains.ModerationUnflag:
		err = s.storage.SetChatFlag(ctx, messageID, false, moderatorID)
	case domains.ModerationDelete:
		err = s.storage.DeleteChatMessage(ctx, messageID)
	default:
		return validationError("invalid action")
	}
	if err != nil {
		return fmt.Errorf("failed to apply moderation action: %w", err)
	}
	return nil
}
