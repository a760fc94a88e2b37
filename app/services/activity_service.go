package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/app/domains"
	"remote-admin-svc/app/dto"

	"github.com/google/uuid"
)

// DefaultFeedLimit caps the merged activity feed when unspecified.
const DefaultFeedLimit = 50

// FeedFilter narrows the merged activity view.
type FeedFilter struct {
	WorkspaceGroupID int64
	ServerID         *uuid.UUID
	EventType        string // one of the ingestion tags, empty = all
	UserID           *int64
	Search           string
	IncludeChat      bool
	Limit            int
}

// ActivityService merges the event, chat and action streams into one
// time-ordered feed.
//
// Each source is queried independently up to the requested limit before the
// final merge-and-truncate, so a source denser than the limit can starve a
// sparser one of older entries. Known accuracy trade, not a bug.
type ActivityService struct {
	storage clients.StorageAdapter
}

// NewActivityService creates a new activity service
func NewActivityService(storage clients.StorageAdapter) *ActivityService {
	return &ActivityService{storage: storage}
}

// Feed returns the merged activity envelopes, newest first.
func (s *ActivityService) Feed(ctx context.Context, filter FeedFilter) ([]dto.ActivityEnvelope, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultFeedLimit
	}

	var items []feedItem

	if filter.EventType != "player_action" && filter.EventType != string(domains.IngestChatMessage) {
		eventType := filter.EventType
		gameEventsOnly := eventType == string(domains.IngestGameEvent)
		if gameEventsOnly {
			// game_event rows carry their arbitrary sub-kind, not the tag,
			// so the store cannot match on it. Query everything and drop
			// the presence-tagged rows afterwards.
			eventType = ""
		}
		events, err := s.storage.QueryEvents(ctx, clients.ActivityQuery{
			WorkspaceGroupID: filter.WorkspaceGroupID,
			ServerID:         filter.ServerID,
			EventType:        eventType,
			UserID:           filter.UserID,
			Search:           filter.Search,
			Limit:            filter.Limit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query events: %w", err)
		}
		for _, ev := range events {
			if gameEventsOnly && isPresenceTag(ev.EventType) {
				continue
			}
			items = append(items, feedItem{env: eventEnvelope(ev), ts: ev.Timestamp})
		}
	}

	if filter.IncludeChat && (filter.EventType == "" || filter.EventType == string(domains.IngestChatMessage)) {
		messages, err := s.storage.QueryChatMessages(ctx, clients.ChatQuery{
			WorkspaceGroupID: filter.WorkspaceGroupID,
			ServerID:         filter.ServerID,
			UserID:           filter.UserID,
			Search:           filter.Search,
			Limit:            filter.Limit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query chat messages: %w", err)
		}
		for _, msg := range messages {
			items = append(items, feedItem{env: chatEnvelope(msg), ts: msg.Timestamp})
		}
	}

	if filter.EventType == "" || filter.EventType == string(domains.IngestPlayerAction) {
		actions, err := s.storage.QueryPlayerActions(ctx, clients.ActivityQuery{
			WorkspaceGroupID: filter.WorkspaceGroupID,
			ServerID:         filter.ServerID,
			UserID:           filter.UserID,
			Search:           filter.Search,
			Limit:            filter.Limit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query player actions: %w", err)
		}
		for _, act := range actions {
			items = append(items, feedItem{env: actionEnvelope(act), ts: act.Timestamp})
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].ts.After(items[j].ts) })
	if len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	envelopes := make([]dto.ActivityEnvelope, 0, len(items))
	for _, it := range items {
		envelopes = append(envelopes, it.env)
	}
	return envelopes, nil
}

// feedItem pairs an envelope with its native timestamp for the merge sort.
type feedItem struct {
	env dto.ActivityEnvelope
	ts  time.Time
}

func isPresenceTag(eventType string) bool {
	return eventType == string(domains.IngestPlayerJoin) || eventType == string(domains.IngestPlayerLeave)
}

func eventEnvelope(ev domains.GameEvent) dto.ActivityEnvelope {
	feedType := string(domains.IngestGameEvent)
	if isPresenceTag(ev.EventType) {
		feedType = ev.EventType
	}
	serverID := ""
	if ev.ServerID != nil {
		serverID = ev.ServerID.String()
	}
	return dto.ActivityEnvelope{
		ID:         ev.ID,
		Type:       feedType,
		ServerID:   serverID,
		ServerName: ev.ServerName,
		UserID:     dto.FromOptionalInt64(ev.UserID),
		Username:   ev.Username,
		Data:       ev.Data,
		Timestamp:  dto.FormatTime(ev.Timestamp),
	}
}

func chatEnvelope(msg domains.ChatMessage) dto.ActivityEnvelope {
	userID := dto.UserID(msg.UserID)
	username := msg.Username
	text := msg.Message
	return dto.ActivityEnvelope{
		ID:         msg.ID,
		Type:       string(domains.IngestChatMessage),
		ServerID:   msg.ServerID.String(),
		ServerName: msg.ServerName,
		UserID:     &userID,
		Username:   &username,
		Message:    &text,
		Data: map[string]interface{}{
			"flagged":  msg.Flagged,
			"filtered": msg.Filtered,
		},
		Timestamp: dto.FormatTime(msg.Timestamp),
	}
}

func actionEnvelope(act domains.PlayerAction) dto.ActivityEnvelope {
	userID := dto.UserID(act.UserID)
	username := act.Username
	data := map[string]interface{}{
		"actionType": act.ActionType,
		"position":   act.Position,
	}
	for k, v := range act.Data {
		data[k] = v
	}
	return dto.ActivityEnvelope{
		ID:         act.ID,
		Type:       string(domains.IngestPlayerAction),
		ServerID:   act.ServerID.String(),
		ServerName: act.ServerName,
		UserID:     &userID,
		Username:   &username,
		Data:       data,
		Timestamp:  dto.FormatTime(act.Timestamp),
	}
}
