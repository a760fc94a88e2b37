package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/app/domains"
	"remote-admin-svc/app/dto"
	"remote-admin-svc/app/utils"
)

// ProfanityFilter reports whether a chat message should be flagged. The
// banned-word list is configuration, not core logic, so the predicate is
// injected.
type ProfanityFilter func(text string) bool

// SubstringFilter builds the default filter: a literal, case-insensitive
// banned-substring match.
func SubstringFilter(words []string) ProfanityFilter {
	lowered := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			lowered = append(lowered, strings.ToLower(w))
		}
	}
	return func(text string) bool {
		text = strings.ToLower(text)
		for _, w := range lowered {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

// IngestService classifies telemetry pushed by agents and persists it into
// the chat, event, action and metrics streams.
type IngestService struct {
	storage clients.StorageAdapter
	auth    *AuthService
	filter  ProfanityFilter
}

// NewIngestService creates a new ingest service
func NewIngestService(storage clients.StorageAdapter, auth *AuthService, filter ProfanityFilter) *IngestService {
	return &IngestService{storage: storage, auth: auth, filter: filter}
}

// Ingest dispatches one tagged payload from a verified server into exactly
// one handler, then applies the heartbeat (and occupancy when reported).
func (s *IngestService) Ingest(ctx context.Context, server *domains.GameServer, typeTag string, data json.RawMessage) error {
	tag, ok := domains.ParseIngestType(typeTag)
	if !ok {
		return validationError("unknown event type")
	}

	var playerCount *int
	var err error
	switch tag {
	case domains.IngestChatMessage:
		playerCount, err = s.ingestChat(ctx, server, data)
	case domains.IngestPlayerJoin, domains.IngestPlayerLeave:
		playerCount, err = s.ingestPresence(ctx, server, string(tag), data)
	case domains.IngestPlayerAction:
		playerCount, err = s.ingestAction(ctx, server, data)
	case domains.IngestServerMetrics:
		playerCount, err = s.ingestMetrics(ctx, server, data)
	case domains.IngestGameEvent:
		playerCount, err = s.ingestGameEvent(ctx, server, data)
	}
	if err != nil {
		return err
	}

	if err := s.auth.Heartbeat(ctx, server.ID, playerCount); err != nil {
		return err
	}
	return nil
}

func decodePayload(data json.RawMessage, dst interface{}) error {
	if len(data) == 0 {
		return validationError("missing event data")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return validationError("malformed event data: %v", err)
	}
	if err := utils.ValidateStruct(dst); err != nil {
		return validationError("invalid event data: %v", err)
	}
	return nil
}

func (s *IngestService) ingestChat(ctx context.Context, server *domains.GameServer, data json.RawMessage) (*int, error) {
	var payload dto.ChatMessageData
	if err := decodePayload(data, &payload); err != nil {
		return nil, err
	}
	msg := &domains.ChatMessage{
		ServerID: server.ID,
		UserID:   payload.UserID.Int64(),
		Username: payload.Username,
		Message:  payload.Message,
		Filtered: payload.Filtered, // client-reported, stored untouched
		Flagged:  s.filter(payload.Message),
	}
	if err := s.storage.CreateChatMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to persist chat message: %w", err)
	}
	return payload.PlayerCount, nil
}

func (s *IngestService) ingestPresence(ctx context.Context, server *domains.GameServer, eventType string, data json.RawMessage) (*int, error) {
	var payload dto.PlayerPresenceData
	if err := decodePayload(data, &payload); err != nil {
		return nil, err
	}
	userID := payload.UserID.Int64()
	event := &domains.GameEvent{
		ServerID:  &server.ID,
		EventType: eventType,
		UserID:    &userID,
		Username:  &payload.Username,
		Data:      payload.SessionData,
	}
	if err := s.storage.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to persist presence event: %w", err)
	}
	return payload.PlayerCount, nil
}

func (s *IngestService) ingestAction(ctx context.Context, server *domains.GameServer, data json.RawMessage) (*int, error) {
	var payload dto.PlayerActionData
	if err := decodePayload(data, &payload); err != nil {
		return nil, err
	}
	action := &domains.PlayerAction{
		ServerID:   server.ID,
		UserID:     payload.UserID.Int64(),
		Username:   payload.Username,
		ActionType: payload.ActionType,
		Position:   payload.Position,
		Data:       payload.AdditionalData,
	}
	if err := s.storage.CreatePlayerAction(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to persist player action: %w", err)
	}
	return payload.PlayerCount, nil
}

func (s *IngestService) ingestMetrics(ctx context.Context, server *domains.GameServer, data json.RawMessage) (*int, error) {
	var payload dto.ServerMetricsData
	if err := decodePayload(data, &payload); err != nil {
		return nil, err
	}
	sample := &domains.ServerMetrics{
		ServerID:      server.ID,
		PlayerCount:   payload.PlayerCount,
		ActivePlayers: payload.ActivePlayers,
		Performance:   payload.Performance,
	}
	if err := s.storage.CreateServerMetrics(ctx, sample); err != nil {
		return nil, fmt.Errorf("failed to persist metrics sample: %w", err)
	}
	return &payload.PlayerCount, nil
}

func (s *IngestService) ingestGameEvent(ctx context.Context, server *domains.GameServer, data json.RawMessage) (*int, error) {
	var payload dto.GameEventData
	if err := decodePayload(data, &payload); err != nil {
		return nil, err
	}
	event := &domains.GameEvent{
		ServerID:  &server.ID,
		EventType: payload.EventType,
		UserID:    dto.OptionalInt64(payload.UserID),
		Username:  payload.Username,
		Data:      payload.EventData,
	}
	if err := s.storage.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to persist game event: %w", err)
	}
	return payload.PlayerCount, nil
}
