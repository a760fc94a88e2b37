package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/app/domains"

	"github.com/google/uuid"
)

// Store is an in-memory StorageAdapter with the same observable semantics as
// the Postgres store. It backs the test suite and local development.
type Store struct {
	mu sync.Mutex

	servers  map[uuid.UUID]*domains.GameServer
	commands []*domains.QueuedCommand
	events   []*domains.GameEvent
	chats    []*domains.ChatMessage
	actions  []*domains.PlayerAction
	metrics  []*domains.ServerMetrics

	nextCommandID int64
	nextEventID   int64
	nextChatID    int64
	nextActionID  int64
	nextMetricID  int64

	sweepMu sync.Mutex
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{servers: make(map[uuid.UUID]*domains.GameServer)}
}

// Ping always succeeds; the store lives in process memory.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) CreateServer(_ context.Context, server *domains.GameServer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if server.CreatedAt.IsZero() {
		server.CreatedAt = now
	}
	server.UpdatedAt = now
	cp := *server
	s.servers[server.ID] = &cp
	return nil
}

func (s *Store) GetServerByAPIKey(_ context.Context, apiKey string) (*domains.GameServer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, srv := range s.servers {
		if srv.APIKey == apiKey && srv.IsActive {
			cp := *srv
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) GetServerInWorkspace(_ context.Context, id uuid.UUID, workspaceGroupID int64) (*domains.GameServer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	srv, ok := s.servers[id]
	if !ok || srv.WorkspaceGroupID != workspaceGroupID {
		return nil, nil
	}
	cp := *srv
	return &cp, nil
}

func (s *Store) ListServers(_ context.Context, workspaceGroupID int64) ([]domains.GameServer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domains.GameServer
	for _, srv := range s.servers {
		if srv.WorkspaceGroupID == workspaceGroupID {
			out = append(out, *srv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateServer(_ context.Context, server *domains.GameServer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.servers[server.ID]
	if !ok || existing.WorkspaceGroupID != server.WorkspaceGroupID {
		return nil
	}
	existing.Name = server.Name
	existing.Description = server.Description
	existing.MaxPlayers = server.MaxPlayers
	existing.IsActive = server.IsActive
	existing.UpdatedAt = time.Now()
	server.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *Store) DeleteServer(_ context.Context, id uuid.UUID, workspaceGroupID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	srv, ok := s.servers[id]
	if !ok || srv.WorkspaceGroupID != workspaceGroupID {
		return nil
	}
	delete(s.servers, id)
	return nil
}

func (s *Store) UpdateServerHeartbeat(_ context.Context, id uuid.UUID, playerCount *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	srv, ok := s.servers[id]
	if !ok {
		return nil
	}
	now := time.Now()
	srv.LastSeen = &now
	if playerCount != nil {
		srv.PlayerCount = *playerCount
	}
	return nil
}

func (s *Store) ActivityCounts(_ context.Context, serverID uuid.UUID, since time.Time) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var chat, events int64
	for _, m := range s.chats {
		if m.ServerID == serverID && !m.Timestamp.Before(since) {
			chat++
		}
	}
	for _, e := range s.events {
		if e.ServerID != nil && *e.ServerID == serverID && !e.Timestamp.Before(since) {
			events++
		}
	}
	return chat, events, nil
}

func (s *Store) EnqueueCommand(_ context.Context, cmd *domains.QueuedCommand, audit *domains.GameEvent) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCommandID++
	cmd.ID = s.nextCommandID
	if cmd.CreatedAt.IsZero() {
		cmd.CreatedAt = time.Now()
	}
	cmd.Status = domains.CommandStatusPending
	cp := *cmd
	s.commands = append(s.commands, &cp)

	if audit.Data == nil {
		audit.Data = make(map[string]interface{})
	}
	audit.Data["queueId"] = cmd.ID
	s.appendEventLocked(audit)
	return cmd.ID, nil
}

func (s *Store) PollCommands(_ context.Context, serverID uuid.UUID, workspaceGroupID int64, limit int) ([]domains.QueuedCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*domains.QueuedCommand
	for _, cmd := range s.commands {
		if cmd.Status != domains.CommandStatusPending {
			continue
		}
		if cmd.ServerID != nil {
			if *cmd.ServerID != serverID {
				continue
			}
		} else if cmd.WorkspaceGroupID != workspaceGroupID {
			continue
		}
		pending = append(pending, cmd)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Priority != pending[j].Priority {
			return pending[i].Priority > pending[j].Priority
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}

	now := time.Now()
	out := make([]domains.QueuedCommand, 0, len(pending))
	for _, cmd := range pending {
		cmd.Status = domains.CommandStatusDelivered
		cmd.DeliveredAt = &now
		out = append(out, *cmd)
	}
	return out, nil
}

func (s *Store) ListQueue(_ context.Context, workspaceGroupID int64, limit int) ([]domains.QueuedCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domains.QueuedCommand
	for _, cmd := range s.commands {
		if cmd.WorkspaceGroupID != workspaceGroupID {
			continue
		}
		cp := *cmd
		if cmd.ServerID != nil {
			if srv, ok := s.servers[*cmd.ServerID]; ok {
				name := srv.Name
				cp.ServerName = &name
			}
		}
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) DeleteDeliveredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	if !s.sweepMu.TryLock() {
		return 0, nil
	}
	defer s.sweepMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []*domains.QueuedCommand
	var removed int64
	for _, cmd := range s.commands {
		if cmd.Status == domains.CommandStatusDelivered && cmd.DeliveredAt != nil && cmd.DeliveredAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, cmd)
	}
	s.commands = kept
	return removed, nil
}

func (s *Store) appendEventLocked(event *domains.GameEvent) {
	s.nextEventID++
	event.ID = s.nextEventID
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	cp := *event
	s.events = append(s.events, &cp)
}

func (s *Store) CreateEvent(_ context.Context, event *domains.GameEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendEventLocked(event)
	return nil
}

func (s *Store) QueryEvents(_ context.Context, q clients.ActivityQuery) ([]domains.GameEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domains.GameEvent
	for _, ev := range s.events {
		if ev.ServerID == nil {
			continue // orphan audit records have no workspace join
		}
		srv, ok := s.servers[*ev.ServerID]
		if !ok || srv.WorkspaceGroupID != q.WorkspaceGroupID {
			continue
		}
		if q.ServerID != nil && *ev.ServerID != *q.ServerID {
			continue
		}
		if q.EventType != "" && ev.EventType != q.EventType {
			continue
		}
		if q.UserID != nil && (ev.UserID == nil || *ev.UserID != *q.UserID) {
			continue
		}
		if q.Search != "" {
			username := ""
			if ev.Username != nil {
				username = *ev.Username
			}
			if !containsFold(username, q.Search) && !containsFold(ev.EventType, q.Search) {
				continue
			}
		}
		cp := *ev
		cp.ServerName = srv.Name
		out = append(out, cp)
	}
	sortNewestFirst(out, func(e domains.GameEvent) time.Time { return e.Timestamp })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) CreateChatMessage(_ context.Context, msg *domains.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextChatID++
	msg.ID = s.nextChatID
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	cp := *msg
	s.chats = append(s.chats, &cp)
	return nil
}

func (s *Store) QueryChatMessages(_ context.Context, q clients.ChatQuery) ([]domains.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domains.ChatMessage
	for _, msg := range s.chats {
		srv, ok := s.servers[msg.ServerID]
		if !ok || srv.WorkspaceGroupID != q.WorkspaceGroupID {
			continue
		}
		if !q.Since.IsZero() && msg.Timestamp.Before(q.Since) {
			continue
		}
		if q.ServerID != nil && msg.ServerID != *q.ServerID {
			continue
		}
		if q.FlaggedOnly && !msg.Flagged {
			continue
		}
		if q.UserID != nil && msg.UserID != *q.UserID {
			continue
		}
		if q.Search != "" && !containsFold(msg.Message, q.Search) && !containsFold(msg.Username, q.Search) {
			continue
		}
		cp := *msg
		cp.ServerName = srv.Name
		out = append(out, cp)
	}
	sortNewestFirst(out, func(m domains.ChatMessage) time.Time { return m.Timestamp })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) GetChatMessageInWorkspace(_ context.Context, id int64, workspaceGroupID int64) (*domains.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.chats {
		if msg.ID != id {
			continue
		}
		srv, ok := s.servers[msg.ServerID]
		if !ok || srv.WorkspaceGroupID != workspaceGroupID {
			return nil, nil
		}
		cp := *msg
		cp.ServerName = srv.Name
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) SetChatFlag(_ context.Context, id int64, flagged bool, moderatorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.chats {
		if msg.ID == id {
			msg.Flagged = flagged
			msg.ModeratedBy = &moderatorID
			return nil
		}
	}
	return nil
}

func (s *Store) DeleteChatMessage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, msg := range s.chats {
		if msg.ID == id {
			s.chats = append(s.chats[:i], s.chats[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) CreatePlayerAction(_ context.Context, action *domains.PlayerAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextActionID++
	action.ID = s.nextActionID
	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now()
	}
	cp := *action
	s.actions = append(s.actions, &cp)
	return nil
}

func (s *Store) QueryPlayerActions(_ context.Context, q clients.ActivityQuery) ([]domains.PlayerAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domains.PlayerAction
	for _, act := range s.actions {
		srv, ok := s.servers[act.ServerID]
		if !ok || srv.WorkspaceGroupID != q.WorkspaceGroupID {
			continue
		}
		if q.ServerID != nil && act.ServerID != *q.ServerID {
			continue
		}
		if q.UserID != nil && act.UserID != *q.UserID {
			continue
		}
		if q.Search != "" && !containsFold(act.Username, q.Search) && !containsFold(act.ActionType, q.Search) {
			continue
		}
		cp := *act
		cp.ServerName = srv.Name
		out = append(out, cp)
	}
	sortNewestFirst(out, func(a domains.PlayerAction) time.Time { return a.Timestamp })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) CreateServerMetrics(_ context.Context, sample *domains.ServerMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMetricID++
	sample.ID = s.nextMetricID
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now()
	}
	cp := *sample
	s.metrics = append(s.metrics, &cp)
	return nil
}

// MetricsCount reports the number of stored samples. Test helper.
func (s *Store) MetricsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.metrics)
}

// PendingCommands returns the commands still awaiting delivery. Test helper.
func (s *Store) PendingCommands() []domains.QueuedCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domains.QueuedCommand
	for _, cmd := range s.commands {
		if cmd.Status == domains.CommandStatusPending {
			out = append(out, *cmd)
		}
	}
	return out
}

// MarkDelivered forces a command into the delivered state at a given time.
// Test helper.
func (s *Store) MarkDelivered(id int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cmd := range s.commands {
		if cmd.ID == id {
			cmd.Status = domains.CommandStatusDelivered
			cmd.DeliveredAt = &at
			return
		}
	}
}

// EventsByType returns stored events of one type, including orphan audit
// records with no server. Test helper.
func (s *Store) EventsByType(eventType string) []domains.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domains.GameEvent
	for _, ev := range s.events {
		if ev.EventType == eventType {
			out = append(out, *ev)
		}
	}
	return out
}

// CommandCount reports the total queue size including delivered rows. Test helper.
func (s *Store) CommandCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commands)
}

func sortNewestFirst[T any](items []T, ts func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool { return ts(items[i]).After(ts(items[j])) })
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
