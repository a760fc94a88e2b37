package postgres

import (
	"context"
	"fmt"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/app/domains"

	"github.com/jackc/pgx/v5"
)

// CreateEvent appends a generic game event.
func (s *Store) CreateEvent(ctx context.Context, event *domains.GameEvent) error {
	dataJSON, err := marshalJSONB(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	query := `
		INSERT INTO game_events (server_id, event_type, user_id, username, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp
	`
	return s.pool.QueryRow(ctx, query,
		event.ServerID, event.EventType, event.UserID, event.Username, dataJSON,
	).Scan(&event.ID, &event.Timestamp)
}

// QueryEvents returns workspace events matching the filter, newest first.
// The search term matches username and event type.
func (s *Store) QueryEvents(ctx context.Context, q clients.ActivityQuery) ([]domains.GameEvent, error) {
	query := `
		SELECT e.id, e.server_id, e.event_type, e.user_id, e.username, e.data, e.timestamp, s.name
		FROM game_events e
		JOIN game_servers s ON s.id = e.server_id
		WHERE s.workspace_group_id = $1
	`
	args := []interface{}{q.WorkspaceGroupID}

	if q.ServerID != nil {
		args = append(args, *q.ServerID)
		query += fmt.Sprintf(` AND e.server_id = $%d`, len(args))
	}
	if q.EventType != "" {
		args = append(args, q.EventType)
		query += fmt.Sprintf(` AND e.event_type = $%d`, len(args))
	}
	if q.UserID != nil {
		args = append(args, *q.UserID)
		query += fmt.Sprintf(` AND e.user_id = $%d`, len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		query += fmt.Sprintf(` AND (e.username ILIKE $%d OR e.event_type ILIKE $%d)`, len(args), len(args))
	}

	args = append(args, q.Limit)
	query += fmt.Sprintf(` ORDER BY e.timestamp DESC LIMIT $%d`, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domains.GameEvent
	for rows.Next() {
		var ev domains.GameEvent
		var dataJSON []byte
		err := rows.Scan(&ev.ID, &ev.ServerID, &ev.EventType, &ev.UserID, &ev.Username,
			&dataJSON, &ev.Timestamp, &ev.ServerName)
		if err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(dataJSON, &ev.Data); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// CreateChatMessage appends an ingested chat line.
func (s *Store) CreateChatMessage(ctx context.Context, msg *domains.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (server_id, user_id, username, message, filtered, flagged)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, timestamp
	`
	return s.pool.QueryRow(ctx, query,
		msg.ServerID, msg.UserID, msg.Username, msg.Message, msg.Filtered, msg.Flagged,
	).Scan(&msg.ID, &msg.Timestamp)
}

// QueryChatMessages returns workspace chat matching the filter, newest first.
// The search term matches message text and username.
func (s *Store) QueryChatMessages(ctx context.Context, q clients.ChatQuery) ([]domains.ChatMessage, error) {
	query := `
		SELECT m.id, m.server_id, m.user_id, m.username, m.message, m.filtered,
			m.flagged, m.moderated_by, m.timestamp, s.name
		FROM chat_messages m
		JOIN game_servers s ON s.id = m.server_id
		WHERE s.workspace_group_id = $1
	`
	args := []interface{}{q.WorkspaceGroupID}

	if !q.Since.IsZero() {
		args = append(args, q.Since)
		query += fmt.Sprintf(` AND m.timestamp >= $%d`, len(args))
	}
	if q.ServerID != nil {
		args = append(args, *q.ServerID)
		query += fmt.Sprintf(` AND m.server_id = $%d`, len(args))
	}
	if q.FlaggedOnly {
		query += ` AND m.flagged = TRUE`
	}
	if q.UserID != nil {
		args = append(args, *q.UserID)
		query += fmt.Sprintf(` AND m.user_id = $%d`, len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		query += fmt.Sprintf(` AND (m.message ILIKE $%d OR m.username ILIKE $%d)`, len(args), len(args))
	}

	args = append(args, q.Limit)
	query += fmt.Sprintf(` ORDER BY m.timestamp DESC LIMIT $%d`, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domains.ChatMessage
	for rows.Next() {
		var msg domains.ChatMessage
		err := rows.Scan(&msg.ID, &msg.ServerID, &msg.UserID, &msg.Username, &msg.Message,
			&msg.Filtered, &msg.Flagged, &msg.ModeratedBy, &msg.Timestamp, &msg.ServerName)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// GetChatMessageInWorkspace retrieves one message scoped to a workspace.
func (s *Store) GetChatMessageInWorkspace(ctx context.Context, id int64, workspaceGroupID int64) (*domains.ChatMessage, error) {
	query := `
		SELECT m.id, m.server_id, m.user_id, m.username, m.message, m.filtered,
			m.flagged, m.moderated_by, m.timestamp, s.name
		FROM chat_messages m
		JOIN game_servers s ON s.id = m.server_id
		WHERE m.id = $1 AND s.workspace_group_id = $2
	`
	var msg domains.ChatMessage
	err := s.pool.QueryRow(ctx, query, id, workspaceGroupID).Scan(
		&msg.ID, &msg.ServerID, &msg.UserID, &msg.Username, &msg.Message,
		&msg.Filtered, &msg.Flagged, &msg.ModeratedBy, &msg.Timestamp, &msg.ServerName,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// SetChatFlag records a moderation decision and its author.
func (s *Store) SetChatFlag(ctx context.Context, id int64, flagged bool, moderatorID int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE chat_messages SET flagged = $1, moderated_by = $2 WHERE id = $3`,
		flagged, moderatorID, id)
	return err
}

// DeleteChatMessage removes a message permanently.
func (s *Store) DeleteChatMessage(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM chat_messages WHERE id = $1`, id)
	return err
}

// CreatePlayerAction appends a player action record.
func (s *Store) CreatePlayerAction(ctx context.Context, action *domains.PlayerAction) error {
	positionJSON, err := marshalJSONB(action.Position)
	if err != nil {
		return fmt.Errorf("failed to marshal position: %w", err)
	}
	dataJSON, err := marshalJSONB(action.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal action data: %w", err)
	}
	query := `
		INSERT INTO player_actions (server_id, user_id, username, action_type, position, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, timestamp
	`
	return s.pool.QueryRow(ctx, query,
		action.ServerID, action.UserID, action.Username, action.ActionType, positionJSON, dataJSON,
	).Scan(&action.ID, &action.Timestamp)
}

// QueryPlayerActions returns workspace actions matching the filter, newest
// first. The search term matches username and action type.
func (s *Store) QueryPlayerActions(ctx context.Context, q clients.ActivityQuery) ([]domains.PlayerAction, error) {
	query := `
		SELECT a.id, a.server_id, a.user_id, a.username, a.action_type, a.position,
			a.data, a.timestamp, s.name
		FROM player_actions a
		JOIN game_servers s ON s.id = a.server_id
		WHERE s.workspace_group_id = $1
	`
	args := []interface{}{q.WorkspaceGroupID}

	if q.ServerID != nil {
		args = append(args, *q.ServerID)
		query += fmt.Sprintf(` AND a.server_id = $%d`, len(args))
	}
	if q.UserID != nil {
		args = append(args, *q.UserID)
		query += fmt.Sprintf(` AND a.user_id = $%d`, len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		query += fmt.Sprintf(` AND (a.username ILIKE $%d OR a.action_type ILIKE $%d)`, len(args), len(args))
	}

	args = append(args, q.Limit)
	query += fmt.Sprintf(` ORDER BY a.timestamp DESC LIMIT $%d`, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []domains.PlayerAction
	for rows.Next() {
		var act domains.PlayerAction
		var positionJSON, dataJSON []byte
		err := rows.Scan(&act.ID, &act.ServerID, &act.UserID, &act.Username, &act.ActionType,
			&positionJSON, &dataJSON, &act.Timestamp, &act.ServerName)
		if err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(positionJSON, &act.Position); err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(dataJSON, &act.Data); err != nil {
			return nil, err
		}
		actions = append(actions, act)
	}
	return actions, rows.Err()
}

// CreateServerMetrics appends a utilization sample.
func (s *Store) CreateServerMetrics(ctx context.Context, sample *domains.ServerMetrics) error {
	perfJSON, err := marshalJSONB(sample.Performance)
	if err != nil {
		return fmt.Errorf("failed to marshal performance data: %w", err)
	}
	query := `
		INSERT INTO server_metrics (server_id, player_count, active_players, performance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp
	`
	return s.pool.QueryRow(ctx, query,
		sample.ServerID, sample.PlayerCount, sample.ActivePlayers, perfJSON,
	).Scan(&sample.ID, &sample.Timestamp)
}
