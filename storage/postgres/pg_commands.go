package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"remote-admin-svc/app/domains"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EnqueueCommand writes the command row and its admin_command audit event in
// one transaction. The audit payload is stamped with the new queue id before
// insert so command history survives queue purges.
func (s *Store) EnqueueCommand(ctx context.Context, cmd *domains.QueuedCommand, audit *domains.GameEvent) (int64, error) {
	paramsJSON, err := marshalJSONB(cmd.Parameters)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal parameters: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO server_command_queue (
			workspace_group_id, server_id, command, target_user_id, parameters,
			priority, executed_by, executor_username, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query,
		cmd.WorkspaceGroupID, cmd.ServerID, cmd.Command, cmd.TargetUserID, paramsJSON,
		cmd.Priority, cmd.ExecutedBy, cmd.ExecutorUsername,
	).Scan(&cmd.ID, &cmd.CreatedAt)
	if err != nil {
		return 0, err
	}
	cmd.Status = domains.CommandStatusPending

	if audit.Data == nil {
		audit.Data = make(map[string]interface{})
	}
	audit.Data["queueId"] = cmd.ID
	auditJSON, err := marshalJSONB(audit.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal audit data: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO game_events (server_id, event_type, user_id, username, data)
		VALUES ($1, $2, $3, $4, $5)
	`, audit.ServerID, audit.EventType, audit.UserID, audit.Username, auditJSON)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return cmd.ID, nil
}

// PollCommands selects and delivers pending commands for one server in a
// single statement. Row locks with SKIP LOCKED partition the pending set
// between concurrent pollers, so a command is never handed out twice.
func (s *Store) PollCommands(ctx context.Context, serverID uuid.UUID, workspaceGroupID int64, limit int) ([]domains.QueuedCommand, error) {
	query := `
		WITH picked AS (
			SELECT id FROM server_command_queue
			WHERE status = 'pending'
			  AND (server_id = $1 OR (server_id IS NULL AND workspace_group_id = $2))
			ORDER BY priority DESC, created_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		UPDATE server_command_queue q
		SET status = 'delivered', delivered_at = NOW()
		FROM picked
		WHERE q.id = picked.id
		RETURNING q.id, q.workspace_group_id, q.server_id, q.command, q.target_user_id,
			q.parameters, q.priority, q.executed_by, q.executor_username, q.status,
			q.created_at, q.delivered_at
	`
	rows, err := s.pool.Query(ctx, query, serverID, workspaceGroupID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commands, err := scanCommands(rows)
	if err != nil {
		return nil, err
	}

	// UPDATE ... FROM does not preserve the CTE order; restore it.
	sort.SliceStable(commands, func(i, j int) bool {
		if commands[i].Priority != commands[j].Priority {
			return commands[i].Priority > commands[j].Priority
		}
		return commands[i].CreatedAt.Before(commands[j].CreatedAt)
	})
	return commands, nil
}

// ListQueue retrieves recent workspace commands, broadcast included.
func (s *Store) ListQueue(ctx context.Context, workspaceGroupID int64, limit int) ([]domains.QueuedCommand, error) {
	query := `
		SELECT q.id, q.workspace_group_id, q.server_id, q.command, q.target_user_id,
			q.parameters, q.priority, q.executed_by, q.executor_username, q.status,
			q.created_at, q.delivered_at, s.name
		FROM server_command_queue q
		LEFT JOIN game_servers s ON s.id = q.server_id
		WHERE q.workspace_group_id = $1
		ORDER BY q.priority DESC, q.created_at DESC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, workspaceGroupID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commands []domains.QueuedCommand
	for rows.Next() {
		var cmd domains.QueuedCommand
		var paramsJSON []byte
		err := rows.Scan(
			&cmd.ID, &cmd.WorkspaceGroupID, &cmd.ServerID, &cmd.Command, &cmd.TargetUserID,
			&paramsJSON, &cmd.Priority, &cmd.ExecutedBy, &cmd.ExecutorUsername, &cmd.Status,
			&cmd.CreatedAt, &cmd.DeliveredAt, &cmd.ServerName,
		)
		if err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(paramsJSON, &cmd.Parameters); err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	return commands, rows.Err()
}

// sweepLockID keys the advisory lock that keeps sweeps single-flight.
const sweepLockID int64 = 947210553

// DeleteDeliveredBefore purges delivered commands past the retention cutoff.
// A session advisory lock excludes concurrent sweeps; a second sweeper
// observes the held lock and returns without doing work.
func (s *Store) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var locked bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, sweepLockID).Scan(&locked); err != nil {
		return 0, err
	}
	if !locked {
		return 0, nil
	}
	defer conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, sweepLockID)

	tag, err := conn.Exec(ctx,
		`DELETE FROM server_command_queue WHERE status = 'delivered' AND delivered_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanCommands(rows pgx.Rows) ([]domains.QueuedCommand, error) {
	var commands []domains.QueuedCommand
	for rows.Next() {
		var cmd domains.QueuedCommand
		var paramsJSON []byte
		err := rows.Scan(
			&cmd.ID, &cmd.WorkspaceGroupID, &cmd.ServerID, &cmd.Command, &cmd.TargetUserID,
			&paramsJSON, &cmd.Priority, &cmd.ExecutedBy, &cmd.ExecutorUsername, &cmd.Status,
			&cmd.CreatedAt, &cmd.DeliveredAt,
		)
		if err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(paramsJSON, &cmd.Parameters); err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	return commands, rows.Err()
}

func marshalJSONB(m map[string]interface{}) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func unmarshalJSONB(b []byte, dst *map[string]interface{}) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}
