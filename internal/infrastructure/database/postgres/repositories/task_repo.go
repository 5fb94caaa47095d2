package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/lexwatch/lexwatch/internal/domain/task"
	"github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

type postgresTaskRepo struct {
	baseRepo
}

// NewPostgresTaskRepo builds the procedural-task repository.
func NewPostgresTaskRepo(conn *postgres.Connection, log logging.Logger) task.Repository {
	return &postgresTaskRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

const taskColumns = `
	id, notification_id, parent_task_id, lawyer_id, task_type, priority, status,
	title, description, due_date, is_all_day, grace_period_end,
	court, procedure_number, client_name, opposing_party,
	completed_at, completed_by, justification, created_at, updated_at
`

const insertTaskQuery = `
	INSERT INTO tasks (
		id, notification_id, parent_task_id, lawyer_id, task_type, priority, status,
		title, description, due_date, is_all_day, grace_period_end,
		court, procedure_number, client_name, opposing_party,
		completed_at, completed_by, justification, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		$13, $14, $15, $16, $17, $18, $19, $20, $21
	)
`

// CreateBatch inserts a whole task chain in one transaction; parent links are
// part of the batch, so either the complete chain lands or nothing does.
func (r *postgresTaskRepo) CreateBatch(ctx context.Context, tasks []*task.ProceduralTask) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to begin task batch transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tasks {
		var parentID *string
		if t.ParentTaskID != nil {
			s := string(*t.ParentTaskID)
			parentID = &s
		}
		_, err := tx.ExecContext(ctx, insertTaskQuery,
			string(t.ID), string(t.NotificationID), parentID, string(t.LawyerID),
			string(t.Type), string(t.Priority), string(t.Status),
			t.Title, t.Description, t.DueDate, t.IsAllDay, t.GracePeriodEnd,
			t.Court, t.ProcedureNumber, t.ClientName, t.OpposingParty,
			t.CompletedAt, nullIfEmpty(t.CompletedBy), nullIfEmpty(t.Justification),
			t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to insert task "+string(t.ID))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to commit task batch")
	}
	return nil
}

func (r *postgresTaskRepo) FindByID(ctx context.Context, id common.ID) (*task.ProceduralTask, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.executor().QueryRowContext(ctx, query, string(id)))
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeTaskNotFound, "task not found").WithDetail("id=" + string(id))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query task")
	}
	return t, nil
}

func (r *postgresTaskRepo) FindPending(ctx context.Context, lawyerID *common.ID, from, to time.Time) ([]*task.ProceduralTask, error) {
	// A zero `from` leaves the lower bound open so overdue tasks stay in the
	// result.
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status = $1
		  AND due_date <= $2
		  AND ($3::timestamptz IS NULL OR due_date >= $3)
		  AND ($4::text IS NULL OR lawyer_id = $4)
		ORDER BY due_date ASC
	`

	var fromArg *time.Time
	if !from.IsZero() {
		fromArg = &from
	}
	var lawyerArg *string
	if lawyerID != nil {
		s := string(*lawyerID)
		lawyerArg = &s
	}

	rows, err := r.executor().QueryContext(ctx, query, string(task.StatusPending), to, fromArg, lawyerArg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query pending tasks")
	}
	defer rows.Close()

	var out []*task.ProceduralTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan task row")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "task row iteration failed")
	}
	return out, nil
}

func (r *postgresTaskRepo) UpdateCompletion(ctx context.Context, t *task.ProceduralTask) error {
	query := `
		UPDATE tasks
		SET status = $2, completed_at = $3, completed_by = $4, justification = $5, updated_at = $6
		WHERE id = $1
	`

	res, err := r.executor().ExecContext(ctx, query,
		string(t.ID), string(t.Status), t.CompletedAt, nullIfEmpty(t.CompletedBy),
		nullIfEmpty(t.Justification), t.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to update task completion")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to read update result")
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeTaskNotFound, "task not found").WithDetail("id=" + string(t.ID))
	}
	return nil
}

func scanTask(s scanner) (*task.ProceduralTask, error) {
	var (
		t             task.ProceduralTask
		id            string
		notifID       string
		parentID      sql.NullString
		lawyerID      string
		taskType      string
		priority      string
		status        string
		grace         sql.NullTime
		completedAt   sql.NullTime
		completedBy   sql.NullString
		justification sql.NullString
	)
	err := s.Scan(&id, &notifID, &parentID, &lawyerID, &taskType, &priority, &status,
		&t.Title, &t.Description, &t.DueDate, &t.IsAllDay, &grace,
		&t.Court, &t.ProcedureNumber, &t.ClientName, &t.OpposingParty,
		&completedAt, &completedBy, &justification, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ID = common.ID(id)
	t.NotificationID = common.ID(notifID)
	t.LawyerID = common.ID(lawyerID)
	t.Type = task.Type(taskType)
	t.Priority = task.Priority(priority)
	t.Status = task.Status(status)
	if parentID.Valid {
		pid := common.ID(parentID.String)
		t.ParentTaskID = &pid
	}
	if grace.Valid {
		g := grace.Time
		t.GracePeriodEnd = &g
	}
	if completedAt.Valid {
		c := completedAt.Time
		t.CompletedAt = &c
	}
	t.CompletedBy = completedBy.String
	t.Justification = justification.String
	return &t, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
