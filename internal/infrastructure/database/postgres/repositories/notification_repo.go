package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/lexwatch/lexwatch/internal/domain/notification"
	"github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

type postgresNotificationRepo struct {
	baseRepo
}

// NewPostgresNotificationRepo builds the notifications repository.
func NewPostgresNotificationRepo(conn *postgres.Connection, log logging.Logger) notification.Repository {
	return &postgresNotificationRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

const notificationColumns = `
	id, lexnet_id, court, procedure_number, priority, status,
	received_date, downloaded_date, assigned_lawyer_id, created_at, updated_at
`

func (r *postgresNotificationRepo) Save(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (
			id, lexnet_id, court, procedure_number, priority, status,
			received_date, downloaded_date, assigned_lawyer_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			court = EXCLUDED.court,
			procedure_number = EXCLUDED.procedure_number,
			priority = EXCLUDED.priority,
			status = EXCLUDED.status,
			downloaded_date = EXCLUDED.downloaded_date,
			assigned_lawyer_id = EXCLUDED.assigned_lawyer_id,
			updated_at = EXCLUDED.updated_at
	`

	var lawyerID *string
	if n.AssignedLawyerID != nil {
		s := string(*n.AssignedLawyerID)
		lawyerID = &s
	}

	_, err := r.executor().ExecContext(ctx, query,
		string(n.ID), n.LexnetID, n.Court, n.ProcedureNumber, string(n.Priority), string(n.Status),
		n.ReceivedDate, n.DownloadedDate, lawyerID, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to save notification")
	}
	return nil
}

func (r *postgresNotificationRepo) FindByID(ctx context.Context, id common.ID) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	n, err := scanNotification(r.executor().QueryRowContext(ctx, query, string(id)))
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNotificationNotFound, "notification not found").
			WithDetail("id=" + string(id))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query notification")
	}
	return n, nil
}

func (r *postgresNotificationRepo) FindPendingAcceptance(ctx context.Context, officeID *string, receivedBefore time.Time) ([]*notification.Notification, error) {
	// Notifications have no office column of their own; office scoping goes
	// through the assigned lawyer.
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications n
		WHERE n.downloaded_date IS NULL
		  AND n.received_date <= $1
		  AND ($2::text IS NULL OR n.assigned_lawyer_id IN (
			SELECT id FROM lawyers WHERE office_id = $2
		  ))
		ORDER BY n.received_date ASC
	`

	rows, err := r.executor().QueryContext(ctx, query, receivedBefore, officeID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query pending notifications")
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func (r *postgresNotificationRepo) FindExpired(ctx context.Context, asOf time.Time) ([]*notification.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications n
		WHERE n.downloaded_date IS NULL
		  AND n.received_date <= $1
		ORDER BY n.received_date ASC
	`

	rows, err := r.executor().QueryContext(ctx, query, asOf.Add(-notification.AcceptanceWindow))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query expired notifications")
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func (r *postgresNotificationRepo) MarkDownloaded(ctx context.Context, id common.ID, at time.Time) error {
	query := `
		UPDATE notifications
		SET downloaded_date = $2, status = $3, updated_at = $2
		WHERE id = $1 AND downloaded_date IS NULL
	`

	res, err := r.executor().ExecContext(ctx, query, string(id), at, string(notification.StatusDownloaded))
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to mark notification downloaded")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to read update result")
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeNotificationDownloaded, "notification already downloaded or not found").
			WithDetail("id=" + string(id))
	}
	return nil
}

func scanNotification(s scanner) (*notification.Notification, error) {
	var (
		n          notification.Notification
		id         string
		priority   string
		status     string
		lawyerID   sql.NullString
		downloaded sql.NullTime
	)
	err := s.Scan(&id, &n.LexnetID, &n.Court, &n.ProcedureNumber, &priority, &status,
		&n.ReceivedDate, &downloaded, &lawyerID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.ID = common.ID(id)
	n.Priority = notification.Priority(priority)
	n.Status = notification.Status(status)
	if downloaded.Valid {
		t := downloaded.Time
		n.DownloadedDate = &t
	}
	if lawyerID.Valid {
		lid := common.ID(lawyerID.String)
		n.AssignedLawyerID = &lid
	}
	return &n, nil
}

func collectNotifications(rows *sql.Rows) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan notification row")
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "notification row iteration failed")
	}
	return out, nil
}
