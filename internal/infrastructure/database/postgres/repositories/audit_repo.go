package repositories

import (
	"context"
	"encoding/json"

	"github.com/lexwatch/lexwatch/internal/domain/audit"
	"github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
)

type postgresAuditRepo struct {
	baseRepo
}

// NewPostgresAuditRepo builds the audit-trail repository.
func NewPostgresAuditRepo(conn *postgres.Connection, log logging.Logger) audit.Repository {
	return &postgresAuditRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

func (r *postgresAuditRepo) Insert(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO audit_log (id, actor, action, target_type, target_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	metaJSON, err := json.Marshal(e.Metadata)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode audit metadata")
	}

	_, err = r.executor().ExecContext(ctx, query,
		string(e.ID), e.Actor, e.Action, e.TargetType, nullIfEmpty(e.TargetID), metaJSON, e.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to insert audit entry")
	}
	return nil
}
