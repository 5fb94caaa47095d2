package repositories

import (
	"context"
	"database/sql"

	"github.com/lexwatch/lexwatch/internal/domain/lawyer"
	"github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

type postgresLawyerRepo struct {
	baseRepo
}

// NewPostgresLawyerRepo builds the lawyer read-model repository.
func NewPostgresLawyerRepo(conn *postgres.Connection, log logging.Logger) lawyer.Repository {
	return &postgresLawyerRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

func (r *postgresLawyerRepo) FindByID(ctx context.Context, id common.ID) (*lawyer.Lawyer, error) {
	query := `SELECT id, full_name, email, color, office_id FROM lawyers WHERE id = $1`

	var (
		l   lawyer.Lawyer
		lid string
	)
	err := r.executor().QueryRowContext(ctx, query, string(id)).
		Scan(&lid, &l.FullName, &l.Email, &l.Color, &l.OfficeID)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeLawyerNotFound, "lawyer not found").WithDetail("id=" + string(id))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query lawyer")
	}
	l.ID = common.ID(lid)
	return &l, nil
}

func (r *postgresLawyerRepo) FindByIDs(ctx context.Context, ids []common.ID) (map[common.ID]*lawyer.Lawyer, error) {
	out := map[common.ID]*lawyer.Lawyer{}
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT id, full_name, email, color, office_id FROM lawyers WHERE id = ANY($1)`

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}

	rows, err := r.executor().QueryContext(ctx, query, raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query lawyers")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l   lawyer.Lawyer
			lid string
		)
		if err := rows.Scan(&lid, &l.FullName, &l.Email, &l.Color, &l.OfficeID); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan lawyer row")
		}
		l.ID = common.ID(lid)
		out[l.ID] = &l
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "lawyer row iteration failed")
	}
	return out, nil
}
