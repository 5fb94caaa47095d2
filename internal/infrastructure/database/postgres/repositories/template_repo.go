package repositories

import (
	"context"

	"github.com/lexwatch/lexwatch/internal/domain/task"
	"github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

type postgresTemplateRepo struct {
	baseRepo
}

// NewPostgresTemplateRepo builds the task-template repository.
func NewPostgresTemplateRepo(conn *postgres.Connection, log logging.Logger) task.TemplateRepository {
	return &postgresTemplateRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

func (r *postgresTemplateRepo) FindActiveByOffice(ctx context.Context, officeID string) ([]*task.Template, error) {
	query := `
		SELECT id, office_id, code, name, task_type, offset_days, offset_direction,
		       title_template, description_template, is_active
		FROM task_templates
		WHERE office_id = $1 AND is_active = TRUE
		ORDER BY offset_days DESC
	`

	rows, err := r.executor().QueryContext(ctx, query, officeID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query task templates")
	}
	defer rows.Close()

	var out []*task.Template
	for rows.Next() {
		var (
			tpl       task.Template
			id        string
			taskType  string
			direction string
		)
		if err := rows.Scan(&id, &tpl.OfficeID, &tpl.Code, &tpl.Name, &taskType,
			&tpl.OffsetDays, &direction, &tpl.TitleTemplate, &tpl.DescriptionTemplate,
			&tpl.IsActive); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan template row")
		}
		tpl.ID = common.ID(id)
		tpl.Type = task.Type(taskType)
		tpl.OffsetDirection = task.OffsetDirection(direction)
		out = append(out, &tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "template row iteration failed")
	}
	return out, nil
}

func (r *postgresTemplateRepo) Save(ctx context.Context, tpl *task.Template) error {
	if err := tpl.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO task_templates (
			id, office_id, code, name, task_type, offset_days, offset_direction,
			title_template, description_template, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (office_id, code) DO UPDATE SET
			name = EXCLUDED.name,
			task_type = EXCLUDED.task_type,
			offset_days = EXCLUDED.offset_days,
			offset_direction = EXCLUDED.offset_direction,
			title_template = EXCLUDED.title_template,
			description_template = EXCLUDED.description_template,
			is_active = EXCLUDED.is_active
	`

	if tpl.ID == "" {
		tpl.ID = common.NewID()
	}
	_, err := r.executor().ExecContext(ctx, query,
		string(tpl.ID), tpl.OfficeID, tpl.Code, tpl.Name, string(tpl.Type),
		tpl.OffsetDays, string(tpl.OffsetDirection), tpl.TitleTemplate,
		tpl.DescriptionTemplate, tpl.IsActive)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to save task template")
	}
	return nil
}
