package task

import (
	"context"
	"time"

	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// Repository defines the persistence contract for procedural tasks.
type Repository interface {
	// CreateBatch inserts all tasks in one transaction.  Either every task in
	// the batch is persisted, including parent links, or none are.
	CreateBatch(ctx context.Context, tasks []*ProceduralTask) error

	// FindByID returns the task with the given id, or a not-found error.
	FindByID(ctx context.Context, id common.ID) (*ProceduralTask, error)

	// FindPending returns PENDING tasks with a due date inside [from, to],
	// optionally filtered to one lawyer, ordered by due date ascending.
	FindPending(ctx context.Context, lawyerID *common.ID, from, to time.Time) ([]*ProceduralTask, error)

	// UpdateCompletion persists the completion fields of a task.
	UpdateCompletion(ctx context.Context, t *ProceduralTask) error
}

// TemplateRepository defines the persistence contract for task templates.
type TemplateRepository interface {
	// FindActiveByOffice returns the active templates configured for an
	// office, ordered by offset descending (longest lead first).  An empty
	// result means the office uses the built-in default chain.
	FindActiveByOffice(ctx context.Context, officeID string) ([]*Template, error)

	// Save inserts or updates a template.
	Save(ctx context.Context, tpl *Template) error
}
