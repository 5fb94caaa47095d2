package deadline

import (
	"context"

	"github.com/lexwatch/lexwatch/internal/domain/audit"
	"github.com/lexwatch/lexwatch/internal/domain/task"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// TaskService covers the task lifecycle operations outside generation:
// lookup and completion.
type TaskService struct {
	tasks  task.Repository
	audits audit.Repository
	clock  Clock
	log    logging.Logger
}

// NewTaskService wires a TaskService.
func NewTaskService(tasks task.Repository, audits audit.Repository, clock Clock, log logging.Logger) *TaskService {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &TaskService{
		tasks:  tasks,
		audits: audits,
		clock:  clock,
		log:    log.Named("tasks"),
	}
}

// GetTask returns one task by id.
func (s *TaskService) GetTask(ctx context.Context, id common.ID) (*task.ProceduralTask, error) {
	if id == "" {
		return nil, errors.InvalidParam("task id must not be empty")
	}
	return s.tasks.FindByID(ctx, id)
}

// CompleteTask transitions a task to COMPLETED and persists the completion
// record.  Completing an already-completed task fails; tasks are never
// deleted, so the record stays queryable afterwards.
func (s *TaskService) CompleteTask(ctx context.Context, id common.ID, completedBy, justification string) (*task.ProceduralTask, error) {
	if id == "" {
		return nil, errors.InvalidParam("task id must not be empty")
	}

	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := t.MarkCompleted(completedBy, justification, now); err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateCompletion(ctx, t); err != nil {
		return nil, errors.Wrap(err, errors.CodeDBQueryError, "failed to persist task completion")
	}

	actor := completedBy
	entry := audit.NewEntry(&actor, audit.ActionTaskCompleted, audit.TargetTypeTask,
		string(t.ID), map[string]interface{}{
			"notification_id": string(t.NotificationID),
			"task_type":       string(t.Type),
			"justification":   justification,
		}, now)
	if err := s.audits.Insert(ctx, entry); err != nil {
		s.log.Warn("failed to write task completion audit entry", logging.Err(err))
	}

	s.log.Info("task completed",
		logging.String("task_id", string(t.ID)),
		logging.String("completed_by", completedBy))
	return t, nil
}
