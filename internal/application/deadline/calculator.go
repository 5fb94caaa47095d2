package deadline

import (
	"context"
	"sort"
	"time"

	"github.com/lexwatch/lexwatch/internal/domain/lawyer"
	"github.com/lexwatch/lexwatch/internal/domain/task"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// UpcomingDeadline is one row of the deadline projection: a pending task with
// its signed business-day distance and the resolved recipient.  Lawyer fields
// are empty when no lawyer could be resolved; such rows stay in the list but
// are skipped by alert generation.
type UpcomingDeadline struct {
	TaskID         common.ID `json:"task_id"`
	NotificationID common.ID `json:"notification_id"`

	Title    string        `json:"title"`
	TaskType task.Type     `json:"task_type"`
	Priority task.Priority `json:"priority"`

	DueDate        time.Time  `json:"due_date"`
	GracePeriodEnd *time.Time `json:"grace_period_end,omitempty"`

	// BusinessDaysRemaining is negative for overdue items.
	BusinessDaysRemaining int `json:"business_days_remaining"`

	LawyerID    common.ID `json:"lawyer_id,omitempty"`
	LawyerName  string    `json:"lawyer_name,omitempty"`
	LawyerEmail string    `json:"lawyer_email,omitempty"`

	Court           string `json:"court"`
	ProcedureNumber string `json:"procedure_number"`
}

// Calculator produces the upcoming-deadline projection.  It is a read-only
// view over storage; it never writes.
type Calculator struct {
	tasks   task.Repository
	lawyers lawyer.Repository
	cal     *Calendar
	clock   Clock
	log     logging.Logger
}

// NewCalculator wires a Calculator.  A nil clock defaults to the system
// clock; a nil logger discards output.
func NewCalculator(tasks task.Repository, lawyers lawyer.Repository, cal *Calendar, clock Clock, log logging.Logger) *Calculator {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Calculator{
		tasks:   tasks,
		lawyers: lawyers,
		cal:     cal,
		clock:   clock,
		log:     log.Named("calculator"),
	}
}

// GetUpcomingDeadlines returns pending tasks due within withinDays calendar
// days of now (inclusive) plus anything already overdue, ordered by due date
// ascending with ties broken by priority descending.
func (c *Calculator) GetUpcomingDeadlines(ctx context.Context, lawyerID *common.ID, withinDays int) ([]*UpcomingDeadline, error) {
	if withinDays <= 0 {
		return nil, errors.InvalidParam("withinDays must be positive")
	}

	now := c.clock.Now()
	to := truncateToDay(now).AddDate(0, 0, withinDays)

	// Zero `from` asks the repository for everything up to `to`, which keeps
	// overdue items in scope.
	tasks, err := c.tasks.FindPending(ctx, lawyerID, time.Time{}, to)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDBQueryError, "failed to load pending tasks")
	}

	out := make([]*UpcomingDeadline, 0, len(tasks))
	lawyerIDs := make([]common.ID, 0, len(tasks))
	seen := map[common.ID]struct{}{}
	for _, t := range tasks {
		if !t.IsPending() {
			continue
		}
		out = append(out, &UpcomingDeadline{
			TaskID:                t.ID,
			NotificationID:        t.NotificationID,
			Title:                 t.Title,
			TaskType:              t.Type,
			Priority:              t.Priority,
			DueDate:               t.DueDate,
			GracePeriodEnd:        t.GracePeriodEnd,
			BusinessDaysRemaining: c.cal.BusinessDaysBetween(now, t.DueDate),
			LawyerID:              t.LawyerID,
			Court:                 t.Court,
			ProcedureNumber:       t.ProcedureNumber,
		})
		if t.LawyerID != "" {
			if _, ok := seen[t.LawyerID]; !ok {
				seen[t.LawyerID] = struct{}{}
				lawyerIDs = append(lawyerIDs, t.LawyerID)
			}
		}
	}

	if len(lawyerIDs) > 0 {
		resolved, err := c.lawyers.FindByIDs(ctx, lawyerIDs)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDBQueryError, "failed to resolve lawyers")
		}
		for _, d := range out {
			if l, ok := resolved[d.LawyerID]; ok {
				d.LawyerName = l.FullName
				d.LawyerEmail = l.Email
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := truncateToDay(out[i].DueDate), truncateToDay(out[j].DueDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].Priority.Rank() > out[j].Priority.Rank()
	})

	c.log.Debug("computed upcoming deadlines",
		logging.Int("count", len(out)), logging.Int("within_days", withinDays))
	return out, nil
}
