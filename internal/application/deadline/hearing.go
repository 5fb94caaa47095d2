package deadline

import (
	"context"
	"time"

	"github.com/lexwatch/lexwatch/internal/domain/audit"
	"github.com/lexwatch/lexwatch/internal/domain/task"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// HearingInfo is the input to hearing-chain generation: one hearing's
// identity, date, and the context copied onto every generated task.
type HearingInfo struct {
	NotificationID common.ID `json:"notification_id"`
	LawyerID       common.ID `json:"lawyer_id"`
	OfficeID       string    `json:"office_id"`

	HearingDate     time.Time `json:"hearing_date"`
	Court           string    `json:"court"`
	ProcedureNumber string    `json:"procedure_number"`
	ClientName      string    `json:"client_name,omitempty"`
	OpposingParty   string    `json:"opposing_party,omitempty"`
}

// Generator expands one hearing into its dependent task chain.
type Generator struct {
	tasks     task.Repository
	templates task.TemplateRepository
	audits    audit.Repository
	clock     Clock
	log       logging.Logger
}

// NewGenerator wires a Generator.
func NewGenerator(tasks task.Repository, templates task.TemplateRepository, audits audit.Repository, clock Clock, log logging.Logger) *Generator {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Generator{
		tasks:     tasks,
		templates: templates,
		audits:    audits,
		clock:     clock,
		log:       log.Named("hearing"),
	}
}

// GenerateHearingTasks expands info into a chain of tasks and persists them
// as one atomic batch, returning the created ids in chain order.
//
// The chain definition is the office's active templates when any exist,
// otherwise the built-in default chain; active templates fully replace the
// default, they are never merged with it.  Every non-hearing task is linked
// to the hearing-day task through ParentTaskID within the same batch.
func (g *Generator) GenerateHearingTasks(ctx context.Context, info *HearingInfo) ([]common.ID, error) {
	if info == nil {
		return nil, errors.InvalidParam("hearing info must not be nil")
	}
	if info.NotificationID == "" {
		return nil, errors.InvalidParam("notification_id must not be empty")
	}
	if info.LawyerID == "" {
		return nil, errors.InvalidParam("lawyer_id must not be empty")
	}
	if info.HearingDate.IsZero() {
		return nil, errors.InvalidParam("hearing_date must not be zero")
	}

	chain, err := g.resolveChain(ctx, info.OfficeID)
	if err != nil {
		return nil, err
	}

	tokens := map[string]string{
		"clientName":      info.ClientName,
		"opposingParty":   info.OpposingParty,
		"procedureNumber": info.ProcedureNumber,
		"court":           info.Court,
	}

	now := g.clock.Now()
	tasks := make([]*task.ProceduralTask, 0, len(chain))
	var hearingID *common.ID
	for _, tpl := range chain {
		t := &task.ProceduralTask{
			ID:              common.NewID(),
			NotificationID:  info.NotificationID,
			LawyerID:        info.LawyerID,
			Type:            tpl.Type,
			Priority:        task.DefaultPriorityFor(tpl.Type),
			Status:          task.StatusPending,
			Title:           RenderTemplate(tpl.TitleTemplate, tokens),
			Description:     RenderTemplate(tpl.DescriptionTemplate, tokens),
			DueDate:         tpl.DueDate(info.HearingDate),
			IsAllDay:        true,
			Court:           info.Court,
			ProcedureNumber: info.ProcedureNumber,
			ClientName:      info.ClientName,
			OpposingParty:   info.OpposingParty,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if tpl.Type == task.TypeHearing {
			id := t.ID
			hearingID = &id
		}
		tasks = append(tasks, t)
	}

	// Second pass: wire every non-hearing task to the hearing task.  Chains
	// without a HEARING entry produce unlinked tasks, which is valid.
	if hearingID != nil {
		for _, t := range tasks {
			if t.Type != task.TypeHearing {
				id := *hearingID
				t.ParentTaskID = &id
			}
		}
	}

	if err := g.tasks.CreateBatch(ctx, tasks); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTaskBatchFailed, "failed to persist hearing task batch")
	}

	ids := make([]common.ID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	g.writeAudit(ctx, info, ids, now)

	g.log.Info("hearing task chain generated",
		logging.String("notification_id", string(info.NotificationID)),
		logging.String("procedure", info.ProcedureNumber),
		logging.Int("tasks", len(ids)))
	return ids, nil
}

// resolveChain returns the office's active templates, validated, or the
// default chain when the office has none.
func (g *Generator) resolveChain(ctx context.Context, officeID string) ([]*task.Template, error) {
	var chain []*task.Template
	if officeID != "" {
		active, err := g.templates.FindActiveByOffice(ctx, officeID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDBQueryError, "failed to load office templates")
		}
		chain = active
	}
	if len(chain) == 0 {
		chain = task.DefaultChain()
	}

	for _, tpl := range chain {
		if err := tpl.Validate(); err != nil {
			return nil, err
		}
	}
	return chain, nil
}

// writeAudit records chain generation; an audit failure is logged but does
// not undo the already-committed batch.
func (g *Generator) writeAudit(ctx context.Context, info *HearingInfo, ids []common.ID, now time.Time) {
	actor := string(info.LawyerID)
	taskIDs := make([]string, len(ids))
	for i, id := range ids {
		taskIDs[i] = string(id)
	}
	entry := audit.NewEntry(&actor, audit.ActionTasksGenerated, audit.TargetTypeNotification,
		string(info.NotificationID), map[string]interface{}{
			"hearing_date": info.HearingDate.Format("2006-01-02"),
			"task_ids":     taskIDs,
			"task_count":   len(ids),
		}, now)
	if err := g.audits.Insert(ctx, entry); err != nil {
		g.log.Warn("failed to write task generation audit entry", logging.Err(err))
	}
}
