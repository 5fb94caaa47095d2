// Package task defines procedural tasks, the office-configurable templates
// that generate them, and their completion lifecycle.
package task

import (
	"time"

	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Type enumeration
// ─────────────────────────────────────────────────────────────────────────────

// Type categorizes the nature of a procedural task.
type Type string

const (
	// TypePreparation is the long-lead case-preparation step of a hearing chain.
	TypePreparation Type = "PREPARATION"

	// TypeClientMeeting is the pre-hearing client briefing.
	TypeClientMeeting Type = "CLIENT_MEETING"

	// TypeEvidenceDeadline is the last day to submit evidence to the court.
	TypeEvidenceDeadline Type = "EVIDENCE_DEADLINE"

	// TypeHearing is the hearing day itself; it anchors the dependency chain.
	TypeHearing Type = "HEARING"
)

// IsValid reports whether t is a known task type.
func (t Type) IsValid() bool {
	switch t {
	case TypePreparation, TypeClientMeeting, TypeEvidenceDeadline, TypeHearing:
		return true
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Priority enumeration
// ─────────────────────────────────────────────────────────────────────────────

// Priority indicates the urgency level of a task.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// priorityRank orders priorities for sorting; higher is more urgent.
var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns a sortable integer for the priority; unknown priorities rank
// lowest.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// DefaultPriorityFor maps a task type to its generated priority: the hearing
// itself is CRITICAL, the evidence deadline HIGH, everything else MEDIUM.
func DefaultPriorityFor(t Type) Priority {
	switch t {
	case TypeHearing:
		return PriorityCritical
	case TypeEvidenceDeadline:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Status is the task lifecycle state.  Tasks are never deleted, only
// transitioned to COMPLETED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// ─────────────────────────────────────────────────────────────────────────────
// ProceduralTask entity
// ─────────────────────────────────────────────────────────────────────────────

// ProceduralTask is a unit of required lawyer action tied to a notification
// or a hearing.  Context fields (court, procedure number, party names) are
// copied at creation time and never re-derived.
type ProceduralTask struct {
	// ID uniquely identifies this task.
	ID common.ID `json:"id"`

	// NotificationID links the task to the notification it derives from.
	NotificationID common.ID `json:"notification_id"`

	// ParentTaskID forms a shallow one-level dependency chain: preparatory
	// tasks reference the hearing-day task; the hearing task has no parent.
	ParentTaskID *common.ID `json:"parent_task_id,omitempty"`

	// LawyerID is the lawyer responsible for completing the task.
	LawyerID common.ID `json:"lawyer_id"`

	Type     Type     `json:"task_type"`
	Priority Priority `json:"priority"`
	Status   Status   `json:"status"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// DueDate is always a calendar date; IsAllDay is true for every generated
	// task.
	DueDate  time.Time `json:"due_date"`
	IsAllDay bool      `json:"is_all_day"`

	// GracePeriodEnd is the statutory grace extension past DueDate, when one
	// applies (LEC art. 135.1).
	GracePeriodEnd *time.Time `json:"grace_period_end,omitempty"`

	// Context copied at creation time.
	Court           string `json:"court"`
	ProcedureNumber string `json:"procedure_number"`
	ClientName      string `json:"client_name,omitempty"`
	OpposingParty   string `json:"opposing_party,omitempty"`

	// Completion record.
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CompletedBy   string     `json:"completed_by,omitempty"`
	Justification string     `json:"justification,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates a pending ProceduralTask with validation.
func NewTask(notificationID, lawyerID common.ID, taskType Type, title string, dueDate time.Time) (*ProceduralTask, error) {
	if !taskType.IsValid() {
		return nil, errors.InvalidParam("task_type " + string(taskType) + " is not valid")
	}
	if title == "" {
		return nil, errors.InvalidParam("title must not be empty")
	}
	if dueDate.IsZero() {
		return nil, errors.InvalidParam("due_date must not be zero")
	}

	now := time.Now().UTC()
	return &ProceduralTask{
		ID:             common.NewID(),
		NotificationID: notificationID,
		LawyerID:       lawyerID,
		Type:           taskType,
		Priority:       DefaultPriorityFor(taskType),
		Status:         StatusPending,
		Title:          title,
		DueDate:        dueDate,
		IsAllDay:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Query and command methods
// ─────────────────────────────────────────────────────────────────────────────

// IsPending reports whether the task still requires action.
func (t *ProceduralTask) IsPending() bool {
	return t.Status == StatusPending
}

// MarkCompleted transitions the task to COMPLETED, recording who completed it
// and an optional justification.  Completing twice is a state violation.
func (t *ProceduralTask) MarkCompleted(by string, justification string, at time.Time) error {
	if t.Status == StatusCompleted {
		return errors.New(errors.ErrCodeTaskAlreadyCompleted, "task already completed").
			WithDetail("id=" + string(t.ID))
	}
	if by == "" {
		return errors.InvalidParam("completed_by must not be empty")
	}
	t.Status = StatusCompleted
	t.CompletedAt = &at
	t.CompletedBy = by
	t.Justification = justification
	t.UpdatedAt = at
	return nil
}
