// Package audit defines the structured audit trail written by system scans
// and user-triggered operations.
package audit

import (
	"context"
	"time"

	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// Well-known action tags.
const (
	ActionThreeDayScan     = "THREE_DAY_RULE_SCAN"
	ActionTasksGenerated   = "HEARING_TASKS_GENERATED"
	ActionTaskCompleted    = "TASK_COMPLETED"
	ActionAlertBatchSent   = "ALERT_BATCH_SENT"
	TargetTypeSystem       = "SYSTEM"
	TargetTypeTask         = "TASK"
	TargetTypeNotification = "NOTIFICATION"
)

// Entry is one audit record.  Actor is nil for system-triggered scans.
type Entry struct {
	ID         common.ID              `json:"id"`
	Actor      *string                `json:"actor,omitempty"`
	Action     string                 `json:"action"`
	TargetType string                 `json:"target_type"`
	TargetID   string                 `json:"target_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewEntry builds an audit entry stamped with the given time.
func NewEntry(actor *string, action, targetType, targetID string, metadata map[string]interface{}, at time.Time) *Entry {
	return &Entry{
		ID:         common.NewID(),
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   metadata,
		CreatedAt:  at,
	}
}

// Repository persists audit entries.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
}
