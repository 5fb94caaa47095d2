package client

import (
	"context"
	"net/url"
	"time"
)

// TasksClient accesses the task generation, lookup and completion endpoints.
type TasksClient struct {
	client *Client
}

// Task is one procedural task.
type Task struct {
	ID             string  `json:"id"`
	NotificationID string  `json:"notification_id"`
	ParentTaskID   *string `json:"parent_task_id,omitempty"`
	LawyerID       string  `json:"lawyer_id"`

	Type     string `json:"task_type"`
	Priority string `json:"priority"`
	Status   string `json:"status"`

	Title       string `json:"title"`
	Description string `json:"description"`

	DueDate        time.Time  `json:"due_date"`
	IsAllDay       bool       `json:"is_all_day"`
	GracePeriodEnd *time.Time `json:"grace_period_end,omitempty"`

	Court           string `json:"court"`
	ProcedureNumber string `json:"procedure_number"`
	ClientName      string `json:"client_name,omitempty"`
	OpposingParty   string `json:"opposing_party,omitempty"`

	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CompletedBy   string     `json:"completed_by,omitempty"`
	Justification string     `json:"justification,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenerateHearingTasksRequest describes one hearing to expand into its
// preparatory task chain.
type GenerateHearingTasksRequest struct {
	NotificationID  string `json:"notification_id"`
	LawyerID        string `json:"lawyer_id"`
	OfficeID        string `json:"office_id,omitempty"`
	HearingDate     string `json:"hearing_date"`
	Court           string `json:"court,omitempty"`
	ProcedureNumber string `json:"procedure_number,omitempty"`
	ClientName      string `json:"client_name,omitempty"`
	OpposingParty   string `json:"opposing_party,omitempty"`
}

// GenerateHearingTasksResponse returns the created task ids in chain order.
type GenerateHearingTasksResponse struct {
	TaskIDs []string `json:"task_ids"`
	Total   int      `json:"total"`
}

// GenerateHearingTasks expands a hearing into its task chain.
func (t *TasksClient) GenerateHearingTasks(ctx context.Context, req GenerateHearingTasksRequest) (*GenerateHearingTasksResponse, error) {
	var resp GenerateHearingTasksResponse
	if err := t.client.post(ctx, "/api/v1/hearings/tasks", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get fetches one task by id.
func (t *TasksClient) Get(ctx context.Context, taskID string) (*Task, error) {
	var resp Task
	if err := t.client.get(ctx, "/api/v1/tasks/"+url.PathEscape(taskID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteTaskRequest records who completed a task and why.
type CompleteTaskRequest struct {
	CompletedBy   string `json:"completed_by"`
	Justification string `json:"justification,omitempty"`
}

// Complete transitions a task to COMPLETED.
func (t *TasksClient) Complete(ctx context.Context, taskID string, req CompleteTaskRequest) (*Task, error) {
	var resp Task
	if err := t.client.post(ctx, "/api/v1/tasks/"+url.PathEscape(taskID)+"/complete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
