package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexwatch/lexwatch/internal/application/deadline"
	"github.com/lexwatch/lexwatch/internal/domain/task"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// HearingTaskGenerator expands a hearing into its preparatory task chain.
type HearingTaskGenerator interface {
	GenerateHearingTasks(ctx context.Context, info *deadline.HearingInfo) ([]common.ID, error)
}

// TaskService looks up and completes procedural tasks.
type TaskService interface {
	GetTask(ctx context.Context, id common.ID) (*task.ProceduralTask, error)
	CompleteTask(ctx context.Context, id common.ID, completedBy, justification string) (*task.ProceduralTask, error)
}

// TaskHandler serves task generation, lookup and completion endpoints.
type TaskHandler struct {
	generator HearingTaskGenerator
	tasks     TaskService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(generator HearingTaskGenerator, tasks TaskService) *TaskHandler {
	return &TaskHandler{generator: generator, tasks: tasks}
}

// GenerateHearingTasksRequest is the body of POST /hearings/tasks.
type GenerateHearingTasksRequest struct {
	NotificationID  string `json:"notification_id" binding:"required"`
	LawyerID        string `json:"lawyer_id" binding:"required"`
	OfficeID        string `json:"office_id"`
	HearingDate     string `json:"hearing_date" binding:"required"`
	Court           string `json:"court"`
	ProcedureNumber string `json:"procedure_number"`
	ClientName      string `json:"client_name"`
	OpposingParty   string `json:"opposing_party"`
}

// GenerateHearingTasksResponse returns the created task ids in chain order.
type GenerateHearingTasksResponse struct {
	TaskIDs []common.ID `json:"task_ids"`
	Total   int         `json:"total"`
}

// GenerateHearingTasks handles POST /hearings/tasks.
func (h *TaskHandler) GenerateHearingTasks(c *gin.Context) {
	var req GenerateHearingTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam(err.Error()))
		return
	}

	hearingDate, err := parseDate("hearing_date", req.HearingDate)
	if err != nil {
		respondError(c, err)
		return
	}

	ids, err := h.generator.GenerateHearingTasks(c.Request.Context(), &deadline.HearingInfo{
		NotificationID:  common.ID(req.NotificationID),
		LawyerID:        common.ID(req.LawyerID),
		OfficeID:        req.OfficeID,
		HearingDate:     hearingDate,
		Court:           req.Court,
		ProcedureNumber: req.ProcedureNumber,
		ClientName:      req.ClientName,
		OpposingParty:   req.OpposingParty,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, GenerateHearingTasksResponse{TaskIDs: ids, Total: len(ids)})
}

// Get handles GET /tasks/:taskID.
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.tasks.GetTask(c.Request.Context(), common.ID(c.Param("taskID")))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}

// CompleteTaskRequest is the body of POST /tasks/:taskID/complete.
type CompleteTaskRequest struct {
	CompletedBy   string `json:"completed_by" binding:"required"`
	Justification string `json:"justification"`
}

// Complete handles POST /tasks/:taskID/complete.
func (h *TaskHandler) Complete(c *gin.Context) {
	var req CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam(err.Error()))
		return
	}

	t, err := h.tasks.CompleteTask(c.Request.Context(), common.ID(c.Param("taskID")), req.CompletedBy, req.Justification)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}
