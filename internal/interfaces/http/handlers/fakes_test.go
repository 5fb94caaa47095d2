package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lexwatch/lexwatch/internal/application/deadline"
	"github.com/lexwatch/lexwatch/internal/domain/task"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// perform runs one request through a handler mounted on a fresh engine.
func perform(t *testing.T, method, target string, body interface{}, mount func(r *gin.Engine)) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := gin.New()
	mount(r)

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Service fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeDeadlineService struct {
	deadlines []*deadline.UpcomingDeadline
	err       error

	gotLawyerID   *common.ID
	gotWithinDays int
}

func (f *fakeDeadlineService) GetUpcomingDeadlines(_ context.Context, lawyerID *common.ID, withinDays int) ([]*deadline.UpcomingDeadline, error) {
	f.gotLawyerID = lawyerID
	f.gotWithinDays = withinDays
	if f.err != nil {
		return nil, f.err
	}
	if withinDays <= 0 {
		return nil, errors.InvalidParam("within_days must be positive")
	}
	return f.deadlines, nil
}

type fakeMonitor struct {
	summary *deadline.ThreeDaySummary
	expired []*deadline.PendingNotification
	err     error

	gotOfficeID *string
}

func (f *fakeMonitor) CheckThreeDayRule(_ context.Context, officeID *string) (*deadline.ThreeDaySummary, error) {
	f.gotOfficeID = officeID
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func (f *fakeMonitor) GetExpiredNotifications(context.Context) ([]*deadline.PendingNotification, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.expired, nil
}

type fakeGenerator struct {
	ids []common.ID
	err error

	gotInfo *deadline.HearingInfo
}

func (f *fakeGenerator) GenerateHearingTasks(_ context.Context, info *deadline.HearingInfo) ([]common.ID, error) {
	f.gotInfo = info
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

type fakeTaskService struct {
	tasks map[common.ID]*task.ProceduralTask

	gotCompletedBy   string
	gotJustification string
	completeErr      error
}

func (f *fakeTaskService) GetTask(_ context.Context, id common.ID) (*task.ProceduralTask, error) {
	if t, ok := f.tasks[id]; ok {
		return t, nil
	}
	return nil, errors.New(errors.CodeTaskNotFound, "task not found")
}

func (f *fakeTaskService) CompleteTask(_ context.Context, id common.ID, completedBy, justification string) (*task.ProceduralTask, error) {
	f.gotCompletedBy = completedBy
	f.gotJustification = justification
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return f.GetTask(context.Background(), id)
}

type fakeScheduler struct {
	alerts  []*deadline.PendingAlert
	results []*deadline.AlertResult
	summary *deadline.AlertsSummary
	err     error
}

func (f *fakeScheduler) GeneratePendingAlerts(context.Context) ([]*deadline.PendingAlert, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.alerts, nil
}

func (f *fakeScheduler) CheckAndSendDueAlerts(context.Context) ([]*deadline.AlertResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeScheduler) GetAlertsSummary() *deadline.AlertsSummary { return f.summary }
