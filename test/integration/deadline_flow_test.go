package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexwatch/lexwatch/internal/application/deadline"
	"github.com/lexwatch/lexwatch/internal/domain/task"
	pgrepos "github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres/repositories"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
)

// TestHearingToCompletionFlow walks the whole engine against a real
// database: generate a hearing chain, list it as upcoming deadlines, and
// complete the first task.
func TestHearingToCompletionFlow(t *testing.T) {
	skipUnlessIntegration(t)

	conn := openTestDB(t)
	log := logging.NewNopLogger()

	taskRepo := pgrepos.NewPostgresTaskRepo(conn, log)
	templateRepo := pgrepos.NewPostgresTemplateRepo(conn, log)
	lawyerRepo := pgrepos.NewPostgresLawyerRepo(conn, log)
	auditRepo := pgrepos.NewPostgresAuditRepo(conn, log)

	ctx := context.Background()
	lawyerID := seedLawyer(t, conn, "office-1")
	notificationID := seedNotification(t, conn, lawyerID, time.Now().Add(-2*time.Hour))

	generator := deadline.NewGenerator(taskRepo, templateRepo, auditRepo, nil, log)
	hearingDate := time.Now().AddDate(0, 0, 21)
	ids, err := generator.GenerateHearingTasks(ctx, &deadline.HearingInfo{
		NotificationID:  notificationID,
		LawyerID:        lawyerID,
		OfficeID:        "office-1",
		HearingDate:     hearingDate,
		Court:           "Juzgado de Primera Instancia 4",
		ProcedureNumber: "PO 455/2026",
	})
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	calendar := deadline.NewCalendar(nil)
	calculator := deadline.NewCalculator(taskRepo, lawyerRepo, calendar, nil, log)

	upcoming, err := calculator.GetUpcomingDeadlines(ctx, &lawyerID, 30)
	require.NoError(t, err)
	assert.Len(t, upcoming, len(ids))
	for _, d := range upcoming {
		assert.Equal(t, "Ana Torres", d.LawyerName)
	}

	svc := deadline.NewTaskService(taskRepo, auditRepo, nil, log)
	completed, err := svc.CompleteTask(ctx, ids[0], string(lawyerID), "prepared ahead of schedule")
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Completed tasks drop out of the deadline listing.
	upcoming, err = calculator.GetUpcomingDeadlines(ctx, &lawyerID, 30)
	require.NoError(t, err)
	assert.Len(t, upcoming, len(ids)-1)
}

// TestThreeDayScanFlow verifies the acceptance scan picks up a notification
// inside the surfacing window and counts an expired one separately.
func TestThreeDayScanFlow(t *testing.T) {
	skipUnlessIntegration(t)

	conn := openTestDB(t)
	log := logging.NewNopLogger()

	notificationRepo := pgrepos.NewPostgresNotificationRepo(conn, log)
	auditRepo := pgrepos.NewPostgresAuditRepo(conn, log)

	ctx := context.Background()
	lawyerID := seedLawyer(t, conn, "office-1")

	// 30h since receipt: inside the surfacing window, 42h remaining.
	seedNotification(t, conn, lawyerID, time.Now().Add(-30*time.Hour))
	// 80h since receipt: the window closed 8h ago.
	seedNotification(t, conn, lawyerID, time.Now().Add(-80*time.Hour))

	monitor := deadline.NewMonitor(notificationRepo, auditRepo, nil, nil, log)

	// Both surface: the expired one as critical with zero hours, the live
	// one as a warning with ~42h left.
	summary, err := monitor.CheckThreeDayRule(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalPending)
	assert.Len(t, summary.Critical, 1)
	assert.Len(t, summary.Warning, 1)
	require.NotNil(t, summary.NextExpiration)

	expired, err := monitor.GetExpiredNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Zero(t, expired[0].HoursRemaining)
}
