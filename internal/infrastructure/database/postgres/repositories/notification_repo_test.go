package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"github.com/lexwatch/lexwatch/internal/domain/notification"
	"github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

type NotificationRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo notification.Repository
}

func (s *NotificationRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.NoError(err)

	conn := postgres.NewConnectionWithDB(s.db, logging.NewNopLogger())
	s.repo = NewPostgresNotificationRepo(conn, logging.NewNopLogger())
}

func (s *NotificationRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func notificationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "lexnet_id", "court", "procedure_number", "priority", "status",
		"received_date", "downloaded_date", "assigned_lawyer_id", "created_at", "updated_at",
	})
}

func (s *NotificationRepoTestSuite) TestFindByID_Found() {
	now := time.Now()
	s.mock.ExpectQuery(`(?s)SELECT .* FROM notifications WHERE id = \$1`).
		WithArgs("ntf-1").
		WillReturnRows(notificationRows().AddRow(
			"ntf-1", "LX-001", "Juzgado nº 3", "PO 123/2025", "medium", "pending",
			now.Add(-30*time.Hour), nil, nil, now, now,
		))

	n, err := s.repo.FindByID(context.Background(), "ntf-1")
	s.NoError(err)
	s.Equal(common.ID("ntf-1"), n.ID)
	s.Equal("LX-001", n.LexnetID)
	s.False(n.IsDownloaded())
}

func (s *NotificationRepoTestSuite) TestFindByID_NotFound() {
	s.mock.ExpectQuery(`(?s)SELECT .* FROM notifications WHERE id = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.FindByID(context.Background(), "nope")
	s.Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *NotificationRepoTestSuite) TestFindPendingAcceptance() {
	now := time.Now()
	threshold := now.Add(-24 * time.Hour)

	s.mock.ExpectQuery(`(?s)SELECT .* FROM notifications n\s+WHERE n\.downloaded_date IS NULL`).
		WithArgs(threshold, nil).
		WillReturnRows(notificationRows().
			AddRow("ntf-1", "LX-001", "Juzgado nº 3", "PO 1/2025", "medium", "pending",
				now.Add(-50*time.Hour), nil, "l1", now, now).
			AddRow("ntf-2", "LX-002", "Juzgado nº 5", "PO 2/2025", "high", "pending",
				now.Add(-40*time.Hour), nil, nil, now, now))

	out, err := s.repo.FindPendingAcceptance(context.Background(), nil, threshold)
	s.NoError(err)
	s.Len(out, 2)
	s.NotNil(out[0].AssignedLawyerID)
	s.Equal(common.ID("l1"), *out[0].AssignedLawyerID)
	s.Nil(out[1].AssignedLawyerID)
}

func (s *NotificationRepoTestSuite) TestSave_Insert() {
	n, err := notification.NewNotification("LX-010", "Juzgado nº 1", "PO 9/2025", time.Now().Add(-time.Hour))
	s.NoError(err)

	s.mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Save(context.Background(), n))
}

func (s *NotificationRepoTestSuite) TestMarkDownloaded_AlreadyDownloaded() {
	s.mock.ExpectExec(`UPDATE notifications`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.MarkDownloaded(context.Background(), "ntf-1", time.Now())
	s.Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeNotificationDownloaded))
}

func (s *NotificationRepoTestSuite) TestMarkDownloaded_Success() {
	at := time.Now()
	s.mock.ExpectExec(`UPDATE notifications`).
		WithArgs("ntf-1", at, "downloaded").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.MarkDownloaded(context.Background(), "ntf-1", at))
}

func TestNotificationRepoTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationRepoTestSuite))
}
