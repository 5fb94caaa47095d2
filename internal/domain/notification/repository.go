package notification

import (
	"context"
	"time"

	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// Repository defines the persistence contract for notifications.  The core
// engine depends only on this interface; the Postgres implementation lives in
// internal/infrastructure/database/postgres/repositories.
type Repository interface {
	// Save inserts or updates a notification.
	Save(ctx context.Context, n *Notification) error

	// FindByID returns the notification with the given internal id, or a
	// not-found error.
	FindByID(ctx context.Context, id common.ID) (*Notification, error)

	// FindPendingAcceptance returns notifications with a null DownloadedDate
	// whose ReceivedDate is at or before receivedBefore, optionally filtered
	// by office.  This backs the three-day-rule scan: passing
	// now - 24h as the threshold yields items with 48 hours or less remaining.
	FindPendingAcceptance(ctx context.Context, officeID *string, receivedBefore time.Time) ([]*Notification, error)

	// FindExpired returns notifications whose 72-hour window elapsed at or
	// before asOf and which were never downloaded.
	FindExpired(ctx context.Context, asOf time.Time) ([]*Notification, error)

	// MarkDownloaded persists acceptance of a notification.
	MarkDownloaded(ctx context.Context, id common.ID, at time.Time) error
}
