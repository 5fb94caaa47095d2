// Package lawyer holds the read-only lawyer model consumed for alert
// addressing.  Lawyers are owned by an external user-management system; this
// service only resolves names and email addresses.
package lawyer

import (
	"context"

	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// Lawyer is the read model for a lawyer referenced by notifications and tasks.
type Lawyer struct {
	ID       common.ID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Color    string    `json:"color"`
	OfficeID string    `json:"office_id"`
}

// Repository resolves lawyers for recipient addressing.
type Repository interface {
	// FindByID returns the lawyer with the given id, or a not-found error.
	FindByID(ctx context.Context, id common.ID) (*Lawyer, error)

	// FindByIDs resolves several lawyers in one round trip.  Missing ids are
	// simply absent from the result map; resolution failures are not errors
	// here because an unassigned or unknown lawyer only excludes an item from
	// alerting, never from the deadline list.
	FindByIDs(ctx context.Context, ids []common.ID) (map[common.ID]*Lawyer, error)
}
