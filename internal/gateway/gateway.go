// Package gateway wraps the hosted table store: per-table CRUD with
// ordering, plus change-event publication and subscription. All
// failures are normalized to domain.RemoteError; the gateway never
// retries on its own.
package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChangeAction classifies a table change notification.
type ChangeAction string

const (
	ChangeInsert ChangeAction = "insert"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

// ChangeEvent is the payload pushed to subscribers after a successful
// write. Subscribers re-fetch the whole table regardless of which row
// changed, so the row id is informational.
type ChangeEvent struct {
	Table     string       `json:"table"`
	Action    ChangeAction `json:"action"`
	RowID     uuid.UUID    `json:"rowId,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// Remote is the table-store contract the entity repositories depend on.
type Remote interface {
	// SelectAll reads every row of a table into dest, ordered by the
	// given column expression.
	SelectAll(ctx context.Context, table, orderBy string, dest interface{}, opts ...SelectOption) error
	// Insert persists a new row; backend-assigned fields are written
	// back into row on success.
	Insert(ctx context.Context, table string, row interface{}) error
	// Update applies a column patch to one row.
	Update(ctx context.Context, table string, id uuid.UUID, patch map[string]interface{}) error
	// Delete removes one row.
	Delete(ctx context.Context, table string, id uuid.UUID) error
}

// Subscriber delivers change events for one table until the returned
// stop function is called or the connection drops. A dropped connection
// stops delivery silently; there is no automatic resubscribe.
type Subscriber interface {
	Subscribe(ctx context.Context, table string, fn func(ChangeEvent)) (stop func(), err error)
}

// SelectOption adjusts a SelectAll query.
type SelectOption func(*selectOptions)

type selectOptions struct {
	preloads []string
}

// WithPreload loads the named association alongside each row, mirroring
// the backend's joined selects (invoices pull their customer).
func WithPreload(association string) SelectOption {
	return func(o *selectOptions) {
		o.preloads = append(o.preloads, association)
	}
}

func newChangeEvent(table string, action ChangeAction, id uuid.UUID) ChangeEvent {
	return ChangeEvent{
		Table:     table,
		Action:    action,
		RowID:     id,
		Timestamp: time.Now().UnixNano(),
	}
}
