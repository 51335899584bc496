package gateway

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publisher fans a change event out to the other open clients. Writes
// succeed even when publication fails; a lost notification only delays
// the other clients until their next full refresh.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// NopPublisher discards change events. Used where no pub/sub backend is
// wired, e.g. single-client test setups.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }

// GormGateway implements Remote over a GORM connection to the hosted
// table store.
type GormGateway struct {
	db        *gorm.DB
	publisher Publisher
	logger    *zap.Logger
}

// NewGormGateway creates a gateway over db. publisher may be nil.
func NewGormGateway(db *gorm.DB, publisher Publisher, logger *zap.Logger) *GormGateway {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &GormGateway{db: db, publisher: publisher, logger: logger}
}

func (g *GormGateway) SelectAll(ctx context.Context, table, orderBy string, dest interface{}, opts ...SelectOption) error {
	var options selectOptions
	for _, opt := range opts {
		opt(&options)
	}

	query := g.db.WithContext(ctx)
	if len(options.preloads) > 0 {
		// Association loading needs the model schema, which Find
		// derives from dest; the table name comes from the model.
		for _, assoc := range options.preloads {
			query = query.Preload(assoc)
		}
	} else {
		query = query.Table(table)
	}

	if err := query.Order(orderBy).Find(dest).Error; err != nil {
		return g.remoteError(table, "select", err)
	}
	return nil
}

func (g *GormGateway) Insert(ctx context.Context, table string, row interface{}) error {
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		return g.remoteError(table, "insert", err)
	}
	g.publish(ctx, newChangeEvent(table, ChangeInsert, rowID(row)))
	return nil
}

func (g *GormGateway) Update(ctx context.Context, table string, id uuid.UUID, patch map[string]interface{}) error {
	if err := g.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(patch).Error; err != nil {
		return g.remoteError(table, "update", err)
	}
	g.publish(ctx, newChangeEvent(table, ChangeUpdate, id))
	return nil
}

func (g *GormGateway) Delete(ctx context.Context, table string, id uuid.UUID) error {
	if err := g.db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(nil).Error; err != nil {
		return g.remoteError(table, "delete", err)
	}
	g.publish(ctx, newChangeEvent(table, ChangeDelete, id))
	return nil
}

func (g *GormGateway) publish(ctx context.Context, event ChangeEvent) {
	if err := g.publisher.Publish(ctx, event); err != nil {
		g.logger.Warn("failed to publish change event",
			zap.String("table", event.Table),
			zap.String("action", string(event.Action)),
			zap.Error(err))
	}
}

func (g *GormGateway) remoteError(table, op string, err error) *domain.RemoteError {
	code := domain.RemoteErrorUnknown
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		code = domain.RemoteErrorUniqueViolation
	case errors.Is(err, gorm.ErrRecordNotFound):
		code = domain.RemoteErrorNotFound
	}
	return domain.NewRemoteError(code, table, op, err)
}

type idCarrier interface {
	GetID() uuid.UUID
}

func rowID(row interface{}) uuid.UUID {
	if c, ok := row.(idCarrier); ok {
		return c.GetID()
	}
	return uuid.Nil
}

var _ Remote = (*GormGateway)(nil)
