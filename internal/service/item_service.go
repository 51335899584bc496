package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/repository"
	"go.uber.org/zap"
)

// ItemService is the command layer over the item collection.
type ItemService struct {
	itemRepo *repository.ItemRepository
	logger   *zap.Logger
}

func NewItemService(itemRepo *repository.ItemRepository, logger *zap.Logger) *ItemService {
	return &ItemService{itemRepo: itemRepo, logger: logger}
}

// Create validates and persists a new item.
func (s *ItemService) Create(ctx context.Context, req *domain.CreateItemRequest) (*domain.Item, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.Create(ctx, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	s.logger.Info("item created", zap.String("name", item.Name), zap.Float64("price", item.Price))
	return item, nil
}

// Update validates and applies a master-data edit.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req *domain.CreateItemRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	return s.itemRepo.Update(ctx, id, req.Name, req.Price)
}

// Delete removes an item.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}

// List returns the loaded item collection.
func (s *ItemService) List() []domain.Item {
	return s.itemRepo.All()
}
