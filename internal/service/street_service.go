package service

import (
	"context"

	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/repository"
	"go.uber.org/zap"
)

// StreetService is the command layer over the street-name collection.
type StreetService struct {
	streetRepo   *repository.StreetRepository
	customerRepo *repository.CustomerRepository
	logger       *zap.Logger
}

func NewStreetService(
	streetRepo *repository.StreetRepository,
	customerRepo *repository.CustomerRepository,
	logger *zap.Logger,
) *StreetService {
	return &StreetService{
		streetRepo:   streetRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Add validates and persists a new street name. Duplicates are benign.
func (s *StreetService) Add(ctx context.Context, req *domain.AddStreetRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	return s.streetRepo.Add(ctx, req.Name)
}

// List returns the loaded street names.
func (s *StreetService) List() []string {
	return s.streetRepo.All()
}

// Migrate reconciles the street list with the street values present on
// customers: the union, de-duplicated and sorted. Runs once at startup
// after the initial loads.
func (s *StreetService) Migrate() {
	s.streetRepo.MigrateFromCustomers(s.customerRepo.All())
	s.logger.Info("street list reconciled with customer streets")
}
