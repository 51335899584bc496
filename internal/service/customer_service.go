package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/repository"
	"go.uber.org/zap"
)

// CustomerService is the command layer over the customer collection:
// the master-data form operations plus the invoice form's auto-fill.
type CustomerService struct {
	customerRepo *repository.CustomerRepository
	streetRepo   *repository.StreetRepository
	logger       *zap.Logger
}

func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	streetRepo *repository.StreetRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		streetRepo:   streetRepo,
		logger:       logger,
	}
}

// Create validates and persists a new customer from the master-data
// form.
func (s *CustomerService) Create(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.Customer, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.Create(ctx, req.Name, req.Mobile, req.Street)
	if err != nil {
		return nil, err
	}
	s.logger.Info("customer created", zap.String("mobile", customer.Mobile))
	return customer, nil
}

// Update validates and applies a master-data edit.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCustomerRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	return s.customerRepo.Update(ctx, id, req.Name, req.Mobile, req.Street)
}

// Delete removes a customer.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, id)
}

// List returns the loaded customer collection.
func (s *CustomerService) List() []domain.Customer {
	return s.customerRepo.All()
}

// Autofill resolves a mobile number for the invoice form. When no
// customer matches, Found is false and the name/street fields are empty
// so the form clears them instead of keeping stale values.
func (s *CustomerService) Autofill(mobile string) domain.AutofillResult {
	customer, err := s.customerRepo.FindByMobile(mobile)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.AutofillResult{}
	}
	return domain.AutofillResult{
		Found:        true,
		CustomerName: customer.Name,
		StreetName:   customer.Street,
	}
}
