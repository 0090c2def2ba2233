package service

import (
	"context"
	"errors"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
)

type CustomerService struct {
	repo CustomerRepository
}

func NewCustomerService(repo CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// Me returns the profile of the authenticated user.
func (s *CustomerService) Me(ctx context.Context, userID int64) (*domain.Customer, error) {
	return s.repo.GetCustomerByUserID(ctx, userID)
}

// UpdateMe creates the user's profile on first call and overwrites it afterwards.
func (s *CustomerService) UpdateMe(ctx context.Context, userID int64, c *domain.Customer) error {
	c.UserID = userID
	if err := c.Validate(); err != nil {
		return err
	}
	err := s.repo.UpsertCustomer(ctx, c)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return &domain.ValidationError{Field: "email", Message: "customer with this email already exists"}
	}
	return err
}

func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetCustomerByID(ctx, id)
}
