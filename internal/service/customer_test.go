package service

import (
	"context"
	"testing"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMe_SetsUserAndDefaults(t *testing.T) {
	repo := &mockCustomerRepo{}
	svc := NewCustomerService(repo)

	c := &domain.Customer{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Phone: "1"}
	require.NoError(t, svc.UpdateMe(context.Background(), 42, c))

	require.NotNil(t, repo.upserted)
	assert.Equal(t, int64(42), repo.upserted.UserID)
	assert.Equal(t, domain.MembershipBronze, repo.upserted.Membership)
	assert.Equal(t, int64(1), c.ID)
}

func TestUpdateMe_DuplicateEmail(t *testing.T) {
	svc := NewCustomerService(&mockCustomerRepo{upsertErr: repository.ErrDuplicateEmail})

	c := &domain.Customer{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Phone: "1"}
	err := svc.UpdateMe(context.Background(), 42, c)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)
}

func TestUpdateMe_Invalid(t *testing.T) {
	repo := &mockCustomerRepo{}
	svc := NewCustomerService(repo)

	err := svc.UpdateMe(context.Background(), 42, &domain.Customer{FirstName: "Ada"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, repo.upserted)
}

func TestMe_NotFound(t *testing.T) {
	svc := NewCustomerService(&mockCustomerRepo{err: repository.ErrCustomerNotFound})

	_, err := svc.Me(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
