package ports

import (
	"context"

	"github.com/listado/marketplace-api/internal/core/domain"
)

// ChangeRoleInput requests a role reassignment on a target account.
type ChangeRoleInput struct {
	Identity  domain.Identity
	AccountID string
	NewRole   domain.Role
}

// DeleteAccountInput removes a target account.
type DeleteAccountInput struct {
	Identity  domain.Identity
	AccountID string
}

// AccountService defines the admin-only account management operations.
type AccountService interface {
	ChangeRole(ctx context.Context, input ChangeRoleInput) (*domain.Account, error)
	Delete(ctx context.Context, input DeleteAccountInput) error
}
