package ports

import (
	"context"

	"github.com/listado/marketplace-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts. The same
// records back both authentication and the admin account-management
// sub-case.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	Delete(ctx context.Context, id string) error
}
