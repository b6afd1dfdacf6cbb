package ports

import (
	"context"

	"github.com/listado/marketplace-api/internal/core/domain"
)

// AuthService implements registration, login and token revocation.
// Registration always yields role user; privilege is granted only through
// AccountService.ChangeRole.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	Logout(ctx context.Context, token string) error
}
