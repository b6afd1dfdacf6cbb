package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/listado/marketplace-api/internal/api/metrics"
	"github.com/listado/marketplace-api/internal/core/authz"
	"github.com/listado/marketplace-api/internal/core/domain"
	"github.com/listado/marketplace-api/internal/core/ports"
)

// AccountService implements the admin-only account management operations.
// Role reassignment is its own action in the policy table, never a side
// effect of another operation.
type AccountService struct {
	repo   ports.AccountRepository
	logger zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, logger: logger}
}

func (s *AccountService) ChangeRole(ctx context.Context, input ports.ChangeRoleInput) (*domain.Account, error) {
	if !input.NewRole.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	account, err := s.repo.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	outcome := authz.Decide(authz.Request{
		Identity: input.Identity,
		Action:   authz.ActionChangeAccountRole,
		Account:  account,
	})
	metrics.ObserveDecision(authz.ActionChangeAccountRole, outcome)
	if !outcome.Allowed {
		return nil, outcome.Reason.Err()
	}

	if err := s.repo.UpdateRole(ctx, account.ID, input.NewRole); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("account_id", account.ID).
		Str("from", string(account.Role)).
		Str("to", string(input.NewRole)).
		Str("actor_id", input.Identity.ID).
		Msg("account role changed")

	account.Role = input.NewRole
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, input ports.DeleteAccountInput) error {
	account, err := s.repo.FindByID(ctx, input.AccountID)
	if err != nil {
		return err
	}

	outcome := authz.Decide(authz.Request{
		Identity: input.Identity,
		Action:   authz.ActionDeleteAccount,
		Account:  account,
	})
	metrics.ObserveDecision(authz.ActionDeleteAccount, outcome)
	if !outcome.Allowed {
		return outcome.Reason.Err()
	}

	if err := s.repo.Delete(ctx, account.ID); err != nil {
		return err
	}

	s.logger.Info().Str("account_id", account.ID).Str("actor_id", input.Identity.ID).Msg("account deleted")
	return nil
}
