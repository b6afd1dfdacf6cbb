package authz

import "github.com/listado/marketplace-api/internal/core/domain"

// Reason is the closed set of deny reasons. A caller can distinguish "you
// can never do this" (InsufficientRole) from "you could do this to your own
// resource" (NotOwner) without parsing message text.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNotAuthenticated  Reason = "not_authenticated"
	ReasonInsufficientRole  Reason = "insufficient_role"
	ReasonNotOwner          Reason = "not_owner"
	ReasonInvalidTransition Reason = "invalid_transition"
	ReasonNotFound          Reason = "not_found"
)

// Decision is the verdict of the role policy evaluator.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r Reason) Decision { return Decision{Reason: r} }

// Err maps a deny reason to its domain sentinel so transports can branch
// with errors.Is. Returns nil for ReasonNone.
func (r Reason) Err() error {
	switch r {
	case ReasonNotAuthenticated:
		return domain.ErrNotAuthenticated
	case ReasonInsufficientRole:
		return domain.ErrInsufficientRole
	case ReasonNotOwner:
		return domain.ErrNotOwner
	case ReasonInvalidTransition:
		return domain.ErrInvalidTransition
	case ReasonNotFound:
		return domain.ErrListingNotFound
	}
	return nil
}
