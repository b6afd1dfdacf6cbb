package authz

import "github.com/listado/marketplace-api/internal/core/domain"

// capabilities is the single capability table for every role. A role may do
// exactly what its row lists and nothing else; there is no privilege
// ordering to fall back on. Moderator listing capabilities are additionally
// ownership-scoped by the orchestrator.
var capabilities = map[domain.Role]map[Action]bool{
	domain.RoleUser: {},
	domain.RoleModerator: {
		ActionViewOwnListings:     true,
		ActionCreateListing:       true,
		ActionEditListing:         true,
		ActionDeleteListing:       true,
		ActionSetFeatured:         true,
		ActionSetPublicationState: true, // withdrawal only; see Evaluate
	},
	domain.RoleAdmin: {
		ActionViewOwnListings:     true,
		ActionViewAllListings:     true,
		ActionCreateListing:       true,
		ActionEditListing:         true,
		ActionDeleteListing:       true,
		ActionSetFeatured:         true,
		ActionSetPublicationState: true,
		ActionChangeAccountRole:   true,
		ActionDeleteAccount:       true,
	},
}

// Evaluate is the role policy evaluator: a pure lookup against the
// capability table that never touches a specific resource instance. The
// target state is only meaningful for ActionSetPublicationState.
func Evaluate(role domain.Role, action Action, target domain.PublicationState) Decision {
	caps, ok := capabilities[role]
	if !ok {
		return deny(ReasonNotAuthenticated)
	}
	if !caps[action] {
		return deny(ReasonInsufficientRole)
	}

	// Approval and rejection are admin-only regardless of ownership. A
	// moderator's only publication-state move is withdrawing content.
	if action == ActionSetPublicationState && role != domain.RoleAdmin && target != domain.StateUnpublished {
		return deny(ReasonInsufficientRole)
	}

	return allow()
}

// InitialState returns the publication state a newly created listing starts
// in. Every listing starts pending; only an admin may request immediate
// publication, and only through this explicit creation-time flag.
func InitialState(role domain.Role, publishImmediately bool) domain.PublicationState {
	if publishImmediately && role == domain.RoleAdmin {
		return domain.StatePublished
	}
	return domain.StatePending
}
