package authz

import "github.com/listado/marketplace-api/internal/core/domain"

// ChangeSet is a caller's requested field changes. Nil means "leave
// unchanged". OwnerID is absent on purpose: it is set once at creation and
// never reassigned through this core.
type ChangeSet struct {
	Title       *string
	Description *string
	Category    *string
	Price       *float64
	Currency    *string
	Featured    *bool
	State       *domain.PublicationState
}

// IsEmpty reports whether the change-set carries no field changes.
func (c ChangeSet) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Category == nil &&
		c.Price == nil && c.Currency == nil && c.Featured == nil && c.State == nil
}

// Request carries everything Decide needs for one authorization decision:
// the verified identity, the action, the resource snapshot as loaded (nil
// when lookup found nothing), and the requested changes.
type Request struct {
	Identity domain.Identity
	Action   Action
	Listing  *domain.Listing
	Account  *domain.Account
	// Target is the requested publication state for
	// ActionSetPublicationState.
	Target  domain.PublicationState
	Changes ChangeSet
}

// Outcome is the single answer every mutating entry point acts on. On
// Allow, Changes holds the sanitized change-set the caller may apply;
// fields the role is not permitted to touch have been stripped, not
// rejected wholesale.
type Outcome struct {
	Allowed bool
	Reason  Reason
	Changes ChangeSet
}

func denied(r Reason) Outcome { return Outcome{Reason: r} }

// Decide composes the role policy evaluator, the ownership guard and the
// publication state machine into one allow/deny answer. It is pure with
// respect to persistence: the caller applies the sanitized changes. The
// same inputs always produce the same outcome.
func Decide(req Request) Outcome {
	// Identity must come from the verified session; an empty or unknown
	// role never proceeds to resource disclosure.
	if req.Identity.ID == "" || !req.Identity.Role.IsValid() {
		return denied(ReasonNotAuthenticated)
	}

	// Missing resource is distinct from an authorization failure so that
	// callers do not leak existence information inconsistently.
	if req.Action.RequiresListing() && req.Listing == nil {
		return denied(ReasonNotFound)
	}
	if req.Action.RequiresAccount() && req.Account == nil {
		return denied(ReasonNotFound)
	}

	if d := Evaluate(req.Identity.Role, req.Action, req.Target); !d.Allowed {
		return denied(d.Reason)
	}

	// Ownership guard for resource-scoped actions; admins bypass it
	// unconditionally.
	if req.Action.RequiresListing() && req.Identity.Role != domain.RoleAdmin {
		if !Owns(req.Identity, req.Listing.OwnerID) {
			return denied(ReasonNotOwner)
		}
	}

	if req.Action == ActionSetPublicationState {
		if !req.Listing.State.CanTransitionTo(req.Target) {
			return denied(ReasonInvalidTransition)
		}
	}

	changes := sanitize(req)

	// An edit that kept an explicit state change (admins only) must still
	// be a legal transition from the snapshot.
	if req.Action == ActionEditListing && changes.State != nil {
		if !req.Listing.State.CanTransitionTo(*changes.State) {
			return denied(ReasonInvalidTransition)
		}
	}

	return Outcome{Allowed: true, Changes: changes}
}

// sanitize strips requested fields the role may not touch and narrows the
// change-set to what the action is about. A moderator edit that also tries
// to set the publication state loses that field silently; the rest of the
// payload is preserved unchanged.
func sanitize(req Request) ChangeSet {
	switch req.Action {
	case ActionEditListing:
		out := req.Changes
		if req.Identity.Role != domain.RoleAdmin {
			out.State = nil
		}
		return out
	case ActionSetFeatured:
		return ChangeSet{Featured: req.Changes.Featured}
	case ActionSetPublicationState:
		target := req.Target
		return ChangeSet{State: &target}
	}
	return ChangeSet{}
}
