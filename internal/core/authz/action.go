// Package authz is the authorization and moderation core: given an
// identity and an action on a resource, is it allowed, and what change-set
// may actually be applied. Every mutating entry point calls Decide instead
// of re-implementing role checks inline. The package is pure: no I/O, no
// shared state, safe for concurrent use.
package authz

// Action names an operation subject to authorization.
type Action string

const (
	ActionViewOwnListings     Action = "view_own_listings"
	ActionViewAllListings     Action = "view_all_listings"
	ActionCreateListing       Action = "create_listing"
	ActionEditListing         Action = "edit_listing"
	ActionDeleteListing       Action = "delete_listing"
	ActionSetPublicationState Action = "set_publication_state"
	ActionSetFeatured         Action = "set_featured"
	ActionChangeAccountRole   Action = "change_account_role"
	ActionDeleteAccount       Action = "delete_account"
)

// RequiresListing reports whether the action targets a specific listing
// instance and therefore needs a snapshot to decide against.
func (a Action) RequiresListing() bool {
	switch a {
	case ActionEditListing, ActionDeleteListing, ActionSetPublicationState, ActionSetFeatured:
		return true
	}
	return false
}

// RequiresAccount reports whether the action targets a specific account.
func (a Action) RequiresAccount() bool {
	switch a {
	case ActionChangeAccountRole, ActionDeleteAccount:
		return true
	}
	return false
}
