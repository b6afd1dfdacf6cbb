package authz

import (
	"testing"

	"github.com/listado/marketplace-api/internal/core/domain"
)

var allActions = []Action{
	ActionViewOwnListings,
	ActionViewAllListings,
	ActionCreateListing,
	ActionEditListing,
	ActionDeleteListing,
	ActionSetPublicationState,
	ActionSetFeatured,
	ActionChangeAccountRole,
	ActionDeleteAccount,
}

func TestEvaluate_UserHasNoCapabilities(t *testing.T) {
	for _, action := range allActions {
		d := Evaluate(domain.RoleUser, action, domain.StateUnpublished)
		if d.Allowed {
			t.Errorf("user must not be allowed %q", action)
		}
		if d.Reason != ReasonInsufficientRole {
			t.Errorf("user %q: expected reason %q, got %q", action, ReasonInsufficientRole, d.Reason)
		}
	}
}

func TestEvaluate_AdminAllowedEverything(t *testing.T) {
	for _, action := range allActions {
		for _, target := range []domain.PublicationState{
			domain.StatePending, domain.StatePublished, domain.StateRejected, domain.StateUnpublished,
		} {
			if d := Evaluate(domain.RoleAdmin, action, target); !d.Allowed {
				t.Errorf("admin must be allowed %q (target %q), denied with %q", action, target, d.Reason)
			}
		}
	}
}

func TestEvaluate_ModeratorCapabilities(t *testing.T) {
	allowed := map[Action]bool{
		ActionViewOwnListings: true,
		ActionCreateListing:   true,
		ActionEditListing:     true,
		ActionDeleteListing:   true,
		ActionSetFeatured:     true,
	}

	for _, action := range allActions {
		if action == ActionSetPublicationState {
			continue // target-dependent, covered below
		}
		d := Evaluate(domain.RoleModerator, action, "")
		if d.Allowed != allowed[action] {
			t.Errorf("moderator %q: allowed=%v, want %v", action, d.Allowed, allowed[action])
		}
		if !d.Allowed && d.Reason != ReasonInsufficientRole {
			t.Errorf("moderator %q: expected reason %q, got %q", action, ReasonInsufficientRole, d.Reason)
		}
	}
}

func TestEvaluate_ModeratorMayOnlyWithdraw(t *testing.T) {
	// Approval and rejection are never derivable from ownership.
	for _, target := range []domain.PublicationState{
		domain.StatePublished, domain.StateRejected, domain.StatePending,
	} {
		d := Evaluate(domain.RoleModerator, ActionSetPublicationState, target)
		if d.Allowed {
			t.Errorf("moderator must not set publication state to %q", target)
		}
		if d.Reason != ReasonInsufficientRole {
			t.Errorf("target %q: expected %q, got %q", target, ReasonInsufficientRole, d.Reason)
		}
	}

	if d := Evaluate(domain.RoleModerator, ActionSetPublicationState, domain.StateUnpublished); !d.Allowed {
		t.Errorf("moderator must be allowed to withdraw (target unpublished), denied with %q", d.Reason)
	}
}

func TestEvaluate_UnknownRole(t *testing.T) {
	d := Evaluate(domain.Role("superuser"), ActionCreateListing, "")
	if d.Allowed {
		t.Fatal("unknown role must be denied")
	}
	if d.Reason != ReasonNotAuthenticated {
		t.Fatalf("expected %q, got %q", ReasonNotAuthenticated, d.Reason)
	}
}

func TestInitialState(t *testing.T) {
	cases := []struct {
		role               domain.Role
		publishImmediately bool
		want               domain.PublicationState
	}{
		{domain.RoleModerator, false, domain.StatePending},
		{domain.RoleModerator, true, domain.StatePending}, // no self-approval on create
		{domain.RoleAdmin, false, domain.StatePending},
		{domain.RoleAdmin, true, domain.StatePublished},
	}

	for _, tc := range cases {
		got := InitialState(tc.role, tc.publishImmediately)
		if got != tc.want {
			t.Errorf("InitialState(%s, %v): expected %q, got %q", tc.role, tc.publishImmediately, tc.want, got)
		}
	}
}
