package authz

import "github.com/listado/marketplace-api/internal/core/domain"

// Owns reports whether the identity is the owner of a resource. This is the
// seam consulted before any moderator-initiated mutation; admins never
// reach it — the orchestrator bypasses ownership for them unconditionally.
func Owns(identity domain.Identity, ownerID string) bool {
	return identity.ID != "" && identity.ID == ownerID
}
