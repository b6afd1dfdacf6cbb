package domain

import "errors"

// Role is the closed set of privilege classes. Roles are not ordered on a
// single axis: a moderator has ownership-scoped rights an admin bypasses,
// while only an admin may approve publication or manage accounts. What a
// role may do is defined by the capability table in the authz package, not
// by comparing roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Identity describes the authenticated caller for a single request. It is
// built by the session middleware from a verified token, passed explicitly
// by value through the call chain, and discarded at request end. It is
// never read from ambient state and never trusted from a client-supplied
// header.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Authorization deny sentinels. The set is closed and every deny is
// terminal for the request; callers branch with errors.Is, never on
// message text.
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrInsufficientRole = errors.New("insufficient role")
var ErrNotOwner = errors.New("not the resource owner")
