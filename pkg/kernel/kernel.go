// Package kernel holds the tiny shared types every module may depend on.
// Nothing in here may import another module.
package kernel

// UserID is the identity-provider subject for a user.
type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

// ============================================================================
// Request Locals Keys
// ============================================================================

const (
	// CurrentUserKey is the fiber locals key holding the resolved *auth.CurrentUser
	CurrentUserKey = "current_user"

	// SiteKey is the fiber locals key holding the verified *widget.Site
	SiteKey = "site"
)
