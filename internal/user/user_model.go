package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RolePlayer    Role = "player"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole converts external input to a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RolePlayer, RoleOrganizer, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Capability names one permission flag.
type Capability string

const (
	CanCreateMatch Capability = "canCreateMatch"
	CanEditMatch   Capability = "canEditMatch"
	CanDeleteMatch Capability = "canDeleteMatch"
	CanManageUsers Capability = "canManageUsers"
)

type Permissions struct {
	CanCreateMatch bool `json:"can_create_match"`
	CanEditMatch   bool `json:"can_edit_match"`
	CanDeleteMatch bool `json:"can_delete_match"`
	CanManageUsers bool `json:"can_manage_users"`
}

// Allows reports the flag for capability. Unknown capabilities are never allowed.
func (p Permissions) Allows(capability Capability) bool {
	switch capability {
	case CanCreateMatch:
		return p.CanCreateMatch
	case CanEditMatch:
		return p.CanEditMatch
	case CanDeleteMatch:
		return p.CanDeleteMatch
	case CanManageUsers:
		return p.CanManageUsers
	default:
		return false
	}
}

// GetRolePermissions returns the fixed permission set of role.
// It panics on a role outside the enumeration; use ParseRole on untrusted input.
func GetRolePermissions(role Role) Permissions {
	switch role {
	case RoleAdmin:
		return Permissions{
			CanCreateMatch: true,
			CanEditMatch:   true,
			CanDeleteMatch: true,
			CanManageUsers: true,
		}
	case RoleOrganizer:
		return Permissions{
			CanCreateMatch: true,
			CanEditMatch:   true,
		}
	case RolePlayer:
		return Permissions{}
	default:
		panic(fmt.Sprintf("user: no permissions defined for role %q", role))
	}
}

// UpdateRoleRequest is the payload of PUT /me/role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=player organizer admin"`
}

// MeResponse is the current user with its derived permissions.
type MeResponse struct {
	User        User        `json:"user"`
	Permissions Permissions `json:"permissions"`
}
