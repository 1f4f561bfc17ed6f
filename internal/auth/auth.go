// Package auth gates chapter operations by the caller's roster role.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Role is a chapter position.
type Role string

const (
	RoleTreasurer     Role = "treasurer"
	RolePresident     Role = "president"
	RoleVicePresident Role = "vice_president"
	RoleSecretary     Role = "secretary"
	RoleMember        Role = "member"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleTreasurer, RolePresident, RoleVicePresident, RoleSecretary, RoleMember:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsOfficer reports whether the role is an elected position.
func (r Role) IsOfficer() bool {
	return r != RoleMember && r != ""
}

// Permission is an action that may be restricted.
type Permission string

const (
	PermImport          Permission = "import statements"
	PermReview          Permission = "approve or reject requests"
	PermSetBalance      Permission = "set the balance"
	PermManageCommittee Permission = "manage committees"
	PermManageRoster    Permission = "manage the roster"
	PermSubmit          Permission = "submit requests"
	PermView            Permission = "view records"
)

// Member is a person on the chapter roster.
type Member struct {
	Name string
	Role Role
}

// IsTreasurer reports whether the member holds the treasurer position.
func (m Member) IsTreasurer() bool { return m.Role == RoleTreasurer }

// IsOfficer reports whether the member holds any officer position.
func (m Member) IsOfficer() bool { return m.Role.IsOfficer() }

// Can reports whether the member may perform p.
func (m Member) Can(p Permission) bool {
	switch p {
	case PermImport, PermReview, PermSetBalance:
		return m.IsTreasurer()
	case PermManageCommittee, PermManageRoster:
		return m.IsOfficer()
	case PermSubmit, PermView:
		return true
	}
	return false
}

var (
	// ErrUnknownMember means the name is not on the roster.
	ErrUnknownMember = errors.New("not on the chapter roster")
	// ErrForbidden means the member's role does not allow the action.
	ErrForbidden = errors.New("not allowed")
)

// Directory looks members up by name.
type Directory struct {
	members map[string]Member
}

// NewDirectory builds a directory. Every officer position may be held by
// one member only; members may repeat freely.
func NewDirectory(members []Member) (*Directory, error) {
	d := &Directory{members: make(map[string]Member, len(members))}
	holders := make(map[Role]string)
	for _, m := range members {
		if m.Role.IsOfficer() {
			if other, taken := holders[m.Role]; taken {
				return nil, fmt.Errorf("position %s is already held by %s", m.Role, other)
			}
			holders[m.Role] = m.Name
		}
		d.members[strings.ToLower(strings.TrimSpace(m.Name))] = m
	}
	return d, nil
}

// Lookup finds a member by name, ignoring case.
func (d *Directory) Lookup(name string) (Member, error) {
	m, ok := d.members[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Member{}, fmt.Errorf("%q: %w", name, ErrUnknownMember)
	}
	return m, nil
}

// Holder returns the member holding an officer position.
func (d *Directory) Holder(r Role) (Member, bool) {
	if !r.IsOfficer() {
		return Member{}, false
	}
	for _, m := range d.members {
		if m.Role == r {
			return m, true
		}
	}
	return Member{}, false
}

// Authorize looks the caller up and checks the permission.
func (d *Directory) Authorize(name string, p Permission) (Member, error) {
	m, err := d.Lookup(name)
	if err != nil {
		return Member{}, err
	}
	if !m.Can(p) {
		return Member{}, fmt.Errorf("%s (%s) may not %s: %w", m.Name, m.Role, p, ErrForbidden)
	}
	return m, nil
}
