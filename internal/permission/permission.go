// Package permission defines the permission values attached to commands
// and the authority capability that evaluates them against a sender.
//
// A Permission is either empty (everyone passes), a named atomic
// permission, or a disjunction of constituents built with AnyOf. The
// dispatch tree aggregates permissions up the node chain so that a sender
// is allowed to descend into a subtree as long as at least one command
// below it is available to them.
package permission

import "strings"

// Permission restricts who may execute a command. The zero value is the
// empty permission, which every sender satisfies.
type Permission struct {
	name string
	any  []Permission
}

// Empty returns the permission that every sender satisfies.
func Empty() Permission {
	return Permission{}
}

// Of returns a named atomic permission.
func Of(name string) Permission {
	return Permission{name: name}
}

// AnyOf returns the disjunction of the given permissions: a sender passes
// if they pass any constituent. Nested disjunctions are flattened and
// duplicate constituents removed. AnyOf of a single permission returns
// that permission unchanged.
func AnyOf(permissions ...Permission) Permission {
	var flat []Permission
	seen := make(map[string]bool)
	var collect func(p Permission)
	collect = func(p Permission) {
		if len(p.any) > 0 {
			for _, constituent := range p.any {
				collect(constituent)
			}
			return
		}
		key := p.name
		if !seen[key] {
			seen[key] = true
			flat = append(flat, p)
		}
	}
	for _, p := range permissions {
		collect(p)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Permission{any: flat}
}

// Name returns the atomic permission name, or "" for empty and compound
// permissions.
func (p Permission) Name() string {
	return p.name
}

// Constituents returns the members of a disjunction, or nil for atomic
// and empty permissions.
func (p Permission) Constituents() []Permission {
	return p.any
}

// IsEmpty reports whether the permission places no restriction at all.
func (p Permission) IsEmpty() bool {
	return p.name == "" && len(p.any) == 0
}

// String renders the permission for error messages and logs.
func (p Permission) String() string {
	if p.IsEmpty() {
		return "<empty>"
	}
	if len(p.any) == 0 {
		return p.name
	}
	parts := make([]string, len(p.any))
	for i, constituent := range p.any {
		parts[i] = constituent.String()
	}
	return "anyOf(" + strings.Join(parts, ", ") + ")"
}

// Authority answers atomic permission checks for a sender. Compound
// permissions are decomposed by Allows before the authority is consulted.
type Authority interface {
	// Has reports whether the sender holds the named atomic permission.
	Has(sender any, permission string) bool
}

// AuthorityFunc adapts a function to the Authority interface.
type AuthorityFunc func(sender any, permission string) bool

// Has calls the wrapped function.
func (f AuthorityFunc) Has(sender any, permission string) bool {
	return f(sender, permission)
}

// AllowAll is the authority that grants every permission.
var AllowAll Authority = AuthorityFunc(func(any, string) bool { return true })

// Allows reports whether the sender satisfies p under the given authority.
// Empty permissions always pass; disjunctions pass if any constituent does.
func Allows(authority Authority, sender any, p Permission) bool {
	if p.IsEmpty() {
		return true
	}
	if len(p.any) > 0 {
		for _, constituent := range p.any {
			if Allows(authority, sender, constituent) {
				return true
			}
		}
		return false
	}
	return authority.Has(sender, p.name)
}
