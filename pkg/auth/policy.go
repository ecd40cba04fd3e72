package auth

import (
	appErrors "karmdeep-backend/pkg/errors"
)

// Ownership describes how a policy treats resource ownership.
type Ownership int

const (
	// OwnershipNone means the operation is open to any allowed role.
	OwnershipNone Ownership = iota
	// OwnershipRequired means the caller must own the target resource;
	// admins pass regardless.
	OwnershipRequired
)

// Policy is the declarative authorization rule for one operation. Services
// declare a table of these instead of re-stating role checks per handler.
type Policy struct {
	// Roles allowed to perform the operation. Empty means any
	// authenticated principal.
	Roles []string
	// Ownership rule evaluated against the resource owner identifier.
	Ownership Ownership
	// Message returned on denial.
	Message string
}

// Authorize evaluates a policy against a principal and the owner of the
// target resource (empty for create-style operations with no target).
// It is a pure function: no I/O, no side effects.
func Authorize(p Principal, policy Policy, resourceOwnerID string) error {
	if len(policy.Roles) > 0 && !HasRole(p, policy.Roles...) {
		return appErrors.NewForbidden(policy.denialMessage())
	}
	if policy.Ownership == OwnershipRequired && !IsOwner(p, resourceOwnerID) && !IsAdmin(p) {
		return appErrors.NewForbidden(policy.denialMessage())
	}
	return nil
}

func (p Policy) denialMessage() string {
	if p.Message != "" {
		return p.Message
	}
	return "not authorized to perform this operation"
}
