// Package policy holds the role-based authorization rules. The functions are
// pure; callers load whatever state (admin count, booking count) they need.
package policy

import "github.com/joshua-takyi/devevent/internal/errs"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor is the authenticated caller as seen by the policy.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsOwner reports whether userID is the actor's own id. Anonymous actors own
// nothing.
func (a Actor) IsOwner(userID string) bool {
	return a.ID != "" && a.ID == userID
}

// BookingRef is the part of a booking the policy needs. UserID is empty for
// bookings made without a session.
type BookingRef struct {
	UserID string
}

// RoleTarget is the user whose role is being changed.
type RoleTarget struct {
	ID   string
	Role string
}

func CanCancelBooking(actor Actor, booking BookingRef) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsOwner(booking.UserID)
}

// CheckChangeRole returns a forbidden error describing why actor may not set
// target's role to newRole, or nil when the change is allowed.
func CheckChangeRole(actor Actor, target RoleTarget, newRole string, adminCount int64) error {
	if !actor.IsAdmin() {
		return errs.Forbidden("Only admins can change user roles")
	}
	demotesAdmin := newRole == RoleUser && target.Role == RoleAdmin
	if demotesAdmin && actor.ID == target.ID {
		return errs.Forbidden("You cannot remove your own admin role")
	}
	if demotesAdmin && adminCount <= 1 {
		return errs.Forbidden("Cannot demote the last remaining admin")
	}
	return nil
}

func CanChangeRole(actor Actor, target RoleTarget, newRole string, adminCount int64) bool {
	return CheckChangeRole(actor, target, newRole, adminCount) == nil
}

func CanDeleteEvent(bookingCount int64) bool {
	return bookingCount == 0
}
