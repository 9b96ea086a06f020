// Package policy decides what each role may see and do.
//
// Every switch in this package lists all roles explicitly. Adding a role to
// models.Roles without extending these switches makes the new role fall through
// to the deny branch, and TestEveryRoleIsCovered fails.
package policy

import (
	"errors"
	"fmt"

	"github.com/ray-remotestate/restro-pos/models"
)

var (
	ErrNotPermitted = errors.New("not permitted")
	ErrTerminal     = errors.New("order is already completed")
)

// actingRole maps a role to the role whose transition rights it uses.
// Owners work from the manager dashboard.
func actingRole(role models.Role) models.Role {
	if role == models.RoleOwner {
		return models.RoleManager
	}
	return role
}

// MayAdvanceFrom reports whether role may move an order out of status.
func MayAdvanceFrom(role models.Role, status models.OrderStatus) bool {
	switch actingRole(role) {
	case models.RoleManager:
		switch status {
		case models.StatusPending, models.StatusConfirmed, models.StatusPreparing, models.StatusReady, models.StatusServed:
			return true
		}
	case models.RoleCashier:
		return status == models.StatusPending
	case models.RoleChef:
		return status == models.StatusConfirmed || status == models.StatusPreparing
	case models.RoleStaff:
		return status == models.StatusReady || status == models.StatusServed
	}
	return false
}

// NextStatus returns the status role would move an order to from current.
func NextStatus(role models.Role, current models.OrderStatus) (models.OrderStatus, error) {
	if !current.IsValid() {
		return "", fmt.Errorf("unknown order status %q", current)
	}
	next, ok := current.Next()
	if !ok {
		return "", ErrTerminal
	}
	if !MayAdvanceFrom(role, current) {
		return "", fmt.Errorf("%w: %s cannot advance an order from %s", ErrNotPermitted, role, current)
	}
	return next, nil
}

// AdvanceableFrom lists the statuses role may advance from, in sequence order.
func AdvanceableFrom(role models.Role) []models.OrderStatus {
	var out []models.OrderStatus
	for _, st := range models.OrderSequence {
		if MayAdvanceFrom(role, st) {
			out = append(out, st)
		}
	}
	return out
}
