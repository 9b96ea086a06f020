package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
	RoleChef    Role = "chef"
	RoleStaff   Role = "staff"
)

// Roles lists every role in declaration order.
var Roles = []Role{RoleOwner, RoleManager, RoleCashier, RoleChef, RoleStaff}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleCashier, RoleChef, RoleStaff:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type StaffStatus string

const (
	StaffPending StaffStatus = "pending"
	StaffActive  StaffStatus = "active"
)

func (s StaffStatus) IsValid() bool {
	return s == StaffPending || s == StaffActive
}

// Staff is a person who can sign in to one business.
type Staff struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	BusinessID uuid.UUID   `db:"business_id" json:"business_id"`
	Email      string      `db:"email" json:"email"`
	Name       string      `db:"name" json:"name"`
	Role       Role        `db:"role" json:"role"`
	EmployeeID string      `db:"employee_id" json:"employee_id"`
	Status     StaffStatus `db:"status" json:"status"`
	Password   string      `db:"password" json:"-"`
	CreatedBy  uuid.UUID   `db:"created_by" json:"created_by"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// Actor identifies who performs an action.
type Actor struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	Name       string
	Role       Role
}
