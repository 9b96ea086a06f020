package policy

import "github.com/ray-remotestate/restro-pos/models"

type Permission string

const (
	CreateOrder    Permission = "orders:create"
	ViewOrders     Permission = "orders:view"
	ManageTables   Permission = "tables:manage"
	SetTableStatus Permission = "tables:status"
	ViewTables     Permission = "tables:view"
	ManageMenu     Permission = "menu:manage"
	ViewMenu       Permission = "menu:view"
	ManageBookings Permission = "bookings:manage"
	GenerateBill   Permission = "bills:create"
	ViewBills      Permission = "bills:view"
	DeleteBill     Permission = "bills:delete"
	ViewReports    Permission = "reports:view"
	ManageStaff    Permission = "staff:manage"
	InviteOwner    Permission = "staff:invite-owner"
)

// Permissions lists every permission.
var Permissions = []Permission{
	CreateOrder, ViewOrders, ManageTables, SetTableStatus, ViewTables, ManageMenu, ViewMenu,
	ManageBookings, GenerateBill, ViewBills, DeleteBill, ViewReports, ManageStaff, InviteOwner,
}

// Allowed reports whether role holds perm.
func Allowed(role models.Role, perm Permission) bool {
	switch role {
	case models.RoleOwner:
		return true
	case models.RoleManager:
		return perm != InviteOwner
	case models.RoleCashier:
		switch perm {
		case CreateOrder, ViewOrders, ViewTables, ViewMenu, ManageBookings, GenerateBill, ViewBills:
			return true
		}
	case models.RoleChef:
		switch perm {
		case ViewOrders, ViewMenu:
			return true
		}
	case models.RoleStaff:
		switch perm {
		case CreateOrder, ViewOrders, ViewTables, SetTableStatus, ViewMenu, ManageBookings:
			return true
		}
	}
	return false
}

// RolesWith returns the roles holding perm.
func RolesWith(perm Permission) []models.Role {
	var out []models.Role
	for _, r := range models.Roles {
		if Allowed(r, perm) {
			out = append(out, r)
		}
	}
	return out
}
