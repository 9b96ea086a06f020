package policy

import "github.com/ray-remotestate/restro-pos/models"

type Page string

const (
	PageDashboard Page = "dashboard"
	PageTables    Page = "tables"
	PageMenu      Page = "menu"
	PageOrders    Page = "orders"
	PageKitchen   Page = "kitchen"
	PageBookings  Page = "bookings"
	PageBills     Page = "bills"
	PageReports   Page = "reports"
	PageStaff     Page = "staff"
)

type Dashboard string

const (
	DashboardManager Dashboard = "manager"
	DashboardCashier Dashboard = "cashier"
	DashboardKitchen Dashboard = "kitchen"
	DashboardWaiter  Dashboard = "waiter"
)

// DashboardFor selects the landing view for role.
func DashboardFor(role models.Role) (Dashboard, bool) {
	switch role {
	case models.RoleOwner, models.RoleManager:
		return DashboardManager, true
	case models.RoleCashier:
		return DashboardCashier, true
	case models.RoleChef:
		return DashboardKitchen, true
	case models.RoleStaff:
		return DashboardWaiter, true
	}
	return "", false
}

// Pages returns the navigation entries role can open, in menu order.
func Pages(role models.Role) []Page {
	switch role {
	case models.RoleOwner, models.RoleManager:
		return []Page{PageDashboard, PageTables, PageMenu, PageOrders, PageKitchen, PageBookings, PageBills, PageReports, PageStaff}
	case models.RoleCashier:
		return []Page{PageDashboard, PageTables, PageOrders, PageBookings, PageBills}
	case models.RoleChef:
		return []Page{PageDashboard, PageKitchen, PageMenu}
	case models.RoleStaff:
		return []Page{PageDashboard, PageTables, PageOrders, PageBookings}
	}
	return nil
}
