package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/store"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) count(collection string, action events.Action) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Collection == collection && ev.Action == action {
			n++
		}
	}
	return n
}

type fixture struct {
	ctx    context.Context
	store  *store.Memory
	svc    *Services
	events *recorder
	now    time.Time

	owner   models.Actor
	manager models.Actor
	cashier models.Actor
	chef    models.Actor
	staff   models.Actor

	curry models.MenuItem
	naan  models.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:    context.Background(),
		store:  store.NewMemory(),
		events: &recorder{},
		now:    time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	f.svc = New(Deps{
		Store:  f.store,
		Events: f.events,
		Now:    func() time.Time { return f.now },
	})

	_, owner, err := f.svc.Businesses.Register(f.ctx, RegisterInput{
		BusinessName: "Spice Route",
		OwnerName:    "Ravi",
		Email:        "ravi@example.com",
		Password:     "secret123",
	})
	require.NoError(t, err)
	f.owner = models.Actor{UserID: owner.ID, BusinessID: owner.BusinessID, Name: owner.Name, Role: models.RoleOwner}
	f.manager = f.actor(models.RoleManager, "Meera")
	f.cashier = f.actor(models.RoleCashier, "Kabir")
	f.chef = f.actor(models.RoleChef, "Anil")
	f.staff = f.actor(models.RoleStaff, "Sana")

	for _, n := range []int{5, 7} {
		_, err := f.svc.Tables.Create(f.ctx, f.manager, TableInput{Number: n, Capacity: 4})
		require.NoError(t, err)
	}
	curry, err := f.svc.Menu.Create(f.ctx, f.manager, MenuItemInput{Name: "Paneer Curry", Category: "Mains", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)
	naan, err := f.svc.Menu.Create(f.ctx, f.manager, MenuItemInput{Name: "Butter Naan", Category: "Breads", Price: decimal.NewFromInt(50)})
	require.NoError(t, err)
	f.curry, f.naan = *curry, *naan
	return f
}

func (f *fixture) actor(role models.Role, name string) models.Actor {
	return models.Actor{UserID: uuid.New(), BusinessID: f.owner.BusinessID, Name: name, Role: role}
}

func (f *fixture) tableStatus(t *testing.T, number int) models.TableStatus {
	t.Helper()
	table, err := f.store.GetTableByNumber(f.ctx, f.owner.BusinessID, number)
	require.NoError(t, err)
	return table.Status
}

func (f *fixture) placeOrder(t *testing.T, table int) *models.Order {
	t.Helper()
	order, err := f.svc.Orders.Create(f.ctx, f.staff, CreateOrderInput{
		TableNumber: table,
		Items: []CartLine{
			{MenuItemID: f.curry.ID, Quantity: 2},
			{MenuItemID: f.naan.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) advance(t *testing.T, actor models.Actor, id uuid.UUID, want models.OrderStatus) {
	t.Helper()
	order, err := f.svc.Orders.Advance(f.ctx, actor, id, "")
	require.NoError(t, err)
	require.Equal(t, want, order.Status)
}

// completeOrder walks an order through every step with the roles allowed to take them.
func (f *fixture) completeOrder(t *testing.T, id uuid.UUID) {
	t.Helper()
	f.advance(t, f.manager, id, models.StatusConfirmed)
	f.advance(t, f.chef, id, models.StatusPreparing)
	f.advance(t, f.chef, id, models.StatusReady)
	f.advance(t, f.staff, id, models.StatusServed)
	f.advance(t, f.staff, id, models.StatusCompleted)
}

func TestPlaceOrderOccupiesTable(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t, 5)

	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.TableOccupied, f.tableStatus(t, 5))
	assert.Contains(t, order.Transitions, models.StatusPending)
	assert.Equal(t, 1, f.events.count(events.Orders, events.Created))
}

func TestOrderTotalIsFrozenAtCreation(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t, 5)

	_, err := f.svc.Menu.Update(f.ctx, f.manager, f.curry.ID, MenuItemInput{Name: "Paneer Curry", Price: decimal.NewFromInt(400)})
	require.NoError(t, err)

	stored, err := f.svc.Orders.Get(f.ctx, f.manager, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(250)))
	assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)))
}

func TestFullLifecycleReleasesTable(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t, 5)

	f.completeOrder(t, order.ID)

	stored, err := f.svc.Orders.Get(f.ctx, f.manager, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Len(t, stored.Transitions, len(models.OrderSequence))
	assert.Equal(t, models.RoleChef, stored.Transitions[models.StatusReady].Role)
	assert.Equal(t, models.TableAvailable, f.tableStatus(t, 5))

	_, err = f.svc.Orders.Advance(f.ctx, f.manager, order.ID, "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOtherActiveOrderKeepsTableOccupied(t *testing.T) {
	f := newFixture(t)
	first := f.placeOrder(t, 5)
	f.placeOrder(t, 5)

	f.completeOrder(t, first.ID)
	assert.Equal(t, models.TableOccupied, f.tableStatus(t, 5))
}

func TestAdvanceRejectedForRole(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t, 5)

	_, err := f.svc.Orders.Advance(f.ctx, f.chef, order.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)

	f.advance(t, f.owner, order.ID, models.StatusConfirmed)

	_, err = f.svc.Orders.Advance(f.ctx, f.cashier, order.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := f.svc.Orders.Get(f.ctx, f.manager, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

func TestAdvanceWithStaleExpectation(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t, 5)
	f.advance(t, f.manager, order.ID, models.StatusConfirmed)

	_, err := f.svc.Orders.Advance(f.ctx, f.manager, order.ID, models.StatusPending)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	unavailable := false
	_, err := f.svc.Menu.Update(f.ctx, f.manager, f.naan.ID, MenuItemInput{Name: "Butter Naan", Price: decimal.NewFromInt(50), IsAvailable: &unavailable})
	require.NoError(t, err)

	cases := map[string]CreateOrderInput{
		"no table":      {Items: []CartLine{{MenuItemID: f.curry.ID, Quantity: 1}}},
		"empty cart":    {TableNumber: 5},
		"zero qty":      {TableNumber: 5, Items: []CartLine{{MenuItemID: f.curry.ID}}},
		"unknown item":  {TableNumber: 5, Items: []CartLine{{MenuItemID: uuid.New(), Quantity: 1}}},
		"unavailable":   {TableNumber: 5, Items: []CartLine{{MenuItemID: f.naan.ID, Quantity: 1}}},
		"no such table": {TableNumber: 42, Items: []CartLine{{MenuItemID: f.curry.ID, Quantity: 1}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Orders.Create(f.ctx, f.staff, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err = f.svc.Orders.Create(f.ctx, f.chef, CreateOrderInput{TableNumber: 5, Items: []CartLine{{MenuItemID: f.curry.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, models.TableAvailable, f.tableStatus(t, 5))
}

func TestGenerateBill(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t, 5)

	_, err := f.svc.Bills.Generate(f.ctx, f.cashier, order.ID, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, ErrValidation, "only completed orders are billable")

	f.completeOrder(t, order.ID)

	billable, err := f.svc.Bills.Billable(f.ctx, f.cashier)
	require.NoError(t, err)
	require.Len(t, billable, 1)

	_, err = f.svc.Bills.Generate(f.ctx, f.cashier, order.ID, decimal.NewFromInt(7))
	assert.ErrorIs(t, err, ErrValidation)

	bill, err := f.svc.Bills.Generate(f.ctx, f.cashier, order.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Equal(t, "250", bill.Subtotal.String())
	assert.Equal(t, "12.5", bill.TaxAmount.String())
	assert.Equal(t, "262.5", bill.Total.String())
	assert.Len(t, bill.Items, 2)

	_, err = f.svc.Bills.Generate(f.ctx, f.cashier, order.ID, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, ErrConflict)

	billable, err = f.svc.Bills.Billable(f.ctx, f.cashier)
	require.NoError(t, err)
	assert.Empty(t, billable)

	assert.ErrorIs(t, f.svc.Bills.Delete(f.ctx, f.cashier, bill.ID), ErrForbidden)
	require.NoError(t, f.svc.Bills.Delete(f.ctx, f.manager, bill.ID))
	_, err = f.svc.Bills.Get(f.ctx, f.manager, bill.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingReservesAndReleasesTable(t *testing.T) {
	f := newFixture(t)
	in := CreateBookingInput{
		CustomerName: "Asha",
		Phone:        "9876543210",
		Date:         "2026-03-15",
		Time:         "19:30",
		PartySize:    4,
		TableNumber:  7,
	}
	first, err := f.svc.Bookings.Create(f.ctx, f.cashier, in)
	require.NoError(t, err)
	assert.Equal(t, models.TableReserved, f.tableStatus(t, 7))

	in.Time = "21:00"
	_, err = f.svc.Bookings.Create(f.ctx, f.staff, in)
	require.NoError(t, err)

	cancelled, err := f.svc.Bookings.Cancel(f.ctx, f.cashier, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Equal(t, models.TableAvailable, f.tableStatus(t, 7))

	_, err = f.svc.Bookings.Complete(f.ctx, f.cashier, first.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Bookings.Create(f.ctx, f.chef, in)
	assert.ErrorIs(t, err, ErrForbidden)

	bad := in
	bad.Date = "15/03/2026"
	_, err = f.svc.Bookings.Create(f.ctx, f.cashier, bad)
	assert.ErrorIs(t, err, ErrValidation)

	reserved, err := f.svc.Bookings.List(f.ctx, f.cashier, store.BookingFilter{Status: models.BookingReserved})
	require.NoError(t, err)
	assert.Len(t, reserved, 1)
}

func TestTables(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Tables.Create(f.ctx, f.manager, TableInput{Number: 5, Capacity: 2})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Tables.Create(f.ctx, f.staff, TableInput{Number: 9, Capacity: 2})
	assert.ErrorIs(t, err, ErrForbidden)

	table, err := f.store.GetTableByNumber(f.ctx, f.owner.BusinessID, 7)
	require.NoError(t, err)
	_, err = f.svc.Tables.SetStatus(f.ctx, f.staff, table.ID, models.TableOccupied)
	require.NoError(t, err)
	_, err = f.svc.Tables.SetStatus(f.ctx, f.staff, table.ID, "Dirty")
	assert.ErrorIs(t, err, ErrValidation)

	tables, summary, err := f.svc.Tables.List(f.ctx, f.cashier)
	require.NoError(t, err)
	assert.Len(t, tables, 2)
	assert.Equal(t, 1, summary.Occupied)
	assert.Equal(t, 1, summary.Available)
}

func TestMenuListIsCachedAndInvalidated(t *testing.T) {
	f := newFixture(t)

	items, err := f.svc.Menu.List(f.ctx, f.chef)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// A write behind the service's back is not seen until the cache is invalidated.
	require.NoError(t, f.store.CreateMenuItem(f.ctx, &models.MenuItem{ID: uuid.New(), BusinessID: f.owner.BusinessID, Name: "Lassi", Price: decimal.NewFromInt(60)}))
	items, err = f.svc.Menu.List(f.ctx, f.chef)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = f.svc.Menu.Create(f.ctx, f.owner, MenuItemInput{Name: "Kulfi", Price: decimal.NewFromInt(80)})
	require.NoError(t, err)
	items, err = f.svc.Menu.List(f.ctx, f.chef)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	_, err = f.svc.Menu.Create(f.ctx, f.cashier, MenuItemInput{Name: "Chai", Price: decimal.NewFromInt(20)})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Menu.Create(f.ctx, f.owner, MenuItemInput{Name: "Chai"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderPricesIgnoreAnotherInstancesMenuCache(t *testing.T) {
	f := newFixture(t)
	other := New(Deps{Store: f.store, Events: &recorder{}, Now: func() time.Time { return f.now }})

	// Warm the second instance's menu cache, then change the menu through the first.
	items, err := other.Menu.List(f.ctx, f.chef)
	require.NoError(t, err)
	require.Len(t, items, 2)

	unavailable := false
	_, err = f.svc.Menu.Update(f.ctx, f.manager, f.curry.ID, MenuItemInput{Name: "Paneer Curry", Price: decimal.NewFromInt(400)})
	require.NoError(t, err)
	_, err = f.svc.Menu.Update(f.ctx, f.manager, f.naan.ID, MenuItemInput{Name: "Butter Naan", Price: decimal.NewFromInt(50), IsAvailable: &unavailable})
	require.NoError(t, err)

	_, err = other.Orders.Create(f.ctx, f.staff, CreateOrderInput{TableNumber: 5, Items: []CartLine{{MenuItemID: f.naan.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrValidation)

	order, err := other.Orders.Create(f.ctx, f.staff, CreateOrderInput{TableNumber: 5, Items: []CartLine{{MenuItemID: f.curry.ID, Quantity: 1}}})
	require.NoError(t, err)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(400)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(400)))
}

func TestStaffInviteAndActivate(t *testing.T) {
	f := newFixture(t)

	invited, err := f.svc.Staff.Invite(f.ctx, f.manager, InviteStaffInput{Email: "Chef.Anil@Example.com", Name: "Anil", Role: "chef"})
	require.NoError(t, err)
	assert.Equal(t, models.StaffPending, invited.Status)
	assert.Equal(t, "chef.anil@example.com", invited.Email)

	_, err = f.svc.Staff.Authenticate(f.ctx, "chef.anil@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.Staff.Invite(f.ctx, f.owner, InviteStaffInput{Email: "chef.anil@example.com", Name: "Other", Role: "staff"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Staff.Invite(f.ctx, f.manager, InviteStaffInput{Email: "partner@example.com", Name: "Partner", Role: "owner"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Staff.Invite(f.ctx, f.cashier, InviteStaffInput{Email: "x@example.com", Name: "X", Role: "staff"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Staff.Invite(f.ctx, f.owner, InviteStaffInput{Email: "y@example.com", Name: "Y", Role: "admin"})
	assert.ErrorIs(t, err, ErrValidation)

	activated, err := f.svc.Staff.Activate(f.ctx, "chef.anil@example.com", "tandoor99")
	require.NoError(t, err)
	assert.Equal(t, models.StaffActive, activated.Status)

	_, err = f.svc.Staff.Activate(f.ctx, "chef.anil@example.com", "tandoor99")
	assert.ErrorIs(t, err, ErrConflict)

	signedIn, err := f.svc.Staff.Authenticate(f.ctx, "CHEF.ANIL@example.com", "tandoor99")
	require.NoError(t, err)
	assert.Equal(t, models.RoleChef, signedIn.Role)

	_, err = f.svc.Staff.Authenticate(f.ctx, "chef.anil@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	resolved, err := f.svc.Staff.Resolve(f.ctx, uuid.New(), "chef.anil@example.com")
	require.NoError(t, err)
	assert.Equal(t, invited.ID, resolved.ID)

	list, err := f.svc.Staff.List(f.ctx, f.manager)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Businesses.Register(f.ctx, RegisterInput{
		BusinessName: "Second",
		OwnerName:    "Ravi",
		Email:        "RAVI@example.com",
		Password:     "secret123",
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, _, err = f.svc.Businesses.Register(f.ctx, RegisterInput{BusinessName: "Third", OwnerName: "T", Email: "t@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSalesReports(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t, 5)
	f.completeOrder(t, order.ID)
	_, err := f.svc.Bills.Generate(f.ctx, f.cashier, order.ID, decimal.NewFromInt(5))
	require.NoError(t, err)

	sales, bills, err := f.svc.Reports.DailySales(f.ctx, f.manager, "2026-03-14", time.UTC)
	require.NoError(t, err)
	assert.Len(t, bills, 1)
	assert.Equal(t, "262.5", sales.Total.String())

	month, err := f.svc.Reports.MonthlySales(f.ctx, f.owner, "2026-03", time.UTC)
	require.NoError(t, err)
	assert.Len(t, month.Days, 31)
	assert.Equal(t, "262.5", month.Total.Total.String())

	_, _, err = f.svc.Reports.DailySales(f.ctx, f.cashier, "", time.UTC)
	assert.ErrorIs(t, err, ErrForbidden)

	// A nil location reports in UTC.
	sales, _, err = f.svc.Reports.DailySales(f.ctx, f.manager, "2026-03-14", nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", sales.Date)
	month, err = f.svc.Reports.MonthlySales(f.ctx, f.manager, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-03", month.Month)
	_, _, err = f.svc.Reports.DailySales(f.ctx, f.manager, "14-03-2026", time.UTC)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDashboardAndKitchen(t *testing.T) {
	f := newFixture(t)
	pending := f.placeOrder(t, 5)
	cooking := f.placeOrder(t, 7)
	f.advance(t, f.manager, cooking.ID, models.StatusConfirmed)

	kitchen, err := f.svc.Reports.Kitchen(f.ctx, f.chef)
	require.NoError(t, err)
	require.Len(t, kitchen, 1)
	assert.Equal(t, cooking.ID, kitchen[0].ID)

	board, err := f.svc.Reports.Dashboard(f.ctx, f.manager, time.UTC)
	require.NoError(t, err)
	require.Len(t, board.Pending, 1)
	assert.Equal(t, pending.ID, board.Pending[0].ID)
	// Pending orders are still on the active board.
	require.Len(t, board.Active, 2)
	assert.ElementsMatch(t, []uuid.UUID{pending.ID, cooking.ID}, []uuid.UUID{board.Active[0].ID, board.Active[1].ID})
	assert.Equal(t, 2, board.Tables.Occupied)
}
