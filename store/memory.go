package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/models"
)

// Memory is a Store kept in process memory. It backs tests and DATABASE_URL-less runs.
type Memory struct {
	mu         sync.RWMutex
	businesses map[uuid.UUID]models.Business
	staff      map[uuid.UUID]models.Staff
	tables     map[uuid.UUID]models.Table
	menu       map[uuid.UUID]models.MenuItem
	orders     map[uuid.UUID]models.Order
	bills      map[uuid.UUID]models.Bill
	bookings   map[uuid.UUID]models.Booking
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		businesses: make(map[uuid.UUID]models.Business),
		staff:      make(map[uuid.UUID]models.Staff),
		tables:     make(map[uuid.UUID]models.Table),
		menu:       make(map[uuid.UUID]models.MenuItem),
		orders:     make(map[uuid.UUID]models.Order),
		bills:      make(map[uuid.UUID]models.Bill),
		bookings:   make(map[uuid.UUID]models.Booking),
	}
}

func (m *Memory) RegisterBusiness(_ context.Context, b *models.Business, owner *models.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.businesses[b.ID]; ok {
		return ErrConflict
	}
	if _, ok := m.staff[owner.ID]; ok {
		return ErrConflict
	}
	if m.staffByEmailLocked(owner.Email) != nil {
		return ErrConflict
	}
	m.businesses[b.ID] = *b
	m.staff[owner.ID] = *owner
	return nil
}

func (m *Memory) GetBusiness(_ context.Context, id uuid.UUID) (*models.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.businesses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *Memory) CreateStaff(_ context.Context, s *models.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[s.ID]; ok {
		return ErrConflict
	}
	if m.staffByEmailLocked(s.Email) != nil {
		return ErrConflict
	}
	m.staff[s.ID] = *s
	return nil
}

func (m *Memory) staffByEmailLocked(email string) *models.Staff {
	for _, s := range m.staff {
		if strings.EqualFold(s.Email, email) {
			s := s
			return &s
		}
	}
	return nil
}

func (m *Memory) GetStaff(_ context.Context, id uuid.UUID) (*models.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.staff[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) GetStaffByEmail(_ context.Context, email string) (*models.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.staffByEmailLocked(email)
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Memory) ListStaff(_ context.Context, businessID uuid.UUID) ([]models.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Staff
	for _, s := range m.staff {
		if s.BusinessID == businessID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateStaff(_ context.Context, s *models.Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.staff[s.ID]
	if !ok || cur.BusinessID != s.BusinessID {
		return ErrNotFound
	}
	if other := m.staffByEmailLocked(s.Email); other != nil && other.ID != s.ID {
		return ErrConflict
	}
	m.staff[s.ID] = *s
	return nil
}

func (m *Memory) DeleteStaff(_ context.Context, businessID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.staff[id]
	if !ok || s.BusinessID != businessID {
		return ErrNotFound
	}
	delete(m.staff, id)
	return nil
}

func (m *Memory) CreateTable(_ context.Context, t *models.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tableByNumberLocked(t.BusinessID, t.Number) != nil {
		return ErrConflict
	}
	m.tables[t.ID] = *t
	return nil
}

func (m *Memory) tableByNumberLocked(businessID uuid.UUID, number int) *models.Table {
	for _, t := range m.tables {
		if t.BusinessID == businessID && t.Number == number {
			t := t
			return &t
		}
	}
	return nil
}

func (m *Memory) GetTable(_ context.Context, businessID, id uuid.UUID) (*models.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	if !ok || t.BusinessID != businessID {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *Memory) GetTableByNumber(_ context.Context, businessID uuid.UUID, number int) (*models.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t := m.tableByNumberLocked(businessID, number)
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

func (m *Memory) ListTables(_ context.Context, businessID uuid.UUID) ([]models.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Table
	for _, t := range m.tables {
		if t.BusinessID == businessID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *Memory) UpdateTable(_ context.Context, t *models.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.tables[t.ID]
	if !ok || cur.BusinessID != t.BusinessID {
		return ErrNotFound
	}
	if other := m.tableByNumberLocked(t.BusinessID, t.Number); other != nil && other.ID != t.ID {
		return ErrConflict
	}
	m.tables[t.ID] = *t
	return nil
}

func (m *Memory) SetTableStatus(_ context.Context, businessID uuid.UUID, number int, status models.TableStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.tableByNumberLocked(businessID, number)
	if t == nil {
		return ErrNotFound
	}
	t.Status = status
	m.tables[t.ID] = *t
	return nil
}

func (m *Memory) DeleteTable(_ context.Context, businessID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok || t.BusinessID != businessID {
		return ErrNotFound
	}
	delete(m.tables, id)
	return nil
}

func (m *Memory) CreateMenuItem(_ context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.menu[item.ID]; ok {
		return ErrConflict
	}
	m.menu[item.ID] = *item
	return nil
}

func (m *Memory) GetMenuItem(_ context.Context, businessID, id uuid.UUID) (*models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.menu[id]
	if !ok || item.BusinessID != businessID {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (m *Memory) ListMenuItems(_ context.Context, businessID uuid.UUID) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.MenuItem
	for _, item := range m.menu {
		if item.BusinessID == businessID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) UpdateMenuItem(_ context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.menu[item.ID]
	if !ok || cur.BusinessID != item.BusinessID {
		return ErrNotFound
	}
	m.menu[item.ID] = *item
	return nil
}

func (m *Memory) DeleteMenuItem(_ context.Context, businessID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.menu[id]
	if !ok || item.BusinessID != businessID {
		return ErrNotFound
	}
	delete(m.menu, id)
	return nil
}

func cloneOrder(o models.Order) models.Order {
	o.Items = o.Items.Clone()
	if o.Transitions != nil {
		tr := make(models.Transitions, len(o.Transitions))
		for k, v := range o.Transitions {
			tr[k] = v
		}
		o.Transitions = tr
	}
	return o
}

func (m *Memory) CreateOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; ok {
		return ErrConflict
	}
	m.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (m *Memory) GetOrder(_ context.Context, businessID, id uuid.UUID) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok || o.BusinessID != businessID {
		return nil, ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (m *Memory) ListOrders(_ context.Context, businessID uuid.UUID, f OrderFilter) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.BusinessID == businessID && f.Match(&o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) AdvanceOrder(_ context.Context, businessID, id uuid.UUID, from, to models.OrderStatus, tr models.Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.BusinessID != businessID {
		return ErrNotFound
	}
	if o.Status != from {
		return ErrConflict
	}
	o = cloneOrder(o)
	if o.Transitions == nil {
		o.Transitions = make(models.Transitions)
	}
	o.Status = to
	o.Transitions[to] = tr
	o.UpdatedAt = tr.At
	m.orders[id] = o
	return nil
}

func (m *Memory) CreateBill(_ context.Context, b *models.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bills[b.ID]; ok {
		return ErrConflict
	}
	bill := *b
	bill.Items = bill.Items.Clone()
	m.bills[b.ID] = bill
	return nil
}

func (m *Memory) GetBill(_ context.Context, businessID, id uuid.UUID) (*models.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bills[id]
	if !ok || b.BusinessID != businessID {
		return nil, ErrNotFound
	}
	b.Items = b.Items.Clone()
	return &b, nil
}

func (m *Memory) ListBills(_ context.Context, businessID uuid.UUID, f BillFilter) ([]models.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Bill
	for _, b := range m.bills {
		if b.BusinessID == businessID && f.Match(&b) {
			b.Items = b.Items.Clone()
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) DeleteBill(_ context.Context, businessID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bills[id]
	if !ok || b.BusinessID != businessID {
		return ErrNotFound
	}
	delete(m.bills, id)
	return nil
}

func (m *Memory) CreateBooking(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; ok {
		return ErrConflict
	}
	m.bookings[b.ID] = *b
	return nil
}

func (m *Memory) GetBooking(_ context.Context, businessID, id uuid.UUID) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok || b.BusinessID != businessID {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *Memory) ListBookings(_ context.Context, businessID uuid.UUID, f BookingFilter) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.BusinessID == businessID && f.Match(&b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *Memory) SetBookingStatus(_ context.Context, businessID, id uuid.UUID, status models.BookingStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.BusinessID != businessID {
		return ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = at
	m.bookings[id] = b
	return nil
}
