// Package projections derives the role views from order, table and bill lists.
// Nothing here writes; every function returns new slices.
package projections

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/restro-pos/models"
)

const dayLayout = "2006-01-02"

// DayKey is the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dayLayout)
}

// DayBounds returns the start of the day of t in loc and the start of the next day.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// MonthBounds returns the first instant of t's month in loc and of the month after.
func MonthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

func filterOrders(orders []models.Order, keep func(*models.Order) bool) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for i := range orders {
		if keep(&orders[i]) {
			out = append(out, orders[i])
		}
	}
	return out
}

func oldestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
}

func newestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}

// KitchenQueue is every Confirmed or Preparing order, oldest first.
func KitchenQueue(orders []models.Order) []models.Order {
	out := filterOrders(orders, func(o *models.Order) bool {
		return o.Status == models.StatusConfirmed || o.Status == models.StatusPreparing
	})
	oldestFirst(out)
	return out
}

// ServiceQueue is what floor staff act on: Ready and Served orders, oldest first.
func ServiceQueue(orders []models.Order) []models.Order {
	out := filterOrders(orders, func(o *models.Order) bool {
		return o.Status == models.StatusReady || o.Status == models.StatusServed
	})
	oldestFirst(out)
	return out
}

// Partition splits orders into those awaiting dispatch and every order not yet Completed.
func Partition(orders []models.Order) (pending, active []models.Order) {
	pending = filterOrders(orders, func(o *models.Order) bool { return o.Status == models.StatusPending })
	active = filterOrders(orders, func(o *models.Order) bool { return !o.Status.IsTerminal() })
	oldestFirst(pending)
	oldestFirst(active)
	return pending, active
}

// BillableOrders is every Completed order without a bill, newest first.
func BillableOrders(orders []models.Order, bills []models.Bill) []models.Order {
	billed := make(map[uuid.UUID]struct{}, len(bills))
	for _, b := range bills {
		billed[b.OrderID] = struct{}{}
	}
	out := filterOrders(orders, func(o *models.Order) bool {
		_, done := billed[o.ID]
		return o.Status == models.StatusCompleted && !done
	})
	newestFirst(out)
	return out
}

type TableSummary struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Reserved  int `json:"reserved"`
}

func SummarizeTables(tables []models.Table) TableSummary {
	s := TableSummary{Total: len(tables)}
	for _, t := range tables {
		switch t.Status {
		case models.TableAvailable:
			s.Available++
		case models.TableOccupied:
			s.Occupied++
		case models.TableReserved:
			s.Reserved++
		}
	}
	return s
}

type DaySales struct {
	Date     string          `json:"date"`
	Bills    int             `json:"bills"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func (d *DaySales) add(b *models.Bill) {
	d.Bills++
	d.Subtotal = d.Subtotal.Add(b.Subtotal)
	d.Tax = d.Tax.Add(b.TaxAmount)
	d.Total = d.Total.Add(b.Total)
}

// DailySales totals the bills whose creation day in loc equals date.
func DailySales(bills []models.Bill, date string, loc *time.Location) DaySales {
	day := DaySales{Date: date, Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
	for i := range bills {
		if DayKey(bills[i].CreatedAt, loc) == date {
			day.add(&bills[i])
		}
	}
	return day
}

// MonthlySales returns one entry per calendar day of month's month, including empty days.
func MonthlySales(bills []models.Bill, month time.Time, loc *time.Location) []DaySales {
	start, end := MonthBounds(month, loc)
	var days []DaySales
	index := make(map[string]int)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := DayKey(d, loc)
		index[key] = len(days)
		days = append(days, DaySales{Date: key, Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero})
	}
	for i := range bills {
		if idx, ok := index[DayKey(bills[i].CreatedAt, loc)]; ok {
			days[idx].add(&bills[i])
		}
	}
	return days
}

// SumDays adds up a run of days.
func SumDays(days []DaySales) DaySales {
	total := DaySales{Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
	for _, d := range days {
		total.Bills += d.Bills
		total.Subtotal = total.Subtotal.Add(d.Subtotal)
		total.Tax = total.Tax.Add(d.Tax)
		total.Total = total.Total.Add(d.Total)
	}
	return total
}

type HistoryFilter struct {
	Date        string
	TableNumber int
}

// OrderHistory filters by calendar day and table, newest first.
func OrderHistory(orders []models.Order, f HistoryFilter, loc *time.Location) []models.Order {
	out := filterOrders(orders, func(o *models.Order) bool {
		if f.Date != "" && DayKey(o.CreatedAt, loc) != f.Date {
			return false
		}
		return f.TableNumber == 0 || o.TableNumber == f.TableNumber
	})
	newestFirst(out)
	return out
}

// Board is the manager and cashier dashboard.
type Board struct {
	Pending     []models.Order  `json:"pending"`
	Active      []models.Order  `json:"active"`
	Kitchen     []models.Order  `json:"kitchen"`
	Service     []models.Order  `json:"service"`
	Tables      TableSummary    `json:"tables"`
	TodayBills  int             `json:"today_bills"`
	TodaySales  decimal.Decimal `json:"today_sales"`
	GeneratedAt time.Time       `json:"generated_at"`
}

func Dashboard(orders []models.Order, tables []models.Table, bills []models.Bill, now time.Time, loc *time.Location) Board {
	pending, active := Partition(orders)
	today := DailySales(bills, DayKey(now, loc), loc)
	return Board{
		Pending:     pending,
		Active:      active,
		Kitchen:     KitchenQueue(orders),
		Service:     ServiceQueue(orders),
		Tables:      SummarizeTables(tables),
		TodayBills:  today.Bills,
		TodaySales:  today.Total,
		GeneratedAt: now,
	}
}
