package projections

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/restro-pos/models"
)

var base = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func order(status models.OrderStatus, table int, minutes int) models.Order {
	return models.Order{
		ID:          uuid.New(),
		TableNumber: table,
		Status:      status,
		CreatedAt:   base.Add(time.Duration(minutes) * time.Minute),
	}
}

func bill(total string, at time.Time) models.Bill {
	d := decimal.RequireFromString(total)
	return models.Bill{ID: uuid.New(), Subtotal: d, TaxAmount: decimal.Zero, Total: d, CreatedAt: at}
}

func statuses(orders []models.Order) []models.OrderStatus {
	out := make([]models.OrderStatus, len(orders))
	for i, o := range orders {
		out[i] = o.Status
	}
	return out
}

func TestKitchenQueueIsFIFO(t *testing.T) {
	orders := []models.Order{
		order(models.StatusPreparing, 1, 30),
		order(models.StatusPending, 2, 0),
		order(models.StatusConfirmed, 3, 10),
		order(models.StatusReady, 4, 5),
		order(models.StatusConfirmed, 5, 20),
	}
	q := KitchenQueue(orders)
	require.Len(t, q, 3)
	assert.Equal(t, 3, q[0].TableNumber)
	assert.Equal(t, 5, q[1].TableNumber)
	assert.Equal(t, 1, q[2].TableNumber)
}

func TestPartition(t *testing.T) {
	orders := []models.Order{
		order(models.StatusCompleted, 1, 0),
		order(models.StatusPending, 2, 5),
		order(models.StatusServed, 3, 1),
	}
	pending, active := Partition(orders)
	assert.Equal(t, []models.OrderStatus{models.StatusPending}, statuses(pending))
	assert.Equal(t, []models.OrderStatus{models.StatusServed, models.StatusPending}, statuses(active))
}

func TestBillableOrders(t *testing.T) {
	billed := order(models.StatusCompleted, 1, 0)
	open := order(models.StatusCompleted, 2, 1)
	serving := order(models.StatusServed, 3, 2)
	bills := []models.Bill{{OrderID: billed.ID}}

	got := BillableOrders([]models.Order{billed, open, serving}, bills)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].ID)
}

func TestDailySalesUsesViewerTimezone(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+30*60)

	// 20:00 UTC on the 18th is already the 19th in Kolkata.
	late := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	bills := []models.Bill{bill("100", late), bill("50.5", base)}

	utc := DailySales(bills, "2026-10-19", time.UTC)
	assert.Equal(t, 1, utc.Bills)
	assert.True(t, decimal.RequireFromString("50.5").Equal(utc.Total))

	local := DailySales(bills, "2026-10-19", kolkata)
	assert.Equal(t, 2, local.Bills)
	assert.True(t, decimal.RequireFromString("150.5").Equal(local.Total))
}

func TestMonthlySales(t *testing.T) {
	bills := []models.Bill{
		bill("10", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)),
		bill("20", time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC)),
		bill("5", time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)),
		bill("99", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
	days := MonthlySales(bills, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), time.UTC)
	require.Len(t, days, 28)
	assert.Equal(t, "2026-02-01", days[0].Date)
	assert.Equal(t, 2, days[0].Bills)
	assert.True(t, decimal.NewFromInt(30).Equal(days[0].Total))
	assert.Equal(t, 0, days[1].Bills)
	assert.True(t, decimal.NewFromInt(5).Equal(days[27].Total))

	sum := SumDays(days)
	assert.Equal(t, 3, sum.Bills)
	assert.True(t, decimal.NewFromInt(35).Equal(sum.Total))
}

func TestOrderHistory(t *testing.T) {
	orders := []models.Order{
		order(models.StatusCompleted, 1, 0),
		order(models.StatusCompleted, 2, 10),
		order(models.StatusPending, 1, 20),
		order(models.StatusCompleted, 1, 60*24),
	}
	got := OrderHistory(orders, HistoryFilter{Date: "2026-10-19", TableNumber: 1}, time.UTC)
	require.Len(t, got, 2)
	assert.Equal(t, models.StatusPending, got[0].Status)

	all := OrderHistory(orders, HistoryFilter{}, time.UTC)
	assert.Len(t, all, 4)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
}

func TestDashboard(t *testing.T) {
	orders := []models.Order{
		order(models.StatusPending, 1, 0),
		order(models.StatusPreparing, 2, 1),
		order(models.StatusReady, 3, 2),
		order(models.StatusCompleted, 4, 3),
	}
	tables := []models.Table{
		{Number: 1, Status: models.TableOccupied},
		{Number: 2, Status: models.TableAvailable},
		{Number: 3, Status: models.TableReserved},
	}
	bills := []models.Bill{bill("262.5", base), bill("10", base.AddDate(0, 0, -1))}

	b := Dashboard(orders, tables, bills, base.Add(time.Hour), time.UTC)
	assert.Len(t, b.Pending, 1)
	assert.Len(t, b.Active, 3)
	assert.Len(t, b.Kitchen, 1)
	assert.Len(t, b.Service, 1)
	assert.Equal(t, TableSummary{Total: 3, Available: 1, Occupied: 1, Reserved: 1}, b.Tables)
	assert.Equal(t, 1, b.TodayBills)
	assert.True(t, decimal.RequireFromString("262.5").Equal(b.TodaySales))
}

func TestBounds(t *testing.T) {
	start, end := DayBounds(base, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	start, end = MonthBounds(base, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), end)
}
