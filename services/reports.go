package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
	"github.com/ray-remotestate/restro-pos/projections"
	"github.com/ray-remotestate/restro-pos/store"
)

const MonthLayout = "2006-01"

// ReportService loads the records a view needs and hands them to projections.
type ReportService struct {
	store store.Store
	now   func() time.Time
}

type MonthReport struct {
	Month string                 `json:"month"`
	Days  []projections.DaySales `json:"days"`
	Total projections.DaySales   `json:"total"`
}

// Dashboard builds the landing board for the actor's business as of now in loc.
func (s *ReportService) Dashboard(ctx context.Context, actor models.Actor, loc *time.Location) (*projections.Board, error) {
	loc = orUTC(loc)
	if err := authorize(actor, policy.ViewOrders); err != nil {
		return nil, err
	}
	now := s.now()
	orders, err := s.store.ListOrders(ctx, actor.BusinessID, store.OrderFilter{Statuses: activeStatuses})
	if err != nil {
		return nil, fromStore(err, "list orders")
	}
	var tables []models.Table
	if policy.Allowed(actor.Role, policy.ViewTables) {
		if tables, err = s.store.ListTables(ctx, actor.BusinessID); err != nil {
			return nil, fromStore(err, "list tables")
		}
	}
	var bills []models.Bill
	if policy.Allowed(actor.Role, policy.ViewBills) {
		from, to := projections.DayBounds(now, loc)
		bills, err = s.store.ListBills(ctx, actor.BusinessID, store.BillFilter{CreatedFrom: from, CreatedTo: to})
		if err != nil {
			return nil, fromStore(err, "list bills")
		}
	}
	board := projections.Dashboard(orders, tables, bills, now, loc)
	return &board, nil
}

func (s *ReportService) Kitchen(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	if err := authorize(actor, policy.ViewOrders); err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, actor.BusinessID, store.OrderFilter{
		Statuses: []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing},
	})
	if err != nil {
		return nil, fromStore(err, "list orders")
	}
	return projections.KitchenQueue(orders), nil
}

// DailySales reports one calendar day; an empty date means today.
func (s *ReportService) DailySales(ctx context.Context, actor models.Actor, date string, loc *time.Location) (*projections.DaySales, []models.Bill, error) {
	loc = orUTC(loc)
	if err := authorize(actor, policy.ViewReports); err != nil {
		return nil, nil, err
	}
	day := s.now().In(loc)
	if date != "" {
		parsed, err := time.ParseInLocation(DateLayout, date, loc)
		if err != nil {
			return nil, nil, invalid("date", "must be YYYY-MM-DD")
		}
		day = parsed
	}
	from, to := projections.DayBounds(day, loc)
	bills, err := s.store.ListBills(ctx, actor.BusinessID, store.BillFilter{CreatedFrom: from, CreatedTo: to})
	if err != nil {
		return nil, nil, fromStore(err, "list bills")
	}
	sales := projections.DailySales(bills, projections.DayKey(day, loc), loc)
	return &sales, bills, nil
}

// MonthlySales reports each day of a month ("2006-01"); an empty month means the current one.
func (s *ReportService) MonthlySales(ctx context.Context, actor models.Actor, month string, loc *time.Location) (*MonthReport, error) {
	loc = orUTC(loc)
	if err := authorize(actor, policy.ViewReports); err != nil {
		return nil, err
	}
	ref := s.now().In(loc)
	if month != "" {
		parsed, err := time.ParseInLocation(MonthLayout, month, loc)
		if err != nil {
			return nil, invalid("month", "must be YYYY-MM")
		}
		ref = parsed
	}
	from, to := projections.MonthBounds(ref, loc)
	bills, err := s.store.ListBills(ctx, actor.BusinessID, store.BillFilter{CreatedFrom: from, CreatedTo: to})
	if err != nil {
		return nil, fromStore(err, "list bills")
	}
	days := projections.MonthlySales(bills, ref, loc)
	return &MonthReport{
		Month: ref.Format(MonthLayout),
		Days:  days,
		Total: projections.SumDays(days),
	}, nil
}

// OrderHistory lists orders filtered by day and table, newest first.
func (s *ReportService) OrderHistory(ctx context.Context, actor models.Actor, f projections.HistoryFilter, loc *time.Location) ([]models.Order, error) {
	loc = orUTC(loc)
	if err := authorize(actor, policy.ViewOrders); err != nil {
		return nil, err
	}
	sf := store.OrderFilter{TableNumber: f.TableNumber}
	if f.Date != "" {
		day, err := time.ParseInLocation(DateLayout, f.Date, loc)
		if err != nil {
			return nil, invalid("date", "must be YYYY-MM-DD")
		}
		sf.CreatedFrom, sf.CreatedTo = projections.DayBounds(day, loc)
	}
	if f.TableNumber < 0 {
		return nil, invalid("table", fmt.Sprintf("invalid table number %d", f.TableNumber))
	}
	orders, err := s.store.ListOrders(ctx, actor.BusinessID, sf)
	if err != nil {
		return nil, fromStore(err, "list orders")
	}
	return projections.OrderHistory(orders, f, loc), nil
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
