// Package services implements the restaurant workflows on top of a store.
//
// Each operation authorizes the actor, validates input, then issues independent
// writes. Side effects on other records (table status, change events) are best
// effort: once the primary write succeeds, their failures are logged, not returned.
package services

import (
	"time"

	"github.com/ray-remotestate/restro-pos/billing"
	"github.com/ray-remotestate/restro-pos/cache"
	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/store"
)

type Deps struct {
	Store      store.Store
	Events     events.Publisher
	Cache      *cache.Cache
	Calculator *billing.Calculator
	Now        func() time.Time
}

type Services struct {
	Businesses *BusinessService
	Staff      *StaffService
	Tables     *TableService
	Occupancy  *Occupancy
	Menu       *MenuService
	Orders     *OrderService
	Bills      *BillService
	Bookings   *BookingService
	Reports    *ReportService
}

func New(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Cache == nil {
		d.Cache = cache.New(30 * time.Second)
	}
	if d.Calculator == nil {
		d.Calculator = billing.NewCalculator(nil)
	}

	occ := &Occupancy{store: d.Store, events: d.Events}
	return &Services{
		Businesses: &BusinessService{store: d.Store, now: d.Now},
		Staff:      &StaffService{store: d.Store, events: d.Events, now: d.Now},
		Tables:     &TableService{store: d.Store, events: d.Events, now: d.Now},
		Occupancy:  occ,
		Menu:       &MenuService{store: d.Store, events: d.Events, cache: d.Cache, now: d.Now},
		Orders:     &OrderService{store: d.Store, events: d.Events, occupancy: occ, now: d.Now},
		Bills:      &BillService{store: d.Store, events: d.Events, calc: d.Calculator, now: d.Now},
		Bookings:   &BookingService{store: d.Store, events: d.Events, occupancy: occ, now: d.Now},
		Reports:    &ReportService{store: d.Store, now: d.Now},
	}
}
