package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
	"github.com/ray-remotestate/restro-pos/projections"
	"github.com/ray-remotestate/restro-pos/store"
)

type TableInput struct {
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Zone     string `json:"zone"`
}

func (in *TableInput) validate() error {
	if in.Number <= 0 {
		return invalid("number", "must be a positive number")
	}
	if in.Capacity <= 0 {
		return invalid("capacity", "must be at least 1")
	}
	return nil
}

type TableService struct {
	store  store.Store
	events events.Publisher
	now    func() time.Time
}

func (s *TableService) numberTaken(ctx context.Context, businessID uuid.UUID, number int, except uuid.UUID) error {
	t, err := s.store.GetTableByNumber(ctx, businessID, number)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return fromStore(err, "get table")
	case t.ID != except:
		return fmt.Errorf("%w: table %d already exists", ErrConflict, number)
	}
	return nil
}

func (s *TableService) Create(ctx context.Context, actor models.Actor, in TableInput) (*models.Table, error) {
	if err := authorize(actor, policy.ManageTables); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.numberTaken(ctx, actor.BusinessID, in.Number, uuid.Nil); err != nil {
		return nil, err
	}
	table := &models.Table{
		ID:         uuid.New(),
		BusinessID: actor.BusinessID,
		Number:     in.Number,
		Capacity:   in.Capacity,
		Status:     models.TableAvailable,
		Zone:       strings.TrimSpace(in.Zone),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.CreateTable(ctx, table); err != nil {
		return nil, fromStore(err, "create table")
	}
	events.Notify(ctx, s.events, events.Tables, events.Created, actor.BusinessID, table.ID)
	return table, nil
}

func (s *TableService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in TableInput) (*models.Table, error) {
	if err := authorize(actor, policy.ManageTables); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	table, err := s.store.GetTable(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, fromStore(err, "get table")
	}
	if table.Number != in.Number {
		if err := s.numberTaken(ctx, actor.BusinessID, in.Number, table.ID); err != nil {
			return nil, err
		}
	}
	table.Number = in.Number
	table.Capacity = in.Capacity
	table.Zone = strings.TrimSpace(in.Zone)
	if err := s.store.UpdateTable(ctx, table); err != nil {
		return nil, fromStore(err, "update table")
	}
	events.Notify(ctx, s.events, events.Tables, events.Updated, actor.BusinessID, table.ID)
	return table, nil
}

// SetStatus is the manual override. It does not consult orders or bookings.
func (s *TableService) SetStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status models.TableStatus) (*models.Table, error) {
	if err := authorize(actor, policy.SetTableStatus); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, invalid("status", fmt.Sprintf("unknown table status %q", status))
	}
	table, err := s.store.GetTable(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, fromStore(err, "get table")
	}
	if err := s.store.SetTableStatus(ctx, actor.BusinessID, table.Number, status); err != nil {
		return nil, fromStore(err, "set table status")
	}
	table.Status = status
	events.Notify(ctx, s.events, events.Tables, events.Updated, actor.BusinessID, table.ID)
	return table, nil
}

func (s *TableService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if err := authorize(actor, policy.ManageTables); err != nil {
		return err
	}
	if err := s.store.DeleteTable(ctx, actor.BusinessID, id); err != nil {
		return fromStore(err, "delete table")
	}
	events.Notify(ctx, s.events, events.Tables, events.Deleted, actor.BusinessID, id)
	return nil
}

func (s *TableService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Table, error) {
	if err := authorize(actor, policy.ViewTables); err != nil {
		return nil, err
	}
	table, err := s.store.GetTable(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, fromStore(err, "get table")
	}
	return table, nil
}

func (s *TableService) List(ctx context.Context, actor models.Actor) ([]models.Table, projections.TableSummary, error) {
	if err := authorize(actor, policy.ViewTables); err != nil {
		return nil, projections.TableSummary{}, err
	}
	tables, err := s.store.ListTables(ctx, actor.BusinessID)
	if err != nil {
		return nil, projections.TableSummary{}, fromStore(err, "list tables")
	}
	return tables, projections.SummarizeTables(tables), nil
}
