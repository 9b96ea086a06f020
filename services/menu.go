package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/restro-pos/cache"
	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
	"github.com/ray-remotestate/restro-pos/store"
)

type MenuItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available"`
	ImageURL    string          `json:"image_url"`
}

func (in *MenuItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	if !in.Price.IsPositive() {
		return invalid("price", "must be greater than zero")
	}
	return nil
}

type MenuService struct {
	store  store.Store
	events events.Publisher
	cache  *cache.Cache
	now    func() time.Time
}

func menuPrefix(businessID uuid.UUID) string {
	return "menu:" + businessID.String() + ":"
}

func (s *MenuService) Create(ctx context.Context, actor models.Actor, in MenuItemInput) (*models.MenuItem, error) {
	if err := authorize(actor, policy.ManageMenu); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		ID:          uuid.New(),
		BusinessID:  actor.BusinessID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
		ImageURL:    in.ImageURL,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateMenuItem(ctx, item); err != nil {
		return nil, fromStore(err, "create menu item")
	}
	s.cache.InvalidatePrefix(menuPrefix(actor.BusinessID))
	events.Notify(ctx, s.events, events.Menu, events.Created, actor.BusinessID, item.ID)
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in MenuItemInput) (*models.MenuItem, error) {
	if err := authorize(actor, policy.ManageMenu); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.store.GetMenuItem(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, fromStore(err, "get menu item")
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Category = strings.TrimSpace(in.Category)
	item.Price = in.Price
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	item.ImageURL = in.ImageURL
	if err := s.store.UpdateMenuItem(ctx, item); err != nil {
		return nil, fromStore(err, "update menu item")
	}
	s.cache.InvalidatePrefix(menuPrefix(actor.BusinessID))
	events.Notify(ctx, s.events, events.Menu, events.Updated, actor.BusinessID, item.ID)
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if err := authorize(actor, policy.ManageMenu); err != nil {
		return err
	}
	if err := s.store.DeleteMenuItem(ctx, actor.BusinessID, id); err != nil {
		return fromStore(err, "delete menu item")
	}
	s.cache.InvalidatePrefix(menuPrefix(actor.BusinessID))
	events.Notify(ctx, s.events, events.Menu, events.Deleted, actor.BusinessID, id)
	return nil
}

func (s *MenuService) List(ctx context.Context, actor models.Actor) ([]models.MenuItem, error) {
	if err := authorize(actor, policy.ViewMenu); err != nil {
		return nil, err
	}
	key := menuPrefix(actor.BusinessID) + "all"
	if items, ok := cache.GetAs[[]models.MenuItem](s.cache, key); ok {
		return items, nil
	}
	items, err := s.store.ListMenuItems(ctx, actor.BusinessID)
	if err != nil {
		return nil, fromStore(err, "list menu items")
	}
	s.cache.Set(key, items)
	return items, nil
}
