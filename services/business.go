package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/store"
	"github.com/ray-remotestate/restro-pos/utils"
)

type RegisterInput struct {
	BusinessName string `json:"business_name"`
	BusinessType string `json:"business_type"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	OwnerName    string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

type BusinessService struct {
	store store.Store
	now   func() time.Time
}

// Register creates a business together with its owner account.
func (s *BusinessService) Register(ctx context.Context, in RegisterInput) (*models.Business, *models.Staff, error) {
	if strings.TrimSpace(in.BusinessName) == "" {
		return nil, nil, invalid("business_name", "is required")
	}
	if strings.TrimSpace(in.OwnerName) == "" {
		return nil, nil, invalid("name", "is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	staffSvc := &StaffService{store: s.store, now: s.now}
	if err := staffSvc.emailFree(ctx, email); err != nil {
		return nil, nil, err
	}
	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	owner := &models.Staff{
		ID:        uuid.New(),
		Email:     email,
		Name:      strings.TrimSpace(in.OwnerName),
		Role:      models.RoleOwner,
		Status:    models.StaffActive,
		Password:  hashed,
		CreatedAt: now,
	}
	business := &models.Business{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(in.BusinessName),
		Type:      strings.TrimSpace(in.BusinessType),
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		OwnerID:   owner.ID,
		CreatedAt: now,
	}
	owner.BusinessID = business.ID
	owner.CreatedBy = owner.ID

	if err := s.store.RegisterBusiness(ctx, business, owner); err != nil {
		return nil, nil, fromStore(err, "register business")
	}
	return business, owner, nil
}

func (s *BusinessService) Get(ctx context.Context, actor models.Actor) (*models.Business, error) {
	b, err := s.store.GetBusiness(ctx, actor.BusinessID)
	if err != nil {
		return nil, fromStore(err, "get business")
	}
	return b, nil
}
