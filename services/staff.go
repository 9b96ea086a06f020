package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
	"github.com/ray-remotestate/restro-pos/store"
	"github.com/ray-remotestate/restro-pos/utils"
)

const minPasswordLength = 6

type InviteStaffInput struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
}

type UpdateStaffInput struct {
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	EmployeeID *string `json:"employee_id"`
}

type StaffService struct {
	store  store.Store
	events events.Publisher
	now    func() time.Time
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", invalid("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", invalid("email", "is not a valid address")
	}
	return email, nil
}

// emailFree is the duplicate check done before inserting a staff record.
func (s *StaffService) emailFree(ctx context.Context, email string) error {
	_, err := s.store.GetStaffByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return fromStore(err, "look up staff email")
	}
	return fmt.Errorf("%w: %s is already registered", ErrConflict, email)
}

// Invite adds a pending staff member who activates the account on first sign-in.
func (s *StaffService) Invite(ctx context.Context, actor models.Actor, in InviteStaffInput) (*models.Staff, error) {
	if err := authorize(actor, policy.ManageStaff); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("name", "is required")
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, invalid("role", err.Error())
	}
	if role == models.RoleOwner {
		if err := authorize(actor, policy.InviteOwner); err != nil {
			return nil, err
		}
	}
	if err := s.emailFree(ctx, email); err != nil {
		return nil, err
	}

	staff := &models.Staff{
		ID:         uuid.New(),
		BusinessID: actor.BusinessID,
		Email:      email,
		Name:       strings.TrimSpace(in.Name),
		Role:       role,
		EmployeeID: strings.TrimSpace(in.EmployeeID),
		Status:     models.StaffPending,
		CreatedBy:  actor.UserID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.CreateStaff(ctx, staff); err != nil {
		return nil, fromStore(err, "create staff")
	}
	events.Notify(ctx, s.events, events.Staff, events.Created, actor.BusinessID, staff.ID)
	return staff, nil
}

// Activate binds a password to a pending invitation found by email.
func (s *StaffService) Activate(ctx context.Context, email, password string) (*models.Staff, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	staff, err := s.store.GetStaffByEmail(ctx, email)
	if err != nil {
		return nil, fromStore(err, "look up invitation")
	}
	if staff.Status != models.StaffPending {
		return nil, fmt.Errorf("%w: account is already active", ErrConflict)
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	staff.Password = hashed
	staff.Status = models.StaffActive
	if err := s.store.UpdateStaff(ctx, staff); err != nil {
		return nil, fromStore(err, "activate staff")
	}
	events.Notify(ctx, s.events, events.Staff, events.Updated, staff.BusinessID, staff.ID)
	return staff, nil
}

// Authenticate checks an email and password against an active staff record.
func (s *StaffService) Authenticate(ctx context.Context, email, password string) (*models.Staff, error) {
	staff, err := s.store.GetStaffByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fromStore(err, "look up staff")
	}
	if staff.Status != models.StaffActive {
		return nil, fmt.Errorf("%w: account is not activated", ErrUnauthenticated)
	}
	if !utils.CheckPassword(staff.Password, password) {
		return nil, ErrUnauthenticated
	}
	return staff, nil
}

// Resolve finds the staff record behind a signed-in identity: by id first, then by email.
func (s *StaffService) Resolve(ctx context.Context, id uuid.UUID, email string) (*models.Staff, error) {
	if id != uuid.Nil {
		staff, err := s.store.GetStaff(ctx, id)
		if err == nil {
			return staff, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fromStore(err, "get staff")
		}
	}
	if email == "" {
		return nil, fmt.Errorf("staff: %w", ErrNotFound)
	}
	staff, err := s.store.GetStaffByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fromStore(err, "get staff by email")
	}
	return staff, nil
}

func (s *StaffService) List(ctx context.Context, actor models.Actor) ([]models.Staff, error) {
	if err := authorize(actor, policy.ManageStaff); err != nil {
		return nil, err
	}
	staff, err := s.store.ListStaff(ctx, actor.BusinessID)
	if err != nil {
		return nil, fromStore(err, "list staff")
	}
	return staff, nil
}

func (s *StaffService) load(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Staff, error) {
	if err := authorize(actor, policy.ManageStaff); err != nil {
		return nil, err
	}
	staff, err := s.store.GetStaff(ctx, id)
	if err != nil {
		return nil, fromStore(err, "get staff")
	}
	if staff.BusinessID != actor.BusinessID {
		return nil, fmt.Errorf("staff: %w", ErrNotFound)
	}
	if staff.Role == models.RoleOwner {
		if err := authorize(actor, policy.InviteOwner); err != nil {
			return nil, err
		}
	}
	return staff, nil
}

func (s *StaffService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in UpdateStaffInput) (*models.Staff, error) {
	staff, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, invalid("name", "is required")
		}
		staff.Name = strings.TrimSpace(*in.Name)
	}
	if in.EmployeeID != nil {
		staff.EmployeeID = strings.TrimSpace(*in.EmployeeID)
	}
	if in.Role != nil {
		role, err := models.ParseRole(*in.Role)
		if err != nil {
			return nil, invalid("role", err.Error())
		}
		if role == models.RoleOwner {
			if err := authorize(actor, policy.InviteOwner); err != nil {
				return nil, err
			}
		}
		if staff.ID == actor.UserID && role != staff.Role {
			return nil, invalid("role", "you cannot change your own role")
		}
		staff.Role = role
	}
	if err := s.store.UpdateStaff(ctx, staff); err != nil {
		return nil, fromStore(err, "update staff")
	}
	events.Notify(ctx, s.events, events.Staff, events.Updated, actor.BusinessID, staff.ID)
	return staff, nil
}

func (s *StaffService) Remove(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if id == actor.UserID {
		return invalid("id", "you cannot remove yourself")
	}
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteStaff(ctx, actor.BusinessID, id); err != nil {
		return fromStore(err, "delete staff")
	}
	events.Notify(ctx, s.events, events.Staff, events.Deleted, actor.BusinessID, id)
	return nil
}
