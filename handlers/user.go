package handlers

import (
	"net/http"
	"time"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
	"github.com/ray-remotestate/restro-pos/services"
	"github.com/ray-remotestate/restro-pos/utils"
)

const refreshCookie = "refresh_token"

type sessionResponse struct {
	UserID      string      `json:"user_id"`
	BusinessID  string      `json:"business_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	AccessToken string      `json:"access_token"`
	Message     string      `json:"message,omitempty"`
}

// startSession issues tokens for staff and sets the refresh cookie.
func (h *Handler) startSession(w http.ResponseWriter, staff *models.Staff, status int, message string) {
	accessToken, refreshToken, err := h.tokens.GenerateTokens(staff)
	if err != nil {
		respondErr(w, err, "failed to generate tokens")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    refreshToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.RefreshTTL()),
	})

	utils.RespondJSON(w, status, sessionResponse{
		UserID:      staff.ID.String(),
		BusinessID:  staff.BusinessID.String(),
		Name:        staff.Name,
		Email:       staff.Email,
		Role:        staff.Role,
		AccessToken: accessToken,
		Message:     message,
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if !decode(w, r, &req) {
		return
	}

	_, owner, err := h.svc.Businesses.Register(r.Context(), req)
	if err != nil {
		respondErr(w, err, "failed to register business")
		return
	}
	h.startSession(w, owner, http.StatusCreated, "business registered")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "email and password required")
		return
	}

	staff, err := h.svc.Staff.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(w, err, "failed to sign in")
		return
	}
	h.startSession(w, staff, http.StatusOK, "Successfully logged in")
}

// Activate lets an invited staff member choose a password and signs them in.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if !decode(w, r, &req) {
		return
	}

	staff, err := h.svc.Staff.Activate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(w, err, "failed to activate account")
		return
	}
	h.startSession(w, staff, http.StatusOK, "account activated")
}

// RefreshToken re-reads the staff record so role changes apply on the next token.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookie)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "refresh token missing")
		return
	}

	id, email, err := h.tokens.ParseRefreshToken(cookie.Value)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	staff, err := h.svc.Staff.Resolve(r.Context(), id, email)
	if err != nil || staff.Status != models.StaffActive {
		utils.RespondError(w, http.StatusUnauthorized, "account no longer available")
		return
	}
	h.startSession(w, staff, http.StatusOK, "")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully logged out",
	})
}

// Me returns the caller with the pages and landing dashboard their role gets.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	staff, err := h.svc.Staff.Resolve(r.Context(), actor.UserID, "")
	if err != nil {
		respondErr(w, err, "failed to load profile")
		return
	}
	business, err := h.svc.Businesses.Get(r.Context(), actor)
	if err != nil {
		respondErr(w, err, "failed to load business")
		return
	}
	dashboard, _ := policy.DashboardFor(staff.Role)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"staff":       staff,
		"business":    business,
		"pages":       policy.Pages(staff.Role),
		"dashboard":   dashboard,
		"can_advance": policy.AdvanceableFrom(staff.Role),
	})
}

func (h *Handler) InviteStaff(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req services.InviteStaffInput
	if !decode(w, r, &req) {
		return
	}
	staff, err := h.svc.Staff.Invite(r.Context(), actor, req)
	if err != nil {
		respondErr(w, err, "failed to invite staff")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, staff)
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	staff, err := h.svc.Staff.List(r.Context(), actor)
	if err != nil {
		respondErr(w, err, "failed to list staff")
		return
	}
	utils.RespondJSON(w, http.StatusOK, staff)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req services.UpdateStaffInput
	if !decode(w, r, &req) {
		return
	}
	staff, err := h.svc.Staff.Update(r.Context(), actor, id, req)
	if err != nil {
		respondErr(w, err, "failed to update staff")
		return
	}
	utils.RespondJSON(w, http.StatusOK, staff)
}

func (h *Handler) RemoveStaff(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Staff.Remove(r.Context(), actor, id); err != nil {
		respondErr(w, err, "failed to remove staff")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
