package handlers

import (
	"net/http"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/services"
	"github.com/ray-remotestate/restro-pos/store"
	"github.com/ray-remotestate/restro-pos/utils"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req services.CreateBookingInput
	if !decode(w, r, &req) {
		return
	}
	booking, err := h.svc.Bookings.Create(r.Context(), actor, req)
	if err != nil {
		respondErr(w, err, "failed to create booking")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, booking)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	table, ok := queryInt(w, r, "table")
	if !ok {
		return
	}
	f := store.BookingFilter{
		Date:        r.URL.Query().Get("date"),
		Status:      models.BookingStatus(r.URL.Query().Get("status")),
		TableNumber: table,
	}
	if f.Status != "" && !f.Status.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	bookings, err := h.svc.Bookings.List(r.Context(), actor, f)
	if err != nil {
		respondErr(w, err, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	utils.RespondJSON(w, http.StatusOK, bookings)
}

func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	booking, err := h.svc.Bookings.Complete(r.Context(), actor, id)
	if err != nil {
		respondErr(w, err, "failed to complete booking")
		return
	}
	utils.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	booking, err := h.svc.Bookings.Cancel(r.Context(), actor, id)
	if err != nil {
		respondErr(w, err, "failed to cancel booking")
		return
	}
	utils.RespondJSON(w, http.StatusOK, booking)
}
