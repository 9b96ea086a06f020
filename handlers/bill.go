package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/store"
	"github.com/ray-remotestate/restro-pos/utils"
)

func (h *Handler) GenerateBill(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req struct {
		OrderID uuid.UUID       `json:"order_id"`
		TaxRate decimal.Decimal `json:"tax_rate"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.OrderID == uuid.Nil {
		utils.RespondError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	bill, err := h.svc.Bills.Generate(r.Context(), actor, req.OrderID, req.TaxRate)
	if err != nil {
		respondErr(w, err, "failed to generate bill")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, bill)
}

func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var f store.BillFilter
	if raw := r.URL.Query().Get("order_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid order_id")
			return
		}
		f.OrderID = id
	}
	bills, err := h.svc.Bills.List(r.Context(), actor, f)
	if err != nil {
		respondErr(w, err, "failed to list bills")
		return
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	utils.RespondJSON(w, http.StatusOK, bills)
}

func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	bill, err := h.svc.Bills.Get(r.Context(), actor, id)
	if err != nil {
		respondErr(w, err, "failed to get bill")
		return
	}
	utils.RespondJSON(w, http.StatusOK, bill)
}

func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Bills.Delete(r.Context(), actor, id); err != nil {
		respondErr(w, err, "failed to delete bill")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Billable lists completed orders that have no bill yet.
func (h *Handler) Billable(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	orders, err := h.svc.Bills.Billable(r.Context(), actor)
	if err != nil {
		respondErr(w, err, "failed to list billable orders")
		return
	}
	respondOrders(w, orders)
}

func (h *Handler) TaxRates(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tax_rates": h.svc.Bills.TaxRates(),
	})
}
