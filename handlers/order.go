package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/projections"
	"github.com/ray-remotestate/restro-pos/services"
	"github.com/ray-remotestate/restro-pos/store"
	"github.com/ray-remotestate/restro-pos/utils"
)

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req services.CreateOrderInput
	if !decode(w, r, &req) {
		return
	}
	order, err := h.svc.Orders.Create(r.Context(), actor, req)
	if err != nil {
		respondErr(w, err, "failed to place order")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, order)
}

// ListOrders filters by ?status=a,b and ?table=n. With ?date=YYYY-MM-DD it
// returns the history view for that day, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	table, ok := queryInt(w, r, "table")
	if !ok {
		return
	}

	if date := r.URL.Query().Get("date"); date != "" {
		loc, ok := h.location(w, r)
		if !ok {
			return
		}
		orders, err := h.svc.Reports.OrderHistory(r.Context(), actor, projections.HistoryFilter{Date: date, TableNumber: table}, loc)
		if err != nil {
			respondErr(w, err, "failed to list orders")
			return
		}
		respondOrders(w, orders)
		return
	}

	f := store.OrderFilter{TableNumber: table}
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			st := models.OrderStatus(strings.TrimSpace(s))
			if !st.IsValid() {
				utils.RespondError(w, http.StatusBadRequest, "invalid status "+s)
				return
			}
			f.Statuses = append(f.Statuses, st)
		}
	}
	orders, err := h.svc.Orders.List(r.Context(), actor, f)
	if err != nil {
		respondErr(w, err, "failed to list orders")
		return
	}
	respondOrders(w, orders)
}

func respondOrders(w http.ResponseWriter, orders []models.Order) {
	if orders == nil {
		orders = []models.Order{}
	}
	utils.RespondJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Orders.Get(r.Context(), actor, id)
	if err != nil {
		respondErr(w, err, "failed to get order")
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

// AdvanceOrder moves an order one step. The optional body field
// expected_status guards against acting on a stale view.
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		ExpectedStatus models.OrderStatus `json:"expected_status"`
	}
	if err := utils.ParseBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.ExpectedStatus != "" && !req.ExpectedStatus.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "invalid expected_status")
		return
	}

	order, err := h.svc.Orders.Advance(r.Context(), actor, id, req.ExpectedStatus)
	if err != nil {
		respondErr(w, err, "failed to update order")
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) Kitchen(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	orders, err := h.svc.Reports.Kitchen(r.Context(), actor)
	if err != nil {
		respondErr(w, err, "failed to load kitchen queue")
		return
	}
	respondOrders(w, orders)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	loc, ok := h.location(w, r)
	if !ok {
		return
	}
	board, err := h.svc.Reports.Dashboard(r.Context(), actor, loc)
	if err != nil {
		respondErr(w, err, "failed to load dashboard")
		return
	}
	utils.RespondJSON(w, http.StatusOK, board)
}
