package handlers

import (
	"net/http"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/utils"
)

func (h *Handler) DailySales(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	loc, ok := h.location(w, r)
	if !ok {
		return
	}
	sales, bills, err := h.svc.Reports.DailySales(r.Context(), actor, r.URL.Query().Get("date"), loc)
	if err != nil {
		respondErr(w, err, "failed to build daily report")
		return
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"sales": sales,
		"bills": bills,
	})
}

func (h *Handler) MonthlySales(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	loc, ok := h.location(w, r)
	if !ok {
		return
	}
	report, err := h.svc.Reports.MonthlySales(r.Context(), actor, r.URL.Query().Get("month"), loc)
	if err != nil {
		respondErr(w, err, "failed to build monthly report")
		return
	}
	utils.RespondJSON(w, http.StatusOK, report)
}
