package handlers

import (
	"net/http"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/services"
	"github.com/ray-remotestate/restro-pos/utils"
)

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	tables, summary, err := h.svc.Tables.List(r.Context(), actor)
	if err != nil {
		respondErr(w, err, "failed to list tables")
		return
	}
	if tables == nil {
		tables = []models.Table{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tables":  tables,
		"summary": summary,
	})
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	table, err := h.svc.Tables.Get(r.Context(), actor, id)
	if err != nil {
		respondErr(w, err, "failed to get table")
		return
	}
	utils.RespondJSON(w, http.StatusOK, table)
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req services.TableInput
	if !decode(w, r, &req) {
		return
	}
	table, err := h.svc.Tables.Create(r.Context(), actor, req)
	if err != nil {
		respondErr(w, err, "failed to create table")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, table)
}

func (h *Handler) UpdateTable(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req services.TableInput
	if !decode(w, r, &req) {
		return
	}
	table, err := h.svc.Tables.Update(r.Context(), actor, id, req)
	if err != nil {
		respondErr(w, err, "failed to update table")
		return
	}
	utils.RespondJSON(w, http.StatusOK, table)
}

// SetTableStatus is the manual override.
func (h *Handler) SetTableStatus(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status models.TableStatus `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	table, err := h.svc.Tables.SetStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		respondErr(w, err, "failed to update table status")
		return
	}
	utils.RespondJSON(w, http.StatusOK, table)
}

func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Tables.Delete(r.Context(), actor, id); err != nil {
		respondErr(w, err, "failed to delete table")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	items, err := h.svc.Menu.List(r.Context(), actor)
	if err != nil {
		respondErr(w, err, "failed to list menu")
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	var req services.MenuItemInput
	if !decode(w, r, &req) {
		return
	}
	item, err := h.svc.Menu.Create(r.Context(), actor, req)
	if err != nil {
		respondErr(w, err, "failed to create menu item")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req services.MenuItemInput
	if !decode(w, r, &req) {
		return
	}
	item, err := h.svc.Menu.Update(r.Context(), actor, id, req)
	if err != nil {
		respondErr(w, err, "failed to update menu item")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Menu.Delete(r.Context(), actor, id); err != nil {
		respondErr(w, err, "failed to delete menu item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
