package api

import (
	"net/http"

	"github.com/mmynk/spendbook/internal/middleware"
	"github.com/mmynk/spendbook/internal/models"
	"github.com/mmynk/spendbook/internal/service"
)

type itemsResponse struct {
	Items   []models.Item `json:"items"`
	Message string        `json:"message,omitempty"`
}

func (h *handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.List(r.Context(), middleware.GetEmail(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.Items.Add(r.Context(), middleware.GetEmail(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items, Message: "item added"})
}

func (h *handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, service.ValidationError("id is required"))
		return
	}
	var in service.ItemInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.Items.Update(r.Context(), middleware.GetEmail(r.Context()), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items, Message: "item updated"})
}

func (h *handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, service.ValidationError("id is required"))
		return
	}
	items, err := h.Items.Remove(r.Context(), middleware.GetEmail(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items, Message: "item deleted"})
}
