package api

import (
	"encoding/json"
	"net/http"

	"github.com/mmynk/spendbook/internal/middleware"
	"github.com/mmynk/spendbook/internal/models"
)

type settingsResponse struct {
	Settings models.Settings `json:"settings"`
	Message  string          `json:"message,omitempty"`
}

func (h *handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(r.Context(), middleware.GetEmail(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: settings})
}

func (h *handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	settings, err := h.Settings.Update(r.Context(), middleware.GetEmail(r.Context()), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: settings, Message: "settings updated"})
}
