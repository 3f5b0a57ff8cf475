package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

// handleAdminSettings reads or updates the global routing settings.
func (d *Dependencies) handleAdminSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := d.Settings.Get(r.Context())
		if err != nil {
			d.Logger.Error("Failed to load settings", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, settings)

	case http.MethodPost:
		var update models.GlobalSettings
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if err := d.Settings.Update(r.Context(), update); err != nil {
			d.Logger.Error("Failed to save settings", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
