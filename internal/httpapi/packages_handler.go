package httpapi

import (
	"net/http"

	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

// handleListPackages returns the purchasable packages, cheapest first.
func (d *Dependencies) handleListPackages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	packages, err := d.Packages.List(r.Context())
	if err != nil {
		d.Logger.Error("Failed to list packages", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, packages)
}
