package httpapi

import (
	"net/http"

	"github.com/zamzuriyaakob/AiCoach/internal/middleware"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

// handleSync provisions a billing profile for the verified identity.
// Idempotent: repeated calls report the existing profile's provider.
func (d *Dependencies) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := d.Accounts.Sync(r.Context(), ident)
	if err != nil {
		d.Logger.Error("Identity sync failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"status":   result.Status,
		"provider": result.Provider,
	})
}
