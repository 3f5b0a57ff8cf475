package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/zamzuriyaakob/AiCoach/internal/middleware"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

type purchaseRequest struct {
	PackageID string `json:"packageId"`
}

// handlePurchase credits the caller with a package's credits. Payment is
// trusted-client in this deployment; no gateway verification happens here.
func (d *Dependencies) handlePurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.PackageID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing Package ID")
		return
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid Package ID")
		return
	}

	result, err := d.Purchases.Purchase(r.Context(), ident.Subject, packageID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPackageNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Package not found")
		case errors.Is(err, storage.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User profile not found. Please relogin.")
		default:
			d.Logger.Error("Purchase failed", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"creditsAdded": result.CreditsAdded,
	})
}
