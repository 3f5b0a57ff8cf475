package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zamzuriyaakob/AiCoach/internal/auth"
	"github.com/zamzuriyaakob/AiCoach/internal/billing"
	"github.com/zamzuriyaakob/AiCoach/internal/middleware"
	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/providers"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

// generateRequest is the inbound generation payload.
type generateRequest struct {
	Messages     []providers.ChatMessage `json:"messages"`
	SystemPrompt string                  `json:"systemPrompt,omitempty"`
	SystemCode   string                  `json:"systemCode,omitempty"`
}

// handleGenerate is the billing-gated streaming proxy.
//
// Flow:
//  1. Decode body; a matching systemCode activates the internal unbilled path
//  2. Otherwise verify the bearer credential
//  3. Billing decision (provider + deduction)
//  4. Resolve route and credential; a missing key aborts before any ledger write
//  5. Append the ledger entry
//  6. Call the provider and stream the response through byte-for-byte
//
// A provider failure after step 5 leaves the deduction in place: billed-but-
// failed calls are a documented gap, not silently compensated.
func (d *Dependencies) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx := r.Context()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	// The widget sentinel is a caller-supplied shared secret compared for
	// equality. It is pre-authenticated by convention, not verified.
	internalCall := req.SystemCode != "" && req.SystemCode == d.WidgetCode

	var ident *auth.Identity
	if !internalCall {
		token, err := middleware.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ident, err = d.Verifier.Verify(ctx, token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid Token")
			return
		}
	}

	decision, err := d.Engine.Decide(ctx, ident, internalCall)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrProfileNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User profile not found. Please relogin.")
		case errors.Is(err, billing.ErrInsufficientCredit):
			utils.RespondWithError(w, http.StatusForbidden, "Insufficient credits")
		default:
			d.Logger.Error("Billing decision failed", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	route := d.Router.Resolve(decision.Provider)
	apiKey, err := d.Router.Credential(route)
	if err != nil {
		// No ledger entry is written and the deduction, if any, stands.
		d.Logger.Error("Missing API key for provider", "provider", route.Provider)
		utils.RespondWithError(w, http.StatusInternalServerError, "Service configuration error")
		return
	}

	entry := &models.Transaction{
		UserID:   decision.UserID,
		Provider: decision.Provider,
		Type:     decision.Kind,
		Status:   models.TxInitiated,
	}
	if err := d.Transactions.Insert(ctx, entry); err != nil {
		d.Logger.Error("Failed to write ledger entry", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if err := d.Archive.Enqueue(entry); err != nil {
		d.Logger.Warn("Ledger archive enqueue failed", "error", err)
	}

	stream, err := d.Client.Stream(ctx, route, apiKey, providers.ChatRequest{
		Messages:     req.Messages,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		var upstream *providers.UpstreamError
		if errors.As(err, &upstream) {
			d.Logger.Error("AI provider error", "provider", route.Provider, "status", upstream.StatusCode, "body", upstream.Body)
			utils.RespondWithError(w, upstream.StatusCode, "AI Service Unavailable")
			return
		}
		d.Logger.Error("Provider request failed", "provider", route.Provider, "error", err)
		utils.RespondWithError(w, http.StatusBadGateway, "AI Service Unavailable")
		return
	}
	defer stream.Close()

	streamThrough(w, stream)
}

// streamThrough copies the provider stream to the client without buffering
// the whole body, flushing as chunks arrive.
func streamThrough(w http.ResponseWriter, stream io.Reader) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)

	buf := make([]byte, 32*1024)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			return
		}
	}
}
