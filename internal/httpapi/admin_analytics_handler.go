package httpapi

import (
	"net/http"
	"strings"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

// providerStats is a per-provider rollup of the ledger for the dashboard.
type providerStats struct {
	Requests  int64  `json:"requests"`
	Errors    int64  `json:"errors"`
	TokensIn  int64  `json:"tokensIn"`
	TokensOut int64  `json:"tokensOut"`
	LastUsed  *int64 `json:"lastUsed"`
}

// handleAdminAnalytics aggregates the ledger per provider. Loads all rows
// and reduces in memory; fine at this product's volume, switch to SQL
// aggregation if the ledger grows.
func (d *Dependencies) handleAdminAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	transactions, err := d.Transactions.List(r.Context())
	if err != nil {
		d.Logger.Error("Failed to load transactions", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	stats := map[string]*providerStats{
		"deepseek": {},
		"openai":   {},
		"together": {},
	}

	for _, tx := range transactions {
		key := normalizeProviderKey(tx.Provider)
		entry, ok := stats[key]
		if !ok {
			entry = &providerStats{}
			stats[key] = entry
		}

		entry.Requests++
		if tx.Status == models.TxError || tx.Status == models.TxFailed {
			entry.Errors++
		}
		entry.TokensIn += tx.TokensIn
		entry.TokensOut += tx.TokensOut

		ts := tx.Timestamp.UnixMilli()
		if entry.LastUsed == nil || ts > *entry.LastUsed {
			entry.LastUsed = &ts
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// normalizeProviderKey folds free-form provider names onto the dashboard's
// three buckets, defaulting to deepseek.
func normalizeProviderKey(provider models.Provider) string {
	key := strings.ToLower(string(provider))
	switch {
	case strings.Contains(key, "deepseek"):
		return "deepseek"
	case strings.Contains(key, "openai"), strings.Contains(key, "gpt"):
		return "openai"
	case strings.Contains(key, "together"), strings.Contains(key, "mistral"), strings.Contains(key, "grok"):
		return "together"
	default:
		return "deepseek"
	}
}
