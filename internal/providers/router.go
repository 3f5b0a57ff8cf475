package providers

import (
	"errors"
	"fmt"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
)

// ErrMissingCredential is returned when the resolved provider has no API key
// configured. Callers must not attempt the upstream call in that case.
var ErrMissingCredential = errors.New("missing provider credential")

// Route holds the concrete upstream call parameters for a logical provider.
type Route struct {
	Provider models.Provider
	Endpoint string
	Model    string
	// CredentialEnv names the environment variable the key comes from,
	// kept for diagnostics.
	CredentialEnv string
}

var routeTable = map[models.Provider]Route{
	models.ProviderDeepSeek: {
		Provider:      models.ProviderDeepSeek,
		Endpoint:      "https://api.deepseek.com/v1/chat/completions",
		Model:         "deepseek-chat",
		CredentialEnv: "DEEPSEEK_API_KEY",
	},
	models.ProviderOpenAI: {
		Provider:      models.ProviderOpenAI,
		Endpoint:      "https://api.openai.com/v1/chat/completions",
		Model:         "gpt-4",
		CredentialEnv: "OPENAI_API_KEY",
	},
	models.ProviderTogether: {
		Provider:      models.ProviderTogether,
		Endpoint:      "https://api.together.xyz/v1/chat/completions",
		Model:         "mistralai/Mixtral-8x7B-Instruct-v0.1",
		CredentialEnv: "TOGETHER_AI_KEY",
	},
}

// Router maps logical provider names to upstream routes and credentials.
type Router struct {
	credentials map[models.Provider]string
}

// NewRouter creates a router with the given provider credentials
func NewRouter(deepSeekKey, openAIKey, togetherKey string) *Router {
	return &Router{
		credentials: map[models.Provider]string{
			models.ProviderDeepSeek: deepSeekKey,
			models.ProviderOpenAI:   openAIKey,
			models.ProviderTogether: togetherKey,
		},
	}
}

// Resolve maps a logical provider name to its route. Unrecognized names
// silently fall back to DeepSeek; a permissive default, not an error.
func (r *Router) Resolve(name models.Provider) Route {
	if route, ok := routeTable[name]; ok {
		return route
	}
	return routeTable[models.DefaultProvider]
}

// Credential returns the API key for a route, or ErrMissingCredential when
// none is configured.
func (r *Router) Credential(route Route) (string, error) {
	key := r.credentials[route.Provider]
	if key == "" {
		return "", fmt.Errorf("%w: %s (%s)", ErrMissingCredential, route.Provider, route.CredentialEnv)
	}
	return key, nil
}
