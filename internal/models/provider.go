package models

// Provider identifies an upstream LLM vendor. It is deliberately an open
// string type rather than a closed enum: adding a vendor only requires a
// new routing table entry, the billing engine never switches on it.
type Provider string

const (
	ProviderDeepSeek Provider = "DeepSeek"
	ProviderOpenAI   Provider = "OpenAI"
	ProviderTogether Provider = "Together"

	// ProviderSystem marks ledger entries that never reached an upstream
	// vendor (purchases).
	ProviderSystem Provider = "system"
)

// DefaultProvider is the fallback when an account or setting carries no
// (or an unknown) provider name.
const DefaultProvider = ProviderDeepSeek

// Known reports whether p is one of the configured vendors.
func (p Provider) Known() bool {
	switch p {
	case ProviderDeepSeek, ProviderOpenAI, ProviderTogether:
		return true
	}
	return false
}

// OrDefault returns p, or DefaultProvider when p is empty.
func (p Provider) OrDefault() Provider {
	if p == "" {
		return DefaultProvider
	}
	return p
}
