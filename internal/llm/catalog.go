package llm

// Provider identifiers accepted by the gateway and the wizard.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// ProviderModel is a selectable model in the provider catalog.
type ProviderModel struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	Free      bool   `json:"isFree,omitempty"`
}

// DisplayLabel returns the label shown in model pickers.
func (m ProviderModel) DisplayLabel() string {
	if m.Free {
		return m.Label + " (free)"
	}
	return m.Label
}

// providerOrder is the display order of catalog providers.
var providerOrder = []string{ProviderOpenAI, ProviderGemini, ProviderAnthropic}

var providerLabels = map[string]string{
	ProviderOpenAI:    "OpenAI",
	ProviderGemini:    "Gemini",
	ProviderAnthropic: "Anthropic",
}

// providerModels is the set of models a client may request per provider.
var providerModels = map[string][]ProviderModel{
	ProviderOpenAI: {
		{ID: "gpt-4.1", Label: "GPT-4.1", Available: true},
		{ID: "gpt-4.1-mini", Label: "GPT-4.1 Mini", Available: true},
		{ID: "gpt-4.1-nano", Label: "GPT-4.1 Nano", Available: true},
		{ID: "gpt-4o", Label: "GPT-4o", Available: true},
		{ID: "gpt-4o-mini", Label: "GPT-4o Mini", Available: true},
		{ID: "o1", Label: "o1", Available: true},
		{ID: "o1-mini", Label: "o1 Mini", Available: true},
		{ID: "o3-mini", Label: "o3 Mini", Available: true},
	},
	ProviderGemini: {
		{ID: "gemini-2.0-flash", Label: "Gemini 2.0 Flash", Available: true},
		{ID: "gemini-2.0-flash-lite", Label: "Gemini 2.0 Flash-Lite", Available: true, Free: true},
		{ID: "gemini-1.5-pro-002", Label: "Gemini 1.5 Pro", Available: true},
		{ID: "gemini-1.5-flash-002", Label: "Gemini 1.5 Flash", Available: true, Free: true},
	},
	ProviderAnthropic: {
		{ID: "claude-haiku-4-5-20251001", Label: "Claude Haiku 4.5", Available: true},
		{ID: "claude-sonnet-4-5-20250929", Label: "Claude Sonnet 4.5", Available: true},
		{ID: "claude-opus-4-1-20250805", Label: "Claude Opus 4.1", Available: false},
	},
}

// Providers returns the catalog providers in display order.
func Providers() []string {
	return append([]string(nil), providerOrder...)
}

// ProviderLabel returns the human-readable name of a provider.
func ProviderLabel(provider string) string {
	if l, ok := providerLabels[provider]; ok {
		return l
	}
	return provider
}

// KnownProvider reports whether provider has a catalog entry.
func KnownProvider(provider string) bool {
	_, ok := providerModels[provider]
	return ok
}

// Models returns the catalog models for a provider, or nil if unknown.
func Models(provider string) []ProviderModel {
	return append([]ProviderModel(nil), providerModels[provider]...)
}

// ModelAvailable reports whether model is listed and available for provider.
func ModelAvailable(provider, model string) bool {
	for _, m := range providerModels[provider] {
		if m.ID == model && m.Available {
			return true
		}
	}
	return false
}

// FirstAvailableModel returns the first available model of provider.
func FirstAvailableModel(provider string) (ProviderModel, bool) {
	for _, m := range providerModels[provider] {
		if m.Available {
			return m, true
		}
	}
	return ProviderModel{}, false
}

// ProviderForModel returns the provider that lists model.
func ProviderForModel(model string) (string, bool) {
	for _, p := range providerOrder {
		for _, m := range providerModels[p] {
			if m.ID == model {
				return p, true
			}
		}
	}
	return "", false
}
