package models

// GlobalSettings is the singleton routing configuration. It is created
// lazily with DeepSeek defaults on first read and only ever mutated by
// admin writes.
type GlobalSettings struct {
	DefaultProvider        Provider `db:"default_provider" json:"defaultProvider"`
	InternalWidgetProvider Provider `db:"internal_widget_provider" json:"internalWidgetProvider"`
}

// DefaultGlobalSettings returns the hard-coded defaults used when no
// settings row exists yet.
func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		DefaultProvider:        ProviderDeepSeek,
		InternalWidgetProvider: ProviderDeepSeek,
	}
}
