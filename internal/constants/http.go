package constants

const (
	// SettingsPath is the BeakerX settings endpoint, relative to the notebook server base URL.
	SettingsPath = "/beakerx/settings"

	// RequestIDHeader carries a per-request identifier for log correlation.
	RequestIDHeader = "X-Request-ID"

	// TokenScheme is the Jupyter authorization scheme ("Authorization: token <t>").
	TokenScheme = "token"
)
