package player

// State is a step of the startup resolution
type State int

const (
	StateUnresolved State = iota
	StateExtracted
	StateSettingsLoaded
	StateConfigured
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateExtracted:
		return "extracted"
	case StateSettingsLoaded:
		return "settings-loaded"
	case StateConfigured:
		return "configured"
	default:
		return "unknown"
	}
}

// Fallback names the short-circuit that produced a default configuration
type Fallback string

const (
	FallbackNone             Fallback = "none"
	FallbackNoEmbeddedData   Fallback = "no-embedded-data"
	FallbackExtractionFailed Fallback = "extraction-failed"
	FallbackNoSettings       Fallback = "no-settings"
)

// MarshalText renders the state by name in JSON output
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
