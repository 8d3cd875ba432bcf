package game

const (
	ErrorHistoryCapacity   = "history capacity %d must be a power of two between 1 and %d"
	ErrorInvalidTickRate   = "tick rate must be positive, got %d"
	ErrorInvalidEpsilon    = "divergence epsilon must not be negative, got %v"
	ErrorUnknownFallback   = "unknown fallback policy %q"
	ErrorNondeterministic  = "simulator is not deterministic: %x != %x"
	ErrorMissingSimulator  = "player requires a simulator"
	ErrorMissingComponents = "player components were not registered"
	ErrorUnknownDebugMode  = "unknown debug mode %q"
	ErrorLossChance        = "loss chance must be between 0 and 1, got %v"
	ErrorInvalidDelay      = "invalid delay %q: %v"
	ErrorInvalidLogLevel   = "invalid log level %q: %v"
	ErrorSettingsFile      = "unable to %s settings file %s: %v"
)
