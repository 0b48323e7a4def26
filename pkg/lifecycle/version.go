package lifecycle

// Version information for the lifecycle module.
const (
	// Version is the current version of the lifecycle module.
	Version = "2.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	// 2.0.0 replaced the Stopped/Running manager with the hook-driven Machine.
	MinCompatibleVersion = "2.0.0"
)
