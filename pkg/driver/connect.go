package driver

// ConnectMode selects how a browser connection is established.
type ConnectMode string

const (
	// ModeConnect attaches to an already-running browser over its remote
	// debugging endpoint.
	ModeConnect ConnectMode = "connect"

	// ModeLaunch starts a local browser process.
	ModeLaunch ConnectMode = "launch"
)

// ConnectOptions configures Connect. The two branches are mutually
// exclusive; a remote endpoint takes precedence when both are set.
type ConnectOptions struct {
	// RemoteDebuggingURL is the CDP endpoint of a running browser. When
	// non-empty the session connects instead of launching.
	RemoteDebuggingURL string

	// ExecutablePath points at a local browser binary. Used only when not
	// connecting remotely; empty means the engine's bundled browser.
	ExecutablePath string

	// Headless controls the launched browser's mode. Ignored when
	// connecting remotely.
	Headless bool
}

// Mode returns which branch Connect will take for these options.
func (o ConnectOptions) Mode() ConnectMode {
	if o.RemoteDebuggingURL != "" {
		return ModeConnect
	}
	return ModeLaunch
}
