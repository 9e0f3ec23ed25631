package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeConnectTakesPrecedence(t *testing.T) {
	opts := ConnectOptions{
		RemoteDebuggingURL: "http://127.0.0.1:9222",
		ExecutablePath:     "/usr/bin/chromium",
	}
	assert.Equal(t, ModeConnect, opts.Mode())
}

func TestModeLaunchWithExecutable(t *testing.T) {
	opts := ConnectOptions{ExecutablePath: "/usr/bin/chromium"}
	assert.Equal(t, ModeLaunch, opts.Mode())
}

func TestModeLaunchByDefault(t *testing.T) {
	assert.Equal(t, ModeLaunch, ConnectOptions{}.Mode())
}
