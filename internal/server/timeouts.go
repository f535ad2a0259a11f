package server

import "time"

// No write timeout: the frame feed holds websocket connections open.
const (
	readTimeout = 10 * time.Second
	idleTimeout = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
