package server

import (
	"context"

	"github.com/preston-bernstein/scoreboard-overlay/internal/poller"
)

// Poller defines the minimal poller behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

// Renderer is the frame loop as seen by the server.
type Renderer interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}
