// Package events re-exports the platform event bus for convenience.
// This allows internal modules to import events from internal/events
// while the implementation lives in platform/events.
package events

import (
	platformevents "stageflow_backend/platform/events"
	"stageflow_backend/platform/logger"
)

// Re-export platform types for convenience.
type (
	Event       = platformevents.Event
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
)

// InMemoryBus is a type alias to the platform InMemoryBus.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
// This is a convenience re-export from platform/events.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
