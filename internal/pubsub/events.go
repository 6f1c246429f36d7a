// Package pubsub fans editor events (file loads and saves, on-disk changes,
// shell runs, log lines) out to any number of listeners.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	FileLoaded    EventType = "file.loaded"
	FileSaved     EventType = "file.saved"
	FileChanged   EventType = "file.changed" // modified on disk by someone else
	ShellFinished EventType = "shell.finished"
	LogEvent      EventType = "log"
)

// Event carries a typed payload stamped with its publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
