package interfaces

import "context"

// Notifier delivers a short text message to people outside the jar
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
