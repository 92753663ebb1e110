package ports

import (
	"context"

	"netcontrol/internal/domain/record"
)

// Notifier broadcasts a change event to every connected subscriber of its
// type. Delivery is fire and forget: no persistence, no redelivery, no
// acknowledgment, and a slow or dead subscriber never blocks the publisher.
// An empty room broadcasts; a named room restricts delivery to subscribers
// who joined it.
//
// Callers on the mutation path must treat a returned error as advisory: a
// failed publish is logged, never surfaced to the mutating client.
type Notifier interface {
	Publish(ctx context.Context, event record.ChangeEvent) error
}
