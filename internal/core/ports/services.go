package ports

import (
	"context"

	"github.com/samirrijal/routeguide/internal/core/domain"
)

// PointStream delivers the inbound points of a route recording.
// Recv returns io.EOF once the client has finished sending.
type PointStream interface {
	Recv() (domain.Point, error)
}

// NoteStream is the bidirectional stream of a chat session.
// Recv returns io.EOF once the client has finished sending.
type NoteStream interface {
	Recv() (domain.RouteNote, error)
	Send(note domain.RouteNote) error
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishNote(ctx context.Context, note domain.RouteNote) error
	PublishRecordedRoute(ctx context.Context, route domain.RecordedRoute) error
}

// EventSubscriber relays broker events matching a subject to handler until
// the returned cancel function is called.
type EventSubscriber interface {
	Subscribe(subject string, handler func(data []byte)) (cancel func() error, err error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
