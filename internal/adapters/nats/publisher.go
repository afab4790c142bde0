package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/routeguide/internal/core/domain"
)

// Subjects used for route guide events.
const (
	SubjectNotes          = "routeguide.notes"
	SubjectRoutesRecorded = "routeguide.routes.recorded"
)

// NoteSubject returns the subject a note at p is published on,
// e.g. "routeguide.notes.409146138.-746188906".
func NoteSubject(p domain.Point) string {
	return fmt.Sprintf("%s.%d.%d", SubjectNotes, p.Latitude, p.Longitude)
}

// Publisher implements ports.EventPublisher over core NATS. Events are
// fire-and-forget notifications; nothing is retained by the broker.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// NewPublisherFromConn wraps an existing connection.
func NewPublisherFromConn(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

// PublishNote publishes a recorded note on its location subject.
func (p *Publisher) PublishNote(ctx context.Context, note domain.RouteNote) error {
	if note.Location == nil {
		return domain.ErrMissingLocation
	}
	data, err := json.Marshal(note)
	if err != nil {
		return err
	}
	return p.conn.Publish(NoteSubject(*note.Location), data)
}

// PublishRecordedRoute publishes the summary of a finished route recording.
func (p *Publisher) PublishRecordedRoute(ctx context.Context, route domain.RecordedRoute) error {
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectRoutesRecorded, data)
}

// Conn returns the underlying connection.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("routeguide"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
