package natsadapter

import (
	"github.com/nats-io/nats.go"
)

// Subscriber implements ports.EventSubscriber over core NATS.
type Subscriber struct {
	conn *nats.Conn
}

// NewSubscriber creates a subscriber sharing conn.
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

// Subscribe relays every message on subject to handler until cancel is called.
// handler runs on the NATS delivery goroutine for this subscription, so
// messages arrive in publish order.
func (s *Subscriber) Subscribe(subject string, handler func(data []byte)) (func() error, error) {
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return sub.Unsubscribe, nil
}

// Connected reports whether the underlying connection is up.
func (s *Subscriber) Connected() bool {
	return s.conn.IsConnected()
}
