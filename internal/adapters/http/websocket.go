package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	natsadapter "github.com/samirrijal/routeguide/internal/adapters/nats"
	"github.com/samirrijal/routeguide/internal/core/domain"
	"github.com/samirrijal/routeguide/internal/pkg/metrics"
)

// ChatHandler returns a handler that runs a RouteChat session over a
// WebSocket. Every text frame from the client is a route note in JSON:
//
//	{"location":{"latitude":409146138,"longitude":-746188906},"message":"First message"}
//
// After each note the server replies with one frame per note recorded at that
// location, oldest first. A malformed note ends the session with an error
// frame followed by a close frame.
func ChatHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("chat client connected", "remote", remoteAddr)

		sessions := metrics.ActiveChatSessions.WithLabelValues("websocket")
		sessions.Inc()
		defer sessions.Dec()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := deps.RouteGuide.RouteChat(ctx, &wsNoteStream{conn: c})
		switch {
		case err == nil:
			_ = c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		case errors.Is(err, domain.ErrMissingLocation), errors.Is(err, errMalformedNote):
			_ = c.WriteJSON(map[string]string{"error": err.Error()})
			_ = c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, err.Error()))
		default:
			slog.Warn("chat session ended", "remote", remoteAddr, "error", err)
		}

		slog.Info("chat client disconnected", "remote", remoteAddr)
	}
}

var errMalformedNote = errors.New("malformed route note")

// wsNoteStream exposes a WebSocket connection as ports.NoteStream.
// Recv and Send are only ever called from the session goroutine.
type wsNoteStream struct {
	conn *websocket.Conn
}

func (s *wsNoteStream) Recv() (domain.RouteNote, error) {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return domain.RouteNote{}, io.EOF
			}
			return domain.RouteNote{}, err
		}
		if mt != websocket.TextMessage {
			continue
		}

		var note domain.RouteNote
		if err := json.Unmarshal(data, &note); err != nil {
			return domain.RouteNote{}, fmt.Errorf("%w: %v", errMalformedNote, err)
		}
		return note, nil
	}
}

func (s *wsNoteStream) Send(note domain.RouteNote) error {
	return s.conn.WriteJSON(note)
}

// EventsHandler relays note events from the broker to a WebSocket client.
// With ?latitude=&longitude= only notes at that point are relayed; otherwise
// every note and every recorded route is.
func EventsHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		if deps.Events == nil {
			_ = c.WriteJSON(map[string]string{"error": "event relay not configured"})
			return
		}

		subjects := []string{natsadapter.SubjectNotes + ".>", natsadapter.SubjectRoutesRecorded}
		if c.Query("latitude") != "" || c.Query("longitude") != "" {
			lat, errLat := strconv.ParseInt(c.Query("latitude"), 10, 32)
			lng, errLng := strconv.ParseInt(c.Query("longitude"), 10, 32)
			if errLat != nil || errLng != nil {
				_ = c.WriteJSON(map[string]string{"error": "latitude and longitude must be 32-bit integers"})
				return
			}
			subjects = []string{natsadapter.NoteSubject(domain.Point{Latitude: int32(lat), Longitude: int32(lng)})}
		}

		var mu sync.Mutex
		writeRaw := func(data []byte) {
			mu.Lock()
			defer mu.Unlock()
			_ = c.WriteMessage(websocket.TextMessage, data)
		}

		var cancels []func() error
		defer func() {
			for _, cancel := range cancels {
				_ = cancel()
			}
		}()
		for _, subject := range subjects {
			cancel, err := deps.Events.Subscribe(subject, writeRaw)
			if err != nil {
				slog.Warn("events subscribe failed", "subject", subject, "error", err)
				return
			}
			cancels = append(cancels, cancel)
		}

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Read until the client goes away; inbound frames are ignored.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}
}
