//go:build integration
// +build integration

package natsadapter_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	natsadapter "github.com/samirrijal/routeguide/internal/adapters/nats"
	"github.com/samirrijal/routeguide/internal/core/domain"
)

func natsURL() string {
	if u := os.Getenv("ROUTEGUIDE_NATS_URL"); u != "" {
		return u
	}
	return "nats://localhost:4222"
}

func TestPublishNote_RelaysToSubscriber(t *testing.T) {
	pub, err := natsadapter.NewPublisher(natsURL())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pub.Close()

	sub := natsadapter.NewSubscriber(pub.Conn())
	received := make(chan []byte, 1)
	cancel, err := sub.Subscribe(natsadapter.SubjectNotes+".>", func(data []byte) { received <- data })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	if err := pub.Conn().Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	loc := domain.Point{Latitude: 1, Longitude: 2}
	if err := pub.PublishNote(context.Background(), domain.RouteNote{Location: &loc, Message: "hello"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case data := <-received:
		var n domain.RouteNote
		if err := json.Unmarshal(data, &n); err != nil {
			t.Fatal(err)
		}
		if n.Message != "hello" || n.Location == nil || *n.Location != loc {
			t.Errorf("unexpected note %+v", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("note not received")
	}
}
