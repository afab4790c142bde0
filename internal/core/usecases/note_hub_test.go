package usecases_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/samirrijal/routeguide/internal/core/domain"
	"github.com/samirrijal/routeguide/internal/core/usecases"
)

func note(lat, lng int32, msg string) domain.RouteNote {
	return domain.RouteNote{Location: pt(lat, lng), Message: msg}
}

func TestNoteHub_RecordAndReplayOrder(t *testing.T) {
	hub := usecases.NewNoteHub()
	l1 := domain.Point{Latitude: 0, Longitude: 1}
	l2 := domain.Point{Latitude: 0, Longitude: 2}

	if got := hub.RecordAndReplay(l1, note(0, 1, "A")); len(got) != 1 || got[0].Message != "A" {
		t.Fatalf("first note: got %+v", got)
	}
	if got := hub.RecordAndReplay(l2, note(0, 2, "B")); len(got) != 1 || got[0].Message != "B" {
		t.Fatalf("other location: got %+v", got)
	}
	got := hub.RecordAndReplay(l1, note(0, 1, "C"))
	if len(got) != 2 || got[0].Message != "A" || got[1].Message != "C" {
		t.Fatalf("replay: got %+v", got)
	}

	if hub.Locations() != 2 {
		t.Errorf("expected 2 locations, got %d", hub.Locations())
	}
}

func TestNoteHub_SnapshotIsDetached(t *testing.T) {
	hub := usecases.NewNoteHub()
	loc := domain.Point{Latitude: 7, Longitude: 7}

	snap := hub.RecordAndReplay(loc, note(7, 7, "first"))
	hub.RecordAndReplay(loc, note(7, 7, "second"))

	if len(snap) != 1 {
		t.Errorf("earlier snapshot grew to %d", len(snap))
	}
	snap[0].Message = "changed"
	if hub.NotesAt(loc)[0].Message != "first" {
		t.Error("mutating a snapshot changed the hub")
	}
}

func TestNoteHub_NotesAtUnknownLocation(t *testing.T) {
	hub := usecases.NewNoteHub()
	if got := hub.NotesAt(domain.Point{Latitude: 1}); len(got) != 0 {
		t.Errorf("expected no notes, got %+v", got)
	}
	if hub.Locations() != 0 {
		t.Error("reading must not create a location")
	}
}

func TestNoteHub_ConcurrentAppends(t *testing.T) {
	hub := usecases.NewNoteHub()
	shared := domain.Point{Latitude: 1, Longitude: 1}

	const writers = 16
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			prev := 0
			for i := 0; i < perWriter; i++ {
				got := hub.RecordAndReplay(shared, note(1, 1, fmt.Sprintf("%d-%d", w, i)))
				// Each replay ends with the note just added and never shrinks.
				if got[len(got)-1].Message != fmt.Sprintf("%d-%d", w, i) {
					t.Errorf("replay does not end with own note")
					return
				}
				if len(got) <= prev {
					t.Errorf("replay shrank from %d to %d", prev, len(got))
					return
				}
				prev = len(got)

				// Writers at a private location never see each other.
				own := domain.Point{Latitude: int32(100 + w)}
				if mine := hub.RecordAndReplay(own, note(int32(100+w), 0, "x")); len(mine) != i+1 {
					t.Errorf("private location has %d notes, want %d", len(mine), i+1)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	all := hub.NotesAt(shared)
	if len(all) != writers*perWriter {
		t.Fatalf("expected %d notes, got %d", writers*perWriter, len(all))
	}

	// Per-writer order is preserved.
	next := make(map[string]int)
	for _, n := range all {
		var w, i int
		fmt.Sscanf(n.Message, "%d-%d", &w, &i)
		key := fmt.Sprint(w)
		if i != next[key] {
			t.Fatalf("writer %d: note %d arrived out of order (expected %d)", w, i, next[key])
		}
		next[key]++
	}
}
