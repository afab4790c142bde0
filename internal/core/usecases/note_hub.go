package usecases

import (
	"sync"

	"github.com/samirrijal/routeguide/internal/core/domain"
)

// NoteHub is the shared, location-keyed note store behind RouteChat.
//
// Each location owns its own lock, so appends at different locations never
// contend; the registry lock is held only long enough to find or create a
// location's list. Notes are kept for the life of the process.
type NoteHub struct {
	mu    sync.Mutex
	lists map[domain.Point]*noteList
}

type noteList struct {
	mu    sync.Mutex
	notes []domain.RouteNote
}

// NewNoteHub creates an empty hub.
func NewNoteHub() *NoteHub {
	return &NoteHub{lists: make(map[domain.Point]*noteList)}
}

func (h *NoteHub) list(location domain.Point, create bool) *noteList {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.lists[location]
	if !ok && create {
		l = &noteList{}
		h.lists[location] = l
	}
	return l
}

// RecordAndReplay appends note under location and returns every note stored
// there, in insertion order, including the one just added. The append and the
// snapshot happen under the same lock, so no concurrent append at the same
// location can fall between them.
func (h *NoteHub) RecordAndReplay(location domain.Point, note domain.RouteNote) []domain.RouteNote {
	l := h.list(location, true)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.notes = append(l.notes, cloneNote(note))

	out := make([]domain.RouteNote, len(l.notes))
	for i, n := range l.notes {
		out[i] = cloneNote(n)
	}
	return out
}

// NotesAt returns a snapshot of the notes stored at location.
func (h *NoteHub) NotesAt(location domain.Point) []domain.RouteNote {
	l := h.list(location, false)
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.RouteNote, len(l.notes))
	for i, n := range l.notes {
		out[i] = cloneNote(n)
	}
	return out
}

// Locations returns how many distinct locations hold notes.
func (h *NoteHub) Locations() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lists)
}

func cloneNote(n domain.RouteNote) domain.RouteNote {
	if n.Location != nil {
		loc := *n.Location
		n.Location = &loc
	}
	return n
}
