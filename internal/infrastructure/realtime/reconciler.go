package realtime

import "sync"

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Item is a row that can appear in a reconciled list.
type Item interface {
	ItemID() string
}

// ChangeEvent mirrors a row-level change pushed to subscribers of a
// filtered channel. Insert payloads may be partial rows; joined fields
// are fetched by the binder before the event reaches list state.
type ChangeEvent struct {
	Type  EventType `json:"type"`
	Table string    `json:"table"`

	// TempID carries the sender's optimistic placeholder id so the
	// confirmed row can replace the optimistic entry in place.
	TempID string `json:"temp_id,omitempty"`

	Item Item `json:"item"`
}

// ListState is an append-ordered list of rows keyed by id, kept
// consistent with a change stream it did not originate. All merges are
// idempotent on the row id: an insert whose id is already present is
// discarded, never duplicated.
type ListState struct {
	mu      sync.RWMutex
	items   []Item
	index   map[string]int
	pending map[string]int // tempID -> position of the optimistic entry
	maxLen  int
}

// NewListState creates a list state. maxLen bounds the retained window
// (oldest entries are evicted); zero means unbounded.
func NewListState(maxLen int) *ListState {
	return &ListState{
		index:   make(map[string]int),
		pending: make(map[string]int),
		maxLen:  maxLen,
	}
}

// Apply reconciles one change event and reports whether the list
// changed. Append-ordered semantics: inserts go to the tail except when
// they confirm a pending optimistic entry, which is replaced in place.
func (s *ListState) Apply(ev ChangeEvent) bool {
	if ev.Item == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := ev.Item.ItemID()

	switch ev.Type {
	case EventInsert:
		if _, ok := s.index[id]; ok {
			// Already rendered (optimistic echo or duplicate delivery).
			return false
		}
		if ev.TempID != "" {
			if pos, ok := s.pending[ev.TempID]; ok {
				delete(s.index, s.items[pos].ItemID())
				delete(s.pending, ev.TempID)
				s.items[pos] = ev.Item
				s.index[id] = pos
				return true
			}
		}
		s.append(ev.Item)
		return true

	case EventUpdate:
		pos, ok := s.index[id]
		if !ok {
			return false
		}
		s.items[pos] = ev.Item
		return true

	case EventDelete:
		pos, ok := s.index[id]
		if !ok {
			return false
		}
		s.removeAt(pos)
		return true
	}

	return false
}

// AddPending inserts an optimistic local entry under its temporary id.
// A later insert event carrying the same temp id confirms it in place.
func (s *ListState) AddPending(tempID string, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[item.ItemID()]; ok {
		return
	}
	s.append(item)
	s.pending[tempID] = s.index[item.ItemID()]
}

// DropPending rolls back an optimistic entry after a server rejection.
func (s *ListState) DropPending(tempID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.pending[tempID]
	if !ok {
		return
	}
	delete(s.pending, tempID)
	s.removeAt(pos)
}

// Replace swaps the entire list, used for orderings that depend on
// aggregate fields the change stream does not carry (pinned threads,
// last-activity sort): the list is refetched and re-sorted wholesale.
func (s *ListState) Replace(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]Item, len(items))
	copy(s.items, items)
	s.index = make(map[string]int, len(items))
	s.pending = make(map[string]int)
	for i, item := range items {
		s.index[item.ItemID()] = i
	}
}

// Snapshot returns a copy of the current ordered list.
func (s *ListState) Snapshot() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *ListState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// append assumes the lock is held.
func (s *ListState) append(item Item) {
	s.items = append(s.items, item)
	s.index[item.ItemID()] = len(s.items) - 1
	if s.maxLen > 0 && len(s.items) > s.maxLen {
		s.removeAt(0)
	}
}

// removeAt assumes the lock is held.
func (s *ListState) removeAt(pos int) {
	delete(s.index, s.items[pos].ItemID())
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].ItemID()] = i
	}
	for tempID, p := range s.pending {
		if p == pos {
			delete(s.pending, tempID)
		} else if p > pos {
			s.pending[tempID] = p - 1
		}
	}
}
