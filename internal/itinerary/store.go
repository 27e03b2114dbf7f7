package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"tripboard/internal/model"
)

// DayCount is the fixed size of the itinerary grid. Days are created
// once at startup and never destroyed during a session.
const DayCount = 8

// Store is the single owner of the day list. All mutation goes through
// the pure board operations inside one critical section, so a reader
// can never observe an event that has left its source day but not yet
// arrived in its destination.
//
// Store is safe for concurrent use. Subscribers are notified with a
// fresh snapshot after every successful mutation.
type Store struct {
	mu   sync.RWMutex
	days []model.Day

	subMu   sync.Mutex
	subs    map[int]func([]model.Day)
	nextSub int
}

// NewStore creates a store scaffolded with the fixed 8-day grid
// (day-1 .. day-8).
func NewStore() *Store {
	days := make([]model.Day, DayCount)
	for i := range days {
		days[i] = model.Day{
			ID:     fmt.Sprintf("day-%d", i+1),
			Label:  fmt.Sprintf("Day %d", i+1),
			Events: []model.Event{},
		}
	}
	return &Store{
		days: days,
		subs: make(map[int]func([]model.Day)),
	}
}

// Snapshot returns a copy of the current day list. The day and event
// slices are cloned, so callers may hold onto the result across later
// mutations.
func (s *Store) Snapshot() []model.Day {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDays(s.days)
}

// Subscribe registers fn to be called with a snapshot after every
// mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(days []model.Day)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Move relocates an event between (or within) days. See MoveEvent.
func (s *Store) Move(eventID, sourceDayID, destDayID string, destIndex int) {
	s.apply(func(days []model.Day) []model.Day {
		return MoveEvent(days, eventID, sourceDayID, destDayID, destIndex)
	})
}

// Reorder permutes one day's event list. See ReorderEvent.
func (s *Store) Reorder(dayID string, startIndex, endIndex int) {
	s.apply(func(days []model.Day) []model.Day {
		return ReorderEvent(days, dayID, startIndex, endIndex)
	})
}

// Add appends an event to a day. See AddEvent.
func (s *Store) Add(dayID string, event model.Event) {
	s.apply(func(days []model.Day) []model.Day {
		return AddEvent(days, dayID, event)
	})
}

// Update replaces an event in place. See UpdateEvent.
func (s *Store) Update(dayID string, event model.Event) {
	s.apply(func(days []model.Day) []model.Day {
		return UpdateEvent(days, dayID, event)
	})
}

// Remove deletes an event from a day. See RemoveEvent.
func (s *Store) Remove(dayID, eventID string) {
	s.apply(func(days []model.Day) []model.Day {
		return RemoveEvent(days, dayID, eventID)
	})
}

// Conflicts recomputes the travel-conflict sets from current state.
func (s *Store) Conflicts() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ConflictsByDay(s.days)
}

func (s *Store) apply(op func([]model.Day) []model.Day) {
	s.mu.Lock()
	s.days = op(s.days)
	snap := cloneDays(s.days)
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) notify(days []model.Day) {
	s.subMu.Lock()
	fns := make([]func([]model.Day), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(days)
	}
}

// Load replaces the store's state with the snapshot at path. A missing
// file is not an error; the scaffolded grid stays in place for first
// runs.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var days []model.Day
	if err := json.Unmarshal(data, &days); err != nil {
		return fmt.Errorf("itinerary: decode snapshot: %w", err)
	}
	if len(days) == 0 {
		return nil
	}

	s.mu.Lock()
	s.days = days
	snap := cloneDays(s.days)
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Save writes the current state to path as a JSON day list, atomically
// via a temp file + rename so a crash never leaves a torn snapshot.
func (s *Store) Save(path string) error {
	if path == "" {
		return errors.New("itinerary: snapshot path is empty")
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s.days, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tripboard-state-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

func cloneDays(days []model.Day) []model.Day {
	out := make([]model.Day, len(days))
	copy(out, days)
	for i := range out {
		events := make([]model.Event, len(out[i].Events))
		for j, ev := range out[i].Events {
			events[j] = cloneEvent(ev)
		}
		out[i].Events = events
	}
	return out
}

// cloneEvent copies an event including its nested slices and pointers,
// so mutating a snapshot can never reach back into store state.
func cloneEvent(ev model.Event) model.Event {
	if ev.Tags != nil {
		tags := make([]string, len(ev.Tags))
		copy(tags, ev.Tags)
		ev.Tags = tags
	}
	if ev.Media != nil {
		media := make([]model.Media, len(ev.Media))
		copy(media, ev.Media)
		ev.Media = media
	}
	if ev.ContactInfo != nil {
		ci := *ev.ContactInfo
		ev.ContactInfo = &ci
	}
	if ev.HiddenDetails != nil {
		hd := *ev.HiddenDetails
		ev.HiddenDetails = &hd
	}
	if ev.Coordinates != nil {
		co := *ev.Coordinates
		ev.Coordinates = &co
	}
	return ev
}
