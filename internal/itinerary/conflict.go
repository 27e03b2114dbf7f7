package itinerary

import (
	"sort"
	"strings"

	"tripboard/internal/model"
)

// BufferMinutes is the minimum travel buffer between events at
// different locations. Two scheduled events closer together than this
// are flagged as a travel conflict.
const BufferMinutes = 75

// Conflicts scans a single day for pairs of events whose start times
// are within BufferMinutes of each other while their locations differ.
// Both events of every such pair are flagged, so the result is
// symmetric by construction.
//
// Events without a parseable time never conflict. Events whose
// locations match (trimmed, case-insensitive) never conflict either:
// back-to-back bookings at the same venue need no travel buffer. The
// empty-location case is treated the same way, since travel cannot be
// proven.
//
// Conflicts are strictly per day; callers wanting the whole board use
// AllConflicts.
func Conflicts(day model.Day) map[string]struct{} {
	flagged := make(map[string]struct{})

	type timed struct {
		id       string
		minutes  int
		location string
	}

	scheduled := make([]timed, 0, len(day.Events))
	for _, ev := range day.Events {
		m, ok := ParseClock(ev.Time)
		if !ok {
			continue
		}
		scheduled = append(scheduled, timed{
			id:       ev.ID,
			minutes:  m,
			location: strings.ToLower(strings.TrimSpace(ev.Location)),
		})
	}

	// Stable sort keeps the day's display order for equal start times.
	sort.SliceStable(scheduled, func(i, j int) bool {
		return scheduled[i].minutes < scheduled[j].minutes
	})

	for i := 0; i < len(scheduled); i++ {
		for j := i + 1; j < len(scheduled); j++ {
			if scheduled[j].minutes-scheduled[i].minutes > BufferMinutes {
				// Sorted ascending, so every later event is even
				// farther away from i.
				break
			}
			a, b := scheduled[i], scheduled[j]
			if a.location != "" && b.location != "" && a.location != b.location {
				flagged[a.id] = struct{}{}
				flagged[b.id] = struct{}{}
			}
		}
	}

	return flagged
}

// AllConflicts returns the union of per-day conflict sets. Day
// boundaries are still respected: events on different days never
// conflict with each other.
func AllConflicts(days []model.Day) map[string]struct{} {
	flagged := make(map[string]struct{})
	for _, day := range days {
		for id := range Conflicts(day) {
			flagged[id] = struct{}{}
		}
	}
	return flagged
}

// ConflictsByDay maps each day id to a sorted list of its conflicting
// event ids. Days without conflicts are omitted.
func ConflictsByDay(days []model.Day) map[string][]string {
	out := make(map[string][]string)
	for _, day := range days {
		set := Conflicts(day)
		if len(set) == 0 {
			continue
		}
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[day.ID] = ids
	}
	return out
}
