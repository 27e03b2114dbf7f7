package itinerary

import "tripboard/internal/model"

// The board operations are pure: each takes the current day list and
// returns a new one, leaving the input untouched. Unknown day or event
// ids are a no-op returning the input unchanged; drag-and-drop UIs hand
// over stale ids all the time and must never crash the board.

// MoveEvent relocates an event from one day to another (or within one
// day) and inserts it at destIndex, clamped to the destination list's
// bounds. The move is atomic: the event is never present in two days,
// and a failed lookup leaves every day exactly as it was.
func MoveEvent(days []model.Day, eventID, sourceDayID, destDayID string, destIndex int) []model.Day {
	si := dayIndex(days, sourceDayID)
	di := dayIndex(days, destDayID)
	if si < 0 || di < 0 {
		return days
	}

	ei := eventIndex(days[si].Events, eventID)
	if ei < 0 {
		return days
	}

	out := make([]model.Day, len(days))
	copy(out, days)

	moved := days[si].Events[ei]

	source := make([]model.Event, 0, len(days[si].Events)-1)
	source = append(source, days[si].Events[:ei]...)
	source = append(source, days[si].Events[ei+1:]...)

	// Same-day moves insert into the already-shortened source list so
	// the index arithmetic below stays a single splice pair.
	dest := source
	if si != di {
		dest = make([]model.Event, len(days[di].Events))
		copy(dest, days[di].Events)
	}

	destIndex = clamp(destIndex, 0, len(dest))
	dest = append(dest, model.Event{})
	copy(dest[destIndex+1:], dest[destIndex:])
	dest[destIndex] = moved

	if si == di {
		out[si].Events = dest
		return out
	}
	out[si].Events = source
	out[di].Events = dest
	return out
}

// ReorderEvent moves the event at startIndex within one day's list to
// endIndex. Indices outside the list are clamped rather than trusted;
// a reorder can only ever permute the one day it targets.
func ReorderEvent(days []model.Day, dayID string, startIndex, endIndex int) []model.Day {
	d := dayIndex(days, dayID)
	if d < 0 {
		return days
	}
	events := days[d].Events
	if len(events) == 0 {
		return days
	}

	startIndex = clamp(startIndex, 0, len(events)-1)

	reordered := make([]model.Event, 0, len(events))
	reordered = append(reordered, events[:startIndex]...)
	reordered = append(reordered, events[startIndex+1:]...)

	endIndex = clamp(endIndex, 0, len(reordered))
	reordered = append(reordered, model.Event{})
	copy(reordered[endIndex+1:], reordered[endIndex:])
	reordered[endIndex] = events[startIndex]

	out := make([]model.Day, len(days))
	copy(out, days)
	out[d].Events = reordered
	return out
}

// AddEvent appends an event to the end of a day's list. The caller
// guarantees the event id is globally unique; no uniqueness check is
// performed here.
func AddEvent(days []model.Day, dayID string, event model.Event) []model.Day {
	d := dayIndex(days, dayID)
	if d < 0 {
		return days
	}

	events := make([]model.Event, 0, len(days[d].Events)+1)
	events = append(events, days[d].Events...)
	events = append(events, event)

	out := make([]model.Day, len(days))
	copy(out, days)
	out[d].Events = events
	return out
}

// UpdateEvent replaces the event with the same id inside the given day.
// An id not present in that day is a no-op.
func UpdateEvent(days []model.Day, dayID string, event model.Event) []model.Day {
	d := dayIndex(days, dayID)
	if d < 0 {
		return days
	}
	if eventIndex(days[d].Events, event.ID) < 0 {
		return days
	}

	events := make([]model.Event, len(days[d].Events))
	copy(events, days[d].Events)
	for i := range events {
		if events[i].ID == event.ID {
			events[i] = event
		}
	}

	out := make([]model.Day, len(days))
	copy(out, days)
	out[d].Events = events
	return out
}

// RemoveEvent filters an event out of a day's list; absent ids no-op.
func RemoveEvent(days []model.Day, dayID, eventID string) []model.Day {
	d := dayIndex(days, dayID)
	if d < 0 {
		return days
	}
	if eventIndex(days[d].Events, eventID) < 0 {
		return days
	}

	events := make([]model.Event, 0, len(days[d].Events)-1)
	for _, ev := range days[d].Events {
		if ev.ID != eventID {
			events = append(events, ev)
		}
	}

	out := make([]model.Day, len(days))
	copy(out, days)
	out[d].Events = events
	return out
}

func dayIndex(days []model.Day, id string) int {
	for i := range days {
		if days[i].ID == id {
			return i
		}
	}
	return -1
}

func eventIndex(events []model.Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
