package itinerary

import (
	"testing"

	"tripboard/internal/model"
)

func eventIDs(events []model.Event) []string {
	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
	}
	return ids
}

func equalIDs(got []model.Event, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].ID != want[i] {
			return false
		}
	}
	return true
}

func totalEvents(days []model.Day) int {
	n := 0
	for _, d := range days {
		n += len(d.Events)
	}
	return n
}

func testBoard() []model.Day {
	return []model.Day{
		day("day-1", ev("a", "", ""), ev("b", "", ""), ev("c", "", "")),
		day("day-2", ev("x", "", ""), ev("y", "", "")),
	}
}

func TestMoveEventAcrossDays(t *testing.T) {
	days := testBoard()
	before := totalEvents(days)

	got := MoveEvent(days, "b", "day-1", "day-2", 1)

	if totalEvents(got) != before {
		t.Fatalf("event count changed: %d -> %d", before, totalEvents(got))
	}
	if !equalIDs(got[0].Events, "a", "c") {
		t.Errorf("day-1 = %v, want [a c]", eventIDs(got[0].Events))
	}
	if !equalIDs(got[1].Events, "x", "b", "y") {
		t.Errorf("day-2 = %v, want [x b y]", eventIDs(got[1].Events))
	}
}

func TestMoveEventSameDay(t *testing.T) {
	days := testBoard()

	// Moving "a" to index 2 targets the list after removal ([b c]), so
	// the result is [b c a].
	got := MoveEvent(days, "a", "day-1", "day-1", 2)

	if !equalIDs(got[0].Events, "b", "c", "a") {
		t.Errorf("day-1 = %v, want [b c a]", eventIDs(got[0].Events))
	}
}

func TestMoveEventClampsIndex(t *testing.T) {
	days := testBoard()

	got := MoveEvent(days, "b", "day-1", "day-2", 99)
	if !equalIDs(got[1].Events, "x", "y", "b") {
		t.Errorf("over-large index: day-2 = %v, want [x y b]", eventIDs(got[1].Events))
	}

	got = MoveEvent(days, "b", "day-1", "day-2", -5)
	if !equalIDs(got[1].Events, "b", "x", "y") {
		t.Errorf("negative index: day-2 = %v, want [b x y]", eventIDs(got[1].Events))
	}
}

func TestMoveEventUnknownIDsNoOp(t *testing.T) {
	days := testBoard()

	tests := []struct {
		name    string
		eventID string
		source  string
		dest    string
	}{
		{name: "unknown event", eventID: "nope", source: "day-1", dest: "day-2"},
		{name: "unknown source day", eventID: "a", source: "day-9", dest: "day-2"},
		{name: "unknown dest day", eventID: "a", source: "day-1", dest: "day-9"},
		{name: "event not in source day", eventID: "x", source: "day-1", dest: "day-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveEvent(days, tt.eventID, tt.source, tt.dest, 0)
			if !equalIDs(got[0].Events, "a", "b", "c") || !equalIDs(got[1].Events, "x", "y") {
				t.Errorf("board changed: %v / %v", eventIDs(got[0].Events), eventIDs(got[1].Events))
			}
		})
	}
}

func TestMoveEventDoesNotMutateInput(t *testing.T) {
	days := testBoard()

	_ = MoveEvent(days, "b", "day-1", "day-2", 0)

	if !equalIDs(days[0].Events, "a", "b", "c") {
		t.Errorf("input day-1 mutated: %v", eventIDs(days[0].Events))
	}
	if !equalIDs(days[1].Events, "x", "y") {
		t.Errorf("input day-2 mutated: %v", eventIDs(days[1].Events))
	}
}

func TestReorderEvent(t *testing.T) {
	tests := []struct {
		name       string
		startIndex int
		endIndex   int
		want       []string
	}{
		{name: "front to back", startIndex: 0, endIndex: 2, want: []string{"b", "c", "a"}},
		{name: "back to front", startIndex: 2, endIndex: 0, want: []string{"c", "a", "b"}},
		{name: "no movement", startIndex: 1, endIndex: 1, want: []string{"a", "b", "c"}},
		{name: "indices clamped", startIndex: 99, endIndex: -1, want: []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReorderEvent(testBoard(), "day-1", tt.startIndex, tt.endIndex)
			if !equalIDs(got[0].Events, tt.want...) {
				t.Errorf("day-1 = %v, want %v", eventIDs(got[0].Events), tt.want)
			}
		})
	}
}

func TestReorderEventUnknownDayNoOp(t *testing.T) {
	days := testBoard()
	got := ReorderEvent(days, "day-9", 0, 1)
	if !equalIDs(got[0].Events, "a", "b", "c") {
		t.Errorf("board changed: %v", eventIDs(got[0].Events))
	}
}

func TestAddEvent(t *testing.T) {
	days := testBoard()

	got := AddEvent(days, "day-2", ev("z", "", ""))
	if !equalIDs(got[1].Events, "x", "y", "z") {
		t.Errorf("day-2 = %v, want [x y z]", eventIDs(got[1].Events))
	}
	if !equalIDs(days[1].Events, "x", "y") {
		t.Errorf("input mutated: %v", eventIDs(days[1].Events))
	}
}

func TestAddEventAcceptsDuplicateID(t *testing.T) {
	// AddEvent performs no uniqueness check; id uniqueness is the
	// caller's contract. A duplicate id is accepted and both copies
	// coexist on the board.
	days := testBoard()

	got := AddEvent(days, "day-2", ev("a", "", ""))
	if !equalIDs(got[1].Events, "x", "y", "a") {
		t.Fatalf("day-2 = %v, want [x y a]", eventIDs(got[1].Events))
	}

	seen := 0
	for _, d := range got {
		for _, e := range d.Events {
			if e.ID == "a" {
				seen++
			}
		}
	}
	if seen != 2 {
		t.Errorf("id a appears %d times, want 2", seen)
	}
}

func TestUpdateEvent(t *testing.T) {
	days := testBoard()

	updated := ev("b", "2:00 PM", "Rosa Negra")
	got := UpdateEvent(days, "day-1", updated)

	if got[0].Events[1].Location != "Rosa Negra" {
		t.Errorf("event not updated: %+v", got[0].Events[1])
	}
	if days[0].Events[1].Location != "" {
		t.Errorf("input mutated: %+v", days[0].Events[1])
	}

	// An id that lives on another day is a no-op for this day.
	got = UpdateEvent(days, "day-2", updated)
	if !equalIDs(got[1].Events, "x", "y") {
		t.Errorf("day-2 changed: %v", eventIDs(got[1].Events))
	}
}

func TestRemoveEvent(t *testing.T) {
	days := testBoard()

	got := RemoveEvent(days, "day-1", "b")
	if !equalIDs(got[0].Events, "a", "c") {
		t.Errorf("day-1 = %v, want [a c]", eventIDs(got[0].Events))
	}

	got = RemoveEvent(days, "day-1", "nope")
	if !equalIDs(got[0].Events, "a", "b", "c") {
		t.Errorf("unknown id changed the board: %v", eventIDs(got[0].Events))
	}
}
