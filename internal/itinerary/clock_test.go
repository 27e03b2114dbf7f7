package itinerary

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   int
		wantOK bool
	}{
		{name: "afternoon", text: "2:00 PM", want: 14 * 60, wantOK: true},
		{name: "morning", text: "9:30 AM", want: 9*60 + 30, wantOK: true},
		{name: "midnight", text: "12:00 AM", want: 0, wantOK: true},
		{name: "noon", text: "12:00 PM", want: 12 * 60, wantOK: true},
		{name: "half past noon", text: "12:30 PM", want: 12*60 + 30, wantOK: true},
		{name: "lowercase suffix", text: "7:45 pm", want: 19*60 + 45, wantOK: true},
		{name: "no space before suffix", text: "7:45PM", want: 19*60 + 45, wantOK: true},
		{name: "embedded in prose", text: "Dinner reservation at 7:30 PM sharp", want: 19*60 + 30, wantOK: true},
		{name: "24h without suffix", text: "18:15", want: 18*60 + 15, wantOK: true},
		{name: "no time at all", text: "whenever we feel like it", wantOK: false},
		{name: "empty", text: "", wantOK: false},
		{name: "bare number", text: "7", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseClock(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseClock(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
