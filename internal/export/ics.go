package export

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"tripboard/internal/itinerary"
	"tripboard/internal/model"
)

// defaultEventDuration is assumed for scheduled events; the itinerary
// only records start times.
const defaultEventDuration = 90 * time.Minute

// Calendar renders the itinerary as an iCalendar feed. Day N of the
// board lands on tripStart+N-1. Events with a parseable clock time
// become timed VEVENTs; everything else becomes an all-day entry so it
// still shows up on the right date.
func Calendar(days []model.Day, tripStart time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tripboard//Tulum Itinerary//EN")

	now := time.Now()

	for i, day := range days {
		date := tripStart.AddDate(0, 0, i)

		for _, ev := range day.Events {
			e := cal.AddEvent(ev.ID + "@tripboard")
			e.SetDtStampTime(now)
			e.SetSummary(ev.Title)

			if minutes, ok := itinerary.ParseClock(ev.Time); ok {
				start := time.Date(date.Year(), date.Month(), date.Day(),
					minutes/60, minutes%60, 0, 0, date.Location())
				e.SetStartAt(start)
				e.SetEndAt(start.Add(defaultEventDuration))
			} else {
				e.SetAllDayStartAt(date)
				e.SetAllDayEndAt(date.AddDate(0, 0, 1))
			}

			if ev.Location != "" {
				e.SetLocation(ev.Location)
			}
			if ev.Description != "" {
				e.SetDescription(ev.Description)
			}
			if ev.WebsiteURL != "" {
				e.SetURL(ev.WebsiteURL)
			}
		}
	}

	return cal
}

// ICS serializes the itinerary calendar to its wire form.
func ICS(days []model.Day, tripStart time.Time) string {
	return Calendar(days, tripStart).Serialize()
}
