package icalfeed

import (
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stayhub/stayhub/pkg/lockeddate"
	"github.com/stayhub/stayhub/pkg/reservation"
)

const productID = "-//StayHub//Availability Feed//EN"

type feedEvent struct {
	uid     string
	start   time.Time
	end     time.Time
	summary string
}

// renderFeed serializes one property's blocking reservations and locked
// dates as a VCALENDAR. Events are ordered ascending by start date, then
// UID, and every property of every VEVENT derives from row data, so
// repeated calls without intervening mutation are byte-identical.
func renderFeed(reservations []reservation.Reservation, locks []lockeddate.LockedDate) string {
	events := make([]feedEvent, 0, len(reservations)+len(locks))

	for _, res := range reservations {
		if !res.Status.Blocks() {
			continue
		}
		events = append(events, feedEvent{
			uid:     res.UID.String(),
			start:   res.CheckIn,
			end:     res.CheckOut,
			summary: "Reserved",
		})
	}
	for _, lock := range locks {
		events = append(events, feedEvent{
			uid:     fmt.Sprintf("lock-%d@stayhub", lock.ID),
			start:   lock.Day,
			end:     lock.Day.AddDate(0, 0, 1),
			summary: "Not available",
		})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].start.Equal(events[j].start) {
			return events[i].uid < events[j].uid
		}
		return events[i].start.Before(events[j].start)
	})

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, event := range events {
		ve := cal.AddEvent(event.uid)
		// DTSTAMP from row data, not the wall clock, to keep output stable.
		ve.SetDtStampTime(event.start)
		ve.SetAllDayStartAt(event.start)
		ve.SetAllDayEndAt(event.end)
		ve.SetSummary(event.summary)
	}
	return cal.Serialize()
}
