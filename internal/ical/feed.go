// Package ical renders a house calendar as an iCalendar feed so it can be
// subscribed to from any calendar client.
package ical

import (
	"fmt"
	"io"
	"iter"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/cittafutura/booking-service/internal/models"
)

const productID = "-//Citta Futura//Booking Service//EN"

// Write serializes every event of the sequence into one VCALENDAR. Events
// that start and end on UTC midnight are written as all-day events.
func Write(w io.Writer, house *models.House, events iter.Seq2[models.CalendarEvent, error]) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(house.Title)

	stamp := time.Now().UTC()
	for ev, err := range events {
		if err != nil {
			return err
		}
		vevent := cal.AddEvent(fmt.Sprintf("%s-%d@%s", ev.Kind, ev.ID, house.Slug))
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(ev.Label)
		if ev.Note != nil && *ev.Note != "" {
			vevent.SetDescription(*ev.Note)
		}
		if isDate(ev.Start) && isDate(ev.End) {
			vevent.SetAllDayStartAt(ev.Start)
			vevent.SetAllDayEndAt(ev.End)
		} else {
			vevent.SetStartAt(ev.Start)
			vevent.SetEndAt(ev.End)
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

func isDate(t time.Time) bool {
	t = t.UTC()
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
