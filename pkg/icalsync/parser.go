package icalsync

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/utils"
)

// BookingEvent is the normalized form of one upstream VEVENT. Only the
// fields the reconciler consumes survive parsing; everything else in the
// feed is ignored best-effort.
type BookingEvent struct {
	UID       string
	Start     time.Time
	End       time.Time
	Cancelled bool
	Summary   string
}

// ParseFeed parses an RFC 5545 document into booking events. A VEVENT
// missing its UID or DTSTART is skipped with a log line; one bad event must
// not sink the rest of the feed.
func ParseFeed(body []byte) ([]BookingEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty feed body")
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	events := make([]BookingEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		event, err := parseVEvent(ve)
		if err != nil {
			log.Debugf("skipping unparseable VEVENT: %v", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func parseVEvent(ve *ics.VEvent) (BookingEvent, error) {
	var event BookingEvent

	uidProp := ve.GetProperty(ics.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return event, errors.New("missing UID")
	}
	event.UID = uidProp.Value

	startProp := ve.GetProperty(ics.ComponentPropertyDtStart)
	if startProp == nil || startProp.Value == "" {
		return event, errors.New("missing DTSTART")
	}
	start, err := parseICSDate(startProp.Value)
	if err != nil {
		return event, fmt.Errorf("bad DTSTART: %w", err)
	}
	event.Start = start

	// Platforms export availability blocks as all-day events; a missing
	// DTEND means a single night.
	event.End = start.AddDate(0, 0, 1)
	if endProp := ve.GetProperty(ics.ComponentPropertyDtEnd); endProp != nil && endProp.Value != "" {
		end, err := parseICSDate(endProp.Value)
		if err != nil {
			return event, fmt.Errorf("bad DTEND: %w", err)
		}
		if end.After(start) {
			event.End = end
		}
	}

	if statusProp := ve.GetProperty(ics.ComponentPropertyStatus); statusProp != nil {
		event.Cancelled = strings.EqualFold(strings.TrimSpace(statusProp.Value), "CANCELLED")
	}
	if summaryProp := ve.GetProperty(ics.ComponentPropertySummary); summaryProp != nil {
		event.Summary = summaryProp.Value
	}

	return event, nil
}

// parseICSDate handles the DATE and DATE-TIME value forms and truncates to
// a civil date; booking feeds are day-granular regardless of how the
// platform formats the stamp.
func parseICSDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty date value")
	}

	var t time.Time
	var err error
	switch {
	case strings.HasSuffix(v, "Z"):
		t, err = time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		t, err = time.Parse("20060102T150405", v)
	default:
		t, err = time.Parse("20060102", v)
	}
	if err != nil {
		return time.Time{}, err
	}
	return utils.DateOnly(t), nil
}
