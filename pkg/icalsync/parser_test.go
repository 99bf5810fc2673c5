package icalsync

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedWith(events ...string) []byte {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Airbnb Inc//Hosting Calendar 1.0//EN\r\n")
	for _, ev := range events {
		b.WriteString("BEGIN:VEVENT\r\n")
		b.WriteString(ev)
		b.WriteString("END:VEVENT\r\n")
	}
	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String())
}

func TestParseFeed(t *testing.T) {
	t.Run("should parse an all-day booking event", func(t *testing.T) {
		events, err := ParseFeed(feedWith(
			"UID:abc-123@airbnb.com\r\nDTSTART;VALUE=DATE:20260110\r\nDTEND;VALUE=DATE:20260113\r\nSUMMARY:Reserved\r\n",
		))

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "abc-123@airbnb.com", events[0].UID)
		assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), events[0].Start)
		assert.Equal(t, time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC), events[0].End)
		assert.Equal(t, "Reserved", events[0].Summary)
		assert.False(t, events[0].Cancelled)
	})

	t.Run("should truncate date-time stamps to civil dates", func(t *testing.T) {
		events, err := ParseFeed(feedWith(
			"UID:dt@vrbo.com\r\nDTSTART:20260110T150000Z\r\nDTEND:20260112T110000Z\r\n",
		))

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), events[0].Start)
		assert.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), events[0].End)
	})

	t.Run("should default a missing DTEND to one night", func(t *testing.T) {
		events, err := ParseFeed(feedWith(
			"UID:short@airbnb.com\r\nDTSTART;VALUE=DATE:20260110\r\n",
		))

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), events[0].End)
	})

	t.Run("should flag cancelled events", func(t *testing.T) {
		events, err := ParseFeed(feedWith(
			"UID:gone@booking.com\r\nDTSTART;VALUE=DATE:20260110\r\nDTEND;VALUE=DATE:20260112\r\nSTATUS:CANCELLED\r\n",
		))

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.True(t, events[0].Cancelled)
	})

	t.Run("should skip events missing UID or DTSTART without failing the feed", func(t *testing.T) {
		events, err := ParseFeed(feedWith(
			"DTSTART;VALUE=DATE:20260110\r\nDTEND;VALUE=DATE:20260112\r\n",
			"UID:no-start@airbnb.com\r\nSUMMARY:Broken\r\n",
			"UID:good@airbnb.com\r\nDTSTART;VALUE=DATE:20260120\r\nDTEND;VALUE=DATE:20260122\r\n",
		))

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "good@airbnb.com", events[0].UID)
	})

	t.Run("should reject an empty body", func(t *testing.T) {
		_, err := ParseFeed(nil)
		assert.Error(t, err)
	})

	t.Run("should reject a body that is not a calendar", func(t *testing.T) {
		_, err := ParseFeed([]byte("<html>not an ics file</html>"))
		assert.Error(t, err)
	})
}
