package utils

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"event-platform/models"
)

const calendarTimeLayout = "20060102T150405Z"

// GoogleCalendarLink builds the Google Calendar render URL for an
// event.
func GoogleCalendarLink(event *models.Event) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", event.Name)
	params.Set("dates", fmt.Sprintf("%s/%s",
		event.StartDatetime.UTC().Format(calendarTimeLayout),
		event.EndDatetime.UTC().Format(calendarTimeLayout)))
	params.Set("details", event.Description)
	params.Set("location", event.Location)
	return "https://www.google.com/calendar/render?" + params.Encode()
}

// ICSEvent renders an event as an iCalendar file for Outlook/Apple
// Calendar.
func ICSEvent(event *models.Event, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//event-platform//EN\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "UID:event-%d@event-platform\r\n", event.ID)
	fmt.Fprintf(&b, "DTSTAMP:%s\r\n", generatedAt.UTC().Format(calendarTimeLayout))
	fmt.Fprintf(&b, "DTSTART:%s\r\n", event.StartDatetime.UTC().Format(calendarTimeLayout))
	fmt.Fprintf(&b, "DTEND:%s\r\n", event.EndDatetime.UTC().Format(calendarTimeLayout))
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS(event.Name))
	fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICS(event.Description))
	fmt.Fprintf(&b, "LOCATION:%s\r\n", escapeICS(event.Location))
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func escapeICS(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}
