package googlecal

import (
	"strings"
	"time"
)

// Study sessions default to one hour starting at 18:00 on each scheduled
// weekday, which matches how the generated schedules read ("Mon/Wed/Fri").
const (
	sessionStartHour = 18
	sessionLength    = time.Hour
)

type session struct {
	start time.Time
	end   time.Time
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// expandSchedule turns a free-text schedule into concrete sessions between
// start and end (inclusive). The schedule is produced by the agent and can
// be anything; weekday tokens are picked out of it and everything else is
// ignored. When no weekday parses, a single session spanning the whole
// plan window is returned so the calendar still shows the commitment.
func expandSchedule(schedule string, start, end time.Time) []session {
	if end.Before(start) {
		return nil
	}
	days := scheduledWeekdays(schedule)
	if len(days) == 0 {
		return []session{{start: start, end: end}}
	}

	sessions := make([]session, 0)
	for day := dateOnly(start); !day.After(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		if _, ok := days[day.Weekday()]; !ok {
			continue
		}
		at := day.Add(sessionStartHour * time.Hour)
		sessions = append(sessions, session{start: at, end: at.Add(sessionLength)})
	}
	return sessions
}

// scheduledWeekdays extracts weekday mentions from free text by matching
// three-letter prefixes of alphabetic runs.
func scheduledWeekdays(schedule string) map[time.Weekday]struct{} {
	out := make(map[time.Weekday]struct{})
	for _, token := range splitWords(schedule) {
		if len(token) < 3 {
			continue
		}
		if wd, ok := weekdayNames[strings.ToLower(token[:3])]; ok {
			out[wd] = struct{}{}
		}
	}
	return out
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
