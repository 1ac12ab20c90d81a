package model

import (
	"fmt"
	"regexp"
)

// ScheduleEntry is one recurring weekly class window in a lab. Times are
// minute-granular "HH:MM" strings compared lexically, which is safe because
// they are always zero padded. Ranges never cross midnight.
//
// Fields:
//  ID         – primary key identifier.
//  Lab        – lab code the class occupies.
//  Day        – English weekday name ("Monday".."Sunday").
//  StartTime  – class start, inclusive.
//  EndTime    – class end, inclusive.
//  Subject    – course name.
//  Instructor – teacher in charge; copied onto assignments.
//  Section    – optional class group/section label.
type ScheduleEntry struct {
	ID         uint64  // schedules.id
	Lab        string  // schedules.lab
	Day        string  // schedules.day
	StartTime  string  // schedules.start_time
	EndTime    string  // schedules.end_time
	Subject    string  // schedules.subject
	Instructor string  // schedules.instructor
	Section    *string // schedules.section (nullable)
}

// Contains reports whether the clock value ("HH:MM") falls inside the entry's
// window. Both boundaries are inclusive: a 07:00-07:50 class is active at
// exactly 07:00 and exactly 07:50.
func (e ScheduleEntry) Contains(clock string) bool {
	return clock >= e.StartTime && clock <= e.EndTime
}

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidClock reports whether s is a zero-padded 24h "HH:MM" value.
func ValidClock(s string) bool { return clockRe.MatchString(s) }

// Validate checks an entry's time fields before it is persisted by the
// schedule admin endpoint. Overlap between entries is not checked here; the
// matcher tolerates overlapping rows and resolves them earliest-start-first.
func (e ScheduleEntry) Validate() error {
	if !ValidClock(e.StartTime) || !ValidClock(e.EndTime) {
		return fmt.Errorf("schedule times must be HH:MM, got %q-%q", e.StartTime, e.EndTime)
	}
	if e.EndTime <= e.StartTime {
		return fmt.Errorf("schedule end %q must be after start %q", e.EndTime, e.StartTime)
	}
	if !ValidWeekday(e.Day) {
		return fmt.Errorf("unknown weekday %q", e.Day)
	}
	if e.Subject == "" {
		return fmt.Errorf("schedule subject is required")
	}
	return nil
}

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// ValidWeekday reports whether day is an English weekday name.
func ValidWeekday(day string) bool { return weekdays[day] }
