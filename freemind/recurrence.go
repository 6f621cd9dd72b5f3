package freemind

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseRecurrence parses a repeat rule. Accepted forms:
//
//   - 5 fields: "30 7 * * Mon-Fri"
//   - 6 fields, seconds first: "0 30 7 * * Mon-Fri"
//   - 7 fields, trailing year: "0 30 7 * * Mon-Fri 2026,2027"
//   - descriptors: "@daily", "@every 2h"
//
// The 5 field form numbers days of the week 0-6 from Sunday, as crontab does.
// The 6 and 7 field forms are those stored by the Freemind server, which
// numbers them 1-7 from Sunday.
func ParseRecurrence(expr string) (cron.Schedule, error) {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return nil, errors.New("empty repeat rule")
	}
	if len(fields) == 6 || len(fields) == 7 {
		dow, err := weekdaysFromOne(fields[5])
		if err != nil {
			return nil, err
		}
		fields[5] = dow
	}
	if len(fields) != 7 {
		return parser.Parse(strings.Join(fields, " "))
	}

	sched, err := parser.Parse(strings.Join(fields[:6], " "))
	if err != nil {
		return nil, err
	}
	if fields[6] == "*" || fields[6] == "?" {
		return sched, nil
	}
	years, err := parseYears(fields[6])
	if err != nil {
		return nil, err
	}
	return &yearSchedule{Schedule: sched, years: years}, nil
}

// weekdaysFromOne renumbers the numeric days in a day of week field from
// 1-7 (Sunday is 1) to 0-6. Names, "*" and "?" are left alone.
func weekdaysFromOne(field string) (string, error) {
	parts := strings.Split(field, ",")
	for i, part := range parts {
		step := ""
		if j := strings.Index(part, "/"); j >= 0 {
			part, step = part[:j], part[j:]
		}
		days := strings.SplitN(part, "-", 2)
		for k, day := range days {
			n, err := strconv.Atoi(day)
			if err != nil {
				continue
			}
			if n < 1 || n > 7 {
				return "", errors.Errorf("day of week %d out of range 1-7", n)
			}
			days[k] = strconv.Itoa(n - 1)
		}
		parts[i] = strings.Join(days, "-") + step
	}
	return strings.Join(parts, ","), nil
}

func parseYears(field string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(field, ",") {
		lo, hi := part, part
		if i := strings.Index(part, "-"); i > 0 {
			lo, hi = part[:i], part[i+1:]
		}
		from, err := strconv.Atoi(lo)
		if err != nil {
			return nil, errors.Wrapf(err, "year %q", part)
		}
		to, err := strconv.Atoi(hi)
		if err != nil {
			return nil, errors.Wrapf(err, "year %q", part)
		}
		if to < from || to-from > 100 {
			return nil, errors.Errorf("year range %q", part)
		}
		for y := from; y <= to; y++ {
			years = append(years, y)
		}
	}
	return years, nil
}

// yearSchedule restricts a schedule to a set of years.
type yearSchedule struct {
	cron.Schedule
	years []int
}

func (s *yearSchedule) allowed(y int) bool {
	for _, year := range s.years {
		if year == y {
			return true
		}
	}
	return false
}

// nextYear is the first allowed year after y, or 0.
func (s *yearSchedule) nextYear(y int) int {
	next := 0
	for _, year := range s.years {
		if year > y && (next == 0 || year < next) {
			next = year
		}
	}
	return next
}

func (s *yearSchedule) Next(t time.Time) time.Time {
	for i := 0; i <= len(s.years)+1; i++ {
		n := s.Schedule.Next(t)
		if n.IsZero() || s.allowed(n.Year()) {
			return n
		}
		from := t.Year()
		if n.Year()-1 > from {
			from = n.Year() - 1
		}
		y := s.nextYear(from)
		if y == 0 {
			return time.Time{}
		}
		// continue from just before the start of the next allowed year
		t = time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location()).Add(-time.Second)
	}
	return time.Time{}
}

// nextOccurrence is the first occurrence of rule strictly after now, in
// epoch seconds.
func nextOccurrence(rule string, now time.Time) (int64, bool) {
	sched, err := ParseRecurrence(rule)
	if err != nil {
		return 0, false
	}
	next := sched.Next(now)
	if next.IsZero() {
		return 0, false
	}
	return next.Unix(), true
}
