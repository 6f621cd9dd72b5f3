package speech

import (
	"fmt"
	"strings"
	"time"

	"github.com/barnybug/announcer/freemind"
	"github.com/barnybug/announcer/util"
)

type dayPart struct {
	after time.Duration
	name  string
}

var dayParts = []dayPart{
	{18*time.Hour + 30*time.Minute, "Evening"},
	{15*time.Hour + 30*time.Minute, "Afternoon"},
	{11*time.Hour + 30*time.Minute, "Noon"},
	{5*time.Hour + 30*time.Minute, "Morning"},
}

// Daytime names the part of the day t falls in.
func Daytime(t time.Time) string {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	since := t.Sub(midnight)
	for _, part := range dayParts {
		if since > part.after {
			return part.name
		}
	}
	return "Night"
}

// Greeting with the date and time, eg "Good Morning Ann. Today is Saturday,
// the 17 October 2026. The time is 07:30."
func Greeting(user string, now time.Time) string {
	return fmt.Sprintf("Good %s %s.\nToday is %s, the %s.\nThe time is %s.",
		Daytime(now), user,
		now.Format("Monday"), now.Format("02 January 2006"),
		now.Format("15:04"))
}

func events(n int) string {
	if n == 1 {
		return "1 event"
	}
	return fmt.Sprintf("%d events", n)
}

// Digest narrates the tasks due today.
func Digest(user string, tasks []*freemind.Task, now time.Time) string {
	lines := []string{
		fmt.Sprintf("Hey %s! You have %s due today.", user, events(len(tasks))),
	}
	for i, task := range tasks {
		lines = append(lines, fmt.Sprintf("Number %d: %s.", i+1, strings.TrimRight(task.Description(), ".")))
		if clause := takingPlace(task, now); clause != "" {
			lines = append(lines, clause)
		}
	}
	return strings.Join(lines, "\n")
}

// takingPlace is "Taking place at <location> in <n minutes>." with either
// part left out when unknown, and the countdown left out once it has passed.
func takingPlace(task *freemind.Task, now time.Time) string {
	s := ""
	if loc := task.Location(); loc != "" {
		s += " at " + loc
	}
	if m, ok := task.MinutesUntil(now); ok && m >= 0 {
		s += " in " + util.SpokenMinutes(m)
	}
	if s == "" {
		return ""
	}
	return "Taking place" + s + "."
}

// Alert narrates tasks whose alert is due.
func Alert(tasks []*freemind.Task, now time.Time) string {
	lines := []string{}
	for _, task := range tasks {
		note, _ := task.Alert()
		line := fmt.Sprintf("Reminder! %s: %s", strings.TrimRight(note, ".!"), strings.TrimRight(task.Description(), "."))
		if m, ok := task.MinutesUntil(now); ok && m >= 0 {
			line += ", in " + util.SpokenMinutes(m)
		}
		if _, ok := task.Lead(); ok {
			if tp := task.Timepoint(now.Location()); tp != "" {
				line += ", starting at " + tp
			}
		}
		if loc := task.Location(); loc != "" {
			line += ", at " + loc
		}
		lines = append(lines, line+".")
	}
	return strings.Join(lines, "\n")
}
