// Package freemind is a client for the Freemind task server, and a digest of
// the tasks and events it holds.
//
// The digest works out when each entry next takes place, folding in repeat
// rules and preparation time, and answers "is anything due soon" and "what is
// on today".
package freemind

import (
	"time"
)

// Preparation describes time needed to get ready before an entry.
type Preparation struct {
	Description *string `xml:"description"`
	Minutes     *int64  `xml:"time-in-minutes"`
	// older servers send the minutes as <time>
	Time *int64 `xml:"time"`
}

// Lead is how much earlier than the entry preparation should start.
func (p *Preparation) Lead() (time.Duration, bool) {
	if p == nil {
		return 0, false
	}
	m := p.Minutes
	if m == nil {
		m = p.Time
	}
	if m == nil {
		return 0, false
	}
	return time.Duration(*m) * time.Minute, true
}

// Task is a single entry in the registry: a to-do item or an event.
type Task struct {
	ID          *uint64      `xml:"id,attr"`
	Title       string       `xml:"name"`
	Text        string       `xml:"description"`
	Due         *int64       `xml:"due"`
	Repeats     *string      `xml:"repeats"`
	Preparation *Preparation `xml:"preparation"`
	Place       *string      `xml:"location"`
	AlertNote   *string      `xml:"alert"`

	// set by Digest.ComputeEffectiveTimes
	effective *int64
}

// Equal compares tasks by id. Tasks without an id are never equal to
// anything, including themselves.
func (t *Task) Equal(o *Task) bool {
	if t == nil || o == nil || t.ID == nil || o.ID == nil {
		return false
	}
	return *t.ID == *o.ID
}

func (t *Task) Description() string {
	return t.Text
}

// Location is empty if the task has none.
func (t *Task) Location() string {
	if t.Place == nil {
		return ""
	}
	return *t.Place
}

// Alert returns the alert note, if any.
func (t *Task) Alert() (string, bool) {
	if t.AlertNote == nil {
		return "", false
	}
	return *t.AlertNote, true
}

func (t *Task) dueOrZero() int64 {
	if t.Due == nil {
		return 0
	}
	return *t.Due
}

// Lead is the preparation time, if any.
func (t *Task) Lead() (time.Duration, bool) {
	return t.Preparation.Lead()
}

// EffectiveUnix is the computed effective time in epoch seconds. It is only
// meaningful after Digest.ComputeEffectiveTimes.
func (t *Task) EffectiveUnix() (int64, bool) {
	if t.effective == nil {
		return 0, false
	}
	return *t.effective, true
}

// EffectiveTime is when to start preparing for the task, or when it happens if
// it needs no preparation.
func (t *Task) EffectiveTime() (time.Time, bool) {
	e, ok := t.EffectiveUnix()
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(e, 0), true
}

// Occurrence is the time the task itself takes place: the effective time with
// the preparation lead added back.
func (t *Task) Occurrence() (time.Time, bool) {
	e, ok := t.EffectiveTime()
	if !ok {
		return e, false
	}
	if lead, ok := t.Lead(); ok {
		e = e.Add(lead)
	}
	return e, true
}

// Timepoint formats the occurrence as a clock time in loc, or "" if the task
// has no time.
func (t *Task) Timepoint(loc *time.Location) string {
	o, ok := t.Occurrence()
	if !ok {
		return ""
	}
	return o.In(loc).Format("15:04")
}

// MinutesUntil is the whole number of minutes from now until the effective
// time. Negative when the effective time has passed.
func (t *Task) MinutesUntil(now time.Time) (int64, bool) {
	e, ok := t.EffectiveUnix()
	if !ok {
		return 0, false
	}
	return (e - now.Unix()) / 60, true
}
