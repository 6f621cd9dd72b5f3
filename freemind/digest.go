package freemind

import (
	"sort"
	"time"
)

// Digest holds the entries fetched from the registry and computes when each
// one takes place. It is not safe for concurrent use.
type Digest struct {
	loc   *time.Location
	tasks []*Task
}

// NewDigest creates an empty digest computing local days in loc.
func NewDigest(loc *time.Location) *Digest {
	if loc == nil {
		loc = time.Local
	}
	return &Digest{loc: loc}
}

// Replace the entries with a freshly fetched set, sorted by due time.
// Entries without a due time sort as if due at 0.
func (d *Digest) Replace(tasks []Task) {
	d.tasks = make([]*Task, len(tasks))
	for i := range tasks {
		t := tasks[i]
		t.effective = nil
		d.tasks[i] = &t
	}
	sort.SliceStable(d.tasks, func(i, j int) bool {
		return d.tasks[i].dueOrZero() < d.tasks[j].dueOrZero()
	})
}

// Tasks in the digest, in their current order.
func (d *Digest) Tasks() []*Task {
	return d.tasks
}

func (d *Digest) Len() int {
	return len(d.tasks)
}

// ComputeEffectiveTimes works out the effective time of every entry: the
// earlier of its due time and the next repeat after now, less any
// preparation time. Entries with neither, or with a time out of range, are
// left without one. Repeats are relative to now, so call this once per query.
func (d *Digest) ComputeEffectiveTimes(now time.Time) {
	now = now.In(d.loc)
	for _, t := range d.tasks {
		t.effective = effectiveTime(t, now)
	}
}

func effectiveTime(t *Task, now time.Time) *int64 {
	var at *int64
	if t.Due != nil && *t.Due >= 0 {
		due := *t.Due
		at = &due
	}

	if t.Repeats != nil {
		if next, ok := nextOccurrence(*t.Repeats, now); ok {
			if at == nil || next < *at {
				at = &next
			}
		}
	}

	if at == nil {
		return nil
	}
	if lead, ok := t.Lead(); ok {
		e := *at - int64(lead/time.Second)
		if e < 0 {
			return nil
		}
		at = &e
	}
	return at
}

// NeedsAlertWithin reports whether any entry with an alert takes effect in
// [now, now+window).
func (d *Digest) NeedsAlertWithin(window time.Duration, now time.Time) bool {
	return len(d.AlertsWithin(window, now)) > 0
}

// AlertsWithin returns the entries with an alert taking effect in
// [now, now+window), sorted by effective time.
func (d *Digest) AlertsWithin(window time.Duration, now time.Time) []*Task {
	d.ComputeEffectiveTimes(now)
	from := now.Unix()
	until := from + int64(window/time.Second)
	return d.filter(func(t *Task, e int64) bool {
		_, alert := t.Alert()
		return alert && e >= from && e < until
	})
}

// DayBounds are the first and last second of the local day containing now.
func (d *Digest) DayBounds(now time.Time) (start, end time.Time) {
	y, m, day := now.In(d.loc).Date()
	start = time.Date(y, m, day, 0, 0, 0, 0, d.loc)
	end = time.Date(y, m, day, 23, 59, 59, 0, d.loc)
	return
}

// DueToday returns the entries taking effect during the local day containing
// now, both ends inclusive, sorted by effective time.
func (d *Digest) DueToday(now time.Time) []*Task {
	start, end := d.DayBounds(now)
	d.ComputeEffectiveTimes(now)
	return d.filter(func(t *Task, e int64) bool {
		return e >= start.Unix() && e <= end.Unix()
	})
}

func (d *Digest) filter(keep func(t *Task, e int64) bool) []*Task {
	result := []*Task{}
	for _, t := range d.tasks {
		e, ok := t.EffectiveUnix()
		if ok && keep(t, e) {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return *result[i].effective < *result[j].effective
	})
	return result
}
