package freemind

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	a := &Task{ID: u64(1), Title: "a"}
	b := &Task{ID: u64(1), Title: "b"}
	c := &Task{ID: u64(2), Title: "a"}
	anon := &Task{Title: "a"}
	anon2 := &Task{Title: "a"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(anon))
	assert.False(t, anon.Equal(a))
	assert.False(t, anon.Equal(anon2))
	assert.False(t, anon.Equal(anon))
	assert.False(t, a.Equal(nil))
}

func TestAccessors(t *testing.T) {
	task := &Task{Text: "Dentist"}
	assert.Equal(t, "Dentist", task.Description())
	assert.Equal(t, "", task.Location())
	_, ok := task.Alert()
	assert.False(t, ok)

	task.Place = str("High Street")
	task.AlertNote = str("bring card")
	assert.Equal(t, "High Street", task.Location())
	note, ok := task.Alert()
	assert.True(t, ok)
	assert.Equal(t, "bring card", note)
}

func TestMinutesUntil(t *testing.T) {
	d := NewDigest(time.UTC)
	d.Replace([]Task{{Due: i64(4000)}, {}})
	now := time.Unix(1000, 0)
	d.ComputeEffectiveTimes(now)

	m, ok := d.Tasks()[1].MinutesUntil(now)
	assert.True(t, ok)
	assert.Equal(t, int64(50), m)

	_, ok = d.Tasks()[0].MinutesUntil(now)
	assert.False(t, ok)
}

func ExampleTask_Timepoint() {
	d := NewDigest(time.UTC)
	due := time.Date(2026, 10, 17, 14, 30, 0, 0, time.UTC).Unix()
	d.Replace([]Task{{Due: &due, Preparation: &Preparation{Minutes: i64(45)}}})
	d.ComputeEffectiveTimes(time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC))

	task := d.Tasks()[0]
	e, _ := task.EffectiveTime()
	fmt.Println(e.In(time.UTC).Format("15:04"))
	fmt.Println(task.Timepoint(time.UTC))
	fmt.Printf("%q\n", (&Task{}).Timepoint(time.UTC))
	// Output:
	// 13:45
	// 14:30
	// ""
}
