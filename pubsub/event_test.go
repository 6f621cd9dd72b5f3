package pubsub

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ExampleEvent_String() {
	ev := NewEvent("test", nil)
	ev.Timestamp = time.Date(2014, 1, 2, 3, 4, 5, 987654321, time.UTC)
	fmt.Println(ev.String())
	// Output: {"timestamp":"2014-01-02 03:04:05.987654","topic":"test"}
}

func TestFields(t *testing.T) {
	ev := NewEvent("alert", Fields{"target": "ann", "count": 3})
	assert.Equal(t, "ann", ev.Target())
	assert.Equal(t, "", ev.StringField("missing"))
	assert.Equal(t, "", ev.StringField("count"))

	ev.SetField("message", "hello")
	assert.Equal(t, "hello", ev.StringField("message"))
	assert.Contains(t, ev.String(), `"message":"hello"`)
}

func TestNewEventTimestamp(t *testing.T) {
	ev := NewEvent("alert", Fields{"timestamp": "2014-01-02 03:04:05.987000"})
	assert.Equal(t, time.Date(2014, 1, 2, 3, 4, 5, 987000000, time.UTC), ev.Timestamp)
	assert.NotContains(t, ev.Fields, "timestamp")
}
