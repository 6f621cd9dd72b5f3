package dummy

import (
	"sync"

	"github.com/barnybug/announcer/pubsub"
)

// Dummy Publisher for testing
type Publisher struct {
	sync.Mutex
	Events []*pubsub.Event
	// Err is returned from Emit when set
	Err error
}

func (self *Publisher) ID() string {
	return "dummy"
}

func (self *Publisher) Emit(ev *pubsub.Event) error {
	self.Lock()
	defer self.Unlock()
	if self.Err != nil {
		return self.Err
	}
	self.Events = append(self.Events, ev)
	return nil
}
