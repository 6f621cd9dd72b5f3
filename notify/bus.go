package notify

import (
	"context"

	"github.com/barnybug/announcer/pubsub"
	"github.com/rs/zerolog/log"
)

// Bus emits an alert event for gohome to deliver through Target.
type Bus struct {
	Publisher pubsub.Publisher
	Target    string
}

func (self *Bus) ID() string {
	return "bus"
}

func (self *Bus) Notify(ctx context.Context, message string) error {
	ev := pubsub.NewEvent("alert", pubsub.Fields{
		"message": message,
		"source":  "announcer",
	})
	if self.Target != "" {
		ev.SetField("target", self.Target)
	}
	log.Debug().Str("target", ev.Target()).Str("publisher", self.Publisher.ID()).Msg("emitting alert")
	return self.Publisher.Emit(ev)
}
