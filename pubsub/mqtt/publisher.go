// Package mqtt publishes events to an MQTT broker under the gohome/ prefix.
package mqtt

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/barnybug/announcer/pubsub"
	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const Prefix = "gohome/"

// Publisher for mqtt
type Publisher struct {
	broker string
	client MQTT.Client
}

func clientID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("announcer/%s-%d-%d", hostname, os.Getpid(), rand.Int())
}

// NewPublisher connects to broker, e.g. tcp://127.0.0.1:1883.
func NewPublisher(broker string) (*Publisher, error) {
	opts := MQTT.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID())
	opts.SetCleanSession(true)

	client := MQTT.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, errors.Wrapf(err, "mqtt connect %s", broker)
	}
	log.Debug().Str("broker", broker).Msg("mqtt connected")
	return &Publisher{broker: broker, client: client}, nil
}

// ID of Publisher
func (pub *Publisher) ID() string {
	return "mqtt: " + pub.broker
}

// Topic an event is published on.
func Topic(ev *pubsub.Event) string {
	return Prefix + ev.Topic
}

// Emit an event
func (pub *Publisher) Emit(ev *pubsub.Event) error {
	token := pub.client.Publish(Topic(ev), 1, false, ev.Bytes())
	token.Wait()
	return errors.Wrap(token.Error(), "mqtt publish")
}

func (pub *Publisher) Close() {
	pub.client.Disconnect(250)
}
