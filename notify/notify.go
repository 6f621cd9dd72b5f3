// Package notify delivers announcements out of band, for when nobody is in
// earshot of the speaker.
package notify

import (
	"context"
	"net/http"

	"github.com/barnybug/announcer/config"
	"github.com/barnybug/announcer/pubsub"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Title of messages that carry one.
const Title = "Announcer"

type Notifier interface {
	ID() string
	Notify(ctx context.Context, message string) error
}

// Build the notifiers that are configured. pub may be nil when no bus is
// configured.
func Build(conf *config.Config, pub pubsub.Publisher, hc *http.Client) ([]Notifier, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	var ns []Notifier
	if conf.Pushbullet.Token != "" {
		ns = append(ns, NewPushbullet(conf.Pushbullet, hc))
	}
	if conf.Telegram.Token != "" {
		t, err := NewTelegram(conf.Telegram, hc)
		if err != nil {
			return nil, err
		}
		ns = append(ns, t)
	}
	if conf.Mastodon.Server != "" {
		ns = append(ns, NewMastodon(conf.Mastodon))
	}
	if pub != nil {
		ns = append(ns, &Bus{Publisher: pub, Target: conf.Mqtt.Target})
	}
	return ns, nil
}

// All sends message to every notifier. Failures are logged and the last one
// returned.
func All(ctx context.Context, ns []Notifier, message string) error {
	var last error
	for _, n := range ns {
		if err := n.Notify(ctx, message); err != nil {
			log.Error().Err(err).Str("notifier", n.ID()).Msg("notify failed")
			last = errors.Wrap(err, n.ID())
			continue
		}
		log.Debug().Str("notifier", n.ID()).Msg("notified")
	}
	return last
}
