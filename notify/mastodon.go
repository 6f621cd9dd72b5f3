package notify

import (
	"context"

	"github.com/barnybug/announcer/config"
	"github.com/mattn/go-mastodon"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Mastodon posts a private toot.
type Mastodon struct {
	client *mastodon.Client
}

func NewMastodon(m config.MastodonConf) *Mastodon {
	conf := mastodon.Config{
		Server:       m.Server,
		ClientID:     m.Client_id,
		ClientSecret: m.Client_secret,
		AccessToken:  m.Access_token,
	}
	return &Mastodon{client: mastodon.NewClient(&conf)}
}

func (self *Mastodon) ID() string {
	return "mastodon"
}

func (self *Mastodon) Notify(ctx context.Context, message string) error {
	toot := mastodon.Toot{
		Status:     message,
		Visibility: "private",
	}
	status, err := self.client.PostStatus(ctx, &toot)
	if err != nil {
		return errors.Wrap(err, "mastodon")
	}
	log.Debug().Str("url", status.URL).Msg("tooted")
	return nil
}
