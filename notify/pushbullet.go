package notify

import (
	"context"
	"net/http"

	"github.com/barnybug/announcer/config"
	"github.com/mitsuse/pushbullet-go"
	"github.com/mitsuse/pushbullet-go/requests"
	"github.com/pkg/errors"
)

// Pushbullet sends a note to every device on the account.
type Pushbullet struct {
	pb *pushbullet.Pushbullet
}

func NewPushbullet(conf config.PushbulletConf, hc *http.Client) *Pushbullet {
	return &Pushbullet{pb: pushbullet.NewClient(conf.Token, hc)}
}

func (self *Pushbullet) ID() string {
	return "pushbullet"
}

func (self *Pushbullet) Notify(ctx context.Context, message string) error {
	n := requests.NewNote()
	n.Title = Title
	n.Body = message
	_, err := self.pb.PostPushesNote(n)
	return errors.Wrap(err, "pushbullet")
}
