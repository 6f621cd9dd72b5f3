package freemind

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/barnybug/announcer/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const UserAgent = "Freemind Sonos CLI"

// ErrNotXML is returned when the server answers with something other than an
// XML document.
var ErrNotXML = errors.New("freemind: response is not xml")

// Client for the Freemind server.
type Client struct {
	conf config.FreemindConf
	http *http.Client
}

// NewClient creates a client. If hc is nil http.DefaultClient is used.
func NewClient(conf config.FreemindConf, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{conf: conf, http: hc}
}

// call makes a request to the configured server using the provided endpoint.
func (self *Client) call(ctx context.Context, endpoint string, payload string) (*http.Response, error) {
	uri := strings.TrimRight(self.conf.Server, "/") + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, strings.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "freemind request")
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("user", self.conf.Username)
	req.Header.Set(strings.ToLower(self.conf.Method), self.conf.Secret)
	req.Header.Set("Content-Type", "text/xml")

	log.Debug().Str("uri", uri).Msg("freemind request")
	resp, err := self.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "freemind %s", endpoint)
	}
	return resp, nil
}

func (self *Client) fetch(ctx context.Context, endpoint string) ([]Task, error) {
	resp, err := self.call(ctx, endpoint, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("freemind %s: %s", endpoint, resp.Status)
	}
	mediatype, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediatype != "text/xml" && mediatype != "application/xml" {
		return nil, errors.Wrapf(ErrNotXML, "content type %q", resp.Header.Get("Content-Type"))
	}

	tasks, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("entries", len(tasks)).Str("endpoint", endpoint).Msg("freemind fetched")
	return tasks, nil
}

// Fetch the whole registry.
func (self *Client) Fetch(ctx context.Context) ([]Task, error) {
	return self.fetch(ctx, "/xml/fetch")
}

// FetchToday asks the server for the entries it considers due today.
func (self *Client) FetchToday(ctx context.Context) ([]Task, error) {
	return self.fetch(ctx, "/xml/due/today")
}
