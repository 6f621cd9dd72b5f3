// Package jellyfin picks music to play from a Jellyfin media server.
package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/barnybug/announcer/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrNoTracks is returned when the library has no audio.
var ErrNoTracks = errors.New("jellyfin: no tracks")

type Track struct {
	Id           string
	Name         string
	Album        string
	AlbumArtist  string
	RunTimeTicks int64
}

// Length of the track.
func (t *Track) Length() time.Duration {
	return time.Duration(t.RunTimeTicks) * 100 * time.Nanosecond
}

func (t *Track) String() string {
	if t.AlbumArtist == "" {
		return t.Name
	}
	return fmt.Sprintf("%s - %s", t.AlbumArtist, t.Name)
}

type itemsResponse struct {
	Items            []Track
	TotalRecordCount int
}

type Client struct {
	conf config.JellyfinConf
	http *http.Client
}

// NewClient creates a client. If hc is nil http.DefaultClient is used.
func NewClient(conf config.JellyfinConf, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{conf: conf, http: hc}
}

func (self *Client) itemsUri() string {
	path := "/Items"
	if self.conf.User_id != "" {
		path = "/Users/" + url.PathEscape(self.conf.User_id) + "/Items"
	}
	vs := url.Values{
		"IncludeItemTypes": []string{"Audio"},
		"Recursive":        []string{"true"},
		"SortBy":           []string{"Random"},
		"Limit":            []string{"1"},
	}
	return strings.TrimRight(self.conf.Server, "/") + path + "?" + vs.Encode()
}

// RandomTrack picks a random audio item from the library.
func (self *Client) RandomTrack(ctx context.Context) (*Track, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, self.itemsUri(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "jellyfin request")
	}
	req.Header.Set("X-Emby-Token", self.conf.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := self.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "jellyfin")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("jellyfin: %s", resp.Status)
	}

	var v itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, errors.Wrap(err, "jellyfin decode")
	}
	if len(v.Items) == 0 {
		return nil, ErrNoTracks
	}
	track := v.Items[0]
	log.Debug().Str("id", track.Id).Str("track", track.String()).Msg("random track")
	return &track, nil
}

// StreamURL is the address the speaker streams the track from, starting
// start into the track.
func (self *Client) StreamURL(track *Track, start time.Duration) string {
	uri := strings.Replace(self.conf.Stream_url, "{id}", url.PathEscape(track.Id), -1)
	vs := url.Values{}
	if start > 0 {
		vs.Set("startTimeTicks", fmt.Sprint(int64(start/100)))
	}
	if self.conf.Token != "" {
		vs.Set("api_key", self.conf.Token)
	}
	if len(vs) == 0 {
		return uri
	}
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	return uri + sep + vs.Encode()
}
