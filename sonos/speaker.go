// Package sonos controls a single Sonos speaker over UPnP.
//
// Only the AVTransport and RenderingControl services are used: enough to set
// up the sound, play a stream or a file, fade and wait for playback to end.
package sonos

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/huin/goupnp/soap"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	Port = 1400

	AVTransport      = "urn:schemas-upnp-org:service:AVTransport:1"
	RenderingControl = "urn:schemas-upnp-org:service:RenderingControl:1"

	avTransportPath      = "/MediaRenderer/AVTransport/Control"
	renderingControlPath = "/MediaRenderer/RenderingControl/Control"
)

// Transport states reported by GetTransportInfo.
const (
	Playing       = "PLAYING"
	Transitioning = "TRANSITIONING"
	Paused        = "PAUSED_PLAYBACK"
	Stopped       = "STOPPED"
)

// ErrNoSpeaker is returned when the speaker does not answer.
var ErrNoSpeaker = errors.New("sonos: speaker not reachable")

// Speaker is a Sonos speaker addressed by host.
type Speaker struct {
	host      string
	transport *soap.SOAPClient
	rendering *soap.SOAPClient
}

func endpoint(host, path string) url.URL {
	return url.URL{Scheme: "http", Host: host, Path: path}
}

// NewSpeaker for the speaker at ip, on the standard Sonos port.
func NewSpeaker(ip string) *Speaker {
	return NewSpeakerAt(net.JoinHostPort(ip, strconv.Itoa(Port)))
}

// NewSpeakerAt creates a speaker at host:port.
func NewSpeakerAt(host string) *Speaker {
	return &Speaker{
		host:      host,
		transport: soap.NewSOAPClient(endpoint(host, avTransportPath)),
		rendering: soap.NewSOAPClient(endpoint(host, renderingControlPath)),
	}
}

func (self *Speaker) String() string {
	return "sonos " + self.host
}

type instance struct {
	InstanceID string
}

type channel struct {
	InstanceID string
	Channel    string
}

func boolArg(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (self *Speaker) avTransport(ctx context.Context, action string, in interface{}, out interface{}) error {
	log.Debug().Str("action", action).Str("speaker", self.host).Msg("upnp")
	err := self.transport.PerformActionCtx(ctx, AVTransport, action, in, out)
	return errors.Wrapf(err, "sonos %s", action)
}

func (self *Speaker) renderingControl(ctx context.Context, action string, in interface{}, out interface{}) error {
	log.Debug().Str("action", action).Str("speaker", self.host).Msg("upnp")
	err := self.rendering.PerformActionCtx(ctx, RenderingControl, action, in, out)
	return errors.Wrapf(err, "sonos %s", action)
}

func (self *Speaker) Stop(ctx context.Context) error {
	return self.avTransport(ctx, "Stop", &instance{"0"}, nil)
}

func (self *Speaker) Play(ctx context.Context) error {
	in := &struct {
		InstanceID string
		Speed      string
	}{"0", "1"}
	return self.avTransport(ctx, "Play", in, nil)
}

func (self *Speaker) Pause(ctx context.Context) error {
	return self.avTransport(ctx, "Pause", &instance{"0"}, nil)
}

// SetURI sets the stream or file to play.
func (self *Speaker) SetURI(ctx context.Context, uri string) error {
	in := &struct {
		InstanceID         string
		CurrentURI         string
		CurrentURIMetaData string
	}{"0", uri, ""}
	return self.avTransport(ctx, "SetAVTransportURI", in, nil)
}

// TransportState is one of Playing, Transitioning, Paused or Stopped.
func (self *Speaker) TransportState(ctx context.Context) (string, error) {
	out := &struct {
		CurrentTransportState  string
		CurrentTransportStatus string
		CurrentSpeed           string
	}{}
	if err := self.avTransport(ctx, "GetTransportInfo", &instance{"0"}, out); err != nil {
		return "", err
	}
	return out.CurrentTransportState, nil
}

func (self *Speaker) IsPlaying(ctx context.Context) (bool, error) {
	state, err := self.TransportState(ctx)
	if err != nil {
		return false, err
	}
	return state == Playing || state == Transitioning, nil
}

func (self *Speaker) Volume(ctx context.Context) (int, error) {
	out := &struct{ CurrentVolume string }{}
	if err := self.renderingControl(ctx, "GetVolume", &channel{"0", "Master"}, out); err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(out.CurrentVolume))
	return v, errors.Wrap(err, "sonos volume")
}

func (self *Speaker) SetVolume(ctx context.Context, volume int) error {
	in := &struct {
		InstanceID    string
		Channel       string
		DesiredVolume string
	}{"0", "Master", strconv.Itoa(clamp(volume))}
	return self.renderingControl(ctx, "SetVolume", in, nil)
}

// SetRelativeVolume adjusts the volume and returns the new volume.
func (self *Speaker) SetRelativeVolume(ctx context.Context, adjustment int) (int, error) {
	in := &struct {
		InstanceID string
		Channel    string
		Adjustment string
	}{"0", "Master", strconv.Itoa(adjustment)}
	out := &struct{ NewVolume string }{}
	if err := self.renderingControl(ctx, "SetRelativeVolume", in, out); err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(out.NewVolume))
	return v, errors.Wrap(err, "sonos volume")
}

func (self *Speaker) SetLoudness(ctx context.Context, on bool) error {
	in := &struct {
		InstanceID      string
		Channel         string
		DesiredLoudness string
	}{"0", "Master", boolArg(on)}
	return self.renderingControl(ctx, "SetLoudness", in, nil)
}

func (self *Speaker) SetBass(ctx context.Context, bass int) error {
	in := &struct {
		InstanceID  string
		DesiredBass string
	}{"0", strconv.Itoa(bass)}
	return self.renderingControl(ctx, "SetBass", in, nil)
}

func (self *Speaker) SetTreble(ctx context.Context, treble int) error {
	in := &struct {
		InstanceID    string
		DesiredTreble string
	}{"0", strconv.Itoa(treble)}
	return self.renderingControl(ctx, "SetTreble", in, nil)
}

func (self *Speaker) SetCrossfade(ctx context.Context, on bool) error {
	in := &struct {
		InstanceID    string
		CrossfadeMode string
	}{"0", boolArg(on)}
	return self.avTransport(ctx, "SetCrossfadeMode", in, nil)
}

// PlayMode maps shuffle and repeat onto a Sonos play mode.
func PlayMode(shuffle, repeat bool) string {
	switch {
	case shuffle && repeat:
		return "SHUFFLE"
	case shuffle:
		return "SHUFFLE_NOREPEAT"
	case repeat:
		return "REPEAT_ALL"
	}
	return "NORMAL"
}

func (self *Speaker) SetPlayMode(ctx context.Context, shuffle, repeat bool) error {
	in := &struct {
		InstanceID  string
		NewPlayMode string
	}{"0", PlayMode(shuffle, repeat)}
	return self.avTransport(ctx, "SetPlayMode", in, nil)
}

func (self *Speaker) ClearQueue(ctx context.Context) error {
	return self.avTransport(ctx, "RemoveAllTracksFromQueue", &instance{"0"}, nil)
}

// BecomeStandalone leaves any group so the speaker plays on its own.
func (self *Speaker) BecomeStandalone(ctx context.Context) error {
	out := &struct {
		DelegatedGroupCoordinatorID string
		NewGroupID                  string
	}{}
	return self.avTransport(ctx, "BecomeCoordinatorOfStandaloneGroup", &instance{"0"}, out)
}

// Position in the current track.
func (self *Speaker) Position(ctx context.Context) (time.Duration, error) {
	out := &struct {
		Track         string
		TrackDuration string
		RelTime       string
	}{}
	if err := self.avTransport(ctx, "GetPositionInfo", &instance{"0"}, out); err != nil {
		return 0, err
	}
	return ParseRelTime(out.RelTime)
}

// SeekTo a position in the current track.
func (self *Speaker) SeekTo(ctx context.Context, pos time.Duration) error {
	if pos < 0 {
		pos = 0
	}
	in := &struct {
		InstanceID string
		Unit       string
		Target     string
	}{"0", "REL_TIME", FormatRelTime(pos)}
	return self.avTransport(ctx, "Seek", in, nil)
}

// SkipBy moves forwards (or backwards if negative) in the current track.
func (self *Speaker) SkipBy(ctx context.Context, d time.Duration) error {
	pos, err := self.Position(ctx)
	if err != nil {
		return err
	}
	return self.SeekTo(ctx, pos+d)
}

// FormatRelTime formats a track position as H:MM:SS.
func FormatRelTime(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
}

// ParseRelTime parses a track position in H:MM:SS form.
func ParseRelTime(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, errors.Errorf("sonos: bad position %q", s)
	}
	var d time.Duration
	for i, unit := range []time.Duration{time.Hour, time.Minute, time.Second} {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return 0, errors.Wrapf(err, "sonos: bad position %q", s)
		}
		d += time.Duration(n) * unit
	}
	return d, nil
}

func clamp(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}
