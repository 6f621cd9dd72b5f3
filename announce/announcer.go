// Package announce runs the announcements: the morning digest with music,
// short alerts for tasks coming up, and arbitrary speech.
package announce

import (
	"context"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/barnybug/announcer/config"
	"github.com/barnybug/announcer/freemind"
	"github.com/barnybug/announcer/jellyfin"
	"github.com/barnybug/announcer/media"
	"github.com/barnybug/announcer/notify"
	"github.com/barnybug/announcer/speech"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SpeechFile is the name, less extension, of the file in the media directory
// speech is written to.
const SpeechFile = "tts"

// PollInterval between checks on the speaker.
const PollInterval = 500 * time.Millisecond

type Registry interface {
	Fetch(ctx context.Context) ([]freemind.Task, error)
}

// TodayRegistry can also list the tasks the server itself considers due
// today.
type TodayRegistry interface {
	Registry
	FetchToday(ctx context.Context) ([]freemind.Task, error)
}

type Synthesizer interface {
	SpeakToFile(ctx context.Context, text string, path string) error
	Extension() string
}

type TrackSource interface {
	RandomTrack(ctx context.Context) (*jellyfin.Track, error)
	StreamURL(track *jellyfin.Track, start time.Duration) string
}

type Player interface {
	Prepare(ctx context.Context, sound config.SoundConf) error
	PlayURI(ctx context.Context, uri string, play bool) error
	Play(ctx context.Context) error
	IsPlaying(ctx context.Context) (bool, error)
	FadeOut(ctx context.Context, step int, interval time.Duration) error
	FadeIn(ctx context.Context, step int, interval time.Duration) error
	WaitForEnd(ctx context.Context, interval time.Duration) error
}

// Announcer runs announcements on Player. Tracks is optional, without it there
// is no music.
type Announcer struct {
	Conf      *config.Config
	Registry  Registry
	Synth     Synthesizer
	Tracks    TrackSource
	Player    Player
	Notifiers []notify.Notifier
	Now       func() time.Time
	Sleep     func(ctx context.Context, d time.Duration) error

	digest *freemind.Digest
}

func New(conf *config.Config, registry Registry, synth Synthesizer, tracks TrackSource, player Player, ns []notify.Notifier) *Announcer {
	return &Announcer{
		Conf:      conf,
		Registry:  registry,
		Synth:     synth,
		Tracks:    tracks,
		Player:    player,
		Notifiers: ns,
		Now:       time.Now,
		Sleep:     sleep,
		digest:    freemind.NewDigest(conf.Location()),
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (self *Announcer) now() time.Time {
	return self.Now().In(self.Conf.Location())
}

// Digest of the tasks last fetched.
func (self *Announcer) Digest() *freemind.Digest {
	return self.digest
}

func (self *Announcer) fetch(ctx context.Context) error {
	log.Debug().Msg("fetching registry")
	tasks, err := self.Registry.Fetch(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching registry")
	}
	self.digest.Replace(tasks)
	log.Info().Int("tasks", self.digest.Len()).Msg("fetched registry")
	return nil
}

// MediaURL is the base url the speaker fetches the media directory from.
func (self *Announcer) MediaURL() (string, error) {
	if self.Conf.Media.Url != "" {
		return self.Conf.Media.Url, nil
	}
	if self.Conf.Media.Listen == "" {
		return "", errors.New("media url is not configured")
	}
	_, port, err := net.SplitHostPort(self.Conf.Media.Listen)
	if err != nil {
		return "", errors.Wrap(err, "media listen")
	}
	addrs, err := LocalAddrs()
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", errors.New("no IPv4 address to serve media on")
	}
	return "http://" + net.JoinHostPort(addrs[0].String(), port) + "/media", nil
}

// speak synthesises text and plays it, returning once it has been spoken.
func (self *Announcer) speak(ctx context.Context, text string) error {
	base, err := self.MediaURL()
	if err != nil {
		return err
	}
	file := SpeechFile + self.Synth.Extension()
	path := filepath.Join(self.Conf.Media.Path, file)
	log.Debug().Str("path", path).Msg("synthesising speech")
	if err := self.Synth.SpeakToFile(ctx, text, path); err != nil {
		return err
	}
	uri := media.URL(base, file)
	log.Info().Str("uri", uri).Msg("speaking")
	if err := self.Player.PlayURI(ctx, uri, true); err != nil {
		return err
	}
	if err := self.Sleep(ctx, PollInterval); err != nil {
		return err
	}
	return self.Player.WaitForEnd(ctx, PollInterval)
}

func (self *Announcer) fadeOut(ctx context.Context) error {
	a := self.Conf.Announce
	return self.Player.FadeOut(ctx, a.Fade_step, a.Fade_interval.Duration)
}

func (self *Announcer) randomTrack(ctx context.Context) *jellyfin.Track {
	if self.Tracks == nil {
		return nil
	}
	track, err := self.Tracks.RandomTrack(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("no music")
		return nil
	}
	return track
}

// Morning plays some music, announces the greeting and today's digest over
// it, then resumes the music.
func (self *Announcer) Morning(ctx context.Context) error {
	if err := self.Player.Prepare(ctx, self.Conf.Speaker.Sound); err != nil {
		return err
	}

	track := self.randomTrack(ctx)
	if track != nil {
		log.Info().Str("track", track.String()).Msg("playing")
		if err := self.Player.PlayURI(ctx, self.Tracks.StreamURL(track, 0), true); err != nil {
			log.Warn().Err(err).Msg("playing track")
			track = nil
		}
	}

	if err := self.fetch(ctx); err != nil {
		return err
	}
	now := self.now()
	tasks := self.digest.DueToday(now)
	text := speech.Greeting(self.Conf.Username, now) + "\n" + speech.Digest(self.Conf.Username, tasks, now)
	log.Debug().Str("text", text).Msg("digest")

	if track != nil {
		if err := self.Sleep(ctx, self.Conf.Announce.Delay.Duration); err != nil {
			return err
		}
		if err := self.fadeOut(ctx); err != nil {
			log.Warn().Err(err).Msg("fade out")
		}
	}

	if err := self.speak(ctx, text); err != nil {
		return err
	}

	if track != nil {
		uri := self.Tracks.StreamURL(track, self.Conf.Announce.Resume_offset.Duration)
		if err := self.resume(ctx, uri); err != nil {
			log.Warn().Err(err).Msg("resuming track")
		}
	}

	notify.All(ctx, self.Notifiers, speech.Digest(self.Conf.Username, tasks, now))
	return nil
}

func (self *Announcer) resume(ctx context.Context, uri string) error {
	if err := self.Player.PlayURI(ctx, uri, false); err != nil {
		return err
	}
	if err := self.Player.Play(ctx); err != nil {
		return err
	}
	a := self.Conf.Announce
	return self.Player.FadeIn(ctx, a.Fade_step, a.Fade_interval.Duration)
}

// Alert announces the tasks with an alert taking effect within window.
// Returns whether anything was announced.
func (self *Announcer) Alert(ctx context.Context, window time.Duration) (bool, error) {
	if err := self.fetch(ctx); err != nil {
		return false, err
	}
	now := self.now()
	tasks := self.digest.AlertsWithin(window, now)
	if len(tasks) == 0 {
		log.Info().Dur("window", window).Msg("nothing to alert")
		return false, nil
	}
	text := speech.Alert(tasks, now)
	log.Info().Int("tasks", len(tasks)).Msg("alerting")

	if playing, _ := self.Player.IsPlaying(ctx); playing {
		if err := self.fadeOut(ctx); err != nil {
			log.Warn().Err(err).Msg("fade out")
		}
	}
	if err := self.Player.Prepare(ctx, self.Conf.Speaker.Sound); err != nil {
		return false, err
	}
	if err := self.speak(ctx, text); err != nil {
		return false, err
	}
	notify.All(ctx, self.Notifiers, text)
	return true, nil
}

// Say speaks text on the speaker.
func (self *Announcer) Say(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("nothing to say")
	}
	if err := self.Player.Prepare(ctx, self.Conf.Speaker.Sound); err != nil {
		return err
	}
	return self.speak(ctx, text)
}

// ServerToday returns the digest of the tasks the registry server lists as
// due today, rather than working the day out locally.
func (self *Announcer) ServerToday(ctx context.Context) (string, error) {
	r, ok := self.Registry.(TodayRegistry)
	if !ok {
		return "", errors.New("registry cannot list today's tasks")
	}
	tasks, err := r.FetchToday(ctx)
	if err != nil {
		return "", errors.Wrap(err, "fetching today")
	}
	self.digest.Replace(tasks)
	now := self.now()
	self.digest.ComputeEffectiveTimes(now)
	return speech.Digest(self.Conf.Username, self.digest.Tasks(), now), nil
}

// Today fetches the registry and returns today's digest as text.
func (self *Announcer) Today(ctx context.Context) (string, error) {
	if err := self.fetch(ctx); err != nil {
		return "", err
	}
	now := self.now()
	return speech.Digest(self.Conf.Username, self.digest.DueToday(now), now), nil
}
