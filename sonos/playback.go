package sonos

import (
	"context"
	"time"

	"github.com/barnybug/announcer/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Prepare checks the speaker answers, then applies the sound settings.
// Settings the speaker refuses are logged and skipped.
func (self *Speaker) Prepare(ctx context.Context, sound config.SoundConf) error {
	if _, err := self.TransportState(ctx); err != nil {
		log.Error().Err(err).Str("speaker", self.host).Msg("speaker not reachable")
		return errors.Wrap(ErrNoSpeaker, self.host)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"stop", func() error { return self.Stop(ctx) }},
		{"volume", func() error { return self.SetVolume(ctx, int(sound.Volume)) }},
		{"crossfade", func() error { return self.SetCrossfade(ctx, sound.Crossfade) }},
		{"play mode", func() error { return self.SetPlayMode(ctx, sound.Shuffle, sound.Repeat) }},
		{"loudness", func() error { return self.SetLoudness(ctx, sound.Loudness) }},
		{"treble", func() error { return self.SetTreble(ctx, sound.Treble) }},
		{"bass", func() error { return self.SetBass(ctx, sound.Bass) }},
		{"clear queue", func() error { return self.ClearQueue(ctx) }},
		{"standalone", func() error { return self.BecomeStandalone(ctx) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			log.Debug().Err(err).Str("speaker", self.host).Msgf("failed to set %s", step.name)
		}
	}
	return nil
}

// PlayURI sets uri and, if play is set, starts playback unless already
// playing.
func (self *Speaker) PlayURI(ctx context.Context, uri string, play bool) error {
	if err := self.SetURI(ctx, uri); err != nil {
		return err
	}
	if !play {
		return nil
	}
	if playing, _ := self.IsPlaying(ctx); playing {
		return nil
	}
	return self.Play(ctx)
}

// FadeOut lowers the volume by step every interval, pauses and then restores
// the original volume.
func (self *Speaker) FadeOut(ctx context.Context, step int, interval time.Duration) error {
	if step <= 0 {
		return errors.Errorf("fade step must be positive, got %d", step)
	}
	volume, err := self.Volume(ctx)
	if err != nil {
		return err
	}
	for {
		v, err := self.SetRelativeVolume(ctx, -step)
		if err != nil || v <= step {
			break
		}
		if err := wait(ctx, interval); err != nil {
			return err
		}
	}
	if err := self.Pause(ctx); err != nil {
		log.Debug().Err(err).Msg("pause")
	}
	return self.SetVolume(ctx, volume)
}

// FadeIn raises the volume from zero to the current volume by step every
// interval.
func (self *Speaker) FadeIn(ctx context.Context, step int, interval time.Duration) error {
	if step <= 0 {
		return errors.Errorf("fade step must be positive, got %d", step)
	}
	volume, err := self.Volume(ctx)
	if err != nil {
		return err
	}
	if err := self.SetVolume(ctx, 0); err != nil {
		return err
	}
	for {
		v, err := self.SetRelativeVolume(ctx, step)
		if err != nil || v >= volume-step {
			break
		}
		if err := wait(ctx, interval); err != nil {
			return err
		}
	}
	return self.SetVolume(ctx, volume)
}

// WaitForEnd polls until the speaker stops playing.
func (self *Speaker) WaitForEnd(ctx context.Context, interval time.Duration) error {
	for {
		playing, err := self.IsPlaying(ctx)
		if err != nil {
			return err
		}
		if !playing {
			return nil
		}
		if err := wait(ctx, interval); err != nil {
			return err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
