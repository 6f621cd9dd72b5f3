package speech

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/barnybug/announcer/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Espeak synthesises speech locally with espeak, for when there is no
// VoiceRSS key or no internet.
type Espeak struct {
	command string
	args    []string
}

func NewEspeak(conf config.TTSConf) *Espeak {
	return &Espeak{command: "espeak", args: strings.Fields(conf.Args)}
}

// Extension of the audio files produced.
func (self *Espeak) Extension() string {
	return ".wav"
}

// Args espeak is run with to write text to path.
func (self *Espeak) Args(text, path string) []string {
	args := append([]string{}, self.args...)
	return append(args, "-w", path, text)
}

// SpeakToFile writes the audio for text to path.
func (self *Espeak) SpeakToFile(ctx context.Context, text string, path string) error {
	log.Debug().Int("chars", len(text)).Msg("running espeak")
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, self.command, self.Args(text, path)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "espeak: %s", strings.TrimSpace(stderr.String()))
	}
	log.Info().Str("file", path).Msg("speech saved")
	return nil
}
