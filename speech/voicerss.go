// Package speech turns the digest into words, and words into audio using the
// VoiceRSS text to speech API or a local espeak.
package speech

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/barnybug/announcer/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// VoiceRSS text to speech client.
type VoiceRSS struct {
	conf config.TTSConf
	http *http.Client
}

// NewVoiceRSS creates a client. If hc is nil http.DefaultClient is used.
func NewVoiceRSS(conf config.TTSConf, hc *http.Client) *VoiceRSS {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &VoiceRSS{conf: conf, http: hc}
}

func (self *VoiceRSS) RequestUri(text string) string {
	vs := url.Values{
		"key": []string{self.conf.Key},
		"hl":  []string{self.conf.Language},
		"c":   []string{self.conf.Codec},
		"f":   []string{self.conf.Format},
		"v":   []string{self.conf.Voice},
		"src": []string{text},
	}
	return self.conf.Url + "?" + vs.Encode()
}

// Speak returns the audio for text.
func (self *VoiceRSS) Speak(ctx context.Context, text string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, self.RequestUri(text), nil)
	if err != nil {
		return nil, errors.Wrap(err, "tts request")
	}
	log.Debug().Int("chars", len(text)).Msg("requesting speech")
	resp, err := self.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "tts")
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "tts read")
	}
	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("tts: %s", resp.Status)
	}
	// failures come back as 200 with a plain text body
	if bytes.HasPrefix(data, []byte("ERROR")) {
		return nil, errors.Errorf("tts: %s", bytes.TrimSpace(data))
	}
	return data, nil
}

// Extension of the audio files produced, from the codec.
func (self *VoiceRSS) Extension() string {
	return "." + strings.ToLower(self.conf.Codec)
}

// SpeakToFile writes the audio for text to path.
func (self *VoiceRSS) SpeakToFile(ctx context.Context, text string, path string) error {
	data, err := self.Speak(ctx, text)
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "writing speech")
	}
	log.Info().Str("file", path).Int("bytes", len(data)).Msg("speech saved")
	return nil
}
