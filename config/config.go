package config

import (
	"io"
	"io/ioutil"
	"net"
	"os"
	"path"
	"strings"
	"time"
	// zone database for hosts without one
	_ "time/tzdata"

	"github.com/barnybug/announcer/util"
	"github.com/pkg/errors"

	"gopkg.in/yaml.v2"
)

type MediaConf struct {
	// Directory the speech file is written to
	Path string
	// Base url the speaker fetches files in Path from
	Url string
	// Listen address for the built-in media server, empty to disable
	Listen string
}

type TTSConf struct {
	// voicerss or espeak
	Engine string
	// espeak command line arguments
	Args string

	Key      string
	Language string
	Voice    string
	Codec    string
	Format   string
	Url      string
}

type FreemindConf struct {
	Server   string
	Username string
	Secret   string
	// Token or Password
	Method string
}

type JellyfinConf struct {
	Server     string
	Token      string
	User_id    string
	Stream_url string
}

type SoundConf struct {
	Volume    uint16
	Crossfade bool
	Shuffle   bool
	Repeat    bool
	Loudness  bool
	Treble    int
	Bass      int
}

type SpeakerConf struct {
	Ip    string
	Sound SoundConf
}

type Duration struct {
	Duration time.Duration
}

func (self *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}
	if d, err := util.ParseDuration(value); err == nil {
		self.Duration = d
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", value)
	}
	self.Duration = d
	return nil
}

type AnnounceConf struct {
	Delay         Duration
	Resume_offset Duration
	Alert_window  Duration
	Fade_step     int
	Fade_interval Duration
}

type MqttConf struct {
	Broker string
	// gohome service alerts are delivered by, e.g. telegram
	Target string
}

type PushbulletConf struct {
	Token string
}

type TelegramConf struct {
	Token   string
	Chat_id int64
}

type MastodonConf struct {
	Server        string
	Client_id     string
	Client_secret string
	Access_token  string
}

// Configuration structure
type Config struct {
	// yaml fields
	Username   string
	Timezone   string
	Media      MediaConf
	Tts        TTSConf
	Freemind   FreemindConf
	Jellyfin   JellyfinConf
	Speaker    SpeakerConf
	Announce   AnnounceConf
	Mqtt       MqttConf
	Pushbullet PushbulletConf
	Telegram   TelegramConf
	Mastodon   MastodonConf

	location *time.Location
}

// Open configuration from disk.
func Open(p string) (*Config, error) {
	if p == "" {
		p = ConfigPath("announcer.yml")
	}
	file, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrap(err, "opening config")
	}
	defer file.Close()
	return OpenReader(file)
}

// Open configuration from a reader.
func OpenReader(r io.Reader) (*Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return OpenRaw(data)
}

// preset are the defaults for settings where zero is a valid choice, applied
// before parsing so an explicit zero is kept.
func preset() *Config {
	self := &Config{}
	self.Speaker.Sound.Volume = 10
	self.Announce.Resume_offset.Duration = 2 * time.Minute
	self.Announce.Fade_step = 3
	return self
}

// Open configuration from []byte.
func OpenRaw(data []byte) (*Config, error) {
	self := preset()
	err := yaml.Unmarshal(data, self)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	self.defaults()

	self.location = time.Local
	if self.Timezone != "" {
		loc, err := time.LoadLocation(self.Timezone)
		if err != nil {
			return nil, errors.Wrapf(err, "timezone %q", self.Timezone)
		}
		self.location = loc
	}

	switch self.Tts.Engine {
	case "voicerss", "espeak":
	default:
		return nil, errors.Errorf("tts engine must be voicerss or espeak, got %q", self.Tts.Engine)
	}

	if self.Announce.Fade_step <= 0 {
		return nil, errors.Errorf("announce fade_step must be positive, got %d", self.Announce.Fade_step)
	}

	switch strings.ToLower(self.Freemind.Method) {
	case "token", "password":
	default:
		return nil, errors.Errorf("freemind method must be Token or Password, got %q", self.Freemind.Method)
	}

	return self, nil
}

func (self *Config) defaults() {
	if self.Username == "" {
		self.Username = "there"
	}
	if self.Media.Path == "" {
		self.Media.Path = "./media"
	}
	self.Media.Path = util.ExpandUser(self.Media.Path)
	if self.Tts.Engine == "" {
		self.Tts.Engine = "voicerss"
	}
	if self.Tts.Url == "" {
		self.Tts.Url = "http://api.voicerss.org/"
	}
	if self.Tts.Language == "" {
		self.Tts.Language = "en-gb"
	}
	if self.Tts.Voice == "" {
		self.Tts.Voice = "Nancy"
	}
	if self.Tts.Codec == "" {
		self.Tts.Codec = "MP3"
	}
	if self.Tts.Format == "" {
		self.Tts.Format = "48khz_16bit_stereo"
	}
	if self.Freemind.Method == "" {
		self.Freemind.Method = "Password"
	}
	if self.Jellyfin.Stream_url == "" && self.Jellyfin.Server != "" {
		self.Jellyfin.Stream_url = strings.TrimRight(self.Jellyfin.Server, "/") + "/Audio/{id}/stream.mp3"
	}
	a := &self.Announce
	if a.Delay.Duration == 0 {
		a.Delay.Duration = 2 * time.Minute
	}
	if a.Alert_window.Duration == 0 {
		a.Alert_window.Duration = 30 * time.Minute
	}
	if a.Fade_interval.Duration == 0 {
		a.Fade_interval.Duration = 500 * time.Millisecond
	}
}

// Location the digest computes local days in.
func (self *Config) Location() *time.Location {
	if self.location == nil {
		return time.Local
	}
	return self.location
}

// Validate checks the parts of the configuration that depend on the host.
func (self *Config) Validate() error {
	if net.ParseIP(self.Speaker.Ip).To4() == nil {
		return errors.Errorf("speaker ip %q is not an IPv4 address", self.Speaker.Ip)
	}
	st, err := os.Stat(self.Media.Path)
	if err != nil {
		return errors.Wrap(err, "media path")
	}
	if !st.IsDir() {
		return errors.Errorf("media path %s is not a directory", self.Media.Path)
	}
	if self.Freemind.Server == "" {
		return errors.New("freemind server is not configured")
	}
	return nil
}

// helpers

// Resolve a configuration file under .config/announcer
func ConfigPath(p string) string {
	config := os.Getenv("XDG_CONFIG_HOME")
	if config == "" {
		config = path.Join(os.Getenv("HOME"), ".config")
	}
	return path.Join(config, "announcer", p)
}
