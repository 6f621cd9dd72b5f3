package main

import (
	"context"
	"net/http"
	"time"

	"github.com/barnybug/announcer/announce"
	"github.com/barnybug/announcer/config"
	"github.com/barnybug/announcer/freemind"
	"github.com/barnybug/announcer/jellyfin"
	"github.com/barnybug/announcer/media"
	"github.com/barnybug/announcer/notify"
	"github.com/barnybug/announcer/pubsub"
	"github.com/barnybug/announcer/pubsub/mqtt"
	"github.com/barnybug/announcer/sonos"
	"github.com/barnybug/announcer/speech"
	"github.com/rs/zerolog/log"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// app is an announcer with the resources it holds open.
type app struct {
	*announce.Announcer
	media *media.Server
	mqtt  *mqtt.Publisher
}

func (self *app) Close() {
	if self.media != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		self.media.Shutdown(ctx)
	}
	if self.mqtt != nil {
		self.mqtt.Close()
	}
}

func newTracks(conf *config.Config) *jellyfin.Client {
	if conf.Jellyfin.Server == "" {
		return nil
	}
	return jellyfin.NewClient(conf.Jellyfin, httpClient)
}

func startMedia(conf *config.Config) (*media.Server, error) {
	if conf.Media.Listen == "" {
		return nil, nil
	}
	srv := media.NewServer(conf.Media.Path, conf.Media.Listen)
	if err := srv.Start(); err != nil {
		return nil, err
	}
	return srv, nil
}

// buildReader is an announcer that only reads the registry.
func buildReader(conf *config.Config) *announce.Announcer {
	registry := freemind.NewClient(conf.Freemind, httpClient)
	return announce.New(conf, registry, nil, nil, nil, nil)
}

func build(conf *config.Config) (*app, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	announce.LogAddrs()

	self := &app{}
	var pub pubsub.Publisher
	if conf.Mqtt.Broker != "" {
		p, err := mqtt.NewPublisher(conf.Mqtt.Broker)
		if err != nil {
			log.Warn().Err(err).Msg("bus notifications disabled")
		} else {
			self.mqtt = p
			pub = p
		}
	}
	ns, err := notify.Build(conf, pub, httpClient)
	if err != nil {
		self.Close()
		return nil, err
	}

	srv, err := startMedia(conf)
	if err != nil {
		self.Close()
		return nil, err
	}
	self.media = srv

	registry := freemind.NewClient(conf.Freemind, httpClient)
	var synth announce.Synthesizer = speech.NewVoiceRSS(conf.Tts, httpClient)
	if conf.Tts.Engine == "espeak" {
		synth = speech.NewEspeak(conf.Tts)
	}
	speaker := sonos.NewSpeaker(conf.Speaker.Ip)
	var tracks announce.TrackSource
	if t := newTracks(conf); t != nil {
		tracks = t
	}
	self.Announcer = announce.New(conf, registry, synth, tracks, speaker, ns)
	return self, nil
}
