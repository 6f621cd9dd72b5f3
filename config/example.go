package config

var ExampleYaml = `# announcer configuration
username: Ann
timezone: Europe/London
media:
  path: /tmp
  url: http://192.168.0.2:8724/media
  listen: :8724
tts:
  engine: voicerss
  key: YOUR_VOICERSS_KEY
  language: en-gb
  voice: Nancy
freemind:
  server: https://freemind.example.com/api
  username: ann
  secret: password
  method: Password
jellyfin:
  server: https://jellyfin.example.com
  token: YOUR_JELLYFIN_TOKEN
  user_id: 4f1c
speaker:
  ip: 192.168.0.30
  sound:
    volume: 12
    crossfade: false
    shuffle: false
    repeat: false
    loudness: true
    treble: 5
    bass: 5
announce:
  delay: 2m
  resume_offset: 2m
  alert_window: 30m
  fade_step: 3
  fade_interval: 500ms
mqtt:
  broker: tcp://127.0.0.1:1883
  target: telegram
pushbullet:
  token: ""
telegram:
  token: ""
  chat_id: 0
mastodon:
  server: ""
`

var ExampleConfig = func() *Config {
	c, err := OpenRaw([]byte(ExampleYaml))
	if err != nil {
		panic(err)
	}
	return c
}()
