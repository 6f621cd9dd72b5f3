package announce

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/barnybug/announcer/config"
	"github.com/barnybug/announcer/freemind"
	"github.com/barnybug/announcer/jellyfin"
	"github.com/barnybug/announcer/notify"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 17, 7, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type fakeRegistry struct {
	tasks []freemind.Task
	today []freemind.Task
	err   error
}

func (self *fakeRegistry) Fetch(ctx context.Context) ([]freemind.Task, error) {
	return self.tasks, self.err
}

func (self *fakeRegistry) FetchToday(ctx context.Context) ([]freemind.Task, error) {
	return self.today, self.err
}

type fetchOnly struct {
	Registry
}

type fakeSynth struct {
	texts []string
	paths []string
}

func (self *fakeSynth) SpeakToFile(ctx context.Context, text string, path string) error {
	self.texts = append(self.texts, text)
	self.paths = append(self.paths, path)
	return nil
}

func (self *fakeSynth) Extension() string {
	return ".mp3"
}

type fakeTracks struct {
	err error
}

func (self *fakeTracks) RandomTrack(ctx context.Context) (*jellyfin.Track, error) {
	if self.err != nil {
		return nil, self.err
	}
	return &jellyfin.Track{Id: "f00d", Name: "Blue Monday", AlbumArtist: "New Order"}, nil
}

func (self *fakeTracks) StreamURL(track *jellyfin.Track, start time.Duration) string {
	return fmt.Sprintf("http://jf/Audio/%s/stream.mp3?start=%s", track.Id, start)
}

type fakePlayer struct {
	playing bool
	err     error
	calls   []string
}

func (self *fakePlayer) record(format string, args ...interface{}) {
	self.calls = append(self.calls, fmt.Sprintf(format, args...))
}

func (self *fakePlayer) Prepare(ctx context.Context, sound config.SoundConf) error {
	self.record("Prepare %d", sound.Volume)
	return self.err
}

func (self *fakePlayer) PlayURI(ctx context.Context, uri string, play bool) error {
	self.record("PlayURI %s %v", uri, play)
	return nil
}

func (self *fakePlayer) Play(ctx context.Context) error {
	self.record("Play")
	return nil
}

func (self *fakePlayer) IsPlaying(ctx context.Context) (bool, error) {
	return self.playing, nil
}

func (self *fakePlayer) FadeOut(ctx context.Context, step int, interval time.Duration) error {
	self.record("FadeOut %d %s", step, interval)
	return nil
}

func (self *fakePlayer) FadeIn(ctx context.Context, step int, interval time.Duration) error {
	self.record("FadeIn %d %s", step, interval)
	return nil
}

func (self *fakePlayer) WaitForEnd(ctx context.Context, interval time.Duration) error {
	self.record("WaitForEnd")
	return nil
}

type fakeNotifier struct {
	messages []string
}

func (self *fakeNotifier) ID() string { return "fake" }

func (self *fakeNotifier) Notify(ctx context.Context, message string) error {
	self.messages = append(self.messages, message)
	return nil
}

type fixture struct {
	*Announcer
	registry *fakeRegistry
	synth    *fakeSynth
	player   *fakePlayer
	notifier *fakeNotifier
	sleeps   []time.Duration
}

const testYaml = `username: Ann
timezone: UTC
media:
  url: http://10.0.0.2:8724/media
speaker:
  ip: 192.168.0.30
  sound:
    volume: 12
`

func setup(t *testing.T, tasks ...freemind.Task) *fixture {
	conf, err := config.OpenRaw([]byte(testYaml))
	require.NoError(t, err)
	conf.Media.Path = t.TempDir()

	f := &fixture{
		registry: &fakeRegistry{tasks: tasks},
		synth:    &fakeSynth{},
		player:   &fakePlayer{},
		notifier: &fakeNotifier{},
	}
	f.Announcer = New(conf, f.registry, f.synth, &fakeTracks{}, f.player, []notify.Notifier{f.notifier})
	f.Now = func() time.Time { return now }
	f.Sleep = func(ctx context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		return nil
	}
	return f
}

func dentist() freemind.Task {
	return freemind.Task{
		ID:        ptr(uint64(1)),
		Text:      "Dentist",
		Due:       ptr(now.Add(20 * time.Minute).Unix()),
		Place:     ptr("High Street"),
		AlertNote: ptr("Leave now!"),
	}
}

func TestMorning(t *testing.T) {
	f := setup(t, dentist(), freemind.Task{Text: "Next week", Due: ptr(now.Add(7 * 24 * time.Hour).Unix())})
	require.NoError(t, f.Morning(context.Background()))

	assert.Equal(t, []string{
		"Prepare 12",
		"PlayURI http://jf/Audio/f00d/stream.mp3?start=0s true",
		"FadeOut 3 500ms",
		"PlayURI http://10.0.0.2:8724/media/tts.mp3 true",
		"WaitForEnd",
		"PlayURI http://jf/Audio/f00d/stream.mp3?start=2m0s false",
		"Play",
		"FadeIn 3 500ms",
	}, f.player.calls)
	assert.Equal(t, []time.Duration{2 * time.Minute, PollInterval}, f.sleeps)

	digest := "Hey Ann! You have 1 event due today.\nNumber 1: Dentist.\nTaking place at High Street in 20 minutes."
	require.Len(t, f.synth.texts, 1)
	assert.Equal(t, "Good Morning Ann.\nToday is Saturday, the 17 October 2026.\nThe time is 07:00.\n"+digest, f.synth.texts[0])
	assert.Equal(t, f.Conf.Media.Path+"/tts.mp3", f.synth.paths[0])
	assert.Equal(t, []string{digest}, f.notifier.messages)
}

func TestMorningWithoutMusic(t *testing.T) {
	f := setup(t)
	f.Tracks = &fakeTracks{err: jellyfin.ErrNoTracks}
	require.NoError(t, f.Morning(context.Background()))

	assert.Equal(t, []string{
		"Prepare 12",
		"PlayURI http://10.0.0.2:8724/media/tts.mp3 true",
		"WaitForEnd",
	}, f.player.calls)
	assert.Equal(t, []time.Duration{PollInterval}, f.sleeps)
	assert.Contains(t, f.synth.texts[0], "You have 0 events due today.")
}

func TestMorningNoSpeaker(t *testing.T) {
	f := setup(t)
	f.player.err = errors.New("speaker not reachable")
	assert.Error(t, f.Morning(context.Background()))
	assert.Empty(t, f.synth.texts)
}

func TestMorningRegistryDown(t *testing.T) {
	f := setup(t)
	f.registry.err = errors.New("connection refused")
	err := f.Morning(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching registry")
	assert.Empty(t, f.synth.texts)
	assert.Empty(t, f.notifier.messages)
}

func TestAlert(t *testing.T) {
	f := setup(t, dentist())
	fired, err := f.Alert(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, fired)

	text := "Reminder! Leave now: Dentist, in 20 minutes, at High Street."
	assert.Equal(t, []string{text}, f.synth.texts)
	assert.Equal(t, []string{text}, f.notifier.messages)
	assert.Equal(t, []string{
		"Prepare 12",
		"PlayURI http://10.0.0.2:8724/media/tts.mp3 true",
		"WaitForEnd",
	}, f.player.calls)
}

func TestAlertFadesOutMusic(t *testing.T) {
	f := setup(t, dentist())
	f.player.playing = true
	fired, err := f.Alert(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, "FadeOut 3 500ms", f.player.calls[0])
}

func TestAlertOutsideWindow(t *testing.T) {
	f := setup(t, dentist())
	fired, err := f.Alert(context.Background(), 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Empty(t, f.player.calls)
	assert.Empty(t, f.notifier.messages)
}

func TestAlertWithoutNote(t *testing.T) {
	task := dentist()
	task.AlertNote = nil
	f := setup(t, task)
	fired, err := f.Alert(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestSay(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.Say(context.Background(), "  Dinner is ready "))
	assert.Equal(t, []string{"Dinner is ready"}, f.synth.texts)
	assert.Equal(t, []string{
		"Prepare 12",
		"PlayURI http://10.0.0.2:8724/media/tts.mp3 true",
		"WaitForEnd",
	}, f.player.calls)
	assert.Empty(t, f.notifier.messages)

	assert.Error(t, f.Say(context.Background(), " "))
}

func TestToday(t *testing.T) {
	f := setup(t, dentist(), freemind.Task{Text: "Yesterday", Due: ptr(now.Add(-24 * time.Hour).Unix())})
	text, err := f.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hey Ann! You have 1 event due today.\nNumber 1: Dentist.\nTaking place at High Street in 20 minutes.", text)
	assert.Equal(t, 2, f.Digest().Len())
	assert.Empty(t, f.player.calls)
}

func TestTodayUsesTimezone(t *testing.T) {
	// 23:30 UTC on the 17th is 00:30 on the 18th in London
	late := freemind.Task{Text: "Late", Due: ptr(now.Add(16*time.Hour + 30*time.Minute).Unix())}
	f := setup(t, late)
	text, err := f.Today(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "You have 1 event due today.")

	conf, err := config.OpenRaw([]byte(strings.Replace(testYaml, "timezone: UTC", "timezone: Europe/London", 1)))
	require.NoError(t, err)
	london := New(conf, f.registry, f.synth, nil, f.player, nil)
	london.Now = func() time.Time { return now }
	text, err = london.Today(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "You have 0 events due today.")
}

func TestServerToday(t *testing.T) {
	f := setup(t, freemind.Task{Text: "Ignored", Due: ptr(now.Add(time.Hour).Unix())})
	f.registry.today = []freemind.Task{dentist()}
	text, err := f.ServerToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hey Ann! You have 1 event due today.\nNumber 1: Dentist.\nTaking place at High Street in 20 minutes.", text)
	assert.Empty(t, f.player.calls)

	f.registry.err = errors.New("connection refused")
	_, err = f.ServerToday(context.Background())
	assert.Error(t, err)

	f.Registry = fetchOnly{f.registry}
	_, err = f.ServerToday(context.Background())
	assert.Error(t, err)
}

func TestMediaURL(t *testing.T) {
	f := setup(t)
	base, err := f.MediaURL()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:8724/media", base)

	f.Conf.Media.Url = ""
	_, err = f.MediaURL()
	assert.Error(t, err)

	f.Conf.Media.Listen = "bad"
	_, err = f.MediaURL()
	assert.Error(t, err)
}

func TestIPv4s(t *testing.T) {
	addrs := []net.Addr{
		&net.IPNet{IP: net.ParseIP("192.168.0.2"), Mask: net.CIDRMask(24, 32)},
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		&net.IPAddr{IP: net.ParseIP("127.0.0.1")},
		&net.IPAddr{IP: net.ParseIP("10.0.0.1")},
	}
	var got []string
	for _, ip := range ipv4s(addrs) {
		got = append(got, ip.String())
	}
	assert.Equal(t, []string{"192.168.0.2", "10.0.0.1"}, got)
}

func TestLocalAddrs(t *testing.T) {
	ips, err := LocalAddrs()
	require.NoError(t, err)
	for _, ip := range ips {
		assert.NotNil(t, ip.To4())
		assert.False(t, ip.IsLoopback())
	}
}
