package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/barnybug/announcer/config"
	"github.com/barnybug/announcer/logging"
	"github.com/barnybug/announcer/sonos"
	"github.com/barnybug/announcer/util"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func usage() {
	fmt.Println("Usage: announcer [-config file] [-debug] COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("   run                     Morning announcement with music")
	fmt.Println("   alert   [-window N]     Announce tasks alerting in the next N minutes")
	fmt.Println("   today   [-server]       Print today's digest, as worked out by the server with -server")
	fmt.Println("   say     TEXT...         Speak text on the speaker")
	fmt.Println("   track                   Print a random track and its stream url")
	fmt.Println("   skip    DURATION        Skip through the playing track, e.g. 30s or -1m")
	fmt.Println("   serve                   Serve the media directory")
	fmt.Println("   config                  Print an example configuration")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func fmtFatalf(format string, v ...interface{}) {
	fmt.Printf(format, v...)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "", "configuration file (default "+config.ConfigPath("announcer.yml")+")")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	logging.Setup(*debug, os.Stdout)

	command := flag.Args()[0]
	ps := flag.Args()[1:]
	if command == "config" {
		fmt.Print(config.ExampleYaml)
		return
	}

	conf, err := config.Open(*configPath)
	if err != nil {
		fmtFatalf("error: %s\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch command {
	default:
		usage()
		os.Exit(1)
	case "run":
		err = run(ctx, conf)
	case "alert":
		err = alert(ctx, conf, ps)
	case "today":
		err = today(ctx, conf, ps)
	case "say":
		if len(ps) == 0 {
			usage()
			os.Exit(1)
		}
		err = say(ctx, conf, strings.Join(ps, " "))
	case "track":
		err = track(ctx, conf)
	case "skip":
		if len(ps) != 1 {
			usage()
			os.Exit(1)
		}
		err = skip(ctx, conf, ps[0])
	case "serve":
		err = serve(ctx, conf)
	}
	if err != nil {
		log.Error().Err(err).Msg(command + " failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, conf *config.Config) error {
	app, err := build(conf)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Morning(ctx)
}

func alert(ctx context.Context, conf *config.Config, args []string) error {
	fs := flag.NewFlagSet("alert", flag.ExitOnError)
	window := fs.Int("window", int(conf.Announce.Alert_window.Duration/time.Minute), "minutes ahead to look for alerts")
	fs.Parse(args)

	app, err := build(conf)
	if err != nil {
		return err
	}
	defer app.Close()
	fired, err := app.Alert(ctx, time.Duration(*window)*time.Minute)
	if err != nil {
		return err
	}
	if !fired {
		fmt.Println("Nothing to announce")
	}
	return nil
}

func today(ctx context.Context, conf *config.Config, args []string) error {
	fs := flag.NewFlagSet("today", flag.ExitOnError)
	server := fs.Bool("server", false, "ask the server which tasks are due today")
	fs.Parse(args)

	reader := buildReader(conf)
	fetch := reader.Today
	if *server {
		fetch = reader.ServerToday
	}
	text, err := fetch(ctx)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func say(ctx context.Context, conf *config.Config, text string) error {
	app, err := build(conf)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Say(ctx, text)
}

func track(ctx context.Context, conf *config.Config) error {
	tracks := newTracks(conf)
	if tracks == nil {
		return errors.New("jellyfin is not configured")
	}
	t, err := tracks.RandomTrack(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", t, util.ShortDuration(t.Length()))
	fmt.Println(tracks.StreamURL(t, 0))
	return nil
}

func skip(ctx context.Context, conf *config.Config, arg string) error {
	d, err := time.ParseDuration(arg)
	if err != nil {
		return errors.Wrapf(err, "skip %q", arg)
	}
	return sonos.NewSpeaker(conf.Speaker.Ip).SkipBy(ctx, d)
}

func serve(ctx context.Context, conf *config.Config) error {
	srv, err := startMedia(conf)
	if err != nil {
		return err
	}
	if srv == nil {
		return errors.New("media listen is not configured")
	}
	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}
