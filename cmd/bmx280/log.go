package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Taylor-eOS/bmp280-sensor/cmd/bmx280/console"
	"github.com/Taylor-eOS/bmp280-sensor/sampling"
)

var logCmd = cli.Command{
	Name:  "log",
	Usage: "append periodic readings to a CSV file",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Usage:   "delay between samples (default from config, 60s)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "CSV file to append to (default from config, temperature_log.csv)",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "append to files with a different header without asking",
		},
	},
	Action: func(c *cli.Context) error {
		ctx, sensor, cfg, release, err := openSensor(c)
		if err != nil {
			return err
		}
		defer release()

		ok, err := sampling.HeaderMatches(cfg.Output)
		if err != nil {
			return console.Exit(1, "could not inspect output file: %s", console.Red(err))
		}
		if !ok && !c.Bool("yes") {
			if !console.Confirm(fmt.Sprintf("%s has a different header, append anyway?", cfg.Output)) {
				return console.Exit(1, "%s aborted", console.PictoStop)
			}
		}
		csvSink, closer, err := sampling.OpenCSVFile(cfg.Output)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		defer func() {
			if err := closer.Close(); err != nil {
				console.Errorf("error closing output: %s", console.Red(err))
			}
		}()

		console.PInfof(console.PictoNotebook, "logging from device at %#02x (%s) to %s every %s",
			sensor.Address(), console.Green(sensor.Variant()), console.White(cfg.Output), cfg.Interval)
		return loop(ctx, sensor, cfg.Interval, csvSink, console.NewSink("Logged:"))
	},
}

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "print readings to the console",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Value:   time.Second,
			Usage:   "delay between samples",
		},
	},
	Action: func(c *cli.Context) error {
		ctx, sensor, _, release, err := openSensor(c)
		if err != nil {
			return err
		}
		defer release()
		console.PInfof(console.PictoPin, "found device at %#02x chip id %#02x %s", sensor.Address(), sensor.ChipID(), console.Green(sensor.Variant()))
		return loop(ctx, sensor, c.Duration("interval"), console.NewSink("", console.WithCounter()))
	},
}

// loop samples until interrupted.
func loop(ctx context.Context, sensor sampling.Sensor, interval time.Duration, sinks ...sampling.Sink) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := sampling.Run(ctx, sampling.Stream(ctx, sensor, interval), sinks...)
	if errors.Is(err, context.Canceled) {
		console.Infof("stopped")
		return nil
	}
	return err
}
