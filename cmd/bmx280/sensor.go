package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/Taylor-eOS/bmp280-sensor/cmd/bmx280/console"
	"github.com/Taylor-eOS/bmp280-sensor/environment"
	"github.com/Taylor-eOS/bmp280-sensor/snsctx"
)

var detectCmd = cli.Command{
	Name:  "detect",
	Usage: "probe the candidate addresses and report the device found",
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		bus, release, err := openBus(ctx, cfg)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer release()
		var candidates []byte
		if cfg.Address != 0 {
			candidates = []byte{cfg.Address}
		}
		id, ok := environment.Discover(ctx, bus, candidates...)
		if !ok {
			return console.Exit(2, "%s no BME/BMP found at 0x76/0x77", console.PictoGhost)
		}
		console.PInfof(console.PictoPin, "found device at %s chip id %s %s",
			console.White(fmt.Sprintf("%#02x", id.Address)), console.White(fmt.Sprintf("%#02x", id.ChipID)), console.Green(id.Variant()))
		return nil
	},
}

var calibrationCmd = cli.Command{
	Name:    "calibration",
	Aliases: []string{"cal"},
	Usage:   "print the factory calibration of the device",
	Action: func(c *cli.Context) error {
		_, sensor, _, release, err := openSensor(c)
		if err != nil {
			return err
		}
		defer release()
		enc := yaml.NewEncoder(os.Stdout)
		defer func() { _ = enc.Close() }()
		if err := enc.Encode(sensor.Calibration()); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}

var readCmd = cli.Command{
	Name:  "read",
	Usage: "take a single reading",
	Action: func(c *cli.Context) error {
		ctx, sensor, _, release, err := openSensor(c)
		if err != nil {
			return err
		}
		defer release()
		reading, err := sensor.Sense(ctx)
		if err != nil {
			return console.Exit(1, "error getting sensor read: %s", console.Red(err))
		}
		env := reading.Env()
		console.Printf("%s %s (%#02x)\n", console.PictoPin, console.Green(sensor.Variant()), sensor.Address())
		console.Printf("%s  %s\n", console.PictoThermometer, console.White(env.Temperature))
		console.Printf("%s %s\n", console.PictoPressure, console.White(env.Pressure))
		if reading.HasHumidity {
			console.Printf("%s %s\n", console.PictoHumidity, console.White(env.Humidity))
		}
		return nil
	},
}
