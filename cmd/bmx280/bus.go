package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	sensors "github.com/Taylor-eOS/bmp280-sensor"
	"github.com/Taylor-eOS/bmp280-sensor/adapter"
	"github.com/Taylor-eOS/bmp280-sensor/cmd/bmx280/console"
	"github.com/Taylor-eOS/bmp280-sensor/environment"
	"github.com/Taylor-eOS/bmp280-sensor/i2c"
	"github.com/Taylor-eOS/bmp280-sensor/pkg/config"
	"github.com/Taylor-eOS/bmp280-sensor/snsctx"
)

// loadConfig reads the config file and applies the command line overrides on top of it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.Int("bus")
	}
	if c.IsSet("speed") {
		cfg.Speed = c.String("speed")
	}
	if c.IsSet("addr") {
		addr, err := strconv.ParseUint(c.String("addr"), 0, 8)
		if err != nil {
			return cfg, fmt.Errorf("%w: address %q: %w", config.ErrInvalid, c.String("addr"), err)
		}
		cfg.Address = uint8(addr)
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Duration("interval")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	return cfg, cfg.Validate()
}

// openBus returns the register bus for the configured adapter and the function releasing it.
func openBus(ctx context.Context, cfg config.Config) (sensors.RegisterBus, func(), error) {
	speed, err := cfg.Frequency()
	if err != nil {
		return nil, nil, err
	}
	switch cfg.Adapter {
	case config.AdapterMCP2221:
		mcp := adapter.NewMCP2221()
		if err := mcp.Init(); err != nil {
			return nil, nil, err
		}
		if speed != 0 {
			slog.Warn("speed setting is not supported by the mcp2221 adapter", "speed", speed)
		}
		return sensors.NewRegisterBus(mcp), func() {
			if err := mcp.Release(ctx); err != nil {
				console.Errorf("error releasing adapter: %s", console.Red(err))
			}
		}, nil
	case config.AdapterNanoPi:
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, nil, fmt.Errorf("could not connect nanopi i2c adaptor: %w", err)
		}
		bus := i2c.NewGobotBus(npi, cfg.Bus)
		return bus, func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
			if err := npi.I2cBusAdaptor.Finalize(); err != nil {
				console.Errorf("error finalizing adaptor: %s", console.Red(err))
			}
		}, nil
	default:
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, nil, err
		}
		if speed != 0 {
			if err := bus.SetSpeed(speed); err != nil {
				slog.Warn("could not set bus speed", "speed", speed, "error", err)
			}
		}
		return bus, func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}, nil
	}
}

func sensorOpts(cfg config.Config) []environment.BMx280ConfigOption {
	if cfg.Address == 0 {
		return nil
	}
	return []environment.BMx280ConfigOption{environment.WithAddress(cfg.Address)}
}

// openSensor loads the configuration, opens the bus and runs discovery.
func openSensor(c *cli.Context) (context.Context, *environment.BMx280, config.Config, func(), error) {
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	cfg, err := loadConfig(c)
	if err != nil {
		return ctx, nil, cfg, nil, console.Exit(1, "configuration error: %s", console.Red(err))
	}
	bus, release, err := openBus(ctx, cfg)
	if err != nil {
		return ctx, nil, cfg, nil, console.Exit(1, "adapter initialization error: %s", console.Red(err))
	}
	sensor, err := environment.NewBMx280(ctx, bus, sensorOpts(cfg)...)
	if err != nil {
		release()
		return ctx, nil, cfg, nil, console.Exit(2, "%s %s", console.PictoGhost, console.Red(err))
	}
	return ctx, sensor, cfg, release, nil
}
