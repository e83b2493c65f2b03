package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/Taylor-eOS/bmp280-sensor/adapter"
	"github.com/Taylor-eOS/bmp280-sensor/cmd/bmx280/console"
	"github.com/Taylor-eOS/bmp280-sensor/snsctx"
)

var mcp2221Cmd = cli.Command{
	Name: "mcp2221",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		return withMCP2221(c, func(ctx context.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error) {
			return a.Status(ctx)
		})
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and free the bus",
	Action: func(c *cli.Context) error {
		return withMCP2221(c, func(ctx context.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error) {
			return a.ReleaseBus(ctx)
		})
	},
}

func withMCP2221(c *cli.Context, do func(context.Context, *adapter.MCP2221) (*adapter.MCP2221Status, error)) error {
	a := adapter.NewMCP2221()
	if err := a.Init(); err != nil {
		return console.Exit(1, "adapter initialization error: %s", console.Red(err))
	}
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	status, err := do(ctx, a)
	if err != nil {
		return console.Exit(1, "adapter communication error: %s", console.Red(err))
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(status); err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
