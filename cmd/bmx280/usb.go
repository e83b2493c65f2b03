package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/Taylor-eOS/bmp280-sensor/adapter"
)

var usbCmd = cli.Command{
	Name: "usb",
	Subcommands: cli.Commands{
		&usbLsCmd,
	},
}

var usbLsCmd = cli.Command{
	Name:  "ls",
	Usage: "list HID devices, marking supported bridges",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "supported", Usage: "only list supported bridges"},
	},
	Action: func(c *cli.Context) error {
		devices := hid.Enumerate(0, 0)

		w := tabwriter.NewWriter(os.Stdout, 12, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PATH\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\tBRIDGE\n")
		for _, dev := range devices {
			bridge := bridgeName(dev.VendorID, dev.ProductID)
			if bridge == "" && c.Bool("supported") {
				continue
			}
			_, _ = fmt.Fprintf(w, "%s\t%#x\t%#x\t%s\t%s\t%s\n",
				dev.Path, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product, bridge)
		}
		_ = w.Flush()
		return nil
	},
}

func bridgeName(vendor, product uint16) string {
	if vendor == adapter.VendorID && product == adapter.ProductID {
		return "MCP2221"
	}
	return ""
}
