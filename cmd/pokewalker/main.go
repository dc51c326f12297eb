package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "pokewalker"
	app.Description = "A Pokewalker emulator"
	app.Usage = "pokewalker [options] [ROM file] [EEPROM file]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "eeprom",
			Usage: "Path to the EEPROM file (overrides the second argument)",
		},
		cli.BoolFlag{
			Name:  "server",
			Usage: "Accept the infrared peer instead of connecting to it",
		},
		cli.StringFlag{
			Name:  "ip",
			Usage: "Address of the peer in client mode",
			Value: "127.0.0.1",
		},
		cli.IntFlag{
			Name:  "port",
			Usage: "TCP port of the infrared link",
			Value: 8081,
		},
		cli.BoolFlag{
			Name:  "no-save",
			Usage: "Do not write the EEPROM back on exit",
		},
		cli.IntFlag{
			Name:  "packet-timeout",
			Usage: "Idle time in milliseconds that ends an infrared packet",
			Value: 5,
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "ui",
			Usage: "Interactive front end: window or terminal",
			Value: uiWindow,
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor",
			Value: 6,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show CPU registers in the terminal front end",
		},
		cli.BoolFlag{
			Name:  "mute",
			Usage: "Disable the beeper",
		},
		cli.BoolFlag{
			Name:  "no-patches",
			Usage: "Do not install the default firmware patches",
		},
		cli.StringSliceFlag{
			Name:  "patch",
			Usage: "Install an extra firmware patch by name (repeatable)",
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "Lua file registering address intercepts",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "pacing",
			Usage: "Real time pacing: adaptive, ticker or off",
			Value: "adaptive",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}
