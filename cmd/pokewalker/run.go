package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/valerio/go-pokewalker/walker"
	"github.com/valerio/go-pokewalker/walker/audio"
	"github.com/valerio/go-pokewalker/walker/backend"
	"github.com/valerio/go-pokewalker/walker/backend/headless"
	"github.com/valerio/go-pokewalker/walker/backend/terminal"
	"github.com/valerio/go-pokewalker/walker/backend/window"
	"github.com/valerio/go-pokewalker/walker/board"
	"github.com/valerio/go-pokewalker/walker/debug"
	"github.com/valerio/go-pokewalker/walker/input/action"
	"github.com/valerio/go-pokewalker/walker/input/event"
	"github.com/valerio/go-pokewalker/walker/patch"
	"github.com/valerio/go-pokewalker/walker/script"
	"github.com/valerio/go-pokewalker/walker/timing"
	"github.com/valerio/go-pokewalker/walker/transport"
)

const (
	uiWindow   = "window"
	uiTerminal = "terminal"

	// frameTime is how often interactive backends are refreshed
	frameTime = time.Second / 60
)

func runEmulator(c *cli.Context) error {
	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	romPath := defaultROMPath
	if c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}
	eepromPath := defaultEEPROMPath
	if c.NArg() > 1 {
		eepromPath = c.Args().Get(1)
	}
	if p := c.String("eeprom"); p != "" {
		eepromPath = p
	}

	rom, err := loadROM(romPath)
	if err != nil {
		return err
	}
	eeprom, err := loadEEPROM(eepromPath)
	if err != nil {
		return err
	}

	packetTimeout := time.Duration(c.Int("packet-timeout")) * time.Millisecond
	b := board.New(rom, eeprom, board.WithPacketTimeout(packetTimeout))
	emu := walker.New(b)

	if !emu.IsPokewalkerRom() {
		slog.Warn("ROM signature not found, this may not be a Pokewalker image", "path", romPath)
	}

	if err := installPatches(b, c.Bool("no-patches"), c.StringSlice("patch")); err != nil {
		return err
	}

	if path := c.String("script"); path != "" {
		engine := script.New(b.CPU)
		defer engine.Close()
		if err := engine.RunFile(path); err != nil {
			return err
		}
		slog.Info("Script loaded", "path", path, "hooks", len(engine.Hooks()))
	}

	emu.OnSnapshot(func() {
		frame, contrast := emu.CurrentFrame()
		debug.TakeSnapshot(frame, contrast)
	})

	if c.Bool("headless") {
		err = runHeadless(c, emu, romPath)
	} else {
		err = runInteractive(c, emu, logger, level)
	}

	if c.Bool("no-save") {
		return err
	}
	return errors.Join(err, saveEEPROM(eepromPath, b.Eeprom.Image()))
}

func parseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

func installPatches(b *board.Board, noDefaults bool, extra []string) error {
	var patches []patch.Patch
	if !noDefaults {
		patches = patch.Defaults()
	}
	for _, name := range extra {
		p, ok := patch.ByName(name)
		if !ok {
			return fmt.Errorf("unknown patch %q", name)
		}
		patches = append(patches, p)
	}
	patch.Install(b.CPU, patches...)
	return nil
}

// runHeadless runs frame by frame with no pacing, audio or network. Packets
// the walker sends are logged.
func runHeadless(c *cli.Context, emu *walker.Emulator, romPath string) error {
	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}

	snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
	if err != nil {
		return err
	}

	be := headless.New(frames, snapshots)
	if err := be.Init(backend.BackendConfig{Title: "Pokewalker"}); err != nil {
		return err
	}
	defer be.Cleanup()

	sink := transport.NewLogSink(transport.WithLevel(slog.LevelInfo))
	emu.Board().SCI3.OnTransmitPacket(func(packet []byte) { _ = sink.Send(packet) })

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return emu.Board().SCI3.Run(ctx) })
	g.Go(func() error {
		defer cancel()
		for {
			if err := emu.RunUntilFrame(); err != nil {
				return err
			}
			frame, contrast := emu.CurrentFrame()
			events, err := be.Update(frame, contrast)
			if err != nil {
				return err
			}
			for _, evt := range events {
				if evt.Action == action.EmulatorQuit {
					return nil
				}
			}
		}
	})

	return g.Wait()
}

// runInteractive runs the emulator in real time next to the infrared link
// and a front end.
func runInteractive(c *cli.Context, emu *walker.Emulator, logger *slog.Logger, level slog.Level) error {
	b := emu.Board()
	limiter, err := timing.New(c.String("pacing"))
	if err != nil {
		return err
	}
	emu.SetLimiter(limiter)
	if ticker, ok := limiter.(*timing.TickerLimiter); ok {
		defer ticker.Stop()
	}

	link := newLink(c, b)
	b.SCI3.OnTransmitPacket(func(packet []byte) {
		if err := link.Send(packet); err != nil {
			slog.Warn("Failed to send packet", "size", len(packet), "error", err)
		}
	})

	if !c.Bool("mute") {
		player, err := startAudio(b)
		if err != nil {
			slog.Warn("Audio unavailable, continuing without sound", "error", err)
		} else {
			defer player.Close()
		}
	}

	config := backend.BackendConfig{
		Title:     "Pokewalker",
		Scale:     c.Int("scale"),
		ShowDebug: c.Bool("debug"),
		LogLevel:  level,
		Callbacks: backend.BackendCallbacks{DebugState: emu.DebugState},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return b.SCI3.Run(ctx) })
	g.Go(func() error { return link.Run(ctx) })
	g.Go(func() error {
		defer cancel()
		return emu.Run(ctx)
	})

	switch ui := c.String("ui"); ui {
	case uiTerminal:
		be := terminal.New()
		if err := be.Init(config); err != nil {
			cancel()
			return errors.Join(err, g.Wait())
		}
		g.Go(func() error {
			defer cancel()
			defer slog.SetDefault(logger)
			defer be.Cleanup()
			return pumpFrames(ctx, emu, be)
		})

	case uiWindow:
		be := window.New()
		if err := be.Init(config); err != nil {
			cancel()
			return errors.Join(err, g.Wait())
		}
		g.Go(func() error {
			defer cancel()
			defer be.Cleanup()
			return pumpFrames(ctx, emu, be)
		})
		// the window's event loop must run on the main goroutine
		if err := be.Run(); err != nil {
			cancel()
			return errors.Join(err, g.Wait())
		}
		emu.Quit()

	default:
		cancel()
		return errors.Join(fmt.Errorf("unknown ui %q", ui), g.Wait())
	}

	return g.Wait()
}

func newLink(c *cli.Context, b *board.Board) *transport.Link {
	port := strconv.Itoa(c.Int("port"))
	fallback := transport.WithFallback(transport.NewLogSink())

	if c.Bool("server") {
		return transport.New(transport.Server, net.JoinHostPort("", port), b.SCI3.Receive, fallback)
	}
	return transport.New(transport.Client, net.JoinHostPort(c.String("ip"), port), b.SCI3.Receive, fallback)
}

func startAudio(b *board.Board) (*audio.Player, error) {
	synth := audio.NewSynth(audio.DefaultSampleRate)
	b.Beeper.OnTone(synth.SetTone)

	player, err := audio.NewPlayer(synth, audio.DefaultSampleRate)
	if err != nil {
		return nil, err
	}
	player.Start()
	return player, nil
}

// pumpFrames refreshes be with the latest frame and forwards its input to
// the emulator until ctx is done or the backend asks to quit.
func pumpFrames(ctx context.Context, emu *walker.Emulator, be backend.Backend) error {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		frame, contrast := emu.CurrentFrame()
		events, err := be.Update(frame, contrast)
		if err != nil {
			return err
		}

		for _, evt := range events {
			emu.HandleAction(evt.Action, evt.Type == event.Press)
			if evt.Action == action.EmulatorQuit {
				return nil
			}
		}
	}
}
