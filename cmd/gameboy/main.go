// Command gameboy runs the DMG core against a ROM file, either in a
// terminal window or headless for a fixed number of frames.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/tomamints/gameboy/gameboy"
	"github.com/tomamints/gameboy/gameboy/backend/terminal"
	"github.com/tomamints/gameboy/gameboy/debug"
)

func main() {
	app := cli.NewApp()
	app.Name = "gameboy"
	app.Usage = "gameboy [options] <ROM file>"
	app.Description = "A cycle-accurate original Game Boy (DMG) core"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "run without a terminal window",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "break-on-illegal",
			Usage: "stop immediately on an illegal opcode instead of continuing to retry",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gameboy exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := gameboy.NewWithFile(romPath)
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		return runHeadless(emu, c.Int("frames"))
	}

	renderer, err := terminal.New(emu)
	if err != nil {
		return err
	}
	renderer.BreakOnIllegal = c.Bool("break-on-illegal")

	if err := renderer.Run(); err != nil {
		reportFatal(emu, err)
		return err
	}
	return nil
}

func runHeadless(emu *gameboy.Emulator, frames int) error {
	if frames <= 0 {
		return errors.New("headless mode requires --frames > 0")
	}

	for i := 0; i < frames; i++ {
		if err := emu.RunUntilFrame(); err != nil {
			reportFatal(emu, err)
			return err
		}
	}
	slog.Info("headless run complete", "frames", frames)
	return nil
}

// reportFatal logs a register/memory snapshot alongside the error that
// halted the core, so a crash is diagnosable from the log alone.
func reportFatal(emu *gameboy.Emulator, err error) {
	snap := debug.Take(emu.Bus().CPU, emu.Bus().MMU)
	slog.Error("core halted", "error", err, "snapshot", snap.String())
}
