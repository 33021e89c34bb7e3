// Package terminal hosts the core in a tcell terminal window: it polls
// keys into the eight joypad buttons, runs whole frames on a 60Hz ticker
// and paints the resulting ARGB framebuffer as block-shaded cells. This is
// a host collaborator outside the core; it only calls the core's public
// Emulator surface.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomamints/gameboy/gameboy"
	"github.com/tomamints/gameboy/gameboy/memory"
	"github.com/tomamints/gameboy/gameboy/video"
)

const (
	// Terminal cells are taller than wide, so the width is scaled more to
	// keep the 160x144 screen's aspect ratio roughly correct.
	scaleX = 2
	scaleY = 1

	frameTime = time.Second / 60
)

// shadeChars renders the four DMG shades from lightest to darkest.
var shadeChars = []rune{' ', '▒', '▓', '█'}

// keyMap binds terminal keys to joypad buttons.
var keyMap = map[rune]memory.JoypadKey{
	'w': memory.JoypadUp,
	's': memory.JoypadDown,
	'a': memory.JoypadLeft,
	'd': memory.JoypadRight,
	'j': memory.JoypadA,
	'k': memory.JoypadB,
	'n': memory.JoypadSelect,
	'm': memory.JoypadStart,
}

// Renderer owns a tcell screen and drives an Emulator one frame per tick
// until Escape is pressed or the process receives SIGINT/SIGTERM.
type Renderer struct {
	screen   tcell.Screen
	emulator *gameboy.Emulator
	running  bool

	// BreakOnIllegal stops the render loop (instead of retrying) the first
	// time Step reports a fatal error, so the caller can report it.
	BreakOnIllegal bool
	fatal          error
}

func New(emu *gameboy.Emulator) (*Renderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: failed to initialize screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: failed to initialize screen: %w", err)
	}

	return &Renderer{screen: screen, emulator: emu, running: true}, nil
}

// Err returns the fatal error that stopped the run loop, if any.
func (r *Renderer) Err() error { return r.fatal }

func (r *Renderer) Run() error {
	defer func() {
		slog.Info("terminal renderer stopping")
		r.screen.Fini()
	}()

	r.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	r.screen.Clear()

	go r.pollInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for r.running {
		select {
		case <-ticker.C:
			if err := r.emulator.RunUntilFrame(); err != nil {
				slog.Error("emulator halted", "error", err)
				r.fatal = err
				if r.BreakOnIllegal {
					return err
				}
				continue
			}
			r.draw()
			r.screen.Show()
		case <-signals:
			r.running = false
			slog.Info("received signal to stop")
		}
	}

	return r.fatal
}

func (r *Renderer) pollInput() {
	for r.running {
		switch ev := r.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape {
				r.running = false
				return
			}
			r.dispatchKey(ev)
		case *tcell.EventResize:
			r.screen.Sync()
		}
	}
}

func (r *Renderer) dispatchKey(ev *tcell.EventKey) {
	key, ok := keyMap[ev.Rune()]
	if !ok {
		return
	}
	// tcell has no key-release events for plain runes, so every keypress is
	// treated as a tap: press immediately followed by release. This is
	// enough to drive the joypad interrupt's falling edge; held-key repeat
	// relies on terminal key-repeat delivering the same rune again.
	r.emulator.HandleKeyPress(key)
	r.emulator.HandleKeyRelease(key)
}

func (r *Renderer) draw() {
	fb := r.emulator.FrameBuffer()
	r.screen.Clear()

	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			shade := shadeIndex(fb.Pixel(x, y))
			char := shadeChars[shade]
			style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

			screenX, screenY := x*scaleX, y*scaleY
			for sx := 0; sx < scaleX; sx++ {
				r.screen.SetContent(screenX+sx, screenY, char, nil, style)
			}
		}
	}
}

// shadeIndex maps an ARGB pixel back to a 0-3 darkness index (0=lightest)
// by matching it against the three lighter palette colors; any other value
// is treated as the darkest shade.
func shadeIndex(argb uint32) int {
	switch argb {
	case 0xFFFFFFFF:
		return 0
	case 0xFFBFBFBF:
		return 1
	case 0xFF7F7F7F:
		return 2
	default:
		return 3
	}
}
