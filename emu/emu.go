package emu

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/hwio"
	"nescore/hw/input"
	"nescore/ines"
)

// Emulator drives a NES headlessly: it feeds controller input, runs frames
// and keeps battery-backed memory on disk.
type Emulator struct {
	NES *NES
	cfg Config

	input input.Provider
	frame uint64 // frames since launch, across resets.

	savePath string
	coverage *hwio.Bitset
}

// Launch loads the rom at romPath, powers up the console, plugs controllers
// and restores battery-backed memory. It doesn't run anything.
func Launch(romPath string, cfg Config) (*Emulator, error) {
	rom, err := ines.Open(romPath)
	if err != nil {
		return nil, err
	}
	nes, err := PowerUp(rom)
	if err != nil {
		return nil, err
	}

	prov, err := input.NewProvider(cfg.Input)
	if err != nil {
		return nil, err
	}
	nes.PlugInputDevice(prov)

	e := &Emulator{
		NES:   nes,
		cfg:   cfg,
		input: prov,
	}

	if cfg.TraceOut != nil {
		nes.CPU.SetTraceOutput(cfg.TraceOut, nes.PPU)
	}
	if cfg.Run.Coverage {
		e.coverage = nes.CPU.EnableCoverage()
	}

	if rom.HasPersistent() {
		e.savePath = savePath(romPath, cfg.Run.SaveDir)
		if err := e.loadBattery(); err != nil {
			return nil, err
		}
	}

	log.ModEmu.InfoZ("launched").
		String("rom", romPath).
		String("mapper", nes.Mapper.Name()).
		End()
	return e, nil
}

func savePath(romPath, dir string) string {
	base := filepath.Base(romPath)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".sav"
	if dir == "" {
		dir = filepath.Dir(romPath)
	}
	return filepath.Join(dir, base)
}

func (e *Emulator) battery() []byte {
	if bb, ok := e.NES.Mapper.(hw.BatteryBacked); ok {
		return bb.PRGRAM()
	}
	return nil
}

func (e *Emulator) loadBattery() error {
	ram := e.battery()
	if ram == nil {
		return nil
	}

	buf, err := os.ReadFile(e.savePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return errors.Wrap(err, "load battery save")
	}

	copy(ram, buf)
	log.ModEmu.InfoZ("loaded battery save").
		String("path", e.savePath).
		Int("size", len(buf)).
		End()
	return nil
}

// Close writes battery-backed memory to disk.
func (e *Emulator) Close() error {
	ram := e.battery()
	if e.savePath == "" || ram == nil {
		return nil
	}
	if err := os.WriteFile(e.savePath, ram, 0644); err != nil {
		return errors.Wrap(err, "write battery save")
	}
	log.ModEmu.InfoZ("wrote battery save").String("path", e.savePath).End()
	return nil
}

// beginFrame applies the commands and input recorded for the current frame.
func (e *Emulator) beginFrame() {
	if c, ok := e.input.(input.Commander); ok {
		switch cmd := c.Command(e.frame); {
		case cmd&input.HardReset != 0:
			log.ModEmu.InfoZ("performing hard reset").Uint64("frame", e.frame).End()
			e.NES.Reset(HardReset)
		case cmd&input.SoftReset != 0:
			log.ModEmu.InfoZ("performing soft reset").Uint64("frame", e.frame).End()
			e.NES.Reset(SoftReset)
		}
	}
	e.input.SetFrame(e.frame)
}

// RunOneFrame runs a single frame, applying the input recorded for it.
func (e *Emulator) RunOneFrame() error {
	e.beginFrame()
	if err := e.NES.RunOneFrame(); err != nil {
		return errors.Wrapf(err, "frame %d", e.frame)
	}
	e.frame++
	return nil
}

// Number of instructions between two checks of the context.
const ctxCheckInterval = 4096

// Run runs the configured number of frames, or instructions if set, until
// completion, a CPU fault or ctx cancellation.
//
// Movie input is frame-driven in both modes: in instruction mode, the input
// and commands of a frame are applied each time the PPU starts a new frame.
func (e *Emulator) Run(ctx context.Context) error {
	if n := e.cfg.Run.Instructions; n > 0 {
		return e.runInstructions(ctx, n)
	}

	for i, frames := 0, e.cfg.Run.Frames; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.RunOneFrame(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emulator) runInstructions(ctx context.Context, n int64) error {
	e.beginFrame()
	frame := e.NES.PPU.Frame
	for i := int64(0); i < n; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if _, err := e.NES.Step(); err != nil {
			return errors.Wrapf(err, "frame %d", e.frame)
		}
		if e.NES.PPU.Frame != frame {
			e.frame++
			e.beginFrame()
			frame = e.NES.PPU.Frame
		}
	}
	return nil
}

// Frames returns the number of frames run since launch.
func (e *Emulator) Frames() uint64 {
	return e.frame
}

// Screen returns the last complete frame.
func (e *Emulator) Screen() *image.RGBA {
	return e.NES.PPU.Output()
}

// Coverage returns the set of executed instruction addresses, or nil if
// coverage is disabled.
func (e *Emulator) Coverage() *hwio.Bitset {
	return e.coverage
}
