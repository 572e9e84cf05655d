package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"text/tabwriter"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/ines"
)

func main() {
	log.SetOutput(os.Stderr)
	cfg := parseArgs(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cfg.mode {
	case romInfosMode:
		rom, err := ines.Open(cfg.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		checkf(printRomInfos(os.Stdout, rom, cfg.RomInfos.JSON), "failed to print rom infos")
	case smokeMode:
		checkf(runSmoke(ctx, os.Stdout, cfg.Smoke), "smoke run interrupted")
	case versionMode:
		fmt.Println("nescore", version())
	case runMode:
		checkf(runROM(ctx, cfg.Run, cfg.Log.set), "failed to run %s", cfg.Run.RomPath)
	}
}

func version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "(devel)"
	}
	return bi.Main.Version
}

// runConfig loads the configuration file and applies the command line
// overrides on top of it.
func runConfig(args Run, logFlag bool) (emu.Config, error) {
	cfg, err := emu.LoadConfigOrDefault(args.Config)
	if err != nil {
		return cfg, err
	}

	if !logFlag && cfg.General.LogModules != "" {
		mask, err := parseLogModules(cfg.General.LogModules)
		if err != nil {
			return cfg, errors.Wrap(err, "config log_modules")
		}
		if mask == 0 {
			log.Disable()
		}
		log.EnableDebugModules(mask)
	}

	if args.Frames != 0 {
		cfg.Run.Frames = args.Frames
	}
	if args.Instructions != 0 {
		cfg.Run.Instructions = args.Instructions
	}
	if args.SaveDir != "" {
		cfg.Run.SaveDir = args.SaveDir
	}
	if args.Coverage {
		cfg.Run.Coverage = true
	}
	if args.Movie != "" {
		cfg.Input.Movie = args.Movie
	}
	return cfg, nil
}

func runROM(ctx context.Context, args Run, logFlag bool) error {
	cfg, err := runConfig(args, logFlag)
	if err != nil {
		return err
	}
	if args.SaveConfig {
		if err := emu.SaveConfig(args.Config, cfg); err != nil {
			return err
		}
	}

	if args.Trace != nil {
		defer args.Trace.Close()
		cfg.TraceOut = args.Trace
	}
	if args.StatsView {
		launchStatsView(os.Stderr)
	}

	e, err := emu.Launch(args.RomPath, cfg)
	if err != nil {
		return err
	}

	runErr := e.Run(ctx)
	if err := e.Close(); err != nil {
		return err
	}

	if args.Screenshot != "" {
		if err := e.Screenshot(args.Screenshot); err != nil {
			return err
		}
	}
	if args.StateDot != "" {
		if err := dumpState(args.StateDot, e); err != nil {
			return err
		}
	}
	if cov := e.Coverage(); cov != nil {
		fmt.Printf("coverage: %d distinct instruction addresses\n", cov.Count())
	}
	fmt.Printf("ran %d frames, %d CPU cycles\n", e.Frames(), e.NES.CPU.Cycles)
	return runErr
}

func dumpState(path string, e *emu.Emulator) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	memviz.Map(f, e.NES.Snapshot())
	return f.Close()
}

func printRomInfos(w io.Writer, rom *ines.Rom, asJSON bool) error {
	if asJSON {
		var e jx.Encoder
		e.SetIdent(2)
		rom.EncodeJSON(&e)
		_, err := fmt.Fprintln(w, e.String())
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "mapper\t%d\n", rom.Mapper())
	fmt.Fprintf(tw, "PRG\t%d x 16KB\n", rom.PRGBanks())
	fmt.Fprintf(tw, "CHR\t%d x 8KB\n", rom.CHRBanks())
	fmt.Fprintf(tw, "mirroring\t%s\n", rom.Mirroring())
	fmt.Fprintf(tw, "battery\t%t\n", rom.HasPersistent())
	fmt.Fprintf(tw, "trainer\t%t\n", rom.HasTrainer())
	fmt.Fprintf(tw, "NES 2.0\t%t\n", rom.IsNES20())
	return tw.Flush()
}

func runSmoke(ctx context.Context, w io.Writer, args Smoke) error {
	results, err := emu.Smoke(ctx, args.Roms, args.Frames, args.Parallel)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROM\tFRAMES\tHASH\tERROR")
	for _, r := range results {
		errstr := "-"
		if r.Err != nil {
			errstr = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%016x\t%s\n", r.Rom, r.Frames, r.Hash, errstr)
	}
	if ferr := tw.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
