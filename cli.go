package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"nescore/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run a ROM headlessly
	romInfosMode             // Show ROM infos
	smokeMode                // Run many ROMs, report how far they go
	versionMode              // Show nescore version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run ROM in emulator, without display."`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Smoke    Smoke    `cmd:"" help:"Run a batch of ROMs and report their last frame."`
		Version  Version  `cmd:"" help:"Show nescore version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"ROM to run." required:"true" type:"existingfile"`

		Config       string   `name:"config" help:"${config_help}" type:"path"`
		SaveConfig   bool     `name:"config-save" help:"Write the resulting configuration back to the config file."`
		Frames       int      `name:"frames" help:"Number of frames to run. (overrides config)"`
		Instructions int64    `name:"instructions" help:"${instructions_help}"`
		Trace        *outfile `name:"trace" help:"Write CPU trace log, in nestest format." placeholder:"FILE|stdout|stderr"`
		Screenshot   string   `name:"screenshot" help:"Save the last frame as PNG." type:"path"`
		Movie        string   `name:"movie" help:"Play FM2 movie input." type:"existingfile"`
		SaveDir      string   `name:"save-dir" help:"Directory of battery save files." type:"existingdir"`
		Coverage     bool     `name:"coverage" help:"Report the number of distinct instruction addresses executed."`
		StateDot     string   `name:"state-dot" help:"Dump the final console state as a graphviz dot file." type:"path"`
		StatsView    bool     `name:"statsview" help:"${statsview_help}"`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
		JSON    bool   `name:"json" help:"Output JSON."`
	}

	Smoke struct {
		Roms     []string `arg:"" name:"roms" help:"ROMs to run."`
		Frames   int      `name:"frames" help:"Frames to run per ROM." default:"600"`
		Parallel int      `name:"parallel" help:"Maximum number of consoles running at once. (0 means unlimited)" default:"0"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help":       "Path to the TOML configuration file. Defaults to the user config directory.",
	"instructions_help": "Run that number of CPU instructions instead of frames.",
	"statsview_help":    "Serve runtime statistics at http://" + statsviewAddr + "/debug/statsview.",
	"log_help":          "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("nescore"),
		kong.Description("Headless NES emulator core."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch cmd := ctx.Command(); {
	case strings.HasPrefix(cmd, "rom-infos"):
		cfg.mode = romInfosMode
	case strings.HasPrefix(cmd, "smoke"):
		cfg.mode = smokeMode
	case cmd == "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask struct {
	mask log.ModuleMask
	set  bool
}

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	mask, err := parseLogModules(tok.Value.(string))
	if err != nil {
		return err
	}
	lm.mask, lm.set = mask, true
	if mask == 0 {
		log.Disable()
		return nil
	}
	log.EnableDebugModules(mask)
	return nil
}

// parseLogModules is like log.ParseModules but also accepts "no", which must
// be used alone and gives an empty mask.
func parseLogModules(list string) (log.ModuleMask, error) {
	nolog := false
	var mods []string
	for _, v := range strings.Split(list, ",") {
		if v == "no" {
			nolog = true
			continue
		}
		mods = append(mods, v)
	}

	if nolog {
		for _, m := range mods {
			if m == "all" {
				return 0, fmt.Errorf("cannot use 'all' and 'no' together")
			}
		}
		if len(mods) != 0 {
			return 0, fmt.Errorf("cannot combine 'no' with other log modules")
		}
		return 0, nil
	}

	mask, err := log.ParseModules(strings.Join(mods, ","))
	if err != nil {
		return 0, err
	}
	if mask == 0 {
		return 0, fmt.Errorf("empty log module list")
	}
	return mask, nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	return f.open(tok.Value.(string))
}

func (f *outfile) open(name string) error {
	f.name = name
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
