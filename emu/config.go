package emu

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/kirsle/configdir"

	"nescore/emu/log"
	"nescore/hw/input"
)

type Config struct {
	General GeneralConfig `toml:"general"`
	Run     RunConfig     `toml:"run"`
	Input   input.Config  `toml:"input"`

	TraceOut io.Writer `toml:"-"`
}

type GeneralConfig struct {
	// Comma-separated list of modules with debug logs enabled.
	LogModules string `toml:"log_modules"`
}

type RunConfig struct {
	// Number of frames to run.
	Frames int `toml:"frames"`
	// If non-zero, run that many instructions instead of Frames frames.
	Instructions int64 `toml:"instructions"`
	// Directory of battery save files. Defaults to the rom directory.
	SaveDir string `toml:"save_dir"`
	// Record the address of executed instructions.
	Coverage bool `toml:"coverage"`
}

func DefaultConfig() Config {
	return Config{
		Run: RunConfig{Frames: 60},
	}
}

// ConfigDir returns the nescore directory in the user config directory,
// creating it if necessary.
var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("nescore")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.WarnZ("failed to create config directory").
			String("dir", dir).
			Error("err", err).
			End()
	}
	return dir
})

const cfgFilename = "config.toml"

// ConfigPath returns path, or the default config file path if path is empty.
func ConfigPath(path string) string {
	if path != "" {
		return path
	}
	return filepath.Join(ConfigDir(), cfgFilename)
}

// LoadConfigOrDefault loads the configuration at path (see ConfigPath). A
// missing file gives the default configuration.
func LoadConfigOrDefault(path string) (Config, error) {
	cfg := DefaultConfig()
	_, err := toml.DecodeFile(ConfigPath(path), &cfg)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return DefaultConfig(), nil
	case err != nil:
		return DefaultConfig(), errors.Wrap(err, "load config")
	}
	return cfg, nil
}

// SaveConfig writes cfg at path (see ConfigPath).
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return os.WriteFile(ConfigPath(path), buf, 0644)
}
