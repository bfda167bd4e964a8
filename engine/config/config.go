// Package config loads the importer settings from a YAML file.
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/memmaker/collisionpost/engine/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when no file is given.
const DefaultPath = "collisionpost.yaml"

type Config struct {
	Log        LogConfig    `yaml:"log"`
	Extensions []string     `yaml:"extensions"`
	Output     OutputConfig `yaml:"output"`
	Watch      WatchConfig  `yaml:"watch"`
}

type LogConfig struct {
	Level      string   `yaml:"level"`
	Categories []string `yaml:"categories"`
}

type OutputConfig struct {
	// Dir receives the processed models. Empty means next to the input.
	Dir string `yaml:"dir"`
	// Suffix is appended to the base name. With an empty Dir and Suffix the
	// input is overwritten.
	Suffix string `yaml:"suffix"`
	Report bool   `yaml:"report"`
}

type WatchConfig struct {
	Dirs     []string      `yaml:"dirs"`
	Debounce time.Duration `yaml:"debounce"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Categories: []string{"import", "io", "watch", "config"},
		},
		Extensions: []string{".gltf", ".glb"},
		Output: OutputConfig{
			Suffix: "_collision",
			Report: true,
		},
		Watch: WatchConfig{
			Dirs:     []string{"./assets/models"},
			Debounce: 100 * time.Millisecond,
		},
	}
}

// Load reads path on top of Default(). A missing file is not an error, a
// malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrapf(err, "config: unmarshal %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := util.ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := util.ParseLogCategories(c.Log.Categories); err != nil {
		return err
	}
	if len(c.Extensions) == 0 {
		return errors.New("no model extensions configured")
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if c.Watch.Debounce < 0 {
		return errors.Errorf("negative watch debounce %s", c.Watch.Debounce)
	}
	return nil
}

// NewLogger builds a logger from the log section. Colours are enabled when out
// is a terminal.
func (c Config) NewLogger(out io.Writer) (*util.CategoryLogger, error) {
	level, err := util.ParseLogLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	categories, err := util.ParseLogCategories(c.Log.Categories)
	if err != nil {
		return nil, err
	}
	if f, ok := out.(*os.File); ok {
		return util.NewTerminalLogger(f, level, categories), nil
	}
	return util.NewCategoryLogger(out, level, categories), nil
}
