package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//Template represents a seeding template which can be used to settle the universe with predefined data
type Template struct {
	Name  string  `toml:"name"`  //template name
	Descr string  `toml:"descr"` //template description
	Cells [][]int `toml:"cells"` //sequence of [row, column] pairs
}

//Duration wraps time.Duration so TOML values like "150ms" parse
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

//Config mirrors the command line options and can carry extra seeding templates
type Config struct {
	Width     int        `toml:"width"`
	Height    int        `toml:"height"`
	Interval  Duration   `toml:"interval"`
	MaxSteps  int        `toml:"max_steps"`
	Seed      int64      `toml:"seed"`
	Templates []Template `toml:"templates"`
}

//Default returns the configuration used when no file and no flags are given
func Default() Config {
	return Config{
		Width:    40,
		Height:   15,
		Interval: Duration(time.Millisecond * 100),
		MaxSteps: 1000,
	}
}

//Load reads and validates the TOML configuration at path
//missing values fall back to the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

//Validate checks the configuration invariants
func Validate(cfg Config) error {
	if cfg.Width < 0 || cfg.Height < 0 {
		return fmt.Errorf("dimensions must not be negative, got %vx%v", cfg.Width, cfg.Height)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %v", cfg.MaxSteps)
	}
	for _, t := range cfg.Templates {
		if t.Name == "" {
			return fmt.Errorf("template without a name")
		}
		for _, p := range t.Cells {
			if len(p) != 2 {
				return fmt.Errorf("template %q: %v is not a [row, column] pair", t.Name, p)
			}
		}
	}
	return nil
}

//Builtin returns the seeding templates that ship with the binary
func Builtin() []Template {
	return []Template{
		{
			Name:  "demo",
			Descr: "the test sample with 3 stable patterns",
			Cells: [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}, {3, 3}, {2, 4}, {3, 4}, {3, 5}},
		},
		{
			Name:  "glider",
			Descr: "the smallest spaceship, travels diagonally forever",
			Cells: [][]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}},
		},
		{
			Name:  "blinker",
			Descr: "period 2 oscillator",
			Cells: [][]int{{2, 1}, {2, 2}, {2, 3}},
		},
		{
			Name:  "block",
			Descr: "2x2 still life",
			Cells: [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}},
		},
		{
			Name:  "toad",
			Descr: "period 2 oscillator",
			Cells: [][]int{{2, 2}, {2, 3}, {2, 4}, {3, 1}, {3, 2}, {3, 3}},
		},
	}
}

//Find looks a template up by name, file templates take precedence over the builtins
func Find(name string, fromFile []Template) (Template, bool) {
	for _, t := range fromFile {
		if t.Name == name {
			return t, true
		}
	}
	for _, t := range Builtin() {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
