package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/integrii/flaggy"
	"github.com/rs/zerolog"

	"toruslife/src/config"
	"toruslife/src/sim"
	"toruslife/src/universe"
	"toruslife/src/view"
)

type envOptions struct {
	interactive bool
	random      bool
	template    string
	configPath  string
}

func main() {
	logger := initLogger()
	//crash reporter: an escaped panic becomes one structured fatal record
	defer func() {
		if p := recover(); p != nil {
			logger.Fatal().Interface("panic", p).Msg("simulation crashed")
		}
	}()

	cfg, eo := initOptions(logger)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	u := buildUniverse(cfg, eo, rng, logger)

	uo := &sim.Options{
		Interval:        time.Duration(cfg.Interval),
		MaxSteps:        cfg.MaxSteps,
		MaxSkippedTicks: sim.DefMaxSkippedTicks,
	}

	if eo.interactive {
		r := sim.NewRunner(u, rng, uo, nil)
		v := view.NewConsoleUI()
		r.RegisterViewer(v)
		v.Start()
		r.Close()
	} else {
		stateCh := make(chan sim.Status, 10) //the buffered channel for the simulation status updates
		r := sim.NewRunner(u, rng, uo, stateCh)
		v := view.NewConsoleOut(logger)
		r.RegisterViewer(v)
		v.Start()
		r.Run()
		for st := range stateCh {
			if st.Mode == sim.ModeFinished {
				break
			}
		}
		r.Close()
		close(stateCh)
	}
}

func initLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", "toruslife").Logger()
}

func initOptions(logger zerolog.Logger) (config.Config, *envOptions) {
	eo := &envOptions{configPath: configPathFromArgs(os.Args[1:])}

	cfg := config.Default()
	if eo.configPath != "" {
		var err error
		cfg, err = config.Load(eo.configPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("configuration rejected")
		}
	}
	interval := time.Duration(cfg.Interval)

	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&eo.configPath, "c", "config", "Path to a TOML configuration file")
	flaggy.Int(&cfg.Width, "x", "width", "Width of the universe")
	flaggy.Int(&cfg.Height, "y", "height", "Height of the universe")
	flaggy.Duration(&interval, "i", "interval", "Simulation speed (interval between the generations) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&cfg.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps generations")
	flaggy.Int64(&cfg.Seed, "", "seed", "Seed for the random source, 0 picks one from the clock")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.random, "r", "random", "Settle the universe with random data")
	flaggy.String(&eo.template, "t", "template", "Settle the universe with the named template ["+strings.Join(templateNames(cfg.Templates), "|")+"]")

	flaggy.Parse()

	cfg.Interval = config.Duration(interval)
	if err := config.Validate(cfg); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	return cfg, eo
}

//configPathFromArgs pre-scans the arguments for the config flag
//the file must be loaded before the other flags are registered, since
//its values serve as their defaults (flags take precedence over the file)
func configPathFromArgs(args []string) string {
	for i, a := range args {
		if strings.HasPrefix(a, "--config=") {
			return strings.TrimPrefix(a, "--config=")
		}
		if strings.HasPrefix(a, "-c=") {
			return strings.TrimPrefix(a, "-c=")
		}
		if (a == "-c" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func buildUniverse(cfg config.Config, eo *envOptions, rng universe.Rand, logger zerolog.Logger) *universe.Universe {
	var fill universe.Fill
	switch {
	case eo.random:
		fill = universe.RandomFill(rng)
	case eo.template != "":
		fill = universe.DeadFill()
	default:
		fill = universe.DemoFill()
	}

	u := universe.New(cfg.Width, cfg.Height, fill)

	if !eo.random && eo.template != "" {
		tmpl, ok := config.Find(eo.template, cfg.Templates)
		if !ok {
			flaggy.ShowHelpAndExit(fmt.Sprintf("unknown template %q", eo.template))
		}
		if err := u.SetCells(tmpl.Cells); err != nil {
			logger.Fatal().Err(err).Str("template", tmpl.Name).Msg("template does not fit the universe")
		}
	}
	return u
}

func templateNames(fromFile []config.Template) []string {
	names := make([]string, 0, len(fromFile)+len(config.Builtin()))
	for _, t := range fromFile {
		names = append(names, t.Name)
	}
	for _, t := range config.Builtin() {
		names = append(names, t.Name)
	}
	return names
}
