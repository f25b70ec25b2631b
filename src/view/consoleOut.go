package view

import (
	"time"

	"github.com/rs/zerolog"

	"toruslife/src/sim"
)

//ConsoleOut is the headless viewer: reports progress and the final
//summary through the structured logger instead of drawing the grid
type ConsoleOut struct {
	r         *sim.Runner
	log       zerolog.Logger
	startTime time.Time
}

func NewConsoleOut(log zerolog.Logger) *ConsoleOut {
	return &ConsoleOut{log: log}
}

func (c *ConsoleOut) Register(r *sim.Runner) {
	c.r = r
	o := r.Options()
	u := r.Universe()
	c.log.Info().
		Int("width", u.Width()).
		Int("height", u.Height()).
		Dur("interval", o.Interval).
		Int("max_steps", o.MaxSteps).
		Msg("running configuration")
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	c.log.Info().Msg("simulation started")
}

func (c *ConsoleOut) Refresh() {
	st := c.r.Status()
	switch st.Mode {
	case sim.ModeFinished:
		c.log.Info().
			Int("last_generation", st.Generation).
			Int("live_cells", st.LiveCells).
			Dur("total_time", time.Since(c.startTime).Round(time.Millisecond)).
			Msg("finished")
	case sim.ModeRun:
		if st.Generation%10 == 0 {
			c.log.Debug().
				Int("generation", st.Generation).
				Int("live_cells", st.LiveCells).
				Dur("step_time", st.StepTime.Round(time.Microsecond)).
				Msg("generations done")
		}
	}
}
