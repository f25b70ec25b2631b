package sim

import (
	"sync"
	"time"

	"toruslife/src/universe"
)

//RunMode is the runner's state at a concrete moment
type RunMode int

const (
	ModeManual RunMode = iota
	ModeStep
	ModeRun
	ModeFinished
)

//default options
const (
	DefInterval        = time.Millisecond * 100
	DefMaxSteps        = 1000
	DefMaxSkippedTicks = 5
)

//Options represents the runner's configurable options
type Options struct {
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
}

//Status represents the status of the simulation at a concrete moment
type Status struct {
	Generation int
	Mode       RunMode
	LiveCells  int
	StepTime   time.Duration
}

//Viewer is the interface to any viewer - the object who can display simulation data or control the runner
type Viewer interface {
	Refresh()
	Register(r *Runner)
	Start()
}

var DefaultOptions = Options{
	Interval:        DefInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
}

//Runner drives a Universe: frame pacing, run/step/stop/clear commands,
//status reporting and viewer notification.
//Every mutation of the universe is funneled through a single control
//goroutine, so the engine itself stays synchronous and unlocked.
type Runner struct {
	opts Options
	u    *universe.Universe
	rng  universe.Rand

	state struct {
		Status
		sync.Mutex
	}
	prev      []universe.Cell //pre-tick snapshot, reused between steps
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan bool
}

//NewRunner creates the Runner around an already seeded universe
//rng is used by the Randomize command, stateCh may be nil
func NewRunner(u *universe.Universe, rng universe.Rand, o *Options, stateCh chan Status) *Runner {
	if o == nil {
		o = &DefaultOptions
	}
	r := Runner{
		opts:      *o,
		u:         u,
		rng:       rng,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		stateCh:   stateCh,
	}
	r.state.LiveCells = u.LiveCells()
	r.refreshView()
	go r.mainLoop()
	return &r
}

//RegisterViewer registers the viewer - the runner will call the viewer when the state is changed
func (r *Runner) RegisterViewer(v Viewer) {
	r.views = append(r.views, v)
	v.Register(r)
}

//Universe returns the driven universe
//viewers read its dimensions and cell buffer during Refresh
func (r *Runner) Universe() *universe.Universe {
	return r.u
}

//StateCh returns the channel with the simulation status updates
func (r *Runner) StateCh() chan Status {
	return r.stateCh
}

//Status returns the current simulation status
func (r *Runner) Status() Status {
	r.state.Lock()
	defer r.state.Unlock()
	return r.state.Status
}

//Options returns the current runner configuration
func (r *Runner) Options() Options {
	return r.opts
}

//Run starts the simulation, returns immediately
func (r *Runner) Run() {
	r.controlCh <- r.run
}

//Stop stops the simulation, returns immediately
//the Status struct will be written to the stateCh on finish
func (r *Runner) Stop() {
	r.controlCh <- r.stop
}

//Step does one generation advance, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (r *Runner) Step() {
	r.controlCh <- r.step
}

//Clear kills all cells and resets all counters, returns immediately
//the Status struct will be written to the stateCh on finish
func (r *Runner) Clear() {
	r.controlCh <- r.clear
}

//Randomize clears the universe and repopulates it from the random source
//ignored while the simulation is running
func (r *Runner) Randomize() {
	mode := r.Status().Mode
	if mode == ModeManual || mode == ModeFinished {
		r.controlCh <- r.clear
		r.controlCh <- func() {
			r.u.Randomize(r.rng)
			r.state.Lock()
			r.state.LiveCells = r.u.LiveCells()
			r.state.Unlock()
			r.refreshView()
		}
	}
}

//ToggleCell flips one cell, executed on the control goroutine
//so it cannot race a running simulation
func (r *Runner) ToggleCell(row int, column int) error {
	errCh := make(chan error, 1)
	r.controlCh <- func() {
		err := r.u.ToggleCell(row, column)
		if err == nil {
			r.state.Lock()
			r.state.LiveCells = r.u.LiveCells()
			r.state.Unlock()
			r.refreshView()
		}
		errCh <- err
	}
	return <-errCh
}

//Seed sets the addressed [row, column] cells to Alive, executed on the control goroutine
func (r *Runner) Seed(vc [][]int) error {
	errCh := make(chan error, 1)
	r.controlCh <- func() {
		err := r.u.SetCells(vc)
		if err == nil {
			r.state.Lock()
			r.state.LiveCells = r.u.LiveCells()
			r.state.Unlock()
			r.refreshView()
		}
		errCh <- err
	}
	return <-errCh
}

//Close stops the main loop and closes the control channels, returns immediately
func (r *Runner) Close() {
	r.closeCh <- true
}

//mainLoop - the main cycle, should start as a goroutine
//waits for a command and executes it
func (r *Runner) mainLoop() {
	var c = false
	for !c {
		select {
		case cmd := <-r.controlCh:
			cmd()
		case c = <-r.closeCh:
		}
	}
	close(r.closeCh)
	close(r.controlCh)
}

//switchMode switches the runner to the RunMode
//also writes the new status to the stateCh to signal upper control software
func (r *Runner) switchMode(to RunMode) {
	r.state.Lock()
	r.state.Mode = to
	st := r.state.Status
	r.state.Unlock()
	if r.stateCh != nil {
		r.stateCh <- st
	}
}

//run starts the simulation cycle
//the cycle stops on Stop() or when the boundary conditions are reached
func (r *Runner) run() {
	go func() {
		r.switchMode(ModeRun)
		skipped := 0
		done := make(chan bool)
		defer close(done)
		for {
			mode := r.Status().Mode
			if mode != ModeRun && mode != ModeStep {
				break
			}
			if skipped > r.opts.MaxSkippedTicks {
				r.switchMode(ModeFinished)
				break
			}
			//skip the tick if the previous step is still being calculated
			if mode != ModeStep {
				skipped = 0
				r.controlCh <- func() {
					r.step()
					done <- true
				}
				<-done
			} else {
				skipped++
			}
			if r.opts.Interval > 0 {
				time.Sleep(r.opts.Interval)
			}
		}
	}()
}

//stop stops the simulation cycle
func (r *Runner) stop() {
	if r.Status().Mode == ModeRun {
		r.switchMode(ModeManual)
	}
}

//step advances the universe by one generation
//the simulation finishes on MaxSteps, on extinction and on a stable generation
func (r *Runner) step() {
	finished := false
	prevMode := r.Status().Mode
	r.state.Lock()
	r.state.Generation++
	r.state.Unlock()
	defer func() {
		if finished {
			r.switchMode(ModeFinished)
		} else {
			r.switchMode(prevMode)
		}
		r.refreshView()
	}()

	if r.opts.MaxSteps != 0 && r.Status().Generation >= r.opts.MaxSteps {
		finished = true
		return
	}
	r.switchMode(ModeStep)

	start := time.Now()
	r.prev = append(r.prev[:0], r.u.Cells()...)
	r.u.Tick()
	live := r.u.LiveCells()
	changed := false
	for i, c := range r.u.Cells() {
		if c != r.prev[i] {
			changed = true
			break
		}
	}
	r.state.Lock()
	r.state.LiveCells = live
	r.state.StepTime = time.Since(start)
	r.state.Unlock()
	if live == 0 || !changed {
		finished = true
	}
}

//clear clears the universe and resets all counters
func (r *Runner) clear() {
	r.u.Reset()
	r.state.Lock()
	r.state.Generation = 0
	r.state.LiveCells = 0
	r.state.Unlock()
	r.switchMode(ModeManual)
	r.refreshView()
}

//refreshView calls the Refresh event for all registered viewers
func (r *Runner) refreshView() {
	for _, v := range r.views {
		v.Refresh()
	}
}
