package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toruslife/src/universe"
)

type constRand struct{ v float64 }

func (c constRand) Float64() float64 { return c.v }

func testOptions() *Options {
	return &Options{
		Interval:        0,
		MaxSteps:        1000,
		MaxSkippedTicks: DefMaxSkippedTicks,
	}
}

//waitForMode drains stateCh until the wanted mode shows up
func waitForMode(t *testing.T, stateCh chan Status, mode RunMode) Status {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case st := <-stateCh:
			if st.Mode == mode {
				return st
			}
		case <-deadline:
			t.Fatalf("no status with mode %v arrived", mode)
		}
	}
}

func newTestRunner(t *testing.T, u *universe.Universe, o *Options) (*Runner, chan Status) {
	t.Helper()
	stateCh := make(chan Status, 10)
	r := NewRunner(u, constRand{v: 0.1}, o, stateCh)
	t.Cleanup(r.Close)
	return r, stateCh
}

func TestRunnerStep(t *testing.T) {
	u := universe.New(5, 5, universe.DeadFill())
	require.NoError(t, u.SetCells([][]int{{2, 1}, {2, 2}, {2, 3}}))
	r, stateCh := newTestRunner(t, u, testOptions())

	r.Step()
	st := waitForMode(t, stateCh, ModeManual)

	assert.Equal(t, 1, st.Generation)
	assert.Equal(t, 3, st.LiveCells, "a blinker keeps 3 live cells")
}

func TestRunnerFinishesOnStablePattern(t *testing.T) {
	u := universe.New(6, 6, universe.DeadFill())
	require.NoError(t, u.SetCells([][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}))
	r, stateCh := newTestRunner(t, u, testOptions())

	r.Run()
	st := waitForMode(t, stateCh, ModeFinished)

	assert.Equal(t, 1, st.Generation, "a still life finishes after the first unchanged generation")
	assert.Equal(t, 4, st.LiveCells)
}

func TestRunnerFinishesOnExtinction(t *testing.T) {
	u := universe.New(4, 4, universe.DeadFill())
	require.NoError(t, u.SetCells([][]int{{1, 1}}))
	r, stateCh := newTestRunner(t, u, testOptions())

	r.Run()
	st := waitForMode(t, stateCh, ModeFinished)

	assert.Zero(t, st.LiveCells, "a lonely cell dies of underpopulation")
}

func TestRunnerStepToExtinctionFinishes(t *testing.T) {
	u := universe.New(4, 4, universe.DeadFill())
	r, stateCh := newTestRunner(t, u, testOptions())

	r.Step()
	st := waitForMode(t, stateCh, ModeFinished)

	assert.Equal(t, 1, st.Generation)
	assert.Zero(t, st.LiveCells, "a step into an empty generation ends the simulation")
}

func TestRunnerStopsAtMaxSteps(t *testing.T) {
	//a blinker never stabilizes, only the step limit ends the run
	u := universe.New(6, 6, universe.DeadFill())
	require.NoError(t, u.SetCells([][]int{{2, 1}, {2, 2}, {2, 3}}))
	o := testOptions()
	o.MaxSteps = 5
	r, stateCh := newTestRunner(t, u, o)

	r.Run()
	st := waitForMode(t, stateCh, ModeFinished)

	assert.Equal(t, 5, st.Generation)
}

func TestRunnerClear(t *testing.T) {
	u := universe.New(5, 5, universe.DemoFill())
	r, stateCh := newTestRunner(t, u, testOptions())

	r.Step()
	waitForMode(t, stateCh, ModeManual)

	r.Clear()
	st := waitForMode(t, stateCh, ModeManual)

	assert.Zero(t, st.Generation)
	assert.Zero(t, st.LiveCells)
	assert.Zero(t, u.LiveCells())
}

func TestRunnerToggleCell(t *testing.T) {
	u := universe.New(4, 4, universe.DeadFill())
	r, _ := newTestRunner(t, u, testOptions())

	require.NoError(t, r.ToggleCell(1, 2))
	assert.Equal(t, 1, u.LiveCells())
	assert.Equal(t, 1, r.Status().LiveCells)

	err := r.ToggleCell(10, 10)
	assert.ErrorIs(t, err, universe.ErrOutOfRange)
	assert.Equal(t, 1, u.LiveCells())
}

func TestRunnerSeed(t *testing.T) {
	u := universe.New(6, 6, universe.DeadFill())
	r, _ := newTestRunner(t, u, testOptions())

	require.NoError(t, r.Seed([][]int{{0, 0}, {1, 1}}))
	assert.Equal(t, 2, r.Status().LiveCells)

	err := r.Seed([][]int{{100, 100}})
	assert.ErrorIs(t, err, universe.ErrOutOfRange)
	assert.Equal(t, 2, u.LiveCells())
}

func TestRunnerRandomize(t *testing.T) {
	u := universe.New(4, 4, universe.DeadFill())
	r, stateCh := newTestRunner(t, u, testOptions())

	r.Randomize()
	waitForMode(t, stateCh, ModeManual) //the clear preceding the repopulation
	//an empty seed is a synchronous no-op, it fences the queued randomize
	require.NoError(t, r.Seed(nil))

	assert.Equal(t, 16, u.LiveCells(), "a constant draw below 0.5 fills every cell")
	assert.Equal(t, 16, r.Status().LiveCells)
}

type countingViewer struct {
	registered *Runner
	refreshes  int
}

func (c *countingViewer) Refresh()           { c.refreshes++ }
func (c *countingViewer) Register(r *Runner) { c.registered = r }
func (c *countingViewer) Start()             {}

func TestRunnerNotifiesViewers(t *testing.T) {
	//the pattern must survive the step: an extinct universe finishes
	//instead of returning to manual mode
	u := universe.New(5, 5, universe.DeadFill())
	require.NoError(t, u.SetCells([][]int{{2, 1}, {2, 2}, {2, 3}}))
	r, stateCh := newTestRunner(t, u, testOptions())

	v := &countingViewer{}
	r.RegisterViewer(v)
	assert.Same(t, r, v.registered)

	r.Step()
	waitForMode(t, stateCh, ModeManual)
	//the refresh runs after the status is published, the synchronous
	//no-op seed fences it before the counter is read
	require.NoError(t, r.Seed(nil))
	assert.GreaterOrEqual(t, v.refreshes, 2)
}
