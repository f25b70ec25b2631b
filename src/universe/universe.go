package universe

import (
	"errors"
	"fmt"
)

//Cell is the state of a single grid position
//one byte per cell, so the whole buffer can be handed to a renderer as a dense array
type Cell byte

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//ErrOutOfRange reports a row/column argument outside the grid
var ErrOutOfRange = errors.New("cell out of range")

//Universe is a Game of Life grid with torus topology
//rows and columns wrap around, so every cell has exactly eight neighbours
//and there is no edge case for neighbour lookups.
//Cells are stored row-major in a flat buffer (index = row*width + column).
//A Universe is not safe for concurrent use; the caller serializes access.
type Universe struct {
	width  int
	height int
	cells  []Cell
	next   []Cell //scratch generation, swapped in by Tick
}

//New creates a width x height universe with every cell set by the fill policy
//zero dimensions are valid and produce an empty buffer
func New(width int, height int, fill Fill) *Universe {
	u := &Universe{}
	u.alloc(width, height)
	if fill != nil {
		for i := range u.cells {
			u.cells[i] = fill(i)
		}
	}
	return u
}

//alloc reallocates both generation buffers, all cells Dead
func (u *Universe) alloc(width int, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	u.width = width
	u.height = height
	u.cells = make([]Cell, width*height)
	u.next = make([]Cell, width*height)
}

//index returns the flat buffer position for row, column
func (u *Universe) index(row int, column int) int {
	return row*u.width + column
}

//checkCoord validates that row, column addresses a cell inside the grid
func (u *Universe) checkCoord(row int, column int) error {
	if row < 0 || column < 0 || row >= u.height || column >= u.width {
		return fmt.Errorf("%w: row %v, column %v in a %vx%v universe", ErrOutOfRange, row, column, u.width, u.height)
	}
	return nil
}

//liveNeighbourCount counts the live cells in the Moore neighbourhood of row, column
//deltas are height-1 and width-1 rather than -1, so the modulo wrap
//holds for unsigned index types as well
func (u *Universe) liveNeighbourCount(row int, column int) int {
	count := 0
	for _, dr := range [3]int{u.height - 1, 0, 1} {
		for _, dc := range [3]int{u.width - 1, 0, 1} {
			//skip my position
			if dr == 0 && dc == 0 {
				continue
			}
			r := (row + dr) % u.height
			c := (column + dc) % u.width
			count += int(u.cells[u.index(r, c)])
		}
	}
	return count
}

//Tick computes the next generation and swaps it in
//all neighbour counts are taken against the pre-tick generation, so the
//new states are written to a separate buffer and never observed mid-step
func (u *Universe) Tick() {
	for row := 0; row < u.height; row++ {
		for column := 0; column < u.width; column++ {
			idx := u.index(row, column)
			state := u.cells[idx]
			switch n := u.liveNeighbourCount(row, column); {
			case state == Alive && n < 2:
				state = Dead //underpopulation
			case state == Alive && n > 3:
				state = Dead //overpopulation
			case state == Dead && n == 3:
				state = Alive //reproduction
			}
			u.next[idx] = state
		}
	}
	u.cells, u.next = u.next, u.cells
}

//SetWidth resizes the universe to the new width
//the resize is destructive: the grid starts over with every cell Dead
func (u *Universe) SetWidth(width int) {
	u.alloc(width, u.height)
}

//SetHeight resizes the universe to the new height
//the resize is destructive: the grid starts over with every cell Dead
func (u *Universe) SetHeight(height int) {
	u.alloc(u.width, height)
}

//ToggleCell inverses the cell state at row, column
func (u *Universe) ToggleCell(row int, column int) error {
	if err := u.checkCoord(row, column); err != nil {
		return err
	}
	u.cells[u.index(row, column)] ^= 1
	return nil
}

//SetCells sets every addressed cell to Alive, other cells keep their state
//vc is a sequence of [row, column] pairs
//all coordinates are validated up front: on error nothing is mutated
func (u *Universe) SetCells(vc [][]int) error {
	for _, p := range vc {
		if len(p) != 2 {
			return fmt.Errorf("%w: %v is not a [row, column] pair", ErrOutOfRange, p)
		}
		if err := u.checkCoord(p[0], p[1]); err != nil {
			return err
		}
	}
	for _, p := range vc {
		u.cells[u.index(p[0], p[1])] = Alive
	}
	return nil
}

//Randomize sets every cell independently from the injected random source
//one draw per cell, a value below 0.5 makes the cell Alive
func (u *Universe) Randomize(rng Rand) {
	for i := range u.cells {
		if rng.Float64() < 0.5 {
			u.cells[i] = Alive
		} else {
			u.cells[i] = Dead
		}
	}
}

//Reset kills all cells
func (u *Universe) Reset() {
	for i := range u.cells {
		u.cells[i] = Dead
	}
}

//Width returns the number of columns
func (u *Universe) Width() int {
	return u.width
}

//Height returns the number of rows
func (u *Universe) Height() int {
	return u.height
}

//Cells exposes the live generation buffer, row-major, one byte per cell
//the slice is the universe's own storage: callers must treat it as read-only
//and must not hold it across a resize
func (u *Universe) Cells() []Cell {
	return u.cells
}

//LiveCells calculates the count of live cells
func (u *Universe) LiveCells() int {
	live := 0
	for _, c := range u.cells {
		live += int(c)
	}
	return live
}
