package universe

import "strings"

const (
	aliveGlyph = '◼'
	deadGlyph  = '◻'
)

//Render produces a text dump of the current generation, one line per row
func (u *Universe) Render() string {
	var b strings.Builder
	//the glyphs are 3 bytes each in UTF-8
	b.Grow(u.height * (u.width*3 + 1))
	for row := 0; row < u.height; row++ {
		for column := 0; column < u.width; column++ {
			if u.cells[u.index(row, column)] == Alive {
				b.WriteRune(aliveGlyph)
			} else {
				b.WriteRune(deadGlyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
