package mines

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

// CellState is what the player can see of a cell.
type CellState int8

const (
	Unknown      CellState = -2
	Flagged      CellState = -1
	ExplodedMine CellState = 65
	RevealedMine CellState = 67
	// 0-8 for an opened cell with that many mined neighbours
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return " "
	case s == Flagged:
		return "*"
	case s == ExplodedMine:
		return "X"
	case s == RevealedMine:
		return "M"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

type mark int8

const (
	covered mark = iota
	flagged
	revealed
)

// board holds the hidden layout and the player's marks, both indexed by
// y*width+x.
type board struct {
	width, height int
	values        []int8 // mined neighbours, excluding the cell itself
	mines         []bool
	marks         []mark
}

func newBoard(width, height int) board {
	n := width * height
	return board{
		width:  width,
		height: height,
		values: make([]int8, n),
		mines:  make([]bool, n),
		marks:  make([]mark, n),
	}
}

func (b *board) inBounds(x, y int) bool {
	return 0 <= x && x < b.width && 0 <= y && y < b.height
}

func (b *board) index(x, y int) int {
	return y*b.width + x
}

func (b *board) point(i int) Point {
	return Point{i % b.width, i / b.width}
}

// neighbours yields the in-bounds indices of the 8-neighbourhood of i.
func (b *board) neighbours(i int) iter.Seq[int] {
	x, y := i%b.width, i/b.width
	return func(yield func(int) bool) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 || !b.inBounds(x+dx, y+dy) {
					continue
				}
				if !yield(b.index(x+dx, y+dy)) {
					return
				}
			}
		}
	}
}

// zone yields i and its neighbours.
func (b *board) zone(i int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if !yield(i) {
			return
		}
		for j := range b.neighbours(i) {
			if !yield(j) {
				return
			}
		}
	}
}
