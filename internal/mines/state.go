package mines

func (e *Engine) Settings() Settings {
	return e.settings
}

func (e *Engine) Status() Status {
	return e.status
}

// Generation identifies the current game; it changes on every NewGame.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// Started reports whether the mines have been placed.
func (e *Engine) Started() bool {
	return e.started
}

func (e *Engine) MineCount() int {
	return e.mineCount
}

func (e *Engine) RevealedCount() int {
	return e.revealedCount
}

func (e *Engine) FlaggedCount() int {
	return e.flaggedCount
}

// Value is the number of mines around (x, y), or -1 when out of bounds.
func (e *Engine) Value(x, y int) int {
	if !e.board.inBounds(x, y) {
		return -1
	}
	return int(e.board.values[e.board.index(x, y)])
}

func (e *Engine) IsMine(x, y int) bool {
	return e.board.inBounds(x, y) && e.board.mines[e.board.index(x, y)]
}

func (e *Engine) IsRevealed(x, y int) bool {
	return e.board.inBounds(x, y) && e.board.marks[e.board.index(x, y)] == revealed
}

func (e *Engine) IsFlagged(x, y int) bool {
	return e.board.inBounds(x, y) && e.board.marks[e.board.index(x, y)] == flagged
}

// Mines lists the mine coordinates in row-major order.
func (e *Engine) Mines() []Point {
	var ps []Point
	for i, m := range e.board.mines {
		if m {
			ps = append(ps, e.board.point(i))
		}
	}
	return ps
}

// Grid is the player's view of the board.
func (e *Engine) Grid() Grid {
	b := &e.board
	g := make(Grid, len(b.marks))
	for i, m := range b.marks {
		switch {
		case m == flagged:
			g[i] = Flagged
		case m == covered:
			g[i] = Unknown
		case i == e.exploded:
			g[i] = ExplodedMine
		case b.mines[i]:
			g[i] = RevealedMine
		default:
			g[i] = CellState(b.values[i])
		}
	}
	return g
}

func (e *Engine) String() string {
	if e.settings.Width == 0 {
		return ""
	}
	return e.Grid().ToString(e.settings.Width)
}

type Snapshot struct {
	Generation uint64   `json:"generation"`
	Settings   Settings `json:"settings"`
	Status     Status   `json:"status"`
	Started    bool     `json:"started"`
	Elapsed    int      `json:"elapsed"`
	Rate       float64  `json:"rate"`
	Flags      int      `json:"flags"`
	Grid       Grid     `json:"grid"`
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Generation: e.generation,
		Settings:   e.settings,
		Status:     e.status,
		Started:    e.started,
		Elapsed:    e.elapsed,
		Rate:       e.Rate(),
		Flags:      e.flaggedCount,
		Grid:       e.Grid(),
	}
}
