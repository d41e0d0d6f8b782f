package game

// GridSize is the side length of every board.
const GridSize = 10

type CellState uint8

const (
	CellEmpty CellState = iota
	CellOccupied
	CellHit
	CellMiss
)

// Cell is one square of a board. ShipID is meaningful only for
// CellOccupied and CellHit.
type Cell struct {
	State  CellState
	ShipID int
}

type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Placement is the origin and direction of a single ship. The ship
// extends from (X, Y) rightwards or downwards; its length comes from
// the fleet slot it was submitted for.
type Placement struct {
	X           int
	Y           int
	Orientation Orientation
}

// ShotResult reports what a single shot did to a grid.
type ShotResult struct {
	AlreadyResolved bool
	Hit             bool
	ShipID          int
}

// Grid is one participant's board: ship occupancy plus the hit/miss
// history accumulated by the opponent's shots. After placement it is
// mutated only through ResolveShot.
type Grid struct {
	cells [GridSize][GridSize]Cell
}

func NewGrid() *Grid {
	return &Grid{}
}

// PlaceShips writes ship occupancy for one placement per declared
// length. The whole submission is validated against a staged copy and
// committed only if every ship fits, so a rejected call leaves the
// grid untouched.
func (g *Grid) PlaceShips(lengths []int, placements []Placement) error {
	if len(placements) != len(lengths) {
		return invalidPlacement("got %d placements for %d ships", len(placements), len(lengths))
	}

	staged := g.cells
	for i, p := range placements {
		shipID := i + 1
		dx, dy := 1, 0
		if p.Orientation == Vertical {
			dx, dy = 0, 1
		}

		for j := 0; j < lengths[i]; j++ {
			x, y := p.X+j*dx, p.Y+j*dy
			if x < 0 || x >= GridSize || y < 0 || y >= GridSize {
				return invalidPlacement("ship %d leaves the board at (%d,%d)", shipID, x, y)
			}
			if staged[y][x].State != CellEmpty {
				return invalidPlacement("ship %d overlaps another ship at (%d,%d)", shipID, x, y)
			}
			staged[y][x] = Cell{State: CellOccupied, ShipID: shipID}
		}
	}

	g.cells = staged
	return nil
}

// ResolveShot resolves a shot at (x, y). An occupied cell becomes a
// hit, an empty cell becomes a miss. A cell that was already resolved
// is reported as such and left alone.
func (g *Grid) ResolveShot(x, y int) ShotResult {
	cell := &g.cells[y][x]
	switch cell.State {
	case CellOccupied:
		cell.State = CellHit
		return ShotResult{Hit: true, ShipID: cell.ShipID}
	case CellEmpty:
		cell.State = CellMiss
		return ShotResult{}
	case CellHit:
		return ShotResult{AlreadyResolved: true, Hit: true, ShipID: cell.ShipID}
	default:
		return ShotResult{AlreadyResolved: true}
	}
}

// ShipSunk reports whether no cell of the given ship is still afloat.
func (g *Grid) ShipSunk(shipID int) bool {
	for y := range g.cells {
		for x := range g.cells[y] {
			c := g.cells[y][x]
			if c.State == CellOccupied && c.ShipID == shipID {
				return false
			}
		}
	}
	return true
}

// HasSurvivingShips reports whether any ship cell has not been hit yet.
func (g *Grid) HasSurvivingShips() bool {
	for y := range g.cells {
		for x := range g.cells[y] {
			if g.cells[y][x].State == CellOccupied {
				return true
			}
		}
	}
	return false
}

// Cell returns the current state of one square.
func (g *Grid) Cell(x, y int) Cell {
	return g.cells[y][x]
}
