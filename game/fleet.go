package game

import "sort"

// Fleet is the required ship inventory, as lengths.
var Fleet = []int{5, 4, 3, 3, 2}

type shipRun struct {
	minX, minY int
	maxX, maxY int
	count      int
}

// GridFromMatrix validates a submitted board and builds a Grid from
// it. The matrix is indexed [y][x]; a positive value marks a cell of
// that ship id, zero marks water. The submission is rejected unless
// every ship id forms a straight contiguous run and the run lengths
// are exactly the required fleet.
func GridFromMatrix(matrix [][]int) (*Grid, error) {
	if len(matrix) != GridSize {
		return nil, invalidPlacement("board has %d rows, want %d", len(matrix), GridSize)
	}

	runs := make(map[int]*shipRun)
	grid := NewGrid()
	for y, row := range matrix {
		if len(row) != GridSize {
			return nil, invalidPlacement("row %d has %d cells, want %d", y, len(row), GridSize)
		}
		for x, id := range row {
			if id < 0 {
				return nil, invalidPlacement("negative ship id %d at (%d,%d)", id, x, y)
			}
			if id == 0 {
				continue
			}
			grid.cells[y][x] = Cell{State: CellOccupied, ShipID: id}

			r, ok := runs[id]
			if !ok {
				runs[id] = &shipRun{minX: x, minY: y, maxX: x, maxY: y, count: 1}
				continue
			}
			if x < r.minX {
				r.minX = x
			}
			if x > r.maxX {
				r.maxX = x
			}
			if y < r.minY {
				r.minY = y
			}
			if y > r.maxY {
				r.maxY = y
			}
			r.count++
		}
	}

	lengths := make([]int, 0, len(runs))
	for id, r := range runs {
		width, height := r.maxX-r.minX+1, r.maxY-r.minY+1
		if width > 1 && height > 1 {
			return nil, invalidPlacement("ship %d is not a straight line", id)
		}
		// A straight run spans width*height cells; fewer means a gap.
		if r.count != width*height {
			return nil, invalidPlacement("ship %d has gaps", id)
		}
		lengths = append(lengths, r.count)
	}

	if !sameLengths(lengths, Fleet) {
		return nil, invalidPlacement("ship lengths %v do not match the required fleet %v", lengths, Fleet)
	}

	return grid, nil
}

func sameLengths(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	a := append([]int(nil), got...)
	b := append([]int(nil), want...)
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
