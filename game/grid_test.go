package game

import "testing"

func TestPlaceShipsRejectsCountMismatch(t *testing.T) {
	g := NewGrid()
	err := g.PlaceShips([]int{2, 3}, []Placement{{X: 0, Y: 0}})
	if err == nil {
		t.Fatalf("expected placement with missing ships to be rejected")
	}
}

func TestPlaceShipsRejectsOutOfBounds(t *testing.T) {
	g := NewGrid()
	err := g.PlaceShips([]int{3}, []Placement{{X: 8, Y: 0, Orientation: Horizontal}})
	if err == nil {
		t.Fatalf("expected ship running off the board to be rejected")
	}
	assertGridEmpty(t, g)
}

func TestPlaceShipsRejectsOverlap(t *testing.T) {
	g := NewGrid()
	err := g.PlaceShips([]int{3, 3}, []Placement{
		{X: 0, Y: 0, Orientation: Horizontal},
		{X: 1, Y: 0, Orientation: Vertical},
	})
	if err == nil {
		t.Fatalf("expected overlapping ships to be rejected")
	}
	assertGridEmpty(t, g)
}

func TestPlaceShipsCommitsOnlyOnSuccess(t *testing.T) {
	g := NewGrid()
	if err := g.PlaceShips([]int{2}, []Placement{{X: 0, Y: 0, Orientation: Horizontal}}); err != nil {
		t.Fatalf("valid placement rejected: %v", err)
	}
	if got := g.Cell(0, 0); got.State != CellOccupied || got.ShipID != 1 {
		t.Fatalf("expected (0,0) occupied by ship 1, got %+v", got)
	}
	if got := g.Cell(1, 0); got.State != CellOccupied {
		t.Fatalf("expected (1,0) occupied, got %+v", got)
	}
	if got := g.Cell(2, 0); got.State != CellEmpty {
		t.Fatalf("expected (2,0) empty, got %+v", got)
	}
}

func TestResolveShotTransitions(t *testing.T) {
	g := NewGrid()
	if err := g.PlaceShips([]int{2}, []Placement{{X: 4, Y: 4, Orientation: Vertical}}); err != nil {
		t.Fatalf("placement failed: %v", err)
	}

	hit := g.ResolveShot(4, 4)
	if hit.AlreadyResolved || !hit.Hit || hit.ShipID != 1 {
		t.Fatalf("expected fresh hit on ship 1, got %+v", hit)
	}

	miss := g.ResolveShot(0, 0)
	if miss.AlreadyResolved || miss.Hit {
		t.Fatalf("expected fresh miss, got %+v", miss)
	}

	again := g.ResolveShot(4, 4)
	if !again.AlreadyResolved || !again.Hit {
		t.Fatalf("expected resolved hit to be reported as already resolved, got %+v", again)
	}
	if g.Cell(4, 4).State != CellHit {
		t.Fatalf("re-fire mutated the cell: %+v", g.Cell(4, 4))
	}

	missAgain := g.ResolveShot(0, 0)
	if !missAgain.AlreadyResolved || missAgain.Hit {
		t.Fatalf("expected resolved miss to be reported as already resolved, got %+v", missAgain)
	}
	if g.Cell(0, 0).State != CellMiss {
		t.Fatalf("re-fire mutated the cell: %+v", g.Cell(0, 0))
	}
}

func TestShipSunkAndSurvivors(t *testing.T) {
	g := NewGrid()
	if err := g.PlaceShips([]int{2, 2}, []Placement{
		{X: 0, Y: 0, Orientation: Horizontal},
		{X: 0, Y: 5, Orientation: Horizontal},
	}); err != nil {
		t.Fatalf("placement failed: %v", err)
	}

	g.ResolveShot(0, 0)
	if g.ShipSunk(1) {
		t.Fatalf("ship 1 reported sunk with a cell still afloat")
	}
	g.ResolveShot(1, 0)
	if !g.ShipSunk(1) {
		t.Fatalf("ship 1 not reported sunk after its last cell was hit")
	}
	if !g.HasSurvivingShips() {
		t.Fatalf("ship 2 should still be afloat")
	}

	g.ResolveShot(0, 5)
	g.ResolveShot(1, 5)
	if g.HasSurvivingShips() {
		t.Fatalf("expected no survivors after sinking both ships")
	}
}

func assertGridEmpty(t *testing.T, g *Grid) {
	t.Helper()
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if g.Cell(x, y).State != CellEmpty {
				t.Fatalf("expected empty grid after rejected placement, found %+v at (%d,%d)", g.Cell(x, y), x, y)
			}
		}
	}
}
