package strategy

import (
	"reflect"
	"testing"
)

func newGrid(width, height int) [][]int {
	grid := make([][]int, height)
	for y := range grid {
		grid[y] = make([]int, width)
	}
	return grid
}

func TestRevealRadius_ChebyshevSquareClipped(t *testing.T) {
	grid := newGrid(5, 5)
	RevealRadius(grid, Location{X: 0, Y: 0}, 1)

	want := newGrid(5, 5)
	want[0][0], want[0][1] = 1, 1
	want[1][0], want[1][1] = 1, 1
	if !reflect.DeepEqual(grid, want) {
		t.Fatalf("unexpected grid after clipped reveal: %v", grid)
	}
}

func TestRevealRadius_Idempotent(t *testing.T) {
	once := newGrid(6, 4)
	RevealRadius(once, Location{X: 3, Y: 2}, 2)

	twice := newGrid(6, 4)
	RevealRadius(twice, Location{X: 3, Y: 2}, 2)
	RevealRadius(twice, Location{X: 3, Y: 2}, 2)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("revealing twice changed the grid: %v vs %v", once, twice)
	}
}

func TestRevealRadius_NegativeRadiusIsNoOp(t *testing.T) {
	grid := newGrid(3, 3)
	RevealRadius(grid, Location{X: 1, Y: 1}, -1)
	if !reflect.DeepEqual(grid, newGrid(3, 3)) {
		t.Fatalf("negative radius mutated grid: %v", grid)
	}
}

func TestRandomUnexploredTile_PicksAmongUnexplored(t *testing.T) {
	grid := newGrid(3, 2)
	grid[0][0], grid[0][1], grid[0][2] = 1, 1, 1
	grid[1][0] = 1
	// Unexplored candidates in scan order: (1,1), (2,1).
	got := RandomUnexploredTile(grid, func(n int) int {
		if n != 2 {
			t.Fatalf("expected 2 candidates, got %d", n)
		}
		return 1
	})
	if got != (Location{X: 2, Y: 1}) {
		t.Fatalf("unexpected tile: %+v", got)
	}
}

func TestRandomUnexploredTile_FallsBackToCenter(t *testing.T) {
	grid := newGrid(10, 10)
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = 1
		}
	}
	got := RandomUnexploredTile(grid, func(int) int {
		t.Fatal("pick must not be called with no candidates")
		return 0
	})
	if got != (Location{X: 5, Y: 5}) {
		t.Fatalf("expected geometric center, got %+v", got)
	}
}
