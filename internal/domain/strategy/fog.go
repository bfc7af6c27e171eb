package strategy

import "math/rand"

// RevealRadius marks every tile within Chebyshev distance radius of
// center as explored. The square is clipped to the grid bounds; revealing
// an already-revealed tile is a no-op, so the call is idempotent.
func RevealRadius(explored [][]int, center Location, radius int) {
	if radius < 0 || len(explored) == 0 {
		return
	}
	height := len(explored)
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		if y < 0 || y >= height {
			continue
		}
		row := explored[y]
		for x := center.X - radius; x <= center.X+radius; x++ {
			if x < 0 || x >= len(row) {
				continue
			}
			row[x] = 1
		}
	}
}

// RandomUnexploredTile picks a uniformly random tile among all unexplored
// cells. pick receives the candidate count and returns an index in
// [0, n); a nil pick uses math/rand. With no unexplored cells left the
// geometric center of the grid is returned as a deterministic fallback.
func RandomUnexploredTile(explored [][]int, pick func(n int) int) Location {
	if pick == nil {
		pick = rand.Intn
	}
	var candidates []Location
	width := 0
	for y, row := range explored {
		if len(row) > width {
			width = len(row)
		}
		for x, v := range row {
			if v == 0 {
				candidates = append(candidates, Location{X: x, Y: y})
			}
		}
	}
	if len(candidates) == 0 {
		return Location{X: width / 2, Y: len(explored) / 2}
	}
	return candidates[pick(len(candidates))]
}
