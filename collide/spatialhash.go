package collide

// SpatialHash is a uniform grid accelerator for batch rectangle
// collision queries (spec.md §4.6 "Spatial hash (optional accelerator)").
// Insert puts a rectangle's index into every grid cell it overlaps;
// Query unions the candidates across all cells a query rectangle
// overlaps and filters by real intersection, reducing an O(n²) batch
// collision pass to roughly O(n) for well-distributed input. Grounded
// on the candidate-window-then-filter shape of the teacher's
// engrave.findPath grid search (see DESIGN.md).
type SpatialHash struct {
	cellSize float64
	cells    map[cellKey][]int
	rects    []Rect
}

// Rect is the minimal rectangle shape SpatialHash stores: an
// axis-aligned box (the caller's own index is passed to Insert beside
// it), kept independent of
// engraved.Rect so the hash can be reused for any indexable rectangle
// set.
type Rect struct {
	X, Y, W, H float64
}

type cellKey struct{ cx, cy int }

// NewSpatialHash creates an empty grid with the given cell size (in the
// same units as the inserted rectangles). A cell size roughly matching
// the typical obstacle size gives the best candidate-to-hit ratio.
func NewSpatialHash(cellSize float64) *SpatialHash {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialHash{cellSize: cellSize, cells: map[cellKey][]int{}}
}

func (h *SpatialHash) cellRange(r Rect) (x0, y0, x1, y1 int) {
	x0 = int(floorDiv(r.X, h.cellSize))
	y0 = int(floorDiv(r.Y, h.cellSize))
	x1 = int(floorDiv(r.X+r.W, h.cellSize))
	y1 = int(floorDiv(r.Y+r.H, h.cellSize))
	return
}

func floorDiv(v, size float64) float64 {
	q := v / size
	if q < 0 {
		return q - 1
	}
	return q
}

// Insert adds rect, identified by idx, to every grid cell it overlaps.
// idx is returned by Query so the caller can map back to its own data.
func (h *SpatialHash) Insert(idx int, rect Rect) {
	for len(h.rects) <= idx {
		h.rects = append(h.rects, Rect{})
	}
	h.rects[idx] = rect
	x0, y0, x1, y1 := h.cellRange(rect)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			k := cellKey{cx, cy}
			h.cells[k] = append(h.cells[k], idx)
		}
	}
}

// Query returns the indices of every inserted rectangle that truly
// intersects query (candidates are gathered from overlapped cells, then
// filtered by a real rectangle test, deduplicated).
func (h *SpatialHash) Query(query Rect) []int {
	x0, y0, x1, y1 := h.cellRange(query)
	seen := map[int]bool{}
	var hits []int
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, idx := range h.cells[cellKey{cx, cy}] {
				if seen[idx] {
					continue
				}
				seen[idx] = true
				if rectsIntersect(h.rects[idx], query) {
					hits = append(hits, idx)
				}
			}
		}
	}
	return hits
}

func rectsIntersect(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}
