// Package vspacing lays out staves within one system and systems within a
// page, and resolves inter-staff collisions caused by satellite elements
// such as articulations, dynamics and ledger lines extending beyond a
// staff's own band (spec.md §4.4).
package vspacing

import "math"

// PartSpacing describes one part's staff layout: how many staves it has,
// and an optional override of the configured staff-to-staff distance for
// staves within this one part (e.g. a piano's two staves are usually
// closer together than the distance to the next instrument).
type PartSpacing struct {
	StaffCount            int
	StaffDistanceOverride *float64 // points; nil means "use config default"
}

// Configuration carries VSpacing's tunables.
type Configuration struct {
	StaffDistance float64 // default distance between staves within one part
	PartDistance  float64 // distance between the last staff of one part and the first of the next
	SystemTopPadding    float64
	SystemBottomPadding float64
	SystemDistance      float64 // minimum gap between two systems on a page
	MinClearance        float64 // minimum clearance enforced by ResolveCollisions
}

// DefaultConfiguration returns reasonable defaults in points, for a staff
// height around 40pt.
func DefaultConfiguration() Configuration {
	return Configuration{
		StaffDistance:       60,
		PartDistance:        80,
		SystemTopPadding:    20,
		SystemBottomPadding: 20,
		SystemDistance:      40,
		MinClearance:        10,
	}
}

// StaffPlacement is one staff's vertical placement within a system:
// Top/Bottom/Center are all Y-coordinates relative to the system's own
// top.
type StaffPlacement struct {
	PartIndex  int
	StaffIndex int // 1-based within the part
	Top, Bottom, Center float64
}

// PlaceStaves walks parts top-to-bottom and returns each staff's Y
// placement plus the system's total natural height (spec.md §4.4 item 1
// and 2). staffHeight is the height, in points, of a single staff's 5
// lines.
func PlaceStaves(parts []PartSpacing, staffHeight float64, cfg Configuration) ([]StaffPlacement, float64) {
	var placements []StaffPlacement
	y := 0.0
	first := true
	for pi, part := range parts {
		staffDist := cfg.StaffDistance
		if part.StaffDistanceOverride != nil {
			staffDist = *part.StaffDistanceOverride
		}
		for si := 1; si <= part.StaffCount; si++ {
			if !first {
				if si == 1 {
					y += cfg.PartDistance
				} else {
					y += staffDist
				}
			}
			first = false
			top := y
			bottom := y + staffHeight
			placements = append(placements, StaffPlacement{
				PartIndex:  pi,
				StaffIndex: si,
				Top:        top,
				Bottom:     bottom,
				Center:     (top + bottom) / 2,
			})
			y = bottom
		}
	}
	natural := 0.0
	if len(placements) > 0 {
		natural = placements[len(placements)-1].Bottom - placements[0].Top
	}
	return placements, natural + cfg.SystemTopPadding + cfg.SystemBottomPadding
}

// StaffExtent is a staff's own extremes plus any satellite elements
// (articulations, dynamics, ledger lines) that extend above/below its
// nominal band, used by ResolveCollisions.
type StaffExtent struct {
	UpperBound float64 // smallest (topmost) Y occupied by this staff's content
	LowerBound float64 // largest (bottommost) Y occupied by this staff's content
}

// ResolveCollisions walks placements top-to-bottom and, whenever a
// staff's satellite content would overlap the next staff's, shifts that
// staff — and every staff below it — down by the overlap (spec.md §4.4
// item 4). placements and extents must be the same length and in Y
// order; ResolveCollisions returns a new slice, leaving the input
// untouched.
func ResolveCollisions(placements []StaffPlacement, extents []StaffExtent, minClearance float64) []StaffPlacement {
	out := make([]StaffPlacement, len(placements))
	copy(out, placements)
	if len(out) == 0 {
		return out
	}
	ext := make([]StaffExtent, len(extents))
	copy(ext, extents)
	for i := 1; i < len(out); i++ {
		prevLower := ext[i-1].LowerBound
		curUpper := ext[i].UpperBound
		overlap := prevLower + minClearance - curUpper
		if overlap > 0 {
			shiftDown(out, ext, i, overlap)
		}
	}
	return out
}

func shiftDown(placements []StaffPlacement, extents []StaffExtent, from int, amount float64) {
	for i := from; i < len(placements); i++ {
		placements[i].Top += amount
		placements[i].Bottom += amount
		placements[i].Center += amount
		extents[i].UpperBound += amount
		extents[i].LowerBound += amount
	}
}

// SystemHeight is one system's known height, used by PlaceSystems.
type SystemHeight struct {
	Height float64
}

// SystemPlacement is one system's Y placement on its page, relative to
// the page's own top (after margins).
type SystemPlacement struct {
	Top, Bottom float64
}

// PlaceSystems distributes systems of known heights across a page of
// usable height pageHeight: the gap between consecutive systems is at
// least cfg.SystemDistance, and — when the page has spare room — systems
// are spread so the inter-system gap equalises to
// max(available/(count-1), system_distance) (spec.md §4.4 item 3).
func PlaceSystems(heights []SystemHeight, pageHeight float64, cfg Configuration) []SystemPlacement {
	if len(heights) == 0 {
		return nil
	}
	totalHeight := 0.0
	for _, h := range heights {
		totalHeight += h.Height
	}
	gap := cfg.SystemDistance
	if len(heights) > 1 {
		available := pageHeight - totalHeight
		eq := available / float64(len(heights)-1)
		gap = math.Max(eq, cfg.SystemDistance)
	}
	placements := make([]SystemPlacement, len(heights))
	y := 0.0
	for i, h := range heights {
		if i > 0 {
			y += gap
		}
		placements[i] = SystemPlacement{Top: y, Bottom: y + h.Height}
		y += h.Height
	}
	return placements
}
