// Package orchestral infers staff groupings (braces, brackets) and
// connected-barline geometry for multi-part scores (spec.md §4.5).
package orchestral

import "scoreforge.dev/score"

// PartInfo is the subset of score.Part information Orchestral needs.
type PartInfo struct {
	StaffCount     int
	IsKeyboardLike bool
	Family         score.InstrumentFamily
}

// GroupingKind mirrors engraved.GroupingKind without importing the
// engraved package (Orchestral is a leaf relative to Engraver/Director
// but sits independent of the output tree's package, matching spec.md's
// dependency order — Orchestral depends only on the score model).
type GroupingKind int

const (
	GroupingNone GroupingKind = iota
	GroupingBracket
	GroupingBrace
	GroupingSquareBracket
)

// Grouping is one bracket/brace spanning a contiguous range of staves
// (indices into the flattened per-staff list the caller built from its
// parts), plus the geometry parameters needed to draw it once Y
// coordinates are known (spec.md §4.5's "(kind, top_y, bottom_y,
// x_offset, thickness)" — the Y values are filled in by the caller once
// VSpacing has placed the staves, since Orchestral itself is agnostic of
// vertical position).
type Grouping struct {
	Kind            GroupingKind
	FirstStaff, LastStaff int // inclusive, indices into the flattened staff list
	XOffset         float64
	Thickness       float64
}

// BarlineKind is spec.md §4.5's full/mensurstrich distinction.
type BarlineKind int

const (
	BarlineFull BarlineKind = iota
	BarlineMensurstrich
)

// BarlineConnection spans a contiguous range of staves with one barline
// treatment.
type BarlineConnection struct {
	StartStaff, EndStaff int // inclusive
	Kind                 BarlineKind
}

// Configuration carries Orchestral's geometry tunables.
type Configuration struct {
	BracketXOffset   float64
	BraceXOffset     float64
	BracketThickness float64
	BraceThickness   float64
}

func DefaultConfiguration() Configuration {
	return Configuration{
		BracketXOffset:   -8,
		BraceXOffset:     -12,
		BracketThickness: 2,
		BraceThickness:   4,
	}
}

// InferGroupings produces one Grouping per part that needs a brace or
// bracket (spec.md §4.5: multi-staff/keyboard parts get a brace,
// single-staff orchestral instruments get a bracket), plus one outer
// square-bracket Grouping per run of consecutive parts sharing a family.
//
// parts[i].StaffCount gives the number of staves belonging to part i; the
// first-staff index of part i is the running sum of the StaffCounts of
// parts[0:i].
func InferGroupings(parts []PartInfo, cfg Configuration) []Grouping {
	var groupings []Grouping
	staffStart := 0
	for _, p := range parts {
		first := staffStart
		last := staffStart + p.StaffCount - 1
		switch {
		case p.StaffCount > 1 || p.IsKeyboardLike:
			groupings = append(groupings, Grouping{
				Kind: GroupingBrace, FirstStaff: first, LastStaff: last,
				XOffset: cfg.BraceXOffset, Thickness: cfg.BraceThickness,
			})
		case isOrchestralFamily(p.Family):
			groupings = append(groupings, Grouping{
				Kind: GroupingBracket, FirstStaff: first, LastStaff: last,
				XOffset: cfg.BracketXOffset, Thickness: cfg.BracketThickness,
			})
		}
		staffStart += p.StaffCount
	}
	groupings = append(groupings, outerFamilyGroupings(parts, cfg)...)
	return groupings
}

func isOrchestralFamily(f score.InstrumentFamily) bool {
	switch f {
	case score.FamilyWoodwind, score.FamilyBrass, score.FamilyPercussion, score.FamilyString:
		return true
	default:
		return false
	}
}

// outerFamilyGroupings brackets each maximal run of two-or-more
// consecutive parts sharing a family — a lone instrument of a family
// gets no outer bracket, only its own (if any).
func outerFamilyGroupings(parts []PartInfo, cfg Configuration) []Grouping {
	var out []Grouping
	runStartStaff := 0 // first staff index of the family run currently open
	runStartIdx := 0    // first part index of that run
	staffStart := 0     // first staff index of the part about to be processed
	flush := func(endIdx, endStaff int) {
		if endIdx-runStartIdx > 1 {
			out = append(out, Grouping{
				Kind: GroupingSquareBracket, FirstStaff: runStartStaff, LastStaff: endStaff,
				XOffset: cfg.BracketXOffset * 2, Thickness: cfg.BracketThickness,
			})
		}
	}
	for i, p := range parts {
		if i > 0 && parts[i-1].Family != p.Family {
			flush(i, staffStart-1)
			runStartIdx = i
			runStartStaff = staffStart
		}
		staffStart += p.StaffCount
	}
	if len(parts) > 0 {
		flush(len(parts), staffStart-1)
	}
	return out
}

// InferBarlineConnections produces one full-height BarlineConnection per
// Grouping's staff span (braces and brackets draw one tall barline
// spanning all their staves), plus, when the caller asks for early-music
// style barlines via mensurstrich, one mensurstrich connection for every
// pair of adjacent staves that are not both covered by a grouping.
func InferBarlineConnections(groupings []Grouping, totalStaves int, mensurstrich bool) []BarlineConnection {
	covered := make([]bool, totalStaves)
	var conns []BarlineConnection
	for _, g := range groupings {
		if g.LastStaff <= g.FirstStaff {
			continue
		}
		conns = append(conns, BarlineConnection{StartStaff: g.FirstStaff, EndStaff: g.LastStaff, Kind: BarlineFull})
		for i := g.FirstStaff; i <= g.LastStaff; i++ {
			if i >= 0 && i < totalStaves {
				covered[i] = true
			}
		}
	}
	if !mensurstrich {
		return conns
	}
	for i := 0; i < totalStaves-1; i++ {
		if !covered[i] || !covered[i+1] {
			conns = append(conns, BarlineConnection{StartStaff: i, EndStaff: i + 1, Kind: BarlineMensurstrich})
		}
	}
	return conns
}

// CanonicalSort reorders part indices into the standard orchestral
// ordering {woodwinds, brass, percussion, keyboards, voices, strings,
// other}, stable by input order within a family.
func CanonicalSort(parts []PartInfo) []int {
	order := map[score.InstrumentFamily]int{
		score.FamilyWoodwind:   0,
		score.FamilyBrass:      1,
		score.FamilyPercussion: 2,
		score.FamilyKeyboard:   3,
		score.FamilyVoice:      4,
		score.FamilyString:     5,
	}
	idx := make([]int, len(parts))
	for i := range idx {
		idx[i] = i
	}
	rank := func(i int) int {
		f := parts[i].Family
		if r, ok := order[f]; ok {
			return r
		}
		return len(order)
	}
	// Stable insertion sort: keeps input order within a family and the
	// pack's small part counts make O(n^2) irrelevant.
	for i := 1; i < len(idx); i++ {
		v := idx[i]
		j := i - 1
		for j >= 0 && rank(idx[j]) > rank(v) {
			idx[j+1] = idx[j]
			j--
		}
		idx[j+1] = v
	}
	return idx
}
