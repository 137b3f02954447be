package orchestral

import (
	"testing"

	"scoreforge.dev/score"
)

func TestKeyboardPartGetsBrace(t *testing.T) {
	// Scenario S5: a single two-staff keyboard part gets one brace and no
	// family bracket.
	parts := []PartInfo{{StaffCount: 2, IsKeyboardLike: true, Family: score.FamilyKeyboard}}
	groupings := InferGroupings(parts, DefaultConfiguration())
	if len(groupings) != 1 {
		t.Fatalf("got %d groupings, want 1: %+v", len(groupings), groupings)
	}
	g := groupings[0]
	if g.Kind != GroupingBrace {
		t.Errorf("kind = %v, want GroupingBrace", g.Kind)
	}
	if g.FirstStaff != 0 || g.LastStaff != 1 {
		t.Errorf("span = [%d,%d], want [0,1]", g.FirstStaff, g.LastStaff)
	}
}

func TestSingleStaffOrchestralPartGetsBracket(t *testing.T) {
	parts := []PartInfo{{StaffCount: 1, Family: score.FamilyWoodwind}}
	groupings := InferGroupings(parts, DefaultConfiguration())
	if len(groupings) != 1 || groupings[0].Kind != GroupingBracket {
		t.Fatalf("groupings = %+v, want one GroupingBracket", groupings)
	}
}

func TestNoGroupingForLoneOtherFamily(t *testing.T) {
	parts := []PartInfo{{StaffCount: 1, Family: score.FamilyOther}}
	groupings := InferGroupings(parts, DefaultConfiguration())
	if len(groupings) != 0 {
		t.Errorf("groupings = %+v, want none", groupings)
	}
}

func TestOuterFamilyBracketSpansMultipleParts(t *testing.T) {
	parts := []PartInfo{
		{StaffCount: 1, Family: score.FamilyWoodwind},
		{StaffCount: 1, Family: score.FamilyWoodwind},
		{StaffCount: 1, Family: score.FamilyBrass},
	}
	groupings := InferGroupings(parts, DefaultConfiguration())
	var outer *Grouping
	for i := range groupings {
		if groupings[i].Kind == GroupingSquareBracket {
			outer = &groupings[i]
		}
	}
	if outer == nil {
		t.Fatalf("expected a square-bracket grouping, got %+v", groupings)
	}
	if outer.FirstStaff != 0 || outer.LastStaff != 1 {
		t.Errorf("outer bracket span = [%d,%d], want [0,1]", outer.FirstStaff, outer.LastStaff)
	}
}

func TestNoOuterBracketForSingletonFamily(t *testing.T) {
	parts := []PartInfo{
		{StaffCount: 1, Family: score.FamilyWoodwind},
		{StaffCount: 1, Family: score.FamilyBrass},
	}
	groupings := InferGroupings(parts, DefaultConfiguration())
	for _, g := range groupings {
		if g.Kind == GroupingSquareBracket {
			t.Errorf("did not expect a square bracket for singleton families: %+v", groupings)
		}
	}
}

func TestInferBarlineConnectionsFullForGroupedStaves(t *testing.T) {
	groupings := []Grouping{{Kind: GroupingBrace, FirstStaff: 0, LastStaff: 1}}
	conns := InferBarlineConnections(groupings, 2, false)
	if len(conns) != 1 {
		t.Fatalf("got %d connections, want 1", len(conns))
	}
	if conns[0].Kind != BarlineFull || conns[0].StartStaff != 0 || conns[0].EndStaff != 1 {
		t.Errorf("connection = %+v", conns[0])
	}
}

func TestInferBarlineConnectionsMensurstrichBetweenUngroupedParts(t *testing.T) {
	// Two single-staff parts from different families, no grouping at all:
	// requesting mensurstrich connections should bridge the gap.
	conns := InferBarlineConnections(nil, 2, true)
	if len(conns) != 1 || conns[0].Kind != BarlineMensurstrich {
		t.Fatalf("conns = %+v, want one mensurstrich connection", conns)
	}
}

func TestInferBarlineConnectionsNoMensurstrichWhenNotRequested(t *testing.T) {
	conns := InferBarlineConnections(nil, 3, false)
	if len(conns) != 0 {
		t.Errorf("conns = %+v, want none", conns)
	}
}

func TestCanonicalSortOrdersByFamily(t *testing.T) {
	parts := []PartInfo{
		{Family: score.FamilyString},
		{Family: score.FamilyWoodwind},
		{Family: score.FamilyBrass},
	}
	order := CanonicalSort(parts)
	want := []int{1, 2, 0} // woodwind, brass, string
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d (full: %v)", i, order[i], want[i], order)
		}
	}
}

func TestCanonicalSortStableWithinFamily(t *testing.T) {
	parts := []PartInfo{
		{Family: score.FamilyBrass},
		{Family: score.FamilyBrass},
	}
	order := CanonicalSort(parts)
	if order[0] != 0 || order[1] != 1 {
		t.Errorf("order = %v, want stable [0,1]", order)
	}
}
