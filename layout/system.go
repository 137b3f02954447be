package layout

import (
	"scoreforge.dev/breaker"
	"scoreforge.dev/engrave"
	"scoreforge.dev/engraved"
	"scoreforge.dev/orchestral"
	"scoreforge.dev/score"
	"scoreforge.dev/units"
	"scoreforge.dev/vspacing"
)

// assembleSystem implements spec.md §4.8's "assemble systems by walking
// the chosen break ranges": compute justified widths, invoke the
// Engraver per part per measure, remap each part's locally-indexed
// staves onto the system's flattened staff list, merge per-part measure
// output into one combined engraved.Measure per measure index, and
// gather the orchestral-derived connected barlines.
func (e *Engine) assembleSystem(
	sc *score.Score,
	divisionsPerPart [][]int,
	mr breaker.Run,
	naturalWidths []float64,
	prefix float64,
	placements []vspacing.StaffPlacement,
	staffStates [][]engrave.StaffInput,
	groupings []engraved.StaffGrouping,
	barlineConns []orchestral.BarlineConnection,
	scaling units.ScalingContext,
	contentWidth, marginLeft, topY float64,
) (engraved.System, []engraved.Warning) {
	var warnings []engraved.Warning

	naturals := append([]float64(nil), naturalWidths[mr.Start:mr.End]...)
	justified := justifyMeasureWidths(naturals, prefix, contentWidth)

	staffStart := make([]int, len(sc.Parts))
	start := 0
	for pi, p := range sc.Parts {
		staffStart[pi] = start
		n := p.StaffCount
		if n < 1 {
			n = 1
		}
		start += n
	}

	system := engraved.System{
		Frame:        engraved.RectWH(engraved.Pt(marginLeft, topY), contentWidth, placementsHeight(placements)),
		ContentWidth: contentWidth,
		Groupings:    groupings,
		FirstMeasure: measureNumberAt(sc.Parts, mr.Start),
		LastMeasure:  measureNumberAt(sc.Parts, mr.End-1),
	}

	staffIndexOf := map[[2]int]int{} // {partIndex, staffIndex} -> index into system.Staves
	for pi, p := range sc.Parts {
		staffCount := p.StaffCount
		if staffCount < 1 {
			staffCount = 1
		}
		for si := 0; si < staffCount; si++ {
			pl := findPlacement(placements, pi, si+1)
			staffIndexOf[[2]int{pi, si + 1}] = len(system.Staves)
			system.Staves = append(system.Staves, engraved.Staff{
				PartIndex: pi, StaffIndex: si + 1,
				Frame:             engraved.RectWH(engraved.Pt(marginLeft, topY+pl.Top), contentWidth, pl.Bottom-pl.Top),
				CenterY:           topY + pl.Center,
				LineCount:         5,
				HeightStaffSpaces: 4,
			})
		}
	}

	runningX := marginLeft
	for localIdx, mi := 0, mr.Start; mi < mr.End; localIdx, mi = localIdx+1, mi+1 {
		width := justified[localIdx]
		combined := engraved.Measure{Number: measureNumberAt(sc.Parts, mi)}
		var barlineStyle engraved.BarlineStyleEngraved
		haveStyle := false

		for pi, p := range sc.Parts {
			if mi >= len(p.Measures) {
				continue
			}
			m := &p.Measures[mi]
			divisions := 1
			if mi < len(divisionsPerPart[pi]) {
				divisions = divisionsPerPart[pi][mi]
			}
			staffCount := p.StaffCount
			if staffCount < 1 {
				staffCount = 1
			}
			// The measure's own clef/key/time apply from its head onward.
			states := applyMeasureAttributes(staffStates[pi], m)
			staves := make([]engrave.StaffInput, staffCount)
			for si := 0; si < staffCount; si++ {
				pl := findPlacement(placements, pi, si+1)
				st := states[si]
				st.CenterY = topY + pl.Center
				staves[si] = st
			}

			in := engrave.Input{
				Measure: m, Divisions: divisions,
				IsFirstInSystem: mi == mr.Start, IsFirstInScore: mi == 0,
				Staves: staves, Scaling: scaling,
				TargetWidth: &width, LeftX: runningX,
			}
			out, warns := engrave.EngraveMeasure(in, e.cfg.Engrave, nil)
			for i := range warns {
				warns[i].PartID = p.ID
			}
			warnings = append(warnings, warns...)

			for i := range out.Elements {
				el := &out.Elements[i]
				localStaff := el.Staff
				el.Staff += staffStart[pi]
				if !haveStyle && el.Kind == engraved.ElemBarline && el.Barline != nil {
					barlineStyle = el.Barline.Style
					haveStyle = true
				}
				if mi == mr.Start {
					if idx, ok := staffIndexOf[[2]int{pi, localStaff + 1}]; ok {
						switch el.Kind {
						case engraved.ElemClef:
							system.Staves[idx].HeadClef = el.Clef
						case engraved.ElemKeySignature:
							system.Staves[idx].HeadKey = el.Key
						case engraved.ElemTimeSignature:
							system.Staves[idx].HeadTime = el.Time
						}
					}
				}
			}
			for i := range out.BeamGroups {
				out.BeamGroups[i].Staff += staffStart[pi]
			}
			combined.Elements = append(combined.Elements, out.Elements...)
			combined.BeamGroups = append(combined.BeamGroups, out.BeamGroups...)
			if pi == 0 {
				combined.Frame = out.Frame
				combined.LeftBarlineX = out.LeftBarlineX
				combined.RightBarlineX = out.RightBarlineX
				combined.Slots = out.Slots
			}

			staffStates[pi] = states
		}

		if !haveStyle {
			barlineStyle = engraved.BarlineStyleRegular
		}
		resolveDirectionCollisions(&combined)
		system.Barlines = append(system.Barlines, buildSystemBarlines(barlineConns, placements, topY, runningX+width, barlineStyle)...)
		system.Measures = append(system.Measures, combined)
		runningX += width
	}

	return system, warnings
}

func placementsHeight(placements []vspacing.StaffPlacement) float64 {
	if len(placements) == 0 {
		return 0
	}
	return placements[len(placements)-1].Bottom - placements[0].Top
}

func findPlacement(placements []vspacing.StaffPlacement, partIndex, staffIndex int) vspacing.StaffPlacement {
	for _, p := range placements {
		if p.PartIndex == partIndex && p.StaffIndex == staffIndex {
			return p
		}
	}
	return vspacing.StaffPlacement{}
}

func buildSystemBarlines(conns []orchestral.BarlineConnection, placements []vspacing.StaffPlacement, topY, x float64, style engraved.BarlineStyleEngraved) []engraved.SystemBarline {
	out := make([]engraved.SystemBarline, 0, len(conns))
	for _, c := range conns {
		if c.StartStaff < 0 || c.EndStaff >= len(placements) || c.StartStaff > c.EndStaff {
			continue
		}
		out = append(out, engraved.SystemBarline{
			X: x, TopY: topY + placements[c.StartStaff].Top, BottomY: topY + placements[c.EndStaff].Bottom,
			Style: style, Mensurstrich: c.Kind == orchestral.BarlineMensurstrich,
		})
	}
	return out
}
