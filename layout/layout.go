// Package layout is the Director: the top-level entry point that turns a
// score.Score into a fully positioned engraved.Score (spec.md §4.8). It
// holds the configuration of every sub-engine (HSpacing, Breaker, VSpacing,
// Orchestral, Collide, Engrave), calls their stateless functions, and
// performs one pure, synchronous,
// single-threaded pass per call — no global state, no goroutines, no I/O.
package layout

import (
	"errors"
	"fmt"

	"scoreforge.dev/breaker"
	"scoreforge.dev/engrave"
	"scoreforge.dev/engraved"
	"scoreforge.dev/hspacing"
	"scoreforge.dev/orchestral"
	"scoreforge.dev/score"
	"scoreforge.dev/units"
	"scoreforge.dev/vspacing"
)

// ErrInvalidContext is returned by Layout for a configuration error
// (spec.md §7): non-positive staff height or page dimensions, negative
// margins. It is the only error path Layout ever returns; every other
// recoverable condition becomes an engraved.Warning.
var ErrInvalidContext = errors.New("layout: invalid layout context")

// LetterSize returns the US Letter page size in points.
func LetterSize() (width, height float64) { return 612, 792 }

// A4Size returns the ISO A4 page size in points.
func A4Size() (width, height float64) { return 595.28, 841.89 }

// LayoutContext carries the page geometry a score is laid out onto.
type LayoutContext struct {
	PageWidth, PageHeight                       float64
	MarginTop, MarginBottom, MarginLeft, MarginRight float64
	// FirstPageTopOffset reserves extra top-margin space on page one for
	// title/composer credits (spec.md §4.8).
	FirstPageTopOffset float64
	StaffHeightPoints  float64
}

// DefaultLayoutContext returns a US Letter page with 1in margins and a
// 40pt staff height.
func DefaultLayoutContext() LayoutContext {
	w, h := LetterSize()
	return LayoutContext{
		PageWidth: w, PageHeight: h,
		MarginTop: 72, MarginBottom: 72, MarginLeft: 72, MarginRight: 72,
		FirstPageTopOffset: 60,
		StaffHeightPoints:  40,
	}
}

// Validate reports a configuration error, spec.md §7: "non-positive staff
// height, non-positive page dimensions, negative margins: fail fast".
func (c LayoutContext) Validate() error {
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("%w: page dimensions must be positive, got %vx%v", ErrInvalidContext, c.PageWidth, c.PageHeight)
	}
	if c.StaffHeightPoints <= 0 {
		return fmt.Errorf("%w: staff height must be positive, got %v", ErrInvalidContext, c.StaffHeightPoints)
	}
	if c.MarginTop < 0 || c.MarginBottom < 0 || c.MarginLeft < 0 || c.MarginRight < 0 {
		return fmt.Errorf("%w: margins must be non-negative", ErrInvalidContext)
	}
	if c.contentWidth() <= 0 || c.contentHeight() <= 0 {
		return fmt.Errorf("%w: margins leave no usable page area", ErrInvalidContext)
	}
	return nil
}

func (c LayoutContext) contentWidth() float64 { return c.PageWidth - c.MarginLeft - c.MarginRight }
func (c LayoutContext) contentHeight() float64 { return c.PageHeight - c.MarginTop - c.MarginBottom }

// LayoutConfiguration aggregates every sub-engine's tunables plus the
// Director's own (spec.md §4.8 / §5 "Configuration").
type LayoutConfiguration struct {
	HSpacing   hspacing.Configuration
	Orchestral orchestral.Configuration
	VSpacing   vspacing.Configuration
	Engrave    engrave.Configuration

	SystemBreak breaker.Costs
	PageBreak   breaker.Costs

	// MinimumMeasureWidth clamps every measure's natural width from below
	// (spec.md §4.8).
	MinimumMeasureWidth float64
	// SystemGap is the minimum horizontal gap the system breaker reserves
	// between measures when checking run feasibility.
	SystemGap float64
	// Mensurstrich turns on gap-only barlines between ungrouped staves
	// (spec.md §4.5), off by default (most scores want full barlines
	// everywhere groupings don't already cover).
	Mensurstrich bool
}

// DefaultConfiguration returns spec.md's suggested defaults, composed
// from each sub-engine's own Default*Configuration.
func DefaultConfiguration() LayoutConfiguration {
	return LayoutConfiguration{
		HSpacing:   hspacing.DefaultConfiguration(),
		Orchestral: orchestral.DefaultConfiguration(),
		VSpacing:   vspacing.DefaultConfiguration(),
		Engrave:    engrave.DefaultConfiguration(),
		SystemBreak: breaker.Costs{
			StretchPenalty: 1, CompressPenalty: 4,
			MinCount: 1, Bonus: 2,
		},
		PageBreak: breaker.Costs{
			StretchPenalty: 1, CompressPenalty: 2,
			MinCount: 1, Bonus: 2,
		},
		MinimumMeasureWidth: 40,
		SystemGap:           8,
	}
}

// Engine is a per-worker-owned layout instance (spec.md §5 "Shared-
// resource policy"): construct one per goroutine for concurrent layouts.
type Engine struct {
	cfg LayoutConfiguration
}

// NewEngine builds an Engine over the given configuration, copied by
// value so later mutation of cfg by the caller never affects the engine.
func NewEngine(cfg LayoutConfiguration) *Engine {
	return &Engine{cfg: cfg}
}

// Layout is the package-level convenience entry point, equivalent to
// NewEngine(cfg).Layout(sc, ctx).
func Layout(sc *score.Score, ctx LayoutContext, cfg LayoutConfiguration) (*engraved.Score, []engraved.Warning, error) {
	return NewEngine(cfg).Layout(sc, ctx)
}

// Layout implements spec.md §4.8's algorithm end to end: a single pure
// synchronous pass producing an immutable engraved.Score.
func (e *Engine) Layout(sc *score.Score, ctx LayoutContext) (*engraved.Score, []engraved.Warning, error) {
	if err := ctx.Validate(); err != nil {
		return nil, nil, err
	}
	scalingInfo := engraved.ScalingInfo{StaffHeightPoints: ctx.StaffHeightPoints}
	if sc == nil || len(sc.Parts) == 0 {
		return &engraved.Score{Scaling: scalingInfo}, nil, nil
	}

	scaling := units.ScalingContext{
		StaffHeightPoints:   units.Points(ctx.StaffHeightPoints),
		TenthsPerStaffSpace: units.TenthsPerStaffSpace,
		MillimetersPerSpace: 7,
	}
	if sc.Defaults.TenthsPerStaffSpace > 0 {
		scaling.TenthsPerStaffSpace = sc.Defaults.TenthsPerStaffSpace
	}
	if sc.Defaults.MillimetersPerStaffSpace > 0 {
		scaling.MillimetersPerSpace = sc.Defaults.MillimetersPerStaffSpace
	}

	var warnings []engraved.Warning

	measureCount := 0
	for _, p := range sc.Parts {
		if len(p.Measures) > measureCount {
			measureCount = len(p.Measures)
		}
	}
	if measureCount == 0 {
		return &engraved.Score{Scaling: scalingInfo}, nil, nil
	}

	divisionsPerPart := make([][]int, len(sc.Parts))
	for pi, p := range sc.Parts {
		divisionsPerPart[pi] = inheritedDivisions(p)
	}

	headWidth := e.cfg.Engrave.HSpacing.ClefWidth + e.cfg.Engrave.HSpacing.KeySignatureWidth + e.cfg.Engrave.HSpacing.TimeSignatureWidth
	naturalWidths := e.measureNaturalWidths(sc.Parts, divisionsPerPart, measureCount)

	content := ctx.contentWidth()
	systemCosts := e.cfg.SystemBreak
	systemCosts.Gap = e.cfg.SystemGap
	systemRuns := breaker.Break(naturalWidths, content, systemCosts)
	// Only the score's very first system keeps the prefix overhead for
	// width purposes (spec.md §4.7 item 6): later systems still show a
	// courtesy clef/key at their own head, but their justification math
	// does not reserve space for it.
	if adjusted, ok := breaker.AdjustForFirstSystem(systemRuns, naturalWidths, content, systemCosts, headWidth); ok {
		systemRuns = adjusted
	}
	for _, r := range systemRuns {
		if r.End-r.Start == 1 && naturalWidths[r.Start] > content {
			warnings = append(warnings, engraved.Warning{
				Kind:          engraved.WarningCapacityOverflow,
				Message:       fmt.Sprintf("measure at index %d exceeds system width and was placed alone", r.Start),
				MeasureNumber: measureNumberAt(sc.Parts, r.Start),
			})
		}
	}

	partInfos := make([]orchestral.PartInfo, len(sc.Parts))
	partSpacings := make([]vspacing.PartSpacing, len(sc.Parts))
	for pi, p := range sc.Parts {
		staffCount := p.StaffCount
		if staffCount < 1 {
			staffCount = 1
		}
		partInfos[pi] = orchestral.PartInfo{StaffCount: staffCount, IsKeyboardLike: p.IsKeyboardLike, Family: p.Family}
		partSpacings[pi] = vspacing.PartSpacing{StaffCount: staffCount}
	}
	groupings := orchestral.InferGroupings(partInfos, e.cfg.Orchestral)
	totalStaves := 0
	for _, p := range partInfos {
		totalStaves += p.StaffCount
	}
	barlineConns := orchestral.InferBarlineConnections(groupings, totalStaves, e.cfg.Mensurstrich)

	staffPlacements, systemHeight := vspacing.PlaceStaves(partSpacings, ctx.StaffHeightPoints, e.cfg.VSpacing)

	systemHeights := make([]float64, len(systemRuns))
	for i := range systemHeights {
		systemHeights[i] = systemHeight
	}

	firstCapacity := ctx.contentHeight() - ctx.FirstPageTopOffset
	pageCosts := e.cfg.PageBreak
	pageCosts.Gap = e.cfg.VSpacing.SystemDistance
	pageRuns := e.breakPages(systemHeights, firstCapacity, ctx.contentHeight(), pageCosts)

	staffStates := make([][]engrave.StaffInput, len(sc.Parts))
	for pi, p := range sc.Parts {
		staffCount := p.StaffCount
		if staffCount < 1 {
			staffCount = 1
		}
		states := make([]engrave.StaffInput, staffCount)
		for i := range states {
			states[i] = engrave.StaffInput{Clef: score.Clef{Sign: score.ClefG, Line: 2}}
		}
		staffStates[pi] = states
	}

	groupingsEngraved := buildGroupings(groupings, staffPlacements, e.cfg.VSpacing.StaffDistance)

	var pages []engraved.Page
	for pageIdx, pr := range pageRuns {
		pageNumber := pageIdx + 1
		topMargin := ctx.MarginTop
		usableHeight := ctx.contentHeight()
		if pageIdx == 0 {
			topMargin += ctx.FirstPageTopOffset
			usableHeight -= ctx.FirstPageTopOffset
		}
		page := engraved.Page{
			Number: pageNumber,
			Frame:  engraved.RectWH(engraved.Pt(0, 0), ctx.PageWidth, ctx.PageHeight),
		}
		if pageIdx == 0 {
			page.Credits = buildCredits(*sc, ctx)
		}

		pageSystemHeights := make([]vspacing.SystemHeight, pr.End-pr.Start)
		for i := range pageSystemHeights {
			pageSystemHeights[i] = vspacing.SystemHeight{Height: systemHeight}
		}
		pagePlacements := vspacing.PlaceSystems(pageSystemHeights, usableHeight, e.cfg.VSpacing)

		for i, si := 0, pr.Start; si < pr.End; i, si = i+1, si+1 {
			mr := systemRuns[si]
			y := topMargin + pagePlacements[i].Top
			prefix := 0.0
			if si == 0 {
				prefix = headWidth
			}
			system, warns := e.assembleSystem(sc, divisionsPerPart, mr, naturalWidths, prefix, staffPlacements, staffStates, groupingsEngraved, barlineConns, scaling, content, ctx.MarginLeft, y)
			warnings = append(warnings, warns...)
			page.Systems = append(page.Systems, system)
		}
		pages = append(pages, page)
	}

	return &engraved.Score{Scaling: scalingInfo, Pages: pages, Warnings: warnings}, warnings, nil
}

// breakPages implements spec.md §4.8's "For page one, extend the top
// margin by first_page_top_offset": the generic breaker is run twice
// rather than extended to support a position-dependent capacity, since
// only the first page's capacity ever differs from the rest (a
// documented simplification, see DESIGN.md).
func (e *Engine) breakPages(heights []float64, firstCapacity, restCapacity float64, costs breaker.Costs) []breaker.Run {
	if len(heights) == 0 {
		return nil
	}
	firstPass := breaker.Break(heights, firstCapacity, costs)
	if len(firstPass) == 0 {
		return nil
	}
	firstRun := firstPass[0]
	runs := []breaker.Run{firstRun}
	if firstRun.End >= len(heights) {
		return runs
	}
	remaining := heights[firstRun.End:]
	restRuns := breaker.Break(remaining, restCapacity, costs)
	for _, r := range restRuns {
		runs = append(runs, breaker.Run{Start: r.Start + firstRun.End, End: r.End + firstRun.End, Cost: r.Cost})
	}
	return runs
}

func measureNumberAt(parts []score.Part, idx int) int {
	for _, p := range parts {
		if idx < len(p.Measures) {
			return p.Measures[idx].Number
		}
	}
	return 0
}

// measureNaturalWidths computes each measure's natural width as the
// widest of any part's same-index measure (spec.md §4.8); the first-
// measure prefix is added separately, once the true system boundaries
// are known (spec.md §4.7 item 6 scopes it to the score's first system
// only).
func (e *Engine) measureNaturalWidths(parts []score.Part, divisionsPerPart [][]int, measureCount int) []float64 {
	widths := make([]float64, measureCount)
	for mi := 0; mi < measureCount; mi++ {
		max := 0.0
		for pi, p := range parts {
			if mi >= len(p.Measures) {
				continue
			}
			m := &p.Measures[mi]
			divisions := 1
			if mi < len(divisionsPerPart[pi]) {
				divisions = divisionsPerPart[pi][mi]
			}
			elems, ticks := buildSpacingElements(m, divisions)
			res := hspacing.Compute(elems, divisions, ticks, e.cfg.HSpacing)
			if res.NaturalWidth > max {
				max = res.NaturalWidth
			}
		}
		w := max
		if w < e.cfg.MinimumMeasureWidth {
			w = e.cfg.MinimumMeasureWidth
		}
		widths[mi] = w
	}
	return widths
}

// buildSpacingElements mirrors engrave's own element-to-spacing-element
// translation (spec.md §4.2/§4.7): the Director needs natural widths
// before any Engraver call exists to ask, so it repeats the same small
// pure translation rather than exporting engrave's private helper.
func buildSpacingElements(m *score.Measure, divisions int) ([]hspacing.Element, int) {
	var elems []hspacing.Element
	position := 0
	maxTick := 0
	for _, el := range m.Elements {
		switch el.Kind {
		case score.ElementForward:
			position += el.Ticks
		case score.ElementBackup:
			position -= el.Ticks
		case score.ElementNote:
			if el.Note.ChordTone {
				continue
			}
			accCount := 0
			if el.Note.HasAccidental {
				accCount = 1
			}
			kind := hspacing.KindNote
			if el.Note.Kind == score.Rest {
				kind = hspacing.KindRest
			}
			elems = append(elems, hspacing.Element{
				Position: position, Voice: el.Note.Voice, Staff: el.Note.Staff,
				Kind: kind, HasAccidental: el.Note.HasAccidental,
				DotCount: el.Note.Dots, AccidentalCount: accCount,
			})
			end := position + el.Note.DurationTicks
			if end > maxTick {
				maxTick = end
			}
			position += el.Note.DurationTicks
		}
	}
	return elems, maxTick
}

// inheritedDivisions carries forward each measure's active divisions
// value per MusicXML convention (spec.md §4.8): once set by an
// Attributes element, it applies to every following measure until
// overridden.
func inheritedDivisions(p score.Part) []int {
	out := make([]int, len(p.Measures))
	current := 1
	for i, m := range p.Measures {
		for _, el := range m.Elements {
			if el.Kind == score.ElementAttributes && el.Attributes.Divisions != nil {
				current = *el.Attributes.Divisions
			}
		}
		out[i] = current
	}
	return out
}

// applyMeasureAttributes mirrors engrave's own applyAttributes so the
// Director can carry clef/key/time state from one measure to the next;
// the Engraver receives a copy of this state and doesn't expose how it
// mutated internally, so the Director replicates the same scan.
func applyMeasureAttributes(states []engrave.StaffInput, m *score.Measure) []engrave.StaffInput {
	out := append([]engrave.StaffInput(nil), states...)
	for _, el := range m.Elements {
		if el.Kind != score.ElementAttributes {
			continue
		}
		for _, c := range el.Attributes.Clefs {
			if i := c.Staff - 1; i >= 0 && i < len(out) {
				out[i].Clef = c
			}
		}
		for _, k := range el.Attributes.Keys {
			if i := k.Staff - 1; i >= 0 && i < len(out) {
				out[i].Key = k
			}
		}
		for _, ti := range el.Attributes.Times {
			if i := ti.Staff - 1; i >= 0 && i < len(out) {
				out[i].Time = ti
			}
		}
	}
	return out
}

// justifyMeasureWidths implements spec.md §4.8's system justification
// formula: ratio = (system_width − total_prefix) / total_natural_content,
// width_i = prefix_i + content_i·ratio. naturals holds each measure's
// prefix-free natural content width; prefix is the first measure's
// leading clef/key/time overhead (zero for every other measure, and for
// systems that don't restate it). Only the stretch ratio applies to
// content — the prefix itself is carried through unscaled.
func justifyMeasureWidths(naturals []float64, prefix, target float64) []float64 {
	out := append([]float64(nil), naturals...)
	totalContent := 0.0
	for _, w := range naturals {
		totalContent += w
	}
	totalNatural := totalContent + prefix
	if totalContent <= 0 || target <= totalNatural {
		if len(out) > 0 {
			out[0] += prefix
		}
		return out
	}
	ratio := (target - prefix) / totalContent
	for i, w := range naturals {
		out[i] = w * ratio
	}
	if len(out) > 0 {
		out[0] += prefix
	}
	return out
}

func buildGroupings(groupings []orchestral.Grouping, placements []vspacing.StaffPlacement, staffDistance float64) []engraved.StaffGrouping {
	out := make([]engraved.StaffGrouping, 0, len(groupings))
	for _, g := range groupings {
		if g.FirstStaff < 0 || g.LastStaff >= len(placements) || g.FirstStaff > g.LastStaff {
			continue
		}
		out = append(out, engraved.StaffGrouping{
			Kind:      engraved.GroupingKind(g.Kind),
			TopY:      placements[g.FirstStaff].Top,
			BottomY:   placements[g.LastStaff].Bottom,
			XOffset:   g.XOffset,
			Thickness: g.Thickness,
		})
	}
	return out
}

func buildCredits(sc score.Score, ctx LayoutContext) []engraved.Credit {
	var credits []engraved.Credit
	title := sc.Title
	if title == "" {
		title = sc.Movement
	}
	if title != "" {
		credits = append(credits, engraved.Credit{
			Text: title, Position: engraved.Pt(ctx.PageWidth/2, ctx.MarginTop/2), FontSize: 18, Bold: true,
		})
	}
	if composer := sc.ComposerName(); composer != "" {
		credits = append(credits, engraved.Credit{
			Text: composer, Position: engraved.Pt(ctx.PageWidth-ctx.MarginRight, ctx.MarginTop/2+24), FontSize: 11,
		})
	}
	return credits
}
