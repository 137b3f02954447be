package engraved

// GlyphName is a symbolic glyph identity carried downstream to the
// renderer, following a SMuFL-style naming convention (spec.md §6):
// advances and exact outlines are the renderer's problem, resolved
// through its own font service. The engine only needs a
// GlyphMetrics.Advance(name) query, and falls back to configured
// conservative widths when no such query is available.
type GlyphName string

const (
	GlyphNoteheadBlack    GlyphName = "noteheadBlack"
	GlyphNoteheadHalf     GlyphName = "noteheadHalf"
	GlyphNoteheadWhole    GlyphName = "noteheadWhole"
	GlyphNoteheadX        GlyphName = "noteheadX"
	GlyphNoteheadDiamond  GlyphName = "noteheadDiamond"
	GlyphNoteheadSlash    GlyphName = "noteheadSlash"
	GlyphGClef            GlyphName = "gClef"
	GlyphFClef            GlyphName = "fClef"
	GlyphCClef            GlyphName = "cClef"
	GlyphUnpitchedClef     GlyphName = "unpitchedPercussionClef1"
	GlyphTimeSigCommon    GlyphName = "timeSigCommon"
	GlyphTimeSigCut       GlyphName = "timeSigCutCommon"
	GlyphRestWhole        GlyphName = "restWhole"
	GlyphRestHalf         GlyphName = "restHalf"
	GlyphRestQuarter      GlyphName = "restQuarter"
	GlyphRest8th          GlyphName = "rest8th"
	GlyphRest16th         GlyphName = "rest16th"
	GlyphRest32nd         GlyphName = "rest32nd"
	GlyphRest64th         GlyphName = "rest64th"
	GlyphAugmentationDot  GlyphName = "augmentationDot"
	GlyphAccidentalSharp  GlyphName = "accidentalSharp"
	GlyphAccidentalFlat   GlyphName = "accidentalFlat"
	GlyphAccidentalNatural GlyphName = "accidentalNatural"
	GlyphAccidentalDoubleSharp GlyphName = "accidentalDoubleSharp"
	GlyphAccidentalDoubleFlat  GlyphName = "accidentalDoubleFlat"
)

// TimeSigDigit returns the digit glyph for d, one of '0'..'9'.
func TimeSigDigit(d int) GlyphName {
	return GlyphName("timeSig" + string(rune('0'+d)))
}

// FlagGlyph returns the flag glyph for a given flag count (1..4) and stem
// direction.
func FlagGlyph(flags int, up bool) GlyphName {
	dir := "Up"
	if !up {
		dir = "Down"
	}
	switch flags {
	case 1:
		return GlyphName("flag8th" + dir)
	case 2:
		return GlyphName("flag16th" + dir)
	case 3:
		return GlyphName("flag32nd" + dir)
	case 4:
		return GlyphName("flag64th" + dir)
	default:
		return ""
	}
}

// Warning records a recoverable condition downgraded from spec.md §7's
// error taxonomy instead of surfacing a hard failure.
type Warning struct {
	Kind    WarningKind
	Message string
	// MeasureNumber and PartID identify where the warning originated,
	// when applicable; zero value means score-wide.
	MeasureNumber int
	PartID        string
}

type WarningKind int

const (
	WarningModelInconsistency WarningKind = iota
	WarningCapacityOverflow
	WarningBeamAnomaly
)

// Score is the root of the produced output tree: everything the renderer
// needs, in absolute page coordinates, with no back-reference to the
// mutable source score beyond opaque note identifiers.
type Score struct {
	Scaling  ScalingInfo
	Pages    []Page
	Warnings []Warning
}

// ScalingInfo mirrors units.ScalingContext without importing the units
// package's newtypes into the output tree (the tree only ever needs the
// plain point value).
type ScalingInfo struct {
	StaffHeightPoints float64
}

// Page is one page of the engraved score.
type Page struct {
	Number  int
	Frame   Rect
	Credits []Credit
	Systems []System
}

// Credit is a page-level text element such as a title or composer
// attribution, positioned in the page margin.
type Credit struct {
	Text     string
	Position Point
	// FontSize is in points; 0 means "use the renderer's default".
	FontSize float64
	Bold     bool
}

// System is one horizontal line of music, positioned relative to its
// page.
type System struct {
	Frame Rect
	// ContentWidth is the justified width systems were stretched to,
	// used by invariant 6 (sum of justified measure widths equals
	// system content width).
	ContentWidth float64
	Staves       []Staff
	Measures     []Measure
	Barlines     []SystemBarline
	Groupings    []StaffGrouping
	// FirstMeasure/LastMeasure give the measure-number range this
	// system covers.
	FirstMeasure int
	LastMeasure  int
}

// Staff is one staff within a system.
type Staff struct {
	PartIndex  int
	StaffIndex int // 1-based staff number within the part
	Frame      Rect
	CenterY    float64
	LineCount  int
	HeightStaffSpaces float64
	// HeadClef/HeadKey/HeadTime are the attributes shown at the start of
	// the system, if this is a system-starting measure.
	HeadClef *Clef
	HeadKey  *KeySignature
	HeadTime *TimeSignature
}

// Clef is the engraved form of score.Clef: a positioned glyph.
type Clef struct {
	Glyph    GlyphName
	Position Point
	Bounds   Rect
}

// KeySignature is the engraved form of a key signature: one accidental
// glyph per altered pitch, left to right.
type KeySignature struct {
	Accidentals []EngravedAccidental
	Bounds      Rect
}

// EngravedAccidental is one positioned accidental glyph, used both for
// key signatures and for note accidentals.
type EngravedAccidental struct {
	Glyph    GlyphName
	Position Point
}

// TimeSignature is the engraved form of a time signature: either a
// common/cut symbol, or stacked numerator/denominator digit glyphs.
type TimeSignature struct {
	Symbol     GlyphName // set when this is common/cut time; "" otherwise
	Numerator  []EngravedGlyph
	Denominator []EngravedGlyph
	Bounds     Rect
}

// EngravedGlyph is a single positioned glyph with its bounds.
type EngravedGlyph struct {
	Glyph    GlyphName
	Position Point
	Bounds   Rect
}

// Measure is one engraved measure within a system.
type Measure struct {
	Number       int
	Frame        Rect
	LeftBarlineX float64
	RightBarlineX float64
	// Elements is every engraved element of this measure, grouped by
	// nothing in particular at this level — callers filter by Staff.
	Elements   []Element
	BeamGroups []BeamGroup
	// Slots are the rhythmic column positions HSpacing computed,
	// retained for callers that need to re-derive x-positions (e.g. for
	// a direction that spans onto this measure).
	Slots []Slot
}

// Slot is one rhythmic column: a position in ticks and its justified x.
type Slot struct {
	Position int
	X        float64
}

// ElementKind tags the Element sum type (spec.md §3: "note | rest |
// chord | clef | key-signature | time-signature | barline | direction").
type ElementKind int

const (
	ElemNote ElementKind = iota
	ElemRest
	ElemClef
	ElemKeySignature
	ElemTimeSignature
	ElemBarline
	ElemDirection
	ElemTupletBracket
)

// Element is one engraved measure element; every variant carries a
// bounding rectangle (spec.md §3).
type Element struct {
	Kind   ElementKind
	Staff  int
	Bounds Rect

	Note      *Note
	Clef      *Clef
	Key       *KeySignature
	Time      *TimeSignature
	Barline   *SystemBarline
	Direction *EngravedDirection
	Tuplet    *TupletBracket
}

// Note is an engraved note, chord-tone, or rest.
type Note struct {
	SourceID      string
	Glyph         GlyphName
	Position      Point
	StaffPosition int // spec.md §4.7: integer offset from the centre line
	IsRest        bool
	Accidental    *EngravedAccidental
	Dots          []Point
	Stem          *Stem
	Flag          *EngravedGlyph
}

// Stem is an engraved stem: spec.md §3 "Length = |end.y - start.y|".
type Stem struct {
	Start, End Point
	Direction  StemDir
	Thickness  float64
}

func (s Stem) Length() float64 {
	d := s.End.Y - s.Start.Y
	if d < 0 {
		d = -d
	}
	return d
}

type StemDir int

const (
	StemUp StemDir = iota
	StemDown
)

// BeamGroup is the engraved geometry of one beam (spec.md §3
// EngravedBeamGroup).
type BeamGroup struct {
	Start, End Point
	Slope      float64
	Thickness  float64
	Direction  StemDir
	Staff      int
	// MemberStemsX records each member's stem X, for tests validating
	// invariant 4 (every stem's end Y equals the beam line Y at its X).
	MemberStemsX []float64
	// SecondaryBeams reserves data for number>=2 beam hooks (spec.md §9
	// open question); no geometry is computed for these, by design.
	SecondaryBeams []SecondaryBeam
}

// SecondaryBeam reserves a field for future secondary-beam geometry; see
// BeamGroup.SecondaryBeams.
type SecondaryBeam struct {
	Level      int
	Start, End Point
}

// YAt returns the beam line's Y coordinate at the given X, using the
// group's slope and start point.
func (b BeamGroup) YAt(x float64) float64 {
	return b.Start.Y + b.Slope*(x-b.Start.X)
}

// SystemBarline is a barline spanning one or more staves: either a full
// barline joining every staff, the system's opening barline, or one leg
// of a mensurstrich (gap-only) connection.
type SystemBarline struct {
	X          float64
	TopY       float64
	BottomY    float64
	Style      BarlineStyleEngraved
	Mensurstrich bool
}

type BarlineStyleEngraved int

const (
	BarlineStyleRegular BarlineStyleEngraved = iota
	BarlineStyleDouble
	BarlineStyleFinal
	BarlineStyleRepeatStart
	BarlineStyleRepeatEnd
)

// EngravedDirection is a positioned direction/dynamic text element.
type EngravedDirection struct {
	Text     string
	Glyph    GlyphName // set for dynamics, "" for plain text
	Position Point
}

// TupletBracket is the supplemented feature (SPEC_FULL.md §7): a bracket
// spanning the tuplet's columns, with an optional number glyph.
type TupletBracket struct {
	Start, End Point
	Number     string
	NumberPos  Point
}

// StaffGrouping is Orchestral's bracket/brace geometry (spec.md §4.5).
type StaffGrouping struct {
	Kind      GroupingKind
	TopY      float64
	BottomY   float64
	XOffset   float64
	Thickness float64
}

type GroupingKind int

const (
	GroupingNone GroupingKind = iota
	GroupingBracket
	GroupingBrace
	GroupingSquareBracket
)
