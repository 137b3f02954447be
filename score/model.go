// Package score defines the input entities the layout engine consumes:
// the abstract, semantic description of a piece of music. Nothing in this
// package is owned or mutated by the layout engine — it is produced by an
// external importer (MusicXML or otherwise) and referenced, never copied
// destructively, during layout.
package score

// Score is the root of the input model: an ordered sequence of parts plus
// optional score-wide defaults.
type Score struct {
	Parts    []Part
	Defaults Defaults
	// Title and Composer feed the Director's page-one credits (§4.8).
	Title    string
	Movement string
	Creators []Creator
}

// Creator is a single entry of MusicXML's work/identification metadata,
// e.g. {Type: "composer", Name: "J.S. Bach"}.
type Creator struct {
	Type string
	Name string
}

// ComposerName returns the name of the first creator of type "composer",
// or "" if none is present.
func (s Score) ComposerName() string {
	for _, c := range s.Creators {
		if c.Type == "composer" {
			return c.Name
		}
	}
	return ""
}

// Defaults carries score-wide layout defaults, most importantly the
// scaling anchors described in spec.md §3.
type Defaults struct {
	PageWidthTenths  float64
	PageHeightTenths float64
	// MillimetersPerStaffSpace and TenthsPerStaffSpace anchor the
	// ScalingContext (units.ScalingContext); TenthsPerStaffSpace is
	// almost always 40 by MusicXML convention but is carried explicitly
	// rather than assumed.
	MillimetersPerStaffSpace float64
	TenthsPerStaffSpace      float64
}

// Part is one instrumental or vocal line: an identifier, display names,
// its staff count (1 for most instruments, 2 for keyboards/harp), and its
// ordered measures.
type Part struct {
	ID           string
	Name         string
	Abbreviation string
	StaffCount   int
	Family       InstrumentFamily
	// IsKeyboardLike marks instruments (piano, organ, harp, celesta, ...)
	// that Orchestral groups with a brace rather than a bracket even
	// when StaffCount == 1 (e.g. a harp reduction on a single staff).
	IsKeyboardLike bool
	Measures       []Measure
}

// InstrumentFamily drives Orchestral's outer-bracket grouping (spec.md
// §4.5).
type InstrumentFamily int

const (
	FamilyOther InstrumentFamily = iota
	FamilyWoodwind
	FamilyBrass
	FamilyPercussion
	FamilyKeyboard
	FamilyVoice
	FamilyString
)

// CanonicalOrder is the standard orchestral family ordering used when a
// caller asks Orchestral to sort parts canonically.
var CanonicalOrder = []InstrumentFamily{
	FamilyWoodwind, FamilyBrass, FamilyPercussion, FamilyKeyboard, FamilyVoice, FamilyString,
}

// Measure is one measure (bar) of one part: a number, an optional
// explicit width hint in tenths, and the ordered stream of elements that
// make it up.
type Measure struct {
	Number    int
	WidthHint *float64 // tenths; nil when the importer left it unspecified
	Elements  []MeasureElement
}

// ElementKind tags the MeasureElement sum type. Each variant carries only
// the data relevant to that kind — there is no inheritance hierarchy, just
// a tagged union dispatched on Kind (spec.md §9 "Polymorphic element
// stream").
type ElementKind int

const (
	ElementNote ElementKind = iota
	ElementForward
	ElementBackup
	ElementAttributes
	ElementDirection
	ElementBarline
	ElementPrint
)

// MeasureElement is one entry of a measure's element stream.
type MeasureElement struct {
	Kind ElementKind

	Note       Note       // valid when Kind == ElementNote
	Ticks      int        // valid when Kind == ElementForward or ElementBackup
	Attributes Attributes // valid when Kind == ElementAttributes
	Direction  Direction  // valid when Kind == ElementDirection
	Barline    Barline    // valid when Kind == ElementBarline
	Print      Print      // valid when Kind == ElementPrint
}

// PitchKind distinguishes pitched notes, unpitched notes (percussion) and
// rests.
type PitchKind int

const (
	Pitched PitchKind = iota
	Unpitched
	Rest
)

// DurationKind is the visual (notated) duration, independent of the exact
// tick count — two notes of different DurationKind can have identical
// DurationTicks under an irregular tuplet, and HSpacing only cares about
// ticks, but the Engraver needs DurationKind to pick noteheads/flags.
type DurationKind int

const (
	DurationWhole DurationKind = iota
	DurationHalf
	DurationQuarter
	Duration8th
	Duration16th
	Duration32nd
	Duration64th
)

// Beamable reports whether notes of this duration can be grouped into a
// beam (8th note or shorter).
func (d DurationKind) Beamable() bool {
	return d >= Duration8th
}

// FlagCount is the number of flags a single (unbeamed) note of this
// duration carries; 0 for quarter notes and longer.
func (d DurationKind) FlagCount() int {
	switch d {
	case Duration8th:
		return 1
	case Duration16th:
		return 2
	case Duration32nd:
		return 3
	case Duration64th:
		return 4
	default:
		return 0
	}
}

// StemDirection is an explicit or inferred stem direction.
type StemDirection int

const (
	StemAuto StemDirection = iota
	StemUp
	StemDown
)

// NoteheadStyle selects the notehead glyph family independent of
// duration (e.g. a cross/x notehead for an unpitched percussion part).
type NoteheadStyle int

const (
	NoteheadNormal NoteheadStyle = iota
	NoteheadCross
	NoteheadDiamond
	NoteheadSlash
)

// BeamHookType is the per-level state-machine event driving explicit beam
// tracking (spec.md §4.7 item 4 / §9 "State machines").
type BeamHookType int

const (
	BeamBegin BeamHookType = iota
	BeamContinue
	BeamEnd
	BeamHook
)

// BeamEntry is one explicit beam hook at a given level (1 = primary beam;
// secondary levels are recorded but not rendered, per spec.md §9's open
// question).
type BeamEntry struct {
	Level int
	Type  BeamHookType
}

// TieType marks the start/stop of a tie on a note.
type TieType int

const (
	TieStart TieType = iota
	TieStop
)

// AccidentalType is the accidental glyph attached to a note, if any.
type AccidentalType int

const (
	AccidentalNatural AccidentalType = iota
	AccidentalSharp
	AccidentalFlat
	AccidentalDoubleSharp
	AccidentalDoubleFlat
)

// ArticulationType enumerates the articulation marks Collide can stack
// above/below a note (spec.md §4.6).
type ArticulationType int

const (
	ArticulationStaccato ArticulationType = iota
	ArticulationAccent
	ArticulationTenuto
	ArticulationMarcato
	ArticulationStaccatissimo
)

// OrnamentType enumerates ornament glyphs.
type OrnamentType int

const (
	OrnamentTrill OrnamentType = iota
	OrnamentMordent
	OrnamentTurn
)

// SlurEntry marks the start or end of a slur, identified by Number so
// overlapping slurs in the same voice can be told apart.
type SlurEntry struct {
	Number int
	Start  bool // false means this is the end of the slur
}

// TupletEntry marks the start or end of a tuplet bracket, and — for the
// start — the ratio actual:normal (e.g. 3:2 for a triplet).
type TupletEntry struct {
	Number int
	Start  bool
	Actual int
	Normal int
}

// Notations bundles the "extra" per-note markings beyond pitch/duration.
type Notations struct {
	Articulations []ArticulationType
	Slurs         []SlurEntry
	Tuplets       []TupletEntry
	Ornaments     []OrnamentType
}

// Note is a note, chord-tone, or rest (PitchKind tells them apart).
type Note struct {
	Kind PitchKind

	// Pitched fields.
	Step  int // 0=C .. 6=B
	Alter float64
	Octave int

	// Unpitched fields.
	DisplayStep   int
	DisplayOctave int

	DurationTicks  int
	VisualDuration DurationKind
	Dots           int
	Voice          int
	Staff          int // 1-based; 0 means "unspecified, use staff 1"
	ChordTone      bool
	StemDirection  StemDirection
	NoteheadStyle  NoteheadStyle
	BeamEntries    []BeamEntry
	Ties           []TieType
	HasAccidental  bool
	Accidental     AccidentalType
	Notations      Notations

	// ID is an opaque handle for the source note, carried through to
	// EngravedNote without granting the engine a back-reference into the
	// mutable source score (spec.md §9 "Ownership").
	ID string
}

// Clef identifies a clef by its standard sign and staff line.
type Clef struct {
	Staff int
	Sign  ClefSign
	Line  int // the staff line (1=bottom .. 5=top) the sign is centred on
	// OctaveChange shifts the clef an octave up (+1) or down (-1), e.g.
	// a treble clef with OctaveChange=-1 is the "treble 8vb" tenor clef.
	OctaveChange int
}

type ClefSign int

const (
	ClefG ClefSign = iota
	ClefF
	ClefC
	ClefPercussion
	ClefTAB
)

// KeySignature is a number of sharps (positive) or flats (negative).
type KeySignature struct {
	Staff  int
	Fifths int
}

// TimeSignature is either a symbolic common/cut time, or an explicit
// numerator/denominator pair (supporting compound signatures such as
// 3+2/8 via multiple Beats entries is left to callers; the common case of
// a single fraction is Beats[0]/BeatType).
type TimeSignature struct {
	Staff    int
	Symbol   TimeSymbol
	Beats    []int
	BeatType int
}

type TimeSymbol int

const (
	TimeSymbolNone TimeSymbol = iota
	TimeSymbolCommon
	TimeSymbolCut
)

// Transpose records a written-to-sounding pitch transposition; the layout
// engine never applies it (that's a score-semantics concern for the
// importer), but it is part of Attributes because MusicXML carries it
// alongside clefs/keys/times.
type Transpose struct {
	Staff      int
	Diatonic   int
	Chromatic  int
	OctaveChange int
}

// Attributes is a MusicXML <attributes> element: it can appear mid-measure
// and its divisions value, once set, carries forward to every following
// measure until overridden (spec.md §4.8 "inherited_divisions").
type Attributes struct {
	// Divisions is nil when this Attributes element does not set
	// divisions (only the clefs/key/time changed).
	Divisions  *int
	Keys       []KeySignature
	Times      []TimeSignature
	Clefs      []Clef
	Transposes []Transpose
	StaffCount int
	StaffLines int
}

// Direction is a textual or symbolic direction (dynamic, tempo marking,
// wedge, etc). The layout engine positions its bounding box via Collide's
// dynamic placement rules; its glyph/text content is opaque to layout.
type Direction struct {
	Staff   int
	Voice   int
	Text    string
	Dynamic DynamicType
	Above   bool
}

// DynamicType enumerates the standard dynamic markings; DynamicNone means
// this Direction is a plain text direction, not a dynamic.
type DynamicType int

const (
	DynamicNone DynamicType = iota
	DynamicPPP
	DynamicPP
	DynamicP
	DynamicMP
	DynamicMF
	DynamicF
	DynamicFF
	DynamicFFF
)

// BarlineLocation is where in the measure a Barline element sits.
type BarlineLocation int

const (
	BarlineRight BarlineLocation = iota
	BarlineLeft
	BarlineMiddle
)

// BarlineStyle enumerates the standard barline glyphs.
type BarlineStyle int

const (
	BarlineRegular BarlineStyle = iota
	BarlineDouble
	BarlineFinal
	BarlineRepeatStart
	BarlineRepeatEnd
)

// Barline is an explicit (non-default) barline.
type Barline struct {
	Location BarlineLocation
	Style    BarlineStyle
}

// Print is a layout hint from the source (e.g. "force a new system/page
// here"). The Director does not read Print elements: its system and page
// breaks come from the Breaker's cost function alone.
type Print struct {
	NewSystem bool
	NewPage   bool
}
