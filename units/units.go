// Package units converts between the measurement systems used throughout
// the layout engine: staff-spaces, tenths, millimetres and points. All
// conversions are pure, deterministic arithmetic over float64 newtypes.
package units

import "fmt"

// TenthsPerStaffSpace is fixed by MusicXML convention: 40 tenths make up
// one staff space regardless of the actual engraving size.
const TenthsPerStaffSpace = 40

// StaffSpaces is a length expressed in staff-spaces, the natural unit of
// music engraving (the distance between two adjacent staff lines).
type StaffSpaces float64

// Tenths is a length expressed in MusicXML's internal scale unit.
type Tenths float64

// Points is a length expressed in typographic points (1/72 inch), the
// engine's output unit.
type Points float64

// ToTenths converts a staff-space length to tenths.
func (s StaffSpaces) ToTenths() Tenths {
	return Tenths(float64(s) * TenthsPerStaffSpace)
}

// ToPoints converts a staff-space length to points, given the height of a
// staff (5 lines, 4 spaces) in points.
func (s StaffSpaces) ToPoints(staffHeight Points) Points {
	return Points(float64(s) * float64(staffHeight) / 4)
}

// ToStaffSpaces converts a tenths length to staff-spaces.
func (t Tenths) ToStaffSpaces() StaffSpaces {
	return StaffSpaces(float64(t) / TenthsPerStaffSpace)
}

// ToPoints converts a tenths length to points via staff-spaces.
func (t Tenths) ToPoints(staffHeight Points) Points {
	return t.ToStaffSpaces().ToPoints(staffHeight)
}

// ScalingContext anchors the three unit systems to one another for a given
// score: the staff height in points (the only quantity the renderer's
// physical page cares about), the number of tenths per staff space (a
// MusicXML constant, carried explicitly rather than hard-coded so callers
// can see it in one place), and the millimetres-per-staff-space value
// taken from the score's own scaling defaults.
type ScalingContext struct {
	StaffHeightPoints  Points
	TenthsPerStaffSpace float64
	MillimetersPerSpace float64
}

// DefaultScalingContext returns a ScalingContext for a staff height
// expressed directly in points, using the MusicXML-standard 40
// tenths-per-staff-space and a nominal 7mm staff-space (Engraving default).
func DefaultScalingContext(staffHeightPoints Points) ScalingContext {
	return ScalingContext{
		StaffHeightPoints:   staffHeightPoints,
		TenthsPerStaffSpace: TenthsPerStaffSpace,
		MillimetersPerSpace: 7.0,
	}
}

// PointsPerStaffSpace returns staffHeight/4, the single conversion factor
// every other conversion in this context is built from.
func (c ScalingContext) PointsPerStaffSpace() Points {
	return c.StaffHeightPoints / 4
}

// TenthsToPoints converts a tenths value to points under this context.
func (c ScalingContext) TenthsToPoints(t Tenths) Points {
	return Points(float64(t) / c.TenthsPerStaffSpace * float64(c.PointsPerStaffSpace()))
}

// StaffSpacesToPoints converts a staff-spaces value to points under this
// context.
func (c ScalingContext) StaffSpacesToPoints(s StaffSpaces) Points {
	return Points(float64(s) * float64(c.PointsPerStaffSpace()))
}

// PointsToStaffSpaces is the inverse of StaffSpacesToPoints.
func (c ScalingContext) PointsToStaffSpaces(p Points) StaffSpaces {
	pps := c.PointsPerStaffSpace()
	if pps == 0 {
		return 0
	}
	return StaffSpaces(float64(p) / float64(pps))
}

// Validate reports whether the context describes a usable scale.
func (c ScalingContext) Validate() error {
	if c.StaffHeightPoints <= 0 {
		return fmt.Errorf("units: staff height must be positive, got %v", c.StaffHeightPoints)
	}
	if c.TenthsPerStaffSpace <= 0 {
		return fmt.Errorf("units: tenths-per-staff-space must be positive, got %v", c.TenthsPerStaffSpace)
	}
	return nil
}
