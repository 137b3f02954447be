package units

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStaffSpacesToPoints(t *testing.T) {
	// A 40pt staff height means one staff-space is 10pt.
	if got := StaffSpaces(1).ToPoints(40); got != 10 {
		t.Errorf("1 staff-space at 40pt staff height = %v, want 10", got)
	}
	if got := StaffSpaces(2.5).ToPoints(40); got != 25 {
		t.Errorf("2.5 staff-spaces at 40pt staff height = %v, want 25", got)
	}
}

func TestTenthsRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 40, 123.456, -7} {
		got := Tenths(v).ToStaffSpaces().ToTenths()
		if !almostEqual(float64(got), v) {
			t.Errorf("tenths->staffspaces->tenths(%v) = %v", v, got)
		}
	}
}

func TestStaffSpacesPointsRoundTrip(t *testing.T) {
	ctx := DefaultScalingContext(48)
	for _, v := range []float64{0, 1, 4.5, -2, 100} {
		ss := StaffSpaces(v)
		pts := ctx.StaffSpacesToPoints(ss)
		back := ctx.PointsToStaffSpaces(pts)
		if !almostEqual(float64(back), v) {
			t.Errorf("staffspaces->points->staffspaces(%v) = %v", v, back)
		}
	}
}

func TestScalingContextValidate(t *testing.T) {
	ctx := DefaultScalingContext(48)
	if err := ctx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := ctx
	bad.StaffHeightPoints = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero staff height")
	}
	bad = ctx
	bad.TenthsPerStaffSpace = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative tenths-per-staff-space")
	}
}

func TestPointsPerStaffSpace(t *testing.T) {
	ctx := DefaultScalingContext(40)
	if got := ctx.PointsPerStaffSpace(); got != 10 {
		t.Errorf("PointsPerStaffSpace() = %v, want 10", got)
	}
}
