package ir

import "math"

// Width markers recognized by the generator.
const (
	MarkerByte  = "u8"
	MarkerWord  = "u16"
	MarkerDword = "u32"
	MarkerQword = "u64"
	MarkerSize  = "usize"

	// MarkerLayout requests a foreign-compatible layout. It is not a numeric
	// width and never selects one.
	MarkerLayout = "C"
)

// Width is the integer representation chosen for a declaration's ordinals.
type Width struct {
	Marker string `json:"marker"`  // declared token, e.g. "u8"
	Bits   int    `json:"bits"`    // 8, 16, 32 or 64
	GoType string `json:"go_type"` // uint8, uint16, uint32, uint64 or uint
}

// ByteWidth and WordWidth are the two width classes of the compat policy.
func ByteWidth(marker string) Width { return Width{Marker: marker, Bits: 8, GoType: "uint8"} }
func WordWidth(marker string) Width { return Width{Marker: marker, Bits: 16, GoType: "uint16"} }

// Mask returns the largest value representable in the width.
func (w Width) Mask() uint64 {
	if w.Bits >= 64 {
		return math.MaxUint64
	}
	return 1<<uint(w.Bits) - 1
}

// Wrap truncates v to the width, matching Go's unsigned conversion.
func (w Width) Wrap(v uint64) uint64 {
	return v & w.Mask()
}

// Fits reports whether n distinct ordinals 0..n-1 are representable.
func (w Width) Fits(n int) bool {
	if n == 0 {
		return true
	}
	return uint64(n-1) <= w.Mask()
}
