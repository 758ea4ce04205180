package tiff

// Rational is an unsigned TIFF RATIONAL value: a numerator/denominator pair
// of 32-bit unsigned integers (TIFF 6.0, type 5). It is the wire
// representation for calibrated scalars such as XResolution/YResolution.
type Rational struct {
	Num, Denom uint32
}

// SRational is the signed counterpart of Rational (TIFF 6.0, type 10).
type SRational struct {
	Num, Denom int32
}

// Float64 returns r as a float64. A zero denominator yields 0, mirroring
// the teacher's defensive big.Rat(0, 0) fallback on malformed input, except
// on the write side there is no malformed input to defend against — the
// caller constructed r.
func (r Rational) Float64() float64 {
	if r.Denom == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Denom)
}

// Float64 returns r as a float64.
func (r SRational) Float64() float64 {
	if r.Denom == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Denom)
}

// RationalFromFloat64 returns the Rational num/denom, the common convention
// for resolution tags (e.g. RationalFromFloat64(72, 1) for 72 dpi). It
// takes the numerator and denominator as given and does no float
// conversion or approximation.
func RationalFromFloat64(num, denom uint32) Rational {
	return Rational{Num: num, Denom: denom}
}
