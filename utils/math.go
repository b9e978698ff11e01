package utils

import (
	"math"
)

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(pp))
	return
}

// RPlus is the positive ramp max(x, 0) used by complementarity formulations.
func RPlus(x float64) float64 { return math.Max(x, 0) }

// RMinus is the negative ramp min(x, 0).
func RMinus(x float64) float64 { return math.Min(x, 0) }

// DRPlus is the derivative of RPlus, taken as 0 at x = 0.
func DRPlus(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// DRMinus is the derivative of RMinus, taken as 0 at x = 0.
func DRMinus(x float64) float64 {
	if x < 0 {
		return 1
	}
	return 0
}
