// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the small sample-level helpers shared by the resampler,
// the buffers and the file writers.
package dsp

// CubicInterpolate performs Catmull-Rom interpolation.
// x is the fractional position between y1 and y2 (0 <= x <= 1);
// y0..y3 are four consecutive samples.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	return ((a0*x+a1)*x+a2)*x + y1
}

// Clamp limits x to [-1, 1].
func Clamp(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// FloatToPCM scales a float sample to a signed integer of bitDepth bits.
// Positive full scale maps to 2^(bitDepth-1)-1 so it never overflows.
func FloatToPCM(x float32, bitDepth int) int {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	full := float64(int64(1)<<(bitDepth-1) - 1)
	return int(float64(Clamp(x)) * full)
}

// PCMToFloat is the inverse of FloatToPCM.
func PCMToFloat(v int, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
