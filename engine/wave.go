package engine

import "math"

// waveValue evaluates one shape at a phase in [0,1). The result is a raw
// level in [0,1]; amplitude scaling and voltage conversion happen in the
// channel pipeline. Width is a percentage whose meaning depends on the
// shape: duty cycle for square, rise/fall symmetry for triangle, ignored
// for sine. Random and Reset are handled by the channel itself since they
// depend on edges, not phase.
func waveValue(shape WaveShape, phase float64, width int) float64 {
	w := float64(width) / 100.0
	switch shape {
	case WaveSquare:
		// width=0 is always off, width=100 always on
		if phase < w {
			return 1.0
		}
		return 0.0

	case WaveTriangle:
		// Rising segment spans width% of the cycle. width=0 is a saw |\,
		// width=100 a ramp /|, width=50 a symmetric triangle.
		if w <= 0 {
			return 1.0 - phase
		}
		if w >= 1 {
			return phase
		}
		if phase < w {
			return phase / w
		}
		return (1.0 - phase) / (1.0 - w)

	case WaveSine:
		return (math.Sin(2*math.Pi*phase) + 1.0) / 2.0

	default:
		return 0.0
	}
}

// clamp01 pins a raw level to the representable range
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
