package engine

// EuclideanPattern distributes triggers as evenly as possible over steps.
// The difference between the widest and narrowest gap between consecutive
// triggers is at most one slot, and slot 0 always carries a trigger when
// triggers > 0.
//
// steps <= 0 returns nil (generator disabled); triggers <= 0 returns an
// all-false pattern; triggers >= steps returns all-true.
func EuclideanPattern(steps, triggers int) []bool {
	if steps <= 0 {
		return nil
	}
	pattern := make([]bool, steps)
	if triggers <= 0 {
		return pattern
	}
	if triggers >= steps {
		for i := range pattern {
			pattern[i] = true
		}
		return pattern
	}
	// Slot i fires when the running total i*triggers wraps modulo steps.
	// This places the triggers maximally evenly with the first on slot 0.
	for i := 0; i < steps; i++ {
		pattern[i] = (i*triggers)%steps < triggers
	}
	return pattern
}

// RotatePattern cyclically shifts a pattern so that slot i of the result
// is slot (i+rotation) mod len of the input. Rotation may be negative.
func RotatePattern(pattern []bool, rotation int) []bool {
	n := len(pattern)
	if n == 0 {
		return pattern
	}
	rotation = ((rotation % n) + n) % n
	if rotation == 0 {
		out := make([]bool, n)
		copy(out, pattern)
		return out
	}
	out := make([]bool, n)
	for i := range pattern {
		out[i] = pattern[(i+rotation)%n]
	}
	return out
}
