package engine

import (
	"fmt"
	"reflect"
	"testing"
)

func TestEuclideanPatternKnown(t *testing.T) {
	var tests = []struct {
		steps, triggers int
		want            []bool
	}{
		{8, 3, []bool{true, false, false, true, false, false, true, false}},
		{4, 2, []bool{true, false, true, false}},
		{4, 1, []bool{true, false, false, false}},
		{5, 5, []bool{true, true, true, true, true}},
		{3, 0, []bool{false, false, false}},
		{1, 1, []bool{true}},
		{0, 3, nil},
		{-1, 1, nil},
		{4, 7, []bool{true, true, true, true}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d", tt.steps, tt.triggers), func(t *testing.T) {
			got := EuclideanPattern(tt.steps, tt.triggers)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EuclideanPattern(%d, %d) = %v, want %v", tt.steps, tt.triggers, got, tt.want)
			}
		})
	}
}

func TestEuclideanPatternCount(t *testing.T) {
	for steps := 1; steps <= MaxEuclidSteps; steps++ {
		for triggers := 0; triggers <= steps; triggers++ {
			got := 0
			for _, on := range EuclideanPattern(steps, triggers) {
				if on {
					got++
				}
			}
			if got != triggers {
				t.Errorf("steps=%d triggers=%d: %d slots fire", steps, triggers, got)
			}
		}
	}
}

// The defining property: cyclic gaps between consecutive triggers differ
// by at most one slot.
func TestEuclideanPatternEvenness(t *testing.T) {
	for steps := 2; steps <= MaxEuclidSteps; steps++ {
		for triggers := 1; triggers < steps; triggers++ {
			pattern := EuclideanPattern(steps, triggers)
			var onsets []int
			for i, on := range pattern {
				if on {
					onsets = append(onsets, i)
				}
			}
			minGap, maxGap := steps, 0
			for i := range onsets {
				next := onsets[(i+1)%len(onsets)]
				gap := next - onsets[i]
				if gap <= 0 {
					gap += steps
				}
				if gap < minGap {
					minGap = gap
				}
				if gap > maxGap {
					maxGap = gap
				}
			}
			if maxGap-minGap > 1 {
				t.Errorf("steps=%d triggers=%d: gap spread %d (min %d, max %d)",
					steps, triggers, maxGap-minGap, minGap, maxGap)
			}
		}
	}
}

func TestEuclideanPatternFirstSlot(t *testing.T) {
	for steps := 1; steps <= MaxEuclidSteps; steps++ {
		for triggers := 1; triggers <= steps; triggers++ {
			if !EuclideanPattern(steps, triggers)[0] {
				t.Errorf("steps=%d triggers=%d: slot 0 silent", steps, triggers)
			}
		}
	}
}

func TestRotatePattern(t *testing.T) {
	base := []bool{true, false, false, true, false}
	var tests = []struct {
		rotation int
		want     []bool
	}{
		{0, []bool{true, false, false, true, false}},
		{1, []bool{false, false, true, false, true}},
		{3, []bool{true, false, true, false, false}},
		{5, []bool{true, false, false, true, false}},
		{-1, []bool{false, true, false, false, true}},
		{-6, []bool{false, true, false, false, true}},
	}
	for _, tt := range tests {
		got := RotatePattern(base, tt.rotation)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("RotatePattern(%v, %d) = %v, want %v", base, tt.rotation, got, tt.want)
		}
	}
}

func TestRotatePatternCopies(t *testing.T) {
	base := []bool{true, false}
	got := RotatePattern(base, 0)
	got[0] = false
	if !base[0] {
		t.Error("RotatePattern aliased its input")
	}
}
