package engine

import (
	"math"
	"testing"
)

func TestWaveSquareWidth(t *testing.T) {
	var tests = []struct {
		phase float64
		width int
		want  float64
	}{
		{0.0, 50, 1},
		{0.25, 50, 1},
		{0.5, 50, 0},
		{0.75, 50, 0},
		{0.0, 0, 0},  // width 0 never fires
		{0.5, 0, 0},
		{0.0, 100, 1}, // width 100 always on
		{0.99, 100, 1},
		{0.1, 25, 1},
		{0.3, 25, 0},
	}
	for _, tt := range tests {
		if got := waveValue(WaveSquare, tt.phase, tt.width); got != tt.want {
			t.Errorf("square(phase=%v, width=%d) = %v, want %v", tt.phase, tt.width, got, tt.want)
		}
	}
}

func TestWaveTriangle(t *testing.T) {
	var tests = []struct {
		phase float64
		width int
		want  float64
	}{
		{0.0, 50, 0},
		{0.25, 50, 0.5},
		{0.5, 50, 1},
		{0.75, 50, 0.5},
		{0.0, 0, 1}, // saw, falling
		{0.5, 0, 0.5},
		{0.0, 100, 0}, // ramp, rising
		{0.5, 100, 0.5},
		{0.1, 20, 0.5},
		{0.6, 20, 0.5},
	}
	for _, tt := range tests {
		if got := waveValue(WaveTriangle, tt.phase, tt.width); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("triangle(phase=%v, width=%d) = %v, want %v", tt.phase, tt.width, got, tt.want)
		}
	}
}

func TestWaveSine(t *testing.T) {
	var tests = []struct {
		phase float64
		want  float64
	}{
		{0.0, 0.5},
		{0.25, 1},
		{0.5, 0.5},
		{0.75, 0},
	}
	for _, tt := range tests {
		if got := waveValue(WaveSine, tt.phase, 50); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("sine(phase=%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

func TestWaveRangeSweep(t *testing.T) {
	shapes := []WaveShape{WaveSquare, WaveTriangle, WaveSine}
	for _, shape := range shapes {
		for width := 0; width <= 100; width += 10 {
			for p := 0.0; p < 1.0; p += 0.01 {
				got := waveValue(shape, p, width)
				if got < 0 || got > 1 {
					t.Fatalf("%s(phase=%v, width=%d) = %v out of [0,1]", shape.Label(), p, width, got)
				}
			}
		}
	}
}

func TestWavePhaseless(t *testing.T) {
	// Random and Reset are edge-driven; the phase evaluator yields nothing
	if got := waveValue(WaveRandom, 0.5, 50); got != 0 {
		t.Errorf("random = %v, want 0", got)
	}
	if got := waveValue(WaveReset, 0.5, 50); got != 0 {
		t.Errorf("reset = %v, want 0", got)
	}
}
