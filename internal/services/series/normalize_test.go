package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(150, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}

func TestLinearScore(t *testing.T) {
	assert.InDelta(t, 50.0, LinearScore(0, 0.08), 1e-9)
	assert.InDelta(t, 100.0, LinearScore(0.08, 0.08), 1e-9)
	assert.InDelta(t, 0.0, LinearScore(-0.08, 0.08), 1e-9)
	assert.InDelta(t, 75.0, LinearScore(0.04, 0.08), 1e-9)
	// Saturates past the calibrated range.
	assert.InDelta(t, 100.0, LinearScore(0.2, 0.08), 1e-9)
	// Degenerate calibration reads neutral.
	assert.InDelta(t, 50.0, LinearScore(0.5, 0), 1e-9)
}

func TestFearTiltBelowNeutral(t *testing.T) {
	// 30 sits 20 points below neutral; a 1.3 multiplier stretches that
	// to 26 points below.
	assert.InDelta(t, 24.0, FearTilt(30, 1.3), 1e-9)
}

func TestFearTiltAboveNeutralUnchanged(t *testing.T) {
	assert.InDelta(t, 70.0, FearTilt(70, 1.3), 1e-9)
	assert.InDelta(t, 50.0, FearTilt(50, 1.3), 1e-9)
}

func TestFearTiltClampsAtZero(t *testing.T) {
	assert.InDelta(t, 0.0, FearTilt(5, 1.3), 1e-9)
}

func TestFearTiltAsymmetry(t *testing.T) {
	below := FearTilt(40, 1.2)
	above := FearTilt(60, 1.2)
	assert.Greater(t, 50.0-below, above-50.0)
}
