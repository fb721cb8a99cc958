package model

import (
	"math"
	"time"
)

// Defaults for ShakeDetector, in m/s^2 and wall clock time
const (
	ShakeThreshold    = 25.0
	ShakeMinSpacing   = 300 * time.Millisecond
	ShakeResetTimeout = time.Second
	ShakeRequired     = 5
)

// ShakeDetector counts acceleration spikes (or manual taps) and fires once
// enough arrive close together. It is not safe for concurrent use.
type ShakeDetector struct {
	Threshold    float64
	MinSpacing   time.Duration
	ResetTimeout time.Duration
	Required     int

	count     int
	lastSpike time.Time
}

// NewShakeDetector returns a detector with the default tuning
func NewShakeDetector() *ShakeDetector {
	return &ShakeDetector{
		Threshold:    ShakeThreshold,
		MinSpacing:   ShakeMinSpacing,
		ResetTimeout: ShakeResetTimeout,
		Required:     ShakeRequired,
	}
}

// Motion feeds one accelerometer sample (including gravity). It returns true
// when the sample completes the required number of shakes; the counter is
// reset at that point.
func (d *ShakeDetector) Motion(now time.Time, x, y, z float64) bool {
	magnitude := math.Sqrt(x*x + y*y + z*z)
	if magnitude <= d.Threshold {
		return false
	}

	if !d.lastSpike.IsZero() {
		gap := now.Sub(d.lastSpike)
		if gap <= d.MinSpacing {
			return false
		}
		if gap > d.ResetTimeout {
			d.count = 0
		}
	}

	d.lastSpike = now
	return d.increment()
}

// Tap registers a manual tap. Taps have no spacing or timeout.
func (d *ShakeDetector) Tap() bool {
	return d.increment()
}

// Expire drops a partial count once the reset timeout has passed since the
// last spike.
func (d *ShakeDetector) Expire(now time.Time) {
	if !d.lastSpike.IsZero() && now.Sub(d.lastSpike) > d.ResetTimeout {
		d.count = 0
		d.lastSpike = time.Time{}
	}
}

// Reset clears all progress
func (d *ShakeDetector) Reset() {
	d.count = 0
	d.lastSpike = time.Time{}
}

// Count returns the shakes counted so far
func (d *ShakeDetector) Count() int {
	return d.count
}

// Progress returns Count as a fraction of Required
func (d *ShakeDetector) Progress() float64 {
	if d.Required <= 0 {
		return 0
	}
	return float64(d.count) / float64(d.Required)
}

func (d *ShakeDetector) increment() bool {
	d.count++
	if d.count >= d.Required {
		d.count = 0
		return true
	}
	return false
}
