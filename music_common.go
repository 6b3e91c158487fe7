// music_common.go - Shared numeric and formatting helpers for the ambient player

package main

import (
	"fmt"
	"math"
)

// floorDiv divides rounding toward negative infinity, so
// floorDiv(-1, 7) == -1 and octave folding stays continuous below zero.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod is the non-negative remainder matching floorDiv.
func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// circularDelta is the shortest signed move from degree `from` to degree
// `to` on a scale of `size` steps, in [-size/2, size/2].
func circularDelta(from, to, size int) int {
	d := to - from
	half := size / 2
	if d > half {
		d -= size
	}
	if d < -half {
		d += size
	}
	return d
}

// circularDistance is the unsigned shortest distance between two degrees.
func circularDistance(a, b, size int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if size-d < d {
		return size - d
	}
	return d
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// mapRange maps value linearly from [inMin,inMax] onto [outMin,outMax].
func mapRange(value, inMin, inMax, outMin, outMax float64) float64 {
	return outMin + (outMax-outMin)*((value-inMin)/(inMax-inMin))
}

// formatClock renders seconds as "m:ss"; zero or negative yields "".
func formatClock(secs float64) string {
	if secs <= 0 {
		return ""
	}
	total := int(math.Round(secs))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
