// ambient_config.go - Session parameters: duration policy, harmony tiers, base frequency

package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const DURATION_INFINITE = "infinite"

// Accepted duration tokens, shortest first.
var durationTokens = []string{"60", "300", "600", "1800", DURATION_INFINITE}

type HarmonyTier int

const (
	TIER_STATIC   HarmonyTier = iota // <= 60s: harmony never moves
	TIER_SHORT                       // <= 300s: mode flips only
	TIER_MEDIUM                      // <= 1800s: flips or circle steps
	TIER_INFINITE                    // asymmetric major/minor gravity
)

func (t HarmonyTier) String() string {
	switch t {
	case TIER_STATIC:
		return "static"
	case TIER_SHORT:
		return "short"
	case TIER_MEDIUM:
		return "medium"
	case TIER_INFINITE:
		return "infinite"
	}
	return "unknown"
}

// DurationPolicy is either a fixed piece length or an endless session.
type DurationPolicy struct {
	Token    string
	Seconds  float64
	Infinite bool
}

// ParseDurationPolicy accepts one of the known tokens. Anything else falls
// back to the shortest fixed tier and reports ErrInvalidConfiguration.
func ParseDurationPolicy(token string) (DurationPolicy, error) {
	token = strings.TrimSpace(strings.ToLower(token))
	for _, known := range durationTokens {
		if token != known {
			continue
		}
		if token == DURATION_INFINITE {
			return DurationPolicy{Token: token, Infinite: true}, nil
		}
		secs, _ := strconv.ParseFloat(token, 64)
		return DurationPolicy{Token: token, Seconds: secs}, nil
	}
	return DurationPolicy{Token: durationTokens[0], Seconds: STATIC_TIER_LIMIT},
		fmt.Errorf("%w: unrecognized duration %q, using %s", ErrInvalidConfiguration, token, durationTokens[0])
}

// TotalSeconds is the requested piece length; endless sessions report a
// large sentinel so tier comparisons stay numeric.
func (p DurationPolicy) TotalSeconds() float64 {
	if p.Infinite {
		return INFINITE_TOTAL_SECONDS
	}
	return p.Seconds
}

func (p DurationPolicy) Tier() HarmonyTier {
	total := p.TotalSeconds()
	switch {
	case total <= STATIC_TIER_LIMIT:
		return TIER_STATIC
	case total <= SHORT_TIER_LIMIT:
		return TIER_SHORT
	case total <= MEDIUM_TIER_LIMIT:
		return TIER_MEDIUM
	case p.Infinite:
		return TIER_INFINITE
	}
	// Finite pieces longer than the medium tier keep their harmony.
	return TIER_STATIC
}

// ModulationChance is the per-boundary chance of attempting a harmonic move.
func (p DurationPolicy) ModulationChance() float64 {
	if !p.Infinite && p.TotalSeconds() > SHORT_TIER_LIMIT {
		return MODULATION_CHANCE_LONG
	}
	return MODULATION_CHANCE_DEFAULT
}

// EndsAfter reports whether the piece has a natural end at all and when.
func (p DurationPolicy) EndsAfter() (float64, bool) {
	if p.Infinite {
		return 0, false
	}
	return p.Seconds, true
}

// ClampBaseFrequency pins f to [30,200] Hz. Out of range input is clamped
// to the nearest bound, non-numbers fall back to the default.
func ClampBaseFrequency(f float64) (float64, error) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return BASE_FREQ_DEFAULT, fmt.Errorf("%w: base frequency %v, using %v Hz", ErrInvalidConfiguration, f, BASE_FREQ_DEFAULT)
	case f < BASE_FREQ_MIN:
		return BASE_FREQ_MIN, fmt.Errorf("%w: base frequency %v below %v Hz", ErrInvalidConfiguration, f, BASE_FREQ_MIN)
	case f > BASE_FREQ_MAX:
		return BASE_FREQ_MAX, fmt.Errorf("%w: base frequency %v above %v Hz", ErrInvalidConfiguration, f, BASE_FREQ_MAX)
	}
	return f, nil
}
