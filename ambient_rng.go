// ambient_rng.go - Seeded session RNG (FNV-1a seed hash + Mulberry32)

package main

import (
	"fmt"
	"math"
)

const (
	FNV_OFFSET_BASIS = 2166136261
	FNV_PRIME        = 16777619
	MULBERRY_GOLDEN  = 0x6D2B79F5
	RNG_SCALE        = 4294967296.0
)

// randomSource is the only way the composition engine draws randomness.
type randomSource interface {
	Next() float64
}

// AmbientRNG is a Mulberry32 generator. The whole state is one uint32 so a
// session can be replayed from any captured state.
type AmbientRNG struct {
	state uint32
}

func NewAmbientRNG(seed uint32) *AmbientRNG {
	return &AmbientRNG{state: seed}
}

// Next returns a float in [0,1).
func (r *AmbientRNG) Next() float64 {
	r.state += MULBERRY_GOLDEN
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / RNG_SCALE
}

func (r *AmbientRNG) State() uint32 {
	return r.state
}

func (r *AmbientRNG) SetState(state uint32) {
	r.state = state
}

// hash32 is 32-bit FNV-1a over the bytes of s.
func hash32(s string) uint32 {
	h := uint32(FNV_OFFSET_BASIS)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= FNV_PRIME
	}
	return h
}

// seedString builds "<timestamp>|<round(freq*100)>|<token>".
func seedString(timestampMillis int64, baseFrequency float64, durationToken string) string {
	return fmt.Sprintf("%d|%d|%s", timestampMillis, int64(math.Round(baseFrequency*100)), durationToken)
}

// SessionSeed derives the session seed from its creation parameters.
func SessionSeed(timestampMillis int64, baseFrequency float64, durationToken string) uint32 {
	return hash32(seedString(timestampMillis, baseFrequency, durationToken))
}
