// ambient_constants.go - Tuned constants for the generative composition engine

package main

// Scale and phrase geometry
const (
	SCALE_DEGREES      = 7
	PHRASE_LENGTH      = 16
	CADENCE_FIRST_STEP = 13
	CADENCE_HIT_STEP   = 15
	LEADING_TONE_STEP  = 14
	LEADING_TONE_DEG   = 6
	PATTERN_INDEX_MIN  = -8
	PATTERN_INDEX_MAX  = 10
	CIRCLE_STEPS       = 12
	MOTIF_LENGTH       = 4
	MOTIF_LIMIT        = 4
	MOTIF_EVOLVE_EVERY = 8
	MAX_CIRCULAR_SHIFT = 3
)

// Phrase shaping probabilities
const (
	SLOWDOWN_PROB_STEP15 = 0.85
	SLOWDOWN_PROB_STEP0  = 0.25
	SLOWDOWN_PROB_STEP14 = 0.35
	SLOWDOWN_PROB_STEP13 = 0.20
	SLOWDOWN_FACTOR_MIN  = 1.20
	SLOWDOWN_FACTOR_SPAN = 0.20

	MOTIF_FORCED_PROB = 0.85
	MOTIF_FREE_PROB   = 0.55
	MOTIF_ANSWER_PROB = 0.20
	MOTIF_STEP2_PROB  = 0.25
	MOTIF_INVERT_PROB = 0.25

	WALK_UP_THRESHOLD   = 0.45
	WALK_DOWN_THRESHOLD = 0.90

	CADENCE_LAND_PROB       = 0.55
	CADENCE_LAND_PROB_FINAL = 0.85
	CADENCE_END_BOOST       = 0.25
	CADENCE_END_BOOST_EARLY = 0.15
	CADENCE_MISS_DOWN_PROB  = 0.65
	CADENCE_STATIC_NUDGE    = 0.25
	LEADING_TONE_SETUP_PROB = 0.65
	ROOT_RESOLVE_PROB       = 0.92
	ROOT_RESOLVE_PROB_LT    = 0.985

	TOLL_PROB_CADENCE      = 0.08
	TOLL_PROB_CADENCE_LIFT = 0.08
	TOLL_PROB_OTHER        = 0.02
	TOLL_PROB_OTHER_LIFT   = 0.03
)

// Harmonic drift
const (
	MODULATION_MIN_NOTES     = 17
	RECENT_MODULATION_WINDOW = 20.0

	MODULATION_CHANCE_LONG    = 0.35
	MODULATION_CHANCE_DEFAULT = 0.10

	SHORT_TIER_FLIP_PROB   = 0.20
	MEDIUM_TIER_FLIP_PROB  = 0.35
	MEDIUM_TIER_FORWARD    = 0.70
	INFINITE_SINK_PROB     = 0.60
	INFINITE_SURFACE_PROB  = 0.28
	INFINITE_TIER_FORWARD  = 0.90
	INFINITE_TOTAL_SECONDS = 99999.0

	STATIC_TIER_LIMIT = 60.0
	SHORT_TIER_LIMIT  = 300.0
	MEDIUM_TIER_LIMIT = 1800.0
)

// Density and tempo arc
const (
	DENSITY_MIN       = 0.05
	DENSITY_MAX       = 0.425
	DENSITY_BASE_SPAN = 0.375
	DENSITY_LFO_DEPTH = 0.15
	DENSITY_SMOOTHING = 0.005
	LFO_RATE_MIN      = 0.00045
	LFO_RATE_SPAN     = 0.00055

	NOTE_LENGTH_FACTOR  = 2.5
	SPACING_JITTER_MIN  = 0.95
	SPACING_JITTER_SPAN = 0.1

	MIX_LEVEL_SPARSE = 1.08
	MIX_LEVEL_DENSE  = 0.74
)

// Coherent pitch drift
const (
	DRIFT_RATE_MIN   = 0.003
	DRIFT_RATE_SPAN  = 0.006
	DRIFT_CENTS_MIN  = 4.0
	DRIFT_CENTS_SPAN = 5.0
)

// Note gains and envelopes
const (
	MELODY_VELOCITY       = 0.38
	TOLL_VELOCITY         = 0.34
	TOLL_CADENCE_DURATION = 14.0
	TOLL_OTHER_DURATION   = 6.0
	TOLL_CADENCE_ATTACK   = 0.03
	TOLL_OTHER_ATTACK     = 0.02
	DEFAULT_ATTACK        = 0.01

	TERMINAL_TOLL_VELOCITY = 0.45
	TERMINAL_TOLL_DURATION = 18.0
	BENEDICTION_VELOCITY   = 0.20
	BENEDICTION_DURATION   = 28.0
	BENEDICTION_DELAY      = 1.2
	BENEDICTION_ATTACK     = 0.06

	VOICES_PER_NOTE   = 2
	PAN_BASE_SPREAD   = 0.4
	PAN_VOICE_OFFSET  = 0.22
	PAN_JITTER        = 0.08
	PAN_LIMIT         = 0.65
	DETUNE_SPREAD_HZ  = 0.3
	MOD_INDEX_MIN     = 1.0
	MOD_INDEX_SPAN    = 4.0
	MOD_RATIO_MIN     = 1.5
	MOD_RATIO_SPAN    = 2.5
	BRIGHTNESS_EARLY  = 0.35
	BRIGHTNESS_MIDDLE = 0.45
	BRIGHTNESS_LATE   = 0.55
	BRIGHTNESS_CAD    = 0.65
	BRIGHTNESS_ENDING = 0.55
)

// Scheduling windows (seconds)
const (
	LIVE_TICK_MS          = 100
	LIVE_LOOK_AHEAD       = 0.5
	START_FADE_IN         = 0.1
	STOP_FADE_CONSTANT    = 0.05
	STOP_GRACE_MS         = 250
	NATURAL_END_FADE      = 20.0
	NATURAL_END_FINISH_MS = 20100

	MIRROR_WINDOW_SECONDS = 60.0
	MIRROR_BUFFER_SECONDS = 75.0
)

// Session parameter bounds
const (
	BASE_FREQ_MIN     = 30.0
	BASE_FREQ_MAX     = 200.0
	BASE_FREQ_DEFAULT = 110.0
)
