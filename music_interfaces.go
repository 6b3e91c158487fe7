// music_interfaces.go - Common interfaces between the composition core and its collaborators

package main

// SessionPlayer is the control surface exposed to the outside world.
// Everything else (keys, config files, device handling) sits above it.
type SessionPlayer interface {
	// Start begins a new live session, ending any session in progress.
	// Bad input is clamped and reported in SessionInfo.Warnings.
	Start(baseFrequency float64, durationToken string) SessionInfo
	// Stop halts the live session with a short fade
	Stop()
	// TriggerExport renders the first minute of the latest session offline
	TriggerExport() (<-chan ExportResult, error)
	// IsPlaying returns true while notes are still being scheduled
	IsPlaying() bool
	// DurationSeconds returns the requested piece length (0 if endless)
	DurationSeconds() float64
	// DurationText returns a formatted duration string (e.g., "5:00")
	DurationText() string
}

// ToneRenderer turns note events into sound on some output target (a live
// device or an offline buffer).
type ToneRenderer interface {
	// RenderNote schedules one note; StartTime is in the renderer's clock
	RenderNote(ev NoteEvent)
	// SetMixLevel moves the reverb send toward level starting at time at
	SetMixLevel(level float64, at float64)
	// Fade shapes the master gain for session start, stop and natural end
	Fade(kind FadeKind, at float64, seconds float64)
	// Release drops every sounding and pending note
	Release()
}

// AudioClock is a monotonic time source in seconds.
type AudioClock interface {
	CurrentTime() float64
}

// ExportWriter receives a finished offline render. Encoding and persistence
// are the writer's business.
type ExportWriter interface {
	WriteExport(render *MirrorRender) error
}

// FrameSource produces consecutive stereo frames for an audio backend.
type FrameSource interface {
	ReadFrames(dst [][2]float32)
}

// AudioOutput is a started/stopped device stream.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

type FadeKind int

const (
	FADE_IN          FadeKind = iota // linear ramp 0 -> master level
	FADE_STOP                        // fast exponential approach to silence
	FADE_NATURAL_END                 // long exponential ramp to near silence
)
