// export_midi.go - Standard MIDI File export of a mirrored session's notes

package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	MIDI_TICKS_PER_QUARTER = 960
	MIDI_TEMPO_BPM         = 60 // one quarter per second
	MIDI_MELODY_CHANNEL    = 0
	MIDI_BELL_CHANNEL      = 1
	MIDI_VELOCITY_FULL     = TERMINAL_TOLL_VELOCITY
)

type midiEvent struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// midiKey is the nearest equal-tempered key, clamped to the MIDI range.
func midiKey(freq float64) uint8 {
	k := math.Round(69 + 12*math.Log2(freq/440))
	return uint8(clampFloat(k, 0, 127))
}

func midiVelocity(v float64) uint8 {
	return uint8(clampFloat(math.Round(v/MIDI_VELOCITY_FULL*127), 1, 127))
}

func secondsToTicks(s float64) uint32 {
	return uint32(math.Round(math.Max(s, 0) * MIDI_TICKS_PER_QUARTER * MIDI_TEMPO_BPM / 60))
}

// BuildMIDI converts a render into a two-track SMF: tempo, then notes.
func BuildMIDI(render *MirrorRender) (*smf.SMF, error) {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(MIDI_TICKS_PER_QUARTER)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(MIDI_TEMPO_BPM))
	tempo.Close(0)
	if err := sm.Add(tempo); err != nil {
		return nil, fmt.Errorf("error adding tempo track: %w", err)
	}

	events := make([]midiEvent, 0, len(render.Notes)*2)
	for _, n := range render.Notes {
		ch := uint8(MIDI_MELODY_CHANNEL)
		if n.Kind != NOTE_MELODY {
			ch = MIDI_BELL_CHANNEL
		}
		key := midiKey(n.Frequency)
		on := secondsToTicks(n.StartTime)
		off := max(secondsToTicks(n.StartTime+n.Duration), on+1)
		events = append(events,
			midiEvent{tick: on, msg: midi.NoteOn(ch, key, midiVelocity(n.Velocity))},
			midiEvent{tick: off, off: true, msg: midi.NoteOff(ch, key)},
		)
	}
	// offs first at equal ticks so a repeated key retriggers
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var notes smf.Track
	last := uint32(0)
	for _, ev := range events {
		notes.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	notes.Close(0)
	if err := sm.Add(notes); err != nil {
		return nil, fmt.Errorf("error adding note track: %w", err)
	}
	return sm, nil
}

// MIDIExportWriter writes ambient-<seed>-<id>.mid into Dir.
type MIDIExportWriter struct {
	Dir string
}

func (w *MIDIExportWriter) WriteExport(render *MirrorRender) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	sm, err := BuildMIDI(render)
	if err != nil {
		return err
	}
	path := filepath.Join(w.Dir, exportFileName(render.Snapshot, "mid"))
	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	logInfo("wrote %s (%d notes)", path, len(render.Notes))
	return nil
}

// MultiExportWriter hands one render to several writers and joins their errors.
type MultiExportWriter []ExportWriter

func (m MultiExportWriter) WriteExport(render *MirrorRender) error {
	var errs []error
	for _, w := range m {
		if err := w.WriteExport(render); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
