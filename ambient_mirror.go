// ambient_mirror.go - Deterministic offline replay of a session's opening minute

package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/hako/durafmt"
	"golang.org/x/sync/semaphore"
)

// MixPoint is one reverb send automation target.
type MixPoint struct {
	Time  float64
	Level float64
}

// MirrorRender is the note sequence of the first window of a session,
// replayed in simulated time. Times are seconds from the session start.
type MirrorRender struct {
	Snapshot      SessionSnapshot
	Notes         []NoteEvent
	Mix           []MixPoint
	InitialMix    float64
	WindowSeconds float64
	BufferSeconds float64
}

// Length is the last instant any note is still sounding.
func (r *MirrorRender) Length() float64 {
	end := 0.0
	for _, n := range r.Notes {
		end = max(end, n.StartTime+n.Duration)
	}
	return end
}

// RenderMirror replays a session from its snapshot. The result depends on
// nothing but the snapshot, so repeated calls return identical sequences.
func RenderMirror(snap SessionSnapshot) (*MirrorRender, error) {
	st, rng := StateFromSnapshot(snap)

	r := &MirrorRender{
		Snapshot:      snap,
		InitialMix:    st.Density.MixLevel(),
		WindowSeconds: MIRROR_WINDOW_SECONDS,
		BufferSeconds: MIRROR_BUFFER_SECONDS,
	}

	t := 0.0
	for t < MIRROR_WINDOW_SECONDS {
		st.Density.Update(t)
		r.Mix = append(r.Mix, MixPoint{Time: t, Level: st.Density.MixLevel()})

		out, err := st.Step(rng, StepInput{Origin: 0, At: t, Now: t})
		if err != nil {
			return nil, fmt.Errorf("mirror render at %.2fs: %w", t, err)
		}
		r.Notes = append(r.Notes, out.Note)
		t += out.Spacing
	}
	return r, nil
}

type ExportResult struct {
	Render *MirrorRender
	Err    error
}

const EXPORT_LOG_UNITS = "y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us"

var shortUnits durafmt.Units

func init() {
	units, err := durafmt.DefaultUnitsCoder.Decode(EXPORT_LOG_UNITS)
	if err != nil {
		panic(fmt.Sprintf("export log units %q: %v", EXPORT_LOG_UNITS, err))
	}
	shortUnits = units
}

// MirrorExporter renders and writes exports one at a time on a background
// goroutine. A request made while one is in flight is rejected.
type MirrorExporter struct {
	sem    *semaphore.Weighted
	writer ExportWriter
	wg     sync.WaitGroup
}

func NewMirrorExporter(writer ExportWriter) *MirrorExporter {
	return &MirrorExporter{
		sem:    semaphore.NewWeighted(1),
		writer: writer,
	}
}

// Export starts rendering snap and returns a channel that receives exactly
// one result.
func (e *MirrorExporter) Export(snap SessionSnapshot) (<-chan ExportResult, error) {
	if !e.sem.TryAcquire(1) {
		return nil, ErrExportInFlight
	}

	results := make(chan ExportResult, 1)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer close(results)

		started := time.Now()
		render, err := RenderMirror(snap)
		if err == nil && e.writer != nil {
			err = e.writer.WriteExport(render)
		}
		took := durafmt.Parse(time.Since(started)).LimitFirstN(2).Format(shortUnits)
		if err != nil {
			logError("export of session %d failed after %s: %v", snap.Seed, took, err)
		} else {
			logInfo("exported session %d: %d notes in %s", snap.Seed, len(render.Notes), took)
		}

		e.sem.Release(1)
		results <- ExportResult{Render: render, Err: err}
	}()
	return results, nil
}

// Wait blocks until every started export has finished.
func (e *MirrorExporter) Wait() {
	e.wg.Wait()
}
