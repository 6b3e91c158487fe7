// ambient_mirror_test.go - Offline replay determinism and export concurrency

package main

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hako/durafmt"
)

func TestRenderMirror_Deterministic(t *testing.T) {
	_, _, snap := NewSessionState(SessionSeed(1000, 110, "60"), 110, mustPolicy(t, "60"))
	a, err := RenderMirror(snap)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderMirror(snap)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two renders of one snapshot differ")
	}

	snap.ID = uuid.New()
	c, err := RenderMirror(snap)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Notes, c.Notes) || !reflect.DeepEqual(a.Mix, c.Mix) {
		t.Fatal("render depends on the session id")
	}
}

func TestRenderMirror_WindowAcrossSeeds(t *testing.T) {
	for _, token := range durationTokens {
		policy := mustPolicy(t, token)
		for seed := uint32(0); seed < 150; seed++ {
			_, _, snap := NewSessionState(seed*2654435761, 30+float64(seed), policy)
			r, err := RenderMirror(snap)
			if err != nil {
				t.Fatalf("%s seed %d: %v", token, seed, err)
			}
			if len(r.Notes) == 0 || r.Notes[0].StartTime != 0 {
				t.Fatalf("%s seed %d: render must open at t=0", token, seed)
			}
			if len(r.Mix) != len(r.Notes) {
				t.Fatalf("%s seed %d: %d mix points for %d notes", token, seed, len(r.Mix), len(r.Notes))
			}
			prev := -1.0
			for i, n := range r.Notes {
				if n.StartTime < prev || n.StartTime >= MIRROR_WINDOW_SECONDS {
					t.Fatalf("%s seed %d note %d at %v", token, seed, i, n.StartTime)
				}
				if n.IsApproachingEnd || (n.Kind != NOTE_MELODY && n.Kind != NOTE_TOLL) {
					t.Fatalf("%s seed %d note %d: mirror never closes a piece: %+v", token, seed, i, n)
				}
				prev = n.StartTime
			}
			if r.Length() < prev {
				t.Fatalf("%s seed %d: length %v before last note", token, seed, r.Length())
			}
			arc := RestoreDensityArc(snap.DensityBase, snap.LFORate, snap.LFOPhase)
			want := arc.MixLevel()
			if math.Abs(r.InitialMix-want) > 1e-12 {
				t.Fatalf("%s seed %d: initial mix %v, want %v", token, seed, r.InitialMix, want)
			}
		}
	}
}

type blockingWriter struct {
	release chan struct{}
	calls   chan *MirrorRender
	err     error
}

func (w *blockingWriter) WriteExport(r *MirrorRender) error {
	w.calls <- r
	<-w.release
	return w.err
}

func TestMirrorExporter_OneAtATime(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{}), calls: make(chan *MirrorRender, 4)}
	e := NewMirrorExporter(w)
	_, _, snap := NewSessionState(11, 110, mustPolicy(t, "60"))

	results, err := e.Export(snap)
	if err != nil {
		t.Fatalf("first export: %v", err)
	}
	select {
	case <-w.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("writer never called")
	}

	if _, err := e.Export(snap); !errors.Is(err, ErrExportInFlight) {
		t.Fatalf("second export: got %v, want ErrExportInFlight", err)
	}

	close(w.release)
	res := <-results
	if res.Err != nil || res.Render == nil || len(res.Render.Notes) == 0 {
		t.Fatalf("result %+v", res)
	}
	if _, ok := <-results; ok {
		t.Fatal("results channel should close after one value")
	}
	e.Wait()

	again, err := e.Export(snap)
	if err != nil {
		t.Fatalf("export after completion: %v", err)
	}
	<-w.calls
	if res := <-again; res.Err != nil {
		t.Fatal(res.Err)
	}
}

func TestMirrorExporter_WriterError(t *testing.T) {
	boom := errors.New("disk full")
	w := &blockingWriter{release: make(chan struct{}), calls: make(chan *MirrorRender, 1), err: boom}
	close(w.release)
	e := NewMirrorExporter(w)
	_, _, snap := NewSessionState(12, 110, mustPolicy(t, "60"))

	results, err := e.Export(snap)
	if err != nil {
		t.Fatal(err)
	}
	if res := <-results; !errors.Is(res.Err, boom) {
		t.Fatalf("got %v, want writer error", res.Err)
	}
}

func TestAmbientPlayer_ExportLifecycle(t *testing.T) {
	sched, _, _, _ := newTestScheduler()
	p := NewAmbientPlayer(sched, NewMirrorExporter(nil))

	if _, err := p.TriggerExport(); !errors.Is(err, ErrPrematureExport) {
		t.Fatalf("export before start: %v", err)
	}

	p.SetSeedTimestamp(1000)
	info := p.Start(110, "60")
	if len(info.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", info.Warnings)
	}
	if info.Snapshot.Seed != 894922100 {
		t.Fatalf("seed %d, want 894922100", info.Snapshot.Seed)
	}
	if !p.IsPlaying() || p.DurationText() != "1:00" || p.DurationSeconds() != 60 {
		t.Fatalf("playing=%v text=%q secs=%v", p.IsPlaying(), p.DurationText(), p.DurationSeconds())
	}

	p.Stop()
	if p.IsPlaying() {
		t.Fatal("still playing after Stop")
	}

	results, err := p.TriggerExport()
	if err != nil {
		t.Fatalf("export after stop: %v", err)
	}
	res := <-results
	if res.Err != nil || res.Render.Snapshot.Seed != info.Snapshot.Seed {
		t.Fatalf("export result %+v", res)
	}
}

func TestAmbientPlayer_StartClampsInput(t *testing.T) {
	sched, _, _, _ := newTestScheduler()
	p := NewAmbientPlayer(sched, NewMirrorExporter(nil))

	info := p.Start(5000, "forever")
	if len(info.Warnings) != 2 {
		t.Fatalf("warnings %v", info.Warnings)
	}
	for _, w := range info.Warnings {
		if !errors.Is(w, ErrInvalidConfiguration) {
			t.Fatalf("warning %v", w)
		}
	}
	if info.Snapshot.BaseFrequency != BASE_FREQ_MAX || info.Snapshot.Policy.Token != "60" {
		t.Fatalf("snapshot %+v", info.Snapshot)
	}

	p.Start(110, "infinite")
	if p.DurationText() != "endless" || p.DurationSeconds() != 0 {
		t.Fatalf("infinite: %q %v", p.DurationText(), p.DurationSeconds())
	}
	if snap, ok := p.Snapshot(); !ok || !snap.Policy.Infinite {
		t.Fatal("latest snapshot not kept")
	}
}

func TestAmbientPlayer_ExportIgnoresLivePlayback(t *testing.T) {
	sched, clock, _, _ := newTestScheduler()
	p := NewAmbientPlayer(sched, NewMirrorExporter(nil))
	p.SetSeedTimestamp(1000)
	info := p.Start(110, "300")

	before, err := RenderMirror(info.Snapshot)
	if err != nil {
		t.Fatal(err)
	}

	tickUntil(sched, clock, 290, func() bool { return false })
	if sched.State() != SCHED_PLAYING || sched.NotesScheduled() < 5 {
		t.Fatalf("state %s after %d notes", sched.State(), sched.NotesScheduled())
	}

	results, err := p.TriggerExport()
	if err != nil {
		t.Fatal(err)
	}
	res := <-results
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if !reflect.DeepEqual(res.Render.Notes, before.Notes) || !reflect.DeepEqual(res.Render.Mix, before.Mix) {
		t.Fatal("export after live playback differs from the export at start")
	}

	// a freshly seeded session with the same inputs renders identically
	_, _, rebuilt := NewSessionState(info.Snapshot.Seed, 110, info.Snapshot.Policy)
	fresh, err := RenderMirror(rebuilt)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Render.Notes, fresh.Notes) || res.Render.InitialMix != fresh.InitialMix {
		t.Fatal("live playback leaked into the session snapshot")
	}
}

func TestAmbientPlayer_ConcurrentStartsAgree(t *testing.T) {
	sched, _, _, _ := newTestScheduler()
	p := NewAmbientPlayer(sched, NewMirrorExporter(nil))
	p.SetSeedTimestamp(1000)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(freq float64) {
			defer wg.Done()
			p.Start(freq, "60")
		}(float64(60 + i*5))
	}
	wg.Wait()

	latest, ok := p.Snapshot()
	if !ok {
		t.Fatal("no snapshot kept")
	}
	sched.mu.Lock()
	playing := sched.snapshot
	sched.mu.Unlock()
	if latest.Seed != playing.Seed || latest.ID != playing.ID {
		t.Fatalf("player remembers seed %d, scheduler plays %d", latest.Seed, playing.Seed)
	}
}

func TestExportLogUnits(t *testing.T) {
	if shortUnits.Second.Singular != "s" || shortUnits.Millisecond.Plural != "ms" || shortUnits.Year.Plural != "yrs" {
		t.Fatalf("units %+v", shortUnits)
	}
	if got := durafmt.Parse(1500 * time.Millisecond).LimitFirstN(2).Format(shortUnits); got != "1 s 500 ms" {
		t.Fatalf("formatted %q", got)
	}
}
