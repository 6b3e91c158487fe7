// export_wav.go - 16-bit stereo WAV export of a mirrored session

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// bufferStreamer streams a fixed slice of stereo frames.
type bufferStreamer struct {
	buf [][2]float64
	pos int
}

func (s *bufferStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	n = copy(samples, s.buf[s.pos:])
	s.pos += n
	return n, true
}

func (s *bufferStreamer) Err() error {
	return nil
}

// WAVExportWriter writes ambient-<seed>-<id>.wav into Dir.
type WAVExportWriter struct {
	Dir        string
	SampleRate int

	lastPath string
}

func NewWAVExportWriter(dir string) *WAVExportWriter {
	return &WAVExportWriter{Dir: dir, SampleRate: SAMPLE_RATE}
}

func exportFileName(snap SessionSnapshot, ext string) string {
	return fmt.Sprintf("ambient-%d-%s.%s", snap.Seed, snap.ShortID(), ext)
}

func (w *WAVExportWriter) WriteExport(render *MirrorRender) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(w.Dir, exportFileName(render.Snapshot, "wav"))

	samples := RenderOfflineBuffer(render, w.SampleRate)
	format := beep.Format{
		SampleRate:  beep.SampleRate(w.SampleRate),
		NumChannels: OUTPUT_CHANNELS,
		Precision:   2,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := wav.Encode(f, &bufferStreamer{buf: samples}, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if fi, err := os.Stat(path); err == nil {
		logInfo("wrote %s (%s, peak %.3f)", path, humanize.Bytes(uint64(fi.Size())), peakLevel(samples))
	}
	w.lastPath = path
	return nil
}

// LastPath is the file written by the most recent successful export.
func (w *WAVExportWriter) LastPath() string {
	return w.lastPath
}
