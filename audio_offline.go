// audio_offline.go - Renders a mirrored session into a fixed-length stereo buffer

package main

import "math"

const OFFLINE_BLOCK_FRAMES = 1024

// RenderOfflineBuffer plays render through a private AmbientBus and returns
// BufferSeconds of stereo audio. Mix points are applied as the render
// reaches them; the master stays at its resting level.
func RenderOfflineBuffer(render *MirrorRender, sampleRate int) [][2]float64 {
	bus := NewAmbientBus(sampleRate)
	bus.SetMixLevelNow(render.InitialMix)
	for _, ev := range render.Notes {
		bus.RenderNote(ev)
	}

	total := int(math.Round(render.BufferSeconds * float64(bus.SampleRate())))
	out := make([][2]float64, total)
	block := make([][2]float32, OFFLINE_BLOCK_FRAMES)

	mixIdx := 0
	pos := 0
	for pos < total {
		n := min(OFFLINE_BLOCK_FRAMES, total-pos)
		if mixIdx < len(render.Mix) {
			at := int(math.Round(render.Mix[mixIdx].Time * float64(bus.SampleRate())))
			if at <= pos {
				bus.SetMixLevel(render.Mix[mixIdx].Level, bus.CurrentTime())
				mixIdx++
				continue
			}
			n = min(n, at-pos)
		}

		bus.ReadFrames(block[:n])
		for i := 0; i < n; i++ {
			out[pos+i] = [2]float64{float64(block[i][0]), float64(block[i][1])}
		}
		pos += n
	}
	return out
}

// peakLevel is the largest absolute sample in buf.
func peakLevel(buf [][2]float64) float64 {
	peak := 0.0
	for _, f := range buf {
		peak = max(peak, math.Abs(f[0]), math.Abs(f[1]))
	}
	return peak
}
