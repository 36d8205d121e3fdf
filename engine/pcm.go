package engine

import (
	"encoding/binary"
	"math"

	"github.com/cwbudde/algo-keys/synth"
)

const bytesPerFrame = 2 * 4 // stereo float32

// pcmReader exposes a context as float32 little-endian interleaved stereo.
type pcmReader struct {
	ctx *synth.Context
}

func newPCMReader(ctx *synth.Context) *pcmReader {
	return &pcmReader{ctx: ctx}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	block := r.ctx.Process(frames)
	for i, s := range block {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	for i := frames * bytesPerFrame; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}
