package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-keys/synth"
)

// DefaultBlockSize is the number of frames rendered per pull when rendering offline.
const DefaultBlockSize = 128

// Strike is one key press in an offline render.
type Strike struct {
	At        float64 // seconds from the start of the render
	Frequency float64
}

// RenderOffline plays strikes through s on a private offline pipeline and
// returns stereo interleaved audio lasting until tail seconds after the last
// strike. Strikes land on the first frame at or after their time.
func RenderOffline(s *synth.Synth, opts Options, strikes []Strike, tail float64, blockSize int) ([]float32, error) {
	if s == nil {
		s = synth.New(nil)
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if tail < 0 {
		return nil, fmt.Errorf("tail must be >= 0")
	}
	opts.Backend = &Offline{}
	h, err := Open(opts)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	sorted := append([]Strike(nil), strikes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	end := tail
	if len(sorted) > 0 {
		if sorted[0].At < 0 {
			return nil, fmt.Errorf("strike at %gs is before the start", sorted[0].At)
		}
		end += sorted[len(sorted)-1].At
	}

	sr := float64(h.SampleRate())
	total := int(math.Ceil(end * sr))
	out := make([]float32, 0, total*2)
	rendered := 0
	next := 0
	for rendered < total || next < len(sorted) {
		for next < len(sorted) && int(math.Ceil(sorted[next].At*sr)) <= rendered {
			s.Trigger(h, sorted[next].Frequency)
			next++
		}
		if rendered >= total {
			break
		}
		n := min(blockSize, total-rendered)
		if next < len(sorted) {
			n = min(n, int(math.Ceil(sorted[next].At*sr))-rendered)
		}
		out = append(out, h.Render(n)...)
		rendered += n
	}
	return out, nil
}
