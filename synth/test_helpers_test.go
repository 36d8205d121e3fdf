package synth

import "math"

func renderSeconds(c *Context, seconds float64, blockSize int) []float32 {
	total := int(seconds * float64(c.SampleRate()))
	out := make([]float32, 0, total*2)
	for rendered := 0; rendered < total; {
		n := blockSize
		if rendered+n > total {
			n = total - rendered
		}
		out = append(out, c.Process(n)...)
		rendered += n
	}
	return out
}

func leftChannel(interleaved []float32) []float32 {
	out := make([]float32, len(interleaved)/2)
	for i := range out {
		out[i] = interleaved[i*2]
	}
	return out
}

func peakAbs(samples []float32) float64 {
	var peak float64
	for _, s := range samples {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}
	return peak
}

func windowRMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func measureFundamentalFreq(samples []float32, sampleRate float64) float64 {
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] < 0 && samples[i] >= 0) || (samples[i-1] >= 0 && samples[i] < 0) {
			crossings++
		}
	}
	if crossings == 0 {
		return 0
	}
	duration := float64(len(samples)) / sampleRate
	return float64(crossings) / (2.0 * duration)
}
