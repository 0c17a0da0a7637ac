package audio

import "github.com/simukka/ambience/common"

// GenerateNoise fills seconds of mono noise of the given color.
// Every sample lies in [-1, 1].
func GenerateNoise(color NoiseColor, sampleRate, seconds float64, rng *common.SeededRNG) []float32 {
	n := int(sampleRate * seconds)
	if n < 1 {
		n = 1
	}
	out := make([]float32, n)
	cfg := &AudioConfig

	switch color {
	case NoisePink:
		// Paul Kellet's refined pink filter
		var b0, b1, b2, b3, b4, b5, b6 float64
		for i := range out {
			w := rng.Bipolar()
			b0 = 0.99886*b0 + w*0.0555179
			b1 = 0.99332*b1 + w*0.0750759
			b2 = 0.96900*b2 + w*0.1538520
			b3 = 0.86650*b3 + w*0.3104856
			b4 = 0.55000*b4 + w*0.5329522
			b5 = -0.7616*b5 - w*0.0168980
			v := (b0 + b1 + b2 + b3 + b4 + b5 + b6 + w*0.5362) * cfg.PinkScale
			b6 = w * 0.115926
			out[i] = clampSample(v)
		}
	case NoiseBrown:
		last := 0.0
		for i := range out {
			w := rng.Bipolar()
			last = (last + cfg.BrownStepSize*w) / cfg.BrownLeak
			out[i] = clampSample(last * cfg.BrownScale)
		}
	default:
		for i := range out {
			out[i] = clampSample(rng.Bipolar())
		}
	}
	return out
}

// NoiseBuffer wraps freshly generated noise in a mono context buffer.
func NoiseBuffer(ctx Context, color NoiseColor, seconds float64, rng *common.SeededRNG) Buffer {
	samples := GenerateNoise(color, ctx.SampleRate(), seconds, rng)
	buf := ctx.CreateBuffer(1, len(samples), ctx.SampleRate())
	buf.CopyToChannel(samples, 0)
	return buf
}

func clampSample(v float64) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return float32(v)
}
