package voicequality

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

const (
	frameSize = 2048
	hopSize   = 512

	// Pitch candidates outside this band are treated as non-voiced noise.
	pitchMinHz = 150.0
	pitchMaxHz = 4000.0

	// Frames whose peak magnitude falls below this are skipped for pitch.
	peakMagnitudeFloor = 1e-4
)

// stftExtractor computes all three metrics from one short-time Fourier
// transform pass over the waveform.
//
// Pitch per frame is the frequency of the strongest bin inside the voiced
// band; pitch variation is the population standard deviation over voiced
// frames. Energy is the mean per-frame RMS scaled by 100. Clarity is the
// mean spectral centroid in kHz.
type stftExtractor struct{}

func (e *stftExtractor) Extract(samples []float64, sampleRate int) (Metrics, error) {
	if err := validateInput(samples, sampleRate); err != nil {
		return Metrics{}, err
	}

	n := len(samples)
	size := frameSize
	if n < size {
		size = n
	}

	fft := fourier.NewFFT(size)
	window := hann(size)
	frame := make([]float64, size)
	binHz := float64(sampleRate) / float64(size)

	var (
		pitches   []float64
		rmsVals   []float64
		centroids []float64
	)

	for start := 0; start+size <= n; start += hopSize {
		var sumSq float64
		for i := 0; i < size; i++ {
			s := samples[start+i]
			sumSq += s * s
			frame[i] = s * window[i]
		}
		rmsVals = append(rmsVals, math.Sqrt(sumSq/float64(size)))

		coeffs := fft.Coefficients(nil, frame)

		var (
			peakMag  float64
			peakFreq float64
			magSum   float64
			weighted float64
		)
		for bin := 0; bin < len(coeffs); bin++ {
			mag := cmplx.Abs(coeffs[bin])
			freq := float64(bin) * binHz
			magSum += mag
			weighted += mag * freq
			if freq >= pitchMinHz && freq <= pitchMaxHz && mag > peakMag {
				peakMag = mag
				peakFreq = freq
			}
		}
		if peakMag > peakMagnitudeFloor && peakFreq > 0 {
			pitches = append(pitches, peakFreq)
		}
		if magSum > 0 {
			centroids = append(centroids, weighted/magSum)
		}
	}

	if len(rmsVals) == 0 {
		return Metrics{}, nil
	}

	var pitchVar float64
	if len(pitches) > 0 {
		pitchVar = stat.PopStdDev(pitches, nil)
	}
	energy := stat.Mean(rmsVals, nil) * 100
	var clarity float64
	if len(centroids) > 0 {
		clarity = stat.Mean(centroids, nil) / 1000
	}

	return Metrics{
		PitchVariation: round2(pitchVar),
		EnergyLevel:    round2(energy),
		ClarityScore:   round2(clarity),
	}, nil
}

func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
