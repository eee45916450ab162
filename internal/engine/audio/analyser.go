package audio

import (
	gomath "math"
	"math/cmplx"
	"sync"

	"github.com/gopxl/beep/v2"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyser defaults, matching the usual browser analyser node.
const (
	DefaultFFTSize   = 256
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
	DefaultSmoothing = 0.8
)

// Analyser computes byte frequency magnitudes from the most recent samples
// that passed through its tap. Samples arrive on the speaker goroutine;
// ByteFrequencyData is called from the render thread.
type Analyser struct {
	MinDecibels float64
	MaxDecibels float64
	Smoothing   float64

	mu   sync.Mutex
	ring []float64
	pos  int

	size     int
	fft      *fourier.FFT
	window   []float64
	frame    []float64
	coeffs   []complex128
	smoothed []float64
}

// NewAnalyser creates an analyser with an FFT of the given size, which must
// be a power of two.
func NewAnalyser(fftSize int) *Analyser {
	if fftSize < 32 || fftSize&(fftSize-1) != 0 {
		fftSize = DefaultFFTSize
	}
	a := &Analyser{
		MinDecibels: DefaultMinDB,
		MaxDecibels: DefaultMaxDB,
		Smoothing:   DefaultSmoothing,
		ring:        make([]float64, fftSize),
		size:        fftSize,
		fft:         fourier.NewFFT(fftSize),
		window:      blackman(fftSize),
		frame:       make([]float64, fftSize),
		smoothed:    make([]float64, fftSize/2),
	}
	return a
}

// FrequencyBinCount is half the FFT size.
func (a *Analyser) FrequencyBinCount() int {
	return a.size / 2
}

// Write records stereo samples, down-mixed to mono.
func (a *Analyser) Write(samples [][2]float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.ring[a.pos] = (s[0] + s[1]) / 2
		a.pos++
		if a.pos == len(a.ring) {
			a.pos = 0
		}
	}
}

// Reset clears the sample history and smoothing state.
func (a *Analyser) Reset() {
	a.mu.Lock()
	clear(a.ring)
	a.pos = 0
	a.mu.Unlock()
	clear(a.smoothed)
}

// ByteFrequencyData fills dst with magnitudes scaled to 0..255 between
// MinDecibels and MaxDecibels and returns the number of bins written.
// It must be called from one goroutine at a time.
func (a *Analyser) ByteFrequencyData(dst []uint8) int {
	a.mu.Lock()
	n := copy(a.frame, a.ring[a.pos:])
	copy(a.frame[n:], a.ring[:a.pos])
	a.mu.Unlock()

	for i := range a.frame {
		a.frame[i] *= a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.frame)

	tau := min(max(a.Smoothing, 0), 1)
	rangeDB := a.MaxDecibels - a.MinDecibels
	bins := min(len(dst), len(a.smoothed))
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeffs[k]) / float64(a.size)
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
		if k >= bins {
			continue
		}
		db := 20 * gomath.Log10(a.smoothed[k])
		scaled := 255 * (db - a.MinDecibels) / rangeDB
		switch {
		case gomath.IsNaN(scaled) || scaled <= 0:
			dst[k] = 0
		case scaled >= 255:
			dst[k] = 255
		default:
			dst[k] = uint8(scaled)
		}
	}
	return bins
}

func blackman(n int) []float64 {
	const a0, a1, a2 = 0.42, 0.5, 0.08
	w := make([]float64, n)
	for i := range w {
		x := 2 * gomath.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*gomath.Cos(x) + a2*gomath.Cos(2*x)
	}
	return w
}

// tap passes samples through unchanged while feeding the analyser.
type tap struct {
	beep.Streamer
	analyser *Analyser
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Streamer.Stream(samples)
	if n > 0 {
		t.analyser.Write(samples[:n])
	}
	return n, ok
}
