// Package report produces before/after analysis of a filtering run as a
// markdown document.
package report

import (
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	spectrumWindow = 4096
	maxWindows     = 100
	silenceFloor   = 1e-6
)

// Band is a named frequency range used for the band energy table.
type Band struct {
	Name        string
	LowHz       float64
	HighHz      float64
	Description string
}

// Bands are the analysis bands, lowest first.
var Bands = []Band{
	{"Sub-bass", 20, 60, "Fundamental low tones, rumble, felt more than heard"},
	{"Bass", 60, 250, "Fundamental rhythm and low harmonics, adds fullness"},
	{"Low-midrange", 250, 500, "Lower instruments, warmth, vocal fundamentals"},
	{"Midrange", 500, 2000, "Human voice, most instruments, critical for clarity"},
	{"Upper-midrange", 2000, 4000, "Presence, detail, articulation of sounds"},
	{"Presence", 4000, 6000, "Consonants, attack of instruments, definition"},
	{"Brilliance", 6000, 20000, "Air, sparkle, sense of space and transparency"},
}

// Analysis holds level and spectral statistics of one signal.
type Analysis struct {
	Samples    int
	SampleRate int
	Duration   time.Duration

	Mean             float64
	RMS              float64
	Peak             float64
	Energy           float64
	CrestFactor      float64
	ZeroCrossingRate float64

	// BandEnergy is indexed like Bands.
	BandEnergy       []float64
	SpectralCentroid float64
	DominantBand     string
}

// Analyze computes amplitude statistics over the whole signal and band
// energies over up to 100 half-overlapping Hann-windowed frames.
func Analyze(samples []float32, sampleRate int) Analysis {
	a := Analysis{
		Samples:    len(samples),
		SampleRate: sampleRate,
		BandEnergy: make([]float64, len(Bands)),
	}
	if sampleRate > 0 {
		a.Duration = time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	}
	if len(samples) == 0 {
		return a
	}

	x := make([]float64, len(samples))
	abs := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = float64(s)
		abs[i] = math.Abs(x[i])
	}

	a.Energy = floats.Dot(x, x)
	a.Mean = stat.Mean(abs, nil)
	a.RMS = math.Sqrt(a.Energy / float64(len(x)))
	a.Peak = floats.Max(abs)
	a.CrestFactor = a.Peak / math.Max(a.RMS, silenceFloor)

	var crossings int
	for i := 1; i < len(x); i++ {
		if (x[i-1] >= 0) != (x[i] >= 0) {
			crossings++
		}
	}
	a.ZeroCrossingRate = float64(crossings) / float64(len(x))

	a.analyzeSpectrum(x)
	return a
}

func (a *Analysis) analyzeSpectrum(x []float64) {
	if a.SampleRate <= 0 {
		return
	}

	windowSize := spectrumWindow
	hopSize := windowSize / 2
	numWindows := 1
	if len(x) > windowSize {
		numWindows = 1 + (len(x)-windowSize)/hopSize
	}
	if numWindows > maxWindows {
		numWindows = maxWindows
	}

	fft := fourier.NewFFT(windowSize)
	freqResolution := float64(a.SampleRate) / float64(windowSize)
	frame := make([]float64, windowSize)
	var spectrum []complex128
	var centroidSum, energySum float64

	for i := 0; i < numWindows; i++ {
		start := i * hopSize
		end := start + windowSize
		if end > len(x) {
			end = len(x)
		}

		for j := range frame {
			frame[j] = 0
		}
		copy(frame, x[start:end])
		for j := range frame {
			frame[j] *= 0.5 * (1 - math.Cos(2*math.Pi*float64(j)/float64(windowSize-1)))
		}

		spectrum = fft.Coefficients(spectrum, frame)
		for bin := 1; bin < windowSize/2; bin++ {
			freq := freqResolution * float64(bin)
			magnitude := cmplx.Abs(spectrum[bin])
			power := magnitude * magnitude

			centroidSum += freq * power
			energySum += power

			for b, band := range Bands {
				if freq >= band.LowHz && freq < band.HighHz {
					a.BandEnergy[b] += power
					break
				}
			}
		}
	}

	if energySum > 0 {
		a.SpectralCentroid = centroidSum / energySum
	}
	if i := floats.MaxIdx(a.BandEnergy); a.BandEnergy[i] > 0 {
		a.DominantBand = Bands[i].Name
	}
}

// RMSdBFS returns the RMS level relative to full scale.
func (a Analysis) RMSdBFS() float64 {
	return 20 * math.Log10(math.Max(a.RMS, silenceFloor))
}

// PeakdBFS returns the peak level relative to full scale.
func (a Analysis) PeakdBFS() float64 {
	return 20 * math.Log10(math.Max(a.Peak, silenceFloor))
}

// EnergyRatio returns after.Energy / before.Energy, or 0 for a silent input.
func EnergyRatio(before, after Analysis) float64 {
	if before.Energy == 0 {
		return 0
	}
	return after.Energy / before.Energy
}

// Run describes the filtering run for the report header.
type Run struct {
	Input      string
	Output     string
	WindowSize int
	Cutoff     int
	CutoffHz   float64
	Strategy   string
	Mask       string
	Backend    string
	Elapsed    time.Duration
}

// Write renders the before/after comparison as markdown.
func Write(w io.Writer, run Run, before, after Analysis) error {
	p := &printer{w: w}

	p.printf("# Lowpass Filtering Report\n")
	p.printf("# Input: %s\n", run.Input)
	p.printf("# Output: %s\n", run.Output)
	p.printf("# Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	p.printf("# Format: %d Hz, mono, %d samples (%.2f seconds)\n\n",
		before.SampleRate, before.Samples, before.Duration.Seconds())

	p.printf("## 1. Filter Parameters\n\n")
	p.printf("| Parameter | Value |\n")
	p.printf("|-----------|-------|\n")
	p.printf("| Window Size | %d samples |\n", run.WindowSize)
	p.printf("| Cutoff Bin | %d (%.1f Hz) |\n", run.Cutoff, run.CutoffHz)
	p.printf("| Reconstruction | %s |\n", run.Strategy)
	p.printf("| Bin Mask | %s |\n", run.Mask)
	p.printf("| FFT Backend | %s |\n", run.Backend)
	p.printf("| Processing Time | %s |\n\n", run.Elapsed.Round(time.Millisecond))

	p.printf("## 2. Amplitude Statistics\n\n")
	p.printf("| Metric | Before | After |\n")
	p.printf("|--------|--------|-------|\n")
	p.printf("| Mean Amplitude | %.6f | %.6f |\n", before.Mean, after.Mean)
	p.printf("| RMS Level | %.2f dBFS | %.2f dBFS |\n", before.RMSdBFS(), after.RMSdBFS())
	p.printf("| Peak Level | %.2f dBFS | %.2f dBFS |\n", before.PeakdBFS(), after.PeakdBFS())
	p.printf("| Crest Factor | %.4f | %.4f |\n", before.CrestFactor, after.CrestFactor)
	p.printf("| Zero-Crossing Rate | %.6f | %.6f |\n", before.ZeroCrossingRate, after.ZeroCrossingRate)
	p.printf("| Energy Ratio (after/before) | - | %.2f%% |\n\n", EnergyRatio(before, after)*100)

	p.printf("## 3. Spectral Analysis\n\n")
	p.printf("| Frequency Band | Range (Hz) | Before | After | Retained |\n")
	p.printf("|----------------|------------|--------|-------|----------|\n")
	for i, band := range Bands {
		retained := "-"
		if before.BandEnergy[i] > 0 {
			retained = fmt.Sprintf("%.2f%%", after.BandEnergy[i]/before.BandEnergy[i]*100)
		}
		p.printf("| %s | %.0f-%.0f | %.4e | %.4e | %s |\n",
			band.Name, band.LowHz, band.HighHz, before.BandEnergy[i], after.BandEnergy[i], retained)
	}
	p.printf("\n| Metric | Before | After |\n")
	p.printf("|--------|--------|-------|\n")
	p.printf("| Spectral Centroid | %.2f Hz | %.2f Hz |\n", before.SpectralCentroid, after.SpectralCentroid)
	p.printf("| Dominant Band | %s | %s |\n", orDash(before.DominantBand), orDash(after.DominantBand))

	return p.err
}

// WriteFile renders the report into a new file at path.
func WriteFile(path string, run Run, before, after Analysis) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("analysis file creation error: %w", err)
	}
	if err := Write(file, run, before, after); err != nil {
		file.Close()
		return fmt.Errorf("analysis file writing error: %w", err)
	}
	return file.Close()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
