package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"fourier-lowpass/lowpass"
	"fourier-lowpass/report"
	"fourier-lowpass/wavio"
)

// AudioProcessor drives one lowpass run: read, filter, report, write.
type AudioProcessor struct {
	cfg *Config
	log logrus.FieldLogger
}

// NewAudioProcessor creates a new AudioProcessor for cfg.
func NewAudioProcessor(cfg *Config, log logrus.FieldLogger) *AudioProcessor {
	return &AudioProcessor{cfg: cfg, log: log}
}

// Stats summarises a finished run.
type Stats struct {
	InputSamples   int
	OutputSamples  int
	SampleRate     int
	Windows        int
	ShiftedWindows int
	Cutoff         int
	CutoffHz       float64
	EnergyRatio    float64
	ReportFile     string
	Elapsed        time.Duration
}

// Process starts the audio processing.
func (ap *AudioProcessor) Process() (*Stats, error) {
	startTime := time.Now()

	fmt.Printf("Starting process...\n")
	fmt.Printf("Input file: %s\n", ap.cfg.Input)
	fmt.Printf("Output file: %s\n", ap.cfg.Output)

	// 1. Read audio file
	fmt.Printf("[%3d%%] Reading audio file...\n", 0)
	clip, err := wavio.ReadFile(ap.cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("audio file reading error: %w", err)
	}
	fmt.Printf("[%3d%%] Audio file successfully read. Duration: %.2f sec, Encoding: %s/%d-bit, Sample rate: %d Hz\n",
		10,
		clip.Duration().Seconds(),
		clip.Encoding,
		clip.BitDepth,
		clip.SampleRate)

	filterCfg, err := ap.cfg.FilterConfig(clip.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("filter configuration error: %w", err)
	}
	cutoffHz := lowpass.FrequencyForBin(filterCfg.Cutoff, clip.SampleRate, filterCfg.WindowSize)

	fmt.Printf("Window size: %d samples\n", filterCfg.WindowSize)
	fmt.Printf("Cutoff: bin %d (%.1f Hz)\n", filterCfg.Cutoff, cutoffHz)
	fmt.Printf("Reconstruction: %s\n", filterCfg.Strategy)
	fmt.Printf("Bin mask: %s, FFT backend: %s\n", filterCfg.Mask, filterCfg.Backend)
	fmt.Println("----------------------------------------")

	pipeline, err := lowpass.New(filterCfg, ap.log)
	if err != nil {
		return nil, fmt.Errorf("filter setup error: %w", err)
	}

	// 2. Filter
	fmt.Printf("[%3d%%] Starting lowpass filtering...\n", 30)
	res, err := pipeline.Run(clip.Samples)
	if err != nil {
		return nil, fmt.Errorf("lowpass filtering error: %w", err)
	}
	fmt.Printf("[%3d%%] Lowpass filtering completed. Duration: %.2f sec\n",
		75,
		time.Since(startTime).Seconds())

	filtered := clip.WithSamples(res.Samples)
	before := report.Analyze(clip.Samples, clip.SampleRate)
	after := report.Analyze(filtered.Samples, filtered.SampleRate)

	stats := &Stats{
		InputSamples:   len(clip.Samples),
		OutputSamples:  len(filtered.Samples),
		SampleRate:     clip.SampleRate,
		Windows:        res.Windows,
		ShiftedWindows: res.ShiftedWindows,
		Cutoff:         filterCfg.Cutoff,
		CutoffHz:       cutoffHz,
		EnergyRatio:    report.EnergyRatio(before, after),
	}

	// 3. Optional analysis report
	if ap.cfg.ReportDir != "" {
		if err := os.MkdirAll(ap.cfg.ReportDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
		stats.ReportFile = filepath.Join(ap.cfg.ReportDir, filepath.Base(ap.cfg.Output)+"-analysis.md")
		fmt.Printf("[%3d%%] Creating analysis file: %s\n", 80, stats.ReportFile)

		run := report.Run{
			Input:      ap.cfg.Input,
			Output:     ap.cfg.Output,
			WindowSize: filterCfg.WindowSize,
			Cutoff:     filterCfg.Cutoff,
			CutoffHz:   cutoffHz,
			Strategy:   filterCfg.Strategy.String(),
			Mask:       filterCfg.Mask.String(),
			Backend:    filterCfg.Backend.String(),
			Elapsed:    res.Duration,
		}
		if err := report.WriteFile(stats.ReportFile, run, before, after); err != nil {
			return nil, fmt.Errorf("analysis error: %w", err)
		}
	}

	// Ensure output directory exists
	if err := os.MkdirAll(filepath.Dir(ap.cfg.Output), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// 4. Save filtered audio
	fmt.Printf("[%3d%%] Saving filtered audio...\n", 85)
	if err := wavio.WriteFile(ap.cfg.Output, filtered); err != nil {
		return nil, fmt.Errorf("audio file saving error: %w", err)
	}
	stats.Elapsed = time.Since(startTime)
	fmt.Printf("[%3d%%] Filtered audio successfully saved. Total process duration: %.2f sec\n",
		100,
		stats.Elapsed.Seconds())
	fmt.Println("----------------------------------------")

	stats.print()
	return stats, nil
}

func (s *Stats) print() {
	fmt.Println("\n--- LOWPASS FILTERING STATISTICS ---")
	fmt.Printf("• Samples (in/out): %d / %d\n", s.InputSamples, s.OutputSamples)
	fmt.Printf("• Windows (primary/shifted): %d / %d\n", s.Windows, s.ShiftedWindows)
	fmt.Printf("• Cutoff: bin %d (%.1f Hz)\n", s.Cutoff, s.CutoffHz)
	fmt.Printf("• Energy ratio (filtered/original): %%%.1f\n", s.EnergyRatio*100)
	if s.ReportFile != "" {
		fmt.Printf("• Analysis report: %s\n", s.ReportFile)
	}
	fmt.Println("--------------------------------------")
}
