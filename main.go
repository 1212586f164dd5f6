package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func main() {
	// Handle command line arguments
	cfg, err := parseCommandLine(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: fourier-lowpass -i input.wav [-o filtered.wav] [-w 1024] [-c 20 | --cutoff-hz 800] [-s overlap-add|smooth|none]")
		os.Exit(1)
	}

	logger := newLogger(cfg.Verbose)
	processor := NewAudioProcessor(cfg, logger.WithField("input", cfg.Input))

	// Start process
	if _, err := processor.Process(); err != nil {
		logger.WithError(err).Error("Process failed")
		fmt.Fprintf(os.Stderr, "Process error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nLowpass filtering completed successfully.\n")
	fmt.Printf("Input file: %s\n", cfg.Input)
	fmt.Printf("Output file: %s\n", cfg.Output)
}
