package lowpass

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Scheduler runs consecutive, non-overlapping windows of a framed signal
// through a Filter and concatenates the results. A Scheduler reuses its
// filter plan between calls and is not safe for concurrent use.
type Scheduler struct {
	windowSize int
	cutoff     int
	workers    int
	opts       []Option
	filter     *Filter
}

// NewScheduler builds a Scheduler around a Filter for the given window size
// and cutoff. workers > 1 filters windows concurrently, one plan per worker.
func NewScheduler(windowSize, cutoff, workers int, opts ...Option) (*Scheduler, error) {
	f, err := NewFilter(windowSize, cutoff, opts...)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		windowSize: windowSize,
		cutoff:     cutoff,
		workers:    workers,
		opts:       opts,
		filter:     f,
	}, nil
}

// Run filters numWindows windows starting at offset. Window k covers
// signal[offset+k*W : offset+(k+1)*W]; nothing past offset+numWindows*W is
// read. The output has exactly numWindows*W samples.
func (s *Scheduler) Run(signal []float32, offset, numWindows int) ([]float32, error) {
	w := s.windowSize
	if offset < 0 || offset >= w {
		return nil, fmt.Errorf("%w: offset %d not in [0, %d)", ErrSchedule, offset, w)
	}
	if numWindows < 0 || offset+numWindows*w > len(signal) {
		return nil, fmt.Errorf("%w: %d windows from offset %d exceed %d samples",
			ErrSchedule, numWindows, offset, len(signal))
	}

	out := make([]float32, numWindows*w)
	if numWindows == 0 {
		return out, nil
	}

	if s.workers == 1 || numWindows == 1 {
		return out, s.runRange(s.filter, out, signal, offset, 0, numWindows)
	}

	workers := s.workers
	if workers > numWindows {
		workers = numWindows
	}
	per := (numWindows + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < numWindows; start += per {
		start, end := start, start+per
		if end > numWindows {
			end = numWindows
		}
		g.Go(func() error {
			f, err := NewFilter(s.windowSize, s.cutoff, s.opts...)
			if err != nil {
				return err
			}
			return s.runRange(f, out, signal, offset, start, end)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Scheduler) runRange(f *Filter, out, signal []float32, offset, from, to int) error {
	w := s.windowSize
	for k := from; k < to; k++ {
		src := signal[offset+k*w : offset+(k+1)*w]
		if err := f.applyTo(out[k*w:(k+1)*w], src); err != nil {
			return fmt.Errorf("window %d: %w", k, err)
		}
	}
	return nil
}
