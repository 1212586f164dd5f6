package lowpass

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Strategy is the post-processing step that hides block-boundary seams.
type Strategy int

const (
	// StrategyOverlapAdd cross-fades a second, half-window shifted pass.
	StrategyOverlapAdd Strategy = iota
	// StrategySmooth runs an exponential moving average over a single pass.
	StrategySmooth
	// StrategyNone returns the single windowed pass as is.
	StrategyNone
)

func (s Strategy) String() string {
	switch s {
	case StrategyOverlapAdd:
		return "overlap-add"
	case StrategySmooth:
		return "smooth"
	case StrategyNone:
		return "none"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps "overlap-add", "smooth" or "none" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "overlap-add", "ola":
		return StrategyOverlapAdd, nil
	case "smooth", "ema":
		return StrategySmooth, nil
	case "none", "plain":
		return StrategyNone, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrStrategy, name)
}

// Config holds the explicit parameters of one filtering run.
type Config struct {
	WindowSize      int
	Cutoff          int
	Strategy        Strategy
	SmoothingPeriod int
	Mask            MaskMode
	Backend         Backend
	Workers         int
	// Trim drops the framer's zero tail so the output is as long as the input.
	Trim bool
}

// DefaultConfig returns a 1024-sample window with cutoff bin 20 and
// overlap-add reconstruction.
func DefaultConfig() Config {
	return Config{
		WindowSize:      1024,
		Cutoff:          20,
		Strategy:        StrategyOverlapAdd,
		SmoothingPeriod: 16,
		Mask:            MaskAboveCutoff,
		Backend:         BackendGonum,
		Workers:         1,
	}
}

// Validate checks the configuration without building any transform plan.
func (c Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("%w: %d", ErrWindowSize, c.WindowSize)
	}
	if c.Cutoff < 0 || c.Cutoff > c.WindowSize {
		return fmt.Errorf("%w: cutoff %d, window size %d", ErrCutoffRange, c.Cutoff, c.WindowSize)
	}
	switch c.Strategy {
	case StrategyOverlapAdd:
		if c.WindowSize < 2 {
			return fmt.Errorf("%w: overlap-add needs at least 2 samples, got %d", ErrWindowSize, c.WindowSize)
		}
	case StrategySmooth:
		if c.SmoothingPeriod < 1 {
			return fmt.Errorf("%w: %d", ErrSmoothingPeriod, c.SmoothingPeriod)
		}
	case StrategyNone:
	default:
		return fmt.Errorf("%w: %v", ErrStrategy, c.Strategy)
	}
	return nil
}

// Result is the output of one Pipeline run.
type Result struct {
	Samples []float32
	// Windows is the primary pass window count.
	Windows int
	// ShiftedWindows is the overlap-add pass window count, zero when unused.
	ShiftedWindows int
	// Padding is the number of zero samples the framer appended.
	Padding  int
	Duration time.Duration
}

// Pipeline wires Framer, Scheduler and the configured reconstruction
// strategy into one run. It is not safe for concurrent use.
type Pipeline struct {
	cfg       Config
	log       logrus.FieldLogger
	scheduler *Scheduler
	taper     []float32
}

// New validates cfg and prepares the transform plan and taper. A nil logger
// falls back to the logrus standard logger.
func New(cfg Config, log logrus.FieldLogger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	sched, err := NewScheduler(cfg.WindowSize, cfg.Cutoff, cfg.Workers,
		WithMask(cfg.Mask), WithBackend(cfg.Backend))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		scheduler: sched,
		log: log.WithFields(logrus.Fields{
			"window":   cfg.WindowSize,
			"cutoff":   cfg.Cutoff,
			"strategy": cfg.Strategy.String(),
		}),
	}
	if cfg.Strategy == StrategyOverlapAdd {
		p.taper = HannTaper(cfg.WindowSize)
	}
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config { return p.cfg }

// Run filters signal and returns a new, owned sample slice. signal is not
// modified. An empty signal yields an empty result.
func (p *Pipeline) Run(signal []float32) (*Result, error) {
	start := time.Now()
	w := p.cfg.WindowSize

	if len(signal) == 0 {
		p.log.Debug("Empty signal, nothing to filter")
		return &Result{Samples: []float32{}}, nil
	}

	framed := Frame(signal, w)
	n := len(framed) / w
	res := &Result{Windows: n, Padding: len(framed) - len(signal)}

	p.log.WithFields(logrus.Fields{
		"samples": len(signal),
		"windows": n,
		"padding": res.Padding,
	}).Debug("Signal framed")

	primary, err := p.scheduler.Run(framed, 0, n)
	if err != nil {
		return nil, fmt.Errorf("primary pass: %w", err)
	}

	out := primary
	switch p.cfg.Strategy {
	case StrategyOverlapAdd:
		if n < 2 {
			p.log.Debug("Single window, skipping shifted pass")
			break
		}
		offset := ShiftOffset(w)
		shifted, err := p.scheduler.Run(framed, offset, n-1)
		if err != nil {
			return nil, fmt.Errorf("shifted pass: %w", err)
		}
		res.ShiftedWindows = n - 1
		if out, err = OverlapAdd(primary, shifted, p.taper); err != nil {
			return nil, fmt.Errorf("overlap-add: %w", err)
		}
	case StrategySmooth:
		if out, err = Smooth(primary, p.cfg.SmoothingPeriod); err != nil {
			return nil, fmt.Errorf("smoothing: %w", err)
		}
	}

	if p.cfg.Trim {
		out = out[:len(signal)]
	}
	res.Samples = out
	res.Duration = time.Since(start)

	p.log.WithFields(logrus.Fields{
		"windows":         res.Windows,
		"shifted_windows": res.ShiftedWindows,
		"output_samples":  len(out),
		"elapsed":         res.Duration,
	}).Info("Lowpass filtering completed")

	return res, nil
}
