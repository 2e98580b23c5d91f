package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidWorkers is returned for a worker count that is neither
// non-negative nor one of the WorkersAuto / WorkersAll sentinels
var ErrInvalidWorkers = errors.New("invalid worker count")

const (
	// WorkersAuto uses every CPU but reservedCPUs, and at least one worker
	WorkersAuto = -1
	// WorkersAll uses one worker per CPU
	WorkersAll = -2

	reservedCPUs = 2
)

// SchedulerState is the lifecycle of a PixelScheduler
type SchedulerState int32

const (
	StateIdle SchedulerState = iota
	StateRunning
	StateComplete
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("SchedulerState(%d)", int32(s))
	}
}

// PixelFunc renders a single pixel
type PixelFunc func(col, row int)

// PixelScheduler hands every pixel of a width by height grid to exactly one
// call of a PixelFunc. Workers claim pixels through a shared atomic cursor.
// A scheduler runs once.
type PixelScheduler struct {
	width, height int
	workers       int // Resolved count; 0 means the calling goroutine
	cursor        atomic.Int64
	state         atomic.Int32
}

// NewPixelScheduler creates a scheduler. workers is 0 for sequential
// rendering, a positive count, WorkersAuto or WorkersAll.
func NewPixelScheduler(width, height, workers int) (*PixelScheduler, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w, got %dx%d", ErrInvalidResolution, width, height)
	}
	resolved, err := resolveWorkers(workers)
	if err != nil {
		return nil, err
	}
	return &PixelScheduler{width: width, height: height, workers: resolved}, nil
}

// resolveWorkers turns the configured worker count into an actual one
func resolveWorkers(workers int) (int, error) {
	switch {
	case workers >= 0:
		return workers, nil
	case workers == WorkersAuto:
		return max(1, runtime.NumCPU()-reservedCPUs), nil
	case workers == WorkersAll:
		return runtime.NumCPU(), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}
}

// Workers returns the number of worker goroutines, 0 when sequential
func (s *PixelScheduler) Workers() int {
	return s.workers
}

// State returns the current lifecycle state
func (s *PixelScheduler) State() SchedulerState {
	return SchedulerState(s.state.Load())
}

// next claims the next unrendered pixel
func (s *PixelScheduler) next() (col, row int, ok bool) {
	index := s.cursor.Add(1) - 1
	if index >= int64(s.width*s.height) {
		return 0, 0, false
	}
	return int(index) % s.width, int(index) / s.width, true
}

// drain renders pixels until the grid is exhausted
func (s *PixelScheduler) drain(render PixelFunc) {
	for {
		col, row, ok := s.next()
		if !ok {
			return
		}
		render(col, row)
	}
}

// Run renders the whole grid and returns once every pixel is done
func (s *PixelScheduler) Run(render PixelFunc) error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return fmt.Errorf("scheduler is %s: %w", s.State(), ErrRenderInProgress)
	}

	if s.workers == 0 {
		s.drain(render)
	} else {
		var g errgroup.Group
		for i := 0; i < s.workers; i++ {
			g.Go(func() error {
				s.drain(render)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	s.state.Store(int32(StateComplete))
	return nil
}
