package renderer

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Progress is a snapshot of a running render
type Progress struct {
	Done    int
	Total   int
	Percent float64
	Elapsed time.Duration
}

// progressReporter emits throttled progress. It never touches the pixel grid.
type progressReporter struct {
	total    int
	interval time.Duration
	logger   *slog.Logger
	callback func(Progress)
	start    time.Time
	done     atomic.Int64

	mu         sync.Mutex // Serializes reports so the final one is last
	lastReport time.Time
	finished   bool
}

func newProgressReporter(total int, interval time.Duration, logger *slog.Logger, callback func(Progress)) *progressReporter {
	now := time.Now()
	return &progressReporter{
		total:      total,
		interval:   interval,
		logger:     logger,
		callback:   callback,
		start:      now,
		lastReport: now,
	}
}

// pixelDone counts a finished pixel and reports if the interval has passed.
// The final pixel is always reported.
func (p *progressReporter) pixelDone() {
	done := int(p.done.Add(1))
	final := done == p.total
	if !final && p.interval <= 0 {
		return
	}

	now := time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished || (!final && now.Sub(p.lastReport) < p.interval) {
		return
	}
	p.lastReport = now
	p.finished = final

	progress := Progress{
		Done:    done,
		Total:   p.total,
		Percent: 100 * float64(done) / float64(p.total),
		Elapsed: now.Sub(p.start),
	}
	if !final {
		p.logger.Debug("render progress", "percent", progress.Percent, "pixels", done, "total", p.total)
	}
	if p.callback != nil {
		p.callback(progress)
	}
}
