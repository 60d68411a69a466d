package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/ankikana/internal/model"
	"golang.org/x/sync/errgroup"
)

// Processor feeds notes through a Pipeline and collects the results into a
// RunReport in deck order.
//
// Design decision: each note owns a slot in a results slice sized up front,
// and the report is filled from that slice once every job has returned.
// Jobs never touch the RunReport, so it needs no lock and the order of the
// report does not depend on which note finished first.
type Processor struct {
	pipeline *Pipeline
	logger   *slog.Logger
	jobs     int
	onResult func(result *model.NoteResult, index int)
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithProcessorLogger sets a custom logger for run-level logging.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithJobs sets how many notes are converted at once. Default is 1.
func WithJobs(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.jobs = n
		}
	}
}

// WithResultCallback registers fn to be called after each note is finalized.
// Calls are serialized, but with more than one job they do not arrive in
// deck order.
func WithResultCallback(fn func(result *model.NoteResult, index int)) ProcessorOption {
	return func(p *Processor) {
		p.onResult = fn
	}
}

// NewProcessor creates a Processor around pipeline.
func NewProcessor(pipeline *Pipeline, opts ...ProcessorOption) *Processor {
	p := &Processor{pipeline: pipeline, jobs: 1}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Process runs every note and appends its result to report. A failing note
// never stops the run; only cancellation of ctx does, in which case the notes
// not yet started are left out of the report and ctx.Err() is returned.
func (p *Processor) Process(ctx context.Context, notes []model.Note, report *model.RunReport) error {
	p.logger.Info("starting conversion", "deck", report.Deck, "notes", len(notes), "jobs", p.jobs)
	start := time.Now()

	// Failing notes are recorded, not returned, so a plain Group is enough.
	var (
		g       errgroup.Group
		mu      sync.Mutex
		results = make([]*model.NoteResult, len(notes))
	)
	g.SetLimit(p.jobs)

	for i := range notes {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			result := model.NewNoteResult(&notes[i])
			if err := p.pipeline.Execute(ctx, result); err != nil {
				p.logger.Debug("note skipped", "note", result.NoteID, "error", err)
			}
			result.Finalize()
			results[i] = result

			if p.onResult != nil {
				mu.Lock()
				p.onResult(result, i)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	processed := 0
	for _, result := range results {
		if result != nil {
			report.Add(result)
			processed++
		}
	}

	if processed < len(notes) {
		p.logger.Warn("conversion cancelled", "processed", processed, "total", len(notes))
		return ctx.Err()
	}

	p.logger.Info("conversion complete", "deck", report.Deck, "notes", len(notes), "elapsed", time.Since(start))
	return nil
}
