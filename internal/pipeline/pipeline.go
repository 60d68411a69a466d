package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/ankikana/internal/model"
)

// Step is one stage of note processing.
//
// Design decision: steps share one *model.NoteResult instead of passing
// values from one to the next. A later step (the safety net, the write-back)
// needs fields set by several earlier ones, and the report writers read the
// same record, so every intermediate value stays visible in the report.
type Step interface {
	// Do executes the step. Returning an error stops the note unless the
	// pipeline continues on error; recoverable problems should be recorded
	// in the result instead.
	Do(ctx context.Context, result *model.NoteResult) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline runs steps in order against one note at a time.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running later steps after one fails.
// The default is to stop, since later steps depend on earlier ones.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps against result. The first step error is recorded
// in result and returned; with WithContinueOnError the remaining steps still
// run and the first error is returned at the end.
//
// Design decision: cancellation is checked between steps, never inside one.
// A note whose write-back has started is finished, so an interrupted run
// never leaves a field half updated.
func (p *Pipeline) Execute(ctx context.Context, result *model.NoteResult) error {
	var firstErr error
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "note", result.NoteID, "reason", err)
			if firstErr == nil {
				result.SetError(err)
			}
			return err
		}

		p.logger.Debug("executing step", "step", step.Name(), "note", result.NoteID)

		if err := step.Do(ctx, result); err != nil {
			p.logger.Warn("step failed", "step", step.Name(), "note", result.NoteID, "error", err)
			if firstErr == nil {
				firstErr = err
				result.SetError(err)
			}
			if !p.continueOnError {
				return err
			}
		}
	}
	return firstErr
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
