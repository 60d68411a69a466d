package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/ankikana/internal/model"
)

func testNotes(values ...string) []model.Note {
	notes := make([]model.Note, len(values))
	for i, v := range values {
		notes[i] = model.Note{
			NoteID: int64(i + 1),
			Fields: map[string]model.Field{"Romaji": {Value: v}},
		}
	}
	return notes
}

func TestProcessor_Process(t *testing.T) {
	t.Parallel()

	t.Run("isolates failing notes", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		p := New(WithLogger(quietLogger()))
		p.AddStep(&mockStep{name: "fail-on-second", doFunc: func(_ context.Context, r *model.NoteResult) error {
			if r.NoteID == 2 {
				return boom
			}
			r.Source = "x"
			r.Final = "y"
			return nil
		}})

		var seen []int
		proc := NewProcessor(p,
			WithProcessorLogger(quietLogger()),
			WithResultCallback(func(_ *model.NoteResult, index int) { seen = append(seen, index) }),
		)

		report := model.NewRunReport("deck", "Romaji", "")
		if err := proc.Process(context.Background(), testNotes("a", "b", "c"), report); err != nil {
			t.Fatalf("Process() error = %v", err)
		}

		if len(report.Notes) != 3 {
			t.Fatalf("expected 3 results, got %d", len(report.Notes))
		}
		if report.Notes[1].Status != model.StatusError {
			t.Errorf("second note status = %v, want ERROR", report.Notes[1].Status)
		}
		if report.Notes[0].Status != model.StatusConverted || report.Notes[2].Status != model.StatusConverted {
			t.Errorf("other notes must still convert: %v, %v", report.Notes[0].Status, report.Notes[2].Status)
		}
		if len(seen) != 3 || seen[2] != 2 {
			t.Errorf("callback indexes = %v", seen)
		}
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		p := New(WithLogger(quietLogger()))
		p.AddStep(&mockStep{name: "cancel-after-first", doFunc: func(context.Context, *model.NoteResult) error {
			cancel()
			return nil
		}})

		report := model.NewRunReport("deck", "Romaji", "")
		err := NewProcessor(p, WithProcessorLogger(quietLogger())).Process(ctx, testNotes("a", "b", "c"), report)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(report.Notes) != 1 {
			t.Errorf("expected only the first note in the report, got %d", len(report.Notes))
		}
	})
}

// funcStep is a stateless Step, safe to share between jobs.
type funcStep func(ctx context.Context, result *model.NoteResult) error

func (f funcStep) Do(ctx context.Context, result *model.NoteResult) error { return f(ctx, result) }

func (funcStep) Name() string { return "func" }

func TestProcessor_Jobs(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	p := New(WithLogger(quietLogger()))
	p.AddStep(funcStep(func(_ context.Context, r *model.NoteResult) error {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		r.Source = "x"
		r.Final = fmt.Sprintf("note-%d", r.NoteID)
		return nil
	}))

	values := make([]string, 20)
	for i := range values {
		values[i] = "x"
	}

	var calls atomic.Int32
	proc := NewProcessor(p,
		WithProcessorLogger(quietLogger()),
		WithJobs(4),
		WithResultCallback(func(*model.NoteResult, int) { calls.Add(1) }),
	)

	report := model.NewRunReport("deck", "Romaji", "")
	if err := proc.Process(context.Background(), testNotes(values...), report); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(report.Notes) != len(values) {
		t.Fatalf("expected %d results, got %d", len(values), len(report.Notes))
	}
	for i, r := range report.Notes {
		if r.NoteID != int64(i+1) || r.Final != fmt.Sprintf("note-%d", i+1) {
			t.Errorf("result %d out of order: note %d, final %q", i, r.NoteID, r.Final)
		}
	}
	if got := peak.Load(); got > 4 {
		t.Errorf("expected at most 4 notes in flight, got %d", got)
	}
	if got := calls.Load(); got != int32(len(values)) {
		t.Errorf("expected %d callbacks, got %d", len(values), got)
	}
}
