package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/ankikana/internal/convert"
	"github.com/nao1215/ankikana/internal/model"
	"github.com/nao1215/ankikana/internal/sanitize"
	"github.com/nao1215/ankikana/internal/script"
)

// ErrMissingField is returned when a note lacks the field to convert.
var ErrMissingField = errors.New("note has no such field")

// ExtractStep reads the romaji field and the optional written field.
type ExtractStep struct {
	romajiField  string
	writtenField string
}

// NewExtractStep creates an ExtractStep. An empty writtenField means no hint.
func NewExtractStep(romajiField, writtenField string) *ExtractStep {
	return &ExtractStep{romajiField: romajiField, writtenField: writtenField}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do implements Step.
func (s *ExtractStep) Do(_ context.Context, result *model.NoteResult) error {
	if result.Note == nil {
		return fmt.Errorf("%w: %q", ErrMissingField, s.romajiField)
	}
	source, ok := result.Note.FieldValue(s.romajiField)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingField, s.romajiField)
	}
	result.Source = source

	if s.writtenField == "" {
		return nil
	}
	hint, ok := result.Note.FieldValue(s.writtenField)
	if !ok {
		result.AddMessage("note has no %q field; converting without a hint", s.writtenField)
		return nil
	}
	result.RawHint = hint
	result.HasHint = true
	return nil
}

// SanitizeStep sanitizes the source and the hint with the same Sanitizer.
type SanitizeStep struct {
	sanitizer *sanitize.Sanitizer
}

// NewSanitizeStep creates a SanitizeStep.
func NewSanitizeStep(sanitizer *sanitize.Sanitizer) *SanitizeStep {
	return &SanitizeStep{sanitizer: sanitizer}
}

// Name returns the step name.
func (s *SanitizeStep) Name() string {
	return "sanitize"
}

// Do implements Step.
func (s *SanitizeStep) Do(_ context.Context, result *model.NoteResult) error {
	result.Sanitized = s.sanitizer.Sanitize(result.Source)
	if result.HasHint {
		result.Hint = s.sanitizer.Sanitize(result.RawHint)
	}
	return nil
}

// DecideStep runs the conversion engine.
type DecideStep struct {
	engine *convert.Engine
}

// NewDecideStep creates a DecideStep.
func NewDecideStep(engine *convert.Engine) *DecideStep {
	return &DecideStep{engine: engine}
}

// Name returns the step name.
func (s *DecideStep) Name() string {
	return "decide"
}

// Do implements Step.
func (s *DecideStep) Do(_ context.Context, result *model.NoteResult) error {
	res, err := s.engine.Decide(result.Sanitized, result.Hint, result.HasHint)
	if err != nil {
		if errors.Is(err, convert.ErrEmptySource) {
			result.AddMessage("empty field; the note may be malformed and needs to be fixed by hand")
		}
		return err
	}

	result.Converted = res.Text
	result.Final = res.Text
	result.Branch = res.Branch.String()
	if result.HasHint && result.Hint != "" {
		result.HintProfile = res.HintProfile.String()
	}
	result.UsedHint = res.UsedHint
	result.UsedDictionary = res.UsedDictionary
	result.HasWarning = res.HasWarning
	result.AlreadyConverted = res.AlreadyConverted

	switch {
	case res.Ambiguous():
		result.Candidates = make([]model.Candidate, len(res.Candidates))
		for i, e := range res.Candidates {
			result.Candidates[i] = model.Candidate{Word: e.Word, Reading: e.Reading, Gloss: e.Gloss}
		}
		result.AddMessage("multiple dictionary entries found for %q; picked the first", result.Hint)
	case res.UsedDictionary:
		result.AddMessage("using dictionary reading %q for %q", res.Text, result.Hint)
	case res.HasWarning && result.Hint != "":
		result.AddMessage("no dictionary readings found for %q", result.Hint)
	case res.HasWarning:
		result.AddMessage("conversion is not purely Japanese and there is no written field to look up")
	}
	return nil
}

// Suggester proposes a kana reading for Japanese text.
type Suggester interface {
	Suggest(text string) (string, bool, error)
}

// SuggestStep attaches a reading suggestion to conversions that stayed
// suspicious. It never changes the converted text.
type SuggestStep struct {
	suggester Suggester
	logger    *slog.Logger
}

// NewSuggestStep creates a SuggestStep.
func NewSuggestStep(suggester Suggester, logger *slog.Logger) *SuggestStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestStep{suggester: suggester, logger: logger}
}

// Name returns the step name.
func (s *SuggestStep) Name() string {
	return "suggest"
}

// Do implements Step.
func (s *SuggestStep) Do(_ context.Context, result *model.NoteResult) error {
	if !result.HasWarning || !script.Profile(result.Hint).Has(script.Kanji) {
		return nil
	}
	suggestion, complete, err := s.suggester.Suggest(result.Hint)
	if err != nil {
		s.logger.Warn("reading suggestion failed", "hint", result.Hint, "error", err)
		return nil
	}
	if suggestion == "" || suggestion == result.Converted {
		return nil
	}
	result.Suggestion = suggestion
	if !complete {
		result.AddMessage("suggested reading %q is partial", suggestion)
	}
	return nil
}

// SafetyNetStep appends the original field text to conversions with warnings,
// so that a bad conversion does not destroy the original data.
type SafetyNetStep struct {
	enabled bool
}

// NewSafetyNetStep creates a SafetyNetStep.
func NewSafetyNetStep(enabled bool) *SafetyNetStep {
	return &SafetyNetStep{enabled: enabled}
}

// Name returns the step name.
func (s *SafetyNetStep) Name() string {
	return "safety_net"
}

// Do implements Step.
func (s *SafetyNetStep) Do(_ context.Context, result *model.NoteResult) error {
	if !s.enabled || !result.HasWarning {
		return nil
	}
	result.Final = strings.Join([]string{result.Converted, result.Source}, " ")
	result.SafetyNet = true
	result.AddMessage("conversion had warnings; keeping the original text after it")
	return nil
}

// FieldWriter saves note fields.
type FieldWriter interface {
	UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error
}

// WriteStep writes the final text back to the romaji field.
type WriteStep struct {
	writer FieldWriter
	field  string
	dryRun bool
}

// NewWriteStep creates a WriteStep. With dryRun set nothing is written.
func NewWriteStep(writer FieldWriter, field string, dryRun bool) *WriteStep {
	return &WriteStep{writer: writer, field: field, dryRun: dryRun}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do implements Step.
func (s *WriteStep) Do(ctx context.Context, result *model.NoteResult) error {
	if s.dryRun {
		return nil
	}
	if result.Final == result.Sanitized || !result.Changed() {
		// Already converted.
		return nil
	}
	if err := s.writer.UpdateNoteFields(ctx, result.NoteID, map[string]string{s.field: result.Final}); err != nil {
		return fmt.Errorf("failed to update note %d: %w", result.NoteID, err)
	}
	result.Written = true
	return nil
}
