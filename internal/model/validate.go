package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// ValidationError identifies the first malformed part of a document. A
// QuestionIndex of -1 means the defect is document-level.
type ValidationError struct {
	QuestionIndex int
	Field         string
	Reason        string
}

func (e *ValidationError) Error() string {
	if e.QuestionIndex < 0 {
		return fmt.Sprintf("invalid document: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid document: question %d: %s: %s", e.QuestionIndex, e.Field, e.Reason)
}

func docErr(field, reason string) *ValidationError {
	return &ValidationError{QuestionIndex: -1, Field: field, Reason: reason}
}

func qErr(i int, field, reason string) *ValidationError {
	return &ValidationError{QuestionIndex: i, Field: field, Reason: reason}
}

const (
	minOptions = 2
	maxOptions = 8
)

// Validate checks the document against the content-model invariants. Callers
// must not render a document that fails validation.
func Validate(doc AssessmentDocument) error {
	if strings.TrimSpace(doc.Title) == "" {
		return docErr("title", "must not be empty")
	}
	if doc.Kind != KindQuiz && doc.Kind != KindExam {
		return docErr("kind", fmt.Sprintf("unknown kind %q", doc.Kind))
	}
	if len(doc.Questions) == 0 {
		return docErr("questions", "must contain at least one question")
	}
	if doc.Params.Language != "" {
		if _, err := language.Parse(doc.Params.Language); err != nil {
			return docErr("generation_params.language", fmt.Sprintf("unsupported locale tag %q", doc.Params.Language))
		}
	}

	var sum float64
	positions := make(map[int]bool, len(doc.Questions))
	for i, q := range doc.Questions {
		if err := validateQuestion(i, q); err != nil {
			return err
		}
		// positions are the ordinal identity of a version; zeros or duplicates
		// would collapse distinct orderings into one
		if q.Position <= 0 {
			return qErr(i, "position", "must be positive")
		}
		if positions[q.Position] {
			return qErr(i, "position", fmt.Sprintf("duplicate position %d", q.Position))
		}
		positions[q.Position] = true
		sum += q.Points
	}
	if math.Abs(sum-doc.TotalPoints) > 1e-9 {
		return docErr("total_points", fmt.Sprintf("declared %v but questions sum to %v", doc.TotalPoints, sum))
	}
	return nil
}

func validateQuestion(i int, q Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return qErr(i, "prompt", "must not be empty")
	}
	if q.Points < 0 {
		return qErr(i, "points", "must not be negative")
	}
	if q.Explanation == "" && !q.NoExplanation {
		return qErr(i, "explanation", "must be set or explicitly marked no_explanation")
	}
	switch q.Type {
	case MultipleChoice:
		if len(q.Options) < minOptions || len(q.Options) > maxOptions {
			return qErr(i, "options", fmt.Sprintf("need %d-%d options, got %d", minOptions, maxOptions, len(q.Options)))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return qErr(i, "correct_index", fmt.Sprintf("index %d out of bounds for %d options", q.CorrectIndex, len(q.Options)))
		}
	case TrueFalse:
		// AnswerBool carries the key; nothing structural to check.
	case ShortAnswer:
		if strings.TrimSpace(q.ReferenceAnswer) == "" {
			return qErr(i, "reference_answer", "must not be empty")
		}
	case Essay:
		if strings.TrimSpace(q.ReferenceAnswer) == "" {
			return qErr(i, "reference_answer", "must not be empty")
		}
		if q.AnswerLines < 0 {
			return qErr(i, "answer_lines", "must not be negative")
		}
	case FillBlank:
		if q.BlankIndex < 0 || q.BlankIndex > utf8.RuneCountInString(q.Prompt) {
			return qErr(i, "blank_index", fmt.Sprintf("offset %d outside prompt of %d runes", q.BlankIndex, utf8.RuneCountInString(q.Prompt)))
		}
		if strings.TrimSpace(q.BlankText) == "" {
			return qErr(i, "blank_text", "must not be empty")
		}
	default:
		return qErr(i, "type", fmt.Sprintf("unknown question type %q", q.Type))
	}
	return nil
}

// OrdinalKey reduces a question list to its ordinal sequence, the comparable
// identity used by the version uniqueness invariant.
func OrdinalKey(qs []Question) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = strconv.Itoa(q.Position)
	}
	return strings.Join(parts, "-")
}
