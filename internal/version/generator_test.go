package version_test

import (
	"context"
	"errors"
	"testing"

	"github.com/examfoundry/examfoundry/internal/model"
	"github.com/examfoundry/examfoundry/internal/version"
)

func poolDoc(n int) model.AssessmentDocument {
	doc := model.AssessmentDocument{ID: "doc-1", Title: "T", Kind: model.KindQuiz}
	for i := 0; i < n; i++ {
		doc.Questions = append(doc.Questions, model.Question{
			Type: model.MultipleChoice, Prompt: "q", Points: 1, Position: i + 1,
			Options: []string{"w", "x", "y", "z"}, CorrectIndex: i % 4, NoExplanation: true,
		})
		doc.TotalPoints++
	}
	return doc
}

type fakeRegen struct {
	questions []model.Question
	err       error
	calls     int
}

func (f *fakeRegen) Regenerate(_ context.Context, _ model.GenerationParams) ([]model.Question, error) {
	f.calls++
	return f.questions, f.err
}

func TestCreatePicksLowestUnusedLetter(t *testing.T) {
	gen := version.NewGenerator(nil)
	doc := poolDoc(6)
	v, err := gen.Create(context.Background(), doc, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if v.Letter != "A" {
		t.Fatalf("first letter = %s, want A", v.Letter)
	}
	v2, err := gen.Create(context.Background(), doc, []model.Version{v}, "")
	if err != nil {
		t.Fatal(err)
	}
	if v2.Letter != "B" {
		t.Fatalf("second letter = %s, want B", v2.Letter)
	}
}

func TestCreateDeterministic(t *testing.T) {
	gen := version.NewGenerator(nil)
	doc := poolDoc(8)
	a1, err := gen.Create(context.Background(), doc, nil, "A")
	if err != nil {
		t.Fatal(err)
	}
	a2, err := gen.Create(context.Background(), doc, nil, "A")
	if err != nil {
		t.Fatal(err)
	}
	if a1.OrdinalKey() != a2.OrdinalKey() {
		t.Fatalf("same inputs must shuffle identically: %s vs %s", a1.OrdinalKey(), a2.OrdinalKey())
	}
}

func TestCreateUniqueAcrossLetters(t *testing.T) {
	gen := version.NewGenerator(nil)
	doc := poolDoc(8)
	var existing []model.Version
	seen := map[string]bool{model.OrdinalKey(doc.Questions): true}
	for i := 0; i < model.MaxVersions; i++ {
		v, err := gen.Create(context.Background(), doc, existing, "")
		if err != nil {
			t.Fatalf("letter %d: %v", i, err)
		}
		if seen[v.OrdinalKey()] {
			t.Fatalf("version %s repeats an existing ordinal sequence", v.Letter)
		}
		seen[v.OrdinalKey()] = true
		existing = append(existing, v)
	}
}

func TestCreateExhaustedAfterFive(t *testing.T) {
	gen := version.NewGenerator(nil)
	doc := poolDoc(8)
	var existing []model.Version
	for i := 0; i < model.MaxVersions; i++ {
		v, err := gen.Create(context.Background(), doc, existing, "")
		if err != nil {
			t.Fatal(err)
		}
		existing = append(existing, v)
	}
	_, err := gen.Create(context.Background(), doc, existing, "")
	var verr *version.Error
	if !errors.As(err, &verr) || verr.Kind != version.Exhausted {
		t.Fatalf("expected Exhausted, got %v", err)
	}
}

func TestCreateRequestedLetterConflict(t *testing.T) {
	gen := version.NewGenerator(nil)
	doc := poolDoc(4)
	v, err := gen.Create(context.Background(), doc, nil, "C")
	if err != nil {
		t.Fatal(err)
	}
	if v.Letter != "C" {
		t.Fatalf("letter = %s", v.Letter)
	}
	if _, err := gen.Create(context.Background(), doc, []model.Version{v}, "C"); err == nil {
		t.Fatal("duplicate requested letter must fail, not overwrite")
	}
}

func TestCreateRejectsLetterOutsideSpace(t *testing.T) {
	gen := version.NewGenerator(nil)
	doc := poolDoc(4)
	_, err := gen.Create(context.Background(), doc, nil, "Z")
	var verr *version.Error
	if !errors.As(err, &verr) || verr.Kind != version.InvalidLetter {
		t.Fatalf("letter outside A-E is a malformed request, not exhaustion; got %v", err)
	}
}

func TestCreateNoVariationSingleQuestion(t *testing.T) {
	gen := version.NewGenerator(nil)
	doc := poolDoc(1)
	_, err := gen.Create(context.Background(), doc, nil, "")
	var verr *version.Error
	if !errors.As(err, &verr) || verr.Kind != version.NoVariation {
		t.Fatalf("one question cannot vary in ordinal sequence; got %v", err)
	}
}

func TestCreateUsesRegeneratedQuestions(t *testing.T) {
	fresh := []model.Question{
		{Type: model.ShortAnswer, Prompt: "new-1", Points: 1, ReferenceAnswer: "r", NoExplanation: true},
		{Type: model.ShortAnswer, Prompt: "new-2", Points: 1, ReferenceAnswer: "r", NoExplanation: true},
		{Type: model.ShortAnswer, Prompt: "new-3", Points: 1, ReferenceAnswer: "r", NoExplanation: true},
	}
	regen := &fakeRegen{questions: fresh}
	gen := version.NewGenerator(regen)
	doc := poolDoc(3)

	v, err := gen.Create(context.Background(), doc, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if regen.calls != 1 {
		t.Fatalf("regenerator called %d times", regen.calls)
	}
	// regenerated positions 1..3 collide with the original ordinal sequence,
	// so the generator must have shuffled the fresh pool
	if v.OrdinalKey() == model.OrdinalKey(doc.Questions) {
		t.Fatal("regenerated version repeats the original ordinal sequence")
	}
	for _, q := range v.Questions {
		if q.Type != model.ShortAnswer {
			t.Fatalf("expected regenerated pool, found %s question", q.Type)
		}
	}
}

func TestCreateFallsBackWhenUnavailable(t *testing.T) {
	regen := &fakeRegen{err: version.ErrUnavailable}
	gen := version.NewGenerator(regen)
	doc := poolDoc(5)

	v, err := gen.Create(context.Background(), doc, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if regen.calls != 1 {
		t.Fatal("regenerator should have been consulted first")
	}
	if len(v.Questions) != 5 {
		t.Fatalf("fallback must preserve the original pool, got %d questions", len(v.Questions))
	}
	if v.OrdinalKey() == model.OrdinalKey(doc.Questions) {
		t.Fatal("fallback produced the original ordering")
	}
}

func TestOptionShuffleRelocatesCorrectIndex(t *testing.T) {
	gen := version.NewGenerator(nil)
	doc := poolDoc(4)
	v, err := gen.Create(context.Background(), doc, nil, "A")
	if err != nil {
		t.Fatal(err)
	}
	// match shuffled questions back to originals by position
	byPos := map[int]model.Question{}
	for _, q := range doc.Questions {
		byPos[q.Position] = q
	}
	for _, q := range v.Questions {
		orig := byPos[q.Position]
		if q.Options[q.CorrectIndex] != orig.Options[orig.CorrectIndex] {
			t.Fatalf("correct option lost in shuffle: %q vs %q",
				q.Options[q.CorrectIndex], orig.Options[orig.CorrectIndex])
		}
	}
}
