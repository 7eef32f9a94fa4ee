package model_test

import (
	"errors"
	"testing"

	"github.com/examfoundry/examfoundry/internal/model"
)

func validDoc() model.AssessmentDocument {
	return model.AssessmentDocument{
		ID:          "doc-1",
		Title:       "Algebra Midterm",
		Kind:        model.KindExam,
		TotalPoints: 10,
		Questions: []model.Question{
			{
				Type: model.MultipleChoice, Prompt: "2+2=?", Points: 4, Position: 1,
				Options: []string{"3", "4", "5"}, CorrectIndex: 1, Explanation: "basic addition",
			},
			{
				Type: model.TrueFalse, Prompt: "7 is prime.", Points: 2, Position: 2,
				AnswerBool: true, NoExplanation: true,
			},
			{
				Type: model.FillBlank, Prompt: "The capital of France is .", Points: 4, Position: 3,
				BlankIndex: 25, BlankText: "Paris", Explanation: "geography",
			},
		},
		Params: model.GenerationParams{Language: "en", Count: 3},
	}
}

func TestValidateOK(t *testing.T) {
	if err := model.Validate(validDoc()); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidatePointSumMismatch(t *testing.T) {
	doc := validDoc()
	doc.TotalPoints = 11
	err := model.Validate(doc)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.QuestionIndex != -1 || verr.Field != "total_points" {
		t.Fatalf("wrong error target: %+v", verr)
	}
}

func TestValidateEmptyQuestions(t *testing.T) {
	doc := validDoc()
	doc.Questions = nil
	doc.TotalPoints = 0
	if err := model.Validate(doc); err == nil {
		t.Fatal("expected error for empty question list")
	}
}

func TestValidateCorrectIndexBounds(t *testing.T) {
	doc := validDoc()
	doc.Questions[0].CorrectIndex = 3
	err := model.Validate(doc)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.QuestionIndex != 0 || verr.Field != "correct_index" {
		t.Fatalf("error should name question 0 / correct_index: %+v", verr)
	}
}

func TestValidateOptionCount(t *testing.T) {
	doc := validDoc()
	doc.Questions[0].Options = []string{"only one"}
	doc.Questions[0].CorrectIndex = 0
	if err := model.Validate(doc); err == nil {
		t.Fatal("expected error for single option")
	}
}

func TestValidateExplanationRequired(t *testing.T) {
	doc := validDoc()
	doc.Questions[0].Explanation = ""
	doc.Questions[0].NoExplanation = false
	err := model.Validate(doc)
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.Field != "explanation" {
		t.Fatalf("expected explanation error, got %v", err)
	}
}

func TestValidateLanguageTag(t *testing.T) {
	doc := validDoc()
	doc.Params.Language = "not a tag!!"
	if err := model.Validate(doc); err == nil {
		t.Fatal("expected error for malformed locale tag")
	}
	doc.Params.Language = "ar-EG"
	if err := model.Validate(doc); err != nil {
		t.Fatalf("ar-EG should be accepted: %v", err)
	}
}

func TestValidateBlankIndexBounds(t *testing.T) {
	doc := validDoc()
	doc.Questions[2].BlankIndex = 9999
	err := model.Validate(doc)
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.QuestionIndex != 2 {
		t.Fatalf("expected blank_index error on question 2, got %v", err)
	}
}

func TestValidatePositions(t *testing.T) {
	// duplicate positions collapse distinct orderings into one ordinal key
	doc := validDoc()
	doc.Questions[1].Position = 1
	err := model.Validate(doc)
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.QuestionIndex != 1 || verr.Field != "position" {
		t.Fatalf("expected position error on question 1, got %v", err)
	}

	doc = validDoc()
	doc.Questions[0].Position = 0
	if !errors.As(model.Validate(doc), &verr) || verr.Field != "position" {
		t.Fatal("zero position must be rejected")
	}
}

func TestOrdinalKey(t *testing.T) {
	doc := validDoc()
	if got := model.OrdinalKey(doc.Questions); got != "1-2-3" {
		t.Fatalf("ordinal key = %q, want 1-2-3", got)
	}
}
