package blocks

import (
	"fmt"
	"strings"

	"github.com/examfoundry/examfoundry/internal/branding"
	"github.com/examfoundry/examfoundry/internal/model"
)

// optionLabels letters multiple-choice options A)-H).
const optionLabels = "ABCDEFGH"

// Compile lowers a validated document (or one of its versions) into a block
// sequence. ver selects the question set; nil compiles the original. The
// front matter is built exactly once, as a single block, before any question.
func Compile(doc model.AssessmentDocument, ver *model.Version, ctx *branding.RenderContext, showAnswers bool) (BlockSequence, error) {
	if ctx == nil {
		ctx = &branding.RenderContext{}
	}
	questions := doc.Questions
	versionLabel := ""
	if ver != nil {
		questions = ver.Questions
		versionLabel = string(ver.Letter)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("compile: no questions to lay out")
	}

	seq := BlockSequence{frontMatter(doc, questions, versionLabel, ctx)}

	for i, q := range questions {
		qb, err := questionBlock(i+1, q, showAnswers)
		if err != nil {
			return nil, err
		}
		seq = append(seq, qb)
	}

	if showAnswers {
		key := &AnswerKeyBlock{}
		for i, q := range questions {
			entry, err := keyEntry(i+1, q)
			if err != nil {
				return nil, err
			}
			key.Entries = append(key.Entries, entry)
		}
		seq = append(seq, key)
	}
	return seq, nil
}

// frontMatter computes the point and question totals from the question set
// actually being laid out, not the document's declared ones; a regenerated
// version may differ from the original in both.
func frontMatter(doc model.AssessmentDocument, questions []model.Question, versionLabel string, ctx *branding.RenderContext) *FrontMatter {
	fm := &FrontMatter{
		Title: TitleBlock{
			Text:         doc.Title,
			Kind:         doc.Kind,
			VersionLabel: versionLabel,
			Logo:         ctx.Logo,
			LogoFormat:   ctx.LogoFormat,
		},
	}

	rows := append([]branding.Row{}, ctx.Institution...)
	rows = append(rows, ctx.Meta...)
	if doc.DurationMinutes > 0 {
		rows = append(rows, branding.Row{Label: "Duration", Value: fmt.Sprintf("%d minutes", doc.DurationMinutes)})
	}
	var points float64
	for _, q := range questions {
		points += q.Points
	}
	rows = append(rows, branding.Row{Label: "Total Points", Value: trimFloat(points)})
	rows = append(rows, branding.Row{Label: "Questions", Value: fmt.Sprintf("%d", len(questions))})
	fm.Metadata = &MetadataTable{Rows: rows}

	if len(ctx.StudentFields) > 0 {
		fm.StudentInfo = &StudentInfoTable{Fields: append([]string{}, ctx.StudentFields...)}
	}
	if ctx.Notes != "" {
		fm.Instructions = &InstructionsBlock{Text: ctx.Notes}
	}
	return fm
}

func questionBlock(number int, q model.Question, showAnswers bool) (*QuestionBlock, error) {
	qb := &QuestionBlock{
		Number:       number,
		Points:       q.Points,
		Prompt:       q.Prompt,
		KeepWithNext: true,
	}
	switch q.Type {
	case model.MultipleChoice:
		qb.Body = &OptionList{
			Options:      append([]string{}, q.Options...),
			CorrectIndex: q.CorrectIndex,
			ShowCorrect:  showAnswers,
		}
		// an option list must never split across a page boundary
		qb.KeepTogether = true
	case model.TrueFalse:
		qb.Body = &BooleanChoice{Answer: q.AnswerBool, ShowCorrect: showAnswers}
		qb.KeepTogether = true
	case model.ShortAnswer:
		qb.Body = &AnswerLines{Lines: 3}
	case model.Essay:
		lines := q.AnswerLines
		if lines <= 0 {
			lines = 10
		}
		qb.Body = &EssaySpace{Lines: lines}
	case model.FillBlank:
		before, after := splitAtRune(q.Prompt, q.BlankIndex)
		qb.Prompt = ""
		qb.Body = &BlankRun{Before: before, After: after, Fill: q.BlankText, ShowFill: showAnswers}
		qb.KeepTogether = true
	default:
		return nil, fmt.Errorf("compile: question %d: unknown type %q", number, q.Type)
	}
	return qb, nil
}

func keyEntry(number int, q model.Question) (AnswerKeyEntry, error) {
	e := AnswerKeyEntry{Number: number, Explanation: q.Explanation}
	switch q.Type {
	case model.MultipleChoice:
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return e, fmt.Errorf("compile: question %d: correct index out of bounds", number)
		}
		e.Answer = fmt.Sprintf("%c) %s", optionLabels[q.CorrectIndex], q.Options[q.CorrectIndex])
	case model.TrueFalse:
		if q.AnswerBool {
			e.Answer = "True"
		} else {
			e.Answer = "False"
		}
	case model.ShortAnswer, model.Essay:
		e.Answer = q.ReferenceAnswer
	case model.FillBlank:
		e.Answer = q.BlankText
	default:
		return e, fmt.Errorf("compile: question %d: unknown type %q", number, q.Type)
	}
	return e, nil
}

func splitAtRune(s string, idx int) (string, string) {
	runes := []rune(s)
	if idx < 0 {
		idx = 0
	}
	if idx > len(runes) {
		idx = len(runes)
	}
	return string(runes[:idx]), string(runes[idx:])
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
