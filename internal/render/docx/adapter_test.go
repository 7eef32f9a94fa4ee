package docx_test

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/examfoundry/examfoundry/internal/blocks"
	"github.com/examfoundry/examfoundry/internal/branding"
	"github.com/examfoundry/examfoundry/internal/model"
	"github.com/examfoundry/examfoundry/internal/render/docx"
)

func quizDoc() model.AssessmentDocument {
	doc := model.AssessmentDocument{
		ID: "doc-1", Title: "Biology Exam", Kind: model.KindExam, TotalPoints: 6,
	}
	for i := 0; i < 3; i++ {
		doc.Questions = append(doc.Questions, model.Question{
			Type: model.MultipleChoice, Prompt: "Which cell?", Points: 2, Position: i + 1,
			Options: []string{"plant", "animal", "fungus"}, CorrectIndex: 1, NoExplanation: true,
		})
	}
	return doc
}

func renderDocx(t *testing.T, ctx *branding.RenderContext, showAnswers bool) []byte {
	t.Helper()
	seq, err := blocks.Compile(quizDoc(), nil, ctx, showAnswers)
	if err != nil {
		t.Fatal(err)
	}
	out, err := docx.New().Render(seq, ctx)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func part(t *testing.T, archive []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("not a zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(b)
	}
	return ""
}

func TestRenderProducesValidPackage(t *testing.T) {
	out := renderDocx(t, nil, false)
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml"} {
		if part(t, out, name) == "" {
			t.Fatalf("missing package part %s", name)
		}
	}
}

func TestRenderStudentOmitsAnswers(t *testing.T) {
	doc := part(t, renderDocx(t, nil, false), "word/document.xml")
	if strings.Contains(doc, "correct") {
		t.Fatal("student document must not contain the word \"correct\"")
	}
	if strings.Contains(doc, "Answer Key") {
		t.Fatal("student document must not contain an answer key")
	}
}

func TestRenderInstructorMarksAnswers(t *testing.T) {
	doc := part(t, renderDocx(t, nil, true), "word/document.xml")
	if got := strings.Count(doc, "(correct)"); got != 3 {
		t.Fatalf("want one inline answer indicator per question (3), got %d", got)
	}
	if !strings.Contains(doc, "Answer Key") {
		t.Fatal("instructor document must include the answer key")
	}
}

func TestRenderWatermarkFooter(t *testing.T) {
	ctx := &branding.RenderContext{Watermark: "CONFIDENTIAL"}
	out := renderDocx(t, ctx, false)

	footer := part(t, out, "word/footer1.xml")
	if !strings.Contains(footer, "CONFIDENTIAL") {
		t.Fatal("watermark text missing from footer part")
	}
	doc := part(t, out, "word/document.xml")
	if !strings.Contains(doc, "footerReference") {
		t.Fatal("document section must reference the footer")
	}

	plain := renderDocx(t, nil, false)
	if part(t, plain, "word/footer1.xml") != "" {
		t.Fatal("no watermark requested, footer part must be absent")
	}
}

func TestRenderTitleOnce(t *testing.T) {
	doc := part(t, renderDocx(t, nil, false), "word/document.xml")
	if got := strings.Count(doc, "Biology Exam"); got != 1 {
		t.Fatalf("title rendered %d times, want once", got)
	}
}

func TestRenderKeepDirectives(t *testing.T) {
	doc := part(t, renderDocx(t, nil, false), "word/document.xml")
	if got := strings.Count(doc, "<w:keepNext/>"); got != 3 {
		t.Fatalf("every question header needs keepNext, got %d", got)
	}
	if !strings.Contains(doc, "<w:keepLines/>") {
		t.Fatal("option lists need keepLines")
	}
}

func TestRenderEscapesContent(t *testing.T) {
	d := quizDoc()
	d.Questions[0].Prompt = `a < b & "c"`
	seq, err := blocks.Compile(d, nil, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	out, err := docx.New().Render(seq, nil)
	if err != nil {
		t.Fatal(err)
	}
	body := part(t, out, "word/document.xml")
	if !strings.Contains(body, "a &lt; b &amp; &quot;c&quot;") {
		t.Fatal("prompt content must be XML-escaped")
	}
}

func TestRenderDeterministic(t *testing.T) {
	a := renderDocx(t, nil, false)
	b := renderDocx(t, nil, false)
	if !bytes.Equal(a, b) {
		t.Fatal("identical inputs must produce byte-identical output")
	}
}
