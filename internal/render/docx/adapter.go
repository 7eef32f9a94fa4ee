// Package docx renders block sequences to an OOXML word-processing document.
// The package is assembled the same way the engine assembles QTI-style
// archives: archive/zip plus hand-built XML parts.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/examfoundry/examfoundry/internal/blocks"
	"github.com/examfoundry/examfoundry/internal/branding"
	"github.com/examfoundry/examfoundry/internal/model"
	"github.com/examfoundry/examfoundry/internal/render"
)

func init() { render.Register(model.FormatDocx, New()) }

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Render(seq blocks.BlockSequence, ctx *branding.RenderContext) ([]byte, error) {
	if ctx == nil {
		ctx = &branding.RenderContext{}
	}
	var body strings.Builder
	for i, b := range seq {
		switch blk := b.(type) {
		case *blocks.FrontMatter:
			writeFrontMatter(&body, blk)
		case *blocks.QuestionBlock:
			if err := writeQuestion(&body, i, blk); err != nil {
				return nil, err
			}
		case *blocks.AnswerKeyBlock:
			writeAnswerKey(&body, blk)
		default:
			return nil, render.Errorf(model.FormatDocx, i, "unsupported block type %T", b)
		}
	}

	hasFooter := ctx.Watermark != ""
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML(hasFooter)},
		{"_rels/.rels", relsXML},
		{"word/_rels/document.xml.rels", documentRelsXML(hasFooter)},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", documentXML(body.String(), hasFooter)},
	}
	if hasFooter {
		parts = append(parts, struct{ name, content string }{"word/footer1.xml", footerXML(ctx.Watermark)})
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, render.Errorf(model.FormatDocx, 0, "zip %s: %v", p.name, err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, render.Errorf(model.FormatDocx, 0, "zip %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, render.Errorf(model.FormatDocx, 0, "zip close: %v", err)
	}
	return buf.Bytes(), nil
}

func writeFrontMatter(b *strings.Builder, fm *blocks.FrontMatter) {
	title := fm.Title.Text
	if fm.Title.VersionLabel != "" {
		title += " — Version " + fm.Title.VersionLabel
	}
	b.WriteString(para(`<w:pPr><w:jc w:val="center"/></w:pPr>`, boldRun(title, 36)))

	if fm.Metadata != nil && len(fm.Metadata.Rows) > 0 {
		b.WriteString(`<w:tbl><w:tblPr><w:tblBorders>` + tableBorders + `</w:tblBorders><w:tblW w:w="5000" w:type="pct"/></w:tblPr>`)
		for _, row := range fm.Metadata.Rows {
			b.WriteString("<w:tr>")
			b.WriteString(cell(boldRun(row.Label, 0), 1500))
			b.WriteString(cell(textRun(row.Value), 3500))
			b.WriteString("</w:tr>")
		}
		b.WriteString("</w:tbl>")
		b.WriteString(emptyPara)
	}

	if fm.StudentInfo != nil && len(fm.StudentInfo.Fields) > 0 {
		b.WriteString(`<w:tbl><w:tblPr><w:tblBorders>` + tableBorders + `</w:tblBorders><w:tblW w:w="5000" w:type="pct"/></w:tblPr><w:tr>`)
		width := 5000 / len(fm.StudentInfo.Fields)
		for _, f := range fm.StudentInfo.Fields {
			b.WriteString(cell(textRun(f+": "), width))
		}
		b.WriteString("</w:tr></w:tbl>")
		b.WriteString(emptyPara)
	}

	if fm.Instructions != nil {
		b.WriteString(para("", textRun(fm.Instructions.Text)))
		b.WriteString(emptyPara)
	}
}

func writeQuestion(b *strings.Builder, index int, qb *blocks.QuestionBlock) error {
	// keep-with-next on the header paragraph keeps the question number off a
	// page tail; keep-lines on the body honors keep-together.
	headerProps := "<w:pPr><w:keepNext/></w:pPr>"
	header := fmt.Sprintf("%d. (%s pts) ", qb.Number, pts(qb.Points))
	b.WriteString(para(headerProps, boldRun(header, 0)+textRun(qb.Prompt)))

	bodyProps := "<w:pPr>"
	if qb.KeepTogether {
		bodyProps += "<w:keepLines/>"
	}
	bodyProps += `<w:ind w:left="425"/></w:pPr>`

	switch body := qb.Body.(type) {
	case *blocks.OptionList:
		for i, opt := range body.Options {
			if i >= len("ABCDEFGH") {
				return render.Errorf(model.FormatDocx, index, "too many options (%d)", len(body.Options))
			}
			txt := fmt.Sprintf("%c) %s", 'A'+i, opt)
			if body.ShowCorrect && i == body.CorrectIndex {
				txt += "  (correct)"
			}
			b.WriteString(para(bodyProps, textRun(txt)))
		}
	case *blocks.BooleanChoice:
		line := "☐ True      ☐ False"
		if body.ShowCorrect {
			if body.Answer {
				line = "☑ True      ☐ False  (correct: True)"
			} else {
				line = "☐ True      ☑ False  (correct: False)"
			}
		}
		b.WriteString(para(bodyProps, textRun(line)))
	case *blocks.AnswerLines:
		for i := 0; i < body.Lines; i++ {
			b.WriteString(para(bodyProps, textRun(strings.Repeat("_", 70))))
		}
	case *blocks.EssaySpace:
		for i := 0; i < body.Lines; i++ {
			b.WriteString(para(bodyProps, textRun(strings.Repeat("_", 70))))
		}
	case *blocks.BlankRun:
		fill := "________________"
		if body.ShowFill {
			fill = body.Fill + "  (correct)"
		}
		b.WriteString(para(bodyProps, textRun(body.Before+fill+body.After)))
	default:
		return render.Errorf(model.FormatDocx, index, "unsupported question body %T", qb.Body)
	}
	b.WriteString(emptyPara)
	return nil
}

func writeAnswerKey(b *strings.Builder, key *blocks.AnswerKeyBlock) {
	// page break before the key
	b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
	b.WriteString(para("", boldRun("Answer Key", 28)))
	for _, e := range key.Entries {
		b.WriteString(para("", boldRun(fmt.Sprintf("%d. ", e.Number), 0)+textRun(e.Answer)))
		if e.Explanation != "" {
			b.WriteString(para(`<w:pPr><w:ind w:left="425"/></w:pPr>`, textRun(e.Explanation)))
		}
	}
}

func pts(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
