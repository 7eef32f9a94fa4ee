// Package htmldoc renders block sequences to standalone HTML with separate
// screen and print style passes.
package htmldoc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/examfoundry/examfoundry/internal/blocks"
	"github.com/examfoundry/examfoundry/internal/branding"
	"github.com/examfoundry/examfoundry/internal/model"
	"github.com/examfoundry/examfoundry/internal/render"
)

func init() { render.Register(model.FormatHTML, New()) }

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) Render(seq blocks.BlockSequence, ctx *branding.RenderContext) ([]byte, error) {
	if ctx == nil {
		ctx = &branding.RenderContext{}
	}
	var body strings.Builder
	title := "Assessment"
	for i, b := range seq {
		switch blk := b.(type) {
		case *blocks.FrontMatter:
			title = blk.Title.Text
			writeFrontMatter(&body, blk)
		case *blocks.QuestionBlock:
			if err := writeQuestion(&body, i, blk); err != nil {
				return nil, err
			}
		case *blocks.AnswerKeyBlock:
			writeAnswerKey(&body, blk)
		default:
			return nil, render.Errorf(model.FormatHTML, i, "unsupported block type %T", b)
		}
	}

	data := pageData{
		Title:     title,
		Lang:      ctx.Language,
		Watermark: ctx.Watermark,
		Body:      template.HTML(body.String()),
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, render.Errorf(model.FormatHTML, 0, "template: %v", err)
	}
	return buf.Bytes(), nil
}

func esc(s string) string { return template.HTMLEscapeString(s) }

func writeFrontMatter(b *strings.Builder, fm *blocks.FrontMatter) {
	b.WriteString(`<header class="front-matter">`)
	if len(fm.Title.Logo) > 0 {
		mime := "image/png"
		if fm.Title.LogoFormat == "JPG" {
			mime = "image/jpeg"
		}
		fmt.Fprintf(b, `<img class="logo" alt="" src="data:%s;base64,%s">`, mime, base64.StdEncoding.EncodeToString(fm.Title.Logo))
	}
	fmt.Fprintf(b, `<h1>%s</h1>`, esc(fm.Title.Text))
	if fm.Title.VersionLabel != "" {
		fmt.Fprintf(b, `<p class="version">Version %s</p>`, esc(fm.Title.VersionLabel))
	}
	if fm.Metadata != nil && len(fm.Metadata.Rows) > 0 {
		b.WriteString(`<table class="metadata">`)
		for _, row := range fm.Metadata.Rows {
			fmt.Fprintf(b, `<tr><th>%s</th><td>%s</td></tr>`, esc(row.Label), esc(row.Value))
		}
		b.WriteString(`</table>`)
	}
	if fm.StudentInfo != nil && len(fm.StudentInfo.Fields) > 0 {
		b.WriteString(`<table class="student-info"><tr>`)
		for _, f := range fm.StudentInfo.Fields {
			fmt.Fprintf(b, `<td>%s: </td>`, esc(f))
		}
		b.WriteString(`</tr></table>`)
	}
	if fm.Instructions != nil {
		fmt.Fprintf(b, `<p class="instructions">%s</p>`, esc(fm.Instructions.Text))
	}
	b.WriteString(`</header>`)
}

func writeQuestion(b *strings.Builder, index int, qb *blocks.QuestionBlock) error {
	// .question carries break-inside:avoid in the print pass for
	// keep-together; the header uses break-after:avoid for keep-with-next.
	cls := "question"
	if qb.KeepTogether {
		cls += " keep-together"
	}
	fmt.Fprintf(b, `<section class="%s">`, cls)
	fmt.Fprintf(b, `<p class="q-header"><strong>%d.</strong> <span class="points">(%s pts)</span> %s</p>`,
		qb.Number, esc(ptsString(qb.Points)), esc(qb.Prompt))

	switch body := qb.Body.(type) {
	case *blocks.OptionList:
		b.WriteString(`<ol class="options" type="A">`)
		for i, opt := range body.Options {
			mark := ""
			if body.ShowCorrect && i == body.CorrectIndex {
				mark = ` <span class="answer-mark">(correct)</span>`
			}
			fmt.Fprintf(b, `<li>%s%s</li>`, esc(opt), mark)
		}
		b.WriteString(`</ol>`)
	case *blocks.BooleanChoice:
		if body.ShowCorrect {
			t, f := "", ""
			if body.Answer {
				t = ` <span class="answer-mark">(correct)</span>`
			} else {
				f = ` <span class="answer-mark">(correct)</span>`
			}
			fmt.Fprintf(b, `<p class="boolean">&#9744; True%s &nbsp;&nbsp; &#9744; False%s</p>`, t, f)
		} else {
			b.WriteString(`<p class="boolean">&#9744; True &nbsp;&nbsp; &#9744; False</p>`)
		}
	case *blocks.AnswerLines:
		writeRuledLines(b, body.Lines)
	case *blocks.EssaySpace:
		writeRuledLines(b, body.Lines)
	case *blocks.BlankRun:
		fill := `<span class="blank">________________</span>`
		if body.ShowFill {
			fill = `<span class="blank filled">` + esc(body.Fill) + `</span> <span class="answer-mark">(correct)</span>`
		}
		fmt.Fprintf(b, `<p class="fill-blank">%s%s%s</p>`, esc(body.Before), fill, esc(body.After))
	default:
		return render.Errorf(model.FormatHTML, index, "unsupported question body %T", qb.Body)
	}
	b.WriteString(`</section>`)
	return nil
}

func writeRuledLines(b *strings.Builder, n int) {
	b.WriteString(`<div class="answer-space">`)
	for i := 0; i < n; i++ {
		b.WriteString(`<div class="ruled-line"></div>`)
	}
	b.WriteString(`</div>`)
}

func writeAnswerKey(b *strings.Builder, key *blocks.AnswerKeyBlock) {
	b.WriteString(`<section class="answer-key"><h2>Answer Key</h2><ol>`)
	for _, e := range key.Entries {
		fmt.Fprintf(b, `<li value="%d">%s`, e.Number, esc(e.Answer))
		if e.Explanation != "" {
			fmt.Fprintf(b, `<p class="explanation">%s</p>`, esc(e.Explanation))
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ol></section>`)
}

func ptsString(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
