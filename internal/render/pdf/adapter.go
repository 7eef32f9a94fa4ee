// Package pdf renders block sequences to print-ready PDF via go-pdf/fpdf.
// The resolved font is embedded in the file so non-Latin scripts render
// identically everywhere; nothing relies on viewer-side fonts.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/examfoundry/examfoundry/internal/blocks"
	"github.com/examfoundry/examfoundry/internal/branding"
	"github.com/examfoundry/examfoundry/internal/model"
	"github.com/examfoundry/examfoundry/internal/render"
)

func init() { render.Register(model.FormatPDF, New()) }

// Layout constants, in millimeters on A4.
const (
	marginMM     = 15.0
	lineHeight   = 6.0
	titleSize    = 18.0
	bodySize     = 11.0
	keySize      = 10.0
	watermarkPts = 54.0
	logoWidthMM  = 28.0
)

// Adapter renders PDFs. Compress controls content-stream compression; tests
// disable it to assert on the raw page stream.
type Adapter struct {
	Compress bool
}

func New() *Adapter { return &Adapter{Compress: true} }

func (a *Adapter) Render(seq blocks.BlockSequence, ctx *branding.RenderContext) ([]byte, error) {
	if ctx == nil {
		ctx = &branding.RenderContext{}
	}
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(a.Compress)
	doc.SetMargins(marginMM, marginMM, marginMM)
	doc.SetAutoPageBreak(true, marginMM)

	// Pin metadata dates to the explicit render timestamp so output is a pure
	// function of its inputs.
	ts := ctx.Timestamp
	if ts.IsZero() {
		ts = time.Unix(0, 0).UTC()
	}
	doc.SetCreationDate(ts)
	doc.SetModificationDate(ts)

	family := installFont(doc, ctx)

	// The watermark is painted by the header hook, which fpdf runs at the top
	// of every page before any content flows onto it.
	if ctx.Watermark != "" {
		wm := ctx.Watermark
		doc.SetHeaderFunc(func() {
			drawWatermark(doc, family, wm)
		})
	}
	doc.AddPage()

	w := &writer{doc: doc, family: family}
	for i, b := range seq {
		switch blk := b.(type) {
		case *blocks.FrontMatter:
			w.frontMatter(blk, ctx)
		case *blocks.QuestionBlock:
			if err := w.question(i, blk); err != nil {
				return nil, err
			}
		case *blocks.AnswerKeyBlock:
			w.answerKey(blk)
		default:
			return nil, render.Errorf(model.FormatPDF, i, "unsupported block type %T", b)
		}
		if doc.Err() {
			return nil, render.Errorf(model.FormatPDF, i, "%v", doc.Error())
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, render.Errorf(model.FormatPDF, len(seq), "output: %v", err)
	}
	return buf.Bytes(), nil
}

// installFont registers the resolved font (regular and bold slots share the
// same face for embedded fonts) and returns the family name to use.
func installFont(doc *fpdf.Fpdf, ctx *branding.RenderContext) string {
	if ctx.Font.Bytes == nil || ctx.Font.Core {
		if ctx.Font.Family != "" && ctx.Font.Core {
			return ctx.Font.Family
		}
		return "Helvetica"
	}
	doc.AddUTF8FontFromBytes(ctx.Font.Family, "", ctx.Font.Bytes)
	doc.AddUTF8FontFromBytes(ctx.Font.Family, "B", ctx.Font.Bytes)
	return ctx.Font.Family
}

func drawWatermark(doc *fpdf.Fpdf, family, text string) {
	pw, ph := doc.GetPageSize()
	doc.SetFont(family, "B", watermarkPts)
	doc.SetTextColor(150, 150, 150)
	doc.SetAlpha(0.08, "Normal")
	doc.TransformBegin()
	doc.TransformRotate(45, pw/2, ph/2)
	tw := doc.GetStringWidth(text)
	doc.Text(pw/2-tw/2, ph/2, text)
	doc.TransformEnd()
	doc.SetAlpha(1, "Normal")
	doc.SetTextColor(0, 0, 0)
}

type writer struct {
	doc    *fpdf.Fpdf
	family string
}

func (w *writer) contentWidth() float64 {
	pw, _ := w.doc.GetPageSize()
	l, _, r, _ := w.doc.GetMargins()
	return pw - l - r
}

// breakLimit is the Y beyond which content would spill onto the next page.
func (w *writer) breakLimit() float64 {
	_, ph := w.doc.GetPageSize()
	_, _, _, b := w.doc.GetMargins()
	return ph - b
}

// ensureRoom starts a new page when fewer than need millimeters remain. This
// implements both keep-with-next and keep-together.
func (w *writer) ensureRoom(need float64) {
	if w.doc.GetY()+need > w.breakLimit() {
		w.doc.AddPage()
	}
}

// textHeight measures how tall txt will be at the current font when wrapped
// to width.
func (w *writer) textHeight(txt string, width float64) float64 {
	lines := w.doc.SplitText(txt, width)
	return float64(len(lines)) * lineHeight
}

func (w *writer) frontMatter(fm *blocks.FrontMatter, ctx *branding.RenderContext) {
	doc := w.doc

	if len(fm.Title.Logo) > 0 {
		name := "branding-logo"
		doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: fm.Title.LogoFormat}, bytes.NewReader(fm.Title.Logo))
		pw, _ := doc.GetPageSize()
		doc.ImageOptions(name, pw/2-logoWidthMM/2, doc.GetY(), logoWidthMM, 0, true, fpdf.ImageOptions{ImageType: fm.Title.LogoFormat}, 0, "")
		doc.Ln(3)
	}

	doc.SetFont(w.family, "B", titleSize)
	doc.MultiCell(0, 9, fm.Title.Text, "", "C", false)
	if fm.Title.VersionLabel != "" {
		doc.SetFont(w.family, "", bodySize)
		doc.CellFormat(0, lineHeight, "Version "+fm.Title.VersionLabel, "", 1, "C", false, 0, "")
	}
	doc.Ln(3)

	if fm.Metadata != nil && len(fm.Metadata.Rows) > 0 {
		doc.SetFont(w.family, "", bodySize)
		labelW := w.contentWidth() * 0.3
		for _, row := range fm.Metadata.Rows {
			doc.SetFont(w.family, "B", bodySize)
			doc.CellFormat(labelW, lineHeight, row.Label, "1", 0, "L", false, 0, "")
			doc.SetFont(w.family, "", bodySize)
			doc.CellFormat(w.contentWidth()-labelW, lineHeight, row.Value, "1", 1, "L", false, 0, "")
		}
		doc.Ln(3)
	}

	if fm.StudentInfo != nil && len(fm.StudentInfo.Fields) > 0 {
		doc.SetFont(w.family, "", bodySize)
		fieldW := w.contentWidth() / float64(len(fm.StudentInfo.Fields))
		for _, f := range fm.StudentInfo.Fields {
			doc.CellFormat(fieldW, lineHeight*1.6, f+": ", "1", 0, "L", false, 0, "")
		}
		doc.Ln(lineHeight*1.6 + 3)
	}

	if fm.Instructions != nil {
		doc.SetFont(w.family, "", bodySize)
		doc.MultiCell(0, lineHeight, fm.Instructions.Text, "", "L", false)
		doc.Ln(2)
	}
	doc.Ln(2)
}

func (w *writer) question(index int, qb *blocks.QuestionBlock) error {
	doc := w.doc
	doc.SetFont(w.family, "", bodySize)
	width := w.contentWidth()

	header := fmt.Sprintf("%d. (%s pts)", qb.Number, trimPts(qb.Points))
	prompt := qb.Prompt

	// keep-with-next: header plus at least one body line; keep-together:
	// the entire block.
	need := w.textHeight(header+" "+prompt, width) + lineHeight
	if qb.KeepTogether {
		need += w.bodyHeight(qb.Body, width)
	}
	w.ensureRoom(need)

	doc.SetFont(w.family, "B", bodySize)
	doc.CellFormat(0, lineHeight, header, "", 1, "L", false, 0, "")
	doc.SetFont(w.family, "", bodySize)
	if prompt != "" {
		doc.MultiCell(0, lineHeight, prompt, "", "L", false)
	}

	switch body := qb.Body.(type) {
	case *blocks.OptionList:
		for i, opt := range body.Options {
			if i >= len("ABCDEFGH") {
				return render.Errorf(model.FormatPDF, index, "too many options (%d)", len(body.Options))
			}
			label := fmt.Sprintf("   %c) %s", 'A'+i, opt)
			if body.ShowCorrect && i == body.CorrectIndex {
				label += "  (correct)"
			}
			doc.MultiCell(0, lineHeight, label, "", "L", false)
		}
	case *blocks.BooleanChoice:
		line := "   [  ] True      [  ] False"
		if body.ShowCorrect {
			if body.Answer {
				line = "   [X] True      [  ] False  (correct: True)"
			} else {
				line = "   [  ] True      [X] False  (correct: False)"
			}
		}
		doc.CellFormat(0, lineHeight, line, "", 1, "L", false, 0, "")
	case *blocks.AnswerLines:
		w.ruledLines(body.Lines)
	case *blocks.EssaySpace:
		w.ruledLines(body.Lines)
	case *blocks.BlankRun:
		fill := "________________"
		if body.ShowFill {
			fill = body.Fill + "  (correct)"
		}
		doc.MultiCell(0, lineHeight, body.Before+fill+body.After, "", "L", false)
	default:
		return render.Errorf(model.FormatPDF, index, "unsupported question body %T", qb.Body)
	}
	doc.Ln(3)
	return nil
}

// bodyHeight estimates the vertical space a body needs, for keep-together.
func (w *writer) bodyHeight(body blocks.Body, width float64) float64 {
	switch b := body.(type) {
	case *blocks.OptionList:
		var h float64
		for _, opt := range b.Options {
			h += w.textHeight("   X) "+opt, width)
		}
		return h
	case *blocks.BooleanChoice:
		return lineHeight
	case *blocks.AnswerLines:
		return float64(b.Lines) * lineHeight * 1.5
	case *blocks.EssaySpace:
		return float64(b.Lines) * lineHeight * 1.5
	case *blocks.BlankRun:
		return w.textHeight(b.Before+"________________"+b.After, width)
	}
	return lineHeight
}

func (w *writer) ruledLines(n int) {
	doc := w.doc
	doc.SetDrawColor(120, 120, 120)
	for i := 0; i < n; i++ {
		// page breaks are allowed between ruled lines
		w.ensureRoom(lineHeight * 1.5)
		doc.Ln(lineHeight * 1.2)
		y := doc.GetY()
		l, _, _, _ := doc.GetMargins()
		doc.Line(l, y, l+w.contentWidth(), y)
	}
	doc.SetDrawColor(0, 0, 0)
	doc.Ln(2)
}

func (w *writer) answerKey(key *blocks.AnswerKeyBlock) {
	doc := w.doc
	doc.AddPage()
	doc.SetFont(w.family, "B", titleSize-4)
	doc.CellFormat(0, 8, "Answer Key", "", 1, "L", false, 0, "")
	doc.Ln(2)
	doc.SetFont(w.family, "", keySize)
	for _, e := range key.Entries {
		w.ensureRoom(lineHeight * 2)
		doc.SetFont(w.family, "B", keySize)
		doc.CellFormat(12, lineHeight, fmt.Sprintf("%d.", e.Number), "", 0, "L", false, 0, "")
		doc.SetFont(w.family, "", keySize)
		doc.MultiCell(0, lineHeight, e.Answer, "", "L", false)
		if e.Explanation != "" {
			doc.SetTextColor(90, 90, 90)
			doc.MultiCell(0, lineHeight, "    "+e.Explanation, "", "L", false)
			doc.SetTextColor(0, 0, 0)
		}
	}
}

func trimPts(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
