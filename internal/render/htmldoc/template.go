package htmldoc

import "html/template"

type pageData struct {
	Title     string
	Lang      string
	Watermark string
	Body      template.HTML
}

// The watermark overlay sits above content via z-index, not DOM order, and
// ignores pointer events so text stays selectable underneath.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html{{if .Lang}} lang="{{.Lang}}"{{end}}>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, "Times New Roman", serif; max-width: 50rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a1a; }
.front-matter { text-align: center; margin-bottom: 2rem; }
.front-matter .logo { max-width: 8rem; }
.front-matter h1 { margin-bottom: 0.25rem; }
.front-matter .version { font-weight: bold; margin-top: 0; }
table.metadata, table.student-info { width: 100%; border-collapse: collapse; margin: 1rem 0; text-align: left; }
table.metadata th, table.metadata td, table.student-info td { border: 1px solid #888; padding: 0.3rem 0.5rem; }
table.metadata th { width: 30%; }
table.student-info td { height: 2rem; }
.instructions { text-align: left; font-style: italic; }
.question { margin-bottom: 1.25rem; }
.options { margin: 0.25rem 0 0.25rem 1.5rem; }
.answer-mark { font-weight: bold; }
.answer-space .ruled-line { border-bottom: 1px solid #999; height: 1.6rem; }
.blank { text-decoration: underline; }
.answer-key { border-top: 2px solid #1a1a1a; margin-top: 2rem; padding-top: 1rem; }
.answer-key .explanation { color: #555; margin: 0.2rem 0 0.6rem; }
{{if .Watermark}}
.watermark {
  position: fixed; top: 45%; left: 0; right: 0;
  text-align: center; font-size: 5rem; letter-spacing: 0.4rem;
  color: rgba(120, 120, 120, 0.12);
  transform: rotate(-30deg);
  z-index: 10; pointer-events: none; user-select: none;
}
{{end}}
@media print {
  body { margin: 0; max-width: none; }
  .question.keep-together { break-inside: avoid; page-break-inside: avoid; }
  .q-header { break-after: avoid; page-break-after: avoid; }
  .answer-key { break-before: page; page-break-before: always; }
  {{if .Watermark}}.watermark { position: fixed; }{{end}}
}
</style>
</head>
<body>
{{if .Watermark}}<div class="watermark">{{.Watermark}}</div>{{end}}
{{.Body}}
</body>
</html>
`))
