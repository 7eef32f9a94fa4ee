// Package blocks lowers the content model into a format-agnostic layout
// sequence. Adapters consume the sequence and never look at the raw document,
// which keeps the three output formats structurally identical.
package blocks

import (
	"github.com/examfoundry/examfoundry/internal/branding"
	"github.com/examfoundry/examfoundry/internal/model"
)

// Block is one typed layout unit. The set of implementations is closed.
type Block interface{ isBlock() }

// BlockSequence is the ordered output of the compiler: one FrontMatter,
// one QuestionBlock per question, and at most one trailing AnswerKeyBlock.
type BlockSequence []Block

// FrontMatter is the consolidated header group: title, metadata, student-info
// and instructions. It is a single block by construction, so an adapter
// cannot re-emit any part of it per question.
type FrontMatter struct {
	Title        TitleBlock
	Metadata     *MetadataTable
	StudentInfo  *StudentInfoTable
	Instructions *InstructionsBlock
}

func (*FrontMatter) isBlock() {}

// TitleBlock is the document heading.
type TitleBlock struct {
	Text         string
	Kind         model.DocumentKind
	VersionLabel string // "A".."E", empty for the original
	Logo         []byte
	LogoFormat   string // "PNG" or "JPG"
}

// MetadataTable holds the labelled rows below the title. Rows exist only for
// fields present in the branding config; suppressed fields have no row.
type MetadataTable struct {
	Rows []branding.Row
}

// StudentInfoTable lists the fill-in fields requested by the branding config.
type StudentInfoTable struct {
	Fields []string
}

// InstructionsBlock carries free-text notes from the branding config.
type InstructionsBlock struct {
	Text string
}

// QuestionBlock renders one question. The two layout directives are honored
// by every adapter: KeepWithNext forbids a page break between the question
// header and its first body line, KeepTogether forbids splitting the body
// across pages.
type QuestionBlock struct {
	Number int
	Points float64
	Prompt string
	Body   Body

	KeepWithNext bool
	KeepTogether bool
}

func (*QuestionBlock) isBlock() {}

// Body is the variant-specific part of a QuestionBlock.
type Body interface{ isBody() }

// OptionList is a multiple-choice body. ShowCorrect marks the correct option
// inline; it is set only for instructor artifacts.
type OptionList struct {
	Options      []string
	CorrectIndex int
	ShowCorrect  bool
}

func (*OptionList) isBody() {}

// BooleanChoice is a true/false body.
type BooleanChoice struct {
	Answer      bool
	ShowCorrect bool
}

func (*BooleanChoice) isBody() {}

// AnswerLines is a short-answer body: a small number of ruled lines.
type AnswerLines struct {
	Lines int
}

func (*AnswerLines) isBody() {}

// EssaySpace is an essay body: a larger ruled writing area.
type EssaySpace struct {
	Lines int
}

func (*EssaySpace) isBody() {}

// BlankRun is a fill-in-the-blank body. The prompt is pre-split around the
// blank; Fill is shown in place of the blank only when ShowFill is set.
type BlankRun struct {
	Before   string
	After    string
	Fill     string
	ShowFill bool
}

func (*BlankRun) isBody() {}

// AnswerKeyBlock is the trailing instructor-only key.
type AnswerKeyBlock struct {
	Entries []AnswerKeyEntry
}

func (*AnswerKeyBlock) isBlock() {}

// AnswerKeyEntry is one line of the answer key.
type AnswerKeyEntry struct {
	Number      int
	Answer      string
	Explanation string
}
