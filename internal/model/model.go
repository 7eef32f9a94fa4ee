package model

// QuestionType discriminates the Question variant.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
	FillBlank      QuestionType = "fill_blank"
)

// Difficulty tags a question; free-form but normalized to lower case on input.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a tagged variant. Only the fields for its Type are meaningful;
// Validate enforces the per-variant structure.
type Question struct {
	Type       QuestionType `json:"type"`
	Prompt     string       `json:"prompt"`
	Points     float64      `json:"points"`
	Difficulty Difficulty   `json:"difficulty,omitempty"`
	Position   int          `json:"position"`

	// multiple_choice
	Options      []string `json:"options,omitempty"`
	CorrectIndex int      `json:"correct_index,omitempty"`

	// true_false
	AnswerBool bool `json:"answer_bool,omitempty"`

	// short_answer, essay
	ReferenceAnswer string `json:"reference_answer,omitempty"`
	// essay only: suggested answer-space size in ruled lines
	AnswerLines int `json:"answer_lines,omitempty"`

	// fill_blank: rune offset of the blank within Prompt, and the filling text
	BlankIndex int    `json:"blank_index,omitempty"`
	BlankText  string `json:"blank_text,omitempty"`

	// Every question carries an explanation or is explicitly marked as having none.
	Explanation   string `json:"explanation,omitempty"`
	NoExplanation bool   `json:"no_explanation,omitempty"`
}

// DocumentKind is the assessment genre.
type DocumentKind string

const (
	KindQuiz DocumentKind = "quiz"
	KindExam DocumentKind = "exam"
)

// GenerationParams are the parameters the document was generated with. Version
// regeneration replays them verbatim against the content source.
type GenerationParams struct {
	Language   string               `json:"language"` // BCP 47 tag
	Difficulty Difficulty           `json:"difficulty,omitempty"`
	TypeMix    map[QuestionType]int `json:"type_mix,omitempty"`
	Count      int                  `json:"count"`
}

// AssessmentDocument is the canonical, format-independent content model.
type AssessmentDocument struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Kind            DocumentKind     `json:"kind"`
	DurationMinutes int              `json:"duration_minutes,omitempty"`
	TotalPoints     float64          `json:"total_points"`
	Questions       []Question       `json:"questions"`
	Params          GenerationParams `json:"generation_params"`
}

// VersionLetter labels a variant. Valid letters are A through E.
type VersionLetter string

// Letters is the full ordered letter space.
var Letters = []VersionLetter{"A", "B", "C", "D", "E"}

// MaxVersions is the size of the letter space.
const MaxVersions = len("ABCDE")

// Version is a labelled variant of an AssessmentDocument with its own question
// ordering (and possibly its own question set, when regenerated).
type Version struct {
	Letter     VersionLetter `json:"letter"`
	DocumentID string        `json:"document_id"`
	Questions  []Question    `json:"questions"`
}

// OrdinalKey returns the version's question ordinal sequence as a comparable
// string. Two versions with equal keys violate the uniqueness invariant.
func (v Version) OrdinalKey() string {
	return OrdinalKey(v.Questions)
}

// BrandingConfig is the institution-supplied layout configuration. Every field
// is optional; an absent or empty field suppresses its layout slot entirely.
type BrandingConfig struct {
	University string `json:"university,omitempty"`
	Faculty    string `json:"faculty,omitempty"`
	Department string `json:"department,omitempty"`
	Course     string `json:"course,omitempty"`

	AcademicYear string `json:"academic_year,omitempty"`
	Term         string `json:"term,omitempty"`
	Instructor   string `json:"instructor,omitempty"`
	ExamDate     string `json:"exam_date,omitempty"`

	ShowStudentName      bool `json:"show_student_name,omitempty"`
	ShowStudentID        bool `json:"show_student_id,omitempty"`
	ShowStudentSignature bool `json:"show_student_signature,omitempty"`
	ShowStudentDate      bool `json:"show_student_date,omitempty"`

	LogoRef       string `json:"logo_ref,omitempty"`
	WatermarkText string `json:"watermark_text,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Audience controls answer visibility in a rendered artifact.
type Audience string

const (
	AudienceStudent    Audience = "student"
	AudienceInstructor Audience = "instructor"
)

// Format tags an export target.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatHTML Format = "html"
)

// MediaType returns the media type transmitted with artifacts of this format.
func (f Format) MediaType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Extension returns the filename extension for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDocx:
		return "docx"
	case FormatHTML:
		return "html"
	}
	return "bin"
}

// OriginalVersion is the version label used when rendering the base document.
const OriginalVersion = "original"

// ExportArtifact is one rendered output. Created on demand, never mutated.
type ExportArtifact struct {
	Format    Format   `json:"format"`
	Version   string   `json:"version"` // letter or "original"
	Audience  Audience `json:"audience"`
	Filename  string   `json:"filename"`
	MediaType string   `json:"media_type"`
	Bytes     []byte   `json:"-"`
}
