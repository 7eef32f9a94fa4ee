package branding

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/examfoundry/examfoundry/internal/fonts"
	"github.com/examfoundry/examfoundry/internal/model"
)

// ErrAssetNotFound is returned by AssetLoader implementations when a
// reference cannot be resolved.
var ErrAssetNotFound = errors.New("asset not found")

// AssetLoader resolves an opaque asset reference (logo images, etc.) to its
// bytes. Asset resolution is a collaborator concern; this package only
// consumes it.
type AssetLoader interface {
	Load(ref string) ([]byte, error)
}

// Row is one labelled line of the metadata table.
type Row struct {
	Label string
	Value string
}

// RenderContext is the resolved, render-ready form of a BrandingConfig.
// Absent or empty config fields produce no row at all; adapters iterate the
// row slices and never consult the raw config.
type RenderContext struct {
	Institution []Row // university / faculty / department / course, present-only
	Meta        []Row // academic year / term / instructor / date, present-only

	StudentFields []string // labels for the fill-in table, in layout order

	Logo       []byte // nil when absent or unresolvable
	LogoFormat string // "PNG" or "JPG", sniffed from the bytes

	Watermark string
	Notes     string

	// Timestamp is an explicit render input, never a wall-clock read. The
	// zero value means "no timestamp" and keeps output deterministic.
	Timestamp time.Time

	Language string
	Font     fonts.Handle

	Warnings []string
}

func (c *RenderContext) warnf(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// addRow appends a row only when the value is non-blank. This is the single
// suppression point: a field that is absent, empty, or whitespace-only never
// reaches an adapter.
func addRow(rows []Row, label, value string) []Row {
	if strings.TrimSpace(value) == "" {
		return rows
	}
	return append(rows, Row{Label: label, Value: strings.TrimSpace(value)})
}

// Resolve merges a BrandingConfig into a RenderContext. A nil loader or a
// failed logo load drops the logo slot with a recorded warning; resolution
// never fails outright.
func Resolve(cfg model.BrandingConfig, loader AssetLoader) *RenderContext {
	ctx := &RenderContext{}

	ctx.Institution = addRow(ctx.Institution, "University", cfg.University)
	ctx.Institution = addRow(ctx.Institution, "Faculty", cfg.Faculty)
	ctx.Institution = addRow(ctx.Institution, "Department", cfg.Department)
	ctx.Institution = addRow(ctx.Institution, "Course", cfg.Course)

	ctx.Meta = addRow(ctx.Meta, "Academic Year", cfg.AcademicYear)
	ctx.Meta = addRow(ctx.Meta, "Term", cfg.Term)
	ctx.Meta = addRow(ctx.Meta, "Instructor", cfg.Instructor)
	ctx.Meta = addRow(ctx.Meta, "Date", cfg.ExamDate)

	if cfg.ShowStudentName {
		ctx.StudentFields = append(ctx.StudentFields, "Name")
	}
	if cfg.ShowStudentID {
		ctx.StudentFields = append(ctx.StudentFields, "Student ID")
	}
	if cfg.ShowStudentSignature {
		ctx.StudentFields = append(ctx.StudentFields, "Signature")
	}
	if cfg.ShowStudentDate {
		ctx.StudentFields = append(ctx.StudentFields, "Date")
	}

	ctx.Watermark = strings.TrimSpace(cfg.WatermarkText)
	ctx.Notes = strings.TrimSpace(cfg.Notes)

	if ref := strings.TrimSpace(cfg.LogoRef); ref != "" {
		if loader == nil {
			ctx.warnf("logo %q skipped: no asset loader configured", ref)
		} else if b, err := loader.Load(ref); err != nil {
			ctx.warnf("logo %q skipped: %v", ref, err)
		} else if format, ok := sniffImage(b); ok {
			ctx.Logo = b
			ctx.LogoFormat = format
		} else {
			ctx.warnf("logo %q skipped: unsupported image format", ref)
		}
	}

	return ctx
}

// sniffImage recognizes the two raster formats the adapters can embed.
func sniffImage(b []byte) (string, bool) {
	if len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n" {
		return "PNG", true
	}
	if len(b) >= 3 && b[0] == 0xff && b[1] == 0xd8 && b[2] == 0xff {
		return "JPG", true
	}
	return "", false
}
