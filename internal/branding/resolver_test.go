package branding_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/examfoundry/examfoundry/internal/branding"
	"github.com/examfoundry/examfoundry/internal/model"
)

type fakeLoader struct {
	assets map[string][]byte
}

func (f *fakeLoader) Load(ref string) ([]byte, error) {
	b, ok := f.assets[ref]
	if !ok {
		return nil, errors.New("no such asset")
	}
	return b, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\nrest-of-image")

func TestResolveOnlyUniversity(t *testing.T) {
	ctx := branding.Resolve(model.BrandingConfig{University: "Lund University"}, nil)
	if len(ctx.Institution) != 1 {
		t.Fatalf("want exactly one institution row, got %d", len(ctx.Institution))
	}
	if ctx.Institution[0].Value != "Lund University" {
		t.Fatalf("unexpected row: %+v", ctx.Institution[0])
	}
	if len(ctx.Meta) != 0 || len(ctx.StudentFields) != 0 {
		t.Fatal("absent fields must not produce rows")
	}
}

func TestResolveEmptyStringSuppresses(t *testing.T) {
	ctx := branding.Resolve(model.BrandingConfig{University: "U", Department: "   "}, nil)
	for _, row := range ctx.Institution {
		if strings.TrimSpace(row.Value) == "" {
			t.Fatalf("blank value leaked into rows: %+v", row)
		}
	}
	if len(ctx.Institution) != 1 {
		t.Fatalf("whitespace-only department must be suppressed, got %d rows", len(ctx.Institution))
	}
}

func TestResolveLogoMissingWarnsAndContinues(t *testing.T) {
	ctx := branding.Resolve(model.BrandingConfig{LogoRef: "nope.png"}, &fakeLoader{})
	if ctx.Logo != nil {
		t.Fatal("missing logo must resolve to nil")
	}
	if len(ctx.Warnings) == 0 {
		t.Fatal("missing logo must record a warning")
	}
}

func TestResolveLogoLoads(t *testing.T) {
	loader := &fakeLoader{assets: map[string][]byte{"logo.png": pngHeader}}
	ctx := branding.Resolve(model.BrandingConfig{LogoRef: "logo.png"}, loader)
	if ctx.Logo == nil || ctx.LogoFormat != "PNG" {
		t.Fatalf("logo not resolved: format=%q", ctx.LogoFormat)
	}
	if len(ctx.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", ctx.Warnings)
	}
}

func TestResolveStudentFieldsOrder(t *testing.T) {
	ctx := branding.Resolve(model.BrandingConfig{
		ShowStudentName: true, ShowStudentSignature: true,
	}, nil)
	want := []string{"Name", "Signature"}
	if len(ctx.StudentFields) != len(want) {
		t.Fatalf("fields = %v", ctx.StudentFields)
	}
	for i := range want {
		if ctx.StudentFields[i] != want[i] {
			t.Fatalf("fields = %v, want %v", ctx.StudentFields, want)
		}
	}
}
