package bundle_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"testing"

	"github.com/examfoundry/examfoundry/internal/bundle"
	"github.com/examfoundry/examfoundry/internal/model"
)

func artifact(name string, format model.Format, version string, audience model.Audience) model.ExportArtifact {
	return model.ExportArtifact{
		Format:    format,
		Version:   version,
		Audience:  audience,
		Filename:  name,
		MediaType: format.MediaType(),
		Bytes:     []byte("payload-" + name),
	}
}

func openZip(t *testing.T, data []byte) *zip.Reader {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a zip: %v", err)
	}
	return zr
}

func TestAssembleManifest(t *testing.T) {
	data, err := bundle.Assemble([]model.ExportArtifact{
		artifact("quiz_version-A.pdf", model.FormatPDF, "A", model.AudienceStudent),
		artifact("quiz_version-A.html", model.FormatHTML, "A", model.AudienceInstructor),
	})
	if err != nil {
		t.Fatal(err)
	}
	zr := openZip(t, data)
	if len(zr.File) != 3 {
		t.Fatalf("want 2 entries + manifest, got %d", len(zr.File))
	}

	var manifest []bundle.ManifestEntry
	for _, f := range zr.File {
		if f.Name != bundle.ManifestName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
			t.Fatal(err)
		}
		rc.Close()
	}
	if len(manifest) != 2 {
		t.Fatalf("manifest entries = %d", len(manifest))
	}
	if manifest[0].Format != "pdf" || manifest[0].Version != "A" || manifest[0].Audience != "student" {
		t.Fatalf("manifest[0] = %+v", manifest[0])
	}
	if manifest[1].Audience != "instructor" {
		t.Fatalf("manifest[1] = %+v", manifest[1])
	}
}

func TestAssembleCollisionFreeNames(t *testing.T) {
	data, err := bundle.Assemble([]model.ExportArtifact{
		artifact("quiz.pdf", model.FormatPDF, "original", model.AudienceStudent),
		artifact("quiz.pdf", model.FormatPDF, "A", model.AudienceStudent),
	})
	if err != nil {
		t.Fatal(err)
	}
	zr := openZip(t, data)
	names := map[string]bool{}
	for _, f := range zr.File {
		if names[f.Name] {
			t.Fatalf("duplicate entry name %q", f.Name)
		}
		names[f.Name] = true
	}
	if !names["quiz.pdf"] || !names["quiz-1.pdf"] {
		t.Fatalf("expected deduped names, got %v", names)
	}
}

func TestAssembleNonASCIINames(t *testing.T) {
	title := "امتحان نهائي.pdf"
	data, err := bundle.Assemble([]model.ExportArtifact{
		artifact(title, model.FormatPDF, "original", model.AudienceStudent),
	})
	if err != nil {
		t.Fatal(err)
	}
	zr := openZip(t, data)
	found := false
	for _, f := range zr.File {
		if f.Name == bundle.ManifestName {
			continue
		}
		// entry names with non-ASCII title text travel percent-encoded and
		// must decode back to the original
		decoded, err := url.PathUnescape(f.Name)
		if err != nil {
			t.Fatalf("entry name %q not percent-decodable: %v", f.Name, err)
		}
		if decoded != title {
			t.Fatalf("decoded entry name = %q, want %q", decoded, title)
		}
		found = true
		rc, _ := f.Open()
		b, _ := io.ReadAll(rc)
		rc.Close()
		if !bytes.HasPrefix(b, []byte("payload-")) {
			t.Fatal("entry content lost")
		}
	}
	if !found {
		t.Fatal("artifact entry missing")
	}
}

func TestAssembleDeterministic(t *testing.T) {
	arts := []model.ExportArtifact{
		artifact("a.pdf", model.FormatPDF, "A", model.AudienceStudent),
		artifact("b.html", model.FormatHTML, "B", model.AudienceStudent),
	}
	d1, err := bundle.Assemble(arts)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := bundle.Assemble(arts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(d1, d2) {
		t.Fatal("identical inputs must produce byte-identical archives")
	}
}

func TestAssembleEmptyFails(t *testing.T) {
	if _, err := bundle.Assemble(nil); err == nil {
		t.Fatal("empty bundle must fail")
	}
}
