package export

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/examfoundry/examfoundry/internal/model"
)

// ArtifactFilename builds a stable, human-readable filename. The title may be
// non-Latin; the filename keeps it as-is (UTF-8) and transport-level encoding
// is handled by ContentDisposition.
func ArtifactFilename(title, versionLabel string, audience model.Audience, format model.Format) string {
	base := sanitize(title)
	if base == "" {
		base = "assessment"
	}
	parts := []string{base}
	if versionLabel != "" && versionLabel != model.OriginalVersion {
		parts = append(parts, "version-"+versionLabel)
	}
	if audience == model.AudienceInstructor {
		parts = append(parts, "answer-key")
	}
	return strings.Join(parts, "_") + "." + format.Extension()
}

// BundleFilename names the zip archive for a document's bundle export.
func BundleFilename(title string) string {
	base := sanitize(title)
	if base == "" {
		base = "assessment"
	}
	return base + "_bundle.zip"
}

// sanitize strips path separators and control characters but keeps non-ASCII
// letters; assessment titles are frequently non-Latin.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteRune('-')
		case unicode.IsControl(r):
			// drop
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ContentDisposition renders an attachment header carrying a plain-ASCII
// best-effort name alongside the RFC 5987 percent-encoded UTF-8 name, so
// non-Latin titles survive the header.
func ContentDisposition(filename string) string {
	ascii := asciiFallback(filename)
	encoded := url.PathEscape(filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, encoded)
}

func asciiFallback(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 && r != '"' && !unicode.IsControl(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_ ")
	if strings.Trim(out, "_ .") == "" {
		return "download"
	}
	return out
}
