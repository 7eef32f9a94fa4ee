// Package bundle packages rendered artifacts into a single zip archive with
// a manifest, for multi-format / multi-version exports.
package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/examfoundry/examfoundry/internal/model"
)

// MediaType of the produced archive.
const MediaType = "application/zip"

// ManifestName is the archive entry listing every artifact.
const ManifestName = "manifest.json"

// ManifestEntry describes one artifact in the archive.
type ManifestEntry struct {
	Filename  string `json:"filename"`
	Format    string `json:"format"`
	Version   string `json:"version"`
	Audience  string `json:"audience"`
	MediaType string `json:"media_type"`
	SizeBytes int    `json:"size_bytes"`
}

// Assemble packages the artifacts into a zip held in memory.
func Assemble(artifacts []model.ExportArtifact) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := AssembleTo(buf, artifacts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AssembleTo streams the archive to w, writing each entry as it is visited
// rather than holding a second copy of every artifact. Entry names are made
// collision-free; names carrying non-ASCII title text are percent-encoded so
// they survive any unzip tool's name handling, and decode back losslessly.
func AssembleTo(w io.Writer, artifacts []model.ExportArtifact) error {
	if len(artifacts) == 0 {
		return fmt.Errorf("bundle: no artifacts")
	}
	zw := zip.NewWriter(w)

	manifest := make([]ManifestEntry, 0, len(artifacts))
	seen := map[string]int{}
	for _, a := range artifacts {
		name := a.Filename
		if name == "" {
			name = fmt.Sprintf("artifact.%s", a.Format.Extension())
		}
		name = dedupe(encodeName(name), seen)

		ew, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("bundle: create %s: %w", name, err)
		}
		if _, err := ew.Write(a.Bytes); err != nil {
			return fmt.Errorf("bundle: write %s: %w", name, err)
		}
		manifest = append(manifest, ManifestEntry{
			Filename:  name,
			Format:    string(a.Format),
			Version:   a.Version,
			Audience:  string(a.Audience),
			MediaType: a.MediaType,
			SizeBytes: len(a.Bytes),
		})
	}

	mw, err := zw.Create(ManifestName)
	if err != nil {
		return fmt.Errorf("bundle: create manifest: %w", err)
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return fmt.Errorf("bundle: write manifest: %w", err)
	}
	return zw.Close()
}

// encodeName percent-encodes names containing non-ASCII runes; plain-ASCII
// names pass through untouched.
func encodeName(name string) string {
	for _, r := range name {
		if r >= 0x80 {
			return url.PathEscape(name)
		}
	}
	return name
}

// dedupe suffixes repeated names with a counter before the extension.
func dedupe(name string, seen map[string]int) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := ""
	base := name
	if i := lastDot(name); i >= 0 {
		base, ext = name[:i], name[i:]
	}
	return fmt.Sprintf("%s-%d%s", base, n, ext)
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
		if s[i] == '/' {
			break
		}
	}
	return -1
}
