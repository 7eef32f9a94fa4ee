// Package export orchestrates a full render: validation, branding and font
// resolution, block compilation, and format adaptation.
package export

import (
	"fmt"
	"sync"
	"time"

	"github.com/examfoundry/examfoundry/internal/blocks"
	"github.com/examfoundry/examfoundry/internal/branding"
	"github.com/examfoundry/examfoundry/internal/fonts"
	"github.com/examfoundry/examfoundry/internal/model"
	"github.com/examfoundry/examfoundry/internal/render"
)

// Service renders artifacts. It holds only read-only collaborators, so a
// single Service is safe for concurrent renders.
type Service struct {
	Assets branding.AssetLoader
	Fonts  *fonts.Resolver
}

func NewService(assets branding.AssetLoader, fontRes *fonts.Resolver) *Service {
	if fontRes == nil {
		fontRes = fonts.NewResolver(nil, nil)
	}
	return &Service{Assets: assets, Fonts: fontRes}
}

// Options select what to render. A nil Version renders the original document.
// Timestamp is the only time input; leaving it zero keeps output free of
// dates entirely.
type Options struct {
	Format    model.Format
	Version   *model.Version
	Audience  model.Audience
	Timestamp time.Time
}

// Export renders one artifact. Validation failures, unknown formats, and
// adapter errors are returned to the caller; asset and font degradations are
// recorded as warnings on the artifact's render and never abort.
func (s *Service) Export(doc model.AssessmentDocument, cfg model.BrandingConfig, opts Options) (model.ExportArtifact, error) {
	if err := model.Validate(doc); err != nil {
		return model.ExportArtifact{}, err
	}
	adapter, ok := render.Lookup(opts.Format)
	if !ok {
		return model.ExportArtifact{}, fmt.Errorf("export: unknown format %q", opts.Format)
	}
	if opts.Version != nil && opts.Version.DocumentID != doc.ID {
		return model.ExportArtifact{}, fmt.Errorf("export: version %s belongs to document %s, not %s",
			opts.Version.Letter, opts.Version.DocumentID, doc.ID)
	}
	audience := opts.Audience
	if audience == "" {
		audience = model.AudienceStudent
	}

	ctx := branding.Resolve(cfg, s.Assets)
	ctx.Timestamp = opts.Timestamp
	ctx.Language = doc.Params.Language

	// Font resolution happens once per render, not per glyph.
	script := fonts.ScriptForLanguage(doc.Params.Language)
	handle, fontWarnings := s.Fonts.ResolveFont(script)
	ctx.Font = handle
	ctx.Warnings = append(ctx.Warnings, fontWarnings...)

	showAnswers := audience == model.AudienceInstructor
	seq, err := blocks.Compile(doc, opts.Version, ctx, showAnswers)
	if err != nil {
		return model.ExportArtifact{}, err
	}

	data, err := adapter.Render(seq, ctx)
	if err != nil {
		return model.ExportArtifact{}, err
	}

	versionLabel := model.OriginalVersion
	if opts.Version != nil {
		versionLabel = string(opts.Version.Letter)
	}
	return model.ExportArtifact{
		Format:    opts.Format,
		Version:   versionLabel,
		Audience:  audience,
		Filename:  ArtifactFilename(doc.Title, versionLabel, audience, opts.Format),
		MediaType: opts.Format.MediaType(),
		Bytes:     data,
	}, nil
}

// BatchRequest names one (format, version, audience) combination.
type BatchRequest struct {
	Format   model.Format   `json:"format"`
	Version  string         `json:"version"` // letter or "original"
	Audience model.Audience `json:"audience"`
}

// BatchResult reports one request's outcome. Failed renders carry the error
// text; the rest of the batch is unaffected.
type BatchResult struct {
	Request  BatchRequest          `json:"request"`
	Artifact *model.ExportArtifact `json:"-"`
	Err      string                `json:"error,omitempty"`
}

// ExportBatch renders every requested combination. Renders are independent
// and run concurrently; results come back in request order.
func (s *Service) ExportBatch(doc model.AssessmentDocument, versions []model.Version, cfg model.BrandingConfig, reqs []BatchRequest, ts time.Time) []BatchResult {
	byLetter := map[string]*model.Version{}
	for i := range versions {
		byLetter[string(versions[i].Letter)] = &versions[i]
	}

	results := make([]BatchResult, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req BatchRequest) {
			defer wg.Done()
			results[i].Request = req

			var ver *model.Version
			if req.Version != "" && req.Version != model.OriginalVersion {
				ver = byLetter[req.Version]
				if ver == nil {
					results[i].Err = fmt.Sprintf("version %q does not exist", req.Version)
					return
				}
			}
			art, err := s.Export(doc, cfg, Options{
				Format:    req.Format,
				Version:   ver,
				Audience:  req.Audience,
				Timestamp: ts,
			})
			if err != nil {
				results[i].Err = err.Error()
				return
			}
			results[i].Artifact = &art
		}(i, req)
	}
	wg.Wait()
	return results
}
