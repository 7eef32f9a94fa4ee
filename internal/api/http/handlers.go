package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/examfoundry/examfoundry/internal/bundle"
	"github.com/examfoundry/examfoundry/internal/docstore"
	"github.com/examfoundry/examfoundry/internal/export"
	"github.com/examfoundry/examfoundry/internal/model"
	"github.com/examfoundry/examfoundry/internal/version"
)

// POST /documents
// Registers an already-generated, fully-validated content model. The engine
// does not parse AI provider output; that is the content source's job.
func CreateDocumentHandler(store docstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc model.AssessmentDocument
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		if err := model.Validate(doc); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if err := store.PutDocument(r.Context(), doc); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"document_id": doc.ID})
	}
}

// GET /documents/{documentID}
func GetDocumentHandler(store docstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.GetDocument(r.Context(), chi.URLParam(r, "documentID"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, docstore.ErrNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		_ = json.NewEncoder(w).Encode(doc)
	}
}

// POST /documents/{documentID}/versions  { "letter": "B" }  (letter optional)
func CreateVersionHandler(store docstore.Store, gen *version.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID := chi.URLParam(r, "documentID")
		var req struct {
			Letter string `json:"letter"`
		}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
				return
			}
		}

		doc, err := store.GetDocument(r.Context(), docID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, docstore.ErrNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		existing, err := store.ListVersions(r.Context(), docID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		v, err := gen.Create(r.Context(), doc, existing, model.VersionLetter(req.Letter))
		if err != nil {
			var verr *version.Error
			if errors.As(err, &verr) {
				status := http.StatusConflict
				if verr.Kind == version.InvalidLetter {
					status = http.StatusBadRequest
				}
				http.Error(w, verr.Error(), status)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := store.PutVersion(r.Context(), v); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, docstore.ErrDuplicateLetter) {
				status = http.StatusConflict
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"letter":    v.Letter,
			"questions": len(v.Questions),
		})
	}
}

// GET /documents/{documentID}/versions
func ListVersionsHandler(store docstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vs, err := store.ListVersions(r.Context(), chi.URLParam(r, "documentID"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, docstore.ErrNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		letters := make([]model.VersionLetter, 0, len(vs))
		for _, v := range vs {
			letters = append(letters, v.Letter)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"letters": letters})
	}
}

type exportRequest struct {
	Format    model.Format         `json:"format"`
	Version   string               `json:"version,omitempty"` // letter or "original"
	Audience  model.Audience       `json:"audience,omitempty"`
	Branding  model.BrandingConfig `json:"branding,omitempty"`
	Timestamp *time.Time           `json:"timestamp,omitempty"`
}

// POST /documents/{documentID}/export
func ExportHandler(store docstore.Store, svc *export.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID := chi.URLParam(r, "documentID")
		var req exportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		doc, err := store.GetDocument(r.Context(), docID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		var ver *model.Version
		if req.Version != "" && req.Version != model.OriginalVersion {
			vs, err := store.ListVersions(r.Context(), docID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			for i := range vs {
				if string(vs[i].Letter) == req.Version {
					ver = &vs[i]
					break
				}
			}
			if ver == nil {
				http.Error(w, "version not found: "+req.Version, http.StatusNotFound)
				return
			}
		}

		opts := export.Options{Format: req.Format, Version: ver, Audience: req.Audience}
		if req.Timestamp != nil {
			opts.Timestamp = *req.Timestamp
		}
		art, err := svc.Export(doc, req.Branding, opts)
		if err != nil {
			http.Error(w, err.Error(), exportStatus(err))
			return
		}
		w.Header().Set("Content-Type", art.MediaType)
		w.Header().Set("Content-Disposition", export.ContentDisposition(art.Filename))
		_, _ = w.Write(art.Bytes)
	}
}

type bundleRequest struct {
	Requests  []export.BatchRequest `json:"requests"`
	Branding  model.BrandingConfig  `json:"branding,omitempty"`
	Timestamp *time.Time            `json:"timestamp,omitempty"`
}

// POST /documents/{documentID}/bundle
// Renders every requested (format, version, audience) pair and streams a zip
// of the successes. Per-artifact outcomes travel in the X-Bundle-Report
// header so one bad combination never fails the whole batch.
func BundleHandler(store docstore.Store, svc *export.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID := chi.URLParam(r, "documentID")
		var req bundleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Requests) == 0 {
			http.Error(w, "no requests", http.StatusBadRequest)
			return
		}
		doc, err := store.GetDocument(r.Context(), docID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		versions, err := store.ListVersions(r.Context(), docID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		var ts time.Time
		if req.Timestamp != nil {
			ts = *req.Timestamp
		}
		results := svc.ExportBatch(doc, versions, req.Branding, req.Requests, ts)

		var artifacts []model.ExportArtifact
		for _, res := range results {
			if res.Artifact != nil {
				artifacts = append(artifacts, *res.Artifact)
			}
		}
		if len(artifacts) == 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(results)
			return
		}

		report, _ := json.Marshal(results)
		w.Header().Set("X-Bundle-Report", string(report))
		w.Header().Set("Content-Type", bundle.MediaType)
		w.Header().Set("Content-Disposition", export.ContentDisposition(export.BundleFilename(doc.Title)))
		// response has started streaming; a failure mid-zip is not recoverable
		_ = bundle.AssembleTo(w, artifacts)
	}
}

// GET /events?limit=50
// Returns the registry change trail, newest first.
func EventsHandler(events *docstore.EventLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		evs, err := events.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"events": evs})
	}
}

func exportStatus(err error) int {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
