package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/examfoundry/examfoundry/internal/storage"
)

// MountAssets exposes branding asset upload/fetch (logos referenced by
// BrandingConfig.LogoRef).
func MountAssets(r chi.Router, store *storage.FSStore) {
	// POST /assets/{ref}
	r.Post("/{ref}", func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "ref")
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		if _, err := store.Put(ref, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"ref": ref})
	})

	// GET /assets/*
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		b, err := store.Load(ref)
		if err != nil {
			http.Error(w, "not found: "+err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", http.DetectContentType(b))
		_, _ = w.Write(b)
	})
}
