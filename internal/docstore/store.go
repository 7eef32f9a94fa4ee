// Package docstore keeps registered documents and their versions so the
// version-letter invariants can be enforced across requests. Rendered
// artifacts themselves are never persisted here.
package docstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/examfoundry/examfoundry/internal/model"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicateLetter = errors.New("version letter already exists")
)

type Store interface {
	PutDocument(ctx context.Context, doc model.AssessmentDocument) error
	GetDocument(ctx context.Context, id string) (model.AssessmentDocument, error)
	// PutVersion fails with ErrDuplicateLetter when the letter is taken;
	// versions are never silently overwritten.
	PutVersion(ctx context.Context, v model.Version) error
	ListVersions(ctx context.Context, documentID string) ([]model.Version, error)
}

type memoryStore struct {
	mu       sync.RWMutex
	docs     map[string]model.AssessmentDocument
	versions map[string]map[model.VersionLetter]model.Version
}

// NewInMemoryStore is used by tests and single-process deployments.
func NewInMemoryStore() Store {
	return &memoryStore{
		docs:     map[string]model.AssessmentDocument{},
		versions: map[string]map[model.VersionLetter]model.Version{},
	}
}

func (m *memoryStore) PutDocument(_ context.Context, doc model.AssessmentDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

func (m *memoryStore) GetDocument(_ context.Context, id string) (model.AssessmentDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return model.AssessmentDocument{}, ErrNotFound
	}
	return doc, nil
}

func (m *memoryStore) PutVersion(_ context.Context, v model.Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[v.DocumentID]; !ok {
		return ErrNotFound
	}
	vs := m.versions[v.DocumentID]
	if vs == nil {
		vs = map[model.VersionLetter]model.Version{}
		m.versions[v.DocumentID] = vs
	}
	if _, ok := vs[v.Letter]; ok {
		return ErrDuplicateLetter
	}
	vs[v.Letter] = v
	return nil
}

func (m *memoryStore) ListVersions(_ context.Context, documentID string) ([]model.Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.docs[documentID]; !ok {
		return nil, ErrNotFound
	}
	out := make([]model.Version, 0, len(m.versions[documentID]))
	for _, v := range m.versions[documentID] {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Letter < out[j].Letter })
	return out, nil
}
