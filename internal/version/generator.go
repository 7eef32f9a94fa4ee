// Package version produces labelled A-E variants of an assessment for
// exam-integrity purposes.
package version

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/examfoundry/examfoundry/internal/model"
)

// ErrUnavailable is returned by a Regenerator that cannot serve the request
// (quota exhaustion, offline, ...). The generator then takes the shuffle
// fallback path.
var ErrUnavailable = errors.New("content source unavailable")

// Regenerator asks the content-source collaborator for a fresh question set
// produced from the document's original generation parameters.
type Regenerator interface {
	Regenerate(ctx context.Context, params model.GenerationParams) ([]model.Question, error)
}

// ErrorKind classifies version generation failures.
type ErrorKind string

const (
	// Exhausted means all five letters A-E are taken.
	Exhausted ErrorKind = "exhausted"
	// NoVariation means no materially different ordering could be produced
	// within the retry budget.
	NoVariation ErrorKind = "no_variation"
	// InvalidLetter means the requested letter is outside the A-E space.
	InvalidLetter ErrorKind = "invalid_letter"
)

// Error is a version generation failure surfaced to the caller verbatim.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string { return fmt.Sprintf("version: %s: %s", e.Kind, e.Detail) }

// maxShuffleRetries bounds the re-shuffle loop when a candidate ordering
// collides with an existing version.
const maxShuffleRetries = 8

// Generator creates versions. A nil Regenerator always uses the shuffle
// fallback. The regeneration call is the only potentially slow step, so it
// runs under Timeout; a timeout is treated exactly like ErrUnavailable.
type Generator struct {
	Source  Regenerator
	Timeout time.Duration
}

func NewGenerator(src Regenerator) *Generator {
	return &Generator{Source: src, Timeout: 20 * time.Second}
}

// Create produces a new version of doc. existing holds the document's current
// versions; requested may be empty to pick the lowest unused letter.
func (g *Generator) Create(ctx context.Context, doc model.AssessmentDocument, existing []model.Version, requested model.VersionLetter) (model.Version, error) {
	letter, err := pickLetter(existing, requested)
	if err != nil {
		return model.Version{}, err
	}

	taken := takenKeys(doc, existing)

	questions := g.regenerate(ctx, doc)
	if questions != nil {
		ver := model.Version{Letter: letter, DocumentID: doc.ID, Questions: questions}
		if !taken[ver.OrdinalKey()] {
			return ver, nil
		}
		// regenerated set collided on ordinal sequence; fall through to
		// shuffling the regenerated pool
		return g.shuffled(doc.ID, letter, questions, taken)
	}
	return g.shuffled(doc.ID, letter, doc.Questions, taken)
}

// regenerate calls the collaborator under the configured timeout. Any failure
// (unavailable, timeout, malformed empty result) selects the fallback path.
func (g *Generator) regenerate(ctx context.Context, doc model.AssessmentDocument) []model.Question {
	if g.Source == nil {
		return nil
	}
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	qs, err := g.Source.Regenerate(ctx, doc.Params)
	if err != nil || len(qs) == 0 {
		return nil
	}
	for i := range qs {
		qs[i].Position = i + 1
	}
	return qs
}

// shuffled applies the deterministic content-preserving transform: a stable
// question-order shuffle seeded by the version letter, plus an independent
// option shuffle per multiple-choice question with the correct index
// relocated. Retries with a salted seed until the ordinal sequence is unique.
func (g *Generator) shuffled(docID string, letter model.VersionLetter, pool []model.Question, taken map[string]bool) (model.Version, error) {
	for attempt := 0; attempt <= maxShuffleRetries; attempt++ {
		qs := shuffleQuestions(pool, seed(docID, letter, attempt))
		key := model.OrdinalKey(qs)
		if taken[key] {
			continue
		}
		return model.Version{Letter: letter, DocumentID: docID, Questions: qs}, nil
	}
	return model.Version{}, &Error{Kind: NoVariation, Detail: fmt.Sprintf("no distinct ordering found for letter %s after %d attempts", letter, maxShuffleRetries)}
}

func pickLetter(existing []model.Version, requested model.VersionLetter) (model.VersionLetter, error) {
	used := map[model.VersionLetter]bool{}
	for _, v := range existing {
		used[v.Letter] = true
	}
	if requested != "" {
		valid := false
		for _, l := range model.Letters {
			if l == requested {
				valid = true
			}
		}
		if !valid {
			return "", &Error{Kind: InvalidLetter, Detail: fmt.Sprintf("letter %q outside A-E", requested)}
		}
		if used[requested] {
			return "", &Error{Kind: Exhausted, Detail: fmt.Sprintf("letter %s already taken", requested)}
		}
		return requested, nil
	}
	for _, l := range model.Letters {
		if !used[l] {
			return l, nil
		}
	}
	return "", &Error{Kind: Exhausted, Detail: "all five version letters are taken"}
}

// takenKeys collects the ordinal sequences already in use: the original
// document's and every existing version's.
func takenKeys(doc model.AssessmentDocument, existing []model.Version) map[string]bool {
	taken := map[string]bool{model.OrdinalKey(doc.Questions): true}
	for _, v := range existing {
		taken[v.OrdinalKey()] = true
	}
	return taken
}

func seed(docID string, letter model.VersionLetter, attempt int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d", docID, letter, attempt)
	return int64(h.Sum64())
}

func shuffleQuestions(pool []model.Question, s int64) []model.Question {
	rng := rand.New(rand.NewSource(s))
	qs := make([]model.Question, len(pool))
	copy(qs, pool)
	rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	for i := range qs {
		if qs[i].Type == model.MultipleChoice {
			qs[i] = shuffleOptions(qs[i], rng)
		}
	}
	return qs
}

// shuffleOptions permutes options and relocates the correct index through the
// same permutation.
func shuffleOptions(q model.Question, rng *rand.Rand) model.Question {
	perm := rng.Perm(len(q.Options))
	opts := make([]string, len(q.Options))
	correct := q.CorrectIndex
	for newIdx, oldIdx := range perm {
		opts[newIdx] = q.Options[oldIdx]
		if oldIdx == q.CorrectIndex {
			correct = newIdx
		}
	}
	q.Options = opts
	q.CorrectIndex = correct
	return q
}
