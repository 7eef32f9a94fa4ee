package version

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/examfoundry/examfoundry/internal/model"
)

// HTTPRegenerator calls the content-source collaborator over HTTP. The
// collaborator regenerates a question set from the document's stored
// generation parameters; any transport or decode failure maps to
// ErrUnavailable so the generator falls back to shuffling.
type HTTPRegenerator struct {
	URL    string
	Client *http.Client
}

func NewHTTPRegenerator(url string) *HTTPRegenerator {
	return &HTTPRegenerator{URL: url, Client: http.DefaultClient}
}

func (h *HTTPRegenerator) Regenerate(ctx context.Context, params model.GenerationParams) ([]model.Question, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("%w: encode params: %v", ErrUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return out.Questions, nil
}
