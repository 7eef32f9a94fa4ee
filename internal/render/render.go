// Package render defines the adapter contract shared by all output formats
// and the registry format subpackages register themselves into.
package render

import (
	"fmt"

	"github.com/examfoundry/examfoundry/internal/blocks"
	"github.com/examfoundry/examfoundry/internal/branding"
	"github.com/examfoundry/examfoundry/internal/model"
)

// Adapter turns a block sequence into artifact bytes for one format. Render
// is pure: identical inputs produce identical bytes, and a failed render
// returns no partial output.
type Adapter interface {
	Render(seq blocks.BlockSequence, ctx *branding.RenderContext) ([]byte, error)
}

// Error reports a structural failure while rendering one artifact.
// BlockIndex identifies the offending block within the sequence.
type Error struct {
	Format     model.Format
	BlockIndex int
	Reason     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: block %d: %s", e.Format, e.BlockIndex, e.Reason)
}

// Errorf builds an *Error for the given block index.
func Errorf(format model.Format, blockIndex int, msg string, args ...interface{}) *Error {
	return &Error{Format: format, BlockIndex: blockIndex, Reason: fmt.Sprintf(msg, args...)}
}

// Registry of adapters by format tag. Call Register from init() in
// subpackages.
var registry = map[model.Format]Adapter{}

func Register(format model.Format, a Adapter) { registry[format] = a }

func Lookup(format model.Format) (Adapter, bool) { a, ok := registry[format]; return a, ok }

// Formats lists the registered format tags.
func Formats() []model.Format {
	out := make([]model.Format, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	return out
}
