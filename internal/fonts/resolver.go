package fonts

import (
	"fmt"

	"golang.org/x/text/language"
)

// Script is a writing-system family the resolver knows a fallback chain for.
type Script string

const (
	ScriptLatin    Script = "latin"
	ScriptCyrillic Script = "cyrillic"
	ScriptArabic   Script = "arabic"
	ScriptCJK      Script = "cjk"
	ScriptHebrew   Script = "hebrew"
)

// BaseFontFamily is the built-in last resort. It maps to a PDF core font and
// needs no embedded bytes, so it can always be produced.
const BaseFontFamily = "Helvetica"

// Handle is a resolved font. When Core is true the font is a viewer built-in
// and Bytes is nil; otherwise Bytes holds a loadable TrueType blob suitable
// for embedding.
type Handle struct {
	Family string
	Bytes  []byte
	Core   bool
}

// Source loads font bytes by family name. Implementations typically read from
// a font directory; the resolver treats any error as "chain entry unavailable".
type Source interface {
	Load(family string) ([]byte, error)
}

// DefaultChains is the ordered fallback table per script family. The first
// entry that the Source can load wins; order encodes glyph-coverage preference.
var DefaultChains = map[Script][]string{
	ScriptLatin:    {"DejaVuSans", "NotoSans"},
	ScriptCyrillic: {"DejaVuSans", "NotoSans"},
	ScriptArabic:   {"NotoNaskhArabic", "Amiri", "DejaVuSans"},
	ScriptCJK:      {"NotoSansCJK", "DejaVuSans"},
	ScriptHebrew:   {"NotoSansHebrew", "DejaVuSans"},
}

// Resolver selects a font for a script by walking a read-only fallback chain.
// It holds no mutable state, so a single Resolver is safe for concurrent use.
type Resolver struct {
	chains map[Script][]string
	source Source
}

// NewResolver builds a resolver over src. A nil chains argument uses
// DefaultChains.
func NewResolver(src Source, chains map[Script][]string) *Resolver {
	if chains == nil {
		chains = DefaultChains
	}
	return &Resolver{chains: chains, source: src}
}

// ResolveFont walks the script's chain and returns the first loadable font.
// If every chain entry fails (or no source is configured) it returns the
// built-in base font together with a warning describing the degradation.
// This is called once per render, not per glyph.
func (r *Resolver) ResolveFont(script Script) (Handle, []string) {
	var warnings []string
	chain := r.chains[script]
	if len(chain) == 0 {
		warnings = append(warnings, fmt.Sprintf("font: no fallback chain for script %q, using base font", script))
		return Handle{Family: BaseFontFamily, Core: true}, warnings
	}
	if r.source != nil {
		for _, family := range chain {
			b, err := r.source.Load(family)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("font: %s unavailable for %s: %v", family, script, err))
				continue
			}
			return Handle{Family: family, Bytes: b}, warnings
		}
	}
	warnings = append(warnings, fmt.Sprintf("font: fallback chain exhausted for script %q, using base font", script))
	return Handle{Family: BaseFontFamily, Core: true}, warnings
}

// ScriptForLanguage maps a BCP 47 tag to the script family used to pick a
// fallback chain. Unknown or empty tags default to Latin.
func ScriptForLanguage(tag string) Script {
	if tag == "" {
		return ScriptLatin
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ScriptLatin
	}
	scr, _ := t.Script()
	switch scr.String() {
	case "Cyrl":
		return ScriptCyrillic
	case "Arab":
		return ScriptArabic
	case "Hans", "Hant", "Jpan", "Kore", "Hang", "Hani":
		return ScriptCJK
	case "Hebr":
		return ScriptHebrew
	default:
		return ScriptLatin
	}
}
