package fonts_test

import (
	"errors"
	"testing"

	"github.com/examfoundry/examfoundry/internal/fonts"
)

type fakeSource struct {
	available map[string][]byte
}

func (f *fakeSource) Load(family string) ([]byte, error) {
	b, ok := f.available[family]
	if !ok {
		return nil, errors.New("not installed")
	}
	return b, nil
}

func TestResolvePrefersChainHead(t *testing.T) {
	src := &fakeSource{available: map[string][]byte{
		"DejaVuSans": []byte("ttf-a"),
		"NotoSans":   []byte("ttf-b"),
	}}
	r := fonts.NewResolver(src, nil)
	h, warnings := r.ResolveFont(fonts.ScriptLatin)
	if h.Family != "DejaVuSans" || h.Core {
		t.Fatalf("expected DejaVuSans, got %+v", h)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestResolveFallsThroughChain(t *testing.T) {
	src := &fakeSource{available: map[string][]byte{"NotoSans": []byte("ttf-b")}}
	r := fonts.NewResolver(src, nil)
	h, warnings := r.ResolveFont(fonts.ScriptLatin)
	if h.Family != "NotoSans" {
		t.Fatalf("expected NotoSans fallback, got %+v", h)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning for the skipped entry, got %v", warnings)
	}
}

func TestResolveChainExhaustedUsesBaseFont(t *testing.T) {
	r := fonts.NewResolver(&fakeSource{}, nil)
	h, warnings := r.ResolveFont(fonts.ScriptArabic)
	if !h.Core || h.Family != fonts.BaseFontFamily {
		t.Fatalf("expected base font, got %+v", h)
	}
	if len(warnings) == 0 {
		t.Fatal("degrading to the base font must record a warning")
	}
}

func TestResolveNilSource(t *testing.T) {
	r := fonts.NewResolver(nil, nil)
	h, _ := r.ResolveFont(fonts.ScriptCJK)
	if !h.Core {
		t.Fatalf("nil source must yield the core base font, got %+v", h)
	}
}

func TestScriptForLanguage(t *testing.T) {
	cases := map[string]fonts.Script{
		"en":      fonts.ScriptLatin,
		"tr":      fonts.ScriptLatin,
		"ru":      fonts.ScriptCyrillic,
		"ar":      fonts.ScriptArabic,
		"ar-EG":   fonts.ScriptArabic,
		"zh-Hans": fonts.ScriptCJK,
		"ja":      fonts.ScriptCJK,
		"he":      fonts.ScriptHebrew,
		"":        fonts.ScriptLatin,
		"bogus!!": fonts.ScriptLatin,
	}
	for tag, want := range cases {
		if got := fonts.ScriptForLanguage(tag); got != want {
			t.Errorf("ScriptForLanguage(%q) = %s, want %s", tag, got, want)
		}
	}
}
