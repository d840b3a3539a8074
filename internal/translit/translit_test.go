package translit_test

import (
	"strings"
	"testing"

	"github.com/bharatml/codemix/internal/translit"
)

func TestToDevanagari_CommonWords(t *testing.T) {
	t.Parallel()
	tr := translit.New()
	tests := []struct {
		in, want string
	}{
		{"namaste", "नमस्ते"},
		{"kyaa", "क्या"},
		{"hai", "है"},
		{"aaj", "आज्"},
		{"bahut", "बहुत्"},
		{"hoon", "हून्"},
		{"dil", "दिल्"},
		{"maiM", "मैं"},
	}
	for _, tt := range tests {
		if got := tr.ToDevanagari(tt.in); got != tt.want {
			t.Errorf("ToDevanagari(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToDevanagari_SentencePreservesSpacing(t *testing.T) {
	t.Parallel()
	tr := translit.New()
	got := tr.ToDevanagari("kyaa hai")
	if got != "क्या है" {
		t.Errorf("got %q, want %q", got, "क्या है")
	}
}

func TestToDevanagari_PassThroughOutsideScheme(t *testing.T) {
	t.Parallel()
	tr := translit.New()
	got := tr.ToDevanagari("123 ... ??")
	if got != "123 ... ??" {
		t.Errorf("digits/punctuation should pass through, got %q", got)
	}
}

func TestToDevanagari_MixedInputDegradesGracefully(t *testing.T) {
	t.Parallel()
	tr := translit.New()
	// "4" is outside the scheme and must survive; surrounding Hindi
	// romanization must still convert.
	got := tr.ToDevanagari("sem 4 hai")
	if !strings.Contains(got, "4") {
		t.Errorf("digit lost in %q", got)
	}
	if !strings.Contains(got, "है") {
		t.Errorf("expected %q to contain %q", got, "है")
	}
}

func TestToDevanagari_EmptyInput(t *testing.T) {
	t.Parallel()
	tr := translit.New()
	if got := tr.ToDevanagari(""); got != "" {
		t.Errorf("empty input should stay empty, got %q", got)
	}
}

func TestToDevanagari_NeverGrowsUnbounded(t *testing.T) {
	t.Parallel()
	tr := translit.New()
	// Already-Devanagari input passes through byte-for-byte.
	in := "मैं जाता हूँ"
	if got := tr.ToDevanagari(in); got != in {
		t.Errorf("Devanagari input should be unchanged, got %q", got)
	}
}
