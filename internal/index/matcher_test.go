package index

import (
	"strings"
	"testing"
)

// pdftotext output is not guaranteed valid UTF-8. Lowercasing widens each
// invalid byte to the 3-byte replacement rune, so a match late in such a
// page used to produce offsets past the end of the original text.
func TestLiteralMatchAfterInvalidUTF8(t *testing.T) {
	text := strings.Repeat("\xff", 300) + "needle"

	m, err := newMatcher("needle", false)
	if err != nil {
		t.Fatal(err)
	}
	spans := m.find(text)
	if len(spans) != 1 {
		t.Fatalf("expected 1 match, got %d", len(spans))
	}
	if spans[0].start != 300 || spans[0].end != 306 {
		t.Errorf("span [%d:%d], want [300:306]", spans[0].start, spans[0].end)
	}
	if got := snippet(text, spans[0]); !strings.Contains(got, "needle") {
		t.Errorf("snippet lost the match: %q", got)
	}
}

func TestLiteralMatchAfterShrinkingCasePair(t *testing.T) {
	// 'İ' is 2 bytes but lowercases to the 1-byte 'i', shifting every
	// offset after the prefix.
	prefix := strings.Repeat("İ", 40)
	text := prefix + "the Needle sits here"

	m, err := newMatcher("needle", false)
	if err != nil {
		t.Fatal(err)
	}
	spans := m.find(text)
	if len(spans) != 1 {
		t.Fatalf("expected 1 match, got %d", len(spans))
	}
	if spans[0].start != len(prefix)+4 {
		t.Errorf("span start %d, want %d", spans[0].start, len(prefix)+4)
	}
	got := snippet(text, spans[0])
	if !strings.Contains(got, "Needle sits here") {
		t.Errorf("snippet misaligned: %q", got)
	}
}

func TestLiteralMatchInsideInvalidBytes(t *testing.T) {
	text := "\xfe\xffneedle\xff\xfe needle"

	m, err := newMatcher("needle", false)
	if err != nil {
		t.Fatal(err)
	}
	spans := m.find(text)
	if len(spans) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(spans))
	}
	for _, s := range spans {
		if text[s.start:s.end] != "needle" {
			t.Errorf("span [%d:%d] covers %q in the original text", s.start, s.end, text[s.start:s.end])
		}
	}
}
