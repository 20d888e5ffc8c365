package index

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// snippetRadius is the number of bytes of context kept on each side of a match
const snippetRadius = 80

type span struct {
	start, end int
}

// matcher finds query occurrences in page text. Literal mode is a
// case-insensitive non-overlapping substring scan; regex mode compiles the
// pattern case-insensitively and takes the engine's match order.
type matcher struct {
	re     *regexp.Regexp
	needle string
}

func newMatcher(query string, regex bool) (*matcher, error) {
	if regex {
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", query, err)
		}
		return &matcher{re: re}, nil
	}
	return &matcher{needle: strings.ToLower(query)}, nil
}

func (m *matcher) find(text string) []span {
	if m.re != nil {
		locs := m.re.FindAllStringIndex(text, -1)
		spans := make([]span, 0, len(locs))
		for _, loc := range locs {
			spans = append(spans, span{start: loc[0], end: loc[1]})
		}
		return spans
	}

	if m.needle == "" {
		return nil
	}
	lowered, back := lowerWithOffsets(text)
	var spans []span
	// Resume after each match's end so adjacent occurrences are not
	// double-counted. Spans are mapped back to offsets in the original
	// text before slicing it.
	for start := 0; ; {
		i := strings.Index(lowered[start:], m.needle)
		if i < 0 {
			break
		}
		i += start
		end := i + len(m.needle)
		spans = append(spans, span{start: back[i], end: back[end]})
		start = end
	}
	return spans
}

// lowerWithOffsets lowercases text for the literal scan and records, for each
// byte of the lowered form plus one past the end, the offset of the
// originating byte in text. Lowercasing can change byte length (case pairs
// like 'İ', invalid bytes widening to U+FFFD), so offsets into the lowered
// form cannot index the original text directly.
func lowerWithOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	back := make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		lr := unicode.ToLower(r)
		b.WriteRune(lr)
		for n := utf8.RuneLen(lr); n > 0; n-- {
			back = append(back, i)
		}
		i += size
	}
	back = append(back, len(text))
	return b.String(), back
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// snippet cuts a fixed-radius window around a match, clipped to the text,
// trimmed, with line breaks collapsed to spaces
func snippet(text string, s span) string {
	left := s.start - snippetRadius
	if left < 0 {
		left = 0
	}
	right := s.end + snippetRadius
	if right > len(text) {
		right = len(text)
	}
	return newlines.Replace(strings.TrimSpace(text[left:right]))
}
