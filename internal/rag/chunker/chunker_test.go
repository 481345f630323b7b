package chunker

import (
	"strings"
	"testing"
)

func TestSplit_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		limit    int
		overlap  int
		expected []string
	}{
		{
			name:     "Short_Text_Single_Chunk",
			text:     "hello world",
			limit:    100,
			overlap:  10,
			expected: []string{"hello world"},
		},
		{
			name:     "Exact_Overlap_Shared",
			text:     "abcdefghij",
			limit:    4,
			overlap:  2,
			expected: []string{"abcd", "cdef", "efgh", "ghij"},
		},
		{
			name:     "Final_Chunk_Shorter",
			text:     "abcdefg",
			limit:    4,
			overlap:  2,
			expected: []string{"abcd", "cdef", "efg"},
		},
		{
			name:     "Whitespace_Only_Input",
			text:     "   \n\t  ",
			limit:    4,
			overlap:  1,
			expected: nil,
		},
		{
			name:     "Empty_Input",
			text:     "",
			limit:    10,
			overlap:  2,
			expected: nil,
		},
		{
			name:     "Zero_Limit",
			text:     "abc",
			limit:    0,
			overlap:  0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, tt.limit, tt.overlap)
			if len(got) != len(tt.expected) {
				t.Fatalf("chunk count got %d, want %d (%v)", len(got), len(tt.expected), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("chunk %d got %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 50)

	first := Split(text, 100, 20)
	second := Split(text, 100, 20)

	if len(first) != len(second) {
		t.Fatalf("re-chunking changed chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_BoundsAndMultibyte(t *testing.T) {
	// multibyte runes must never be cut mid-encoding
	text := strings.Repeat("héllo wörld ", 100)
	limit := 37
	overlap := 9

	chunks := Split(text, limit, overlap)
	if len(chunks) == 0 {
		t.Fatal("expected chunks for non-empty input")
	}

	for i, c := range chunks {
		if n := len([]rune(c)); n > limit {
			t.Errorf("chunk %d has %d runes, limit is %d", i, n, limit)
		}
		if !strings.Contains(text, c) {
			t.Errorf("chunk %d is not a substring of the input", i)
		}
	}
}

func TestSplit_OverlapClamped(t *testing.T) {
	// overlap >= limit would loop forever without clamping
	chunks := Split("abcdefghijklmnop", 4, 10)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if len(c) > 4 {
			t.Errorf("chunk %d exceeds limit: %q", i, c)
		}
	}
}
