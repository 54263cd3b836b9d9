package assets

import (
	"strings"
	"testing"
	"time"
)

func TestExpandPatternDefault(t *testing.T) {
	src := Source{
		Data:    []byte("png bytes"),
		Name:    "shot.png",
		DocName: "notes",
		Now:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	got := ExpandPattern("", src)
	expected := "assets/notes/20240102030405-shot.png"
	if got != expected {
		t.Errorf("ExpandPattern = %q, want %q", got, expected)
	}
}

func TestExpandPatternPlaceholders(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		pattern  string
		src      Source
		expected string
	}{
		{
			name:     "hash placeholder",
			pattern:  "${hash}${ext}",
			src:      Source{Data: []byte("hello"), Name: "a.jpg", Now: now},
			expected: "2cf24dba5f.jpg",
		},
		{
			name:     "missing name falls back",
			pattern:  "${name}${ext}",
			src:      Source{Now: now},
			expected: "image.png",
		},
		{
			name:     "missing extension defaults to png",
			pattern:  "${name}${ext}",
			src:      Source{Name: "screenshot", Now: now},
			expected: "screenshot.png",
		},
		{
			name:     "doc dir placeholder",
			pattern:  "${docDir}/img/${name}${ext}",
			src:      Source{Name: "a.png", DocDir: "journal/2024", Now: now},
			expected: "journal/2024/img/a.png",
		},
		{
			name:     "path is cleaned",
			pattern:  "/assets//${name}${ext}",
			src:      Source{Name: "a.png", Now: now},
			expected: "assets/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPattern(tt.pattern, tt.src); got != tt.expected {
				t.Errorf("ExpandPattern(%q) = %q, want %q", tt.pattern, got, tt.expected)
			}
		})
	}
}

func TestExpandPatternUUID(t *testing.T) {
	src := Source{Name: "a.png", Now: time.Now()}

	a := ExpandPattern("${uuid}${ext}", src)
	b := ExpandPattern("${uuid}${ext}", src)
	if a == b {
		t.Errorf("uuid placeholder produced identical names: %q", a)
	}
	if !strings.HasSuffix(a, ".png") {
		t.Errorf("extension missing: %q", a)
	}
}

func TestExpandPatternHashDeterministic(t *testing.T) {
	src := Source{Data: []byte("same bytes"), Name: "a.png", Now: time.Now()}

	a := ExpandPattern("${hash}${ext}", src)
	b := ExpandPattern("${hash}${ext}", src)
	if a != b {
		t.Errorf("hash placeholder should be stable for identical data: %q vs %q", a, b)
	}
}
