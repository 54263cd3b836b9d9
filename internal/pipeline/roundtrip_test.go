package pipeline

import (
	"testing"

	"github.com/gerunddev/markbridge/internal/diff"
	"github.com/gerunddev/markbridge/internal/rdm"
)

// showDiff logs a unified diff between two serializations.
func showDiff(t *testing.T, name, expected, actual string) {
	t.Helper()
	if d := diff.Unified(name, expected, actual); d != "" {
		t.Log("\n" + d)
	}
}

// Canonical documents serialize back to themselves on the first pass.
func TestNormalizeCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty document", input: ""},
		{name: "heading and paragraph", input: "# Title\n\nHello world.\n"},
		{name: "bullet list", input: "- a\n- b\n"},
		{name: "ordered list", input: "1. one\n2. two\n"},
		{name: "task list", input: "- [ ] open\n- [x] done\n"},
		{name: "nested list", input: "- a\n  - b\n"},
		{name: "blockquote", input: "> quote\n"},
		{name: "nested blockquote", input: "> outer\n>\n> > inner\n"},
		{name: "fenced code", input: "```go\nfmt.Println(1)\n```\n"},
		{name: "frontmatter", input: "---\ntitle: Test\n---\n\n# Doc\n"},
		{name: "bare diagram", input: "@startuml\nAlice -> Bob\n@enduml\n"},
		{name: "fenced diagram", input: "```plantuml\n@startuml\nA -> B\n@enduml\n```\n"},
		{name: "hard break", input: "line one\\\nline two\n"},
		{name: "soft break", input: "line one\nline two\n"},
		{name: "emphasis mix", input: "Some *emphasis* plus `code` and ~~strike~~.\n"},
		{name: "strong emphasis", input: "***both***\n"},
		{name: "partial overlap", input: "**a*b***\n"},
		{name: "link with title", input: "[label](https://example.com \"title\")\n"},
		{name: "autolink", input: "<https://example.com>\n"},
		{name: "email autolink", input: "<user@example.com>\n"},
		{name: "table", input: "| a | b |\n| --- | --- |\n| 1 | 2 |\n"},
		{name: "aligned table", input: "| a | b |\n| :--- | ---: |\n| 1 | 2 |\n"},
		{name: "image paragraph", input: "![alt](img.png)\n"},
		{name: "image-only list item", input: "- ![a](i.png)\n"},
		{name: "escaped heading", input: "\\# not a heading\n"},
		{name: "escaped list marker", input: "1\\. not a list\n"},
		{name: "escaped emphasis", input: "\\*not em\\*\n"},
		{name: "thematic break", input: "---\n"},
		{name: "paragraph then break", input: "para\n\n---\n"},
		{name: "html block", input: "<div>\nhello\n</div>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input, "")
			if got != tt.input {
				t.Errorf("canonical input changed:\ngot:  %q\nwant: %q", got, tt.input)
				showDiff(t, tt.name, tt.input, got)
			}
		})
	}
}

// Arbitrary input reaches a fixed point after one pass: normalizing the
// normalized text is the identity.
func TestNormalizeIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "setext heading", input: "Title\n=====\n"},
		{name: "indented code", input: "    x := 1\n"},
		{name: "star bullets", input: "* a\n* b\n"},
		{name: "plus bullets", input: "+ a\n+ b\n"},
		{name: "paren ordered marker", input: "1) one\n2) two\n"},
		{name: "loose list tightened", input: "- loose\n\n- list\n"},
		{name: "underscore emphasis", input: "_a_ and __b__\n"},
		{name: "double space hard break", input: "one  \ntwo\n"},
		{name: "trailing whitespace", input: "text   \n"},
		{name: "image inside prose", input: "before ![alt](img.png) after\n"},
		{name: "image alone in paragraph with spaces", input: "  ![alt](img.png)  \n"},
		{name: "image after strong prefix", input: "**b** ![i](a.png)\n"},
		{name: "image after code prefix", input: "`c` ![i](a.png)\n"},
		{name: "setext ambiguity", input: "not a heading\n---\n"},
		{name: "overlapping emphasis", input: "***a**b*\n"},
		{name: "asterisk thematic break", input: "***\n"},
		{name: "crlf-free multi block", input: "# A\n\npara\n\n> q\n\n- l\n"},
		{name: "frontmatter without body", input: "---\ntitle: x\n---\n"},
		{name: "invalid frontmatter", input: "---\nnot: [valid\n---\nbody\n"},
		{name: "diagram missing end marker", input: "@startuml\nA -> B\n\ntext\n"},
		{name: "prose with bold image and tasks", input: "# Title\n\nA **bold** word and ![alt](a.png).\n\n- [ ] one\n- [x] two\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Normalize(tt.input, "")
			second := Normalize(first, "")
			if second != first {
				t.Errorf("second pass changed the text:\nfirst:  %q\nsecond: %q", first, second)
				showDiff(t, tt.name, first, second)
			}
			// normalization may rewrite the text, but the document it
			// parses to never changes
			if !rdm.Equal(Parse(tt.input, ""), Parse(first, "")) {
				t.Errorf("document changed across normalization")
			}
		})
	}
}

func TestNormalizeSplitsImageParagraph(t *testing.T) {
	input := "before ![shot](assets/shot.png) after\n"
	expected := "before\n\n![shot](assets/shot.png)\n\nafter\n"

	got := Normalize(input, "")
	if got != expected {
		t.Errorf("Normalize:\ngot:  %q\nwant: %q", got, expected)
		showDiff(t, "image-split", expected, got)
	}
}

func TestNormalizeFullDocument(t *testing.T) {
	input := `---
title: Demo
---

# Report

before ![shot](assets/shot.png) after

@startuml
A -> B
@enduml

- [ ] trailing task
`
	expected := `---
title: Demo
---

# Report

before

![shot](assets/shot.png)

after

@startuml
A -> B
@enduml

- [ ] trailing task
`

	first := Normalize(input, "")
	if first != expected {
		t.Errorf("unexpected first pass:\ngot:  %q\nwant: %q", first, expected)
		showDiff(t, "full-document", expected, first)
	}
	if second := Normalize(first, ""); second != first {
		t.Errorf("second pass changed the text")
		showDiff(t, "full-document", first, second)
	}
}

func TestNormalizePreservesResolvedImagesRoundTrip(t *testing.T) {
	base := "app-resource:///notes"
	input := "![alt](assets/img.png)\n"

	doc := Parse(input, base)
	img := doc.Content[0]
	if img.Type != rdm.Image || img.Src != base+"/assets/img.png" {
		t.Fatalf("image not resolved against base: %+v", img)
	}

	if got := Serialize(doc, base); got != input {
		t.Errorf("serialization lost the original reference: %q", got)
	}
}
