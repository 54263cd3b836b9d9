// Package diff renders the difference between a document and its normalized
// (once through the pipeline) form.
package diff

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified produces a unified diff from the original text to its normalized
// form. Returns "" when the two are identical.
func Unified(name, original, normalized string) string {
	if original == normalized {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), original, normalized)
	return fmt.Sprint(gotextdiff.ToUnified(name, name+" (normalized)", original, edits))
}

// Render wraps a unified diff in a diff code fence and renders it with
// Glamour for terminal output, falling back to the plain fenced text if
// rendering fails.
func Render(unified string) string {
	plain := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return plain
	}
	rendered, err := renderer.Render(plain)
	if err != nil {
		return plain
	}
	return rendered
}
