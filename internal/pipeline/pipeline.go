// Package pipeline wires the conversion stages into the two entry points the
// host shell calls: markdown text to rich document, and rich document back
// to markdown text.
package pipeline

import (
	"github.com/gerunddev/markbridge/internal/convert"
	"github.com/gerunddev/markbridge/internal/diagram"
	"github.com/gerunddev/markbridge/internal/parser"
	"github.com/gerunddev/markbridge/internal/rdm"
	"github.com/gerunddev/markbridge/internal/serializer"
)

// Parse turns markdown text into a rich document. base is the
// host-addressable root of the document's directory, used to resolve image
// references; pass "" when resources should stay as written.
func Parse(text, base string) *rdm.Node {
	return convert.ToRDM(parser.Parse(diagram.Preprocess(text)), base)
}

// Serialize turns a rich document back into markdown text. Output is
// deterministic: the same document always yields byte-identical text, which
// is what lets the host tell genuine external edits from its own writes.
func Serialize(doc *rdm.Node, base string) string {
	return diagram.Postprocess(serializer.Serialize(convert.ToAST(doc, base)))
}

// Normalize runs text once through the full pipeline. A second pass over
// its output is the identity.
func Normalize(text, base string) string {
	return Serialize(Parse(text, base), base)
}
