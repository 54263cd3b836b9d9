// Package rdm defines the rich-document model consumed by the editing
// surface: a tree of typed block nodes plus inline text runs carrying marks.
// The converters in internal/convert construct and read these trees; they are
// owned by the editing surface for the lifetime of a session and never
// mutated in place by the conversion core.
package rdm

// Type identifies the kind of a document node.
type Type string

const (
	Doc            Type = "doc"
	Heading        Type = "heading"
	Paragraph      Type = "paragraph"
	Blockquote     Type = "blockquote"
	CodeBlock      Type = "codeBlock"
	BulletList     Type = "bulletList"
	OrderedList    Type = "orderedList"
	TaskList       Type = "taskList"
	ListItem       Type = "listItem"
	TaskItem       Type = "taskItem"
	HorizontalRule Type = "horizontalRule"
	Image          Type = "image"
	Table          Type = "table"
	TableRow       Type = "tableRow"
	TableHeader    Type = "tableHeader"
	TableCell      Type = "tableCell"
	DiagramBlock   Type = "diagramBlock"
	HTMLBlock      Type = "htmlBlock"
	Text           Type = "text"
	HardBreak      Type = "hardBreak"
)

// FrontmatterLanguage is the reserved pseudo-language tagging a code block
// that holds the document's YAML frontmatter. It is not a real code language;
// the reverse converter turns such blocks back into frontmatter.
const FrontmatterLanguage = "yaml-frontmatter"

// View modes for diagram blocks.
const (
	ViewRendered = "rendered"
	ViewSource   = "source"
)

// MarkKind identifies an inline mark.
type MarkKind string

const (
	Bold   MarkKind = "bold"
	Italic MarkKind = "italic"
	Strike MarkKind = "strike"
	Code   MarkKind = "code"
	Link   MarkKind = "link"
)

// Mark is a named formatting attribute on an inline text run. Href and Title
// are only meaningful for Link marks.
type Mark struct {
	Kind  MarkKind
	Href  string
	Title string
}

// Equal reports whether two marks are identical.
func (m Mark) Equal(o Mark) bool {
	return m.Kind == o.Kind && m.Href == o.Href && m.Title == o.Title
}

// Node is a single document node. Type selects which fields are meaningful.
//
// Image is a block node here, unlike in the markdown AST where images are
// inline. Src is the resolved, host-addressable URL; OriginalSrc preserves
// the reference exactly as it appeared in the source so serialization can
// re-emit it verbatim.
//
// DiagramBlock keeps its source text as an attribute (Source) rather than as
// child content, so the editing surface treats it as an opaque atom.
type Node struct {
	Type Type

	// Heading
	Level int

	// CodeBlock
	Language string

	// OrderedList: number of the first item
	Start int

	// TaskItem
	Checked bool

	// Image
	Src         string
	OriginalSrc string
	Alt         string
	Title       string

	// DiagramBlock
	Source   string
	Bare     bool
	ViewMode string

	// Text
	Text  string
	Marks []Mark

	// Table column alignments: "", "left", "center", "right"
	Align []string

	Content []*Node
}

// NewText creates an inline text node carrying the given marks.
func NewText(text string, marks ...Mark) *Node {
	return &Node{Type: Text, Text: text, Marks: marks}
}

// NewBlock creates a block node of the given type with the given content.
func NewBlock(t Type, content ...*Node) *Node {
	return &Node{Type: t, Content: content}
}

// Append adds content nodes and returns the node.
func (n *Node) Append(content ...*Node) *Node {
	n.Content = append(n.Content, content...)
	return n
}

// HasMark reports whether the node carries a mark of the given kind.
func (n *Node) HasMark(kind MarkKind) bool {
	for _, m := range n.Marks {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

// MarksEqual reports whether two mark sets are identical, order included.
func MarksEqual(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// IsEmptyParagraph reports whether the node is a paragraph with no content.
func (n *Node) IsEmptyParagraph() bool {
	return n.Type == Paragraph && len(n.Content) == 0
}

// Equal reports structural equality of two document trees. Round-trip tests
// use this to assert that re-parsing serialized output reproduces the model.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type ||
		a.Level != b.Level ||
		a.Language != b.Language ||
		a.Start != b.Start ||
		a.Checked != b.Checked ||
		a.Src != b.Src ||
		a.OriginalSrc != b.OriginalSrc ||
		a.Alt != b.Alt ||
		a.Title != b.Title ||
		a.Source != b.Source ||
		a.Bare != b.Bare ||
		a.ViewMode != b.ViewMode ||
		a.Text != b.Text {
		return false
	}
	if !MarksEqual(a.Marks, b.Marks) {
		return false
	}
	if len(a.Align) != len(b.Align) {
		return false
	}
	for i := range a.Align {
		if a.Align[i] != b.Align[i] {
			return false
		}
	}
	if len(a.Content) != len(b.Content) {
		return false
	}
	for i := range a.Content {
		if !Equal(a.Content[i], b.Content[i]) {
			return false
		}
	}
	return true
}
