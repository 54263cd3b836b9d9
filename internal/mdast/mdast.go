package mdast

// Type identifies the kind of a markdown AST node.
type Type string

const (
	Root          Type = "root"
	Heading       Type = "heading"
	Paragraph     Type = "paragraph"
	Blockquote    Type = "blockquote"
	Code          Type = "code"
	YAML          Type = "yaml"
	List          Type = "list"
	ListItem      Type = "listItem"
	ThematicBreak Type = "thematicBreak"
	Image         Type = "image"
	Link          Type = "link"
	Strong        Type = "strong"
	Emphasis      Type = "emphasis"
	Delete        Type = "delete"
	InlineCode    Type = "inlineCode"
	Text          Type = "text"
	Break         Type = "break"
	Table         Type = "table"
	TableRow      Type = "tableRow"
	TableCell     Type = "tableCell"
	TableHeader   Type = "tableHeader"
	HTML          Type = "html"
)

// Node is a single markdown AST node. It is a tagged variant: Type selects
// which of the remaining fields are meaningful. Nodes are transient; they are
// built fresh per parse or per conversion and never shared between calls.
type Node struct {
	Type Type

	// Heading
	Depth int

	// List
	Ordered bool
	Start   int
	Spread  bool

	// ListItem: nil means no checkbox, otherwise the checkbox state
	Checked *bool

	// Code
	Lang string
	Meta string

	// Code, YAML, InlineCode, Text, HTML
	Value string

	// Image, Link
	URL   string
	Title string
	Alt   string

	// Table column alignments: "", "left", "center", "right"
	Align []string

	Children []*Node
}

// NewText creates a text node.
func NewText(value string) *Node {
	return &Node{Type: Text, Value: value}
}

// NewParent creates a node of the given type with the given children.
func NewParent(t Type, children ...*Node) *Node {
	return &Node{Type: t, Children: children}
}

// Append adds children to the node and returns it.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Equal reports structural equality of two trees. Used by round-trip tests.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type ||
		a.Depth != b.Depth ||
		a.Ordered != b.Ordered ||
		a.Start != b.Start ||
		a.Spread != b.Spread ||
		a.Lang != b.Lang ||
		a.Meta != b.Meta ||
		a.Value != b.Value ||
		a.URL != b.URL ||
		a.Title != b.Title ||
		a.Alt != b.Alt {
		return false
	}
	if (a.Checked == nil) != (b.Checked == nil) {
		return false
	}
	if a.Checked != nil && *a.Checked != *b.Checked {
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
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
