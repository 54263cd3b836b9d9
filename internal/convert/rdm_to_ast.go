package convert

import (
	"strings"

	"github.com/gerunddev/markbridge/internal/diagram"
	"github.com/gerunddev/markbridge/internal/mdast"
	"github.com/gerunddev/markbridge/internal/paths"
	"github.com/gerunddev/markbridge/internal/rdm"
)

// ToAST converts a rich document back into a markdown AST. Unknown node
// kinds are dropped silently; everything the forward direction produces maps
// back. base is used only as an Unresolve fallback for images that carry no
// verbatim OriginalSrc.
func ToAST(doc *rdm.Node, base string) *mdast.Node {
	root := &mdast.Node{Type: mdast.Root}
	if doc != nil {
		root.Children = blocksToAST(doc.Content, base)
	}
	return root
}

func blocksToAST(nodes []*rdm.Node, base string) []*mdast.Node {
	var out []*mdast.Node
	for _, n := range nodes {
		if b := blockToAST(n, base); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func blockToAST(n *rdm.Node, base string) *mdast.Node {
	switch n.Type {
	case rdm.Paragraph:
		if len(n.Content) == 0 {
			// synthesized empty paragraphs leave no trace in the text
			return nil
		}
		return &mdast.Node{Type: mdast.Paragraph, Children: inlinesToAST(n.Content, base)}
	case rdm.Heading:
		return &mdast.Node{Type: mdast.Heading, Depth: n.Level, Children: inlinesToAST(n.Content, base)}
	case rdm.Blockquote:
		return &mdast.Node{Type: mdast.Blockquote, Children: blocksToAST(n.Content, base)}
	case rdm.CodeBlock:
		if n.Language == rdm.FrontmatterLanguage {
			return &mdast.Node{Type: mdast.YAML, Value: textContent(n)}
		}
		return &mdast.Node{Type: mdast.Code, Lang: n.Language, Value: textContent(n)}
	case rdm.DiagramBlock:
		meta := ""
		if n.Bare {
			meta = diagram.BareMeta
		}
		return &mdast.Node{Type: mdast.Code, Lang: diagram.Language, Meta: meta, Value: n.Source}
	case rdm.HTMLBlock:
		return &mdast.Node{Type: mdast.HTML, Value: n.Text}
	case rdm.BulletList, rdm.OrderedList, rdm.TaskList:
		return listToAST(n, base)
	case rdm.HorizontalRule:
		return &mdast.Node{Type: mdast.ThematicBreak}
	case rdm.Image:
		// images are inline in the AST: wrap in a paragraph of their own
		return &mdast.Node{Type: mdast.Paragraph, Children: []*mdast.Node{imageToAST(n, base)}}
	case rdm.Table:
		return tableToAST(n, base)
	}
	return nil
}

func imageToAST(n *rdm.Node, base string) *mdast.Node {
	url := n.OriginalSrc
	if url == "" {
		url = paths.Unresolve(n.Src, base)
	}
	return &mdast.Node{Type: mdast.Image, URL: url, Alt: n.Alt, Title: n.Title}
}

func listToAST(n *rdm.Node, base string) *mdast.Node {
	list := &mdast.Node{Type: mdast.List, Ordered: n.Type == rdm.OrderedList}
	if list.Ordered {
		list.Start = n.Start
		if list.Start < 1 {
			list.Start = 1
		}
	}
	for _, item := range n.Content {
		li := listItemToAST(item, base)
		if n.Type == rdm.TaskList {
			checked := item.Checked
			li.Checked = &checked
		}
		list.Children = append(list.Children, li)
	}
	return list
}

func listItemToAST(item *rdm.Node, base string) *mdast.Node {
	li := &mdast.Node{Type: mdast.ListItem}

	// Undo the forward direction's synthesized leading paragraph: an item
	// whose whole content is an image behind an empty paragraph collapses
	// back to a single paragraph holding the inline image, avoiding a
	// spurious blank line in the output.
	if len(item.Content) == 2 && item.Content[0].IsEmptyParagraph() && item.Content[1].Type == rdm.Image {
		li.Children = []*mdast.Node{{
			Type:     mdast.Paragraph,
			Children: []*mdast.Node{imageToAST(item.Content[1], base)},
		}}
		return li
	}

	li.Children = blocksToAST(item.Content, base)
	return li
}

func tableToAST(n *rdm.Node, base string) *mdast.Node {
	t := &mdast.Node{Type: mdast.Table, Align: append([]string(nil), n.Align...)}
	for _, row := range n.Content {
		r := &mdast.Node{Type: mdast.TableRow}
		for _, cell := range row.Content {
			kind := mdast.TableCell
			if cell.Type == rdm.TableHeader {
				kind = mdast.TableHeader
			}
			// unwrap the synthetic per-cell paragraph back to bare inlines
			var inlines []*mdast.Node
			for _, block := range cell.Content {
				if block.Type == rdm.Paragraph {
					inlines = append(inlines, inlinesToAST(block.Content, base)...)
				}
			}
			r.Children = append(r.Children, &mdast.Node{Type: kind, Children: inlines})
		}
		t.Children = append(t.Children, r)
	}
	return t
}

func textContent(n *rdm.Node) string {
	var b strings.Builder
	for _, c := range n.Content {
		if c.Type == rdm.Text {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// inlinesToAST rebuilds nested inline markup from flat marked text runs.
// Marks nest in one fixed order (link outermost, then strike, strong,
// emphasis); adjacent runs sharing a mark prefix share the corresponding
// wrapper nodes, so a bold run followed by a bold-italic run serializes as
// **a*b*** rather than as two fragmented spans. A code mark suppresses
// every other mark on its run except link, since inline code cannot carry
// nested emphasis in markdown.
func inlinesToAST(nodes []*rdm.Node, base string) []*mdast.Node {
	var out []*mdast.Node

	type openMark struct {
		mark rdm.Mark
		node *mdast.Node
	}
	var stack []openMark

	appendNode := func(leaf *mdast.Node) {
		target := &out
		if len(stack) > 0 {
			target = &stack[len(stack)-1].node.Children
		}
		if leaf.Type == mdast.Text && len(*target) > 0 {
			if last := (*target)[len(*target)-1]; last.Type == mdast.Text {
				last.Value += leaf.Value
				return
			}
		}
		*target = append(*target, leaf)
	}

	open := func(m rdm.Mark) {
		var w *mdast.Node
		switch m.Kind {
		case rdm.Bold:
			w = &mdast.Node{Type: mdast.Strong}
		case rdm.Italic:
			w = &mdast.Node{Type: mdast.Emphasis}
		case rdm.Strike:
			w = &mdast.Node{Type: mdast.Delete}
		case rdm.Link:
			w = &mdast.Node{Type: mdast.Link, URL: m.Href, Title: m.Title}
		default:
			return
		}
		appendNode(w)
		stack = append(stack, openMark{mark: m, node: w})
	}

	for _, n := range nodes {
		switch n.Type {
		case rdm.Text:
			wrap := wrapperMarks(n.Marks)
			keep := 0
			for keep < len(stack) && keep < len(wrap) && stack[keep].mark.Equal(wrap[keep]) {
				keep++
			}
			stack = stack[:keep]
			for _, m := range wrap[keep:] {
				open(m)
			}
			if n.HasMark(rdm.Code) {
				appendNode(&mdast.Node{Type: mdast.InlineCode, Value: n.Text})
			} else {
				appendNode(mdast.NewText(n.Text))
			}
		case rdm.HardBreak:
			// marks stay open across a hard break
			appendNode(&mdast.Node{Type: mdast.Break})
		case rdm.Image:
			stack = stack[:0]
			appendNode(imageToAST(n, base))
		}
	}
	return out
}

// wrapperMarks returns the marks that become wrapper nodes, in canonical
// nesting order. Code is handled at the leaf; with a code mark present only
// the link wrapper survives.
func wrapperMarks(marks []rdm.Mark) []rdm.Mark {
	code := false
	for _, m := range marks {
		if m.Kind == rdm.Code {
			code = true
			break
		}
	}
	var out []rdm.Mark
	for _, m := range marks {
		switch m.Kind {
		case rdm.Code:
		case rdm.Link:
			out = append(out, m)
		default:
			if !code {
				out = append(out, m)
			}
		}
	}
	return sortMarks(out)
}
