// Package convert maps the markdown AST to the rich-document model and
// back. The two directions are inverses over every node kind the forward
// direction produces; the round-trip tests in this package hold the pair to
// that contract.
package convert

import (
	"sort"
	"strings"

	"github.com/gerunddev/markbridge/internal/diagram"
	"github.com/gerunddev/markbridge/internal/mdast"
	"github.com/gerunddev/markbridge/internal/paths"
	"github.com/gerunddev/markbridge/internal/rdm"
)

// ToRDM converts a markdown AST into a rich document. The result is always a
// doc node with at least one child; empty input yields a single empty
// paragraph. base is the document's resource root, used to resolve image
// references.
func ToRDM(root *mdast.Node, base string) *rdm.Node {
	doc := &rdm.Node{Type: rdm.Doc}
	if root != nil {
		doc.Content = blocksToRDM(root.Children, base)
	}
	if len(doc.Content) == 0 {
		doc.Content = []*rdm.Node{{Type: rdm.Paragraph}}
	}
	return doc
}

func blocksToRDM(nodes []*mdast.Node, base string) []*rdm.Node {
	var out []*rdm.Node
	for _, n := range nodes {
		out = append(out, blockToRDM(n, base)...)
	}
	return out
}

func blockToRDM(n *mdast.Node, base string) []*rdm.Node {
	switch n.Type {
	case mdast.Heading:
		return one(&rdm.Node{Type: rdm.Heading, Level: n.Depth, Content: inlinesToRDM(n.Children, nil)})
	case mdast.Paragraph:
		return paragraphToRDM(n, base)
	case mdast.Blockquote:
		return one(&rdm.Node{Type: rdm.Blockquote, Content: blocksToRDM(n.Children, base)})
	case mdast.Code:
		return one(codeToRDM(n))
	case mdast.YAML:
		return one(&rdm.Node{
			Type:     rdm.CodeBlock,
			Language: rdm.FrontmatterLanguage,
			Content:  []*rdm.Node{rdm.NewText(n.Value)},
		})
	case mdast.List:
		return one(listToRDM(n, base))
	case mdast.ThematicBreak:
		return one(&rdm.Node{Type: rdm.HorizontalRule})
	case mdast.Table:
		return one(tableToRDM(n))
	case mdast.HTML:
		return one(&rdm.Node{Type: rdm.HTMLBlock, Text: n.Value})
	case mdast.Image:
		// an image misplaced at block level still becomes a block
		return one(imageToRDM(n, base))
	}
	return nil
}

func one(n *rdm.Node) []*rdm.Node {
	return []*rdm.Node{n}
}

// paragraphToRDM splits a paragraph at image boundaries: images become block
// nodes, surrounding inline runs become their own paragraphs. Whitespace-only
// runs adjacent to an image are dropped, so a paragraph holding a single
// image collapses to just the image block.
func paragraphToRDM(n *mdast.Node, base string) []*rdm.Node {
	var out []*rdm.Node
	var run []*mdast.Node

	flush := func(beforeImage bool) {
		if len(run) == 0 {
			return
		}
		if beforeImage {
			trimTrailingSpace(run[len(run)-1])
		}
		if !whitespaceOnly(run) {
			out = append(out, &rdm.Node{Type: rdm.Paragraph, Content: inlinesToRDM(run, nil)})
		}
		run = nil
	}

	afterImage := false
	for _, c := range n.Children {
		if c.Type == mdast.Image {
			flush(true)
			out = append(out, imageToRDM(c, base))
			afterImage = true
			continue
		}
		if afterImage && len(run) == 0 && c.Type == mdast.Text {
			c.Value = strings.TrimLeft(c.Value, " \t\n")
			if c.Value == "" {
				continue
			}
		}
		run = append(run, c)
		afterImage = false
	}
	flush(false)

	if len(out) == 0 {
		out = append(out, &rdm.Node{Type: rdm.Paragraph, Content: inlinesToRDM(n.Children, nil)})
	}
	return out
}

func trimTrailingSpace(n *mdast.Node) {
	if n.Type == mdast.Text {
		n.Value = strings.TrimRight(n.Value, " \t\n")
	}
}

func whitespaceOnly(nodes []*mdast.Node) bool {
	for _, n := range nodes {
		if n.Type != mdast.Text || strings.TrimSpace(n.Value) != "" {
			return false
		}
	}
	return true
}

func imageToRDM(n *mdast.Node, base string) *rdm.Node {
	return &rdm.Node{
		Type:        rdm.Image,
		Src:         paths.Resolve(n.URL, base),
		OriginalSrc: n.URL,
		Alt:         n.Alt,
		Title:       n.Title,
	}
}

func codeToRDM(n *mdast.Node) *rdm.Node {
	if n.Lang == diagram.Language {
		return &rdm.Node{
			Type:     rdm.DiagramBlock,
			Source:   n.Value,
			Bare:     hasBareMeta(n.Meta),
			ViewMode: rdm.ViewRendered,
		}
	}
	cb := &rdm.Node{Type: rdm.CodeBlock, Language: n.Lang}
	if n.Value != "" {
		cb.Content = []*rdm.Node{rdm.NewText(n.Value)}
	}
	return cb
}

func hasBareMeta(meta string) bool {
	for _, f := range strings.Fields(meta) {
		if f == diagram.BareMeta {
			return true
		}
	}
	return false
}

// listToRDM classifies an unordered list as a task list when any direct item
// carries a checkbox; items without one default to unchecked.
func listToRDM(n *mdast.Node, base string) *rdm.Node {
	task := false
	if !n.Ordered {
		for _, item := range n.Children {
			if item.Checked != nil {
				task = true
				break
			}
		}
	}

	list := &rdm.Node{Type: rdm.BulletList}
	switch {
	case task:
		list.Type = rdm.TaskList
	case n.Ordered:
		list.Type = rdm.OrderedList
		list.Start = n.Start
		if list.Start < 1 {
			list.Start = 1
		}
	}

	for _, item := range n.Children {
		li := &rdm.Node{Type: rdm.ListItem}
		if task {
			li.Type = rdm.TaskItem
			li.Checked = item.Checked != nil && *item.Checked
		}
		li.Content = blocksToRDM(item.Children, base)
		// the editing surface's grammar requires items to open with a
		// paragraph, empty if need be
		if len(li.Content) == 0 {
			li.Content = []*rdm.Node{{Type: rdm.Paragraph}}
		} else if li.Content[0].Type != rdm.Paragraph {
			li.Content = append([]*rdm.Node{{Type: rdm.Paragraph}}, li.Content...)
		}
		list.Content = append(list.Content, li)
	}
	return list
}

func tableToRDM(n *mdast.Node) *rdm.Node {
	t := &rdm.Node{Type: rdm.Table, Align: append([]string(nil), n.Align...)}
	for _, row := range n.Children {
		r := &rdm.Node{Type: rdm.TableRow}
		for _, cell := range row.Children {
			kind := rdm.TableCell
			if cell.Type == mdast.TableHeader {
				kind = rdm.TableHeader
			}
			// cells hold block content in the document model
			para := &rdm.Node{Type: rdm.Paragraph, Content: inlinesToRDM(cell.Children, nil)}
			r.Content = append(r.Content, &rdm.Node{Type: kind, Content: []*rdm.Node{para}})
		}
		t.Content = append(t.Content, r)
	}
	return t
}

func inlinesToRDM(nodes []*mdast.Node, marks []rdm.Mark) []*rdm.Node {
	var out []*rdm.Node
	for _, n := range nodes {
		switch n.Type {
		case mdast.Text:
			// image-boundary trimming can leave an empty text node behind
			if n.Value != "" {
				out = append(out, newMarkedText(n.Value, marks))
			}
		case mdast.InlineCode:
			out = append(out, newMarkedText(n.Value, withMark(marks, rdm.Mark{Kind: rdm.Code})))
		case mdast.Strong:
			out = append(out, inlinesToRDM(n.Children, withMark(marks, rdm.Mark{Kind: rdm.Bold}))...)
		case mdast.Emphasis:
			out = append(out, inlinesToRDM(n.Children, withMark(marks, rdm.Mark{Kind: rdm.Italic}))...)
		case mdast.Delete:
			out = append(out, inlinesToRDM(n.Children, withMark(marks, rdm.Mark{Kind: rdm.Strike}))...)
		case mdast.Link:
			link := rdm.Mark{Kind: rdm.Link, Href: n.URL, Title: n.Title}
			out = append(out, inlinesToRDM(n.Children, withMark(marks, link))...)
		case mdast.Break:
			out = append(out, &rdm.Node{Type: rdm.HardBreak})
		case mdast.Image:
			// image in phrasing context with no paragraph to split: keep
			// its alt text so content never silently disappears
			alt := n.Alt
			if alt == "" {
				alt = "image"
			}
			out = append(out, newMarkedText(alt, marks))
		case mdast.HTML:
			out = append(out, newMarkedText(n.Value, marks))
		}
	}
	return out
}

func newMarkedText(value string, marks []rdm.Mark) *rdm.Node {
	return &rdm.Node{Type: rdm.Text, Text: value, Marks: sortMarks(marks)}
}

// withMark returns marks plus m, replacing an existing mark of the same kind.
func withMark(marks []rdm.Mark, m rdm.Mark) []rdm.Mark {
	out := make([]rdm.Mark, 0, len(marks)+1)
	for _, existing := range marks {
		if existing.Kind != m.Kind {
			out = append(out, existing)
		}
	}
	return append(out, m)
}

// markRank fixes the canonical mark order stored on text nodes. It matches
// the nesting order the reverse converter emits, so structurally equivalent
// sources produce identical mark lists.
var markRank = map[rdm.MarkKind]int{
	rdm.Link:   0,
	rdm.Strike: 1,
	rdm.Bold:   2,
	rdm.Italic: 3,
	rdm.Code:   4,
}

func sortMarks(marks []rdm.Mark) []rdm.Mark {
	if len(marks) == 0 {
		return nil
	}
	out := append([]rdm.Mark(nil), marks...)
	sort.SliceStable(out, func(i, j int) bool {
		return markRank[out[i].Kind] < markRank[out[j].Kind]
	})
	return out
}
