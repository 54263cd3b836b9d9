// Package parser turns markdown text into the AST defined in internal/mdast,
// using goldmark with the table, strikethrough and task-list extensions.
package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/gerunddev/markbridge/internal/mdast"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
	),
)

// Parse converts markdown text into an AST. It is total: malformed or
// ambiguous syntax degrades to plain paragraph content, never an error.
func Parse(source string) *mdast.Node {
	frontmatter, body := splitFrontmatter(source)
	src := []byte(body)
	doc := md.Parser().Parse(gtext.NewReader(src))

	root := &mdast.Node{Type: mdast.Root}
	if frontmatter != "" {
		root.Children = append(root.Children, &mdast.Node{Type: mdast.YAML, Value: frontmatter})
	}
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		if b := convertBlock(c, src); b != nil {
			root.Children = append(root.Children, b)
		}
	}
	return root
}

func convertBlock(n gast.Node, src []byte) *mdast.Node {
	switch t := n.(type) {
	case *gast.Heading:
		return &mdast.Node{Type: mdast.Heading, Depth: t.Level, Children: convertInlines(n, src)}
	case *gast.Paragraph, *gast.TextBlock:
		// TextBlock is the tight-list-item variant of a paragraph
		return &mdast.Node{Type: mdast.Paragraph, Children: convertInlines(n, src)}
	case *gast.Blockquote:
		return &mdast.Node{Type: mdast.Blockquote, Children: convertBlocks(n, src)}
	case *gast.FencedCodeBlock:
		lang, meta := fenceInfo(t, src)
		return &mdast.Node{Type: mdast.Code, Lang: lang, Meta: meta, Value: blockValue(n, src)}
	case *gast.CodeBlock:
		return &mdast.Node{Type: mdast.Code, Value: blockValue(n, src)}
	case *gast.List:
		return convertList(t, src)
	case *gast.ThematicBreak:
		return &mdast.Node{Type: mdast.ThematicBreak}
	case *gast.HTMLBlock:
		return &mdast.Node{Type: mdast.HTML, Value: htmlBlockValue(t, src)}
	case *east.Table:
		return convertTable(t, src)
	}
	return nil
}

func convertBlocks(parent gast.Node, src []byte) []*mdast.Node {
	var out []*mdast.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if b := convertBlock(c, src); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func convertList(list *gast.List, src []byte) *mdast.Node {
	n := &mdast.Node{Type: mdast.List, Ordered: list.IsOrdered(), Spread: !list.IsTight}
	if list.IsOrdered() {
		n.Start = list.Start
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		n.Children = append(n.Children, convertListItem(item, src))
	}
	return n
}

func convertListItem(item gast.Node, src []byte) *mdast.Node {
	li := &mdast.Node{Type: mdast.ListItem}

	if first := item.FirstChild(); first != nil {
		if cb, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			checked := cb.IsChecked
			li.Checked = &checked
		}
	}

	li.Children = convertBlocks(item, src)

	// The checkbox parser leaves the separating space in the text that
	// follows it; drop it so item text starts clean.
	if li.Checked != nil && len(li.Children) > 0 {
		p := li.Children[0]
		if p.Type == mdast.Paragraph && len(p.Children) > 0 && p.Children[0].Type == mdast.Text {
			p.Children[0].Value = strings.TrimPrefix(p.Children[0].Value, " ")
			if p.Children[0].Value == "" {
				p.Children = p.Children[1:]
			}
		}
	}
	return li
}

func convertTable(tbl *east.Table, src []byte) *mdast.Node {
	n := &mdast.Node{Type: mdast.Table}
	for _, a := range tbl.Alignments {
		switch a {
		case east.AlignLeft:
			n.Align = append(n.Align, "left")
		case east.AlignCenter:
			n.Align = append(n.Align, "center")
		case east.AlignRight:
			n.Align = append(n.Align, "right")
		default:
			n.Align = append(n.Align, "")
		}
	}
	for row := tbl.FirstChild(); row != nil; row = row.NextSibling() {
		cellType := mdast.TableCell
		if _, ok := row.(*east.TableHeader); ok {
			cellType = mdast.TableHeader
		}
		r := &mdast.Node{Type: mdast.TableRow}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			r.Children = append(r.Children, &mdast.Node{Type: cellType, Children: convertInlines(cell, src)})
		}
		n.Children = append(n.Children, r)
	}
	return n
}

func convertInlines(parent gast.Node, src []byte) []*mdast.Node {
	var out []*mdast.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = appendInline(out, c, src)
	}
	return out
}

func appendInline(out []*mdast.Node, n gast.Node, src []byte) []*mdast.Node {
	switch t := n.(type) {
	case *gast.Text:
		value := unescapePunctuation(string(t.Segment.Value(src)))
		if t.HardLineBreak() {
			out = appendText(out, value)
			return append(out, &mdast.Node{Type: mdast.Break})
		}
		if t.SoftLineBreak() {
			value += "\n"
		}
		return appendText(out, value)
	case *gast.String:
		return appendText(out, string(t.Value))
	case *gast.CodeSpan:
		return append(out, &mdast.Node{Type: mdast.InlineCode, Value: codeSpanValue(t, src)})
	case *gast.Emphasis:
		typ := mdast.Emphasis
		if t.Level == 2 {
			typ = mdast.Strong
		}
		return append(out, &mdast.Node{Type: typ, Children: convertInlines(n, src)})
	case *east.Strikethrough:
		return append(out, &mdast.Node{Type: mdast.Delete, Children: convertInlines(n, src)})
	case *gast.Link:
		return append(out, &mdast.Node{
			Type:     mdast.Link,
			URL:      string(t.Destination),
			Title:    string(t.Title),
			Children: convertInlines(n, src),
		})
	case *gast.AutoLink:
		url := string(t.URL(src))
		label := string(t.Label(src))
		if t.AutoLinkType == gast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			url = "mailto:" + url
		}
		return append(out, &mdast.Node{Type: mdast.Link, URL: url, Children: []*mdast.Node{mdast.NewText(label)}})
	case *gast.Image:
		return append(out, &mdast.Node{
			Type:  mdast.Image,
			URL:   string(t.Destination),
			Title: string(t.Title),
			Alt:   inlineText(n, src),
		})
	case *gast.RawHTML:
		var b strings.Builder
		for i := 0; i < t.Segments.Len(); i++ {
			seg := t.Segments.At(i)
			b.Write(seg.Value(src))
		}
		return append(out, &mdast.Node{Type: mdast.HTML, Value: b.String()})
	case *east.TaskCheckBox:
		// consumed by convertListItem
		return out
	}
	// Unknown inline kinds degrade to their text content.
	if v := inlineText(n, src); v != "" {
		return appendText(out, v)
	}
	return out
}

// appendText adds a text node, merging with a preceding text node.
func appendText(out []*mdast.Node, value string) []*mdast.Node {
	if value == "" {
		return out
	}
	if len(out) > 0 && out[len(out)-1].Type == mdast.Text {
		out[len(out)-1].Value += value
		return out
	}
	return append(out, mdast.NewText(value))
}

func inlineText(n gast.Node, src []byte) string {
	switch t := n.(type) {
	case *gast.Text:
		v := unescapePunctuation(string(t.Segment.Value(src)))
		if t.SoftLineBreak() && !t.HardLineBreak() {
			v += "\n"
		}
		return v
	case *gast.String:
		return string(t.Value)
	}
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(inlineText(c, src))
	}
	return b.String()
}

// unescapePunctuation resolves backslash escapes that goldmark leaves in raw
// text segments: a backslash before ASCII punctuation escapes it, a backslash
// before anything else is literal. Code spans and code blocks stay untouched.
func unescapePunctuation(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isASCIIPunct(c byte) bool {
	switch {
	case c >= '!' && c <= '/', c >= ':' && c <= '@', c >= '[' && c <= '`', c >= '{' && c <= '~':
		return true
	}
	return false
}

func codeSpanValue(n gast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		}
	}
	value := strings.ReplaceAll(b.String(), "\n", " ")
	// CommonMark strips one surrounding space pair from non-blank spans
	if len(value) > 2 && strings.HasPrefix(value, " ") && strings.HasSuffix(value, " ") &&
		strings.TrimSpace(value) != "" {
		value = value[1 : len(value)-1]
	}
	return value
}

func blockValue(n gast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func htmlBlockValue(n *gast.HTMLBlock, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	if n.HasClosure() {
		b.Write(n.ClosureLine.Value(src))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func fenceInfo(fc *gast.FencedCodeBlock, src []byte) (string, string) {
	if fc.Info == nil {
		return "", ""
	}
	info := strings.TrimSpace(string(fc.Info.Segment.Value(src)))
	if info == "" {
		return "", ""
	}
	lang, meta, found := strings.Cut(info, " ")
	if !found {
		return lang, ""
	}
	return lang, strings.TrimSpace(meta)
}
