// Package serializer turns the markdown AST back into text with one fixed
// stringification style: bullet marker "-", emphasis "*", strong "**",
// thematic breaks "---", always-fenced code blocks, explicit "\" hard breaks
// and a single space after list markers. Identical input always yields
// byte-identical output.
package serializer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gerunddev/markbridge/internal/mdast"
)

// Serialize renders the AST to markdown text.
func Serialize(root *mdast.Node) string {
	if root == nil || len(root.Children) == 0 {
		return ""
	}
	out := renderBlocks(root.Children, false)
	if out == "" {
		return ""
	}
	return out + "\n"
}

// renderBlocks renders a block sequence. In a list-item context separators
// stay tight where the markdown grammar allows it; elsewhere blocks are
// separated by a blank line. Consecutive sibling lists of the same flavor
// alternate their marker so they do not merge on re-parse.
func renderBlocks(nodes []*mdast.Node, inListItem bool) string {
	var b strings.Builder
	var prev *mdast.Node
	prevAlt := false

	for _, n := range nodes {
		alt := false
		if n.Type == mdast.List && prev != nil && prev.Type == mdast.List && prev.Ordered == n.Ordered {
			alt = !prevAlt
		}
		s := renderBlock(n, alt)
		if s == "" && n.Type == mdast.Paragraph {
			continue
		}
		if b.Len() > 0 {
			if inListItem {
				b.WriteString(blockSep(prev, n))
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(s)
		prev = n
		prevAlt = alt
	}
	return b.String()
}

// blockSep picks the separator between two sibling blocks inside a list
// item: a bare newline where the second block can interrupt a paragraph, a
// blank line where it cannot.
func blockSep(prev, next *mdast.Node) string {
	switch next.Type {
	case mdast.Heading, mdast.Code:
		return "\n"
	case mdast.List:
		// an ordered list not starting at 1 cannot interrupt a paragraph
		if next.Ordered && next.Start > 1 && prev.Type == mdast.Paragraph {
			return "\n\n"
		}
		return "\n"
	case mdast.Blockquote:
		if prev.Type == mdast.Blockquote {
			return "\n\n"
		}
		return "\n"
	}
	return "\n\n"
}

func renderBlock(n *mdast.Node, alt bool) string {
	switch n.Type {
	case mdast.YAML:
		return "---\n" + n.Value + "\n---"
	case mdast.Heading:
		text := renderPhrasing(n.Children, true)
		text = strings.ReplaceAll(text, "\n", " ")
		hashes := strings.Repeat("#", clampDepth(n.Depth))
		if text == "" {
			return hashes
		}
		return hashes + " " + text
	case mdast.Paragraph:
		// trailing whitespace would be dropped (or misread as a hard
		// break) on re-parse, so it never survives serialization
		return trimLineTrailing(renderPhrasing(n.Children, true))
	case mdast.Blockquote:
		return prefixLines(renderBlocks(n.Children, false), "> ", "> ")
	case mdast.Code:
		return renderCode(n)
	case mdast.ThematicBreak:
		return "---"
	case mdast.List:
		return renderList(n, alt)
	case mdast.Table:
		return renderTable(n)
	case mdast.HTML:
		return n.Value
	}
	return ""
}

func clampDepth(d int) int {
	if d < 1 {
		return 1
	}
	if d > 6 {
		return 6
	}
	return d
}

func renderCode(n *mdast.Node) string {
	fence := strings.Repeat("`", fenceWidth(n.Value))
	info := n.Lang
	if n.Meta != "" {
		info += " " + n.Meta
	}
	if n.Value == "" {
		return fence + info + "\n" + fence
	}
	return fence + info + "\n" + n.Value + "\n" + fence
}

// fenceWidth returns a fence length longer than any backtick run in value.
func fenceWidth(value string) int {
	longest := 0
	run := 0
	for _, c := range value {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return 3
	}
	return longest + 1
}

func renderList(n *mdast.Node, alt bool) string {
	items := make([]string, 0, len(n.Children))
	num := n.Start
	if num < 1 {
		num = 1
	}
	for _, item := range n.Children {
		var marker string
		if n.Ordered {
			delim := "."
			if alt {
				delim = ")"
			}
			marker = fmt.Sprintf("%d%s", num, delim)
			num++
		} else {
			marker = "-"
			if alt {
				marker = "*"
			}
		}
		content := renderBlocks(item.Children, true)
		if item.Checked != nil {
			box := "[ ] "
			if *item.Checked {
				box = "[x] "
			}
			content = box + content
		}
		indent := strings.Repeat(" ", len(marker)+1)
		items = append(items, prefixLines(content, marker+" ", indent))
	}
	sep := "\n"
	if n.Spread {
		sep = "\n\n"
	}
	return strings.Join(items, sep)
}

func renderTable(n *mdast.Node) string {
	if len(n.Children) == 0 {
		return ""
	}
	cols := 0
	rows := make([][]string, 0, len(n.Children))
	for _, row := range n.Children {
		cells := make([]string, 0, len(row.Children))
		for _, cell := range row.Children {
			text := renderPhrasing(cell.Children, false)
			text = strings.ReplaceAll(text, "\n", " ")
			text = strings.ReplaceAll(text, "|", "\\|")
			cells = append(cells, text)
		}
		if len(cells) > cols {
			cols = len(cells)
		}
		rows = append(rows, cells)
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" " + cell + " |")
		}
	}

	writeRow(rows[0])
	b.WriteString("\n|")
	for i := 0; i < cols; i++ {
		align := ""
		if i < len(n.Align) {
			align = n.Align[i]
		}
		switch align {
		case "left":
			b.WriteString(" :--- |")
		case "center":
			b.WriteString(" :---: |")
		case "right":
			b.WriteString(" ---: |")
		default:
			b.WriteString(" --- |")
		}
	}
	for _, cells := range rows[1:] {
		b.WriteString("\n")
		writeRow(cells)
	}
	return b.String()
}

// renderPhrasing renders an inline sequence. atLineStart enables the
// line-start escapes that keep text from being re-parsed as block syntax.
func renderPhrasing(nodes []*mdast.Node, atLineStart bool) string {
	var b strings.Builder
	lineStart := atLineStart
	for _, n := range nodes {
		s := renderInline(n, lineStart)
		b.WriteString(s)
		if s != "" {
			lineStart = strings.HasSuffix(s, "\n")
		}
	}
	return b.String()
}

func renderInline(n *mdast.Node, atLineStart bool) string {
	switch n.Type {
	case mdast.Text:
		return escapeText(n.Value, atLineStart)
	case mdast.InlineCode:
		return renderInlineCode(n.Value)
	case mdast.Strong:
		return "**" + renderPhrasing(n.Children, false) + "**"
	case mdast.Emphasis:
		return "*" + renderPhrasing(n.Children, false) + "*"
	case mdast.Delete:
		return "~~" + renderPhrasing(n.Children, false) + "~~"
	case mdast.Link:
		return renderLink(n)
	case mdast.Image:
		return "![" + escapeText(n.Alt, false) + "](" + destination(n.URL) + titleSuffix(n.Title) + ")"
	case mdast.Break:
		return "\\\n"
	case mdast.HTML:
		return n.Value
	}
	return ""
}

func renderLink(n *mdast.Node) string {
	if n.Title == "" && len(n.Children) == 1 && n.Children[0].Type == mdast.Text {
		label := n.Children[0].Value
		if (label == n.URL || "mailto:"+label == n.URL) && angleSafe(label) {
			return "<" + label + ">"
		}
	}
	return "[" + renderPhrasing(n.Children, false) + "](" + destination(n.URL) + titleSuffix(n.Title) + ")"
}

func angleSafe(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\n<>")
}

func destination(url string) string {
	if url == "" {
		return ""
	}
	if strings.ContainsAny(url, " \t\n()") {
		return "<" + strings.NewReplacer("<", "\\<", ">", "\\>").Replace(url) + ">"
	}
	return url
}

func titleSuffix(title string) string {
	if title == "" {
		return ""
	}
	return ` "` + strings.ReplaceAll(title, `"`, `\"`) + `"`
}

func renderInlineCode(v string) string {
	marker := strings.Repeat("`", longestBacktickRun(v)+1)
	pad := ""
	if strings.HasPrefix(v, "`") || strings.HasSuffix(v, "`") ||
		(strings.HasPrefix(v, " ") && strings.HasSuffix(v, " ") && strings.TrimSpace(v) != "") {
		pad = " "
	}
	return marker + pad + v + pad + marker
}

func longestBacktickRun(v string) int {
	longest, run := 0, 0
	for _, c := range v {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

var orderedStartRe = regexp.MustCompile(`^(\d{1,9})([.)])([ \t]|$)`)

// escapeText backslash-escapes characters that would otherwise be re-parsed
// as markup. Line-start escapes apply to the first produced line when the
// text opens a line, and to every line after an embedded newline.
func escapeText(s string, atLineStart bool) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		esc := inlineEscaper.Replace(line)
		if atLineStart || i > 0 {
			esc = escapeLineStart(esc)
		}
		lines[i] = esc
	}
	return strings.Join(lines, "\n")
}

func escapeLineStart(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '#', '>', '=':
		return `\` + line
	case '-':
		if len(line) == 1 || line[1] == ' ' || line[1] == '\t' || allOf(line, '-') {
			return `\` + line
		}
	case '+':
		if len(line) == 1 || line[1] == ' ' || line[1] == '\t' {
			return `\` + line
		}
	case '~':
		if strings.HasPrefix(line, "~~~") {
			return `\` + line
		}
	}
	if m := orderedStartRe.FindStringSubmatch(line); m != nil {
		return m[1] + `\` + line[len(m[1]):]
	}
	return line
}

func allOf(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

func trimLineTrailing(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.Join(lines, "\n")
}

func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		if lines[i] == "" {
			lines[i] = strings.TrimRight(p, " ")
		} else {
			lines[i] = p + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
