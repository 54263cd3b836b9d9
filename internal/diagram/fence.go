// Package diagram handles PlantUML-style diagram blocks: the textual
// pre/post pass that routes bare @start/@end marker blocks through fenced
// code blocks, and the encoding used to build render-server URLs.
package diagram

import (
	"regexp"
	"strings"
)

// Language is the code-fence language tag used for diagram blocks.
const Language = "plantuml"

// BareMeta is the fence metadata tag recording that the original block used
// bare @start/@end markers rather than an explicit fence. Postprocess strips
// the fence from blocks carrying it.
const BareMeta = "bare"

const (
	beginMarker = "@start"
	endMarker   = "@end"
)

var (
	fenceLineRe = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
	bareOpenRe  = regexp.MustCompile("^(`{3,}|~{3,})" + Language + "[ \t]+" + BareMeta + "[ \t]*$")
)

// Preprocess wraps bare-marker diagram blocks in fenced code blocks so the
// markdown parser keeps them intact. Lines inside an already-open fence are
// never treated as diagram markers. A begin marker with no matching end
// marker passes through unchanged.
func Preprocess(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	insideFence := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if fenceLineRe.MatchString(line) {
			insideFence = !insideFence
			out = append(out, line)
			continue
		}
		if !insideFence && strings.HasPrefix(line, beginMarker) {
			end := -1
			for j := i + 1; j < len(lines); j++ {
				if strings.HasPrefix(lines[j], endMarker) {
					end = j
					break
				}
			}
			if end == -1 {
				out = append(out, line)
				continue
			}
			captured := lines[i : end+1]
			fence := fenceFor(captured)
			out = append(out, fence+Language+" "+BareMeta)
			out = append(out, captured...)
			out = append(out, fence)
			i = end
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Postprocess reverses Preprocess on serializer output: a fenced block tagged
// with the diagram language and the bare-marker metadata is replaced by its
// inner lines, which still carry the original @start/@end markers. All other
// lines pass through unchanged.
func Postprocess(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	insideFence := false
	var fenceMarker string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if insideFence {
			if closesFence(line, fenceMarker) {
				insideFence = false
			}
			out = append(out, line)
			continue
		}
		if m := bareOpenRe.FindStringSubmatch(line); m != nil {
			closing := -1
			for j := i + 1; j < len(lines); j++ {
				if closesFence(lines[j], m[1]) {
					closing = j
					break
				}
			}
			if closing >= 0 {
				out = append(out, lines[i+1:closing]...)
				i = closing
				continue
			}
			out = append(out, line)
			continue
		}
		if m := fenceLineRe.FindStringSubmatch(line); m != nil {
			insideFence = true
			fenceMarker = m[1]
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// fenceFor picks a backtick fence long enough not to collide with any
// backtick run at the start of the captured lines.
func fenceFor(captured []string) string {
	longest := 0
	for _, line := range captured {
		run := 0
		for _, c := range line {
			if c != '`' {
				break
			}
			run++
		}
		if run > longest {
			longest = run
		}
	}
	n := 3
	if longest >= 3 {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}

// closesFence reports whether line is a closing fence for the given opening
// marker: a run of the same character at least as long, nothing else.
func closesFence(line, marker string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < len(marker) {
		return false
	}
	for _, c := range trimmed {
		if byte(c) != marker[0] {
			return false
		}
	}
	return true
}
