package parser

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// splitFrontmatter extracts a leading YAML frontmatter block, recognized only
// at the very start of the document. It returns the YAML content without its
// delimiters and the remaining body. Anything that does not parse as a
// non-empty YAML mapping is left in the body untouched.
func splitFrontmatter(source string) (string, string) {
	lines := strings.Split(source, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", source
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return "", source
	}

	content := strings.Join(lines[1:end], "\n")

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(content), &fields); err != nil || len(fields) == 0 {
		return "", source
	}

	body := lines[end+1:]
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	return content, strings.Join(body, "\n")
}
