// Package paths maps document-relative resource references to
// host-addressable URLs and back, given the document's base location.
package paths

import "strings"

// absolutePrefixes are reference forms that are already host-addressable and
// must never be rewritten. InternalScheme is the host application's own
// resource scheme.
var absolutePrefixes = []string{
	"http://",
	"https://",
	"data:",
	InternalScheme,
}

// InternalScheme is the host's internal resource scheme.
const InternalScheme = "app-resource://"

// IsAbsolute reports whether ref already carries an absolute scheme.
func IsAbsolute(ref string) bool {
	for _, p := range absolutePrefixes {
		if strings.HasPrefix(ref, p) {
			return true
		}
	}
	return false
}

// Resolve maps a document-relative reference to a host-addressable URL.
// Empty refs, absolute refs, and refs without a base are returned unchanged.
func Resolve(ref, base string) string {
	if ref == "" || base == "" || IsAbsolute(ref) {
		return ref
	}
	return strings.TrimSuffix(base, "/") + "/" + ref
}

// Unresolve strips the base prefix from a resolved URL, recovering the
// document-relative reference. It is the inverse of Resolve only for plain
// relative paths under base; anything else is returned unchanged. Callers
// should prefer a node's verbatim OriginalSrc and treat this as a fallback
// for content that was never parsed from source.
func Unresolve(url, base string) string {
	if base == "" || url == "" {
		return url
	}
	prefix := strings.TrimSuffix(base, "/") + "/"
	if strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix)
	}
	return url
}
