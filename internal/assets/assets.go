// Package assets expands image-file naming patterns into document-relative
// paths. The host persists the bytes; this package only decides where they
// go, so image nodes can be populated with a stable src/originalSrc pair.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPattern names pasted images under an assets folder next to the
// document.
const DefaultPattern = "assets/${docName}/${time}-${name}${ext}"

// Source describes the image being persisted.
type Source struct {
	Data    []byte
	Name    string // original file name, possibly empty
	DocName string // document file name without extension
	DocDir  string // document-relative target directory, possibly empty
	Now     time.Time
}

// ExpandPattern fills a naming pattern's placeholders and returns the
// document-relative path for the image. Supported placeholders: ${time},
// ${hash}, ${name}, ${ext}, ${docName}, ${docDir}, ${uuid}.
func ExpandPattern(pattern string, src Source) string {
	if pattern == "" {
		pattern = DefaultPattern
	}

	name := src.Name
	ext := path.Ext(name)
	name = strings.TrimSuffix(name, ext)
	if name == "" {
		name = "image"
	}
	if ext == "" {
		ext = ".png"
	}

	sum := sha256.Sum256(src.Data)

	expanded := strings.NewReplacer(
		"${time}", src.Now.Format("20060102150405"),
		"${hash}", hex.EncodeToString(sum[:])[:10],
		"${name}", name,
		"${ext}", ext,
		"${docName}", src.DocName,
		"${docDir}", src.DocDir,
		"${uuid}", uuid.NewString(),
	).Replace(pattern)

	return strings.TrimPrefix(path.Clean(expanded), "/")
}
