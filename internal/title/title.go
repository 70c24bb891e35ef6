// Package title derives human-readable titles from media file names for use
// as default post and reel titles.
package title

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FromPath turns a file path into a display title: the base name with its
// extension dropped, separators collapsed to spaces, and words title-cased.
func FromPath(sourcePath string) string {
	if sourcePath == "" {
		return "Untitled Upload"
	}
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	derived := strings.TrimSpace(cleaned.String())
	if derived == "" {
		return "Untitled Upload"
	}
	return cases.Title(language.Und).String(derived)
}
