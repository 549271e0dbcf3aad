// Package pathtree implements the materialized-path representation of the
// location hierarchy: segment sanitization, path joining and prefix rewrites.
// The path of a location is always recomputable from its parent chain; the
// functions here are pure so the invariant can be enforced uniformly in the
// service layer regardless of the storage engine.
package pathtree

import (
	"strings"
)

// Separator joins path segments ("garaz.regal_a.polka_2").
const Separator = "."

// translit maps Latin-extended letters to their closest plain-ASCII
// lowercase letter. Covers the full Polish set plus the common Latin-1
// diacritics; anything not listed and not ASCII-alphanumeric becomes a
// separator during sanitization.
var translit = map[rune]string{
	'ą': "a", 'ć': "c", 'ę': "e", 'ł': "l", 'ń': "n",
	'ó': "o", 'ś': "s", 'ź': "z", 'ż': "z",
	'Ą': "a", 'Ć': "c", 'Ę': "e", 'Ł': "l", 'Ń': "n",
	'Ó': "o", 'Ś': "s", 'Ź': "z", 'Ż': "z",
	'á': "a", 'à': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'Á': "a", 'À': "a", 'Â': "a", 'Ä': "a", 'Ã': "a", 'Å': "a",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'É': "e", 'È': "e", 'Ê': "e", 'Ë': "e",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
	'Í': "i", 'Ì': "i", 'Î': "i", 'Ï': "i",
	'ò': "o", 'ô': "o", 'ö': "o", 'õ': "o",
	'Ò': "o", 'Ô': "o", 'Ö': "o", 'Õ': "o",
	'ú': "u", 'ù': "u", 'û': "u", 'ü': "u",
	'Ú': "u", 'Ù': "u", 'Û': "u", 'Ü': "u",
	'ý': "y", 'Ý': "y", 'ñ': "n", 'Ñ': "n",
	'ç': "c", 'Ç': "c", 'ß': "ss",
	'ě': "e", 'š': "s", 'č': "c", 'ř': "r", 'ž': "z", 'ď': "d", 'ť': "t", 'ů': "u",
	'Ě': "e", 'Š': "s", 'Č': "c", 'Ř': "r", 'Ž': "z", 'Ď': "d", 'Ť': "t", 'Ů': "u",
}

// Sanitize converts a display name into a path segment: transliterate
// diacritics to ASCII, lowercase, collapse every run of non-alphanumeric
// characters into a single underscore, trim leading/trailing underscores.
//
// The result can be empty (e.g. a name of only punctuation); callers must
// treat that as a validation failure, a non-empty name does not guarantee a
// non-empty segment.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range name {
		var s string
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			s = string(r)
		case r >= 'A' && r <= 'Z':
			s = string(r + ('a' - 'A'))
		default:
			if t, ok := translit[r]; ok {
				s = t
			}
		}
		if s == "" {
			// Separator run; emit a single underscore lazily so we never
			// produce leading or trailing ones.
			if b.Len() > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteString(s)
	}
	return b.String()
}

// Join appends a segment to a parent path. An empty parent path yields the
// segment alone (root location).
func Join(parentPath, segment string) string {
	if parentPath == "" {
		return segment
	}
	return parentPath + Separator + segment
}

// Depth returns the number of segments in a path. Empty path → 0.
func Depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, Separator) + 1
}

// Rewrite replaces the oldPrefix of a descendant path with newPrefix.
// path must be oldPrefix itself or start with oldPrefix + Separator;
// otherwise it is returned unchanged.
func Rewrite(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	if strings.HasPrefix(path, oldPrefix+Separator) {
		return newPrefix + path[len(oldPrefix):]
	}
	return path
}
