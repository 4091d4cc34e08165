package sourcemap

import (
	"regexp"
	"strings"
)

// Matches //# sourceMappingURL=... or //@ sourceMappingURL=...
var sourceMappingURLRe = regexp.MustCompile(`^\s*//[#@]\s*sourceMappingURL\s*=\s*(\S+)\s*$`)

// SplitComment separates a trailing sourceMappingURL comment from code. When
// there is none, body is code and url is empty.
func SplitComment(code string) (body, url string) {
	trimmed := strings.TrimRight(code, "\r\n")
	start := strings.LastIndexByte(trimmed, '\n') + 1
	matches := sourceMappingURLRe.FindStringSubmatch(trimmed[start:])
	if matches == nil {
		return code, ""
	}
	return code[:start], matches[1]
}

// Comment renders a sourceMappingURL comment line.
func Comment(url string) string {
	return "//# sourceMappingURL=" + url + "\n"
}

// IsDataURL reports whether a sourceMappingURL points to an inline map.
func IsDataURL(url string) bool {
	return strings.HasPrefix(url, "data:")
}
