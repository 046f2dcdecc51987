package rewrite

import (
	"strings"
)

// NormalizePath converts a platform path into canonical forward-slash form.
// Backslashes become forward slashes, and the leading-slash artifact some
// Windows tooling produces before a drive letter (/C:/proj) is stripped while
// the drive itself is preserved. Written output never contains backslashes.
func NormalizePath(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	if len(s) >= 3 && s[0] == '/' && isDriveLetter(s[1]) && s[2] == ':' {
		s = s[1:]
	}
	return s
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// localFileURL composes the file:// locator for a root-relative target.
// root must be normalized and have no trailing slash.
func localFileURL(root, target string) string {
	return "file://" + root + "/" + target
}
