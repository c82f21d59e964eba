// Package export renders customer reports, box statements, and
// transaction receipts as PDF and XLSX downloads.
package export

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	forbiddenChars = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// SanitizeFilename makes a customer-entered name safe to use as a
// download filename: whitespace runs become underscores and characters
// that filesystems reject are stripped.
func SanitizeFilename(name string) string {
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	name = forbiddenChars.ReplaceAllString(name, "")
	if name == "" {
		name = "export"
	}
	return name
}

// ContentDisposition builds an attachment header for the given
// filename. Non-ASCII names get an underscore fallback plus the
// RFC 5987 encoded form, which browsers prefer when present.
func ContentDisposition(filename string) string {
	fallback := make([]rune, 0, len(filename))
	ascii := true
	for _, r := range filename {
		if r > 127 {
			ascii = false
			fallback = append(fallback, '_')
			continue
		}
		fallback = append(fallback, r)
	}
	if ascii {
		return fmt.Sprintf("attachment; filename=%q", filename)
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", string(fallback), url.PathEscape(filename))
}
