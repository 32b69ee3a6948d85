package summary

import (
	"regexp"
	"strings"
)

var (
	boldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
)

// Render applies the minimal markdown-to-display transform the summary panel
// needs: bold spans and line-break normalization. Not a markdown parser.
func Render(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	text = newlinesRe.ReplaceAllString(text, "\n\n")
	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = strings.ReplaceAll(text, "\n", "<br>")
	return text
}
