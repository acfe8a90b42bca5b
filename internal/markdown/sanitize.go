package markdown

import (
	"regexp"
	"strings"
)

var (
	orderedListRe   = regexp.MustCompile(`^\d+\.\s+`)
	unorderedListRe = regexp.MustCompile(`^[-*+]\s+`)
	emphasisRe      = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
	codeSpanRe      = regexp.MustCompile("`([^`]*)`")
	linkRe          = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	blockquoteRe    = regexp.MustCompile(`^>\s+`)
	htmlTagRe       = regexp.MustCompile(`<[^>]+>`)
)

// Sanitize strips markdown markup from a single line so it can be used as an
// issue summary. List and blockquote markers are stripped once at the start of
// the string; emphasis, code spans, links and HTML tags are collapsed
// everywhere. Already-plain text passes through unchanged.
func Sanitize(text string) string {
	text = orderedListRe.ReplaceAllString(text, "")
	text = unorderedListRe.ReplaceAllString(text, "")
	for {
		stripped := emphasisRe.ReplaceAllString(text, "$1")
		if stripped == text {
			break
		}
		text = stripped
	}
	text = codeSpanRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = blockquoteRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
