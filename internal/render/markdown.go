package render

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous elements from rendered markdown. UGCPolicy
// allows the safe HTML tags commonly produced by markdown while dropping
// script tags, event handlers, and the like.
var htmlSanitizer = bluemonday.UGCPolicy()

// Markdown converts markdown text to sanitized HTML. Used for the profile
// bio and project descriptions, which the site owner edits as markdown.
func Markdown(source string) template.HTML {
	if source == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		// Fall back to escaped plain text on conversion failure.
		return template.HTML(template.HTMLEscapeString(source))
	}

	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized above
}
