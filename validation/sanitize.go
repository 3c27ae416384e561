package validation

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richText  = bluemonday.UGCPolicy()
	plainText = bluemonday.StrictPolicy()
)

// SanitizeHTML keeps the safe subset of user generated markup.
func SanitizeHTML(input string) string {
	return richText.Sanitize(input)
}

// SanitizeText strips every tag from a plain text field. The policy escapes
// what is left, so entities are decoded again and `&` is stored as typed.
func SanitizeText(input string) string {
	return html.UnescapeString(plainText.Sanitize(input))
}

var sanitizers = map[string]func(string) string{
	"text": SanitizeText,
	"html": SanitizeHTML,
}
