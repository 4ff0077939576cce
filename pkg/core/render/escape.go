package render

import "strings"

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes a value for interpolation into markup.
// Anything that is not a string escapes to the empty string.
func EscapeHTML(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return htmlReplacer.Replace(s)
}
