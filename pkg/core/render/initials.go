package render

import (
	"strings"

	"github.com/jakechorley/activity-board/pkg/core/model"
)

// Placeholder is shown when no initials can be derived
const Placeholder = "?"

// isWordChar reports whether r is part of an initials token (ASCII letter or digit)
func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// isSeparator reports whether r is an ASCII character that splits tokens
func isSeparator(r rune) bool {
	return r < 0x80 && !isWordChar(r)
}

// Initials derives up to two display initials from the local part of an email.
// Tokens are runs of ASCII letters and digits; underscores and every other
// character split them. Without tokens it falls back to the first two
// non-separator characters of the local part, then to Placeholder.
func Initials(email string) (initials string) {
	defer func() {
		if r := recover(); r != nil {
			initials = Placeholder
		}
	}()

	local := model.LocalPart(email)

	tokens := strings.FieldsFunc(local, func(r rune) bool { return !isWordChar(r) })
	if len(tokens) == 0 {
		rest := []rune(strings.Map(func(r rune) rune {
			if isSeparator(r) {
				return -1
			}
			return r
		}, local))
		if len(rest) > 2 {
			rest = rest[:2]
		}
		if fallback := strings.ToUpper(string(rest)); fallback != "" {
			return fallback
		}
		return Placeholder
	}

	if len(tokens) > 2 {
		tokens = tokens[:2]
	}

	var b strings.Builder
	for _, token := range tokens {
		b.WriteString(strings.ToUpper(token[:1]))
	}
	return b.String()
}
