package helper

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var IdentifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func IsValidIdentifier(s string) bool {
	return IdentifierRegex.MatchString(s)
}

var upperFirst = cases.Upper(language.Und)

// HumanizeIdentifier turns a table or column identifier into a display name:
// "LogInName" becomes "Log In Name" and "USERS" becomes "Users".
func HumanizeIdentifier(ident string) string {
	if ident == "" {
		return ""
	}
	if ident == strings.ToUpper(ident) {
		ident = strings.ToLower(ident)
	}
	first, size := utf8.DecodeRuneInString(ident)
	ident = upperFirst.String(string(first)) + ident[size:]

	var b strings.Builder
	prev := rune(0)
	for _, r := range ident {
		if unicode.IsUpper(r) && !unicode.IsUpper(prev) && prev != ' ' && prev != 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.TrimSpace(b.String())
}
