package registry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FoldName returns the comparison key for warehouse and branch names:
// surrounding whitespace is ignored and letters compare case-insensitively.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// SameName reports whether two names refer to the same warehouse or branch
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// NormalizeAlias upper-cases and trims a branch alias
func NormalizeAlias(alias string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(alias))
}
