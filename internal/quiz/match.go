package quiz

import (
	"strings"
	"unicode/utf8"
)

// MatchFill reports whether input answers a fill-in question whose accepted
// answers are answers. The input is trimmed, then both sides are compared
// case-insensitively; accepted answers are used as written otherwise.
// Besides an exact match, an input of two or more characters is accepted if
// it appears inside an accepted answer.
func MatchFill(input string, answers []string) bool {
	val := strings.ToLower(strings.TrimSpace(input))
	if val == "" {
		return false
	}
	for _, a := range answers {
		ans := strings.ToLower(a)
		if val == ans {
			return true
		}
		if utf8.RuneCountInString(val) > 1 && strings.Contains(ans, val) {
			return true
		}
	}
	return false
}
