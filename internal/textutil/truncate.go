// Package textutil holds small string helpers shared by the prompt and
// example builders.
package textutil

// Truncate returns at most maxRunes runes of s. It never splits a UTF-8
// sequence.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}

// Ellipsize truncates s to maxRunes runes and appends "..." when anything
// was cut.
func Ellipsize(s string, maxRunes int) string {
	t := Truncate(s, maxRunes)
	if len(t) < len(s) {
		return t + "..."
	}
	return t
}
