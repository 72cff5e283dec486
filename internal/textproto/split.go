// Package textproto decodes the bracket-structured text form of a scene.
package textproto

// Split returns the pieces of text separated by sep at nesting depth 1 of
// the bracket groups. Any of ([{ opens a level and any of )]} closes one;
// the bracket kinds are not matched against each other.
//
// Separators outside a group or deeper than depth 1 never split. Text with
// no bracket group yields an empty result. Several top-level groups are
// concatenated in order.
func Split(text string, sep byte) []string {
	var (
		out   []string
		depth int
		last  = -1
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == sep && depth == 1:
			out = append(out, text[last+1:i])
			last = i
		case c == '[' || c == '(' || c == '{':
			if depth == 0 {
				last = i
			}
			depth++
		case c == ']' || c == ')' || c == '}':
			if depth == 1 {
				out = append(out, text[last+1:i])
			}
			depth--
		}
	}
	return out
}
