// Package tokenizer provides text tokenisation for the search engine. It
// lower-cases input and splits it into maximal runs of ASCII letters, digits,
// and underscore; every other character is a separator.
package tokenizer

// Tokenize breaks text into lowercased tokens. Punctuation, whitespace, and
// non-ASCII letters separate tokens and are never part of one. Empty input
// yields an empty slice.
func Tokenize(text string) []string {
	tokens := make([]string, 0, 8)
	buf := make([]byte, 0, 32)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c == '_' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			buf = append(buf, c)
			continue
		}
		if len(buf) > 0 {
			tokens = append(tokens, string(buf))
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		tokens = append(tokens, string(buf))
	}
	return tokens
}
