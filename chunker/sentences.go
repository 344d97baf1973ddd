package chunker

import (
	"strings"
	"unicode"
)

var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true, "jr": true,
	"st": true, "vs": true, "etc": true, "inc": true, "ltd": true, "co": true, "corp": true,
	"no": true, "fig": true, "approx": true, "dept": true, "e.g": true, "i.e": true,
}

// SplitSentences breaks text at terminal punctuation followed by whitespace and the
// start of a new sentence. Abbreviations, initials and decimal numbers are kept intact.
func SplitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	var (
		out   []string
		start int
	)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		end := i + 1
		for end < len(runes) && isClosing(runes[end]) {
			end++
		}
		if end >= len(runes) || !unicode.IsSpace(runes[end]) {
			continue
		}

		next := end
		for next < len(runes) && unicode.IsSpace(runes[next]) {
			next++
		}
		if next >= len(runes) || !startsSentence(runes[next]) {
			continue
		}
		if r == '.' && isAbbreviation(runes[start:i]) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = next
		i = next - 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’', '.', '!', '?':
		return true
	}
	return false
}

func startsSentence(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '\'' || r == '(' || r == '“'
}

// isAbbreviation reports whether the word ending right before a period is an
// abbreviation or an initial.
func isAbbreviation(prefix []rune) bool {
	j := len(prefix)
	for j > 0 && !unicode.IsSpace(prefix[j-1]) {
		j--
	}
	word := strings.TrimLeft(string(prefix[j:]), "(\"'“")
	if word == "" {
		return false
	}

	lower := strings.ToLower(word)
	if abbreviations[lower] {
		return true
	}

	// single letters and dotted initials such as "J" or "U.S"
	for _, part := range strings.Split(word, ".") {
		if len([]rune(part)) != 1 || !unicode.IsLetter([]rune(part)[0]) {
			return false
		}
	}
	return true
}
