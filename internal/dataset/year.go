package dataset

import (
	"strings"
)

// NoGenresSentinel is the verbatim marker used by the source data for titles
// without genre information. It is preserved as a regular genre token.
const NoGenresSentinel = "(no genres listed)"

// genreSeparator delimits genres within the raw genre field.
const genreSeparator = "|"

// yearDigits is the number of digits in a parseable release year.
const yearDigits = 4

// ExtractYear parses a trailing parenthesized 4-digit year from a display
// name, e.g. "Toy Story (1995)". The second return is false when the name
// carries no such suffix; that is a normal outcome, not an error.
func ExtractYear(displayName string) (int, bool) {
	s := strings.TrimRight(displayName, " ")
	if len(s) < yearDigits+2 || s[len(s)-1] != ')' {
		return 0, false
	}

	open := strings.LastIndexByte(s, '(')
	if open < 0 || len(s)-open-2 != yearDigits {
		return 0, false
	}

	year := 0

	for _, c := range s[open+1 : len(s)-1] {
		if c < '0' || c > '9' {
			return 0, false
		}

		year = year*10 + int(c-'0')
	}

	return year, true
}

// SplitGenres splits the raw pipe-delimited genre field into an ordered list.
// An empty field yields the no-genres sentinel as a single-element list so the
// title still participates in genre grouping.
func SplitGenres(genreField string) []string {
	if genreField == "" {
		return []string{NoGenresSentinel}
	}

	return strings.Split(genreField, genreSeparator)
}
