// Package charset extracts practice characters from free-form text.
package charset

// IsKanji reports whether r falls in the CJK unified ideograph block.
func IsKanji(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

// ExtractCharacters returns the kanji found in text, in first-seen order
// with duplicates removed.
func ExtractCharacters(text string) []string {
	seen := make(map[rune]struct{})
	var chars []string
	for _, r := range text {
		if !IsKanji(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		chars = append(chars, string(r))
	}
	return chars
}

// ExtractFromArgs collects kanji from all arguments, so both "日本語" and
// "日 本 語" forms work on the command line.
func ExtractFromArgs(args []string) []string {
	seen := make(map[rune]struct{})
	var chars []string
	for _, arg := range args {
		for _, r := range arg {
			if !IsKanji(r) {
				continue
			}
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			chars = append(chars, string(r))
		}
	}
	return chars
}
