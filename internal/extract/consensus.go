package extract

import "strings"

// Consensus collapses multiple noisy OCR readings of the same logical
// text into one best guess: every reading is right-padded to the longest
// length, then each column takes its most frequent character, ties going
// to the character seen first. Sporadic per-character OCR errors are
// voted out as long as most readings agree.
func Consensus(readings []string) string {
	if len(readings) == 0 {
		return ""
	}
	maxLen := 0
	for _, s := range readings {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	var b strings.Builder
	b.Grow(maxLen)
	for col := 0; col < maxLen; col++ {
		counts := make(map[byte]int)
		var order []byte
		for _, s := range readings {
			ch := byte(' ')
			if col < len(s) {
				ch = s[col]
			}
			if _, seen := counts[ch]; !seen {
				order = append(order, ch)
			}
			counts[ch]++
		}
		best := order[0]
		for _, ch := range order[1:] {
			if counts[ch] > counts[best] {
				best = ch
			}
		}
		b.WriteByte(best)
	}
	return strings.TrimRight(b.String(), " ")
}
