package extract

import (
	"strconv"
)

// digitRuns returns every maximal run of 2 to 4 ASCII digits in text, so
// "60mm" yields 60 and "12345" yields nothing.
func digitRuns(text string) []int {
	var out []int
	for i := 0; i < len(text); {
		if !isDigit(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && isDigit(text[j]) {
			j++
		}
		if n := j - i; n >= 2 && n <= 4 {
			v, _ := strconv.Atoi(text[i:j])
			out = append(out, v)
		}
		i = j
	}
	return out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// plausibleWidth reports whether n looks like a cabinet or filler width.
func plausibleWidth(n int) bool {
	return (n >= minCabinetWidth && n <= maxCabinetWidth) || n < maxFillerWidth
}

// salvageWidths pulls widths out of a model reply that was not valid JSON.
func salvageWidths(text string) []int {
	var widths []int
	for _, n := range digitRuns(text) {
		if n < minTextWidth || n > maxTextWidth {
			continue
		}
		if plausibleWidth(n) {
			widths = append(widths, n)
		}
	}
	return widths
}

// ocrWidths pulls widths out of OCR text. OCR tends to read the same label
// twice, so repeats are dropped keeping the first occurrence.
func ocrWidths(text string) []int {
	var widths []int
	seen := make(map[int]bool)
	for _, n := range digitRuns(text) {
		if n < minTextWidth || !plausibleWidth(n) || seen[n] {
			continue
		}
		seen[n] = true
		widths = append(widths, n)
	}
	return widths
}
