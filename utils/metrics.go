package utils

import "strings"

// wordsPerMinute is the assumed adult reading speed.
const wordsPerMinute = 200

// ContentMetrics derives word count and reading time (whole minutes) from raw
// content in a single pass, so the two values always describe the same
// snapshot of the text.
//
// Word count is the number of whitespace-delimited tokens after trimming.
// Reading time is ceil(wordCount / 200), at least 1 whenever the content has
// any words at all. Empty content yields (0, 0).
func ContentMetrics(content string) (wordCount, readingTime int) {
	wordCount = len(strings.Fields(content))
	if wordCount == 0 {
		return 0, 0
	}
	readingTime = (wordCount + wordsPerMinute - 1) / wordsPerMinute
	return wordCount, readingTime
}
