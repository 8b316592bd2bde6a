// pkg/quality/readability.go
package quality

import (
	"regexp"
	"strings"
)

var (
	wordRE     = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)
	sentenceRE = regexp.MustCompile(`[.!?]+(?:\s|$)`)
	vowelRE    = regexp.MustCompile(`[aeiouy]+`)
)

// ReadingLevel Flesch-Kincaid 年级水平
// 0.39*(每句词数) + 11.8*(每词音节数) - 15.59
func ReadingLevel(text string) float64 {
	words := wordRE.FindAllString(text, -1)
	if len(words) == 0 {
		return 0
	}

	sentences := sentenceRE.FindAllString(text, -1)
	sentenceCount := len(sentences)
	if sentenceCount == 0 {
		sentenceCount = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	grade := 0.39*(float64(len(words))/float64(sentenceCount)) +
		11.8*(float64(syllables)/float64(len(words))) - 15.59
	if grade < 0 {
		return 0
	}
	return grade
}

// InBand 检查年级水平是否落在目标区间
func InBand(level, min, max float64) bool {
	return level >= min && level <= max
}

// countSyllables 音节估算：数元音组，去掉词尾哑音e，至少1个
func countSyllables(word string) int {
	w := strings.ToLower(word)
	groups := vowelRE.FindAllString(w, -1)
	count := len(groups)
	if count > 1 && strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

// WordCount 正文词数
func WordCount(text string) int {
	return len(wordRE.FindAllString(text, -1))
}
