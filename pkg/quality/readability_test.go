package quality

import "testing"

func TestReadingLevel(t *testing.T) {
	t.Parallel()

	if got := ReadingLevel(""); got != 0 {
		t.Fatalf("空文本应为0，实际 %.2f", got)
	}

	simple := "The dog ran. The cat sat. The boy saw it all."
	complexText := "Notwithstanding considerable organizational deliberation, " +
		"the administration ultimately promulgated comprehensive regulatory documentation."

	simpleLevel := ReadingLevel(simple)
	complexLevel := ReadingLevel(complexText)

	if simpleLevel >= complexLevel {
		t.Fatalf("简单文本年级应低于复杂文本: %.2f >= %.2f", simpleLevel, complexLevel)
	}
	if simpleLevel > 3 {
		t.Fatalf("单音节短句应在低年级: %.2f", simpleLevel)
	}
	if complexLevel < 12 {
		t.Fatalf("多音节长句应在高年级: %.2f", complexLevel)
	}
}

func TestInBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level float64
		want  bool
	}{
		{7.5, true},
		{8.0, true},
		{8.5, true},
		{7.4, false},
		{8.6, false},
	}
	for _, tt := range tests {
		if got := InBand(tt.level, 7.5, 8.5); got != tt.want {
			t.Fatalf("InBand(%.1f) = %v，期望 %v", tt.level, got, tt.want)
		}
	}
}

func TestCountSyllables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"table", 2},
		{"notice", 2}, // 词尾哑音e
		{"rhythm", 1}, // 无元音组时保底1
	}
	for _, tt := range tests {
		if got := countSyllables(tt.word); got != tt.want {
			t.Fatalf("countSyllables(%q) = %d，期望 %d", tt.word, got, tt.want)
		}
	}
}

func TestWordCount(t *testing.T) {
	t.Parallel()

	if got := WordCount("one two three"); got != 3 {
		t.Fatalf("期望3，实际 %d", got)
	}
	if got := WordCount("it's a worker's union"); got != 4 {
		t.Fatalf("带撇号的词按一个词计，期望4，实际 %d", got)
	}
}
