package cst

import (
	"sort"
	"unicode/utf8"
)

// LineIndex maps byte offsets to 1-based line and column numbers. Columns count runes.
type LineIndex struct {
	text   string
	starts []int
}

func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// Position returns the line and column of offset. Offsets outside the text are clamped.
func (li *LineIndex) Position(offset int) (line, column int) {
	offset = min(max(offset, 0), len(li.text))
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return i + 1, utf8.RuneCountInString(li.text[li.starts[i]:offset]) + 1
}

// LineCount returns the number of lines. A trailing line break opens an empty last line.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Line returns the content of the 1-based line without its line break.
func (li *LineIndex) Line(line int) string {
	if line < 1 || line > len(li.starts) {
		return ""
	}
	start := li.starts[line-1]
	end := len(li.text)
	if line < len(li.starts) {
		end = li.starts[line] - 1
	}
	if end > start && li.text[end-1] == '\r' {
		end--
	}
	return li.text[start:end]
}

// LineStart returns the offset of the first byte of the 1-based line.
func (li *LineIndex) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(li.starts) {
		return len(li.text)
	}
	return li.starts[line-1]
}
