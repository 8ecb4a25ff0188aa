package excerpt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	src := "# Title\n\nSome **bold** and _italic_ text with a [link](https://example.com).\n\n```go\nfmt.Println(1)\n```\n"
	assert.Equal(t, "Title Some bold and italic text with a link. fmt.Println(1)", PlainText(src))
}

func TestPlainTextDropsHTML(t *testing.T) {
	assert.Equal(t, "before x after", PlainText("before <span>x</span>\n\n<div>\nblock\n</div>\n\nafter"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héll...", Truncate("héllo wörld", 4))
}

func TestFromMarkdown(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got := FromMarkdown(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), DefaultLength+3)

	assert.Equal(t, "tiny post", FromMarkdown("tiny *post*"))
}
