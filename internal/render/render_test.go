package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	t.Run("renders and sanitises", func(t *testing.T) {
		out := string(Markdown("# Title\n\nsome **bold** text<script>alert(1)</script>"))
		assert.Contains(t, out, "<strong>bold</strong>")
		assert.Contains(t, out, "<h1")
		assert.NotContains(t, out, "<script>")
	})

	t.Run("images load lazily", func(t *testing.T) {
		out := string(Markdown("![cat](https://img.example.com/cat.png)"))
		assert.Contains(t, out, `loading="lazy"`)
		assert.Contains(t, out, `referrerpolicy="no-referrer"`)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, string(Markdown("")))
	})
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name   string
		source string
		limit  int
		want   string
	}{
		{"strips markup", "## Hello\n\nThis is *markdown*.", 100, "Hello This is markdown."},
		{"truncates", "abcdefghij", 4, "abcd…"},
		{"zero limit", "abcdefghij", 0, ""},
		{"exact length", "abcd", 4, "abcd"},
		{"multibyte", "日本語のテキスト", 3, "日本語…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excerpt(tt.source, tt.limit))
		})
	}
}

func TestExcerpt_DefaultLength(t *testing.T) {
	got := Excerpt(strings.Repeat("word ", 100), ExcerptLength)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), ExcerptLength+1)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestFirstImage(t *testing.T) {
	src := "intro\n\n![one](https://a.example.com/1.png)\n\n![two](https://a.example.com/2.png)"
	assert.Equal(t, "https://a.example.com/1.png", FirstImage(src))
	assert.Empty(t, FirstImage("no pictures here"))
}
