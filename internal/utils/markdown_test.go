package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownSanitises(t *testing.T) {
	out := RenderMarkdown("**Fund transit**\n\n<script>alert(1)</script>")
	assert.Contains(t, out, "<strong>Fund transit</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestExcerpt(t *testing.T) {
	html := RenderMarkdown("# Title\n\nSome   body text that goes on.")
	assert.Equal(t, "Title Some body text that goes on.", Excerpt(html, 0))

	long := Excerpt("<p>"+strings.Repeat("a", 20)+"</p>", 5)
	assert.Equal(t, "aaaaa…", long)
	assert.Equal(t, "", Excerpt("", 10))
}
