package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	page := &Page{
		Title:  "Test Page",
		Byline: "By Author",
		Content: `<div><p>Hello world. This is a <strong>bold</strong> and <em>italic</em> test.</p>
<p>Here is a <a href="https://example.com">link</a>.</p>
<ul><li>one</li><li>two<ul><li>two.a</li></ul></li></ul>
<ol><li>first</li></ol>
<pre><code>func main() {}</code></pre>
<blockquote>quoted</blockquote>
<h2>Section</h2></div>`,
	}

	md := Markdown(page)
	assert.Contains(t, md, "# Test Page")
	assert.Contains(t, md, "*By Author*")
	assert.Contains(t, md, "**bold**")
	assert.Contains(t, md, "*italic*")
	assert.Contains(t, md, "[link](https://example.com)")
	assert.Contains(t, md, "- one\n- two\n  - two.a\n")
	assert.Contains(t, md, "1. first")
	assert.Contains(t, md, "```\nfunc main() {}\n```")
	assert.Contains(t, md, "> quoted")
	assert.Contains(t, md, "## Section")
}

func TestMarkdown_PlainTextFallback(t *testing.T) {
	md := Markdown(&Page{Title: "t", Text: "just text"})
	assert.Contains(t, md, "just text")
}

func TestRenderMarkdown(t *testing.T) {
	SetStyle("notty")
	out, err := RenderMarkdown("# Title\n\nbody text", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}
