package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, content string) string {
	t.Helper()
	page, err := Render(content, DefaultOptions())
	require.NoError(t, err)
	return string(page)
}

func TestRenderEscapesOnce(t *testing.T) {
	got := render(t, "1 < 2 & **bold**\n\nSUMMARY OF PROCESS\nsummary text")

	assert.Contains(t, got, "&lt;")
	assert.Contains(t, got, "&amp;")
	assert.Contains(t, got, "<strong>bold</strong>")
	assert.NotContains(t, got, "**")

	// Pre-escaped entities are not escaped a second time.
	got = render(t, "already &amp; escaped")
	assert.Contains(t, got, "&amp;")
	assert.NotContains(t, got, "&amp;amp;")
}

func TestRenderKeepsTagLikeText(t *testing.T) {
	// Model answers mention special tokens written as tags. They must be
	// escaped and shown, never swallowed as raw HTML.
	got := render(t, "the <mask> token is used\n\nSUMMARY OF PROCESS\nreplace <pad> with <s>")

	assert.Contains(t, got, "the &lt;mask&gt; token is used")
	assert.Contains(t, got, "replace &lt;pad&gt; with &lt;s&gt;")
	assert.NotContains(t, got, "raw HTML omitted")
	assert.NotContains(t, got, "<mask>")
}

func TestRenderEscapesHTMLBlock(t *testing.T) {
	// A line opening with a tag parses as an HTML block, not an inline span.
	got := render(t, "<div class=\"x\">inline markup</div>\n\nSUMMARY OF PROCESS\nsummary")

	assert.Contains(t, got, "&lt;div class=&#34;x&#34;&gt;inline markup&lt;/div&gt;")
	assert.NotContains(t, got, "<div class=")
}

func TestRenderParagraphsAndLineBreaks(t *testing.T) {
	got := render(t, "para one\n\npara two\nwrapped line\n\nSUMMARY OF PROCESS\nsummary")

	assert.Contains(t, got, "<p>para one</p>")
	assert.Contains(t, got, "para two<br")
	assert.Contains(t, got, "wrapped line")
}

func TestRenderWithoutMarker(t *testing.T) {
	got := render(t, "response only, no summary")

	assert.Contains(t, got, "response only, no summary")
	// The summary section is present but empty.
	assert.Contains(t, got, "<h2>Summary of Process</h2>")
}

func TestRenderMetadataBlock(t *testing.T) {
	got := render(t, "anything")

	// The metadata block is static page furniture from Options, not run data.
	assert.Contains(t, got, "<strong>Model:</strong> meta.llama3-70b-instruct-v1:0")
	assert.Contains(t, got, "<strong>Input tokens:</strong> 698")
	assert.Contains(t, got, "<strong>Output tokens:</strong> 478")
	assert.Contains(t, got, "<strong>Total tokens:</strong> 1176")
	assert.Contains(t, got, "<strong>Stop reason:</strong> end_turn")
}

func TestRenderCustomTitle(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "My <Run>"

	page, err := Render("body", opts)
	require.NoError(t, err)

	// html/template escapes metadata fields.
	assert.True(t, strings.Contains(string(page), "My &lt;Run&gt;"))
}
