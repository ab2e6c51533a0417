package publish

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBlocksWrapsHTMLElements(t *testing.T) {
	out := ToBlocks("<h2>Title</h2><p>Text</p>")
	assert.Equal(t, "<!-- wp:heading -->\n<h2>Title</h2>\n<!-- /wp:heading --><!-- wp:paragraph -->\n<p>Text</p>\n<!-- /wp:paragraph -->", out)
}

func TestToBlocksAnnotatesEveryKind(t *testing.T) {
	in := `<h3>Sub</h3><p class="lead">Lead</p><pre>code</pre><ul><li>a</li></ul><ol><li>b</li></ol>`
	out := ToBlocks(in)

	assert.Contains(t, out, "<!-- wp:heading {\"level\":3} -->\n<h3>Sub</h3>\n<!-- /wp:heading -->")
	assert.Contains(t, out, "<!-- wp:paragraph -->\n<p class=\"lead\">Lead</p>\n<!-- /wp:paragraph -->")
	assert.Contains(t, out, "<!-- wp:list -->\n<ul><li>a</li></ul>\n<!-- /wp:list -->")
	assert.Contains(t, out, "<!-- wp:list {\"ordered\":true} -->\n<ol><li>b</li></ol>\n<!-- /wp:list -->")
	assert.Contains(t, out, "<pre>code</pre>")
	assert.NotContains(t, out, "<!-- wp:paragraph -->\n<pre>")
}

func TestToBlocksMarkdown(t *testing.T) {
	in := "# Big\n\n## Section\n\n### Detail\n\nPlain & simple\n\n\n"
	want := "<!-- wp:heading {\"level\":1} -->\n<h1>Big</h1>\n<!-- /wp:heading -->\n\n" +
		"<!-- wp:heading -->\n<h2>Section</h2>\n<!-- /wp:heading -->\n\n" +
		"<!-- wp:heading {\"level\":3} -->\n<h3>Detail</h3>\n<!-- /wp:heading -->\n\n" +
		"<!-- wp:paragraph -->\n<p>Plain &amp; simple</p>\n<!-- /wp:paragraph -->"
	assert.Equal(t, want, ToBlocks(in))
}

func TestToBlocksNonStringInput(t *testing.T) {
	assert.NotPanics(t, func() { ToBlocks(42) })
	assert.Equal(t, "42", ToBlocks(42))
	assert.Equal(t, "", ToBlocks(nil))
	assert.Equal(t, "true", ToBlocks(true))
}

func TestToBlocksLeavesExistingBlocksAlone(t *testing.T) {
	in := "<!-- wp:paragraph -->\n<p>done</p>\n<!-- /wp:paragraph -->"
	assert.Equal(t, in, ToBlocks(in))
	assert.Equal(t, "", ToBlocks(""))
}

func TestToBlocksPanickingStringer(t *testing.T) {
	var b *strings.Builder
	assert.NotPanics(t, func() { ToBlocks(b) })
	assert.Equal(t, "<nil>", ToBlocks(b))
}

func TestToBlocksMarkdownHeadingWithoutSpace(t *testing.T) {
	assert.Equal(t, "<!-- wp:heading -->\n<h2>Heading</h2>\n<!-- /wp:heading -->", ToBlocks("##Heading"))
	assert.Equal(t, "<!-- wp:heading {\"level\":3} -->\n<h3>Tips</h3>\n<!-- /wp:heading -->", ToBlocks("###Tips"))
	assert.Equal(t, "<!-- wp:paragraph -->\n<p>####Deep</p>\n<!-- /wp:paragraph -->", ToBlocks("####Deep"))
	assert.Equal(t, "<!-- wp:paragraph -->\n<p>##</p>\n<!-- /wp:paragraph -->", ToBlocks("##"))
}
