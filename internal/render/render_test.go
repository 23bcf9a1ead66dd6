package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	displayURL = "/manual@v1.0.0/getting_started/installation"
	sourceURL  = "https://cdn.example.com/gh/denoland/deno@v1.0.0/docs/getting_started/installation.md"
)

func TestRenderResolvesRelativeLinks(t *testing.T) {
	out, err := New().Render("See [setup](./setup.md) and [runtime](../runtime/workers.md#api).", displayURL, sourceURL)
	require.NoError(t, err)

	assert.Contains(t, string(out), `href="/manual@v1.0.0/getting_started/setup"`)
	assert.Contains(t, string(out), `href="/manual@v1.0.0/runtime/workers#api"`)
}

func TestRenderResolvesImagesAgainstSource(t *testing.T) {
	out, err := New().Render("![logo](../images/logo.png)", displayURL, sourceURL)
	require.NoError(t, err)

	assert.Contains(t, string(out), `src="https://cdn.example.com/gh/denoland/deno@v1.0.0/docs/images/logo.png"`)
}

func TestRenderLeavesAbsoluteAndFragmentLinks(t *testing.T) {
	md := "[gh](https://github.com/denoland/deno) [top](#install)"
	out, err := New().Render(md, displayURL, sourceURL)
	require.NoError(t, err)

	assert.Contains(t, string(out), `href="https://github.com/denoland/deno"`)
	assert.Contains(t, string(out), `href="#install"`)
}

func TestRenderWithoutURLs(t *testing.T) {
	out, err := New().Render("[setup](./setup.md)", "", "")
	require.NoError(t, err)
	assert.Contains(t, string(out), `href="./setup.md"`)
}

func TestRenderHeadingsAndCode(t *testing.T) {
	md := "# Installation\n\n```ts\nconsole.log(\"hi\");\n```\n"
	out, err := New().Render(md, displayURL, sourceURL)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<h1 id="installation">Installation</h1>`)
	assert.Contains(t, html, "<pre")
	assert.True(t, strings.Contains(html, "console"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Installation", Title("intro text\n# Installation\n## Other"))
	assert.Equal(t, "", Title("## Only a subheading"))
}

func TestDescription(t *testing.T) {
	words := strings.Repeat("word ", 30)
	assert.Equal(t, strings.TrimSpace(strings.Repeat("word ", DescriptionWords)), Description("# "+words))
	assert.Equal(t, "404 - Not Found Whoops, the page does not seem to exist.",
		Description("# 404 - Not Found\nWhoops, the page does not seem to exist."))
}
