// Package render converts manual markdown to HTML.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DescriptionWords is how many words of a document make up its description.
const DescriptionWords = 20

var (
	displayKey = parser.NewContextKey()
	sourceKey  = parser.NewContextKey()
)

// Renderer turns markdown into HTML with syntax highlighting. Relative links
// resolve against the page's display URL and relative images against the
// raw source URL, so a document renders the same wherever it is served.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(urlResolver{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md}
}

// Render converts markdown to HTML. displayURL is where the page is shown and
// sourceURL is where its markdown was fetched from; either may be empty.
func (r *Renderer) Render(markdown, displayURL, sourceURL string) (template.HTML, error) {
	pc := parser.NewContext()
	if u, err := url.Parse(displayURL); err == nil && displayURL != "" {
		pc.Set(displayKey, u)
	}
	if u, err := url.Parse(sourceURL); err == nil && sourceURL != "" {
		pc.Set(sourceKey, u)
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Title returns the text of the first level-one heading, or "".
func Title(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// Description returns the first DescriptionWords words of markdown with
// heading markers dropped.
func Description(markdown string) string {
	words := make([]string, 0, DescriptionWords)
	for _, w := range strings.Fields(markdown) {
		if strings.Trim(w, "#") == "" {
			continue
		}
		words = append(words, w)
		if len(words) == DescriptionWords {
			break
		}
	}
	return strings.Join(words, " ")
}

type urlResolver struct{}

func (urlResolver) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	display, _ := pc.Get(displayKey).(*url.URL)
	source, _ := pc.Get(sourceKey).(*url.URL)
	if display == nil && source == nil {
		return
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			node.Destination = resolve(display, node.Destination, true)
		case *ast.Image:
			node.Destination = resolve(source, node.Destination, false)
		}
		return ast.WalkContinue, nil
	})
}

// resolve makes a relative destination absolute against base. Links that
// land on a markdown file lose the extension when stripMD is set.
func resolve(base *url.URL, dest []byte, stripMD bool) []byte {
	if base == nil || len(dest) == 0 || dest[0] == '#' {
		return dest
	}
	ref, err := url.Parse(string(dest))
	if err != nil || ref.IsAbs() || ref.Host != "" {
		return dest
	}
	out := base.ResolveReference(ref)
	if stripMD {
		out.Path = strings.TrimSuffix(out.Path, ".md")
		out.RawPath = ""
	}
	return []byte(out.String())
}
