// Package render turns post markdown into sanitised HTML and derives the
// plain-text excerpt and cover image shown in post lists.
package render

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ExcerptLength is the excerpt size, in runes, used for list entries.
const ExcerptLength = 160

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// Markdown renders source to sanitised HTML. Images get lazy loading and a
// no-referrer policy.
func Markdown(source string) template.HTML {
	raw, err := toHTML(source)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return enhance(raw)
}

func toHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return string(policy.SanitizeBytes(buf.Bytes())), nil
}

// Summary returns the excerpt and the first image URL of a markdown
// document in one pass.
func Summary(source string, limit int) (excerpt, cover string) {
	raw, err := toHTML(source)
	if err != nil {
		return truncate(collapse(source), limit), ""
	}
	doc, err := parse(raw)
	if err != nil {
		return truncate(collapse(source), limit), ""
	}
	return truncate(collapse(doc.Text()), limit), firstImage(doc)
}

// Excerpt is the first limit runes of the document's text, without markup.
func Excerpt(source string, limit int) string {
	excerpt, _ := Summary(source, limit)
	return excerpt
}

// FirstImage returns the src of the first image in the document, or "".
func FirstImage(source string) string {
	_, cover := Summary(source, 0)
	return cover
}
