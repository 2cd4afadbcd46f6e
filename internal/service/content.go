package service

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// WordsPerMinute is the reading speed used for read-time estimates.
const WordsPerMinute = 225

var (
	slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)
	markupTag     = regexp.MustCompile(`<[^>]*>`)

	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	previewPolicy = bluemonday.UGCPolicy()
)

// Slugify lowercases title and collapses every run of characters outside
// [a-z0-9] into a single hyphen, without leading or trailing hyphens.
func Slugify(title string) string {
	slug := slugSeparator.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// ComputeReadTime 去掉标签后按空白切词，225 词/分钟向上取整，至少 1 分钟。
func ComputeReadTime(content string) string {
	text := markupTag.ReplaceAllString(content, " ")
	words := len(strings.Fields(text))

	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// RenderPreview renders post content as sanitized HTML. Raw HTML inside the
// markdown passes through goldmark and is then cleaned by the UGC policy.
func RenderPreview(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return template.HTML(previewPolicy.Sanitize(template.HTMLEscapeString(content)))
	}
	return template.HTML(previewPolicy.SanitizeBytes(buf.Bytes()))
}
