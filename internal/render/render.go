// Package render prints served pages as Markdown for reading in a terminal.
package render

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/mackee/go-readability"

	"github.com/f4ah6o/static-server-go/internal/pages"
)

// Page resolves urlPath the way the server does and converts the page to
// Markdown. The article found by readability is converted when there is one.
// Otherwise only the <main> element is converted when the page has one, or
// the whole <body>. found is false when the server would answer with 404.
func Page(resolver *pages.Resolver, urlPath string) (markdown string, found bool, err error) {
	page := resolver.Load(urlPath)
	if !page.Found {
		return "", false, nil
	}

	conv := md.NewConverter("", true, nil)
	conv.Remove("noscript")

	if article, ok := extractArticle(page.Contents); ok {
		out, err := conv.ConvertString(article)
		if err == nil {
			return strings.TrimSpace(out), true, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Contents))
	if err != nil {
		return "", true, fmt.Errorf("failed to parse %s: %w", page.File, err)
	}

	content := doc.Find("main").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}
	return strings.TrimSpace(conv.Convert(content)), true, nil
}

// extractArticle returns the readable article of a page as HTML. ok is false
// when the page is too short or too link heavy to hold one.
func extractArticle(contents string) (string, bool) {
	article, err := readability.Extract(contents, readability.DefaultOptions())
	if err != nil || article.Root == nil {
		return "", false
	}
	html := readability.ToHTML(article.Root)
	if strings.TrimSpace(html) == "" {
		return "", false
	}
	return html, true
}
