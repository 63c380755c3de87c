package sitecheck

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ExtractLinks returns the href of every <a> element in document order.
// Empty hrefs are skipped.
func ExtractLinks(doc *html.Node) []string {
	var links []string
	if doc == nil {
		return links
	}

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && strings.TrimSpace(attr.Val) != "" {
					links = append(links, strings.TrimSpace(attr.Val))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)
	return links
}

// ResolveLink returns the request path a browser on pageURL would send for
// href. It reports false for links that leave the site (a scheme or host is
// present) and for links to the page itself (fragment or query only).
func ResolveLink(pageURL, href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}

	base := &url.URL{Path: pageURL}
	ref := &url.URL{Path: u.Path, RawPath: u.RawPath}
	return base.ResolveReference(ref).EscapedPath(), true
}
